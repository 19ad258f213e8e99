//go:build integration

package testkit

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jjhbk/Devrang/internal/pkg/config"
	"github.com/jjhbk/Devrang/pkg/database"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

func start(t *testing.T, req testcontainers.ContainerRequest, port string) (string, string) {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "start %s", req.Image)
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate %s: %v", req.Image, err)
		}
	})

	host, err := c.Host(ctx)
	require.NoError(t, err)
	mapped, err := c.MappedPort(ctx, port)
	require.NoError(t, err)
	return host, mapped.Port()
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// Postgres starts postgres, applies migrations/ and returns a gorm handle
func Postgres(t *testing.T) *gorm.DB {
	t.Helper()
	host, port := start(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "devrang",
			"POSTGRES_PASSWORD": "devrang",
			"POSTGRES_DB":       "devrang",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432/tcp")

	cfg := config.DatabaseConfig{
		Driver:   config.DriverPostgres,
		Host:     host,
		Port:     port,
		User:     "devrang",
		Password: "devrang",
		DBName:   "devrang",
		SSLMode:  "disable",
		TimeZone: "UTC",
	}

	m, err := migrate.New("file://"+migrationsDir(), database.MigrateURL(cfg))
	require.NoError(t, err)
	require.NoError(t, m.Up())
	m.Close()

	db, err := database.InitPostgres(cfg, false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Mongo starts a single mongod and returns a database wired with the decimal codec
func Mongo(t *testing.T) *mongo.Database {
	t.Helper()
	host, port := start(t, testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
	}, "27017/tcp")

	client, db, err := database.InitMongo(context.Background(), config.DatabaseConfig{
		MongoURI: fmt.Sprintf("mongodb://%s:%s", host, port),
		MongoDB:  "devrang_test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return db
}

// Redis starts redis and returns a connected client
func Redis(t *testing.T) *redis.Client {
	t.Helper()
	host, port := start(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}, "6379/tcp")

	rdb, err := database.InitRedis(context.Background(), config.RedisConfig{Addr: host + ":" + port})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}
