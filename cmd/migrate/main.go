package main

import (
	"errors"
	"flag"
	"log"

	"github.com/jjhbk/Devrang/internal/pkg/config"
	"github.com/jjhbk/Devrang/pkg/database"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	down := flag.Bool("down", false, "roll back every migration")
	source := flag.String("source", "file://migrations", "migration source url")
	flag.Parse()

	config.LoadConfig()
	cfg := config.GlobalConfig.Database
	if cfg.Driver != config.DriverPostgres {
		log.Printf("database.driver is %q, mongo indexes are created at startup; nothing to migrate", cfg.Driver)
		return
	}

	m, err := migrate.New(*source, database.MigrateURL(cfg))
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if *down {
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal(err)
		}
		log.Println("Rollback successful")
		return
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		// a failed run leaves the schema dirty; force back to the last good version and retry
		var dirty migrate.ErrDirty
		if !errors.As(err, &dirty) {
			log.Fatal(err)
		}
		prev := forceVersion(dirty.Version)
		log.Printf("Database is dirty at version %d, forcing %d...", dirty.Version, prev)
		if err := m.Force(prev); err != nil {
			log.Fatal("Failed to force version:", err)
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal(err)
		}
	}

	log.Println("Migration successful")
}

// forceVersion is the version to force when the schema is dirty at v.
func forceVersion(v int) int {
	if v <= 1 {
		return migratedb.NilVersion
	}
	return v - 1
}
