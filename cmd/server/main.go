package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jjhbk/Devrang/docs"
	_ "github.com/jjhbk/Devrang/internal/domain/catalog"
	_ "github.com/jjhbk/Devrang/internal/domain/checkout"
	_ "github.com/jjhbk/Devrang/internal/domain/common"
	_ "github.com/jjhbk/Devrang/internal/domain/customer"
	_ "github.com/jjhbk/Devrang/internal/domain/operator"
	_ "github.com/jjhbk/Devrang/internal/domain/order"
	"github.com/jjhbk/Devrang/internal/pkg/config"
	"github.com/jjhbk/Devrang/internal/pkg/middleware"
	"github.com/jjhbk/Devrang/internal/pkg/push"
	"github.com/jjhbk/Devrang/internal/pkg/registry"
	"github.com/jjhbk/Devrang/internal/pkg/uploader"
	"github.com/jjhbk/Devrang/internal/pkg/worker"
	"github.com/jjhbk/Devrang/pkg/cache"
	"github.com/jjhbk/Devrang/pkg/database"
	"github.com/jjhbk/Devrang/pkg/logger"
	"github.com/jjhbk/Devrang/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// @title Devrang API
// @version 1.0
// @description Gemstone storefront backend for astrologers
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.LoadConfig()
	cfg := &config.GlobalConfig

	if err := logger.InitLogger(cfg.App.Env, cfg.App.Debug); err != nil {
		panic(err)
	}
	defer logger.Sync()

	// amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mctx := &registry.ModuleContext{Config: cfg}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.InitPostgres(cfg.Database, cfg.App.Debug)
		if err != nil {
			logger.Log.Fatal("Failed to connect to postgres", zap.Error(err))
		}
		mctx.DB = db
		sqlDB, err := db.DB()
		if err != nil {
			logger.Log.Fatal("Failed to get sql.DB", zap.Error(err))
		}
		defer sqlDB.Close()
		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, sqlDB, cfg.Database.DBName); err != nil {
			logger.Log.Warn("Pool metrics not registered", zap.Error(err))
		}
		mctx.Jobs = append(mctx.Jobs, database.NewPoolMonitor(sqlDB, 30*time.Second))
	default:
		client, db, err := database.InitMongo(ctx, cfg.Database)
		if err != nil {
			logger.Log.Fatal("Failed to connect to mongo", zap.Error(err))
		}
		mctx.Mongo = db
		defer client.Disconnect(context.Background())
	}

	rdb, err := database.InitRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()
	mctx.Redis = rdb
	mctx.Cache = cache.NewMultiLevelCache(cache.NewMemoryCache(), cache.NewRedisCache(rdb, "devrang"), 30*time.Second)

	m := metrics.GetGlobalCollector()
	mctx.Metrics = m

	pool := worker.NewWorkerPool(push.New(cfg.Push), m, 4, 256)
	pool.Start()
	mctx.Notifier = pool

	if err := uploader.InitUploader(cfg.OSS); err != nil {
		logger.Log.Warn("Uploader disabled", zap.Error(err))
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.QPS), cfg.RateLimit.Burst)
	r.Use(
		middleware.RecoveryMiddleware(),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.SecurityHeadersMiddleware(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.MetricsMiddleware(m),
		middleware.RateLimitMiddleware(limiter),
	)
	mctx.Router = r

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.App.Env != "prod" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if err := registry.InitModules(mctx); err != nil {
		logger.Log.Fatal("Failed to init modules", zap.Error(err))
	}

	done := make(chan struct{})
	go middleware.RuntimeSampler(m, 15*time.Second, done)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				limiter.Cleanup(10 * time.Minute)
			}
		}
	}()

	var jobs sync.WaitGroup
	for _, job := range mctx.Jobs {
		jobs.Add(1)
		go func(j registry.Job) {
			defer jobs.Done()
			logger.Log.Info("Job started", zap.String("job", j.Name()))
			if err := j.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Log.Error("Job stopped", zap.String("job", j.Name()), zap.Error(err))
			}
		}(job)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	close(done)
	jobs.Wait()
	pool.Stop()
	logger.Log.Info("Server exited")
}
