package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/inventory/backend/internal/application/catalog"
	inventoryapp "github.com/inventory/backend/internal/application/inventory"
	"github.com/inventory/backend/internal/infrastructure/config"
	"github.com/inventory/backend/internal/infrastructure/event"
	"github.com/inventory/backend/internal/infrastructure/lock"
	"github.com/inventory/backend/internal/infrastructure/logger"
	"github.com/inventory/backend/internal/infrastructure/persistence"
	"github.com/inventory/backend/internal/infrastructure/telemetry"
	"github.com/inventory/backend/internal/interfaces/http/handler"
	"github.com/inventory/backend/internal/interfaces/http/middleware"
	"github.com/inventory/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting inventory service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.Fatal("Failed to ping redis", zap.Error(err))
	}
	pingCancel()
	log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))

	// repositories and transaction scope
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	eventRecordRepo := persistence.NewGormEventRecordRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// distributed lock and event publishing
	lockManager := lock.NewRedisLockManager(redisClient, log)
	publisher := event.NewRedisEventPublisher(redisClient, cfg.Inventory.EventChannel, log)
	publisher.SetAuditRepository(eventRecordRepo)

	metrics := telemetry.NewMetrics()

	// application services
	reservationService := inventoryapp.NewReservationService(scope, lockManager, publisher, log, inventoryapp.Options{
		ReservationTTL: cfg.Inventory.ReservationTTL,
		LockTTL:        cfg.Inventory.LockTTL,
	})
	reservationService.SetMetricsRecorder(metrics)
	queryService := inventoryapp.NewQueryService(inventoryRepo, productRepo, storeRepo)
	catalogService := catalogapp.NewService(productRepo, storeRepo)

	// background expiration sweeper
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	if cfg.Inventory.SweeperEnabled {
		sweeper := inventoryapp.NewExpirationSweeper(reservationService, scope, cfg.Inventory.SweepInterval, log)
		go sweeper.Run(sweepCtx)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SecurityHeaders())
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))
	engine.Use(middleware.BodySizeLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Metrics(metrics))

	router.NewRouter(engine).
		Register(handler.NewInventoryHandler(reservationService, queryService, catalogService)).
		Register(handler.NewStoreHandler(catalogService, queryService)).
		Register(handler.NewHealthHandler(db, redisClient, metrics, version)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
