package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accountapp "github.com/bilemo/api/internal/application/account"
	catalogapp "github.com/bilemo/api/internal/application/catalog"
	"github.com/bilemo/api/internal/infrastructure/auth"
	"github.com/bilemo/api/internal/infrastructure/cache"
	"github.com/bilemo/api/internal/infrastructure/config"
	"github.com/bilemo/api/internal/infrastructure/logger"
	"github.com/bilemo/api/internal/infrastructure/persistence"
	"github.com/bilemo/api/internal/infrastructure/telemetry"
	"github.com/bilemo/api/internal/interfaces/http/handler"
	"github.com/bilemo/api/internal/interfaces/http/middleware"
	"github.com/bilemo/api/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

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
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting BileMo API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tel, err := telemetry.New(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		_ = tel.Shutdown(context.Background())
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.SlowQueryThreshold),
		logger.WithFullSQL(cfg.Telemetry.LogFullSQL))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.InstrumentDB(db.DB, telemetry.DBTracingConfig{
		Enabled:            cfg.Telemetry.Enabled && cfg.Telemetry.DBTracing,
		DBName:             cfg.Database.DBName,
		LogFullSQL:         cfg.Telemetry.LogFullSQL,
		SlowQueryThreshold: cfg.Telemetry.SlowQueryThreshold,
	}, tel.TracerProvider(), log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := cache.NewTagCacheFactory(cfg.Cache, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.Cache.AllowFallback),
	).CreateStore(startupCtx)
	cancelStartup()
	if err != nil {
		log.Fatal("Failed to initialize list cache", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing list cache", zap.Error(err))
		}
	}()

	// Revocations share Redis with the list cache so that every instance sees them
	var revoker auth.TokenRevoker
	if redisStore, ok := store.(*cache.RedisTagCache); ok {
		revoker = auth.NewRedisTokenRevoker(redisStore.Client())
	} else {
		memRevoker := auth.NewMemoryTokenRevoker()
		defer memRevoker.Close()
		revoker = memRevoker
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	cacheMetrics, err := telemetry.NewCacheMetrics(tel.Meter(telemetry.InstrumentationName))
	if err != nil {
		log.Fatal("Failed to register cache metrics", zap.Error(err))
	}
	readThrough := cache.NewReadThrough(store, cfg.Cache.TTL, cache.WithObserver(cacheMetrics))

	accounts := persistence.NewAccountRepositories(db.DB)
	accountTx := persistence.NewAccountTransactionScope(db.DB)
	catalog := persistence.NewCatalogRepositories(db.DB)
	catalogTx := persistence.NewCatalogTransactionScope(db.DB)

	clientService := accountapp.NewClientService(accounts.Clients(), accountTx, hasher, readThrough)
	customerService := accountapp.NewCustomerService(accounts.Customers(), accounts.Clients(), accountTx, readThrough)
	authService := accountapp.NewAuthService(accounts.Clients(), accountTx, hasher, jwtService, revoker)
	productService := catalogapp.NewProductService(catalog.Products(), catalogTx, readThrough)

	engine := router.NewEngine(router.Dependencies{
		HTTP:       cfg.HTTP,
		JWTService: jwtService,
		Revoker:    revoker,
		Roles:      clientService.Roles,
		Tracing: middleware.TracingConfig{
			Enabled:        tel.Enabled(),
			ServiceName:    cfg.App.Name,
			TracerProvider: tel.TracerProvider(),
		},
		Logger: log,
	}, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Client:   handler.NewClientHandler(clientService, cfg.Pagination),
		Customer: handler.NewCustomerHandler(customerService, cfg.Pagination),
		Product:  handler.NewProductHandler(productService, cfg.Pagination),
		Health:   handler.NewHealthHandler(db),
	})

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
