// Package main is the entry point for the back-office API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"

	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/chart"
	"backoffice/internal/domain/company"
	"backoffice/internal/domain/supplier"
	"backoffice/internal/infrastructure/config"
	v1 "backoffice/internal/infrastructure/http/v1"
	"backoffice/internal/infrastructure/storage/postgres"
	"backoffice/internal/infrastructure/storage/postgres/auth_repo"
	"backoffice/internal/infrastructure/storage/postgres/chart_repo"
	"backoffice/internal/infrastructure/storage/postgres/company_repo"
	"backoffice/internal/infrastructure/storage/postgres/supplier_repo"
	"backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: !cfg.App.IsProduction(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	log.Infow("starting backoffice server", "env", cfg.App.Env)

	// --- Database ---
	if cfg.Migrations.AutoRun {
		if err := migrateUp(ctx, cfg); err != nil {
			log.Fatalw("failed to apply migrations", "error", err)
		}
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.ApplicationName = cfg.App.Name
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Collaborators ---
	registry, closeRegistry, err := newRegistry(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to set up company registry", "error", err)
	}
	defer closeRegistry()

	avatars, err := newAvatarStore(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to set up avatar storage", "error", err)
	}

	// --- Repositories ---
	userRepo := auth_repo.NewUserRepo(txManager)
	companyRepo := company_repo.NewCompanyRepo(txManager)
	partnerRepo := company_repo.NewPartnerRepo(txManager)
	activityRepo := company_repo.NewActivityRepo(txManager)
	accountRepo := chart_repo.NewAccountRepo(txManager)
	supplierRepo := supplier_repo.NewSupplierRepo(txManager)

	// --- Services ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	jwtConfig.Issuer = cfg.JWT.Issuer
	jwtConfig.AccessTokenTTL = cfg.JWT.AccessTTL
	jwtService := auth.NewJWTService(jwtConfig)

	authService := auth.NewService(userRepo, txManager, jwtService, avatars.store, auth.DefaultServiceConfig())
	companyService := company.NewService(companyRepo, partnerRepo, activityRepo, registry, txManager)
	activityService := company.NewActivityService(companyRepo, activityRepo, txManager)
	partnerService := company.NewPartnerService(companyRepo, partnerRepo, txManager)
	chartService := chart.NewService(accountRepo, companyRepo, txManager, cfg.Chart.MaxDepth)
	supplierService := supplier.NewService(supplierRepo, companyRepo, txManager)

	// --- Router ---
	if cfg.App.IsProduction() {
		setReleaseMode()
	}
	router := v1.NewRouter(v1.RouterConfig{
		ServiceName:  cfg.App.Name,
		Logger:       log,
		Health:       pool,
		JWTValidator: jwtService,
		MaxBodySize:  cfg.HTTP.MaxBodySize,
		MediaDir:     avatars.mediaDir,
		MediaPrefix:  avatars.mediaPrefix,
		Auth:         authService,
		Companies:    companyService,
		Activities:   activityService,
		Partners:     partnerService,
		Chart:        chartService,
		Suppliers:    supplierService,
	})

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.HTTP.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Trace-ID"},
		AllowCredentials: true,
	}).Handler(router)

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}
	pool.LogStats(ctx)
	log.Info("server stopped")
}
