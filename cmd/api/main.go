package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/clinistock/backend/api/routes"
	"github.com/clinistock/backend/internal/analytics"
	"github.com/clinistock/backend/internal/auth"
	"github.com/clinistock/backend/internal/clinics"
	"github.com/clinistock/backend/internal/medicines"
	"github.com/clinistock/backend/internal/sales"
	"github.com/clinistock/backend/internal/settings"
	"github.com/clinistock/backend/internal/transfers"
	"github.com/clinistock/backend/internal/users"
	"github.com/clinistock/backend/pkg/auth/session"
	"github.com/clinistock/backend/pkg/config"
	"github.com/clinistock/backend/pkg/db"
	"github.com/clinistock/backend/pkg/logger"
	"github.com/clinistock/backend/pkg/metrics"
	"github.com/clinistock/backend/pkg/migrate"
	"github.com/clinistock/backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	opsMetrics := metrics.NewOpsMetrics(registry)

	medicineRepo := medicines.NewRepository(dbClient.DB())
	userRepo := users.NewRepository(dbClient.DB())

	medicineService, err := medicines.NewService(medicineRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create medicine service", err)
		os.Exit(1)
	}

	saleRepo := sales.NewRepository(dbClient.DB())
	saleService, err := sales.NewService(saleRepo, medicineRepo, dbClient, cfg.Report, opsMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create sale service", err)
		os.Exit(1)
	}

	transferRepo := transfers.NewRepository(dbClient.DB())
	transferService, err := transfers.NewService(transferRepo, medicineRepo, dbClient, opsMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create transfer service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(saleRepo, medicineRepo, cfg.Report)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	clinicService, err := clinics.NewService(medicineRepo, userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create clinic service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()), cfg.FeatureFlags.SettingsWriteWorkers)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, sessionManager, registry, routes.Services{
			Auth:      authService,
			Register:  registerService,
			Medicines: medicineService,
			Sales:     saleService,
			Transfers: transferService,
			Analytics: analyticsService,
			Clinics:   clinicService,
			Settings:  settingsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
