package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/bicisena/bicisena-backend/api/routes"
	"github.com/bicisena/bicisena-backend/internal/movements"
	"github.com/bicisena/bicisena-backend/internal/riders"
	"github.com/bicisena/bicisena-backend/pkg/config"
	"github.com/bicisena/bicisena-backend/pkg/db"
	"github.com/bicisena/bicisena-backend/pkg/instance"
	"github.com/bicisena/bicisena-backend/pkg/logger"
	"github.com/bicisena/bicisena-backend/pkg/media"
	"github.com/bicisena/bicisena-backend/pkg/metrics"
	"github.com/bicisena/bicisena-backend/pkg/migrate"
	"github.com/bicisena/bicisena-backend/pkg/qr"
)

const shutdownTimeout = 15 * time.Second

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
		Env:         cfg.App.Env,
		Instance:    instance.GetID(),
		Format:      cfg.App.LogFormat,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	domainMetrics := metrics.NewDomainMetrics(registry)

	riderService, err := riders.NewService(riders.ServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		QR:             qr.NewEncoder(cfg.QR),
		Photos:         media.NewPhotoValidator(cfg.Media.MaxPhotoBytes),
		Metrics:        domainMetrics,
		Logger:         logg,
	})
	if err != nil {
		return err
	}

	movementService, err := movements.NewService(movements.ServiceParams{
		DB:      dbClient,
		Config:  cfg.Movements,
		Metrics: domainMetrics,
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"addr":                addr,
		"driver":              dbClient.Driver(),
		"enforce_alternation": cfg.Movements.EnforceAlternation,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Riders:      riderService,
			Movements:   movementService,
			HTTPMetrics: metrics.NewHTTPMetrics(registry),
			Gatherer:    registry,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return multierr.Append(server.Shutdown(shutdownCtx), <-serveErr)
}
