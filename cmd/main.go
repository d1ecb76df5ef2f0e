package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budget_forecast/internal/analysis"
	"budget_forecast/internal/config"
	"budget_forecast/internal/handlers"
	"budget_forecast/internal/logger"
	"budget_forecast/internal/models"
	"budget_forecast/internal/monitoring"
	"budget_forecast/internal/repository"
	"budget_forecast/internal/repository/db"
	"budget_forecast/internal/server"
	"budget_forecast/internal/service"
)

const (
	configDir       = "configs"
	version         = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

// @title                       Budget Forecast API
// @version                     1.0
// @description                 Monthly spending forecasts with smart horizon validation and residual anomaly detection.
// @BasePath                    /
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
func main() {
	// load configs/config.yml (+ BUDGET_* env overrides)
	cfg, err := config.Load(configDir)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.LogLevel)

	classifier, err := analysis.NewClassifier(cfg.Anomaly.Thresholds)
	if err != nil {
		log.Fatalw("invalid anomaly thresholds", "err", err)
	}

	// open DB
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	metrics := monitoring.New()
	minSeverity := models.Severity(cfg.Anomaly.MinSeverity)

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Options{
		Classifier:      classifier,
		MinSeverity:     minSeverity,
		MaxUploadBytes:  cfg.Upload.MaxBytes,
		RetentionMaxAge: cfg.Retention.MaxAge,
		Auth:            cfg.Auth,
		Metrics:         metrics,
		Log:             log,
	})
	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		Metrics:        metrics,
		StreamInterval: cfg.Stream.Interval,
		MaxUploadBytes: cfg.Upload.MaxBytes,
		Thresholds:     cfg.Anomaly.Thresholds,
		MinSeverity:    minSeverity,
		AuthEnabled:    cfg.Auth.Enabled,
		Version:        version,
	})

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// retention sweeps (no-op when retention.max_age is 0)
	go services.Retention.Run(ctx, cfg.Retention.Interval)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)
	log.Infow("server started", "port", cfg.Port, "db", cfg.DB.Path, "auth", cfg.Auth.Enabled)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
