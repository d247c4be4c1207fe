package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"gsrcli/internal/config"
	apierrors "gsrcli/internal/errors"
	"gsrcli/internal/infrastructure"
	custommiddleware "gsrcli/internal/middleware"
	"gsrcli/internal/services"
	transport "gsrcli/internal/transport/http"
)

// Version is set at build time via -ldflags.
var (
	Version   = "dev"
	BuildTime = ""
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	paths, err := config.GetPaths()
	if err != nil {
		return fmt.Errorf("resolving paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("creating data directories: %w", err)
	}

	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = paths.GetLogPath("web.log")
	}
	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	logger.Info("enrollment report server starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port),
		slog.String("level", cfg.Logging.Level),
		slog.String("data_dir", paths.DataDir))

	errorHandler := apierrors.NewErrorHandler(logger, false)
	reportService := services.NewReportService(cfg.Report, logger)
	healthService := services.NewHealthService(Version, BuildTime, paths, logger)

	router := setupRouter(cfg, logger, errorHandler, reportService, healthService)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupRouter(
	cfg *config.Config,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
	reportService *services.ReportService,
	healthService *services.HealthService,
) chi.Router {
	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommiddleware.StructuredLogger(logger))
	r.Use(custommiddleware.Recoverer(logger))

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	reportHandler := transport.NewReportHandler(
		reportService, errorHandler, cfg.Server.MaxUploadBytes, logger)
	healthHandler := transport.NewHealthHandler(healthService, logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(custommiddleware.NewRateLimiter(10, 20, logger).Handler)
		r.Use(custommiddleware.Timeout(cfg.Server.WriteTimeout, logger))

		r.Mount("/health", healthHandler.Routes())
		r.Mount("/reports", reportHandler.Routes())
	})

	return r
}
