package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"

	"github.com/regipulse/regipulse/pkg/api"
	"github.com/regipulse/regipulse/pkg/config"
	"github.com/regipulse/regipulse/pkg/datasource"
	"github.com/regipulse/regipulse/pkg/httputil"
	"github.com/regipulse/regipulse/pkg/observability"
	"github.com/regipulse/regipulse/pkg/registrations"
	"github.com/regipulse/regipulse/pkg/resultcache"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := observability.NewLogger(parseLogLevel(cfg.LogLevel), os.Stdout)
	logger.WithFields(map[string]interface{}{
		"source": cfg.DataSource.Type,
		"port":   cfg.Server.Port,
	}).Info("starting regipulse")

	provider, closeProvider, err := buildProvider(cfg.DataSource)
	if err != nil {
		return fmt.Errorf("configuring data source: %w", err)
	}
	if closeProvider != nil {
		defer closeProvider()
	}

	var metrics *observability.Metrics
	if cfg.Metrics {
		metrics = observability.NewMetrics(nil)
	}

	server := api.NewServer(provider, &resultcache.Config{
		MaxEntries: cfg.Cache.MaxEntries,
		TTL:        cfg.Cache.TTL,
	}, logger, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := server.Refresh(ctx); err != nil {
		return fmt.Errorf("loading initial dataset: %w", err)
	}

	scheduler, err := startRefreshSchedule(cfg.DataSource.RefreshSchedule, server, logger)
	if err != nil {
		return err
	}

	if cfg.DataSource.WatchFile {
		if err := startFileWatcher(ctx, cfg.DataSource.Path, provider, server, logger); err != nil {
			return err
		}
	}

	r := mux.NewRouter()
	r.Use(httputil.RequestIDMiddleware)
	r.Use(httputil.LoggingMiddleware(logger))
	r.Use(httputil.RecoveryMiddleware(logger))
	if metrics != nil {
		r.Use(metrics.Middleware)
	}
	server.RegisterRoutes(r)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	healthServer := startHealthServer(cfg, server, metrics, logger)

	go func() {
		logger.Infof("listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		cancel()
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		return healthServer.Shutdown(ctx)
	})

	return shutdown.WaitForShutdown()
}

// buildProvider selects the data source from configuration. The returned
// close function is non-nil for sources holding resources.
func buildProvider(cfg config.DataSourceConfig) (datasource.Provider, func() error, error) {
	switch cfg.Type {
	case "synthetic":
		return datasource.NewSynthetic(), nil, nil
	case "csv":
		return datasource.NewCSV(cfg.Path), nil, nil
	case "sqlite":
		db, err := datasource.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case "vahan":
		client := datasource.NewVahanClient()
		if cfg.VahanBaseURL != "" {
			client.BaseURL = cfg.VahanBaseURL
		}
		client.StateCode = cfg.VahanStateCode
		return client, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown data source type: %q", cfg.Type)
	}
}

// startRefreshSchedule schedules periodic dataset refreshes when a cron
// expression is configured.
func startRefreshSchedule(schedule string, server *api.Server, logger *observability.Logger) (*cron.Cron, error) {
	if schedule == "" {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := server.Refresh(ctx); err != nil {
			logger.WithError(err).Error("scheduled dataset refresh failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}

	c.Start()
	logger.WithField("schedule", schedule).Info("dataset refresh scheduled")
	return c, nil
}

// startFileWatcher reloads the dataset whenever the source file changes.
func startFileWatcher(ctx context.Context, path string, provider datasource.Provider, server *api.Server, logger *observability.Logger) error {
	watcher, err := datasource.NewWatcher(path, provider,
		func(table registrations.Table) {
			server.ReplaceDataset(table)
			logger.WithField("rows", len(table)).Info("dataset reloaded from file")
		},
		func(err error) {
			logger.WithError(err).Error("file watcher error")
		})
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	go func() {
		if err := watcher.Run(ctx); err != nil && err != context.Canceled {
			logger.WithError(err).Error("file watcher stopped")
		}
	}()
	logger.WithField("path", path).Info("watching data file for changes")
	return nil
}

// startHealthServer serves the liveness, readiness and metrics endpoints on
// the dedicated health port.
func startHealthServer(cfg *config.Config, server *api.Server, metrics *observability.Metrics, logger *observability.Logger) *http.Server {
	checker := observability.NewHealthChecker(server.Probe)

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", checker.Liveness)
	healthMux.HandleFunc("/readyz", checker.Readiness)
	if metrics != nil {
		healthMux.Handle("/metrics", metrics.Handler())
	}

	healthServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HealthPort),
		Handler: healthMux,
	}
	go func() {
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("health server failed")
		}
	}()
	return healthServer
}

func parseLogLevel(level string) observability.LogLevel {
	switch level {
	case "debug":
		return observability.DebugLevel
	case "warn":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}
