package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sitepulse/sitepulse/internal/core/engine"
	errwrap "github.com/sitepulse/sitepulse/internal/errors"
	"github.com/sitepulse/sitepulse/internal/metrics"
	"github.com/sitepulse/sitepulse/internal/observability"
	"github.com/sitepulse/sitepulse/internal/server"
	"github.com/sitepulse/sitepulse/internal/server/handlers"
)

var (
	serverPort int
	serverHost string
)

// signalHealthChecker implements HealthChecker for signal system
type signalHealthChecker struct{}

func (s signalHealthChecker) CheckHealth(ctx context.Context) error {
	return nil // Signal handlers are registered and ready
}

// telemetryHealthChecker ensures telemetry system and exporter are available
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return errwrap.NewInternalError("telemetry system not initialized")
	}
	return nil
}

// storeHealthChecker verifies the backing database responds to pings
type storeHealthChecker struct {
	ping func(ctx context.Context) error
}

func (s storeHealthChecker) CheckHealth(ctx context.Context) error {
	if s.ping == nil {
		return errwrap.NewInternalError("store not initialized")
	}
	if err := s.ping(ctx); err != nil {
		return errwrap.WrapDatabaseError(ctx, err, "store ping failed")
	}
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP scan server",
	Long: `Start the HTTP server with graceful shutdown support.

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Config reload (placeholder - restart recommended)

The server will cleanly shut down the HTTP server, close the store, and
flush logs on shutdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return errwrap.WrapConfigInvalid(cmd.Context(), err, "configuration invalid")
		}

		// Initialize server logger
		logLevel := viper.GetString("logging.level")
		observability.InitServerLogger(appName, logLevel)

		metricsPort := cfg.Metrics.Port
		if metricsPort == 0 {
			metricsPort = 9090
		}

		if cfg.Metrics.Enabled {
			if err := observability.InitMetrics(appName, metricsPort); err != nil {
				observability.ServerLogger.Error("Failed to initialize metrics",
					zap.Error(err))
				return errwrap.WrapInternal(cmd.Context(), err, "metrics initialization failed")
			}
		}

		observability.ServerLogger.Info("Initializing server",
			zap.String("service", appName),
			zap.String("version", versionInfo.Version),
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
			zap.Int("metrics_port", metricsPort))

		// Open the store backing the rate limiter and report cache
		db, err := openStore(cmd.Context(), cfg)
		if err != nil {
			observability.ServerLogger.Error("Failed to open store", zap.Error(err))
			return errwrap.WrapDatabaseError(cmd.Context(), err, "store initialization failed")
		}

		// Initialize health manager
		handlers.InitHealthManager(versionInfo.Version)
		hm := handlers.GetHealthManager()
		hm.RegisterChecker("signal_handlers", signalHealthChecker{})
		if cfg.Metrics.Enabled {
			hm.RegisterChecker("telemetry", telemetryHealthChecker{})
		}
		hm.RegisterChecker("store", storeHealthChecker{ping: db.DB.PingContext})

		// Wire the scan pipeline
		scanner := buildScanner(cfg)

		var cache handlers.ReportCache
		if cfg.Cache.Enabled {
			cache = db
		}
		scanHandlers := handlers.NewScanHandlers(scanner, cache, cfg.Cache.TTL)

		var limiter *engine.RateLimiter
		if cfg.RateLimit.Enabled {
			limiter = &engine.RateLimiter{
				Store:  db,
				Limit:  cfg.RateLimit.Limit,
				Window: cfg.RateLimit.Window,
			}
		}

		srv := server.New(cfg.Server, scanHandlers, limiter)

		metrics.SetServerStartTime(time.Now().Unix())

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if shutdownTimeout == 0 {
			shutdownTimeout = 10 * time.Second
		}

		// Register graceful shutdown handlers (LIFO order - last registered, first executed)
		// Handler 1: Flush logger (executed last)
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Flushing logger...")
			if err := observability.ServerLogger.Sync(); err != nil {
				// Sync errors are often benign (stdout/stderr already closed)
				observability.ServerLogger.Warn("Logger sync returned error (may be benign)",
					zap.Error(err))
			}
			return nil
		})

		// Handler 2: Close the store
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Closing store...")
			if err := db.Close(); err != nil {
				observability.ServerLogger.Warn("Store close returned error", zap.Error(err))
			}
			return nil
		})

		// Handler 3: Shutdown HTTP server (executed first)
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return errwrap.WrapInternal(ctx, err, "server shutdown failed")
			}

			observability.ServerLogger.Info("HTTP server stopped gracefully")
			return nil
		})

		// Register config reload handler (SIGHUP)
		signals.OnReload(func(ctx context.Context) error {
			observability.ServerLogger.Info("Received SIGHUP: attempting config reload")

			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); ok {
					observability.ServerLogger.Info("No config file found - using defaults and environment variables")
					return nil
				}
				observability.ServerLogger.Error("Failed to reload config file",
					zap.String("file", viper.ConfigFileUsed()),
					zap.Error(err))
				return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
			}

			observability.ServerLogger.Info("Configuration reloaded successfully",
				zap.String("file", viper.ConfigFileUsed()))

			return nil
		})

		// Enable double-tap force quit (Ctrl+C within 2 seconds)
		if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
			Window:  2 * time.Second,
			Message: "Press Ctrl+C again within 2 seconds to force quit",
		}); err != nil {
			observability.ServerLogger.Warn("Failed to enable double-tap force quit",
				zap.Error(err))
		}

		// Start server in background goroutine
		errChan := make(chan error, 1)
		go func() {
			observability.ServerLogger.Info("Starting HTTP server...",
				zap.String("host", cfg.Server.Host),
				zap.Int("port", cfg.Server.Port))
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		// Start signal listener in background
		go func() {
			if err := signals.Listen(cmd.Context()); err != nil {
				observability.ServerLogger.Error("Signal handler error", zap.Error(err))
				errChan <- err
			}
		}()

		// Wait for error or shutdown completion
		if err := <-errChan; err != nil {
			return errwrap.WrapInternal(cmd.Context(), err, "server error")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "server host")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "server port")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
