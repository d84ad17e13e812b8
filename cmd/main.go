package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/addrcheck/internal/config"
	"github.com/UnknownOlympus/addrcheck/internal/demo"
	"github.com/UnknownOlympus/addrcheck/internal/geocoding"
	"github.com/UnknownOlympus/addrcheck/internal/metrics"
	"github.com/UnknownOlympus/addrcheck/internal/selftest"
	"github.com/UnknownOlympus/addrcheck/internal/service"
	"github.com/UnknownOlympus/addrcheck/internal/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Create geocoding provider using factory pattern based on configuration
	providerConfig := geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.ProviderType),
		APIKey:    cfg.APIKey,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	}

	geoProvider, err := geocoding.NewProvider(providerConfig)
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}

	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.ProviderType)

	geoService := service.NewGeocodingService(
		logger,
		geoProvider,
		cfg.ProviderType, // Provider name for metrics
		appMetrics,
		service.TimerSleeper{},
		cfg.BatchDelay,
	)

	demos := demo.NewRunner(logger, geoService, demo.Inputs{
		Address:   cfg.Demo.Address,
		Latitude:  cfg.Demo.Latitude,
		Longitude: cfg.Demo.Longitude,
		Addresses: cfg.Demo.Addresses,
	})

	if cfg.Demo.OnStart {
		logger.InfoContext(ctx, "Running demos on start-up")
		demos.Run(ctx)
	}

	router := web.NewRouter(logger, selftest.NewGeocoderSuite(logger, geoService), demos, web.Options{
		TestsEnabled: cfg.Env == envLocal || cfg.Env == envDev,
		Gatherer:     reg,
	})

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	if err = runServer(ctx, logger, router, cfg.Port); err != nil {
		logger.ErrorContext(ctx, "Application stopped with error", "error", err)
		stop()
		os.Exit(1)
	}

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// runServer starts an HTTP server with the given handler and stops it when ctx is canceled.
//
// Parameters:
// - ctx: A context.Context whose cancellation triggers the shutdown.
// - log: A logger for logging server events and errors.
// - handler: The router serving the pages, health check and metrics.
// - port: The port number on which the server will listen.
func runServer(ctx context.Context, log *slog.Logger, handler http.Handler, port int) error {
	readTimeout := 5
	writeTimeout := 120 // the self-test page waits between batch items
	shutdownTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.InfoContext(groupCtx, "Starting web server", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "web server failed")
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		// Log that a shutdown signal has been received.
		log.InfoContext(context.WithoutCancel(groupCtx), "Shutdown signal received. Stopping web server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(groupCtx), time.Duration(shutdownTimeout)*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "failed to shut down web server")
		}
		return nil
	})

	return group.Wait()
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
