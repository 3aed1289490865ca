package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"subnetcalc/internal/api"
	"subnetcalc/internal/config"
	"subnetcalc/internal/observability"
	"subnetcalc/internal/subnet"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	addr := flag.String("addr", "", "listen address (host:port), overrides config")
	calcIP := flag.String("ip", "", "one-shot mode: base address to calculate for")
	calcPrefix := flag.Int("prefix", -1, "one-shot mode: CIDR prefix length (0-32)")
	calcMask := flag.String("mask", "", "one-shot mode: dotted-decimal subnet mask")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		observability.NewLogger(observability.DefaultConfig()).Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger := observability.NewLogger(observability.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// One-shot CLI mode: compute a single subnet and exit.
	if *calcIP != "" {
		runCalcCLI(logger, *calcIP, *calcPrefix, *calcMask)
		return
	}

	sentryEnabled := false
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			Release:          envOr("APP_VERSION", "dev"),
			TracesSampleRate: 1.0,
			AttachStacktrace: true,
		})
		if err != nil {
			logger.Warn("sentry initialization failed", "error", err)
		} else {
			logger.Info("sentry initialized",
				"environment", cfg.SentryEnvironment,
				"release", envOr("APP_VERSION", "dev"),
			)
			sentryEnabled = true
		}
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metricsCfg := observability.DefaultMetricsConfig()
		metricsCfg.Version = envOr("APP_VERSION", "dev")
		metrics = observability.NewMetrics(metricsCfg)
		logger.Info("metrics enabled",
			"namespace", metricsCfg.Namespace,
			"version", metricsCfg.Version,
		)
	} else {
		logger.Info("metrics disabled")
	}

	rateCfg := api.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}
	if !rateCfg.Enabled() {
		logger.Info("rate limiting disabled")
	} else {
		logger.Info("rate limiting configured",
			"requests_per_second", rateCfg.RequestsPerSecond,
			"burst", rateCfg.Burst,
		)
	}

	mux := http.NewServeMux()
	srv := api.NewServer(mux, logger, metrics)
	srv.RegisterRoutes()

	// Middleware stack: metrics (outermost) -> requestID -> logging -> rate limiting.
	handler := api.ApplyMiddlewares(
		mux,
		observability.MetricsMiddleware(metrics),
		api.RequestIDMiddleware(),
		api.LoggingMiddleware(logger.Slog()),
		api.RateLimitMiddleware(rateCfg, logger.Slog(), metrics),
	)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("subnetcalc listening", "addr", cfg.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	}

	logger.Info("shutting down server", "timeout", cfg.ShutdownTimeout.String())
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	} else {
		logger.Info("server stopped gracefully")
	}

	if sentryEnabled {
		logger.Info("flushing sentry events", "deadline", "2s")
		sentry.Flush(2 * time.Second)
	}

	logger.Info("shutdown complete")
}

// runCalcCLI computes one subnet from command line flags and prints the
// result as JSON on stdout.
func runCalcCLI(logger observability.Logger, ip string, prefix int, mask string) {
	var (
		result subnet.Subnet
		err    error
	)
	switch {
	case mask != "" && prefix >= 0:
		logger.Error("use either -prefix or -mask, not both")
		os.Exit(2)
	case mask != "":
		result, err = subnet.FromMask(ip, mask)
	case prefix >= 0:
		result, err = subnet.FromCIDR(ip, prefix)
	default:
		logger.Error("one of -prefix or -mask is required with -ip")
		os.Exit(2)
	}
	if err != nil {
		logger.Error("calculation failed", "error", err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
