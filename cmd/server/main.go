package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"onrampcompare/internal/aggregate"
	"onrampcompare/internal/config"
	"onrampcompare/internal/httpx"
	"onrampcompare/internal/logging"
	"onrampcompare/internal/metrics"
	"onrampcompare/internal/registry"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to config.yaml (optional)")
	envFile := flag.String("env-file", "", "path to an env file with provider keys (optional)")
	flag.Parse()

	var opts []config.Option
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}
	cfg, err := config.Load(*cfgPath, opts...)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Server.LogLevel, os.Stdout)
	slog.SetDefault(logger)
	for _, name := range cfg.MissingKeys() {
		logger.Warn("provider enabled without api key", "provider", name)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	httpClient := httpx.New(cfg.Server.ProviderTimeout)
	agg := aggregate.New(
		registry.Providers(cfg, httpClient),
		aggregate.WithTimeout(cfg.Server.ProviderTimeout),
		aggregate.WithLogger(logger),
		aggregate.WithMetrics(metrics.New(reg)),
	)
	if len(agg.Providers()) == 0 {
		logger.Warn("no providers enabled; comparisons will be empty")
	}

	h := &compareHandler{agg: agg, timeout: cfg.Server.RequestTimeout, logger: logger}
	mux := newRouter(h, metricsHandler(reg))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           chain(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "providers", agg.Providers())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
