// Package main is the entry point for the liquidity optimization engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dlp-labs/vault-optimizer/business/arbitrage"
	arbitrageDI "github.com/dlp-labs/vault-optimizer/business/arbitrage/di"
	"github.com/dlp-labs/vault-optimizer/business/blockchain"
	"github.com/dlp-labs/vault-optimizer/business/liquidity"
	liquidityDI "github.com/dlp-labs/vault-optimizer/business/liquidity/di"
	"github.com/dlp-labs/vault-optimizer/business/prediction"
	predictionDI "github.com/dlp-labs/vault-optimizer/business/prediction/di"
	"github.com/dlp-labs/vault-optimizer/internal/apm"
	"github.com/dlp-labs/vault-optimizer/internal/bridge"
	"github.com/dlp-labs/vault-optimizer/internal/config"
	"github.com/dlp-labs/vault-optimizer/internal/health"
	"github.com/dlp-labs/vault-optimizer/internal/logger"
	"github.com/dlp-labs/vault-optimizer/internal/metrics"
	"github.com/dlp-labs/vault-optimizer/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

const healthPort = 8081

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("vault-optimizer %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	log := logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
	log.Info(ctx, "starting liquidity optimization engine",
		"version", version,
		"environment", cfg.App.Environment,
	)

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	healthServer := health.NewServer(healthPort, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", healthPort)
	}
	defer healthServer.Stop(ctx)

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Modules in dependency order: gas first, the decision engine consumes
	// it, arbitrage and prediction build on the rest.
	modules := []monolith.Module{
		&blockchain.Module{},
		&liquidity.Module{},
		&arbitrage.Module{},
		&prediction.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	registerHealthChecks(healthServer, mono, cfg)

	monitor := arbitrageDI.GetMonitor(mono.Services())
	defer monitor.Stop()

	source := arbitrageDI.GetQuoteSource(mono.Services())
	defer source.Close()

	if cfg.Bridge.Enabled {
		var modelStatus bridge.ModelStatusReporter
		if cfg.Prediction.Enabled && cfg.Prediction.BaseURL != "" {
			modelStatus = predictionDI.GetModelClient(mono.Services())
		}

		handler := bridge.NewHandler(
			log,
			liquidityDI.GetRangeCalculator(mono.Services()),
			liquidityDI.GetDecisionEngine(mono.Services()),
			predictionDI.GetPredictionService(mono.Services()),
			monitor,
			liquidityDI.GetRiskAssessor(mono.Services()),
			liquidityDI.GetDeltaNeutralOptimizer(mono.Services()),
			modelStatus,
		)

		server := bridge.NewServer(handler, log, bridge.WithPort(cfg.Bridge.Port))
		if err := server.Start(); err != nil {
			return fmt.Errorf("failed to start http bridge: %w", err)
		}
		defer server.Stop(context.Background())

		log.Info(ctx, "http bridge started", "port", cfg.Bridge.Port)
	}

	log.Info(ctx, "all modules started")

	<-ctx.Done()

	log.Info(ctx, "shutting down")
	return nil
}

func registerHealthChecks(server *health.Server, mono monolith.Monolith, cfg *config.Config) {
	if cfg.Feed.WebSocketURL != "" {
		source := arbitrageDI.GetQuoteSource(mono.Services())
		server.RegisterCheck("venue_feed", func(ctx context.Context) (bool, string) {
			if source.Connected() {
				return true, ""
			}
			return false, "venue feed disconnected"
		})
	}

	if cfg.Prediction.Enabled && cfg.Prediction.BaseURL != "" {
		client := predictionDI.GetModelClient(mono.Services())
		server.RegisterCheck("model_service", func(ctx context.Context) (bool, string) {
			if _, err := client.ModelsStatus(ctx); err != nil {
				return false, err.Error()
			}
			return true, ""
		})
	}
}
