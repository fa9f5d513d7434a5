// Package arbitrage implements the arbitrage bounded context for cross-venue
// opportunity detection.
package arbitrage

import (
	"context"
	"fmt"

	arbitrageApp "github.com/dlp-labs/vault-optimizer/business/arbitrage/app"
	arbitrageDI "github.com/dlp-labs/vault-optimizer/business/arbitrage/di"
	"github.com/dlp-labs/vault-optimizer/business/arbitrage/infra"
	"github.com/dlp-labs/vault-optimizer/business/arbitrage/infra/feed"
	"github.com/dlp-labs/vault-optimizer/internal/asset"
	"github.com/dlp-labs/vault-optimizer/internal/config"
	"github.com/dlp-labs/vault-optimizer/internal/di"
	"github.com/dlp-labs/vault-optimizer/internal/logger"
	"github.com/dlp-labs/vault-optimizer/internal/monolith"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, arbitrageDI.Scanner, func(sr di.ServiceRegistry) *arbitrageApp.Scanner {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		scanner, err := arbitrageApp.NewScanner(arbitrageApp.ScannerConfig{
			MinProfitThreshold:  cfg.Arbitrage.MinProfitThresholdDecimal(),
			MaxSlippage:         cfg.Arbitrage.MaxSlippageDecimal(),
			FixedFee:            cfg.Arbitrage.FixedFeeDecimal(),
			SlippageCoefficient: cfg.Arbitrage.SlippageCoefficientDecimal(),
			OpportunityTTL:      cfg.Arbitrage.OpportunityTTL,
		}, log)
		if err != nil {
			panic("failed to create scanner: " + err.Error())
		}
		return scanner
	})

	di.RegisterToken(c, arbitrageDI.QuoteSource, func(sr di.ServiceRegistry) *feed.Source {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		pairs, err := scanPairs(registry, cfg.Arbitrage.Tokens)
		if err != nil {
			panic("failed to resolve scan pairs: " + err.Error())
		}

		source, err := feed.NewSource(feed.SourceConfig{
			WebSocketURL: cfg.Feed.WebSocketURL,
			Venues:       cfg.Feed.Venues,
			Pairs:        pairs,
			StaleTimeout: cfg.Feed.StaleTimeout,
		}, log)
		if err != nil {
			panic("failed to create quote source: " + err.Error())
		}
		return source
	})

	di.RegisterToken(c, arbitrageDI.Reporter, func(sr di.ServiceRegistry) arbitrageApp.Reporter {
		return infra.NewConsoleReporter()
	})

	di.RegisterToken(c, arbitrageDI.Monitor, func(sr di.ServiceRegistry) *arbitrageApp.Monitor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return arbitrageApp.NewMonitor(arbitrageApp.MonitorConfig{
			ScanInterval:   cfg.Arbitrage.ScanInterval,
			OpportunityTTL: cfg.Arbitrage.OpportunityTTL,
		},
			arbitrageDI.GetScanner(sr),
			arbitrageDI.GetQuoteSource(sr),
			arbitrageDI.GetReporter(sr),
			log,
		)
	})

	return nil
}

// scanPairs resolves the configured token list against the registry and
// enumerates every directed pair for the feed subscription. Unknown tokens
// fail registration.
func scanPairs(registry *asset.Registry, tokens []string) ([]string, error) {
	pairs, err := asset.PairsFromSymbols(registry, tokens)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("token list %v yields no pairs", tokens)
	}

	symbols := make([]string, len(pairs))
	for i, p := range pairs {
		symbols[i] = p.Symbol()
	}
	return symbols, nil
}

// Startup connects the feed and starts the scan loop.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	source := arbitrageDI.GetQuoteSource(mono.Services())

	if err := source.Connect(ctx); err != nil {
		mono.Logger().Warn(ctx, "venue feed connection failed, scans will be empty", "error", err)
	}

	monitor := arbitrageDI.GetMonitor(mono.Services())
	if err := monitor.Start(ctx); err != nil {
		return err
	}

	mono.Logger().Info(ctx, "arbitrage module started")
	return nil
}
