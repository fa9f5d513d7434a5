// Package liquidity implements the liquidity bounded context: tick math,
// range calculation and rebalance decisions.
package liquidity

import (
	"context"

	blockchainDI "github.com/dlp-labs/vault-optimizer/business/blockchain/di"
	liquidityApp "github.com/dlp-labs/vault-optimizer/business/liquidity/app"
	liquidityDI "github.com/dlp-labs/vault-optimizer/business/liquidity/di"
	"github.com/dlp-labs/vault-optimizer/internal/config"
	"github.com/dlp-labs/vault-optimizer/internal/di"
	"github.com/dlp-labs/vault-optimizer/internal/logger"
	"github.com/dlp-labs/vault-optimizer/internal/monolith"
)

// Module implements the liquidity bounded context.
type Module struct{}

// RegisterServices registers all liquidity services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, liquidityDI.RangeCalculator, func(sr di.ServiceRegistry) *liquidityApp.RangeCalculator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return liquidityApp.NewRangeCalculator(cfg.Engine.HorizonMultipliers(), log)
	})

	di.RegisterToken(c, liquidityDI.DecisionEngine, func(sr di.ServiceRegistry) *liquidityApp.DecisionEngine {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		// Gas costs come from the blockchain context when an EVM endpoint is
		// configured; the engine falls back to the default cost otherwise.
		var gas liquidityApp.GasEstimator
		if cfg.Ethereum.HTTPURL != "" {
			gas = blockchainDI.GetGasService(sr)
		}

		engine, err := liquidityApp.NewDecisionEngine(
			liquidityApp.DecisionEngineConfig{
				TargetUtilization:  cfg.Engine.TargetUtilization,
				DefaultGasCostUSD:  cfg.Engine.DefaultGasCostUSD,
				FallbackConfidence: cfg.Prediction.FallbackConfidence,
			},
			liquidityDI.GetRangeCalculator(sr),
			gas,
			log,
		)
		if err != nil {
			panic("failed to create decision engine: " + err.Error())
		}
		return engine
	})

	di.RegisterToken(c, liquidityDI.RiskAssessor, func(sr di.ServiceRegistry) *liquidityApp.RiskAssessor {
		log := sr.Get("logger").(logger.LoggerInterface)
		return liquidityApp.NewRiskAssessor(log)
	})

	di.RegisterToken(c, liquidityDI.DeltaNeutralOptimizer, func(sr di.ServiceRegistry) *liquidityApp.DeltaNeutralOptimizer {
		log := sr.Get("logger").(logger.LoggerInterface)
		return liquidityApp.NewDeltaNeutralOptimizer(log)
	})

	return nil
}

// Startup initializes the liquidity module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "liquidity module started")
	return nil
}
