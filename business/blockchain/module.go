// Package blockchain implements the blockchain bounded context for Sei EVM
// gas pricing.
package blockchain

import (
	"context"
	"math/big"

	"github.com/dlp-labs/vault-optimizer/business/blockchain/app"
	blockchainDI "github.com/dlp-labs/vault-optimizer/business/blockchain/di"
	"github.com/dlp-labs/vault-optimizer/business/blockchain/infra/ethereum"
	"github.com/dlp-labs/vault-optimizer/internal/config"
	"github.com/dlp-labs/vault-optimizer/internal/di"
	"github.com/dlp-labs/vault-optimizer/internal/logger"
	"github.com/dlp-labs/vault-optimizer/internal/monolith"
)

// Module implements the blockchain bounded context.
type Module struct{}

// RegisterServices registers all blockchain services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register GasOracle (private - internal dependency)
	di.RegisterToken(c, blockchainDI.GasOracle, func(sr di.ServiceRegistry) app.GasOracle {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		oracleCfg := ethereum.DefaultGasOracleConfig(cfg.Ethereum.HTTPURL, cfg.Ethereum.ChainID)
		if cfg.Ethereum.MaxGasPriceGwei > 0 {
			oracleCfg.MaxGasPrice = gweiToWei(cfg.Ethereum.MaxGasPriceGwei)
		}

		oracle, err := ethereum.NewGasOracle(oracleCfg, log)
		if err != nil {
			panic("failed to create gas oracle: " + err.Error())
		}
		return oracle
	})

	// Register GasService (public - exposed to other modules)
	di.RegisterToken(c, blockchainDI.GasService, func(sr di.ServiceRegistry) *app.GasService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewGasService(app.GasServiceConfig{
			RebalanceGasLimit: cfg.Ethereum.RebalanceGasLimit,
			NativePriceUSD:    cfg.Ethereum.NativePriceUSD,
		}, blockchainDI.GetGasOracle(sr), log)
	})

	return nil
}

func gweiToWei(gwei float64) *big.Int {
	wei, _ := new(big.Float).Mul(big.NewFloat(gwei), big.NewFloat(1e9)).Int(nil)
	return wei
}

// Startup connects the gas oracle when an endpoint is configured.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	if mono.Config().Ethereum.HTTPURL == "" {
		log.Info(ctx, "no EVM endpoint configured, gas costs fall back to defaults")
		return nil
	}

	oracle := blockchainDI.GetGasOracle(mono.Services())

	// Connect oracle (type assertion to access Connect method)
	if connector, ok := oracle.(interface{ Connect(context.Context) error }); ok {
		if err := connector.Connect(ctx); err != nil {
			log.Error(ctx, "failed to connect gas oracle", "error", err)
			// Don't fail - estimates degrade to configured defaults
		}
	}

	log.Info(ctx, "blockchain module started")
	return nil
}
