package app

import (
	"context"

	"github.com/dlp-labs/vault-optimizer/business/blockchain/domain"
	"github.com/dlp-labs/vault-optimizer/internal/logger"
)

// GasServiceConfig holds the cost model parameters.
type GasServiceConfig struct {
	// RebalanceGasLimit is the gas budget of one remove-add liquidity cycle.
	RebalanceGasLimit uint64

	// NativePriceUSD converts native-denominated gas costs to USD.
	NativePriceUSD float64
}

// GasService prices on-chain operations in USD for the decision layer.
type GasService struct {
	config GasServiceConfig
	oracle GasOracle
	logger logger.LoggerInterface
}

// NewGasService creates a GasService backed by the given oracle.
func NewGasService(cfg GasServiceConfig, oracle GasOracle, log logger.LoggerInterface) *GasService {
	return &GasService{
		config: cfg,
		oracle: oracle,
		logger: log,
	}
}

// GetGasPrice retrieves the current gas price.
func (s *GasService) GetGasPrice(ctx context.Context) (*domain.GasPrice, error) {
	return s.oracle.GetGasPrice(ctx)
}

// EstimateRebalanceCostUSD prices one rebalance at the current gas price.
func (s *GasService) EstimateRebalanceCostUSD(ctx context.Context) (float64, error) {
	price, err := s.oracle.GetGasPrice(ctx)
	if err != nil {
		return 0, err
	}

	estimate := domain.NewGasEstimate(s.config.RebalanceGasLimit, price)
	cost := estimate.CostUSD(s.config.NativePriceUSD)

	s.logger.Debug(ctx, "rebalance cost estimated",
		"gas_limit", s.config.RebalanceGasLimit,
		"gwei", price.Gwei(),
		"usd", cost)

	return cost, nil
}
