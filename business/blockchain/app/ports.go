// Package app contains application services and port definitions for the blockchain context.
package app

import (
	"context"

	"github.com/dlp-labs/vault-optimizer/business/blockchain/domain"
)

// GasOracle defines the interface for gas price information.
type GasOracle interface {
	// GetGasPrice retrieves the current gas price.
	GetGasPrice(ctx context.Context) (*domain.GasPrice, error)

	// EstimateGas estimates the gas needed for a transaction.
	EstimateGas(ctx context.Context, data []byte, to string) (uint64, error)
}
