// Package app contains application services and port definitions for the prediction context.
package app

import (
	"context"

	"github.com/dlp-labs/vault-optimizer/business/prediction/domain"
)

// Provider calls the external model service.
type Provider interface {
	// PredictRebalance requests a rebalance verdict for one vault.
	PredictRebalance(ctx context.Context, req domain.RebalanceRequest) (*domain.Prediction, error)
}
