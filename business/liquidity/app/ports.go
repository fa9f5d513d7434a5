// Package app contains the liquidity optimization services: range
// calculation, rebalance decisions, risk scoring and delta-neutral planning.
package app

import "context"

// GasEstimator supplies the USD cost of executing a rebalance. Implemented
// by the blockchain context; the decision engine degrades to a configured
// default when the estimator is absent or failing.
type GasEstimator interface {
	EstimateRebalanceCostUSD(ctx context.Context) (float64, error)
}
