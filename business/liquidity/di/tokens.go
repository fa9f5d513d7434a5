// Package di contains dependency injection tokens for the liquidity context.
package di

import (
	"github.com/dlp-labs/vault-optimizer/business/liquidity/app"
	"github.com/dlp-labs/vault-optimizer/internal/di"
)

// Public service tokens - exposed to other modules
var (
	RangeCalculator       = di.NewToken[*app.RangeCalculator]("liquidity.RangeCalculator")
	DecisionEngine        = di.NewToken[*app.DecisionEngine]("liquidity.DecisionEngine")
	RiskAssessor          = di.NewToken[*app.RiskAssessor]("liquidity.RiskAssessor")
	DeltaNeutralOptimizer = di.NewToken[*app.DeltaNeutralOptimizer]("liquidity.DeltaNeutralOptimizer")
)

// Helper functions for type-safe access
func GetRangeCalculator(c di.ServiceRegistry) *app.RangeCalculator {
	return di.GetToken(c, RangeCalculator)
}

func GetDecisionEngine(c di.ServiceRegistry) *app.DecisionEngine {
	return di.GetToken(c, DecisionEngine)
}

func GetRiskAssessor(c di.ServiceRegistry) *app.RiskAssessor {
	return di.GetToken(c, RiskAssessor)
}

func GetDeltaNeutralOptimizer(c di.ServiceRegistry) *app.DeltaNeutralOptimizer {
	return di.GetToken(c, DeltaNeutralOptimizer)
}
