// Package domain contains the core domain types for the prediction context.
package domain

import (
	"fmt"
	"math"

	liquidity "github.com/dlp-labs/vault-optimizer/business/liquidity/domain"
	"github.com/dlp-labs/vault-optimizer/internal/apperror"
)

// MarketConditions is the market snapshot sent with a prediction request.
type MarketConditions struct {
	Price          float64 `json:"price"`
	Volatility     float64 `json:"volatility"`
	Volume24h      float64 `json:"volume_24h"`
	LiquidityDepth float64 `json:"liquidity_depth"`
}

// RebalanceRequest is the payload for a rebalance analysis call.
type RebalanceRequest struct {
	VaultAddress     string           `json:"vault_address"`
	CurrentTick      int              `json:"current_tick"`
	LowerTick        int              `json:"lower_tick"`
	UpperTick        int              `json:"upper_tick"`
	UtilizationRate  float64          `json:"utilization_rate"`
	MarketConditions MarketConditions `json:"market_conditions"`
}

// Prediction is the model's rebalance verdict.
type Prediction struct {
	Action              string  `json:"action"`
	Urgency             string  `json:"urgency"`
	NewLowerTick        int     `json:"new_lower_tick"`
	NewUpperTick        int     `json:"new_upper_tick"`
	ExpectedImprovement float64 `json:"expected_improvement"`
	Confidence          float64 `json:"confidence"`
	RiskAssessment      string  `json:"risk_assessment"`
	GasCostEstimate     float64 `json:"gas_cost_estimate"`
}

// Validate checks the prediction field by field. A prediction that fails
// here is treated as a provider failure by the caller.
func (p *Prediction) Validate() error {
	if _, ok := liquidity.ParseAction(p.Action); !ok {
		return apperror.New(apperror.CodeInvalidPrediction,
			apperror.WithContext(fmt.Sprintf("bad action %q", p.Action)))
	}
	if _, ok := liquidity.ParseUrgency(p.Urgency); !ok {
		return apperror.New(apperror.CodeInvalidPrediction,
			apperror.WithContext(fmt.Sprintf("bad urgency %q", p.Urgency)))
	}
	if math.IsNaN(p.Confidence) || math.IsInf(p.Confidence, 0) || p.Confidence < 0 || p.Confidence > 1 {
		return apperror.New(apperror.CodeInvalidPrediction,
			apperror.WithContext(fmt.Sprintf("confidence %v outside [0,1]", p.Confidence)))
	}
	if math.IsNaN(p.ExpectedImprovement) || math.IsInf(p.ExpectedImprovement, 0) || p.ExpectedImprovement < 0 {
		return apperror.New(apperror.CodeInvalidPrediction,
			apperror.WithContext(fmt.Sprintf("bad expected improvement %v", p.ExpectedImprovement)))
	}
	if math.IsNaN(p.GasCostEstimate) || math.IsInf(p.GasCostEstimate, 0) || p.GasCostEstimate < 0 {
		return apperror.New(apperror.CodeInvalidPrediction,
			apperror.WithContext(fmt.Sprintf("bad gas cost %v", p.GasCostEstimate)))
	}

	if p.Action == string(liquidity.ActionRebalance) {
		if p.NewLowerTick >= p.NewUpperTick {
			return apperror.New(apperror.CodeInvalidPrediction,
				apperror.WithContext(fmt.Sprintf("collapsed range [%d, %d]",
					p.NewLowerTick, p.NewUpperTick)))
		}
		if p.NewLowerTick < liquidity.MinTick || p.NewUpperTick > liquidity.MaxTick {
			return apperror.New(apperror.CodeInvalidPrediction,
				apperror.WithContext(fmt.Sprintf("range [%d, %d] outside tick bounds",
					p.NewLowerTick, p.NewUpperTick)))
		}
	}

	return nil
}
