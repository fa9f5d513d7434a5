package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dlp-labs/vault-optimizer/business/liquidity/domain"
	"github.com/dlp-labs/vault-optimizer/internal/apperror"
	"github.com/dlp-labs/vault-optimizer/internal/logger"
)

// Component weights and thresholds for aggregate vault risk. Impermanent
// loss dominates; concentration matters least.
const (
	weightImpermanentLoss = 0.30
	weightVolatility      = 0.25
	weightLiquidity       = 0.25
	weightConcentration   = 0.20

	maxVolatilityRef    = 0.8 // volatility at which the component saturates
	minLiquidityUSD     = 10_000
	comfortLiquidityUSD = 5 * minLiquidityUSD
	maxConcentrationRef = 0.7

	riskLowCeiling    = 0.3
	riskMediumCeiling = 0.6
)

// RiskInput describes a vault position for risk scoring.
type RiskInput struct {
	Volatility      float64 `json:"volatility"`
	Correlation     float64 `json:"correlation"` // pair asset correlation, [-1, 1]
	LiquidityUSD    float64 `json:"liquidityUsd"`
	PositionSizeUSD float64 `json:"positionSizeUsd"`
	PoolSizeUSD     float64 `json:"poolSizeUsd"`
}

// RiskComponents breaks the aggregate score into its weighted parts.
type RiskComponents struct {
	ImpermanentLoss float64 `json:"impermanentLoss"`
	Volatility      float64 `json:"volatility"`
	Liquidity       float64 `json:"liquidity"`
	Concentration   float64 `json:"concentration"`
}

// RiskAssessment is the weighted risk verdict for a vault.
type RiskAssessment struct {
	OverallScore    float64          `json:"overallScore"`
	Level           domain.RiskLevel `json:"level"`
	Components      RiskComponents   `json:"components"`
	Recommendations []string         `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}

// RiskAssessor scores vault positions across impermanent loss, volatility,
// liquidity depth and pool concentration.
type RiskAssessor struct {
	logger logger.LoggerInterface
}

// NewRiskAssessor creates a risk assessor.
func NewRiskAssessor(log logger.LoggerInterface) *RiskAssessor {
	return &RiskAssessor{logger: log}
}

// Assess computes the weighted risk score and level for input.
func (a *RiskAssessor) Assess(ctx context.Context, input RiskInput) (*RiskAssessment, error) {
	if err := validateRiskInput(input); err != nil {
		return nil, err
	}

	components := RiskComponents{
		ImpermanentLoss: impermanentLossRisk(input.Volatility, input.Correlation),
		Volatility:      math.Min(input.Volatility/maxVolatilityRef, 1),
		Liquidity:       liquidityRisk(input.LiquidityUSD),
		Concentration:   concentrationRisk(input.PositionSizeUSD, input.PoolSizeUSD),
	}

	score := components.ImpermanentLoss*weightImpermanentLoss +
		components.Volatility*weightVolatility +
		components.Liquidity*weightLiquidity +
		components.Concentration*weightConcentration

	level := classifyRisk(score)

	assessment := &RiskAssessment{
		OverallScore:    score,
		Level:           level,
		Components:      components,
		Recommendations: riskRecommendations(level),
		GeneratedAt:     time.Now().UTC(),
	}

	a.logger.Debug(ctx, "risk assessment",
		"score", score,
		"level", level,
		"il", components.ImpermanentLoss,
		"volatility", components.Volatility,
	)

	return assessment, nil
}

func validateRiskInput(input RiskInput) error {
	if math.IsNaN(input.Volatility) || math.IsInf(input.Volatility, 0) || input.Volatility < 0 {
		return apperror.New(apperror.CodeInvalidVolatility,
			apperror.WithContext(fmt.Sprintf("volatility %v", input.Volatility)))
	}
	if math.IsNaN(input.Correlation) || input.Correlation < -1 || input.Correlation > 1 {
		return apperror.New(apperror.CodeValidationError,
			apperror.WithContext(fmt.Sprintf("correlation %v outside [-1,1]", input.Correlation)))
	}
	if input.LiquidityUSD < 0 || input.PositionSizeUSD < 0 || input.PoolSizeUSD < 0 {
		return apperror.New(apperror.CodeValidationError,
			apperror.WithContext("usd amounts cannot be negative"))
	}
	return nil
}

// impermanentLossRisk grows with volatility and shrinks with correlation:
// perfectly correlated pairs cannot diverge.
func impermanentLossRisk(volatility, correlation float64) float64 {
	return math.Min(volatility*(1-correlation)*1.5, 1)
}

func liquidityRisk(liquidityUSD float64) float64 {
	switch {
	case liquidityUSD < minLiquidityUSD:
		return 0.8
	case liquidityUSD < comfortLiquidityUSD:
		return 0.4
	default:
		return 0.1
	}
}

func concentrationRisk(positionUSD, poolUSD float64) float64 {
	if poolUSD <= 0 {
		return 0
	}
	return math.Min((positionUSD/poolUSD)/maxConcentrationRef, 1)
}

func classifyRisk(score float64) domain.RiskLevel {
	switch {
	case score < riskLowCeiling:
		return domain.RiskLow
	case score < riskMediumCeiling:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

func riskRecommendations(level domain.RiskLevel) []string {
	switch level {
	case domain.RiskHigh:
		return []string{
			"reduce position size to limit exposure",
			"increase rebalancing frequency to cap impermanent loss",
			"consider hedging with perp futures",
		}
	case domain.RiskMedium:
		return []string{
			"monitor position for volatility spikes",
			"maintain the regular rebalancing schedule",
		}
	default:
		return []string{
			"position within acceptable risk parameters",
			"continue monitoring market conditions",
		}
	}
}
