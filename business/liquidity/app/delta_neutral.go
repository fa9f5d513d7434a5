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

const (
	baseHedgeRatio = 0.95
	maxHedgeRatio  = 0.98

	// Delta-neutral positions run a tighter band than directional ones:
	// the hedge absorbs price exposure, so the LP leg chases fee density.
	neutralRangeBuffer = 0.08

	baseLPFeeAPR       = 0.25
	fundingRateAPR     = 0.08
	volCaptureFactor   = 0.15
	minDeltaNeutralAPR = 0.12
)

// DeltaNeutralPosition describes a hedged LP position to optimize.
type DeltaNeutralPosition struct {
	Symbol       string  `json:"symbol"`
	Price        float64 `json:"price"`
	Volatility   float64 `json:"volatility"`
	NotionalUSD  float64 `json:"notionalUsd"`
	TickSpacing  int     `json:"tickSpacing"`
	FundingAPR   float64 `json:"fundingApr,omitempty"`   // observed funding, 0 = use default
	HedgeEnabled bool    `json:"hedgeEnabled"`
}

// RevenueBreakdown itemizes expected APR sources.
type RevenueBreakdown struct {
	LPFees            float64 `json:"lpFees"`
	FundingRates      float64 `json:"fundingRates"`
	VolatilityCapture float64 `json:"volatilityCapture"`
}

// DeltaNeutralPlan is the optimizer's output.
type DeltaNeutralPlan struct {
	HedgeRatio  float64          `json:"hedgeRatio"`
	Range       domain.PriceRange `json:"range"`
	ExpectedAPR float64          `json:"expectedApr"`
	Revenue     RevenueBreakdown `json:"revenue"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// DeltaNeutralOptimizer sizes the hedge and the LP band for delta-neutral
// vault strategies.
type DeltaNeutralOptimizer struct {
	logger logger.LoggerInterface
}

// NewDeltaNeutralOptimizer creates an optimizer.
func NewDeltaNeutralOptimizer(log logger.LoggerInterface) *DeltaNeutralOptimizer {
	return &DeltaNeutralOptimizer{logger: log}
}

// Optimize computes the hedge ratio, LP range and revenue projection.
func (o *DeltaNeutralOptimizer) Optimize(ctx context.Context, pos DeltaNeutralPosition) (*DeltaNeutralPlan, error) {
	if math.IsNaN(pos.Price) || math.IsInf(pos.Price, 0) || pos.Price <= 0 {
		return nil, apperror.New(apperror.CodeInvalidPrice,
			apperror.WithContext(fmt.Sprintf("price %v", pos.Price)))
	}
	if math.IsNaN(pos.Volatility) || math.IsInf(pos.Volatility, 0) || pos.Volatility < 0 {
		return nil, apperror.New(apperror.CodeInvalidVolatility,
			apperror.WithContext(fmt.Sprintf("volatility %v", pos.Volatility)))
	}
	if pos.TickSpacing <= 0 {
		return nil, apperror.New(apperror.CodeInvalidTickSpacing,
			apperror.WithContext(fmt.Sprintf("spacing %d", pos.TickSpacing)))
	}

	// Volatile markets need a slightly deeper hedge, capped below full cover
	// so the position keeps a sliver of upside to pay for funding.
	hedgeRatio := math.Min(baseHedgeRatio+pos.Volatility*0.05, maxHedgeRatio)
	if !pos.HedgeEnabled {
		hedgeRatio = 0
	}

	buffer := neutralRangeBuffer * (1 + pos.Volatility*0.5)
	lowerTick, err := domain.PriceToTick(pos.Price * (1 - buffer))
	if err != nil {
		return nil, err
	}
	upperTick, err := domain.PriceToTick(pos.Price * (1 + buffer))
	if err != nil {
		return nil, err
	}
	lowerTick, err = domain.AlignDown(lowerTick, pos.TickSpacing)
	if err != nil {
		return nil, err
	}
	upperTick, err = domain.AlignUp(upperTick, pos.TickSpacing)
	if err != nil {
		return nil, err
	}
	if upperTick <= lowerTick {
		upperTick = lowerTick + pos.TickSpacing
	}

	r := domain.PriceRange{LowerTick: lowerTick, UpperTick: upperTick, Spacing: pos.TickSpacing}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	funding := pos.FundingAPR
	if funding <= 0 {
		funding = fundingRateAPR
	}

	revenue := RevenueBreakdown{
		// Tighter bands concentrate fees; 0.1/buffer is the density bonus.
		LPFees:            baseLPFeeAPR * math.Min(5.0, 0.1/buffer),
		FundingRates:      funding * hedgeRatio,
		VolatilityCapture: pos.Volatility * volCaptureFactor,
	}

	apr := revenue.LPFees + revenue.FundingRates + revenue.VolatilityCapture
	apr = math.Max(apr, minDeltaNeutralAPR)

	plan := &DeltaNeutralPlan{
		HedgeRatio:  hedgeRatio,
		Range:       r,
		ExpectedAPR: apr,
		Revenue:     revenue,
		GeneratedAt: time.Now().UTC(),
	}

	o.logger.Debug(ctx, "delta neutral plan",
		"symbol", pos.Symbol,
		"hedge_ratio", hedgeRatio,
		"range", r.String(),
		"expected_apr", apr,
	)

	return plan, nil
}
