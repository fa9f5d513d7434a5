package app

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/dlp-labs/vault-optimizer/business/liquidity/domain"
	"github.com/dlp-labs/vault-optimizer/internal/apperror"
	"github.com/dlp-labs/vault-optimizer/internal/logger"
)

const (
	// Volatility is amplified before banding; wide markets get wide ranges,
	// but the half-width never exceeds 50% of price per horizon unit.
	volatilityFactor = 1.2
	maxAdjustment    = 0.5

	defaultHorizon = "medium"
)

// DefaultHorizonMultipliers maps horizon labels to range width multipliers.
var DefaultHorizonMultipliers = map[string]float64{
	"short":  0.5,
	"medium": 1.0,
	"long":   1.5,
}

// RangeCalculator derives tick-aligned liquidity ranges from price and
// volatility observations.
type RangeCalculator struct {
	multipliers map[string]float64
	logger      logger.LoggerInterface
}

// NewRangeCalculator creates a calculator. Pass nil multipliers for defaults.
func NewRangeCalculator(multipliers map[string]float64, log logger.LoggerInterface) *RangeCalculator {
	if len(multipliers) == 0 {
		multipliers = DefaultHorizonMultipliers
	}
	return &RangeCalculator{multipliers: multipliers, logger: log}
}

// ComputeRange returns a tick range banded around price. The half-width is
// min(volatility*1.2, 0.5) scaled by the horizon multiplier; bounds are
// rounded conservatively outward (lower down, upper up) to the spacing grid.
//
// Unknown horizon labels fall back to the medium multiplier rather than
// erroring: callers feed free-form labels from upstream strategy configs.
func (c *RangeCalculator) ComputeRange(ctx context.Context, price, volatility float64, horizon string, spacing int) (domain.PriceRange, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return domain.PriceRange{}, apperror.New(apperror.CodeInvalidPrice,
			apperror.WithContext(fmt.Sprintf("price %v", price)))
	}
	if math.IsNaN(volatility) || math.IsInf(volatility, 0) || volatility < 0 {
		return domain.PriceRange{}, apperror.New(apperror.CodeInvalidVolatility,
			apperror.WithContext(fmt.Sprintf("volatility %v", volatility)))
	}
	if spacing <= 0 {
		return domain.PriceRange{}, apperror.New(apperror.CodeInvalidTickSpacing,
			apperror.WithContext(fmt.Sprintf("spacing %d", spacing)))
	}

	adjustment := math.Min(volatility*volatilityFactor, maxAdjustment)
	multiplier := c.horizonMultiplier(ctx, horizon)

	rawLower := price * (1 - adjustment*multiplier)
	rawUpper := price * (1 + adjustment*multiplier)

	// Oversized custom multipliers can push the lower bound nonpositive;
	// floor it at the smallest representable price instead of failing.
	if rawLower <= 0 {
		rawLower = math.Pow(1.0001, domain.MinTick)
	}

	lowerTick, err := domain.PriceToTick(rawLower)
	if err != nil {
		return domain.PriceRange{}, err
	}
	upperTick, err := domain.PriceToTick(rawUpper)
	if err != nil {
		return domain.PriceRange{}, err
	}

	lowerTick, err = domain.AlignDown(lowerTick, spacing)
	if err != nil {
		return domain.PriceRange{}, err
	}
	upperTick, err = domain.AlignUp(upperTick, spacing)
	if err != nil {
		return domain.PriceRange{}, err
	}

	// Zero volatility collapses both bounds onto the same grid point.
	if upperTick <= lowerTick {
		if lowerTick+spacing > domain.MaxTick {
			lowerTick -= spacing
		}
		upperTick = lowerTick + spacing
	}

	r := domain.PriceRange{LowerTick: lowerTick, UpperTick: upperTick, Spacing: spacing}
	if err := r.Validate(); err != nil {
		return domain.PriceRange{}, err
	}

	return r, nil
}

func (c *RangeCalculator) horizonMultiplier(ctx context.Context, horizon string) float64 {
	if mult, ok := c.multipliers[strings.ToLower(horizon)]; ok {
		return mult
	}

	if c.logger != nil {
		c.logger.Debug(ctx, "unknown horizon label, using medium multiplier", "horizon", horizon)
	}
	if mult, ok := c.multipliers[defaultHorizon]; ok {
		return mult
	}
	return DefaultHorizonMultipliers[defaultHorizon]
}
