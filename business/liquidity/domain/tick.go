// Package domain contains the concentrated-liquidity core model: tick math,
// price ranges, vault state and rebalance recommendations.
package domain

import (
	"fmt"
	"math"

	"github.com/dlp-labs/vault-optimizer/internal/apperror"
)

// Tick bounds match the canonical concentrated-liquidity pool contracts:
// 1.0001^887272 is the largest representable price ratio.
const (
	MaxTick = 887272
	MinTick = -MaxTick

	tickBase = 1.0001
)

// logTickBase is ln(1.0001), the denominator of every price -> tick mapping.
var logTickBase = math.Log(tickBase)

// PriceToTick maps a price to the nearest tick index, rounding half away
// from zero so that PriceToTick(TickToPrice(t)) == t for every valid t.
func PriceToTick(price float64) (int, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, apperror.New(apperror.CodeInvalidPrice,
			apperror.WithContext(fmt.Sprintf("price %v", price)))
	}

	tick := int(math.Round(math.Log(price) / logTickBase))
	if tick > MaxTick || tick < MinTick {
		return 0, apperror.New(apperror.CodeTickOutOfRange,
			apperror.WithContext(fmt.Sprintf("price %v maps to tick %d", price, tick)))
	}

	return tick, nil
}

// TickToPrice returns the price 1.0001^tick.
func TickToPrice(tick int) (float64, error) {
	if tick > MaxTick || tick < MinTick {
		return 0, apperror.New(apperror.CodeTickOutOfRange,
			apperror.WithContext(fmt.Sprintf("tick %d", tick)))
	}
	return math.Pow(tickBase, float64(tick)), nil
}

// AlignDown returns the nearest multiple of spacing at or below tick.
// Exact multiples are returned unchanged. Correct for negative ticks:
// AlignDown(-50, 60) is -60, not 0.
func AlignDown(tick, spacing int) (int, error) {
	if spacing <= 0 {
		return 0, apperror.New(apperror.CodeInvalidTickSpacing,
			apperror.WithContext(fmt.Sprintf("spacing %d", spacing)))
	}

	q := tick / spacing
	if tick%spacing != 0 && tick < 0 {
		q--
	}
	return q * spacing, nil
}

// AlignUp returns the nearest multiple of spacing at or above tick.
func AlignUp(tick, spacing int) (int, error) {
	if spacing <= 0 {
		return 0, apperror.New(apperror.CodeInvalidTickSpacing,
			apperror.WithContext(fmt.Sprintf("spacing %d", spacing)))
	}

	q := tick / spacing
	if tick%spacing != 0 && tick > 0 {
		q++
	}
	return q * spacing, nil
}
