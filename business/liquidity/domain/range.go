package domain

import (
	"fmt"

	"github.com/dlp-labs/vault-optimizer/internal/apperror"
)

// PriceRange is a liquidity position's tick interval. Both bounds must be
// multiples of Spacing; the lower bound is inclusive, the upper exclusive,
// matching pool contract semantics.
type PriceRange struct {
	LowerTick int `json:"lowerTick"`
	UpperTick int `json:"upperTick"`
	Spacing   int `json:"spacing"`
}

// Validate checks range well-formedness.
func (r PriceRange) Validate() error {
	if r.Spacing <= 0 {
		return apperror.New(apperror.CodeInvalidTickSpacing,
			apperror.WithContext(fmt.Sprintf("spacing %d", r.Spacing)))
	}
	if r.LowerTick < MinTick || r.UpperTick > MaxTick {
		return apperror.New(apperror.CodeTickOutOfRange,
			apperror.WithContext(fmt.Sprintf("range [%d, %d]", r.LowerTick, r.UpperTick)))
	}
	if r.LowerTick >= r.UpperTick {
		return apperror.New(apperror.CodeInvalidRange,
			apperror.WithContext(fmt.Sprintf("lower %d >= upper %d", r.LowerTick, r.UpperTick)))
	}
	if r.LowerTick%r.Spacing != 0 || r.UpperTick%r.Spacing != 0 {
		return apperror.New(apperror.CodeInvalidRange,
			apperror.WithContext(fmt.Sprintf("range [%d, %d] not aligned to spacing %d",
				r.LowerTick, r.UpperTick, r.Spacing)))
	}
	return nil
}

// Width returns the tick span of the range.
func (r PriceRange) Width() int {
	return r.UpperTick - r.LowerTick
}

// Contains reports whether tick falls inside [LowerTick, UpperTick).
func (r PriceRange) Contains(tick int) bool {
	return tick >= r.LowerTick && tick < r.UpperTick
}

// LowerPrice returns the price at the lower bound.
func (r PriceRange) LowerPrice() (float64, error) {
	return TickToPrice(r.LowerTick)
}

// UpperPrice returns the price at the upper bound.
func (r PriceRange) UpperPrice() (float64, error) {
	return TickToPrice(r.UpperTick)
}

func (r PriceRange) String() string {
	return fmt.Sprintf("[%d, %d]/%d", r.LowerTick, r.UpperTick, r.Spacing)
}
