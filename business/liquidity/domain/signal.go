package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/dlp-labs/vault-optimizer/internal/apperror"
)

// MarketSignal is a point-in-time market observation for one asset.
type MarketSignal struct {
	Symbol         string    `json:"symbol"`
	Price          float64   `json:"price"`
	Volatility     float64   `json:"volatility"`
	Volume24h      float64   `json:"volume24h"`
	LiquidityDepth float64   `json:"liquidityDepth"`
	Timestamp      time.Time `json:"timestamp"`
}

// Validate checks the signal's numeric sanity.
func (s MarketSignal) Validate() error {
	if math.IsNaN(s.Price) || math.IsInf(s.Price, 0) || s.Price <= 0 {
		return apperror.New(apperror.CodeInvalidPrice,
			apperror.WithContext(fmt.Sprintf("signal price %v", s.Price)))
	}
	if math.IsNaN(s.Volatility) || math.IsInf(s.Volatility, 0) || s.Volatility < 0 {
		return apperror.New(apperror.CodeInvalidVolatility,
			apperror.WithContext(fmt.Sprintf("signal volatility %v", s.Volatility)))
	}
	if s.Volume24h < 0 || math.IsNaN(s.Volume24h) {
		return apperror.New(apperror.CodeValidationError,
			apperror.WithContext(fmt.Sprintf("signal volume %v", s.Volume24h)))
	}
	if s.LiquidityDepth < 0 || math.IsNaN(s.LiquidityDepth) {
		return apperror.New(apperror.CodeValidationError,
			apperror.WithContext(fmt.Sprintf("signal liquidity depth %v", s.LiquidityDepth)))
	}
	return nil
}

// VaultSnapshot is the observed state of a vault position.
type VaultSnapshot struct {
	Address         string     `json:"address"`
	Symbol          string     `json:"symbol"`
	CurrentTick     int        `json:"currentTick"`
	Range           PriceRange `json:"range"`
	UtilizationRate float64    `json:"utilizationRate"`
	TVL             float64    `json:"tvl"`
	Timestamp       time.Time  `json:"timestamp"`
}

// Validate checks the snapshot's internal consistency.
func (v VaultSnapshot) Validate() error {
	if v.Address == "" {
		return apperror.New(apperror.CodeValidationError,
			apperror.WithContext("vault address is empty"))
	}
	if math.IsNaN(v.UtilizationRate) || v.UtilizationRate < 0 || v.UtilizationRate > 1 {
		return apperror.New(apperror.CodeValidationError,
			apperror.WithContext(fmt.Sprintf("utilization %v outside [0,1]", v.UtilizationRate)))
	}
	if v.TVL < 0 || math.IsNaN(v.TVL) {
		return apperror.New(apperror.CodeValidationError,
			apperror.WithContext(fmt.Sprintf("tvl %v", v.TVL)))
	}
	if v.CurrentTick > MaxTick || v.CurrentTick < MinTick {
		return apperror.New(apperror.CodeTickOutOfRange,
			apperror.WithContext(fmt.Sprintf("current tick %d", v.CurrentTick)))
	}
	return v.Range.Validate()
}

// InRange reports whether the vault's current tick sits inside its range.
func (v VaultSnapshot) InRange() bool {
	return v.Range.Contains(v.CurrentTick)
}
