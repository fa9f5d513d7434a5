// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RiskTier buckets an opportunity by execution risk.
type RiskTier string

const (
	RiskTierLow    RiskTier = "low"
	RiskTierMedium RiskTier = "medium"
	RiskTierHigh   RiskTier = "high"
)

// Risk scoring parameters.
var (
	// liquidityComfortUSD is the combined depth above which liquidity
	// contributes no risk.
	liquidityComfortUSD = decimal.NewFromInt(10_000_000)

	slippageWeight  = decimal.NewFromFloat(0.6)
	liquidityWeight = decimal.NewFromFloat(0.4)

	riskLowCeiling    = decimal.NewFromFloat(0.3)
	riskMediumCeiling = decimal.NewFromFloat(0.6)
)

// ClassifyRisk scores an opportunity from its slippage headroom and the
// lesser venue's liquidity, then buckets the score into a tier.
func ClassifyRisk(estimatedSlippage, maxSlippage, lesserLiquidityUSD decimal.Decimal) RiskTier {
	slippageRatio := decimal.Zero
	if maxSlippage.IsPositive() {
		slippageRatio = estimatedSlippage.Div(maxSlippage)
	}

	liquidityRatio := lesserLiquidityUSD.Div(liquidityComfortUSD)
	if liquidityRatio.GreaterThan(decimal.NewFromInt(1)) {
		liquidityRatio = decimal.NewFromInt(1)
	}
	liquidityRisk := decimal.NewFromInt(1).Sub(liquidityRatio)

	score := slippageRatio.Mul(slippageWeight).Add(liquidityRisk.Mul(liquidityWeight))

	switch {
	case score.LessThan(riskLowCeiling):
		return RiskTierLow
	case score.LessThan(riskMediumCeiling):
		return RiskTierMedium
	default:
		return RiskTierHigh
	}
}

// Opportunity is a detected cross-venue price dislocation.
type Opportunity struct {
	ID                string          `json:"id"`
	Pair              string          `json:"pair"`
	BuyVenue          string          `json:"buy_venue"`
	SellVenue         string          `json:"sell_venue"`
	BuyPrice          decimal.Decimal `json:"buy_price"`
	SellPrice         decimal.Decimal `json:"sell_price"`
	PercentSpread     decimal.Decimal `json:"percent_spread"`
	MaxTradeSize      decimal.Decimal `json:"max_trade_size_usd"`
	EstimatedSlippage decimal.Decimal `json:"estimated_slippage"`
	NetProfitPercent  decimal.Decimal `json:"net_profit_percent"`
	BuyLiquidityUSD   decimal.Decimal `json:"buy_liquidity_usd"`
	SellLiquidityUSD  decimal.Decimal `json:"sell_liquidity_usd"`
	Risk              RiskTier        `json:"risk"`
	DetectedAt        time.Time       `json:"detected_at"`
	ExpiresAt         time.Time       `json:"expires_at"`
}

// Expired reports whether the opportunity is past its TTL.
func (o *Opportunity) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// LesserLiquidity returns the shallower of the two legs.
func (o *Opportunity) LesserLiquidity() decimal.Decimal {
	if o.BuyLiquidityUSD.LessThan(o.SellLiquidityUSD) {
		return o.BuyLiquidityUSD
	}
	return o.SellLiquidityUSD
}

// String renders a compact one-line summary.
func (o *Opportunity) String() string {
	return fmt.Sprintf("%s: buy %s@%s sell %s@%s spread=%s%% net=%s%% risk=%s",
		o.Pair,
		o.BuyVenue, o.BuyPrice.StringFixed(6),
		o.SellVenue, o.SellPrice.StringFixed(6),
		o.PercentSpread.Mul(decimal.NewFromInt(100)).StringFixed(3),
		o.NetProfitPercent.Mul(decimal.NewFromInt(100)).StringFixed(3),
		o.Risk)
}
