package bridge

import (
	"time"

	liquidityApp "github.com/dlp-labs/vault-optimizer/business/liquidity/app"
	liquidityDomain "github.com/dlp-labs/vault-optimizer/business/liquidity/domain"
)

// OptimalRangeRequest asks for a tick range around a price.
type OptimalRangeRequest struct {
	Price       float64 `json:"price" validate:"required,gt=0"`
	Volatility  float64 `json:"volatility" validate:"gte=0"`
	Horizon     string  `json:"horizon" default:"medium"`
	TickSpacing int     `json:"tickSpacing" default:"60" validate:"gt=0"`
}

// MarketConditionsRequest carries the observed market state.
type MarketConditionsRequest struct {
	Price          float64 `json:"price" validate:"required,gt=0"`
	Volatility     float64 `json:"volatility" validate:"gte=0"`
	Volume24h      float64 `json:"volume24h" validate:"gte=0"`
	LiquidityDepth float64 `json:"liquidityDepth" validate:"gte=0"`
}

// RebalanceAnalysisRequest carries a vault position and market state.
// Ticks are signed, so bounds are checked relative to each other only;
// the domain validates alignment and tick limits.
type RebalanceAnalysisRequest struct {
	VaultAddress     string                  `json:"vaultAddress" validate:"required"`
	Symbol           string                  `json:"symbol" default:"SEI"`
	CurrentTick      int                     `json:"currentTick"`
	LowerTick        int                     `json:"lowerTick"`
	UpperTick        int                     `json:"upperTick" validate:"gtfield=LowerTick"`
	TickSpacing      int                     `json:"tickSpacing" default:"60" validate:"gt=0"`
	UtilizationRate  float64                 `json:"utilizationRate" validate:"gte=0,lte=1"`
	TVL              float64                 `json:"tvl" validate:"gte=0"`
	MarketConditions MarketConditionsRequest `json:"marketConditions" validate:"required"`
}

// Snapshot converts the request into a domain vault snapshot.
func (r *RebalanceAnalysisRequest) Snapshot() liquidityDomain.VaultSnapshot {
	return liquidityDomain.VaultSnapshot{
		Address:     r.VaultAddress,
		Symbol:      r.Symbol,
		CurrentTick: r.CurrentTick,
		Range: liquidityDomain.PriceRange{
			LowerTick: r.LowerTick,
			UpperTick: r.UpperTick,
			Spacing:   r.TickSpacing,
		},
		UtilizationRate: r.UtilizationRate,
		TVL:             r.TVL,
		Timestamp:       time.Now().UTC(),
	}
}

// Signal converts the request into a domain market signal.
func (r *RebalanceAnalysisRequest) Signal() liquidityDomain.MarketSignal {
	return liquidityDomain.MarketSignal{
		Symbol:         r.Symbol,
		Price:          r.MarketConditions.Price,
		Volatility:     r.MarketConditions.Volatility,
		Volume24h:      r.MarketConditions.Volume24h,
		LiquidityDepth: r.MarketConditions.LiquidityDepth,
		Timestamp:      time.Now().UTC(),
	}
}

// ArbitrageScanRequest controls the scan endpoint. Refresh forces a fresh
// scan instead of serving the monitor's cached batch.
type ArbitrageScanRequest struct {
	Refresh bool `json:"refresh"`
}

// RiskAssessmentRequest maps onto the risk assessor's input.
type RiskAssessmentRequest struct {
	Volatility      float64 `json:"volatility" validate:"gte=0"`
	Correlation     float64 `json:"correlation" validate:"gte=-1,lte=1"`
	LiquidityUSD    float64 `json:"liquidityUsd" validate:"gte=0"`
	PositionSizeUSD float64 `json:"positionSizeUsd" validate:"gte=0"`
	PoolSizeUSD     float64 `json:"poolSizeUsd" validate:"gte=0"`
}

// Input converts the request into the assessor's input type.
func (r *RiskAssessmentRequest) Input() liquidityApp.RiskInput {
	return liquidityApp.RiskInput{
		Volatility:      r.Volatility,
		Correlation:     r.Correlation,
		LiquidityUSD:    r.LiquidityUSD,
		PositionSizeUSD: r.PositionSizeUSD,
		PoolSizeUSD:     r.PoolSizeUSD,
	}
}

// DeltaNeutralRequest describes a hedged LP position to optimize.
type DeltaNeutralRequest struct {
	Symbol       string  `json:"symbol" validate:"required"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Volatility   float64 `json:"volatility" validate:"gte=0"`
	NotionalUSD  float64 `json:"notionalUsd" validate:"gte=0"`
	TickSpacing  int     `json:"tickSpacing" default:"60" validate:"gt=0"`
	FundingAPR   float64 `json:"fundingApr" validate:"gte=0"`
	HedgeEnabled bool    `json:"hedgeEnabled"`
}

// Position converts the request into the optimizer's input type.
func (r *DeltaNeutralRequest) Position() liquidityApp.DeltaNeutralPosition {
	return liquidityApp.DeltaNeutralPosition{
		Symbol:       r.Symbol,
		Price:        r.Price,
		Volatility:   r.Volatility,
		NotionalUSD:  r.NotionalUSD,
		TickSpacing:  r.TickSpacing,
		FundingAPR:   r.FundingAPR,
		HedgeEnabled: r.HedgeEnabled,
	}
}
