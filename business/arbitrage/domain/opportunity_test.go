package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestClassifyRisk(t *testing.T) {
	maxSlippage := decimal.NewFromFloat(0.02)

	tests := []struct {
		name         string
		slippage     decimal.Decimal
		liquidityUSD decimal.Decimal
		want         RiskTier
	}{
		{
			name:         "tight slippage in a deep pool",
			slippage:     decimal.NewFromFloat(0.001),
			liquidityUSD: decimal.NewFromInt(10_000_000),
			want:         RiskTierLow,
		},
		{
			// score = (0.01/0.02)*0.6 + (1 - 0.1)*0.4 = 0.66
			name:         "half the slippage budget in a shallow pool",
			slippage:     decimal.NewFromFloat(0.01),
			liquidityUSD: decimal.NewFromInt(1_000_000),
			want:         RiskTierHigh,
		},
		{
			// score = (0.005/0.02)*0.6 + (1 - 0.5)*0.4 = 0.35
			name:         "moderate slippage and depth",
			slippage:     decimal.NewFromFloat(0.005),
			liquidityUSD: decimal.NewFromInt(5_000_000),
			want:         RiskTierMedium,
		},
		{
			name:         "depth beyond the comfort level is not extra credit",
			slippage:     decimal.NewFromFloat(0.009),
			liquidityUSD: decimal.NewFromInt(50_000_000),
			want:         RiskTierLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyRisk(tt.slippage, maxSlippage, tt.liquidityUSD)
			if got != tt.want {
				t.Errorf("ClassifyRisk(%s, %s, %s) = %s, want %s",
					tt.slippage, maxSlippage, tt.liquidityUSD, got, tt.want)
			}
		})
	}
}

func TestVenueQuoteTieBreaks(t *testing.T) {
	price := decimal.NewFromFloat(1.25)

	deep := &VenueQuote{VenueID: "fuzio", Pair: "SEI-USDC", Price: price, LiquidityUSD: decimal.NewFromInt(2_000_000)}
	shallow := &VenueQuote{VenueID: "astroport", Pair: "SEI-USDC", Price: price, LiquidityUSD: decimal.NewFromInt(500_000)}

	if !deep.BetterBuy(shallow) {
		t.Error("equal prices: deeper venue should win the buy leg")
	}
	if !deep.BetterSell(shallow) {
		t.Error("equal prices: deeper venue should win the sell leg")
	}

	a := &VenueQuote{VenueID: "astroport", Pair: "SEI-USDC", Price: price, LiquidityUSD: decimal.NewFromInt(500_000)}
	b := &VenueQuote{VenueID: "dragonswap", Pair: "SEI-USDC", Price: price, LiquidityUSD: decimal.NewFromInt(500_000)}
	if !a.BetterBuy(b) {
		t.Error("equal price and depth: smaller venue id should win")
	}

	cheap := &VenueQuote{VenueID: "z", Pair: "SEI-USDC", Price: decimal.NewFromFloat(1.20), LiquidityUSD: decimal.NewFromInt(1)}
	if !cheap.BetterBuy(deep) {
		t.Error("price should dominate tie-break criteria on the buy leg")
	}
	if cheap.BetterSell(deep) {
		t.Error("lower price should lose the sell leg")
	}
}

func TestOpportunityExpiry(t *testing.T) {
	now := time.Now()
	opp := &Opportunity{DetectedAt: now, ExpiresAt: now.Add(30 * time.Second)}

	if opp.Expired(now) {
		t.Error("opportunity expired immediately")
	}
	if opp.Expired(now.Add(30 * time.Second)) {
		t.Error("opportunity should still be live exactly at the deadline")
	}
	if !opp.Expired(now.Add(31 * time.Second)) {
		t.Error("opportunity should expire past its TTL")
	}
}

func TestVenueQuoteValidate(t *testing.T) {
	valid := VenueQuote{
		VenueID:      "dragonswap",
		Pair:         "SEI-USDC",
		Price:        decimal.NewFromFloat(0.42),
		LiquidityUSD: decimal.NewFromInt(3_000_000),
		Timestamp:    time.Now(),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid quote rejected: %v", err)
	}

	bad := valid
	bad.Price = decimal.Zero
	if err := bad.Validate(); err == nil {
		t.Error("zero price accepted")
	}

	bad = valid
	bad.LiquidityUSD = decimal.NewFromInt(-1)
	if err := bad.Validate(); err == nil {
		t.Error("negative liquidity accepted")
	}

	bad = valid
	bad.VenueID = ""
	if err := bad.Validate(); err == nil {
		t.Error("empty venue id accepted")
	}
}
