package app

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dlp-labs/vault-optimizer/business/arbitrage/domain"
)

type mockLogger struct{}

func (mockLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (mockLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (mockLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (mockLogger) Error(ctx context.Context, msg string, args ...any) {}

func testScannerConfig() ScannerConfig {
	return ScannerConfig{
		MinProfitThreshold:  decimal.NewFromFloat(0.005),
		MaxSlippage:         decimal.NewFromFloat(0.02),
		FixedFee:            decimal.NewFromFloat(0.003),
		SlippageCoefficient: decimal.NewFromFloat(0.05),
		OpportunityTTL:      30 * time.Second,
	}
}

func newTestScanner(t *testing.T, cfg ScannerConfig) *Scanner {
	t.Helper()
	s, err := NewScanner(cfg, mockLogger{})
	if err != nil {
		t.Fatalf("failed to create scanner: %v", err)
	}
	return s
}

func quote(venue, pair string, price float64, liquidity int64) domain.VenueQuote {
	return domain.VenueQuote{
		VenueID:      venue,
		Pair:         pair,
		Price:        decimal.NewFromFloat(price),
		LiquidityUSD: decimal.NewFromInt(liquidity),
		Timestamp:    time.Now(),
	}
}

func TestScanDetectsSpread(t *testing.T) {
	scanner := newTestScanner(t, testScannerConfig())

	quotes := []domain.VenueQuote{
		quote("dragonswap", "SEI-USDC", 1.00, 4_000_000),
		quote("astroport", "SEI-USDC", 1.02, 2_000_000),
		quote("fuzio", "SEI-USDC", 1.01, 1_000_000),
	}

	opps := scanner.Scan(context.Background(), quotes)
	if len(opps) != 1 {
		t.Fatalf("got %d opportunities, want 1", len(opps))
	}
	opp := opps[0]

	if opp.BuyVenue != "dragonswap" || opp.SellVenue != "astroport" {
		t.Errorf("legs = buy %s / sell %s, want dragonswap / astroport", opp.BuyVenue, opp.SellVenue)
	}
	if !opp.PercentSpread.Equal(decimal.NewFromFloat(0.02)) {
		t.Errorf("spread = %s, want 0.02", opp.PercentSpread)
	}

	// a tenth of the shallower leg (2M)
	if !opp.MaxTradeSize.Equal(decimal.NewFromInt(200_000)) {
		t.Errorf("trade size = %s, want 200000", opp.MaxTradeSize)
	}

	// sqrt(0.1) * 0.05
	wantSlip := decimal.NewFromFloat(0.0158113883)
	if opp.EstimatedSlippage.Sub(wantSlip).Abs().GreaterThan(decimal.NewFromFloat(1e-8)) {
		t.Errorf("slippage = %s, want ~%s", opp.EstimatedSlippage, wantSlip)
	}

	wantNet := opp.PercentSpread.Sub(opp.EstimatedSlippage).Sub(decimal.NewFromFloat(0.003))
	if !opp.NetProfitPercent.Equal(wantNet) {
		t.Errorf("net = %s, want %s", opp.NetProfitPercent, wantNet)
	}

	if opp.Risk != domain.RiskTierHigh {
		t.Errorf("risk = %s, want high", opp.Risk)
	}
	if opp.ID == "" {
		t.Error("opportunity has no id")
	}
	if got := opp.ExpiresAt.Sub(opp.DetectedAt); got != 30*time.Second {
		t.Errorf("ttl window = %s, want 30s", got)
	}
}

func TestScanThresholdIsInclusive(t *testing.T) {
	scanner := newTestScanner(t, testScannerConfig())

	t.Run("exactly at threshold", func(t *testing.T) {
		opps := scanner.Scan(context.Background(), []domain.VenueQuote{
			quote("dragonswap", "SEI-USDC", 1.000, 50_000_000),
			quote("astroport", "SEI-USDC", 1.005, 50_000_000),
		})
		if len(opps) != 1 {
			t.Fatalf("spread equal to the threshold must pass, got %d opportunities", len(opps))
		}
	})

	t.Run("just below threshold", func(t *testing.T) {
		opps := scanner.Scan(context.Background(), []domain.VenueQuote{
			quote("dragonswap", "SEI-USDC", 1.000, 50_000_000),
			quote("astroport", "SEI-USDC", 1.004, 50_000_000),
		})
		if len(opps) != 0 {
			t.Fatalf("spread below the threshold must not pass, got %d opportunities", len(opps))
		}
	})
}

func TestScanBuyLegTieBreak(t *testing.T) {
	scanner := newTestScanner(t, testScannerConfig())

	// Two venues share the minimum price; the deeper one must win the buy leg.
	opps := scanner.Scan(context.Background(), []domain.VenueQuote{
		quote("astroport", "ETH-USDC", 3200.0, 1_000_000),
		quote("dragonswap", "ETH-USDC", 3200.0, 8_000_000),
		quote("fuzio", "ETH-USDC", 3280.0, 5_000_000),
	})
	if len(opps) != 1 {
		t.Fatalf("got %d opportunities, want 1", len(opps))
	}
	if opps[0].BuyVenue != "dragonswap" {
		t.Errorf("buy venue = %s, want dragonswap (deeper at the same price)", opps[0].BuyVenue)
	}
}

func TestScanDiscardsOverSlippageBudget(t *testing.T) {
	cfg := testScannerConfig()
	cfg.SlippageCoefficient = decimal.NewFromFloat(0.5)

	scanner := newTestScanner(t, cfg)

	// slippage = sqrt(0.1) * 0.5 ~= 0.158, far over the 0.02 budget
	opps := scanner.Scan(context.Background(), []domain.VenueQuote{
		quote("dragonswap", "SEI-USDC", 1.00, 4_000_000),
		quote("astroport", "SEI-USDC", 1.05, 2_000_000),
	})
	if len(opps) != 0 {
		t.Fatalf("got %d opportunities, want 0 over the slippage budget", len(opps))
	}
}

func TestScanSingleVenuePairIgnored(t *testing.T) {
	scanner := newTestScanner(t, testScannerConfig())

	opps := scanner.Scan(context.Background(), []domain.VenueQuote{
		quote("dragonswap", "SEI-USDC", 1.00, 4_000_000),
		quote("dragonswap", "ETH-USDC", 3200.0, 4_000_000),
	})
	if len(opps) != 0 {
		t.Fatalf("got %d opportunities from single-venue pairs, want 0", len(opps))
	}
}

func TestScanSkipsInvalidQuotes(t *testing.T) {
	scanner := newTestScanner(t, testScannerConfig())

	bad := quote("fuzio", "SEI-USDC", 0, 1_000_000)
	opps := scanner.Scan(context.Background(), []domain.VenueQuote{
		bad,
		quote("dragonswap", "SEI-USDC", 1.00, 4_000_000),
		quote("astroport", "SEI-USDC", 1.02, 2_000_000),
	})
	if len(opps) != 1 {
		t.Fatalf("got %d opportunities, want 1 with the bad quote skipped", len(opps))
	}
	if opps[0].BuyVenue == "fuzio" || opps[0].SellVenue == "fuzio" {
		t.Error("invalid quote participated in an opportunity")
	}
}

func TestScanOrderingIsDeterministic(t *testing.T) {
	scanner := newTestScanner(t, testScannerConfig())

	quotes := []domain.VenueQuote{
		// ATOM: 1% spread
		quote("dragonswap", "ATOM-USDC", 10.00, 30_000_000),
		quote("astroport", "ATOM-USDC", 10.10, 30_000_000),
		// SEI: 2% spread
		quote("dragonswap", "SEI-USDC", 1.00, 30_000_000),
		quote("astroport", "SEI-USDC", 1.02, 30_000_000),
		// OSMO: 2% spread but shallower
		quote("dragonswap", "OSMO-USDC", 0.50, 5_000_000),
		quote("astroport", "OSMO-USDC", 0.51, 5_000_000),
	}

	for run := 0; run < 5; run++ {
		opps := scanner.Scan(context.Background(), quotes)
		if len(opps) != 3 {
			t.Fatalf("run %d: got %d opportunities, want 3", run, len(opps))
		}

		got := []string{opps[0].Pair, opps[1].Pair, opps[2].Pair}
		want := []string{"SEI-USDC", "OSMO-USDC", "ATOM-USDC"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("run %d: order = %v, want %v", run, got, want)
			}
		}
	}
}
