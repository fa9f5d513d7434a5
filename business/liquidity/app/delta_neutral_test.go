package app

import (
	"context"
	"math"
	"testing"

	"github.com/dlp-labs/vault-optimizer/business/liquidity/domain"
	"github.com/dlp-labs/vault-optimizer/internal/apperror"
)

func TestOptimizeDeltaNeutral(t *testing.T) {
	optimizer := NewDeltaNeutralOptimizer(mockLogger{})
	ctx := context.Background()

	pos := DeltaNeutralPosition{
		Symbol:       "SEI",
		Price:        1.0,
		Volatility:   0.2,
		NotionalUSD:  500_000,
		TickSpacing:  60,
		HedgeEnabled: true,
	}

	plan, err := optimizer.Optimize(ctx, pos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// hedge = min(0.95 + 0.2*0.05, 0.98) = 0.96
	if math.Abs(plan.HedgeRatio-0.96) > 1e-9 {
		t.Errorf("hedge ratio = %v, want 0.96", plan.HedgeRatio)
	}

	if err := plan.Range.Validate(); err != nil {
		t.Fatalf("plan range invalid: %v", err)
	}

	spot, err := domain.PriceToTick(pos.Price)
	if err != nil {
		t.Fatalf("spot tick: %v", err)
	}
	if !plan.Range.Contains(spot) {
		t.Errorf("range %s does not contain spot tick %d", plan.Range, spot)
	}

	if plan.ExpectedAPR < 0.12 {
		t.Errorf("expected apr = %v, below 0.12 floor", plan.ExpectedAPR)
	}

	sum := plan.Revenue.LPFees + plan.Revenue.FundingRates + plan.Revenue.VolatilityCapture
	if math.Abs(sum-plan.ExpectedAPR) > 1e-9 && plan.ExpectedAPR != 0.12 {
		t.Errorf("apr %v does not match revenue sum %v", plan.ExpectedAPR, sum)
	}
}

func TestOptimizeHedgeRatioCapped(t *testing.T) {
	optimizer := NewDeltaNeutralOptimizer(mockLogger{})

	plan, err := optimizer.Optimize(context.Background(), DeltaNeutralPosition{
		Symbol:       "ETH",
		Price:        3200,
		Volatility:   1.5,
		TickSpacing:  60,
		HedgeEnabled: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.HedgeRatio != 0.98 {
		t.Errorf("hedge ratio = %v, want cap 0.98", plan.HedgeRatio)
	}
}

func TestOptimizeHedgeDisabled(t *testing.T) {
	optimizer := NewDeltaNeutralOptimizer(mockLogger{})

	plan, err := optimizer.Optimize(context.Background(), DeltaNeutralPosition{
		Symbol:      "SEI",
		Price:       0.5,
		Volatility:  0.3,
		TickSpacing: 60,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.HedgeRatio != 0 {
		t.Errorf("hedge ratio = %v, want 0 when hedging disabled", plan.HedgeRatio)
	}
	if plan.Revenue.FundingRates != 0 {
		t.Errorf("funding revenue = %v, want 0 without a hedge", plan.Revenue.FundingRates)
	}
}

func TestOptimizeTighterThanDirectionalRange(t *testing.T) {
	optimizer := NewDeltaNeutralOptimizer(mockLogger{})
	calc := newTestCalculator()
	ctx := context.Background()

	plan, err := optimizer.Optimize(ctx, DeltaNeutralPosition{
		Symbol: "SEI", Price: 1.0, Volatility: 0.3, TickSpacing: 60, HedgeEnabled: true,
	})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}

	directional, err := calc.ComputeRange(ctx, 1.0, 0.3, "medium", 60)
	if err != nil {
		t.Fatalf("compute range: %v", err)
	}

	if plan.Range.Width() >= directional.Width() {
		t.Errorf("delta neutral width %d not tighter than directional %d",
			plan.Range.Width(), directional.Width())
	}
}

func TestOptimizeInvalidInputs(t *testing.T) {
	optimizer := NewDeltaNeutralOptimizer(mockLogger{})
	ctx := context.Background()

	t.Run("zero price", func(t *testing.T) {
		_, err := optimizer.Optimize(ctx, DeltaNeutralPosition{Price: 0, Volatility: 0.2, TickSpacing: 60})
		if got := apperror.GetCode(err); got != apperror.CodeInvalidPrice {
			t.Errorf("error code = %s, want INVALID_PRICE", got)
		}
	})

	t.Run("negative volatility", func(t *testing.T) {
		_, err := optimizer.Optimize(ctx, DeltaNeutralPosition{Price: 1, Volatility: -1, TickSpacing: 60})
		if got := apperror.GetCode(err); got != apperror.CodeInvalidVolatility {
			t.Errorf("error code = %s, want INVALID_VOLATILITY", got)
		}
	})

	t.Run("zero spacing", func(t *testing.T) {
		_, err := optimizer.Optimize(ctx, DeltaNeutralPosition{Price: 1, Volatility: 0.2})
		if got := apperror.GetCode(err); got != apperror.CodeInvalidTickSpacing {
			t.Errorf("error code = %s, want INVALID_TICK_SPACING", got)
		}
	})
}
