package app

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/dlp-labs/vault-optimizer/business/liquidity/domain"
	"github.com/dlp-labs/vault-optimizer/internal/apperror"
)

type stubGasEstimator struct {
	cost float64
	err  error
}

func (s stubGasEstimator) EstimateRebalanceCostUSD(ctx context.Context) (float64, error) {
	return s.cost, s.err
}

func newTestEngine(t *testing.T, gas GasEstimator) *DecisionEngine {
	t.Helper()
	engine, err := NewDecisionEngine(
		DecisionEngineConfig{TargetUtilization: 0.75, DefaultGasCostUSD: 0.15},
		newTestCalculator(),
		gas,
		mockLogger{},
	)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return engine
}

func testSnapshot(util float64) domain.VaultSnapshot {
	return domain.VaultSnapshot{
		Address:         "sei1vault",
		Symbol:          "SEI",
		CurrentTick:     0,
		Range:           domain.PriceRange{LowerTick: -2880, UpperTick: 2280, Spacing: 60},
		UtilizationRate: util,
		TVL:             2_500_000,
	}
}

func testSignal() domain.MarketSignal {
	return domain.MarketSignal{
		Symbol:         "SEI",
		Price:          1.0,
		Volatility:     0.3,
		Volume24h:      4_000_000,
		LiquidityDepth: 12_000_000,
	}
}

func TestDecideUtilizationBands(t *testing.T) {
	tests := []struct {
		name        string
		utilization float64
		wantAction  domain.Action
		wantType    domain.RecommendationType
		wantUrgency domain.Urgency
	}{
		{name: "critically drifted", utilization: 0.15, wantAction: domain.ActionRebalance, wantType: domain.RecommendationRequired, wantUrgency: domain.UrgencyHigh},
		{name: "just below critical boundary", utilization: 0.19, wantAction: domain.ActionRebalance, wantType: domain.RecommendationRequired, wantUrgency: domain.UrgencyHigh},
		{name: "at critical boundary", utilization: 0.20, wantAction: domain.ActionRebalance, wantType: domain.RecommendationRequired, wantUrgency: domain.UrgencyMedium},
		{name: "just below low boundary", utilization: 0.39, wantAction: domain.ActionRebalance, wantType: domain.RecommendationRequired, wantUrgency: domain.UrgencyMedium},
		{name: "at low boundary", utilization: 0.40, wantAction: domain.ActionRebalance, wantType: domain.RecommendationSuggested, wantUrgency: domain.UrgencyLow},
		{name: "just below moderate boundary", utilization: 0.59, wantAction: domain.ActionRebalance, wantType: domain.RecommendationSuggested, wantUrgency: domain.UrgencyLow},
		{name: "at moderate boundary", utilization: 0.60, wantAction: domain.ActionHold, wantType: domain.RecommendationHold, wantUrgency: domain.UrgencyLow},
		{name: "healthy utilization", utilization: 0.61, wantAction: domain.ActionHold, wantType: domain.RecommendationHold, wantUrgency: domain.UrgencyLow},
		{name: "fully utilized", utilization: 1.0, wantAction: domain.ActionHold, wantType: domain.RecommendationHold, wantUrgency: domain.UrgencyLow},
	}

	engine := newTestEngine(t, nil)
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := engine.Decide(ctx, testSnapshot(tt.utilization), testSignal(), nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if rec.Action != tt.wantAction {
				t.Errorf("action = %s, want %s", rec.Action, tt.wantAction)
			}
			if rec.Type != tt.wantType {
				t.Errorf("type = %s, want %s", rec.Type, tt.wantType)
			}
			if rec.Urgency != tt.wantUrgency {
				t.Errorf("urgency = %s, want %s", rec.Urgency, tt.wantUrgency)
			}
			if rec.Source != domain.SourceFallback {
				t.Errorf("source = %s, want fallback", rec.Source)
			}
			if rec.Confidence != FallbackConfidence {
				t.Errorf("confidence = %v, want %v", rec.Confidence, FallbackConfidence)
			}
		})
	}
}

func TestDecideCostModel(t *testing.T) {
	engine := newTestEngine(t, nil)
	ctx := context.Background()

	t.Run("low utilization", func(t *testing.T) {
		rec, err := engine.Decide(ctx, testSnapshot(0.25), testSignal(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.OpportunityCost != 0.05 {
			t.Errorf("opportunity cost = %v, want 0.05", rec.OpportunityCost)
		}
		if rec.ExpectedAprDelta != 0.08 {
			t.Errorf("apr delta = %v, want 0.08", rec.ExpectedAprDelta)
		}
		// 0.75/0.25 - 1 = 2.0
		if math.Abs(rec.CapitalEfficiency-2.0) > 1e-9 {
			t.Errorf("capital efficiency = %v, want 2.0", rec.CapitalEfficiency)
		}
	})

	t.Run("moderate utilization", func(t *testing.T) {
		rec, err := engine.Decide(ctx, testSnapshot(0.5), testSignal(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.OpportunityCost != 0.02 {
			t.Errorf("opportunity cost = %v, want 0.02", rec.OpportunityCost)
		}
		if rec.ExpectedAprDelta != 0.03 {
			t.Errorf("apr delta = %v, want 0.03", rec.ExpectedAprDelta)
		}
		if rec.SlippageImpact != 0.002 {
			t.Errorf("slippage impact = %v, want 0.002", rec.SlippageImpact)
		}
		// 0.75/0.5 - 1 = 0.5
		if math.Abs(rec.CapitalEfficiency-0.5) > 1e-9 {
			t.Errorf("capital efficiency = %v, want 0.5", rec.CapitalEfficiency)
		}
	})

	t.Run("zero utilization stays finite", func(t *testing.T) {
		rec, err := engine.Decide(ctx, testSnapshot(0), testSignal(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.IsInf(rec.CapitalEfficiency, 0) || math.IsNaN(rec.CapitalEfficiency) {
			t.Errorf("capital efficiency not finite: %v", rec.CapitalEfficiency)
		}
	})
}

func TestDecideGasCost(t *testing.T) {
	ctx := context.Background()

	t.Run("no estimator uses default", func(t *testing.T) {
		engine := newTestEngine(t, nil)
		rec, err := engine.Decide(ctx, testSnapshot(0.5), testSignal(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.EstimatedGasCost != 0.15 {
			t.Errorf("gas cost = %v, want default 0.15", rec.EstimatedGasCost)
		}
	})

	t.Run("estimator value used", func(t *testing.T) {
		engine := newTestEngine(t, stubGasEstimator{cost: 0.42})
		rec, err := engine.Decide(ctx, testSnapshot(0.5), testSignal(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.EstimatedGasCost != 0.42 {
			t.Errorf("gas cost = %v, want 0.42", rec.EstimatedGasCost)
		}
	})

	t.Run("estimator failure degrades to default", func(t *testing.T) {
		engine := newTestEngine(t, stubGasEstimator{err: errors.New("rpc down")})
		rec, err := engine.Decide(ctx, testSnapshot(0.5), testSignal(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.EstimatedGasCost != 0.15 {
			t.Errorf("gas cost = %v, want default 0.15", rec.EstimatedGasCost)
		}
	})
}

func TestDecideCandidateRange(t *testing.T) {
	engine := newTestEngine(t, nil)
	ctx := context.Background()

	t.Run("valid candidate used verbatim", func(t *testing.T) {
		candidate := &domain.PriceRange{LowerTick: -600, UpperTick: 600, Spacing: 60}
		rec, err := engine.Decide(ctx, testSnapshot(0.3), testSignal(), candidate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.NewRange != *candidate {
			t.Errorf("range = %s, want candidate %s", rec.NewRange, candidate)
		}
	})

	t.Run("misaligned candidate replaced by derived range", func(t *testing.T) {
		candidate := &domain.PriceRange{LowerTick: -50, UpperTick: 610, Spacing: 60}
		snapshot := testSnapshot(0.3)

		rec, err := engine.Decide(ctx, snapshot, testSignal(), candidate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.NewRange == *candidate {
			t.Error("invalid candidate was used verbatim")
		}
		if err := rec.NewRange.Validate(); err != nil {
			t.Errorf("derived range invalid: %v", err)
		}
		if !rec.NewRange.Contains(snapshot.CurrentTick) {
			t.Errorf("derived range %s does not contain current tick %d",
				rec.NewRange, snapshot.CurrentTick)
		}
	})

	t.Run("derived range width grows with volatility", func(t *testing.T) {
		calm := testSignal()
		calm.Volatility = 0.1
		choppy := testSignal()
		choppy.Volatility = 0.4

		calmRec, err := engine.Decide(ctx, testSnapshot(0.3), calm, nil)
		if err != nil {
			t.Fatalf("calm: %v", err)
		}
		choppyRec, err := engine.Decide(ctx, testSnapshot(0.3), choppy, nil)
		if err != nil {
			t.Fatalf("choppy: %v", err)
		}

		if choppyRec.NewRange.Width() <= calmRec.NewRange.Width() {
			t.Errorf("choppy width %d not greater than calm width %d",
				choppyRec.NewRange.Width(), calmRec.NewRange.Width())
		}
	})
}

func TestDecideInvalidInputs(t *testing.T) {
	engine := newTestEngine(t, nil)
	ctx := context.Background()

	t.Run("utilization above one", func(t *testing.T) {
		s := testSnapshot(1.5)
		_, err := engine.Decide(ctx, s, testSignal(), nil)
		if got := apperror.GetCode(err); got != apperror.CodeValidationError {
			t.Errorf("error code = %s, want VALIDATION_ERROR", got)
		}
	})

	t.Run("invalid signal price", func(t *testing.T) {
		sig := testSignal()
		sig.Price = 0
		_, err := engine.Decide(ctx, testSnapshot(0.5), sig, nil)
		if got := apperror.GetCode(err); got != apperror.CodeInvalidPrice {
			t.Errorf("error code = %s, want INVALID_PRICE", got)
		}
	})

	t.Run("invalid vault range", func(t *testing.T) {
		s := testSnapshot(0.5)
		s.Range.UpperTick = s.Range.LowerTick
		_, err := engine.Decide(ctx, s, testSignal(), nil)
		if got := apperror.GetCode(err); got != apperror.CodeInvalidRange {
			t.Errorf("error code = %s, want INVALID_RANGE", got)
		}
	})
}
