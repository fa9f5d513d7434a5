package app

import (
	"context"
	"math"
	"testing"

	"github.com/dlp-labs/vault-optimizer/business/liquidity/domain"
	"github.com/dlp-labs/vault-optimizer/internal/apperror"
)

func TestAssessRiskLevels(t *testing.T) {
	tests := []struct {
		name      string
		input     RiskInput
		wantLevel domain.RiskLevel
	}{
		{
			name: "calm correlated deep pool is low risk",
			input: RiskInput{
				Volatility:      0.1,
				Correlation:     0.9,
				LiquidityUSD:    100_000,
				PositionSizeUSD: 1_000,
				PoolSizeUSD:     1_000_000,
			},
			wantLevel: domain.RiskLow,
		},
		{
			name: "mid volatility shallow-ish pool is medium risk",
			input: RiskInput{
				Volatility:      0.5,
				Correlation:     0.5,
				LiquidityUSD:    20_000,
				PositionSizeUSD: 100_000,
				PoolSizeUSD:     1_000_000,
			},
			wantLevel: domain.RiskMedium,
		},
		{
			name: "volatile uncorrelated concentrated position is high risk",
			input: RiskInput{
				Volatility:      0.8,
				Correlation:     0,
				LiquidityUSD:    5_000,
				PositionSizeUSD: 700_000,
				PoolSizeUSD:     1_000_000,
			},
			wantLevel: domain.RiskHigh,
		},
	}

	assessor := NewRiskAssessor(mockLogger{})
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := assessor.Assess(ctx, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.Level != tt.wantLevel {
				t.Errorf("level = %s (score %v), want %s", got.Level, got.OverallScore, tt.wantLevel)
			}
			if got.OverallScore < 0 || got.OverallScore > 1 {
				t.Errorf("score %v outside [0,1]", got.OverallScore)
			}
			if len(got.Recommendations) == 0 {
				t.Error("expected at least one recommendation")
			}
		})
	}
}

func TestAssessComponentWeights(t *testing.T) {
	assessor := NewRiskAssessor(mockLogger{})

	input := RiskInput{
		Volatility:      0.4,
		Correlation:     0.5,
		LiquidityUSD:    100_000,
		PositionSizeUSD: 70_000,
		PoolSizeUSD:     1_000_000,
	}

	got, err := assessor.Assess(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// il = 0.4*0.5*1.5 = 0.3, vol = 0.4/0.8 = 0.5, liq = 0.1, conc = 0.07/0.7 = 0.1
	want := 0.3*0.30 + 0.5*0.25 + 0.1*0.25 + 0.1*0.20
	if math.Abs(got.OverallScore-want) > 1e-9 {
		t.Errorf("score = %v, want %v", got.OverallScore, want)
	}
}

func TestAssessInvalidInputs(t *testing.T) {
	assessor := NewRiskAssessor(mockLogger{})
	ctx := context.Background()

	t.Run("negative volatility", func(t *testing.T) {
		_, err := assessor.Assess(ctx, RiskInput{Volatility: -0.1, Correlation: 0.5})
		if got := apperror.GetCode(err); got != apperror.CodeInvalidVolatility {
			t.Errorf("error code = %s, want INVALID_VOLATILITY", got)
		}
	})

	t.Run("correlation out of bounds", func(t *testing.T) {
		_, err := assessor.Assess(ctx, RiskInput{Volatility: 0.3, Correlation: 1.5})
		if got := apperror.GetCode(err); got != apperror.CodeValidationError {
			t.Errorf("error code = %s, want VALIDATION_ERROR", got)
		}
	})

	t.Run("negative pool size", func(t *testing.T) {
		_, err := assessor.Assess(ctx, RiskInput{Volatility: 0.3, Correlation: 0.5, PoolSizeUSD: -1})
		if got := apperror.GetCode(err); got != apperror.CodeValidationError {
			t.Errorf("error code = %s, want VALIDATION_ERROR", got)
		}
	})
}
