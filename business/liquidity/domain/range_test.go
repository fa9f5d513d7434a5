package domain

import (
	"testing"

	"github.com/dlp-labs/vault-optimizer/internal/apperror"
)

func TestPriceRangeValidate(t *testing.T) {
	tests := []struct {
		name    string
		r       PriceRange
		wantErr apperror.Code
	}{
		{
			name: "valid range",
			r:    PriceRange{LowerTick: -2880, UpperTick: 2280, Spacing: 60},
		},
		{
			name: "valid single width",
			r:    PriceRange{LowerTick: 0, UpperTick: 60, Spacing: 60},
		},
		{
			name:    "lower equals upper",
			r:       PriceRange{LowerTick: 60, UpperTick: 60, Spacing: 60},
			wantErr: apperror.CodeInvalidRange,
		},
		{
			name:    "inverted bounds",
			r:       PriceRange{LowerTick: 120, UpperTick: 60, Spacing: 60},
			wantErr: apperror.CodeInvalidRange,
		},
		{
			name:    "lower misaligned",
			r:       PriceRange{LowerTick: -50, UpperTick: 120, Spacing: 60},
			wantErr: apperror.CodeInvalidRange,
		},
		{
			name:    "upper misaligned",
			r:       PriceRange{LowerTick: -60, UpperTick: 130, Spacing: 60},
			wantErr: apperror.CodeInvalidRange,
		},
		{
			name:    "upper beyond max tick",
			r:       PriceRange{LowerTick: 0, UpperTick: MaxTick + 60, Spacing: 60},
			wantErr: apperror.CodeTickOutOfRange,
		},
		{
			name:    "lower beyond min tick",
			r:       PriceRange{LowerTick: MinTick - 60, UpperTick: 0, Spacing: 60},
			wantErr: apperror.CodeTickOutOfRange,
		},
		{
			name:    "zero spacing",
			r:       PriceRange{LowerTick: 0, UpperTick: 60, Spacing: 0},
			wantErr: apperror.CodeInvalidTickSpacing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := apperror.GetCode(err); got != tt.wantErr {
				t.Errorf("error code = %s, want %s", got, tt.wantErr)
			}
		})
	}
}

func TestPriceRangeContains(t *testing.T) {
	r := PriceRange{LowerTick: -120, UpperTick: 120, Spacing: 60}

	tests := []struct {
		tick     int
		expected bool
	}{
		{-121, false},
		{-120, true}, // lower bound inclusive
		{0, true},
		{119, true},
		{120, false}, // upper bound exclusive
	}

	for _, tt := range tests {
		if got := r.Contains(tt.tick); got != tt.expected {
			t.Errorf("Contains(%d) = %v, want %v", tt.tick, got, tt.expected)
		}
	}
}

func TestPriceRangeWidth(t *testing.T) {
	r := PriceRange{LowerTick: -2880, UpperTick: 2280, Spacing: 60}
	if got := r.Width(); got != 5160 {
		t.Errorf("Width() = %d, want 5160", got)
	}
}

func TestVaultSnapshotValidate(t *testing.T) {
	valid := VaultSnapshot{
		Address:         "sei1vault",
		Symbol:          "SEI",
		CurrentTick:     0,
		Range:           PriceRange{LowerTick: -2880, UpperTick: 2280, Spacing: 60},
		UtilizationRate: 0.5,
		TVL:             1_000_000,
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("valid snapshot rejected: %v", err)
	}
	if !valid.InRange() {
		t.Error("tick 0 should be in range")
	}

	t.Run("utilization above one", func(t *testing.T) {
		s := valid
		s.UtilizationRate = 1.2
		if got := apperror.GetCode(s.Validate()); got != apperror.CodeValidationError {
			t.Errorf("error code = %s, want VALIDATION_ERROR", got)
		}
	})

	t.Run("negative tvl", func(t *testing.T) {
		s := valid
		s.TVL = -1
		if got := apperror.GetCode(s.Validate()); got != apperror.CodeValidationError {
			t.Errorf("error code = %s, want VALIDATION_ERROR", got)
		}
	})

	t.Run("empty address", func(t *testing.T) {
		s := valid
		s.Address = ""
		if got := apperror.GetCode(s.Validate()); got != apperror.CodeValidationError {
			t.Errorf("error code = %s, want VALIDATION_ERROR", got)
		}
	})

	t.Run("invalid range propagates", func(t *testing.T) {
		s := valid
		s.Range.UpperTick = s.Range.LowerTick
		if got := apperror.GetCode(s.Validate()); got != apperror.CodeInvalidRange {
			t.Errorf("error code = %s, want INVALID_RANGE", got)
		}
	})
}

func TestMarketSignalValidate(t *testing.T) {
	valid := MarketSignal{Symbol: "SEI", Price: 0.42, Volatility: 0.3, Volume24h: 100000, LiquidityDepth: 500000}

	if err := valid.Validate(); err != nil {
		t.Fatalf("valid signal rejected: %v", err)
	}

	t.Run("zero price", func(t *testing.T) {
		s := valid
		s.Price = 0
		if got := apperror.GetCode(s.Validate()); got != apperror.CodeInvalidPrice {
			t.Errorf("error code = %s, want INVALID_PRICE", got)
		}
	})

	t.Run("negative volatility", func(t *testing.T) {
		s := valid
		s.Volatility = -0.1
		if got := apperror.GetCode(s.Validate()); got != apperror.CodeInvalidVolatility {
			t.Errorf("error code = %s, want INVALID_VOLATILITY", got)
		}
	})

	t.Run("negative volume", func(t *testing.T) {
		s := valid
		s.Volume24h = -5
		if got := apperror.GetCode(s.Validate()); got != apperror.CodeValidationError {
			t.Errorf("error code = %s, want VALIDATION_ERROR", got)
		}
	})
}
