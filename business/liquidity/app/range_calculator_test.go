package app

import (
	"context"
	"testing"

	"github.com/dlp-labs/vault-optimizer/business/liquidity/domain"
	"github.com/dlp-labs/vault-optimizer/internal/apperror"
)

// mockLogger is a no-op logger for tests.
type mockLogger struct{}

func (mockLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (mockLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (mockLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (mockLogger) Error(ctx context.Context, msg string, args ...any) {}

func newTestCalculator() *RangeCalculator {
	return NewRangeCalculator(nil, mockLogger{})
}

func TestComputeRangeShortHorizonAroundUnitPrice(t *testing.T) {
	calc := newTestCalculator()

	r, err := calc.ComputeRange(context.Background(), 1.0, 0.5, "short", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// adjustment = min(0.5*1.2, 0.5) = 0.5, short multiplier 0.5:
	// bounds at 0.75 and 1.25, rounded outward to the 60-tick grid.
	if r.LowerTick != -2880 {
		t.Errorf("lower tick = %d, want -2880", r.LowerTick)
	}
	if r.UpperTick != 2280 {
		t.Errorf("upper tick = %d, want 2280", r.UpperTick)
	}
	if r.LowerTick >= 0 || r.UpperTick <= 0 {
		t.Errorf("range %s does not strictly contain tick 0", r)
	}
	if r.LowerTick%60 != 0 || r.UpperTick%60 != 0 {
		t.Errorf("range %s not aligned to spacing 60", r)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("computed range fails validation: %v", err)
	}
}

func TestComputeRangeWidthMonotoneInVolatility(t *testing.T) {
	calc := newTestCalculator()
	ctx := context.Background()

	prev := -1
	for _, vol := range []float64{0, 0.05, 0.1, 0.2, 0.3, 0.41, 0.5, 1.0} {
		r, err := calc.ComputeRange(ctx, 100.0, vol, "medium", 60)
		if err != nil {
			t.Fatalf("vol %v: %v", vol, err)
		}
		if r.Width() < prev {
			t.Errorf("width shrank at vol %v: %d < %d", vol, r.Width(), prev)
		}
		prev = r.Width()
	}
}

func TestComputeRangeHorizonOrdering(t *testing.T) {
	calc := newTestCalculator()
	ctx := context.Background()

	short, err := calc.ComputeRange(ctx, 2500.0, 0.3, "short", 10)
	if err != nil {
		t.Fatalf("short: %v", err)
	}
	medium, err := calc.ComputeRange(ctx, 2500.0, 0.3, "medium", 10)
	if err != nil {
		t.Fatalf("medium: %v", err)
	}
	long, err := calc.ComputeRange(ctx, 2500.0, 0.3, "long", 10)
	if err != nil {
		t.Fatalf("long: %v", err)
	}

	if !(short.Width() <= medium.Width() && medium.Width() <= long.Width()) {
		t.Errorf("widths not ordered: short %d, medium %d, long %d",
			short.Width(), medium.Width(), long.Width())
	}
}

func TestComputeRangeUnknownHorizonFallsBackToMedium(t *testing.T) {
	calc := newTestCalculator()
	ctx := context.Background()

	unknown, err := calc.ComputeRange(ctx, 42.0, 0.25, "overnight", 60)
	if err != nil {
		t.Fatalf("unknown horizon: %v", err)
	}
	medium, err := calc.ComputeRange(ctx, 42.0, 0.25, "medium", 60)
	if err != nil {
		t.Fatalf("medium horizon: %v", err)
	}

	if unknown != medium {
		t.Errorf("unknown horizon range %s differs from medium %s", unknown, medium)
	}
}

func TestComputeRangeZeroVolatility(t *testing.T) {
	calc := newTestCalculator()

	r, err := calc.ComputeRange(context.Background(), 1.0, 0, "medium", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Both bounds collapse onto tick 0; the range must still be valid.
	if err := r.Validate(); err != nil {
		t.Fatalf("collapsed range invalid: %v", err)
	}
	if r.Width() != 60 {
		t.Errorf("width = %d, want minimal width 60", r.Width())
	}
}

func TestComputeRangeContainsSpotTick(t *testing.T) {
	calc := newTestCalculator()
	ctx := context.Background()

	for _, price := range []float64{0.01, 0.42, 1.0, 99.5, 3500.0} {
		r, err := calc.ComputeRange(ctx, price, 0.2, "medium", 60)
		if err != nil {
			t.Fatalf("price %v: %v", price, err)
		}

		tick, err := domain.PriceToTick(price)
		if err != nil {
			t.Fatalf("price %v: %v", price, err)
		}
		if !r.Contains(tick) {
			t.Errorf("range %s does not contain spot tick %d for price %v", r, tick, price)
		}
	}
}

func TestComputeRangeInvalidInputs(t *testing.T) {
	calc := newTestCalculator()
	ctx := context.Background()

	tests := []struct {
		name    string
		price   float64
		vol     float64
		spacing int
		wantErr apperror.Code
	}{
		{name: "zero price", price: 0, vol: 0.2, spacing: 60, wantErr: apperror.CodeInvalidPrice},
		{name: "negative price", price: -2, vol: 0.2, spacing: 60, wantErr: apperror.CodeInvalidPrice},
		{name: "negative volatility", price: 1, vol: -0.2, spacing: 60, wantErr: apperror.CodeInvalidVolatility},
		{name: "zero spacing", price: 1, vol: 0.2, spacing: 0, wantErr: apperror.CodeInvalidTickSpacing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.ComputeRange(ctx, tt.price, tt.vol, "medium", tt.spacing)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := apperror.GetCode(err); got != tt.wantErr {
				t.Errorf("error code = %s, want %s", got, tt.wantErr)
			}
		})
	}
}
