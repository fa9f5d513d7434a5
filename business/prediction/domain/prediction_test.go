package domain

import (
	"math"
	"testing"

	liquidity "github.com/dlp-labs/vault-optimizer/business/liquidity/domain"
	"github.com/dlp-labs/vault-optimizer/internal/apperror"
)

func valid() Prediction {
	return Prediction{
		Action:              "rebalance",
		Urgency:             "medium",
		NewLowerTick:        -600,
		NewUpperTick:        600,
		ExpectedImprovement: 0.05,
		Confidence:          0.8,
		GasCostEstimate:     0.2,
	}
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	p := valid()
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Prediction)
	}{
		{name: "unknown action", mutate: func(p *Prediction) { p.Action = "panic" }},
		{name: "unknown urgency", mutate: func(p *Prediction) { p.Urgency = "immediately" }},
		{name: "confidence below zero", mutate: func(p *Prediction) { p.Confidence = -0.1 }},
		{name: "confidence above one", mutate: func(p *Prediction) { p.Confidence = 1.1 }},
		{name: "NaN confidence", mutate: func(p *Prediction) { p.Confidence = math.NaN() }},
		{name: "infinite confidence", mutate: func(p *Prediction) { p.Confidence = math.Inf(1) }},
		{name: "negative improvement", mutate: func(p *Prediction) { p.ExpectedImprovement = -0.01 }},
		{name: "NaN improvement", mutate: func(p *Prediction) { p.ExpectedImprovement = math.NaN() }},
		{name: "negative gas", mutate: func(p *Prediction) { p.GasCostEstimate = -0.01 }},
		{name: "infinite gas", mutate: func(p *Prediction) { p.GasCostEstimate = math.Inf(1) }},
		{name: "collapsed range", mutate: func(p *Prediction) { p.NewUpperTick = p.NewLowerTick }},
		{name: "inverted range", mutate: func(p *Prediction) { p.NewLowerTick, p.NewUpperTick = 600, -600 }},
		{name: "lower below tick bound", mutate: func(p *Prediction) { p.NewLowerTick = liquidity.MinTick - 1 }},
		{name: "upper above tick bound", mutate: func(p *Prediction) { p.NewUpperTick = liquidity.MaxTick + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)

			err := p.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if got := apperror.GetCode(err); got != apperror.CodeInvalidPrediction {
				t.Errorf("code = %s, want INVALID_PREDICTION", got)
			}
		})
	}
}

func TestValidateHoldIgnoresRange(t *testing.T) {
	p := valid()
	p.Action = "hold"
	p.Urgency = "low"
	p.NewLowerTick, p.NewUpperTick = 0, 0

	if err := p.Validate(); err != nil {
		t.Fatalf("hold predictions carry no range, got error: %v", err)
	}
}
