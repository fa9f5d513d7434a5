package domain

import (
	"fmt"
	"time"
)

// Action is what the caller should do with the vault position.
type Action string

const (
	ActionRebalance Action = "rebalance"
	ActionHold      Action = "hold"
)

// RecommendationType grades how strongly a rebalance is indicated.
type RecommendationType string

const (
	RecommendationRequired  RecommendationType = "required"
	RecommendationSuggested RecommendationType = "suggested"
	RecommendationHold      RecommendationType = "hold"
)

// Urgency ranks how quickly the action should be taken.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// Source identifies which path produced a recommendation.
type Source string

const (
	SourcePredicted Source = "predicted"
	SourceFallback  Source = "fallback"
)

// RiskLevel classifies an aggregate risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ParseAction maps a wire string to an Action.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionRebalance, ActionHold:
		return Action(s), true
	}
	return "", false
}

// ParseUrgency maps a wire string to an Urgency.
func ParseUrgency(s string) (Urgency, bool) {
	switch Urgency(s) {
	case UrgencyHigh, UrgencyMedium, UrgencyLow:
		return Urgency(s), true
	}
	return "", false
}

// RebalanceRecommendation is the engine's full answer for one vault.
type RebalanceRecommendation struct {
	Action            Action             `json:"action"`
	Type              RecommendationType `json:"type"`
	Urgency           Urgency            `json:"urgency"`
	NewRange          PriceRange         `json:"newRange"`
	ExpectedAprDelta  float64            `json:"expectedAprDelta"`
	EstimatedGasCost  float64            `json:"estimatedGasCost"`
	OpportunityCost   float64            `json:"opportunityCost"`
	SlippageImpact    float64            `json:"slippageImpact"`
	CapitalEfficiency float64            `json:"capitalEfficiency"`
	Confidence        float64            `json:"confidence"`
	Source            Source             `json:"source"`
	Reason            string             `json:"reason"`
	GeneratedAt       time.Time          `json:"generatedAt"`
}

// NetBenefit is the expected APR improvement net of the costs of acting.
func (r *RebalanceRecommendation) NetBenefit() float64 {
	return r.ExpectedAprDelta - r.OpportunityCost - r.SlippageImpact
}

func (r *RebalanceRecommendation) String() string {
	return fmt.Sprintf("%s/%s %s conf=%.2f range=%s",
		r.Action, r.Urgency, r.Source, r.Confidence, r.NewRange)
}
