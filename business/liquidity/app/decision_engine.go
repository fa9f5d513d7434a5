package app

import (
	"context"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/dlp-labs/vault-optimizer/business/liquidity/domain"
	"github.com/dlp-labs/vault-optimizer/internal/logger"
)

const (
	tracerName = "liquidity.app"
	meterName  = "liquidity.app"
)

// Utilization thresholds grading how urgently liquidity should be
// reconcentrated. Evaluated in priority order, lowest band first.
const (
	utilizationCritical = 0.2
	utilizationLow      = 0.4
	utilizationModerate = 0.6
)

const (
	// Cost model constants. Opportunity cost and APR uplift step at the
	// 30% utilization mark: badly drifted positions leave more on the table.
	lowUtilCutoff          = 0.3
	opportunityCostLowUtil = 0.05
	opportunityCostNormal  = 0.02
	aprDeltaLowUtil        = 0.08
	aprDeltaNormal         = 0.03
	fixedSlippageImpact    = 0.002

	// FallbackConfidence is stamped on every locally generated
	// recommendation; provider-sourced ones carry their own score.
	FallbackConfidence = 0.65

	utilizationEpsilon = 1e-6

	derivedWidthScale = 0.5 // extra width per unit of volatility
)

// DecisionEngineConfig tunes the decision engine.
type DecisionEngineConfig struct {
	TargetUtilization  float64
	DefaultGasCostUSD  float64
	FallbackConfidence float64
}

type decisionMetrics struct {
	decisions     metric.Int64Counter
	rebalances    metric.Int64Counter
	capEfficiency metric.Float64Histogram
}

// DecisionEngine grades vault utilization and produces rebalance
// recommendations. It is the deterministic path behind the prediction
// service's fallback.
type DecisionEngine struct {
	config    DecisionEngineConfig
	rangeCalc *RangeCalculator
	gas       GasEstimator
	logger    logger.LoggerInterface

	tracer  trace.Tracer
	metrics *decisionMetrics
}

// NewDecisionEngine creates a decision engine. gas may be nil; the
// configured default cost is used instead.
func NewDecisionEngine(cfg DecisionEngineConfig, rangeCalc *RangeCalculator, gas GasEstimator, log logger.LoggerInterface) (*DecisionEngine, error) {
	if cfg.TargetUtilization <= 0 {
		cfg.TargetUtilization = 0.75
	}
	if cfg.DefaultGasCostUSD <= 0 {
		cfg.DefaultGasCostUSD = 0.15
	}
	if cfg.FallbackConfidence <= 0 || cfg.FallbackConfidence > 1 {
		cfg.FallbackConfidence = FallbackConfidence
	}

	e := &DecisionEngine{
		config:    cfg,
		rangeCalc: rangeCalc,
		gas:       gas,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
	}

	if err := e.initMetrics(); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *DecisionEngine) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	e.metrics = &decisionMetrics{}

	e.metrics.decisions, err = meter.Int64Counter(
		"rebalance_decisions_total",
		metric.WithDescription("Total rebalance decisions taken"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return err
	}

	e.metrics.rebalances, err = meter.Int64Counter(
		"rebalance_recommended_total",
		metric.WithDescription("Decisions that recommended a rebalance"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return err
	}

	e.metrics.capEfficiency, err = meter.Float64Histogram(
		"capital_efficiency_headroom",
		metric.WithDescription("Capital efficiency improvement headroom per decision"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Decide grades the vault's utilization and produces a recommendation.
// The only error paths are invalid inputs; every valid input yields a
// recommendation, Hold included.
func (e *DecisionEngine) Decide(ctx context.Context, snapshot domain.VaultSnapshot, signal domain.MarketSignal, candidate *domain.PriceRange) (*domain.RebalanceRecommendation, error) {
	ctx, span := e.tracer.Start(ctx, "liquidity.decide",
		trace.WithAttributes(
			attribute.String("vault", snapshot.Address),
			attribute.Float64("utilization", snapshot.UtilizationRate),
		),
	)
	defer span.End()

	if err := snapshot.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid snapshot")
		return nil, err
	}
	if err := signal.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid signal")
		return nil, err
	}

	util := snapshot.UtilizationRate
	action, recType, urgency, reason := gradeUtilization(util)

	newRange, err := e.resolveRange(ctx, snapshot, signal, candidate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "range derivation failed")
		return nil, err
	}

	rec := &domain.RebalanceRecommendation{
		Action:            action,
		Type:              recType,
		Urgency:           urgency,
		NewRange:          newRange,
		ExpectedAprDelta:  aprDelta(util),
		EstimatedGasCost:  e.gasCost(ctx),
		OpportunityCost:   opportunityCost(util),
		SlippageImpact:    fixedSlippageImpact,
		CapitalEfficiency: capitalEfficiency(e.config.TargetUtilization, util),
		Confidence:        e.config.FallbackConfidence,
		Source:            domain.SourceFallback,
		Reason:            reason,
		GeneratedAt:       time.Now().UTC(),
	}

	e.metrics.decisions.Add(ctx, 1,
		metric.WithAttributes(attribute.String("action", string(rec.Action))))
	if rec.Action == domain.ActionRebalance {
		e.metrics.rebalances.Add(ctx, 1)
	}
	e.metrics.capEfficiency.Record(ctx, rec.CapitalEfficiency)

	span.SetAttributes(
		attribute.String("action", string(rec.Action)),
		attribute.String("urgency", string(rec.Urgency)),
	)
	span.SetStatus(codes.Ok, "decided")

	e.logger.Debug(ctx, "rebalance decision",
		"vault", snapshot.Address,
		"utilization", util,
		"action", rec.Action,
		"urgency", rec.Urgency,
		"range", rec.NewRange.String(),
	)

	return rec, nil
}

// gradeUtilization maps a utilization rate to an action, grade and urgency.
func gradeUtilization(util float64) (domain.Action, domain.RecommendationType, domain.Urgency, string) {
	switch {
	case util < utilizationCritical:
		return domain.ActionRebalance, domain.RecommendationRequired, domain.UrgencyHigh,
			"utilization critically low, most liquidity sits outside the active range"
	case util < utilizationLow:
		return domain.ActionRebalance, domain.RecommendationRequired, domain.UrgencyMedium,
			"utilization well below target, rebalance required"
	case util < utilizationModerate:
		return domain.ActionRebalance, domain.RecommendationSuggested, domain.UrgencyLow,
			"utilization below target, rebalance would improve fee capture"
	default:
		return domain.ActionHold, domain.RecommendationHold, domain.UrgencyLow,
			"utilization healthy, holding current range"
	}
}

// resolveRange picks the candidate when it is well-formed, otherwise derives
// a range centered on the current tick, widened by observed volatility.
func (e *DecisionEngine) resolveRange(ctx context.Context, snapshot domain.VaultSnapshot, signal domain.MarketSignal, candidate *domain.PriceRange) (domain.PriceRange, error) {
	if candidate != nil {
		if err := candidate.Validate(); err == nil {
			return *candidate, nil
		}
		e.logger.Warn(ctx, "candidate range rejected, deriving one",
			"vault", snapshot.Address, "candidate", candidate.String())
	}

	spacing := snapshot.Range.Spacing
	centerPrice, err := domain.TickToPrice(snapshot.CurrentTick)
	if err != nil {
		return domain.PriceRange{}, err
	}

	base, err := e.rangeCalc.ComputeRange(ctx, centerPrice, signal.Volatility, defaultHorizon, spacing)
	if err != nil {
		return domain.PriceRange{}, err
	}

	// Scale the width around the current tick by (1 + volatility/2) so
	// choppier markets get proportionally more room before drifting out.
	scale := 1 + signal.Volatility*derivedWidthScale
	halfDown := float64(snapshot.CurrentTick - base.LowerTick)
	halfUp := float64(base.UpperTick - snapshot.CurrentTick)

	lower := snapshot.CurrentTick - int(math.Ceil(halfDown*scale))
	upper := snapshot.CurrentTick + int(math.Ceil(halfUp*scale))

	lower = max(lower, domain.MinTick)
	upper = min(upper, domain.MaxTick)

	lower, err = domain.AlignDown(lower, spacing)
	if err != nil {
		return domain.PriceRange{}, err
	}
	upper, err = domain.AlignUp(upper, spacing)
	if err != nil {
		return domain.PriceRange{}, err
	}
	if upper > domain.MaxTick {
		upper -= spacing
	}
	if upper <= lower {
		upper = lower + spacing
	}

	r := domain.PriceRange{LowerTick: lower, UpperTick: upper, Spacing: spacing}
	if err := r.Validate(); err != nil {
		return domain.PriceRange{}, err
	}
	return r, nil
}

func (e *DecisionEngine) gasCost(ctx context.Context) float64 {
	if e.gas == nil {
		return e.config.DefaultGasCostUSD
	}

	cost, err := e.gas.EstimateRebalanceCostUSD(ctx)
	if err != nil {
		e.logger.Warn(ctx, "gas estimator unavailable, using default cost",
			"default_usd", e.config.DefaultGasCostUSD, "error", err)
		return e.config.DefaultGasCostUSD
	}
	return cost
}

func opportunityCost(util float64) float64 {
	if util < lowUtilCutoff {
		return opportunityCostLowUtil
	}
	return opportunityCostNormal
}

func aprDelta(util float64) float64 {
	if util < lowUtilCutoff {
		return aprDeltaLowUtil
	}
	return aprDeltaNormal
}

// capitalEfficiency is the relative improvement headroom against the target
// utilization: (target / util) - 1, guarded against division by zero.
func capitalEfficiency(target, util float64) float64 {
	return target/math.Max(util, utilizationEpsilon) - 1
}
