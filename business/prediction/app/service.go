package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	liquidityApp "github.com/dlp-labs/vault-optimizer/business/liquidity/app"
	liquidityDomain "github.com/dlp-labs/vault-optimizer/business/liquidity/domain"
	"github.com/dlp-labs/vault-optimizer/business/prediction/domain"
	"github.com/dlp-labs/vault-optimizer/internal/circuitbreaker"
	"github.com/dlp-labs/vault-optimizer/internal/logger"
	"github.com/dlp-labs/vault-optimizer/internal/ratelimit"
)

const (
	tracerName = "prediction.app"
	meterName  = "prediction.app"

	defaultTimeout = 3 * time.Second
)

// ServiceConfig holds the prediction call policy.
type ServiceConfig struct {
	Enabled bool

	// Timeout bounds the single provider attempt. There are no retries:
	// a late answer is worth less than a fresh local decision.
	Timeout time.Duration

	RequestsPerMinute int
}

// serviceMetrics holds OTEL metric instruments.
type serviceMetrics struct {
	predictions metric.Int64Counter
	fallbacks   metric.Int64Counter
}

// PredictionService produces rebalance recommendations, preferring the
// external model and degrading to the local decision engine.
type PredictionService struct {
	config   ServiceConfig
	provider Provider
	engine   *liquidityApp.DecisionEngine
	limiter  *ratelimit.Limiter
	breaker  *circuitbreaker.CircuitBreaker[*domain.Prediction]
	logger   logger.LoggerInterface

	tracer  trace.Tracer
	metrics *serviceMetrics
}

// NewPredictionService creates the service. A nil provider disables the
// external path entirely.
func NewPredictionService(cfg ServiceConfig, provider Provider, engine *liquidityApp.DecisionEngine, log logger.LoggerInterface) (*PredictionService, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	var limiter *ratelimit.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = ratelimit.New(cfg.RequestsPerMinute)
	}

	s := &PredictionService{
		config:   cfg,
		provider: provider,
		engine:   engine,
		limiter:  limiter,
		breaker:  circuitbreaker.New[*domain.Prediction](circuitbreaker.DefaultConfig("prediction")),
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}

	if err := s.initMetrics(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *PredictionService) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &serviceMetrics{}

	s.metrics.predictions, err = meter.Int64Counter(
		"prediction_requests_total",
		metric.WithDescription("Prediction requests by outcome"),
	)
	if err != nil {
		return err
	}

	s.metrics.fallbacks, err = meter.Int64Counter(
		"prediction_fallbacks_total",
		metric.WithDescription("Recommendations served by the local engine"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Recommend produces a rebalance recommendation for the vault. The local
// engine always runs first: its output is both the fallback and the cost
// model underneath an accepted prediction.
func (s *PredictionService) Recommend(ctx context.Context, snapshot liquidityDomain.VaultSnapshot, signal liquidityDomain.MarketSignal) (*liquidityDomain.RebalanceRecommendation, error) {
	ctx, span := s.tracer.Start(ctx, "prediction.recommend",
		trace.WithAttributes(attribute.String("vault", snapshot.Address)),
	)
	defer span.End()

	baseline, err := s.engine.Decide(ctx, snapshot, signal, nil)
	if err != nil {
		return nil, err
	}

	if !s.config.Enabled || s.provider == nil {
		return baseline, nil
	}

	if s.limiter != nil && !s.limiter.Allow() {
		s.fallback(ctx, span, "rate_limited", nil)
		return baseline, nil
	}

	prediction, err := s.callProvider(ctx, snapshot, signal)
	if err != nil {
		s.fallback(ctx, span, "provider_error", err)
		return baseline, nil
	}

	if err := prediction.Validate(); err != nil {
		s.fallback(ctx, span, "invalid_prediction", err)
		return baseline, nil
	}

	rec, err := s.merge(baseline, prediction, snapshot.Range.Spacing)
	if err != nil {
		s.fallback(ctx, span, "bad_range", err)
		return baseline, nil
	}

	s.metrics.predictions.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", "predicted")))
	span.SetAttributes(
		attribute.String("source", string(rec.Source)),
		attribute.Float64("confidence", rec.Confidence),
	)

	return rec, nil
}

func (s *PredictionService) callProvider(ctx context.Context, snapshot liquidityDomain.VaultSnapshot, signal liquidityDomain.MarketSignal) (*domain.Prediction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	req := domain.RebalanceRequest{
		VaultAddress:    snapshot.Address,
		CurrentTick:     snapshot.CurrentTick,
		LowerTick:       snapshot.Range.LowerTick,
		UpperTick:       snapshot.Range.UpperTick,
		UtilizationRate: snapshot.UtilizationRate,
		MarketConditions: domain.MarketConditions{
			Price:          signal.Price,
			Volatility:     signal.Volatility,
			Volume24h:      signal.Volume24h,
			LiquidityDepth: signal.LiquidityDepth,
		},
	}

	return s.breaker.Execute(func() (*domain.Prediction, error) {
		return s.provider.PredictRebalance(ctx, req)
	})
}

// merge layers the provider's verdict over the engine's cost model. The
// provider's ticks are aligned outward to the vault's spacing.
func (s *PredictionService) merge(baseline *liquidityDomain.RebalanceRecommendation, p *domain.Prediction, spacing int) (*liquidityDomain.RebalanceRecommendation, error) {
	rec := *baseline

	action, _ := liquidityDomain.ParseAction(p.Action)
	urgency, _ := liquidityDomain.ParseUrgency(p.Urgency)

	rec.Action = action
	rec.Urgency = urgency
	rec.Type = recommendationType(action, urgency)
	rec.Source = liquidityDomain.SourcePredicted
	rec.Confidence = p.Confidence
	rec.Reason = p.RiskAssessment

	if p.ExpectedImprovement > 0 {
		rec.ExpectedAprDelta = p.ExpectedImprovement
	}
	if p.GasCostEstimate > 0 {
		rec.EstimatedGasCost = p.GasCostEstimate
	}

	if action == liquidityDomain.ActionRebalance {
		lower, err := liquidityDomain.AlignDown(p.NewLowerTick, spacing)
		if err != nil {
			return nil, err
		}
		upper, err := liquidityDomain.AlignUp(p.NewUpperTick, spacing)
		if err != nil {
			return nil, err
		}

		proposed := liquidityDomain.PriceRange{LowerTick: lower, UpperTick: upper, Spacing: spacing}
		if err := proposed.Validate(); err != nil {
			return nil, err
		}
		rec.NewRange = proposed
	}

	rec.GeneratedAt = time.Now().UTC()
	return &rec, nil
}

func recommendationType(action liquidityDomain.Action, urgency liquidityDomain.Urgency) liquidityDomain.RecommendationType {
	if action != liquidityDomain.ActionRebalance {
		return liquidityDomain.RecommendationHold
	}
	if urgency == liquidityDomain.UrgencyLow {
		return liquidityDomain.RecommendationSuggested
	}
	return liquidityDomain.RecommendationRequired
}

func (s *PredictionService) fallback(ctx context.Context, span trace.Span, reason string, err error) {
	s.metrics.predictions.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", reason)))
	s.metrics.fallbacks.Add(ctx, 1)
	span.SetAttributes(attribute.String("fallback_reason", reason))

	if err != nil {
		s.logger.Warn(ctx, "prediction unavailable, using local decision",
			"reason", reason, "error", err)
	} else {
		s.logger.Debug(ctx, "prediction skipped, using local decision", "reason", reason)
	}
}
