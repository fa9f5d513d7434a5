// Package aiengine is the HTTP adapter for the external model service.
package aiengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dlp-labs/vault-optimizer/business/prediction/app"
	"github.com/dlp-labs/vault-optimizer/business/prediction/domain"
	"github.com/dlp-labs/vault-optimizer/internal/apperror"
	"github.com/dlp-labs/vault-optimizer/internal/httpclient"
	"github.com/dlp-labs/vault-optimizer/internal/logger"
)

const (
	tracerName = "prediction.aiengine"

	rebalanceEndpoint = "/analyze/rebalance"
	statusEndpoint    = "/models/status"

	defaultTimeout = 3 * time.Second
)

// Ensure Client implements Provider.
var _ app.Provider = (*Client)(nil)

// ClientConfig holds configuration for the model service client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the model service over HTTP.
type Client struct {
	client httpclient.Client
	config ClientConfig
	logger logger.LoggerInterface
	tracer trace.Tracer
}

// NewClient creates a model service client.
func NewClient(cfg ClientConfig, log logger.LoggerInterface) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("aiengine: empty base url"))
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	tracer := otel.Tracer(tracerName)

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("aiengine"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithTraceOptions(tracer, httpclient.TraceRequest, httpclient.TraceResponse),
		httpclient.WithHeaders(map[string]string{
			"Accept":       "application/json",
			"Content-Type": "application/json",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &Client{
		client: client,
		config: cfg,
		logger: log,
		tracer: tracer,
	}, nil
}

// PredictRebalance posts the vault state and returns the model's verdict.
func (c *Client) PredictRebalance(ctx context.Context, req domain.RebalanceRequest) (*domain.Prediction, error) {
	ctx, span := c.tracer.Start(ctx, "aiengine.predict_rebalance",
		trace.WithAttributes(
			attribute.String("vault", req.VaultAddress),
			attribute.Int("current_tick", req.CurrentTick),
		),
	)
	defer span.End()

	var prediction domain.Prediction
	resp, err := c.client.NewRequestWithOptions(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "rebalance")),
	).
		SetBody(req).
		SetResult(&prediction).
		Post(ctx, rebalanceEndpoint)

	if err != nil {
		span.RecordError(err)
		if errors.Is(err, context.DeadlineExceeded) {
			span.SetStatus(codes.Error, "timeout")
			return nil, apperror.New(apperror.CodePredictionTimeout,
				apperror.WithCause(err),
				apperror.WithContext("model service did not answer in time"))
		}
		span.SetStatus(codes.Error, "request failed")
		return nil, apperror.New(apperror.CodePredictionUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("model service request failed"))
	}

	if resp.IsError() {
		span.SetStatus(codes.Error, "bad status")
		return nil, apperror.New(apperror.CodePredictionUnavailable,
			apperror.WithContext(fmt.Sprintf("model service returned %d: %s",
				resp.StatusCode, resp.String())))
	}

	span.SetAttributes(
		attribute.String("action", prediction.Action),
		attribute.Float64("confidence", prediction.Confidence),
	)
	span.SetStatus(codes.Ok, "predicted")

	return &prediction, nil
}

// ModelsStatus reports the model service's health and loaded models.
func (c *Client) ModelsStatus(ctx context.Context) (map[string]any, error) {
	ctx, span := c.tracer.Start(ctx, "aiengine.models_status")
	defer span.End()

	var status map[string]any
	resp, err := c.client.NewRequestWithOptions(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "status")),
	).
		SetResult(&status).
		Get(ctx, statusEndpoint)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, apperror.New(apperror.CodePredictionUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("model status request failed"))
	}

	if resp.IsError() {
		span.SetStatus(codes.Error, "bad status")
		return nil, apperror.New(apperror.CodePredictionUnavailable,
			apperror.WithContext(fmt.Sprintf("model status returned %d", resp.StatusCode)))
	}

	span.SetStatus(codes.Ok, "fetched")
	return status, nil
}
