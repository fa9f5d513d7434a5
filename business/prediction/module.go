// Package prediction implements the prediction bounded context: model-backed
// rebalance recommendations with a local fallback.
package prediction

import (
	"context"

	liquidityDI "github.com/dlp-labs/vault-optimizer/business/liquidity/di"
	predictionApp "github.com/dlp-labs/vault-optimizer/business/prediction/app"
	predictionDI "github.com/dlp-labs/vault-optimizer/business/prediction/di"
	"github.com/dlp-labs/vault-optimizer/business/prediction/infra/aiengine"
	"github.com/dlp-labs/vault-optimizer/internal/config"
	"github.com/dlp-labs/vault-optimizer/internal/di"
	"github.com/dlp-labs/vault-optimizer/internal/logger"
	"github.com/dlp-labs/vault-optimizer/internal/monolith"
)

// Module implements the prediction bounded context.
type Module struct{}

// RegisterServices registers all prediction services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, predictionDI.ModelClient, func(sr di.ServiceRegistry) *aiengine.Client {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := aiengine.NewClient(aiengine.ClientConfig{
			BaseURL: cfg.Prediction.BaseURL,
			Timeout: cfg.Prediction.Timeout,
		}, log)
		if err != nil {
			panic("failed to create model client: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, predictionDI.PredictionService, func(sr di.ServiceRegistry) *predictionApp.PredictionService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		// The provider is only wired when the external path is usable;
		// the service degrades to the local engine otherwise.
		var provider predictionApp.Provider
		if cfg.Prediction.Enabled && cfg.Prediction.BaseURL != "" {
			provider = predictionDI.GetModelClient(sr)
		}

		svc, err := predictionApp.NewPredictionService(predictionApp.ServiceConfig{
			Enabled:           cfg.Prediction.Enabled,
			Timeout:           cfg.Prediction.Timeout,
			RequestsPerMinute: cfg.Prediction.RequestsPerMinute,
		}, provider, liquidityDI.GetDecisionEngine(sr), log)
		if err != nil {
			panic("failed to create prediction service: " + err.Error())
		}
		return svc
	})

	return nil
}

// Startup initializes the prediction module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()

	if !cfg.Prediction.Enabled || cfg.Prediction.BaseURL == "" {
		mono.Logger().Info(ctx, "prediction provider disabled, recommendations come from the local engine")
		return nil
	}

	client := predictionDI.GetModelClient(mono.Services())
	if status, err := client.ModelsStatus(ctx); err != nil {
		mono.Logger().Warn(ctx, "model service unreachable at startup", "error", err)
	} else {
		mono.Logger().Info(ctx, "model service reachable", "status", status["status"])
	}

	mono.Logger().Info(ctx, "prediction module started")
	return nil
}
