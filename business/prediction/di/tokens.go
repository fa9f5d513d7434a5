// Package di contains dependency injection tokens for the prediction context.
package di

import (
	"github.com/dlp-labs/vault-optimizer/business/prediction/app"
	"github.com/dlp-labs/vault-optimizer/business/prediction/infra/aiengine"
	"github.com/dlp-labs/vault-optimizer/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PredictionService = di.NewToken[*app.PredictionService]("prediction.PredictionService")
)

// Private dependency tokens - internal to prediction module
var (
	ModelClient = di.NewToken[*aiengine.Client]("prediction:modelClient")
)

// Helper functions for type-safe access
func GetPredictionService(c di.ServiceRegistry) *app.PredictionService {
	return di.GetToken(c, PredictionService)
}

func GetModelClient(c di.ServiceRegistry) *aiengine.Client {
	return di.GetToken(c, ModelClient)
}
