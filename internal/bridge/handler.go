// Package bridge exposes the optimization services over HTTP.
package bridge

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	arbitrageApp "github.com/dlp-labs/vault-optimizer/business/arbitrage/app"
	liquidityApp "github.com/dlp-labs/vault-optimizer/business/liquidity/app"
	predictionApp "github.com/dlp-labs/vault-optimizer/business/prediction/app"
	"github.com/dlp-labs/vault-optimizer/internal/logger"
)

// ModelStatusReporter reports the external model service's health.
type ModelStatusReporter interface {
	ModelsStatus(ctx context.Context) (map[string]any, error)
}

// Handler serves the optimization API.
type Handler struct {
	logger       logger.LoggerInterface
	rangeCalc    *liquidityApp.RangeCalculator
	engine       *liquidityApp.DecisionEngine
	predictor    *predictionApp.PredictionService
	monitor      *arbitrageApp.Monitor
	risk         *liquidityApp.RiskAssessor
	deltaNeutral *liquidityApp.DeltaNeutralOptimizer
	modelStatus  ModelStatusReporter // nil when the provider is disabled
}

// NewHandler creates the API handler. modelStatus may be nil.
func NewHandler(
	log logger.LoggerInterface,
	rangeCalc *liquidityApp.RangeCalculator,
	engine *liquidityApp.DecisionEngine,
	predictor *predictionApp.PredictionService,
	monitor *arbitrageApp.Monitor,
	risk *liquidityApp.RiskAssessor,
	deltaNeutral *liquidityApp.DeltaNeutralOptimizer,
	modelStatus ModelStatusReporter,
) *Handler {
	return &Handler{
		logger:       log,
		rangeCalc:    rangeCalc,
		engine:       engine,
		predictor:    predictor,
		monitor:      monitor,
		risk:         risk,
		deltaNeutral: deltaNeutral,
		modelStatus:  modelStatus,
	}
}

// RegisterRoutes registers the API routes on e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/predict/optimal-range", h.OptimalRange)
	e.POST("/analyze/rebalance", h.AnalyzeRebalance)
	e.POST("/predict/rebalance", h.PredictRebalance)
	e.POST("/scan/arbitrage", h.ScanArbitrage)
	e.POST("/assess/risk", h.AssessRisk)
	e.POST("/optimize/delta-neutral", h.OptimizeDeltaNeutral)
	e.GET("/models/status", h.ModelsStatus)
	e.GET("/healthz", h.Healthz)
}

// OptimalRange computes a tick range for a price/volatility observation.
func (h *Handler) OptimalRange(c echo.Context) error {
	req := &OptimalRangeRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}

	r, err := h.rangeCalc.ComputeRange(c.Request().Context(), req.Price, req.Volatility, req.Horizon, req.TickSpacing)
	if err != nil {
		h.logger.Error(c.Request().Context(), "optimal range failed", "error", err)
		return AppErrorResponse(c, err)
	}
	return SuccessResponse(c, r)
}

// AnalyzeRebalance runs the local decision engine only.
func (h *Handler) AnalyzeRebalance(c echo.Context) error {
	req := &RebalanceAnalysisRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}

	rec, err := h.engine.Decide(c.Request().Context(), req.Snapshot(), req.Signal(), nil)
	if err != nil {
		h.logger.Error(c.Request().Context(), "rebalance analysis failed", "error", err)
		return AppErrorResponse(c, err)
	}
	return SuccessResponse(c, rec)
}

// PredictRebalance runs the full prediction path, provider plus fallback.
func (h *Handler) PredictRebalance(c echo.Context) error {
	req := &RebalanceAnalysisRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}

	rec, err := h.predictor.Recommend(c.Request().Context(), req.Snapshot(), req.Signal())
	if err != nil {
		h.logger.Error(c.Request().Context(), "rebalance prediction failed", "error", err)
		return AppErrorResponse(c, err)
	}
	return SuccessResponse(c, rec)
}

// ScanArbitrage serves the monitor's live opportunities, optionally forcing
// a fresh scan.
func (h *Handler) ScanArbitrage(c echo.Context) error {
	req := &ArbitrageScanRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	if req.Refresh {
		opps, err := h.monitor.ScanNow(ctx)
		if err != nil {
			h.logger.Error(ctx, "arbitrage scan failed", "error", err)
			return AppErrorResponse(c, err)
		}
		return SuccessResponse(c, opps)
	}
	return SuccessResponse(c, h.monitor.Opportunities(ctx))
}

// AssessRisk scores a vault position.
func (h *Handler) AssessRisk(c echo.Context) error {
	req := &RiskAssessmentRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}

	assessment, err := h.risk.Assess(c.Request().Context(), req.Input())
	if err != nil {
		h.logger.Error(c.Request().Context(), "risk assessment failed", "error", err)
		return AppErrorResponse(c, err)
	}
	return SuccessResponse(c, assessment)
}

// OptimizeDeltaNeutral sizes the hedge and band for a delta-neutral position.
func (h *Handler) OptimizeDeltaNeutral(c echo.Context) error {
	req := &DeltaNeutralRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}

	plan, err := h.deltaNeutral.Optimize(c.Request().Context(), req.Position())
	if err != nil {
		h.logger.Error(c.Request().Context(), "delta neutral optimization failed", "error", err)
		return AppErrorResponse(c, err)
	}
	return SuccessResponse(c, plan)
}

// ModelsStatus reports the external model service's health. With the
// provider disabled it reports that without erroring.
func (h *Handler) ModelsStatus(c echo.Context) error {
	if h.modelStatus == nil {
		return SuccessResponse(c, map[string]any{"provider": "disabled"})
	}

	status, err := h.modelStatus.ModelsStatus(c.Request().Context())
	if err != nil {
		h.logger.Warn(c.Request().Context(), "model status probe failed", "error", err)
		return DataResponse(c, http.StatusServiceUnavailable, map[string]any{"provider": "unreachable"})
	}
	return SuccessResponse(c, status)
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(c echo.Context) error {
	return SuccessResponse(c, map[string]any{"status": "ok"})
}
