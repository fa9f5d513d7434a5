package aiengine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dlp-labs/vault-optimizer/business/prediction/domain"
	"github.com/dlp-labs/vault-optimizer/internal/apperror"
)

type mockLogger struct{}

func (mockLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (mockLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (mockLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (mockLogger) Error(ctx context.Context, msg string, args ...any) {}

func testRequest() domain.RebalanceRequest {
	return domain.RebalanceRequest{
		VaultAddress:    "sei1vault",
		CurrentTick:     120,
		LowerTick:       -2880,
		UpperTick:       2280,
		UtilizationRate: 0.35,
		MarketConditions: domain.MarketConditions{
			Price:          1.02,
			Volatility:     0.25,
			Volume24h:      4_000_000,
			LiquidityDepth: 12_000_000,
		},
	}
}

func TestPredictRebalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/analyze/rebalance" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var req domain.RebalanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.VaultAddress != "sei1vault" {
			t.Errorf("vault_address = %q, want sei1vault", req.VaultAddress)
		}
		if req.MarketConditions.Volatility != 0.25 {
			t.Errorf("volatility = %v, want 0.25", req.MarketConditions.Volatility)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.Prediction{
			Action:              "rebalance",
			Urgency:             "medium",
			NewLowerTick:        -1200,
			NewUpperTick:        1440,
			ExpectedImprovement: 0.07,
			Confidence:          0.81,
			RiskAssessment:      "moderate drift",
			GasCostEstimate:     0.18,
		})
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL}, mockLogger{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	prediction, err := client.PredictRebalance(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	if prediction.Action != "rebalance" || prediction.Urgency != "medium" {
		t.Errorf("verdict = %s/%s, want rebalance/medium", prediction.Action, prediction.Urgency)
	}
	if prediction.NewLowerTick != -1200 || prediction.NewUpperTick != 1440 {
		t.Errorf("range = [%d, %d], want [-1200, 1440]", prediction.NewLowerTick, prediction.NewUpperTick)
	}
	if prediction.Confidence != 0.81 {
		t.Errorf("confidence = %v, want 0.81", prediction.Confidence)
	}
}

func TestPredictRebalanceServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL}, mockLogger{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.PredictRebalance(context.Background(), testRequest())
	if got := apperror.GetCode(err); got != apperror.CodePredictionUnavailable {
		t.Errorf("error code = %s, want PREDICTION_UNAVAILABLE", got)
	}
}

func TestModelsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/models/status" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "ready",
			"models": map[string]string{"rebalance": "v3"},
		})
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL}, mockLogger{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	status, err := client.ModelsStatus(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status["status"] != "ready" {
		t.Errorf("status = %v, want ready", status["status"])
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(ClientConfig{}, mockLogger{}); err == nil {
		t.Fatal("expected configuration error for empty base url")
	}
}
