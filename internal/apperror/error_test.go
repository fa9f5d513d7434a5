package apperror

import (
	"net/http"
	"testing"
)

func TestDefaultStatusCodes(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidPrice, http.StatusBadRequest},
		{CodeTickOutOfRange, http.StatusBadRequest},
		{CodeValidationError, http.StatusBadRequest},
		{CodeInvalidRange, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodePredictionTimeout, http.StatusServiceUnavailable},
		{CodeWebSocketConnectionError, http.StatusServiceUnavailable},
		{CodeRateLimitExceeded, http.StatusTooManyRequests},
		{CodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code)
			if err.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", err.StatusCode, tt.want)
			}
		})
	}
}
