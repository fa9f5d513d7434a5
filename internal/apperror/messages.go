package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Tick math and range errors
	CodeInvalidPrice:       "Price must be a positive finite number",
	CodeInvalidVolatility:  "Volatility must be a non-negative finite number",
	CodeTickOutOfRange:     "Tick exceeds the supported tick range",
	CodeInvalidRange:       "Invalid liquidity range",
	CodeInvalidTickSpacing: "Tick spacing must be positive",

	// Prediction provider errors
	CodePredictionTimeout:     "Prediction provider timed out",
	CodePredictionUnavailable: "Prediction provider unavailable",
	CodeInvalidPrediction:     "Prediction response failed validation",

	// Arbitrage scanning errors
	CodeInvalidQuote:          "Invalid venue quote data",
	CodeInsufficientLiquidity: "Insufficient liquidity for trade size",
	CodeInvalidTradeSize:      "Invalid trade size",

	// Blockchain errors
	CodeEthereumConnectionFailed: "Failed to connect to EVM node",
	CodeEthereumRPCError:         "EVM RPC call failed",
	CodeGasEstimationFailed:      "Gas estimation failed",

	// WebSocket errors
	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketReconnecting:    "WebSocket reconnecting",
	CodeWebSocketClosed:          "WebSocket connection closed",
	CodeWebSocketSendError:       "Failed to send WebSocket message",

	// Cache errors
	CodeCacheMiss:    "Cache miss",
	CodeCacheExpired: "Cache entry expired",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
