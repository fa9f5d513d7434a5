// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Prediction PredictionConfig `mapstructure:"prediction"`
	Arbitrage  ArbitrageConfig  `mapstructure:"arbitrage"`
	Feed       FeedConfig       `mapstructure:"feed"`
	Ethereum   EthereumConfig   `mapstructure:"ethereum"`
	Bridge     BridgeConfig     `mapstructure:"bridge"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// EngineConfig holds liquidity optimization parameters.
type EngineConfig struct {
	TickSpacing       int     `mapstructure:"tick_spacing"`
	TargetUtilization float64 `mapstructure:"target_utilization"`
	ShortHorizonMult  float64 `mapstructure:"short_horizon_mult"`
	MediumHorizonMult float64 `mapstructure:"medium_horizon_mult"`
	LongHorizonMult   float64 `mapstructure:"long_horizon_mult"`
	DefaultGasCostUSD float64 `mapstructure:"default_gas_cost_usd"`
}

// HorizonMultipliers returns the label -> multiplier lookup used by the
// range calculator.
func (c *EngineConfig) HorizonMultipliers() map[string]float64 {
	return map[string]float64{
		"short":  c.ShortHorizonMult,
		"medium": c.MediumHorizonMult,
		"long":   c.LongHorizonMult,
	}
}

// PredictionConfig holds external prediction provider settings.
type PredictionConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	BaseURL            string        `mapstructure:"base_url"`
	Timeout            time.Duration `mapstructure:"timeout"`
	RequestsPerMinute  int           `mapstructure:"requests_per_minute"`
	FallbackConfidence float64       `mapstructure:"fallback_confidence"`
}

// ArbitrageConfig holds cross-venue scanning configuration.
type ArbitrageConfig struct {
	Tokens              []string      `mapstructure:"tokens"`
	MinProfitThreshold  float64       `mapstructure:"min_profit_threshold"`
	MaxSlippage         float64       `mapstructure:"max_slippage"`
	FixedFee            float64       `mapstructure:"fixed_fee"`
	SlippageCoefficient float64       `mapstructure:"slippage_coefficient"`
	ScanInterval        time.Duration `mapstructure:"scan_interval"`
	OpportunityTTL      time.Duration `mapstructure:"opportunity_ttl"`
}

// MinProfitThresholdDecimal returns the profit threshold as decimal.Decimal.
func (c *ArbitrageConfig) MinProfitThresholdDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfitThreshold)
}

// MaxSlippageDecimal returns the slippage ceiling as decimal.Decimal.
func (c *ArbitrageConfig) MaxSlippageDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxSlippage)
}

// FixedFeeDecimal returns the fixed fee estimate as decimal.Decimal.
func (c *ArbitrageConfig) FixedFeeDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.FixedFee)
}

// SlippageCoefficientDecimal returns the slippage coefficient as decimal.Decimal.
func (c *ArbitrageConfig) SlippageCoefficientDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.SlippageCoefficient)
}

// FeedConfig holds the websocket venue feed configuration.
type FeedConfig struct {
	WebSocketURL string        `mapstructure:"websocket_url"`
	Venues       []string      `mapstructure:"venues"`
	StaleTimeout time.Duration `mapstructure:"stale_timeout"`
}

// EthereumConfig holds EVM node configuration for the gas oracle.
type EthereumConfig struct {
	HTTPURL           string  `mapstructure:"http_url"`
	ChainID           uint64  `mapstructure:"chain_id"`
	MaxGasPriceGwei   float64 `mapstructure:"max_gas_price_gwei"`
	RebalanceGasLimit uint64  `mapstructure:"rebalance_gas_limit"`
	NativePriceUSD    float64 `mapstructure:"native_price_usd"`
}

// BridgeConfig holds the HTTP bridge server configuration.
type BridgeConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("LOE")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "LOE_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "LOE_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "LOE_LOG_LEVEL", "LOG_LEVEL")

	// Engine
	v.BindEnv("engine.tick_spacing", "LOE_TICK_SPACING")
	v.BindEnv("engine.target_utilization", "LOE_TARGET_UTILIZATION")

	// Prediction
	v.BindEnv("prediction.enabled", "LOE_PREDICTION_ENABLED")
	v.BindEnv("prediction.base_url", "LOE_PREDICTION_URL", "AI_ENGINE_URL")
	v.BindEnv("prediction.timeout", "LOE_PREDICTION_TIMEOUT")

	// Arbitrage
	v.BindEnv("arbitrage.tokens", "LOE_ARB_TOKENS")
	v.BindEnv("arbitrage.min_profit_threshold", "LOE_ARB_MIN_PROFIT")
	v.BindEnv("arbitrage.max_slippage", "LOE_ARB_MAX_SLIPPAGE")

	// Feed
	v.BindEnv("feed.websocket_url", "LOE_FEED_WS_URL")
	v.BindEnv("feed.venues", "LOE_FEED_VENUES")

	// Ethereum
	v.BindEnv("ethereum.http_url", "LOE_ETH_HTTP_URL", "ETH_HTTP_URL")
	v.BindEnv("ethereum.chain_id", "LOE_ETH_CHAIN_ID", "ETH_CHAIN_ID")

	// Bridge
	v.BindEnv("bridge.enabled", "LOE_BRIDGE_ENABLED")
	v.BindEnv("bridge.port", "LOE_BRIDGE_PORT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "LOE_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "LOE_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "LOE_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "vault-optimizer")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Engine defaults
	v.SetDefault("engine.tick_spacing", 60)
	v.SetDefault("engine.target_utilization", 0.75)
	v.SetDefault("engine.short_horizon_mult", 0.5)
	v.SetDefault("engine.medium_horizon_mult", 1.0)
	v.SetDefault("engine.long_horizon_mult", 1.5)
	v.SetDefault("engine.default_gas_cost_usd", 0.15)

	// Prediction defaults
	v.SetDefault("prediction.enabled", false)
	v.SetDefault("prediction.timeout", "3s")
	v.SetDefault("prediction.requests_per_minute", 60)
	v.SetDefault("prediction.fallback_confidence", 0.65)

	// Arbitrage defaults
	v.SetDefault("arbitrage.tokens", []string{"SEI", "USDC", "ETH", "BTC", "ATOM", "OSMO"})
	v.SetDefault("arbitrage.min_profit_threshold", 0.005)
	v.SetDefault("arbitrage.max_slippage", 0.02)
	v.SetDefault("arbitrage.fixed_fee", 0.003)
	v.SetDefault("arbitrage.slippage_coefficient", 0.05)
	v.SetDefault("arbitrage.scan_interval", "5s")
	v.SetDefault("arbitrage.opportunity_ttl", "30s")

	// Feed defaults
	v.SetDefault("feed.websocket_url", "wss://quotes.dlp-labs.io/ws")
	v.SetDefault("feed.venues", []string{"dragonswap", "astroport", "fuzio"})
	v.SetDefault("feed.stale_timeout", "10s")

	// Ethereum defaults
	v.SetDefault("ethereum.chain_id", 1329) // sei evm mainnet
	v.SetDefault("ethereum.max_gas_price_gwei", 500)
	v.SetDefault("ethereum.rebalance_gas_limit", 200000)
	v.SetDefault("ethereum.native_price_usd", 0.45)

	// Bridge defaults
	v.SetDefault("bridge.enabled", true)
	v.SetDefault("bridge.port", 8000)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "vault-optimizer")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Engine.TickSpacing <= 0 {
		return fmt.Errorf("engine.tick_spacing must be positive, got %d", c.Engine.TickSpacing)
	}
	if c.Engine.TargetUtilization <= 0 || c.Engine.TargetUtilization > 1 {
		return fmt.Errorf("engine.target_utilization must be in (0,1], got %f", c.Engine.TargetUtilization)
	}
	if c.Prediction.Enabled && c.Prediction.BaseURL == "" {
		return fmt.Errorf("prediction.base_url is required when prediction is enabled")
	}
	if c.Prediction.Timeout < 2*time.Second || c.Prediction.Timeout > 5*time.Second {
		return fmt.Errorf("prediction.timeout must be between 2s and 5s, got %s", c.Prediction.Timeout)
	}
	if c.Arbitrage.MinProfitThreshold < 0 {
		return fmt.Errorf("arbitrage.min_profit_threshold cannot be negative")
	}
	if c.Arbitrage.MaxSlippage <= 0 {
		return fmt.Errorf("arbitrage.max_slippage must be positive")
	}
	if len(c.Arbitrage.Tokens) < 2 {
		return fmt.Errorf("arbitrage.tokens needs at least two entries")
	}
	return nil
}
