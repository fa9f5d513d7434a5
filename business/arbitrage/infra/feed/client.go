package feed

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/dlp-labs/vault-optimizer/internal/apperror"
	"github.com/dlp-labs/vault-optimizer/internal/logger"
	"github.com/dlp-labs/vault-optimizer/internal/wsconn"
)

const (
	tracerName = "arbitrage.feed"
	meterName  = "arbitrage.feed"

	// Startup must not block on a dead aggregator; the dial gives up after
	// this many attempts and the caller decides what to do.
	maxConnectAttempts = 5
)

// ClientConfig holds configuration for the aggregator WebSocket client.
type ClientConfig struct {
	URL          string
	Venues       []string
	Pairs        []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// clientMetrics holds OTEL metric instruments.
type clientMetrics struct {
	messagesReceived metric.Int64Counter
	tickersReceived  metric.Int64Counter
	parseErrors      metric.Int64Counter
}

// Client is a WebSocket client for the venue quote aggregator.
type Client struct {
	config ClientConfig
	logger logger.LoggerInterface

	conn   *wsconn.Client
	connMu sync.RWMutex

	onTicker   func(*TickerEvent)
	handlersMu sync.RWMutex

	nextID atomic.Int64

	tracer  trace.Tracer
	metrics *clientMetrics
}

// NewClient creates a new aggregator client.
func NewClient(cfg ClientConfig, log logger.LoggerInterface) (*Client, error) {
	if cfg.URL == "" {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("feed: empty websocket url"))
	}

	c := &Client{
		config: cfg,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}

	if err := c.initMetrics(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Client) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &clientMetrics{}

	c.metrics.messagesReceived, err = meter.Int64Counter(
		"feed_messages_total",
		metric.WithDescription("Total messages received"),
	)
	if err != nil {
		return err
	}

	c.metrics.tickersReceived, err = meter.Int64Counter(
		"feed_tickers_total",
		metric.WithDescription("Total ticker events received"),
	)
	if err != nil {
		return err
	}

	c.metrics.parseErrors, err = meter.Int64Counter(
		"feed_parse_errors_total",
		metric.WithDescription("Message parse errors"),
	)
	if err != nil {
		return err
	}

	return nil
}

// OnTicker registers a handler for ticker events.
func (c *Client) OnTicker(handler func(*TickerEvent)) {
	c.handlersMu.Lock()
	c.onTicker = handler
	c.handlersMu.Unlock()
}

// Connect establishes the connection and subscribes to the configured
// venues and pairs.
func (c *Client) Connect(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "feed.connect",
		trace.WithAttributes(
			attribute.StringSlice("venues", c.config.Venues),
			attribute.StringSlice("pairs", c.config.Pairs),
		),
	)
	defer span.End()

	wsCfg := wsconn.DefaultConfig(c.config.URL, "venue-feed")
	wsCfg.MaxReconnects = maxConnectAttempts
	if c.config.ReadTimeout > 0 {
		wsCfg.ReadTimeout = c.config.ReadTimeout
	}
	if c.config.WriteTimeout > 0 {
		wsCfg.WriteTimeout = c.config.WriteTimeout
	}

	conn, err := wsconn.New(wsCfg)
	if err != nil {
		return err
	}
	conn.OnMessage(c.handleMessage)

	if err := conn.ConnectWithRetry(ctx); err != nil {
		return apperror.New(apperror.CodeWebSocketConnectionError,
			apperror.WithCause(err),
			apperror.WithContext("feed: failed to connect to aggregator"))
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	if err := c.subscribe(ctx); err != nil {
		return err
	}

	c.logger.Info(ctx, "venue feed connected",
		"url", c.config.URL,
		"venues", c.config.Venues,
		"pairs", c.config.Pairs)

	return nil
}

func (c *Client) subscribe(ctx context.Context) error {
	req := WSRequest{
		Method: "subscribe",
		Venues: c.config.Venues,
		Pairs:  c.config.Pairs,
		ID:     c.nextID.Add(1),
	}

	data, err := json.Marshal(req)
	if err != nil {
		return err
	}

	c.connMu.RLock()
	conn := c.conn
	c.connMu.RUnlock()

	if err := conn.Send(ctx, data); err != nil {
		return apperror.New(apperror.CodeWebSocketSendError,
			apperror.WithCause(err),
			apperror.WithContext("feed: subscribe failed"))
	}
	return nil
}

// handleMessage processes one raw message from the stream.
func (c *Client) handleMessage(ctx context.Context, data []byte) {
	c.metrics.messagesReceived.Add(ctx, 1)

	var event TickerEvent
	if err := json.Unmarshal(data, &event); err != nil || event.Venue == "" {
		// Might be a subscription acknowledgement.
		var resp WSResponse
		if json.Unmarshal(data, &resp) == nil && resp.ID != 0 {
			c.logger.Debug(ctx, "subscription acknowledged", "id", resp.ID)
			return
		}
		c.metrics.parseErrors.Add(ctx, 1)
		c.logger.Debug(ctx, "unparseable feed message", "data", string(data[:min(len(data), 200)]))
		return
	}

	c.metrics.tickersReceived.Add(ctx, 1)

	c.handlersMu.RLock()
	handler := c.onTicker
	c.handlersMu.RUnlock()
	if handler != nil {
		handler(&event)
	}
}

// IsConnected reports whether the underlying connection is up.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.conn != nil && c.conn.IsConnected()
}

// Close closes the client connection.
func (c *Client) Close() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
