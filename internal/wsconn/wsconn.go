// Package wsconn provides a WebSocket client with automatic reconnection.
package wsconn

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/dlp-labs/vault-optimizer/internal/apperror"
)

const meterName = "wsconn"

// State represents the connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
)

// MessageHandler receives every raw message read from the connection.
type MessageHandler func(ctx context.Context, data []byte)

// Config holds WebSocket client configuration.
type Config struct {
	URL            string
	Name           string // label used in metrics and errors
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxReconnects  int // 0 = infinite
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(url, name string) Config {
	return Config{
		URL:            url,
		Name:           name,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		MaxReconnects:  0,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   10 * time.Second,
	}
}

type clientMetrics struct {
	reconnects metric.Int64Counter
	readErrors metric.Int64Counter
}

// Client is a reconnecting WebSocket client. Messages are delivered to the
// registered handler from a single read goroutine.
type Client struct {
	config Config

	conn   *websocket.Conn
	connMu sync.RWMutex

	handler   MessageHandler
	handlerMu sync.RWMutex

	state   atomic.Value // State
	closed  atomic.Bool
	done    chan struct{}
	metrics *clientMetrics
}

// New creates a client for the given endpoint.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("wsconn: empty URL"))
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = 30 * time.Second
	}

	c := &Client{
		config: cfg,
		done:   make(chan struct{}),
	}
	c.state.Store(StateDisconnected)

	if err := c.initMetrics(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Client) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &clientMetrics{}

	c.metrics.reconnects, err = meter.Int64Counter(
		"wsconn_reconnects_total",
		metric.WithDescription("Total reconnection attempts"),
	)
	if err != nil {
		return err
	}

	c.metrics.readErrors, err = meter.Int64Counter(
		"wsconn_read_errors_total",
		metric.WithDescription("Total read loop errors"),
	)
	if err != nil {
		return err
	}

	return nil
}

// OnMessage registers the message handler. Must be called before Connect.
func (c *Client) OnMessage(handler MessageHandler) {
	c.handlerMu.Lock()
	c.handler = handler
	c.handlerMu.Unlock()
}

// Connect dials the endpoint once and starts the read loop.
func (c *Client) Connect(ctx context.Context) error {
	c.state.Store(StateConnecting)

	if err := c.dial(ctx); err != nil {
		c.state.Store(StateDisconnected)
		return apperror.New(apperror.CodeWebSocketConnectionError,
			apperror.WithCause(err),
			apperror.WithContext("wsconn: dial "+c.config.Name))
	}

	c.state.Store(StateConnected)
	go c.readLoop(ctx)
	return nil
}

// ConnectWithRetry dials with exponential backoff until it succeeds, the
// context is cancelled, or MaxReconnects attempts are exhausted.
func (c *Client) ConnectWithRetry(ctx context.Context) error {
	backoff := c.config.InitialBackoff
	attempts := 0

	for {
		err := c.Connect(ctx)
		if err == nil {
			return nil
		}

		attempts++
		c.metrics.reconnects.Add(ctx, 1,
			metric.WithAttributes(attribute.String("name", c.config.Name)))

		if c.config.MaxReconnects > 0 && attempts >= c.config.MaxReconnects {
			return apperror.New(apperror.CodeWebSocketConnectionError,
				apperror.WithCause(err),
				apperror.WithContext("wsconn: retries exhausted for "+c.config.Name))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return apperror.New(apperror.CodeWebSocketClosed,
				apperror.WithContext("wsconn: closed during retry"))
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, c.config.MaxBackoff)
	}
}

func (c *Client) dial(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, c.config.URL, nil)
	if err != nil {
		return err
	}
	conn.SetReadLimit(1 << 20)

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	return nil
}

// readLoop reads until the connection drops, then reconnects with backoff.
func (c *Client) readLoop(ctx context.Context) {
	for {
		c.connMu.RLock()
		conn := c.conn
		c.connMu.RUnlock()

		if conn == nil {
			return
		}

		readCtx := ctx
		var cancel context.CancelFunc
		if c.config.ReadTimeout > 0 {
			readCtx, cancel = context.WithTimeout(ctx, c.config.ReadTimeout)
		}
		_, data, err := conn.Read(readCtx)
		if cancel != nil {
			cancel()
		}

		if err != nil {
			if c.closed.Load() || ctx.Err() != nil {
				return
			}

			c.metrics.readErrors.Add(ctx, 1,
				metric.WithAttributes(attribute.String("name", c.config.Name)))

			if !c.reconnect(ctx) {
				return
			}
			continue
		}

		c.handlerMu.RLock()
		handler := c.handler
		c.handlerMu.RUnlock()
		if handler != nil {
			handler(ctx, data)
		}
	}
}

// reconnect re-dials with backoff. Returns false when the client is done.
func (c *Client) reconnect(ctx context.Context) bool {
	c.state.Store(StateReconnecting)
	backoff := c.config.InitialBackoff
	attempts := 0

	for {
		select {
		case <-ctx.Done():
			return false
		case <-c.done:
			return false
		case <-time.After(backoff):
		}

		attempts++
		c.metrics.reconnects.Add(ctx, 1,
			metric.WithAttributes(attribute.String("name", c.config.Name)))

		if err := c.dial(ctx); err == nil {
			c.state.Store(StateConnected)
			return true
		}

		if c.config.MaxReconnects > 0 && attempts >= c.config.MaxReconnects {
			c.state.Store(StateDisconnected)
			return false
		}

		backoff = min(backoff*2, c.config.MaxBackoff)
	}
}

// Send writes a text message to the connection.
func (c *Client) Send(ctx context.Context, msg []byte) error {
	c.connMu.RLock()
	conn := c.conn
	c.connMu.RUnlock()

	if conn == nil || c.State() != StateConnected {
		return apperror.New(apperror.CodeWebSocketSendError,
			apperror.WithContext("wsconn: not connected"))
	}

	if c.config.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.WriteTimeout)
		defer cancel()
	}

	if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
		return apperror.New(apperror.CodeWebSocketSendError,
			apperror.WithCause(err),
			apperror.WithContext("wsconn: write failed"))
	}
	return nil
}

// State returns the current connection state.
func (c *Client) State() State {
	return c.state.Load().(State)
}

// IsConnected reports whether the connection is currently up.
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// Close shuts the connection down. The client cannot be reused.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(c.done)
	c.state.Store(StateDisconnected)

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil {
		err := c.conn.Close(websocket.StatusNormalClosure, "shutdown")
		c.conn = nil
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	return nil
}
