package feed

import (
	"context"
	"sort"
	"sync"
	"time"

	arbitrageApp "github.com/dlp-labs/vault-optimizer/business/arbitrage/app"
	"github.com/dlp-labs/vault-optimizer/business/arbitrage/domain"
	"github.com/dlp-labs/vault-optimizer/internal/logger"
)

// Ensure Source implements QuoteSource.
var _ arbitrageApp.QuoteSource = (*Source)(nil)

// SourceConfig holds configuration for the quote source.
type SourceConfig struct {
	WebSocketURL string
	Venues       []string
	Pairs        []string
	StaleTimeout time.Duration
}

// Source keeps the latest quote per (venue, pair) from the aggregator
// stream and serves fresh snapshots to the scanner.
type Source struct {
	config SourceConfig
	logger logger.LoggerInterface
	client *Client

	venues map[string]struct{}

	quotes map[quoteKey]domain.VenueQuote
	mu     sync.RWMutex
}

type quoteKey struct {
	venue string
	pair  string
}

// NewSource creates a quote source backed by the aggregator feed.
func NewSource(cfg SourceConfig, log logger.LoggerInterface) (*Source, error) {
	client, err := NewClient(ClientConfig{
		URL:    cfg.WebSocketURL,
		Venues: cfg.Venues,
		Pairs:  cfg.Pairs,
	}, log)
	if err != nil {
		return nil, err
	}

	if cfg.StaleTimeout <= 0 {
		cfg.StaleTimeout = 10 * time.Second
	}

	s := &Source{
		config: cfg,
		logger: log,
		client: client,
		venues: make(map[string]struct{}, len(cfg.Venues)),
		quotes: make(map[quoteKey]domain.VenueQuote),
	}
	for _, v := range cfg.Venues {
		s.venues[v] = struct{}{}
	}

	client.OnTicker(s.handleTicker)

	return s, nil
}

// Connect starts the feed.
func (s *Source) Connect(ctx context.Context) error {
	return s.client.Connect(ctx)
}

// Connected reports whether the underlying feed connection is up.
func (s *Source) Connected() bool {
	return s.client.IsConnected()
}

// Close stops the feed.
func (s *Source) Close() error {
	return s.client.Close()
}

// handleTicker stores the latest quote for the event's venue and pair.
func (s *Source) handleTicker(event *TickerEvent) {
	if len(s.venues) > 0 {
		if _, ok := s.venues[event.Venue]; !ok {
			return
		}
	}

	q, err := event.Quote()
	if err != nil {
		s.logger.Debug(context.Background(), "dropping bad ticker",
			"venue", event.Venue, "pair", event.Pair, "error", err)
		return
	}

	s.mu.Lock()
	s.quotes[quoteKey{venue: q.VenueID, pair: q.Pair}] = q
	s.mu.Unlock()
}

// Quotes returns the latest fresh quote per (venue, pair), in a
// deterministic order.
func (s *Source) Quotes(ctx context.Context) ([]domain.VenueQuote, error) {
	now := time.Now().UTC()

	s.mu.RLock()
	fresh := make([]domain.VenueQuote, 0, len(s.quotes))
	for _, q := range s.quotes {
		if !q.Stale(now, s.config.StaleTimeout) {
			fresh = append(fresh, q)
		}
	}
	s.mu.RUnlock()

	sort.Slice(fresh, func(i, j int) bool {
		if fresh[i].Pair != fresh[j].Pair {
			return fresh[i].Pair < fresh[j].Pair
		}
		return fresh[i].VenueID < fresh[j].VenueID
	})

	return fresh, nil
}
