package feed

import (
	"context"
	"testing"
	"time"
)

type mockLogger struct{}

func (mockLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (mockLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (mockLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (mockLogger) Error(ctx context.Context, msg string, args ...any) {}

func newTestSource(t *testing.T) *Source {
	t.Helper()
	s, err := NewSource(SourceConfig{
		WebSocketURL: "ws://localhost:9999/stream",
		Venues:       []string{"dragonswap", "astroport"},
		Pairs:        []string{"SEI-USDC"},
		StaleTimeout: 5 * time.Second,
	}, mockLogger{})
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	return s
}

func ticker(venue, pair, price, liquidity string, ts time.Time) *TickerEvent {
	return &TickerEvent{
		Venue:        venue,
		Pair:         pair,
		Price:        price,
		LiquidityUSD: liquidity,
		Timestamp:    ts.UnixMilli(),
	}
}

func TestSourceKeepsLatestQuote(t *testing.T) {
	source := newTestSource(t)
	now := time.Now()

	source.handleTicker(ticker("dragonswap", "SEI-USDC", "1.00", "4000000", now.Add(-time.Second)))
	source.handleTicker(ticker("dragonswap", "SEI-USDC", "1.01", "4100000", now))
	source.handleTicker(ticker("astroport", "SEI-USDC", "1.02", "2000000", now))

	quotes, err := source.Quotes(context.Background())
	if err != nil {
		t.Fatalf("quotes: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2", len(quotes))
	}

	// Deterministic order: pair asc, then venue asc.
	if quotes[0].VenueID != "astroport" || quotes[1].VenueID != "dragonswap" {
		t.Errorf("order = [%s, %s], want [astroport, dragonswap]", quotes[0].VenueID, quotes[1].VenueID)
	}

	if got := quotes[1].Price.String(); got != "1.01" {
		t.Errorf("dragonswap price = %s, want the latest update 1.01", got)
	}
}

func TestSourceFiltersStaleQuotes(t *testing.T) {
	source := newTestSource(t)
	now := time.Now()

	source.handleTicker(ticker("dragonswap", "SEI-USDC", "1.00", "4000000", now.Add(-time.Minute)))
	source.handleTicker(ticker("astroport", "SEI-USDC", "1.02", "2000000", now))

	quotes, err := source.Quotes(context.Background())
	if err != nil {
		t.Fatalf("quotes: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("got %d quotes, want 1 fresh quote", len(quotes))
	}
	if quotes[0].VenueID != "astroport" {
		t.Errorf("fresh quote from %s, want astroport", quotes[0].VenueID)
	}
}

func TestSourceIgnoresUnknownVenues(t *testing.T) {
	source := newTestSource(t)

	source.handleTicker(ticker("sushiswap", "SEI-USDC", "1.00", "4000000", time.Now()))

	quotes, err := source.Quotes(context.Background())
	if err != nil {
		t.Fatalf("quotes: %v", err)
	}
	if len(quotes) != 0 {
		t.Fatalf("got %d quotes from an unconfigured venue, want 0", len(quotes))
	}
}

func TestSourceDropsBadTickers(t *testing.T) {
	source := newTestSource(t)

	source.handleTicker(ticker("dragonswap", "SEI-USDC", "not-a-number", "4000000", time.Now()))
	source.handleTicker(ticker("dragonswap", "SEI-USDC", "-1", "4000000", time.Now()))

	quotes, err := source.Quotes(context.Background())
	if err != nil {
		t.Fatalf("quotes: %v", err)
	}
	if len(quotes) != 0 {
		t.Fatalf("got %d quotes from bad tickers, want 0", len(quotes))
	}
}

func TestTickerEventQuote(t *testing.T) {
	now := time.Now()

	event := ticker("dragonswap", "SEI-USDC", "0.421", "3500000", now)
	q, err := event.Quote()
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.VenueID != "dragonswap" || q.Pair != "SEI-USDC" {
		t.Errorf("identity = %s/%s, want dragonswap/SEI-USDC", q.VenueID, q.Pair)
	}
	if got := q.Timestamp.UnixMilli(); got != now.UnixMilli() {
		t.Errorf("timestamp = %d, want %d", got, now.UnixMilli())
	}

	if _, err := ticker("dragonswap", "SEI-USDC", "1.0", "junk", now).Quote(); err == nil {
		t.Error("bad liquidity accepted")
	}
}
