// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"context"

	"github.com/dlp-labs/vault-optimizer/business/arbitrage/domain"
)

// QuoteSource supplies the latest venue quotes for the scanned pairs.
type QuoteSource interface {
	// Quotes returns the freshest quote per (venue, pair). Stale quotes
	// are filtered out by the source.
	Quotes(ctx context.Context) ([]domain.VenueQuote, error)
}

// Reporter receives opportunities found by a scan cycle.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// Report publishes a batch of opportunities, already sorted by
	// descending spread.
	Report(ctx context.Context, opps []*domain.Opportunity)

	// Stop gracefully shuts down the reporter.
	Stop() error
}
