// Package feed implements the cross-venue quote feed over WebSocket.
package feed

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dlp-labs/vault-optimizer/business/arbitrage/domain"
	"github.com/dlp-labs/vault-optimizer/internal/apperror"
)

// TickerEvent is one venue price update from the aggregator stream.
type TickerEvent struct {
	Venue        string `json:"venue"`
	Pair         string `json:"pair"`
	Price        string `json:"price"`
	LiquidityUSD string `json:"liquidity_usd"`
	Timestamp    int64  `json:"ts"` // unix millis
}

// WSRequest is a subscription request sent to the aggregator.
type WSRequest struct {
	Method string   `json:"method"`
	Venues []string `json:"venues,omitempty"`
	Pairs  []string `json:"pairs,omitempty"`
	ID     int64    `json:"id"`
}

// WSResponse is an acknowledgement from the aggregator.
type WSResponse struct {
	Result string `json:"result"`
	ID     int64  `json:"id"`
}

// Quote converts the event into a domain quote.
func (e *TickerEvent) Quote() (domain.VenueQuote, error) {
	price, err := decimal.NewFromString(e.Price)
	if err != nil {
		return domain.VenueQuote{}, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("bad price %q from %s", e.Price, e.Venue)))
	}

	liquidity, err := decimal.NewFromString(e.LiquidityUSD)
	if err != nil {
		return domain.VenueQuote{}, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("bad liquidity %q from %s", e.LiquidityUSD, e.Venue)))
	}

	q := domain.VenueQuote{
		VenueID:      e.Venue,
		Pair:         e.Pair,
		Price:        price,
		LiquidityUSD: liquidity,
		Timestamp:    time.UnixMilli(e.Timestamp).UTC(),
	}
	if err := q.Validate(); err != nil {
		return domain.VenueQuote{}, err
	}
	return q, nil
}
