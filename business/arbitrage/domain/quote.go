// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dlp-labs/vault-optimizer/internal/apperror"
)

// VenueQuote is a single venue's price for a trading pair, together with
// the liquidity available behind that price.
type VenueQuote struct {
	VenueID      string          `json:"venue_id"`
	Pair         string          `json:"pair"`
	Price        decimal.Decimal `json:"price"`
	LiquidityUSD decimal.Decimal `json:"liquidity_usd"`
	Timestamp    time.Time       `json:"timestamp"`
}

// Validate checks the quote for structural soundness.
func (q *VenueQuote) Validate() error {
	if q.VenueID == "" {
		return apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext("empty venue id"))
	}
	if q.Pair == "" {
		return apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext("empty pair"))
	}
	if !q.Price.IsPositive() {
		return apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext(fmt.Sprintf("non-positive price %s for %s on %s",
				q.Price, q.Pair, q.VenueID)))
	}
	if !q.LiquidityUSD.IsPositive() {
		return apperror.New(apperror.CodeInsufficientLiquidity,
			apperror.WithContext(fmt.Sprintf("non-positive liquidity %s for %s on %s",
				q.LiquidityUSD, q.Pair, q.VenueID)))
	}
	return nil
}

// Stale reports whether the quote is older than maxAge relative to now.
func (q *VenueQuote) Stale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(q.Timestamp) > maxAge
}

// BetterBuy reports whether q is preferable to other as the buy leg.
// Lower price wins; ties go to the deeper venue, then the lexicographically
// smaller venue id so scans stay deterministic.
func (q *VenueQuote) BetterBuy(other *VenueQuote) bool {
	if cmp := q.Price.Cmp(other.Price); cmp != 0 {
		return cmp < 0
	}
	return q.breaksTieWith(other)
}

// BetterSell reports whether q is preferable to other as the sell leg.
func (q *VenueQuote) BetterSell(other *VenueQuote) bool {
	if cmp := q.Price.Cmp(other.Price); cmp != 0 {
		return cmp > 0
	}
	return q.breaksTieWith(other)
}

func (q *VenueQuote) breaksTieWith(other *VenueQuote) bool {
	if cmp := q.LiquidityUSD.Cmp(other.LiquidityUSD); cmp != 0 {
		return cmp > 0
	}
	return q.VenueID < other.VenueID
}
