// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	arbitrageApp "github.com/dlp-labs/vault-optimizer/business/arbitrage/app"
	"github.com/dlp-labs/vault-optimizer/business/arbitrage/domain"
)

var hundred = decimal.NewFromInt(100)

// Ensure ConsoleReporter implements Reporter.
var _ arbitrageApp.Reporter = (*ConsoleReporter)(nil)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a new ConsoleReporter.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		out: os.Stdout,
	}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Arbitrage Scanner Started")
	fmt.Fprintln(r.out, "=========================")
	return nil
}

// Report outputs a batch of opportunities to the console.
func (r *ConsoleReporter) Report(ctx context.Context, opps []*domain.Opportunity) {
	for _, opp := range opps {
		fmt.Fprintln(r.out, "")
		fmt.Fprintln(r.out, "================================================================================")
		fmt.Fprintln(r.out, "ARBITRAGE OPPORTUNITY DETECTED")
		fmt.Fprintln(r.out, "================================================================================")
		fmt.Fprintf(r.out, "ID:             %s\n", opp.ID)
		fmt.Fprintf(r.out, "Detected:       %s\n", opp.DetectedAt.Format(time.RFC3339))
		fmt.Fprintf(r.out, "Pair:           %s\n", opp.Pair)
		fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
		fmt.Fprintln(r.out, "LEGS")
		fmt.Fprintf(r.out, "  Buy  (%s):  $%s\n", opp.BuyVenue, opp.BuyPrice.StringFixed(6))
		fmt.Fprintf(r.out, "  Sell (%s):  $%s\n", opp.SellVenue, opp.SellPrice.StringFixed(6))
		fmt.Fprintf(r.out, "  Spread:         %s%%\n", opp.PercentSpread.Mul(hundred).StringFixed(3))
		fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
		fmt.Fprintln(r.out, "TRADE DETAILS")
		fmt.Fprintf(r.out, "  Max Size:       $%s\n", opp.MaxTradeSize.StringFixed(2))
		fmt.Fprintf(r.out, "  Est. Slippage:  %s%%\n", opp.EstimatedSlippage.Mul(hundred).StringFixed(3))
		fmt.Fprintf(r.out, "  Net Profit:     %s%%\n", opp.NetProfitPercent.Mul(hundred).StringFixed(3))
		fmt.Fprintf(r.out, "  Risk:           %s\n", opp.Risk)
		fmt.Fprintf(r.out, "  Expires:        %s\n", opp.ExpiresAt.Format(time.RFC3339))
		fmt.Fprintln(r.out, "================================================================================")
	}
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Arbitrage Scanner Stopped")
	return nil
}
