// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/dlp-labs/vault-optimizer/business/arbitrage/app"
	"github.com/dlp-labs/vault-optimizer/business/arbitrage/infra/feed"
	"github.com/dlp-labs/vault-optimizer/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Scanner = di.NewToken[*app.Scanner]("arbitrage.Scanner")
	Monitor = di.NewToken[*app.Monitor]("arbitrage.Monitor")
)

// Private dependency tokens - internal to arbitrage module
var (
	QuoteSource = di.NewToken[*feed.Source]("arbitrage:quoteSource")
	Reporter    = di.NewToken[app.Reporter]("arbitrage:reporter")
)

// Helper functions for type-safe access
func GetScanner(c di.ServiceRegistry) *app.Scanner {
	return di.GetToken(c, Scanner)
}

func GetMonitor(c di.ServiceRegistry) *app.Monitor {
	return di.GetToken(c, Monitor)
}

func GetQuoteSource(c di.ServiceRegistry) *feed.Source {
	return di.GetToken(c, QuoteSource)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}
