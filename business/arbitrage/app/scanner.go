package app

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/dlp-labs/vault-optimizer/business/arbitrage/domain"
	"github.com/dlp-labs/vault-optimizer/internal/logger"
)

const (
	tracerName = "arbitrage.app"
	meterName  = "arbitrage.app"
)

// tradeSizeFraction caps the sizing at a tenth of the shallower leg so a
// single trade cannot move the thinner pool materially.
var tradeSizeFraction = decimal.NewFromFloat(0.1)

// ScannerConfig holds the thresholds a scan cycle applies.
type ScannerConfig struct {
	MinProfitThreshold  decimal.Decimal
	MaxSlippage         decimal.Decimal
	FixedFee            decimal.Decimal
	SlippageCoefficient decimal.Decimal
	OpportunityTTL      time.Duration
}

// scannerMetrics holds OTEL metric instruments.
type scannerMetrics struct {
	scans         metric.Int64Counter
	quotesScanned metric.Int64Counter
	opportunities metric.Int64Counter
	discarded     metric.Int64Counter
}

// Scanner finds cross-venue price dislocations in a batch of quotes.
type Scanner struct {
	config  ScannerConfig
	logger  logger.LoggerInterface
	tracer  trace.Tracer
	metrics *scannerMetrics
}

// NewScanner creates a Scanner with the given thresholds.
func NewScanner(cfg ScannerConfig, log logger.LoggerInterface) (*Scanner, error) {
	s := &Scanner{
		config: cfg,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}
	if err := s.initMetrics(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scanner) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &scannerMetrics{}

	s.metrics.scans, err = meter.Int64Counter(
		"arbitrage_scans_total",
		metric.WithDescription("Total scan cycles executed"),
	)
	if err != nil {
		return err
	}

	s.metrics.quotesScanned, err = meter.Int64Counter(
		"arbitrage_quotes_scanned_total",
		metric.WithDescription("Total venue quotes inspected"),
	)
	if err != nil {
		return err
	}

	s.metrics.opportunities, err = meter.Int64Counter(
		"arbitrage_opportunities_total",
		metric.WithDescription("Opportunities that passed all filters"),
	)
	if err != nil {
		return err
	}

	s.metrics.discarded, err = meter.Int64Counter(
		"arbitrage_discarded_total",
		metric.WithDescription("Candidate spreads discarded by a filter"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Scan evaluates one batch of venue quotes and returns the surviving
// opportunities sorted by descending spread. Invalid quotes are skipped,
// they never fail the whole batch.
func (s *Scanner) Scan(ctx context.Context, quotes []domain.VenueQuote) []*domain.Opportunity {
	ctx, span := s.tracer.Start(ctx, "arbitrage.scan",
		trace.WithAttributes(attribute.Int("quotes", len(quotes))),
	)
	defer span.End()

	s.metrics.scans.Add(ctx, 1)
	s.metrics.quotesScanned.Add(ctx, int64(len(quotes)))

	byPair := make(map[string][]*domain.VenueQuote)
	for i := range quotes {
		q := &quotes[i]
		if err := q.Validate(); err != nil {
			s.logger.Debug(ctx, "skipping invalid quote",
				"venue", q.VenueID, "pair", q.Pair, "error", err)
			continue
		}
		byPair[q.Pair] = append(byPair[q.Pair], q)
	}

	now := time.Now().UTC()
	opps := make([]*domain.Opportunity, 0, len(byPair))
	for pair, pairQuotes := range byPair {
		if opp := s.evaluatePair(ctx, pair, pairQuotes, now); opp != nil {
			opps = append(opps, opp)
		}
	}

	sortOpportunities(opps)

	s.metrics.opportunities.Add(ctx, int64(len(opps)))
	span.SetAttributes(attribute.Int("opportunities", len(opps)))

	return opps
}

// evaluatePair picks the best buy and sell legs for one pair and runs the
// candidate spread through the profitability filters.
func (s *Scanner) evaluatePair(ctx context.Context, pair string, quotes []*domain.VenueQuote, now time.Time) *domain.Opportunity {
	if len(quotes) < 2 {
		return nil
	}

	buy, sell := quotes[0], quotes[0]
	for _, q := range quotes[1:] {
		if q.BetterBuy(buy) {
			buy = q
		}
		if q.BetterSell(sell) {
			sell = q
		}
	}

	if buy.VenueID == sell.VenueID {
		return nil
	}

	spread := sell.Price.Sub(buy.Price).Div(buy.Price)
	if spread.LessThan(s.config.MinProfitThreshold) {
		s.metrics.discarded.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "thin_spread")))
		return nil
	}

	lesserLiquidity := buy.LiquidityUSD
	if sell.LiquidityUSD.LessThan(lesserLiquidity) {
		lesserLiquidity = sell.LiquidityUSD
	}
	tradeSize := lesserLiquidity.Mul(tradeSizeFraction)

	slippage := estimateSlippage(tradeSize, lesserLiquidity, s.config.SlippageCoefficient)
	if slippage.GreaterThan(s.config.MaxSlippage) {
		s.metrics.discarded.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "slippage")))
		s.logger.Debug(ctx, "discarding opportunity over slippage budget",
			"pair", pair, "slippage", slippage, "budget", s.config.MaxSlippage)
		return nil
	}

	net := spread.Sub(slippage).Sub(s.config.FixedFee)

	opp := &domain.Opportunity{
		ID:                uuid.NewString(),
		Pair:              pair,
		BuyVenue:          buy.VenueID,
		SellVenue:         sell.VenueID,
		BuyPrice:          buy.Price,
		SellPrice:         sell.Price,
		PercentSpread:     spread,
		MaxTradeSize:      tradeSize,
		EstimatedSlippage: slippage,
		NetProfitPercent:  net,
		BuyLiquidityUSD:   buy.LiquidityUSD,
		SellLiquidityUSD:  sell.LiquidityUSD,
		Risk:              domain.ClassifyRisk(slippage, s.config.MaxSlippage, lesserLiquidity),
		DetectedAt:        now,
		ExpiresAt:         now.Add(s.config.OpportunityTTL),
	}

	s.logger.Debug(ctx, "opportunity detected",
		"pair", pair,
		"buy_venue", buy.VenueID,
		"sell_venue", sell.VenueID,
		"spread", spread,
		"net", net,
		"risk", opp.Risk)

	return opp
}

// estimateSlippage uses a square-root impact model on the shallower leg.
func estimateSlippage(tradeSizeUSD, lesserLiquidityUSD, coefficient decimal.Decimal) decimal.Decimal {
	if !lesserLiquidityUSD.IsPositive() {
		return decimal.Zero
	}
	ratio := tradeSizeUSD.Div(lesserLiquidityUSD).InexactFloat64()
	if ratio <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(math.Sqrt(ratio)).Mul(coefficient)
}

// sortOpportunities orders by descending spread with deterministic
// tie-breaks so repeated scans of the same book produce the same output.
func sortOpportunities(opps []*domain.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		if cmp := opps[i].PercentSpread.Cmp(opps[j].PercentSpread); cmp != 0 {
			return cmp > 0
		}
		if cmp := opps[i].LesserLiquidity().Cmp(opps[j].LesserLiquidity()); cmp != 0 {
			return cmp > 0
		}
		if opps[i].Pair != opps[j].Pair {
			return opps[i].Pair < opps[j].Pair
		}
		return opps[i].BuyVenue < opps[j].BuyVenue
	})
}
