package app

import (
	"context"
	"time"

	"github.com/dlp-labs/vault-optimizer/business/arbitrage/domain"
	"github.com/dlp-labs/vault-optimizer/internal/cache"
	"github.com/dlp-labs/vault-optimizer/internal/logger"
)

const liveOpportunitiesKey = "live"

// MonitorConfig holds the scan loop configuration.
type MonitorConfig struct {
	ScanInterval   time.Duration
	OpportunityTTL time.Duration
}

// Monitor drives the scan loop: it pulls quotes from the feed on a fixed
// interval, runs the scanner and publishes the results.
type Monitor struct {
	config   MonitorConfig
	scanner  *Scanner
	source   QuoteSource
	reporter Reporter
	logger   logger.LoggerInterface

	results *cache.Cache[string, []*domain.Opportunity]
	stop    chan struct{}
}

// NewMonitor creates a Monitor. The reporter may be nil when no output
// sink is configured.
func NewMonitor(cfg MonitorConfig, scanner *Scanner, source QuoteSource, reporter Reporter, log logger.LoggerInterface) *Monitor {
	return &Monitor{
		config:   cfg,
		scanner:  scanner,
		source:   source,
		reporter: reporter,
		logger:   log,
		results:  cache.New[string, []*domain.Opportunity](cfg.OpportunityTTL),
		stop:     make(chan struct{}),
	}
}

// Start launches the scan loop. It returns immediately; scanning runs in
// the background until Stop or context cancellation.
func (m *Monitor) Start(ctx context.Context) error {
	if m.reporter != nil {
		if err := m.reporter.Start(ctx); err != nil {
			return err
		}
	}

	go m.run(ctx)

	m.logger.Info(ctx, "arbitrage monitor started",
		"interval", m.config.ScanInterval,
		"ttl", m.config.OpportunityTTL)

	return nil
}

func (m *Monitor) run(ctx context.Context) {
	ticker := time.NewTicker(m.config.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info(ctx, "arbitrage monitor stopping", "reason", ctx.Err())
			return
		case <-m.stop:
			return
		case <-ticker.C:
			m.scanOnce(ctx)
		}
	}
}

func (m *Monitor) scanOnce(ctx context.Context) {
	quotes, err := m.source.Quotes(ctx)
	if err != nil {
		m.logger.Warn(ctx, "quote fetch failed, skipping scan cycle", "error", err)
		return
	}

	opps := m.scanner.Scan(ctx, quotes)
	if len(opps) == 0 {
		return
	}

	m.results.Set(ctx, liveOpportunitiesKey, opps, m.config.OpportunityTTL)

	if m.reporter != nil {
		m.reporter.Report(ctx, opps)
	}
}

// Opportunities returns the most recent batch with expired entries
// filtered out. The slice is empty when the last batch aged out.
func (m *Monitor) Opportunities(ctx context.Context) []*domain.Opportunity {
	batch, ok := m.results.Get(ctx, liveOpportunitiesKey)
	if !ok {
		return nil
	}

	now := time.Now().UTC()
	live := make([]*domain.Opportunity, 0, len(batch))
	for _, opp := range batch {
		if !opp.Expired(now) {
			live = append(live, opp)
		}
	}
	return live
}

// ScanNow runs a single scan cycle outside the ticker, for request-driven
// callers. Results are cached the same way the loop caches them.
func (m *Monitor) ScanNow(ctx context.Context) ([]*domain.Opportunity, error) {
	quotes, err := m.source.Quotes(ctx)
	if err != nil {
		return nil, err
	}

	opps := m.scanner.Scan(ctx, quotes)
	if len(opps) > 0 {
		m.results.Set(ctx, liveOpportunitiesKey, opps, m.config.OpportunityTTL)
	}
	return opps, nil
}

// Stop halts the scan loop and the reporter.
func (m *Monitor) Stop() error {
	close(m.stop)
	m.results.Close()

	if m.reporter != nil {
		return m.reporter.Stop()
	}
	return nil
}
