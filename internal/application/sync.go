package application

import (
	"context"
	"fmt"
	"time"

	"cryptorates-service/internal/domain"

	"go.uber.org/zap"
)

const DefaultFeedTimeout = 10 * time.Second

// SyncSkip records why a feed row did not update the store.
type SyncSkip struct {
	FeedID string
	Symbol domain.Symbol
	Reason string
}

type SyncReport struct {
	Updated []domain.Symbol
	Skipped []SyncSkip
}

// PriceSync refreshes known currencies from the feed. Only currencies already
// present in the store are updated; nothing is inserted.
//
// A pass runs in one transaction. Each row is written in its own nested
// scope, so a row that fails to write is rolled back and skipped while the
// rest of the pass commits together.
type PriceSync struct {
	currencies CurrencyRepo
	feed       PriceFeed
	uow        UnitOfWork
	assets     domain.AssetTable
	timeout    time.Duration
	log        *zap.Logger
}

type SyncOption func(*PriceSync)

func WithFeedTimeout(d time.Duration) SyncOption {
	return func(p *PriceSync) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithSyncLogger(l *zap.Logger) SyncOption {
	return func(p *PriceSync) {
		if l != nil {
			p.log = l
		}
	}
}

func NewPriceSync(currencies CurrencyRepo, feed PriceFeed, uow UnitOfWork, assets domain.AssetTable, opts ...SyncOption) *PriceSync {
	p := &PriceSync{
		currencies: currencies,
		feed:       feed,
		uow:        uow,
		assets:     assets,
		timeout:    DefaultFeedTimeout,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.uow == nil {
		p.uow = NoopUoW{}
	}
	return p
}

// Sync performs one pass. On feed failure it returns an empty report and an
// error wrapping domain.ErrFeedUnavailable; stored prices are left as they were.
func (p *PriceSync) Sync(ctx context.Context) (SyncReport, error) {
	log := p.log.With(zap.Int("tracked", p.assets.Len()))

	fctx, cancel := context.WithTimeout(ctx, p.timeout)
	entries, err := p.feed.Markets(fctx, p.assets.FeedIDs())
	cancel()
	if err != nil {
		log.Error("sync.feed_failed", zap.Error(err))
		return SyncReport{}, fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
	}

	var report SyncReport
	err = p.uow.Do(ctx, func(txCtx context.Context) error {
		report = SyncReport{}
		seen := make(map[domain.Symbol]bool, len(entries))
		for _, e := range entries {
			sym, ok := p.assets.SymbolFor(e.FeedID)
			if !ok {
				log.Debug("sync.unmapped_id", zap.String("feed_id", e.FeedID))
				continue
			}
			// first row wins when the feed repeats an id
			if seen[sym] {
				log.Warn("sync.duplicate_id", zap.String("symbol", string(sym)), zap.String("feed_id", e.FeedID))
				report.Skipped = append(report.Skipped, SyncSkip{FeedID: e.FeedID, Symbol: sym, Reason: "duplicate entry"})
				continue
			}
			seen[sym] = true
			p.apply(txCtx, log, e, sym, &report)
		}
		return nil
	})
	if err != nil {
		log.Error("sync.commit_failed", zap.Error(err))
		return SyncReport{}, fmt.Errorf("sync commit: %w", err)
	}

	log.Info("sync.done",
		zap.Strings("updated", symbolStrings(report.Updated)),
		zap.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

func (p *PriceSync) apply(ctx context.Context, log *zap.Logger, e domain.FeedEntry, sym domain.Symbol, report *SyncReport) {
	log = log.With(zap.String("symbol", string(sym)), zap.String("feed_id", e.FeedID))
	skip := func(reason string, err error) {
		log.Warn("sync.record_skipped", zap.String("reason", reason), zap.Error(err))
		report.Skipped = append(report.Skipped, SyncSkip{FeedID: e.FeedID, Symbol: sym, Reason: reason})
	}

	md, err := e.MarketData()
	if err != nil {
		skip("malformed entry", err)
		return
	}

	var found bool
	err = p.uow.Do(ctx, func(spCtx context.Context) error {
		var uerr error
		found, uerr = p.currencies.UpdateMarket(spCtx, sym, md)
		return uerr
	})
	switch {
	case err != nil:
		skip("write failed", err)
	case !found:
		skip("not found in store", nil)
	default:
		report.Updated = append(report.Updated, sym)
	}
}

func symbolStrings(in []domain.Symbol) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
