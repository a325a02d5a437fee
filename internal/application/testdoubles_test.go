package application

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"cryptorates-service/internal/domain"

	"github.com/shopspring/decimal"
)

var ErrRepo = errors.New("repo error")

type fakeCurrencyRepo struct {
	mu        sync.Mutex
	store     map[domain.Symbol]domain.Currency
	err       error
	updateErr map[domain.Symbol]error
}

func newFakeCurrencyRepo(cs ...domain.Currency) *fakeCurrencyRepo {
	f := &fakeCurrencyRepo{store: map[domain.Symbol]domain.Currency{}}
	for _, c := range cs {
		f.store[c.Symbol] = c
	}
	return f
}

func (f *fakeCurrencyRepo) Get(_ context.Context, sym domain.Symbol) (domain.Currency, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.Currency{}, f.err
	}
	c, ok := f.store[sym]
	if !ok {
		return domain.Currency{}, ErrNotFound
	}
	return c, nil
}

func (f *fakeCurrencyRepo) List(context.Context) ([]domain.Currency, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Currency, 0, len(f.store))
	for _, c := range f.store {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MarketCap != out[j].MarketCap {
			return out[i].MarketCap > out[j].MarketCap
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out, nil
}

func (f *fakeCurrencyRepo) Upsert(_ context.Context, c domain.Currency) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, exists := f.store[c.Symbol]
	f.store[c.Symbol] = c
	return !exists, nil
}

func (f *fakeCurrencyRepo) UpdateMarket(_ context.Context, sym domain.Symbol, md domain.MarketData) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.updateErr[sym]; err != nil {
		return false, err
	}
	c, ok := f.store[sym]
	if !ok {
		return false, nil
	}
	f.store[sym] = c.WithMarket(md)
	return true, nil
}

type fakeConversionRepo struct {
	rows []domain.Conversion
	err  error
}

func (f *fakeConversionRepo) Append(_ context.Context, c domain.Conversion) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, c)
	return nil
}

func (f *fakeConversionRepo) ListByPrincipal(_ context.Context, p domain.PrincipalID, limit, offset int) ([]domain.Conversion, error) {
	if f.err != nil {
		return nil, f.err
	}
	var mine []domain.Conversion
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].Principal == p {
			mine = append(mine, f.rows[i])
		}
	}
	if offset >= len(mine) {
		return nil, nil
	}
	mine = mine[offset:]
	if len(mine) > limit {
		mine = mine[:limit]
	}
	return mine, nil
}

type fakeFeed struct {
	out   []domain.FeedEntry
	err   error
	calls [][]string
}

func (f *fakeFeed) Markets(_ context.Context, ids []string) ([]domain.FeedEntry, error) {
	f.calls = append(f.calls, ids)
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

// recordingUoW counts scopes and rolls nothing back; nesting is tracked by depth.
type recordingUoW struct {
	outer, nested int
	depth         int
	commitErr     error
}

func (u *recordingUoW) Do(ctx context.Context, fn func(context.Context) error) error {
	if u.depth == 0 {
		u.outer++
	} else {
		u.nested++
	}
	u.depth++
	err := fn(ctx)
	u.depth--
	if err != nil {
		return err
	}
	if u.depth == 0 && u.commitErr != nil {
		return u.commitErr
	}
	return nil
}

type fakeIdem struct {
	seen map[string]bool
	err  error
}

func (f *fakeIdem) TryReserve(_ context.Context, key string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }

type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() string {
	g.n++
	return "conv-" + string(rune('0'+g.n))
}

func currency(sym, price string) domain.Currency {
	return domain.Currency{Symbol: domain.Symbol(sym), Name: sym, PriceUSD: decimal.RequireFromString(price)}
}

func strPtr(s string) *string { return &s }
