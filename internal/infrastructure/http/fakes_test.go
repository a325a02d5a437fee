package httpserver

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"cryptorates-service/internal/application"
	"cryptorates-service/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type memCurrencies struct {
	mu    sync.Mutex
	store map[domain.Symbol]domain.Currency
}

func newMemCurrencies() *memCurrencies {
	m := &memCurrencies{store: map[domain.Symbol]domain.Currency{}}
	for _, c := range domain.SeedCurrencies() {
		m.store[c.Symbol] = c
	}
	return m
}

func (m *memCurrencies) Get(_ context.Context, s domain.Symbol) (domain.Currency, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[s]
	if !ok {
		return domain.Currency{}, application.ErrNotFound
	}
	return c, nil
}

func (m *memCurrencies) List(context.Context) ([]domain.Currency, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Currency, 0, len(m.store))
	for _, c := range m.store {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MarketCap > out[j].MarketCap })
	return out, nil
}

func (m *memCurrencies) Upsert(_ context.Context, c domain.Currency) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.store[c.Symbol]
	m.store[c.Symbol] = c
	return !ok, nil
}

func (m *memCurrencies) UpdateMarket(_ context.Context, s domain.Symbol, md domain.MarketData) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[s]
	if !ok {
		return false, nil
	}
	m.store[s] = c.WithMarket(md)
	return true, nil
}

type memLedger struct {
	mu   sync.Mutex
	rows []domain.Conversion
}

func (m *memLedger) Append(_ context.Context, c domain.Conversion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, c)
	return nil
}

func (m *memLedger) ListByPrincipal(_ context.Context, p domain.PrincipalID, limit, offset int) ([]domain.Conversion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Conversion
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].Principal == p {
			out = append(out, m.rows[i])
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memIdem struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (m *memIdem) TryReserve(_ context.Context, k string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	if m.seen[k] {
		return false, nil
	}
	m.seen[k] = true
	return true, nil
}

type stubSyncer struct {
	rep application.SyncReport
	err error
	n   int
}

func (s *stubSyncer) Sync(context.Context) (application.SyncReport, error) {
	s.n++
	return s.rep, s.err
}

type stubLimiter struct {
	allow bool
	retry time.Duration
	err   error
}

func (l stubLimiter) Allow(context.Context, string) (bool, time.Duration, error) {
	return l.allow, l.retry, l.err
}

type testEnv struct {
	srv     *Server
	h       http.Handler
	ledger  *memLedger
	syncer  *stubSyncer
	current *memCurrencies
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cur := newMemCurrencies()
	ledger := &memLedger{}
	svc := application.NewCryptoService(cur, ledger, &memIdem{})
	syncer := &stubSyncer{}
	srv := NewServer(svc, syncer, NewAuthenticator(testSecret))
	return &testEnv{srv: srv, h: NewRouter(srv), ledger: ledger, syncer: syncer, current: cur}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func tokenFor(t *testing.T, user string) string {
	return signToken(t, testSecret, jwt.MapClaims{"user_id": user})
}
