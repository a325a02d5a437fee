package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cryptorates-service/internal/application"
	"cryptorates-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func (e *testEnv) do(t *testing.T, method, path, body, user string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, user))
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/healthz", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	require.NotEmpty(t, rec.Header().Get("X-Trace-Id"))
}

func TestReadyz_FailingCheck(t *testing.T) {
	e := newTestEnv(t)
	e.srv.SetReadyCheck(func(context.Context) error { return errors.New("db down") })
	rec := e.do(t, http.MethodGet, "/readyz", "", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.JSONEq(t, `{"code":503,"message":"db not ready"}`, rec.Body.String())
}

func TestOpenAPIAndMetricsArePublic(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/openapi.yaml", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/convert")

	rec = e.do(t, http.MethodGet, "/metrics", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newTestEnv(t)
	for _, p := range []string{"/currencies", "/currencies/BTC", "/history", "/sync"} {
		rec := e.do(t, http.MethodGet, p, "", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, p)
		require.JSONEq(t, `{"code":401,"message":"no token provided"}`, rec.Body.String())
	}
	rec := e.do(t, http.MethodPost, "/convert", `{"from":"BTC","to":"ETH","amount":1}`, "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, e.ledger.rows)
}

func TestListCurrencies(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/currencies", "", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, len(domain.SeedCurrencies()))
	require.Equal(t, "BTC", out[0]["symbol"])
}

func TestGetCurrency(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/currencies/eth", "", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"price_usd":3500`)

	rec = e.do(t, http.MethodGet, "/currencies/NOPE", "", "alice", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"code":404,"message":"currency not found"}`, rec.Body.String())
}

func TestConvert(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/convert", `{"from":"BTC","to":"ETH","amount":1}`, "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{
		"from_currency":"BTC","to_currency":"ETH","amount":1,
		"converted_amount":19.428571,"conversion_rate":19.428571
	}`, rec.Body.String())
	require.Len(t, e.ledger.rows, 1)
	require.Equal(t, domain.PrincipalID("alice"), e.ledger.rows[0].Principal)
}

func TestConvert_LegacyFieldNamesAndStringAmount(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/convert", `{"from_currency":"eth","to_currency":"usdt","amount":"0.5"}`, "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"converted_amount":1750.000000`)
}

func TestConvert_Validation(t *testing.T) {
	e := newTestEnv(t)
	cases := []string{
		`{"from":"BTC","to":"NOPE","amount":1}`,
		`{"from":"BTC","to":"ETH","amount":0}`,
		`{"from":"BTC","to":"ETH","amount":"abc"}`,
		`{"from":"BTC","to":"ETH"}`,
		`{"from":"BTC","to":"ETH","amount":true}`,
		`not json`,
	}
	for _, body := range cases {
		rec := e.do(t, http.MethodPost, "/convert", body, "alice", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		var env errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		require.Equal(t, 400, env.Code)
	}
	require.Empty(t, e.ledger.rows)
}

func TestConvert_IdempotencyKeyConflict(t *testing.T) {
	e := newTestEnv(t)
	hdr := map[string]string{"X-Idempotency-Key": "k1"}
	body := `{"from":"BTC","to":"ETH","amount":1}`
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/convert", body, "alice", hdr).Code)
	rec := e.do(t, http.MethodPost, "/convert", body, "alice", hdr)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Len(t, e.ledger.rows, 1)
}

func TestHistory_IsolatedAndPaged(t *testing.T) {
	e := newTestEnv(t)
	for _, u := range []string{"alice", "bob", "alice"} {
		require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/convert", `{"from":"BTC","to":"ETH","amount":1}`, u, nil).Code)
	}
	rec := e.do(t, http.MethodGet, "/history", "", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []conversionDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	require.NotEmpty(t, rows[0].ID)

	rec = e.do(t, http.MethodGet, "/history?limit=1&offset=1", "", "alice", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)

	rec = e.do(t, http.MethodGet, "/history?limit=abc", "", "alice", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPR(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/apr", `{"crypto_symbol":"BTC","principal":1,"rate":10,"time_years":1}`, "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{
		"crypto_symbol":"BTC",
		"principal_in_crypto":1,
		"principal_in_usd":68000.00,
		"annual_rate_percent":10.00,
		"time_years":1.00,
		"total_amount_in_crypto":1.1000,
		"interest_earned_in_crypto":0.1000,
		"total_amount_in_usd":74800.00,
		"interest_earned_in_usd":6800.00
	}`, rec.Body.String())
	require.Empty(t, e.ledger.rows)

	rec = e.do(t, http.MethodPost, "/apr", `{"symbol":"BTC","principal":-1,"rate":10,"years":1}`, "alice", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSync(t *testing.T) {
	e := newTestEnv(t)
	e.syncer.rep = application.SyncReport{Updated: []domain.Symbol{"BTC", "ETH"}}
	rec := e.do(t, http.MethodPost, "/sync", "", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"updated_cryptos":["BTC","ETH"]}`, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/sync", "", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, e.syncer.n)
}

func TestSync_FeedUnavailable(t *testing.T) {
	e := newTestEnv(t)
	e.syncer.err = domain.ErrFeedUnavailable
	rec := e.do(t, http.MethodPost, "/sync", "", "alice", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.JSONEq(t, `{"code":503,"message":"price feed unavailable","updated_cryptos":[]}`, rec.Body.String())
}

func TestSync_RateLimited(t *testing.T) {
	e := newTestEnv(t)
	e.srv.SetRateLimiter(stubLimiter{allow: false, retry: 1500 * time.Millisecond})
	rec := e.do(t, http.MethodPost, "/sync", "", "alice", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "2", rec.Header().Get("Retry-After"))
	require.Zero(t, e.syncer.n)
}

func TestSync_RateLimiterDownFailsOpen(t *testing.T) {
	e := newTestEnv(t)
	e.srv.SetRateLimiter(stubLimiter{err: errors.New("redis down")})
	rec := e.do(t, http.MethodPost, "/sync", "", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, e.syncer.n)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/nope", "", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"code":404,"message":"not found"}`, rec.Body.String())
}

func TestCORS_CredentialsOnlyForListedOrigins(t *testing.T) {
	cases := []struct {
		name      string
		origins   []string
		origin    string
		allow     string
		withCreds bool
	}{
		{"no list", nil, "https://evil.example", "*", false},
		{"wildcard", []string{"*"}, "https://evil.example", "*", false},
		{"listed", []string{"https://app.example"}, "https://app.example", "https://app.example", true},
		{"not listed", []string{"https://app.example"}, "https://evil.example", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEnv(t)
			e.srv.SetCORSOrigins(tc.origins)
			e.h = NewRouter(e.srv)
			rec := e.do(t, http.MethodGet, "/healthz", "", "", map[string]string{"Origin": tc.origin})
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tc.allow, rec.Header().Get("Access-Control-Allow-Origin"))
			if tc.withCreds {
				require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
			} else {
				require.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
			}
		})
	}
}
