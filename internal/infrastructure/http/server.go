package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"cryptorates-service/internal/application"
	"cryptorates-service/internal/domain"
	"cryptorates-service/internal/infrastructure/logx"
	"cryptorates-service/internal/infrastructure/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"
)

// Syncer runs one price sync pass.
type Syncer interface {
	Sync(ctx context.Context) (application.SyncReport, error)
}

// RateLimiter admits or rejects a hit for key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

type Server struct {
	svc     *application.CryptoService
	sync    Syncer
	auth    *Authenticator
	limiter RateLimiter
	ping    func(ctx context.Context) error
	cors    []string
}

func NewServer(svc *application.CryptoService, sync Syncer, auth *Authenticator) *Server {
	return &Server{svc: svc, sync: sync, auth: auth}
}

func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }
func (s *Server) SetRateLimiter(l RateLimiter)                     { s.limiter = l }
func (s *Server) SetCORSOrigins(origins []string)                  { s.cors = origins }

func (s *Server) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	cs, err := s.svc.ListCurrencies(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]currencyDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCurrencyDTO(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) GetCurrency(w http.ResponseWriter, r *http.Request) {
	var symbol string
	if err := runtime.BindStyledParameterWithLocation("simple", false, "symbol", runtime.ParamLocationPath, chi.URLParam(r, "symbol"), &symbol); err != nil {
		writeError(w, http.StatusBadRequest, "invalid symbol parameter")
		return
	}
	c, err := s.svc.GetCurrency(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			writeError(w, http.StatusNotFound, "currency not found")
			return
		}
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCurrencyDTO(c))
}

func (s *Server) Convert(w http.ResponseWriter, r *http.Request) {
	var idemKey *string
	if v := r.Header.Get("X-Idempotency-Key"); v != "" {
		var key string
		if err := runtime.BindStyledParameterWithLocation("simple", false, "X-Idempotency-Key", runtime.ParamLocationHeader, v, &key); err != nil {
			writeError(w, http.StatusBadRequest, "invalid X-Idempotency-Key header")
			return
		}
		idemKey = &key
	}
	var body convertRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	principal, _ := currentPrincipal(r.Context())
	conv, err := s.svc.Convert(r.Context(), principal, application.ConvertRequest{
		From:           firstNonEmpty(body.From, body.FromCurrency),
		To:             firstNonEmpty(body.To, body.ToCurrency),
		Amount:         string(body.Amount),
		IdempotencyKey: idemKey,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	metrics.ConversionDone()
	out := toConversionDTO(conv)
	out.ID, out.CreatedAt = "", nil
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	var limit, offset int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit parameter")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", r.URL.Query(), &offset); err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset parameter")
		return
	}
	if limit < 0 || offset < 0 {
		writeError(w, http.StatusBadRequest, "limit and offset must not be negative")
		return
	}
	principal, _ := currentPrincipal(r.Context())
	rows, err := s.svc.History(r.Context(), principal, limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]conversionDTO, 0, len(rows))
	for _, c := range rows {
		out = append(out, toConversionDTO(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) CalculateAPR(w http.ResponseWriter, r *http.Request) {
	var body aprRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	res, err := s.svc.CalculateAPR(r.Context(), application.APRRequest{
		Symbol:    firstNonEmpty(body.Symbol, body.CryptoSymbol),
		Principal: string(body.Principal),
		Rate:      string(body.Rate),
		Years:     firstNonEmpty(string(body.Years), string(body.TimeYears)),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAPRDTO(res))
}

func (s *Server) Sync(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil {
		principal, _ := currentPrincipal(r.Context())
		ok, retry, err := s.limiter.Allow(r.Context(), "sync:"+string(principal))
		switch {
		case err != nil:
			// fail open
			logx.WithFields(r.Context()).Warn("ratelimit.unavailable", zap.Error(err))
		case !ok:
			metrics.RateLimited("/sync")
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			writeError(w, http.StatusTooManyRequests, "too many sync requests")
			return
		}
	}
	rep, err := s.sync.Sync(r.Context())
	if err != nil {
		metrics.ObserveSync(0, 0, true)
		if errors.Is(err, domain.ErrFeedUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, syncResponse{
				Code:           http.StatusServiceUnavailable,
				Message:        domain.ErrFeedUnavailable.Error(),
				UpdatedCryptos: []string{},
			})
			return
		}
		writeServiceError(w, r, err)
		return
	}
	metrics.ObserveSync(len(rep.Updated), len(rep.Skipped), false)
	out := syncResponse{UpdatedCryptos: make([]string, 0, len(rep.Updated))}
	for _, sym := range rep.Updated {
		out.UpdatedCryptos = append(out.UpdatedCryptos, string(sym))
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Code: status, Message: msg})
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidSymbol), errors.Is(err, domain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, application.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, application.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrFeedUnavailable):
		writeError(w, http.StatusServiceUnavailable, domain.ErrFeedUnavailable.Error())
	default:
		logx.WithFields(r.Context()).Error("http.internal_error",
			zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
