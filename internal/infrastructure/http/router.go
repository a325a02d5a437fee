package httpserver

import (
	_ "embed"
	"net/http"
	"strings"
	"time"

	"cryptorates-service/internal/infrastructure/logx"
	"cryptorates-service/internal/infrastructure/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:embed openapi.yaml
var openapiSpec []byte

func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID())
	r.Use(traceID())
	r.Use(recoverer())
	r.Use(corsHandler(s.cors))
	r.Use(observe())
	r.Use(accessLog())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if s.ping != nil {
			if err := s.ping(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, "db not ready")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	r.Handle("/metrics", metrics.Handler())

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(openapiSpec)
	})

	// Serve minimal Swagger UI
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(swaggerHTML))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)

		r.Get("/currencies", s.ListCurrencies)
		r.Get("/currencies/{symbol}", s.GetCurrency)
		r.Post("/convert", s.Convert)
		r.Get("/history", s.History)
		r.Post("/apr", s.CalculateAPR)
		r.Post("/sync", s.Sync)
		r.Get("/sync", s.Sync)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// corsHandler allows credentialed requests only from explicitly listed
// origins. With no list, or a wildcard in it, any origin may read public
// responses but the browser will not send the access_token cookie.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	credentials := len(origins) > 0
	for _, o := range origins {
		if strings.Contains(o, "*") {
			credentials = false
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Trace-Id", "X-Idempotency-Key"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Trace-Id", "Retry-After"},
		AllowCredentials: credentials,
		MaxAge:           300,
	})
}
