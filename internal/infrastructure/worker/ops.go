package worker

import (
	"net/http"

	"cryptorates-service/internal/infrastructure/metrics"

	"github.com/go-chi/chi/v5"
)

// NewOpsRouter serves the worker's internal port. POST /sync queues an
// extra pass behind any pass already running.
func NewOpsRouter(w *SyncWorker) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Post("/sync", func(rw http.ResponseWriter, _ *http.Request) {
		w.Trigger()
		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(http.StatusAccepted)
		_, _ = rw.Write([]byte(`{"status":"queued"}`))
	})
	return r
}
