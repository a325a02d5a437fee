package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	syncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_sync_runs_total",
			Help: "Price sync passes by outcome",
		},
		[]string{"outcome"},
	)

	syncSymbolsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_sync_symbols_total",
			Help: "Symbols handled by price sync passes",
		},
		[]string{"result"},
	)

	conversionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversions_total",
			Help: "Successful currency conversions",
		},
	)

	rateLimitExceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_exceeded_total",
			Help: "Total number of rate limit exceeded errors",
		},
		[]string{"route"},
	)
)

func ObserveHTTP(method, route string, status int, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveSync records one pass. failed marks a pass that applied nothing.
func ObserveSync(updated, skipped int, failed bool) {
	if failed {
		syncRunsTotal.WithLabelValues("failed").Inc()
		return
	}
	syncRunsTotal.WithLabelValues("ok").Inc()
	syncSymbolsTotal.WithLabelValues("updated").Add(float64(updated))
	syncSymbolsTotal.WithLabelValues("skipped").Add(float64(skipped))
}

func ConversionDone() { conversionsTotal.Inc() }

func RateLimited(route string) { rateLimitExceeded.WithLabelValues(route).Inc() }

func Handler() http.Handler { return promhttp.Handler() }
