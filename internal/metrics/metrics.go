// Package metrics exposes Prometheus collectors for the storefront.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for business operations.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "game_store",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "game_store",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "game_store",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	checkouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "game_store",
			Subsystem: "shop",
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome.",
		},
		[]string{"outcome"},
	)

	revenue = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "game_store",
			Subsystem: "shop",
			Name:      "revenue_baht_total",
			Help:      "Wallet credit spent on completed checkouts.",
		},
	)

	topups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "game_store",
			Subsystem: "wallet",
			Name:      "topups_total",
			Help:      "Topup attempts by outcome.",
		},
		[]string{"outcome"},
	)

	rateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "game_store",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by a rate-limit policy.",
		},
		[]string{"policy"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		checkouts,
		revenue,
		topups,
		rateLimited,
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted increments the in-flight gauge and returns a func that
// records the finished request.
func RequestStarted() func(method, path string, status int) {
	start := time.Now()
	httpInFlight.Inc()
	return func(method, path string, status int) {
		httpInFlight.Dec()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordCheckout counts a checkout attempt; amount is only added on success.
func RecordCheckout(outcome string, amount float64) {
	checkouts.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		revenue.Add(amount)
	}
}

// RecordTopup counts a topup attempt.
func RecordTopup(outcome string) {
	topups.WithLabelValues(outcome).Inc()
}

// RecordRateLimited counts a request rejected by policy.
func RecordRateLimited(policy string) {
	rateLimited.WithLabelValues(policy).Inc()
}
