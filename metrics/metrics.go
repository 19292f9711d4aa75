// Package metrics provides Prometheus collectors for folio.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "folio"

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	Registry *prometheus.Registry

	// BackendRequests counts backend calls by operation and status code.
	BackendRequests *prometheus.CounterVec
	// BackendDuration measures backend call latency.
	BackendDuration *prometheus.HistogramVec
	// CacheLookups counts post cache lookups by result (hit, miss).
	CacheLookups *prometheus.CounterVec
	// StaleServed counts pages rendered from a snapshot after a failed fetch.
	StaleServed *prometheus.CounterVec
	// LoginAttempts counts login attempts by outcome.
	LoginAttempts *prometheus.CounterVec
}

// New registers the collectors, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		BackendRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backend_requests_total",
				Help:      "Total number of backend API calls",
			},
			[]string{"op", "code"},
		),
		BackendDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backend_request_duration_seconds",
				Help:      "Duration of backend API calls in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "post_cache_lookups_total",
				Help:      "Post cache lookups by result",
			},
			[]string{"result"},
		),
		StaleServed: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stale_snapshots_served_total",
				Help:      "Pages rendered from a saved snapshot because the backend failed",
			},
			[]string{"list"},
		),
		LoginAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveRequest records a backend call. Status 0 means the call never got
// an answer.
func (m *Metrics) ObserveRequest(op string, status int, elapsed time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.BackendRequests.WithLabelValues(op, code).Inc()
	m.BackendDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// CacheHit records a post cache hit.
func (m *Metrics) CacheHit() { m.CacheLookups.WithLabelValues("hit").Inc() }

// CacheMiss records a post cache miss.
func (m *Metrics) CacheMiss() { m.CacheLookups.WithLabelValues("miss").Inc() }

// RecordStale records a page served from the named snapshot.
func (m *Metrics) RecordStale(list string) { m.StaleServed.WithLabelValues(list).Inc() }

// RecordLogin records a login attempt outcome (ok, rejected, limited, error).
func (m *Metrics) RecordLogin(outcome string) { m.LoginAttempts.WithLabelValues(outcome).Inc() }
