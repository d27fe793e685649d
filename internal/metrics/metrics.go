// Package metrics defines the Prometheus collectors for the item server and the sync client.
//
// Every method tolerates a nil receiver so components can run without metrics in tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stockmanager"

// Product resolution outcomes.
const (
	OutcomeCreated = "created"
	OutcomeReused  = "reused"
)

type Server struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
	Products *prometheus.CounterVec
}

func NewServer(reg prometheus.Registerer) *Server {
	f := promauto.With(reg)
	return &Server{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		Latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Products: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "products_resolved_total",
			Help:      "Product find-or-create calls by outcome (created, reused).",
		}, []string{"outcome"}),
	}
}

func (m *Server) ProductResolved(outcome string) {
	if m == nil {
		return
	}
	m.Products.WithLabelValues(outcome).Inc()
}

// Sync counts how the client coordinator routes reads and writes.
type Sync struct {
	RemoteFailures *prometheus.CounterVec
	FallbackWrites *prometheus.CounterVec
	Duplicates     prometheus.Counter
	Reads          *prometheus.CounterVec
}

func NewSync(reg prometheus.Registerer) *Sync {
	f := promauto.With(reg)
	return &Sync{
		RemoteFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "remote_failures_total",
			Help:      "Remote store calls that failed, by operation.",
		}, []string{"op"}),
		FallbackWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "fallback_writes_total",
			Help:      "Writes applied to the local fallback cache, by operation.",
		}, []string{"op"}),
		Duplicates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "update_duplicates_total",
			Help:      "Failed remote updates recorded as a new local item.",
		}),
		Reads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "reads_total",
			Help:      "List calls by the store that answered.",
		}, []string{"source"}),
	}
}

func (m *Sync) RemoteFailure(op string) {
	if m == nil {
		return
	}
	m.RemoteFailures.WithLabelValues(op).Inc()
}

func (m *Sync) FallbackWrite(op string) {
	if m == nil {
		return
	}
	m.FallbackWrites.WithLabelValues(op).Inc()
}

func (m *Sync) Duplicate() {
	if m == nil {
		return
	}
	m.Duplicates.Inc()
}

func (m *Sync) Read(source string) {
	if m == nil {
		return
	}
	m.Reads.WithLabelValues(source).Inc()
}
