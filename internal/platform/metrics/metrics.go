package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RecordsCreated   prometheus.Counter
	RecordsVerified  prometheus.Counter
	VerifyRejected   *prometheus.CounterVec
	RecordLookups    *prometheus.CounterVec
	AuthFailures     prometheus.Counter
	EndpointLatency  *prometheus.HistogramVec
	StoreOpLatency   *prometheus.HistogramVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	AuditEventsDropped prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RecordsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "workledger_records_created_total",
			Help: "Total number of work records created",
		}),
		RecordsVerified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "workledger_records_verified_total",
			Help: "Total number of work records verified",
		}),
		VerifyRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "workledger_verify_rejected_total",
			Help: "Total number of rejected verification attempts, labeled by reason",
		}, []string{"reason"}),
		RecordLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "workledger_record_lookups_total",
			Help: "Total number of record lookups, labeled by outcome",
		}, []string{"outcome"}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "workledger_auth_failures_total",
			Help: "Total number of authentication failures",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workledger_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		StoreOpLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workledger_store_op_latency_seconds",
			Help:    "Latency of store operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "workledger_record_cache_hits_total",
			Help: "Total number of record cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "workledger_record_cache_misses_total",
			Help: "Total number of record cache misses",
		}),
		AuditEventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "workledger_audit_events_dropped_total",
			Help: "Total number of audit events dropped due to a full buffer",
		}),
	}
}

// IncrementRecordsCreated increments the records created counter by 1.
func (m *Metrics) IncrementRecordsCreated() {
	m.RecordsCreated.Inc()
}

// IncrementRecordsVerified increments the records verified counter by 1.
func (m *Metrics) IncrementRecordsVerified() {
	m.RecordsVerified.Inc()
}

// IncrementVerifyRejected increments the rejected verification counter with a reason label.
func (m *Metrics) IncrementVerifyRejected(reason string) {
	m.VerifyRejected.WithLabelValues(reason).Inc()
}

// IncrementRecordLookups increments the lookup counter with an outcome label.
func (m *Metrics) IncrementRecordLookups(outcome string) {
	m.RecordLookups.WithLabelValues(outcome).Inc()
}

// IncrementAuthFailures increments the auth failures counter by 1.
func (m *Metrics) IncrementAuthFailures() {
	m.AuthFailures.Inc()
}

// ObserveEndpointLatency records the latency for a given endpoint.
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}

// ObserveStoreOpLatency records the latency for a given store operation.
func (m *Metrics) ObserveStoreOpLatency(op string, durationSeconds float64) {
	m.StoreOpLatency.WithLabelValues(op).Observe(durationSeconds)
}

// RecordCacheHit increments the cache hit counter.
func (m *Metrics) RecordCacheHit() {
	m.CacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func (m *Metrics) RecordCacheMiss() {
	m.CacheMisses.Inc()
}

// IncrementAuditEventsDropped increments the dropped audit events counter.
func (m *Metrics) IncrementAuditEventsDropped() {
	m.AuditEventsDropped.Inc()
}
