// Package metrics provides Prometheus metrics for presentation transactions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TransactionsInitiated *prometheus.CounterVec   // by presentation kind
	WalletResponses       *prometheus.CounterVec   // by response mode and outcome
	QueryResults          *prometheus.CounterVec   // by operation and result
	StoreDuration         *prometheus.HistogramVec // by operation
	MalformedRecords      prometheus.Counter
	ExpiredEntriesDeleted prometheus.Counter
}

// New registers the metrics with the default Prometheus registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TransactionsInitiated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "verifier_transactions_initiated_total",
			Help: "Total number of presentation transactions initiated by presentation kind",
		}, []string{"kind"}),
		WalletResponses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "verifier_wallet_responses_total",
			Help: "Total number of wallet responses by response mode and outcome",
		}, []string{"mode", "outcome"}),
		QueryResults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "verifier_query_results_total",
			Help: "Total number of query results by operation and result",
		}, []string{"operation", "result"}),
		StoreDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verifier_store_duration_seconds",
			Help:    "Duration of transaction store operations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"operation"}),
		MalformedRecords: factory.NewCounter(prometheus.CounterOpts{
			Name: "verifier_store_malformed_records_total",
			Help: "Total number of stored records that failed to decode",
		}),
		ExpiredEntriesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "verifier_store_expired_entries_deleted_total",
			Help: "Total number of expired entries reclaimed by the cleanup worker",
		}),
	}
}

func (m *Metrics) IncrementTransactionsInitiated(kind string) {
	m.TransactionsInitiated.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementWalletResponse(mode, outcome string) {
	m.WalletResponses.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) IncrementQueryResult(operation, result string) {
	m.QueryResults.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) ObserveStore(operation string, start time.Time) {
	m.StoreDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementMalformedRecord() {
	m.MalformedRecords.Inc()
}

func (m *Metrics) AddExpiredEntriesDeleted(n int) {
	m.ExpiredEntriesDeleted.Add(float64(n))
}
