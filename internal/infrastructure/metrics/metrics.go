package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Engine metrics
	Operations        *prometheus.CounterVec
	OperationErrors   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	OperationAmount   *prometheus.HistogramVec

	// Client and account metrics
	ClientsCreated      prometheus.Counter
	ClientStatusChanges *prometheus.CounterVec
	AccountsCreated     prometheus.Counter

	// Reconciliation metrics
	ReconciliationDiscrepancies prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBRetries *prometheus.CounterVec

	// Outbox metrics
	EventsPublished    *prometheus.CounterVec
	EventPublishErrors prometheus.Counter

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates metrics registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_operations_total",
				Help: "Total committed engine operations by type",
			},
			[]string{"operation"},
		),
		OperationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_operation_errors_total",
				Help: "Total rejected or failed engine operations",
			},
			[]string{"operation", "error_type"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankcore_operation_duration_seconds",
				Help:    "Duration of engine operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		OperationAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankcore_operation_amount",
				Help:    "Amounts moved by engine operations",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"operation"},
		),

		ClientsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_clients_created_total",
			Help: "Total number of clients created",
		}),
		ClientStatusChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_client_status_changes_total",
				Help: "Client status transitions by new status",
			},
			[]string{"status"},
		),
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_accounts_created_total",
			Help: "Total number of accounts created",
		}),

		ReconciliationDiscrepancies: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bankcore_reconciliation_discrepancies",
			Help: "Accounts whose balance disagrees with the ledger at the last report",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankcore_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_db_retries_total",
				Help: "Atomic units retried after deadlock or serialization failure",
			},
			[]string{"code"},
		),

		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_events_published_total",
				Help: "Outbox events delivered to the broker",
			},
			[]string{"event_type"},
		),
		EventPublishErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_event_publish_errors_total",
			Help: "Outbox events that failed to publish",
		}),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
