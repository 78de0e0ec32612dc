package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	PurchasesRecorded   prometheus.Counter
	SalesRecorded       prometheus.Counter
	SaleAmount          prometheus.Histogram
	SettlementsApplied  *prometheus.CounterVec
	SettlementsReversed prometheus.Counter
	SettlementAmount    prometheus.Histogram
	SettlementDuration  prometheus.Histogram
	SettlementErrors    *prometheus.CounterVec

	// Balance metrics
	OutstandingBalance *prometheus.GaugeVec
	LedgersClosed      prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Report metrics
	ReportRequests  *prometheus.CounterVec
	ReportCacheHits *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Ledger metrics
		PurchasesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_purchases_recorded_total",
			Help: "Total number of vehicle purchases recorded",
		}),
		SalesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_sales_recorded_total",
			Help: "Total number of vehicle sales recorded",
		}),
		SaleAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dealerledger_sale_amount",
			Help:    "Sale prices of recorded sales",
			Buckets: []float64{10000, 50000, 100000, 500000, 1000000, 5000000, 10000000},
		}),
		SettlementsApplied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerledger_settlements_applied_total",
				Help: "Total number of settlements applied by direction",
			},
			[]string{"type"},
		),
		SettlementsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_settlements_reversed_total",
			Help: "Total number of settlements reversed",
		}),
		SettlementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dealerledger_settlement_amount",
			Help:    "Settlement amounts",
			Buckets: []float64{1000, 5000, 10000, 50000, 100000, 500000, 1000000},
		}),
		SettlementDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dealerledger_settlement_duration_seconds",
			Help:    "Duration of settlement operations",
			Buckets: prometheus.DefBuckets,
		}),
		SettlementErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerledger_settlement_errors_total",
				Help: "Total number of settlement errors by type",
			},
			[]string{"error_type"},
		),

		// Balance metrics
		OutstandingBalance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dealerledger_outstanding_balance",
				Help: "Current outstanding balance by direction",
			},
			[]string{"vehicle_id", "direction"},
		),
		LedgersClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_ledgers_closed_total",
			Help: "Total number of vehicle ledgers fully settled",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dealerledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerledger_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dealerledger_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "dealerledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Report metrics
		ReportRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerledger_report_requests_total",
				Help: "Total profit report requests",
			},
			[]string{"report"},
		),
		ReportCacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerledger_report_cache_hits_total",
				Help: "Profit report cache lookups by outcome",
			},
			[]string{"outcome"},
		),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerledger_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerledger_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Audit metrics
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),

		// Outbox metrics
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_outbox_errors_total",
			Help: "Total outbox publish errors",
		}),
	}
}
