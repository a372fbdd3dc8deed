package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the application.
// It includes bot activity counters, storage timings and the outcomes of
// purchase lifecycle transitions.
type Metrics struct {
	CommandReceived     *prometheus.CounterVec   // Counter for received commands
	SentMessages        *prometheus.CounterVec   // Counter for sent messages
	DBQueryDuration     *prometheus.HistogramVec // Histogram for database query durations
	ReportGeneration    *prometheus.HistogramVec // Histogram for report generation durations
	PurchaseTransitions *prometheus.CounterVec   // Counter for purchase state transitions
	EngineErrors        *prometheus.CounterVec   // Counter for engine errors by kind
	Notifications       *prometheus.CounterVec   // Counter for buyer notifications
	CacheOps            *prometheus.CounterVec   // Counter for cache lookups and writes
}

// NewMetrics creates a new Metrics instance with the provided Prometheus Registerer.
//
// Parameters:
//   - reg: A Prometheus Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		CommandReceived: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bazaar_commands_received_total",
			Help: "Total number of used commands",
		}, []string{"command"}), // command: start, shop, buy, approve
		SentMessages: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bazaar_messages_sent_total",
			Help: "Output bot activity",
		}, []string{"type"}), // type: text, edit, file, error
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bazaar_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: get_employee
		ReportGeneration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name: "bazaar_report_generation_duration_seconds",
			Help: "Duration of report excel generation.",
		}, []string{"report"}), // report: history
		PurchaseTransitions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bazaar_purchase_transitions_total",
			Help: "Purchase lifecycle transitions by outcome",
		}, []string{"transition", "outcome"}), // transition: create, approve, reject, activate
		EngineErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bazaar_engine_errors_total",
			Help: "Errors returned by the purchase engine",
		}, []string{"kind"}),
		Notifications: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bazaar_notifications_total",
			Help: "Buyer notifications by channel and result",
		}, []string{"channel", "result"}), // result: sent, failed
		CacheOps: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bazaar_cache_operations_total",
			Help: "Cache operations by type and result",
		}, []string{"op", "result"}), // op: get, set; result: hit, miss, success, error
	}
}
