package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jwalitptl/medreminder-api/internal/repository"
)

// Metrics holds the domain metrics shared by the API and the worker.
type Metrics struct {
	// Reminder metrics
	RemindersCreated    prometheus.Counter
	RemindersSent       prometheus.Counter
	RemindersFailed     prometheus.Counter
	ReminderRunDuration prometheus.Histogram

	// Broker metrics
	BrokerPublishes *prometheus.CounterVec
	BrokerLatency   prometheus.Histogram

	// Integrity metrics
	CascadeRemovals *prometheus.CounterVec
}

// NewMetrics creates all domain metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RemindersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "created_total",
			Help:      "Total number of reminder notifications created",
		}),
		RemindersSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "sent_total",
			Help:      "Total number of reminder notifications dispatched and marked sent",
		}),
		RemindersFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "failed_total",
			Help:      "Total number of patients whose reminder failed",
		}),
		ReminderRunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "run_duration_seconds",
			Help:      "Time spent on one reminder run",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
		}),

		BrokerPublishes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broker",
			Name:      "publishes_total",
			Help:      "Total number of broker publishes",
		}, []string{"status"}),
		BrokerLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "broker",
			Name:      "publish_duration_seconds",
			Help:      "Duration of broker publishes",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5},
		}),

		CascadeRemovals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "integrity",
			Name:      "cascade_removals_total",
			Help:      "Records removed by cascading deletes, by kind",
		}, []string{"kind"}),
	}
}

// RecordRemoved counts one cascaded removal.
func (m *Metrics) RecordRemoved(kind repository.Kind) {
	m.CascadeRemovals.WithLabelValues(string(kind)).Inc()
}
