package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PollerMetrics holds the Prometheus counters, histograms, and gauges for
// the dispatch poller.
type PollerMetrics struct {
	TicksTotal       prometheus.Counter
	TickErrors       prometheus.Counter
	RecordsDue       prometheus.Counter
	DispatchErrors   prometheus.Counter
	TriggeredSetSize prometheus.Gauge
	TickDuration     prometheus.Histogram
}

// NewPollerMetrics creates and registers the poller metrics with the
// default Prometheus registry.
func NewPollerMetrics() *PollerMetrics {
	m := newPollerMetrics()
	prometheus.MustRegister(
		m.TicksTotal,
		m.TickErrors,
		m.RecordsDue,
		m.DispatchErrors,
		m.TriggeredSetSize,
		m.TickDuration,
	)
	return m
}

// NewPollerMetricsForTesting creates PollerMetrics without registering
// them, avoiding "already registered" panics across tests.
func NewPollerMetricsForTesting() *PollerMetrics {
	return newPollerMetrics()
}

func newPollerMetrics() *PollerMetrics {
	return &PollerMetrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coastal_alert",
			Name:      "poller_ticks_total",
			Help:      "Total completed poll ticks.",
		}),
		TickErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coastal_alert",
			Name:      "poller_tick_errors_total",
			Help:      "Ticks aborted by a schedule source read failure.",
		}),
		RecordsDue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coastal_alert",
			Name:      "poller_records_due_total",
			Help:      "Schedule records whose trigger time was reached.",
		}),
		DispatchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coastal_alert",
			Name:      "poller_dispatch_errors_total",
			Help:      "Dispatch attempts that failed enrichment or delivery.",
		}),
		TriggeredSetSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "coastal_alert",
			Name:      "poller_triggered_set_size",
			Help:      "IDs marked as dispatched since process start.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "coastal_alert",
			Name:      "poller_tick_duration_seconds",
			Help:      "Duration of one complete poll tick.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// NotifierMetrics holds the Prometheus counters for the notification
// endpoint.
type NotifierMetrics struct {
	AlertsReceived prometheus.Counter
	AlertsRejected prometheus.Counter
	SMSSent        prometheus.Counter
	SMSErrors      prometheus.Counter
}

// NewNotifierMetrics creates and registers the notifier metrics with the
// default Prometheus registry.
func NewNotifierMetrics() *NotifierMetrics {
	m := newNotifierMetrics()
	prometheus.MustRegister(m.AlertsReceived, m.AlertsRejected, m.SMSSent, m.SMSErrors)
	return m
}

// NewNotifierMetricsForTesting creates NotifierMetrics without
// registering them.
func NewNotifierMetricsForTesting() *NotifierMetrics {
	return newNotifierMetrics()
}

func newNotifierMetrics() *NotifierMetrics {
	return &NotifierMetrics{
		AlertsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coastal_alert",
			Name:      "notifier_alerts_received_total",
			Help:      "Alert payloads received on the send-alert endpoint.",
		}),
		AlertsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coastal_alert",
			Name:      "notifier_alerts_rejected_total",
			Help:      "Alert payloads rejected for missing fields.",
		}),
		SMSSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coastal_alert",
			Name:      "notifier_sms_sent_total",
			Help:      "SMS messages accepted by the provider.",
		}),
		SMSErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coastal_alert",
			Name:      "notifier_sms_errors_total",
			Help:      "SMS sends rejected by the provider.",
		}),
	}
}
