package nanmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nan-project/nand/internal/nan"
)

const (
	namespace = "nand"
	subsystem = "nan"
)

const (
	labelSessionKind = "session_kind"
	labelReason      = "reason"
)

// Collector holds the Prometheus metrics that observe a nan.Manager from
// the outside: client/session population gauges, orphaned-response and
// HAL-failure counters. It implements nan.MetricsReporter so it can be
// wired directly into nan.WithMetrics.
type Collector struct {
	Clients *prometheus.GaugeVec

	Sessions *prometheus.GaugeVec

	TransactionsOrphaned prometheus.Counter

	HALCommandFailures *prometheus.CounterVec
}

// NewCollector creates a Collector with all NAN metrics registered against
// reg. If reg is nil, prometheus.DefaultRegisterer is used.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := newMetrics()

	reg.MustRegister(
		c.Clients,
		c.Sessions,
		c.TransactionsOrphaned,
		c.HALCommandFailures,
	)

	return c
}

func newMetrics() *Collector {
	return &Collector{
		Clients: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "clients",
			Help:      "Number of currently connected NAN clients.",
		}, nil),

		Sessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sessions",
			Help:      "Number of currently established NAN publish/subscribe sessions.",
		}, []string{labelSessionKind}),

		TransactionsOrphaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "transactions_orphaned_total",
			Help:      "Total HAL responses that named an unknown or already-resolved transaction.",
		}),

		HALCommandFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "hal_command_failures_total",
			Help:      "Total HAL command failures, by reason code.",
		}, []string{labelReason}),
	}
}

// ClientConnected implements nan.MetricsReporter.
func (c *Collector) ClientConnected() {
	c.Clients.WithLabelValues().Inc()
}

// ClientDisconnected implements nan.MetricsReporter.
func (c *Collector) ClientDisconnected() {
	c.Clients.WithLabelValues().Dec()
}

// SessionEstablished implements nan.MetricsReporter.
func (c *Collector) SessionEstablished(kind nan.SessionKind) {
	c.Sessions.WithLabelValues(kind.String()).Inc()
}

// SessionRemoved implements nan.MetricsReporter.
func (c *Collector) SessionRemoved(kind nan.SessionKind) {
	c.Sessions.WithLabelValues(kind.String()).Dec()
}

// TransactionOrphaned implements nan.MetricsReporter.
func (c *Collector) TransactionOrphaned() {
	c.TransactionsOrphaned.Inc()
}

// HALCommandFailed implements nan.MetricsReporter.
func (c *Collector) HALCommandFailed(reason nan.Reason) {
	c.HALCommandFailures.WithLabelValues(reason.String()).Inc()
}

var _ nan.MetricsReporter = (*Collector)(nil)
