package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sakhi_session"

// Metrics holds the prometheus collectors for the session core.
type Metrics struct {
	transitions *prometheus.CounterVec
	startup     *prometheus.CounterVec
	reported    *prometheus.CounterVec
	dropped     prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Session state transitions by target state.",
		}, []string{"to"}),
		startup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "startup_total",
			Help:      "Startup auth checks by outcome.",
		}, []string{"outcome"}),
		reported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_reported_total",
			Help:      "Errors delivered to the error reporter by context tag.",
		}, []string{"tag"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_dropped_total",
			Help:      "Error reports dropped because the queue was full or closed.",
		}),
	}
	reg.MustRegister(m.transitions, m.startup, m.reported, m.dropped)
	return m
}

func (m *Metrics) Transition(to string) {
	m.transitions.WithLabelValues(to).Inc()
}

func (m *Metrics) Startup(outcome string) {
	m.startup.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ErrorReported(tag string) {
	m.reported.WithLabelValues(tag).Inc()
}

func (m *Metrics) ReportDropped() {
	m.dropped.Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
