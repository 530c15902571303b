package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/actionpulse/actionpulse/internal/models"
)

// Metrics holds the agent's collectors on a private registry so that a
// process can build more than one agent without duplicate registration.
type Metrics struct {
	registry *prometheus.Registry

	cycles         *prometheus.CounterVec
	reportFailures prometheus.Counter
	reportLatency  prometheus.Histogram
	inputEvents    *prometheus.CounterVec
	suspicious     prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actionpulse_cycles_total",
			Help: "Reporting cycles completed, by classified status.",
		}, []string{"status"}),
		reportFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actionpulse_report_failures_total",
			Help: "Status reports that did not reach the backend.",
		}),
		reportLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "actionpulse_report_duration_seconds",
			Help:    "Round trip time of status reports.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 11),
		}),
		inputEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actionpulse_input_events_total",
			Help: "Raw input events received from listeners, by kind.",
		}, []string{"kind"}),
		suspicious: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "actionpulse_suspicious",
			Help: "1 when the last cycle's click history looked automated.",
		}),
	}

	m.registry.MustRegister(m.cycles, m.reportFailures, m.reportLatency, m.inputEvents, m.suspicious)
	return m
}

// Registry exposes the collectors for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveCycle(status models.Status, suspicious bool) {
	m.cycles.WithLabelValues(status.String()).Inc()
	if suspicious {
		m.suspicious.Set(1)
	} else {
		m.suspicious.Set(0)
	}
}

func (m *Metrics) ObserveReport(elapsed time.Duration, err error) {
	m.reportLatency.Observe(elapsed.Seconds())
	if err != nil {
		m.reportFailures.Inc()
	}
}

func (m *Metrics) IncInput(kind string) {
	m.inputEvents.WithLabelValues(kind).Inc()
}
