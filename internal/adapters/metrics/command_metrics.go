package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes used as the "outcome" label
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// CommandMetricsCollector tracks mediator requests: control commands, company commands and queries
type CommandMetricsCollector struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	inFlight        prometheus.Gauge
}

func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: mediatorSubsystem,
				Name:      "command_duration_seconds",
				Help:      "Time spent handling a request, including the wait for the world lock",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.25, 1},
			},
			[]string{"command", "kind"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: mediatorSubsystem,
				Name:      "commands_total",
				Help:      "Requests handled by name, kind and outcome",
			},
			[]string{"command", "kind", "outcome"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: mediatorSubsystem,
			Name:      "requests_in_flight",
			Help:      "Requests currently being handled",
		}),
	}
}

// Register registers all command metrics with the Prometheus registry
func (c *CommandMetricsCollector) Register() error {
	return registerAll(c.requestDuration, c.requestsTotal, c.inFlight)
}

func (c *CommandMetricsCollector) begin() { c.inFlight.Inc() }

// RecordCommandExecution closes out one request started by the middleware
func (c *CommandMetricsCollector) RecordCommandExecution(name, kind, outcome string, seconds float64) {
	c.inFlight.Dec()
	c.requestDuration.WithLabelValues(name, kind).Observe(seconds)
	c.requestsTotal.WithLabelValues(name, kind, outcome).Inc()
}
