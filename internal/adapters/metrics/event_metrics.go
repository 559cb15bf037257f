package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/headquartz-go/internal/domain/events"
)

// EventMetricsCollector counts world events by kind and severity
type EventMetricsCollector struct {
	eventsTotal *prometheus.CounterVec

	mu  sync.Mutex
	bus *events.Bus
	sub events.Subscription
}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: companySubsystem,
				Name:      "events_total",
				Help:      "World events published by kind and severity",
			},
			[]string{"kind", "severity"},
		),
	}
}

// Register registers event metrics with the Prometheus registry
func (c *EventMetricsCollector) Register() error {
	return registerAll(c.eventsTotal)
}

// Attach subscribes to a bus. A previous subscription is dropped first.
func (c *EventMetricsCollector) Attach(bus *events.Bus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bus != nil {
		c.bus.Unsubscribe(c.sub)
	}
	c.bus = bus
	c.sub = bus.Subscribe(c.Observe)
}

// Detach removes the bus subscription
func (c *EventMetricsCollector) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bus != nil {
		c.bus.Unsubscribe(c.sub)
		c.bus = nil
	}
}

// Observe counts one event
func (c *EventMetricsCollector) Observe(e events.GameEvent) {
	c.eventsTotal.WithLabelValues(string(e.Kind()), string(e.Severity())).Inc()
}
