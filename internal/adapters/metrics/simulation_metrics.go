package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/application/tick"
	"github.com/andrescamacho/headquartz-go/internal/domain/calendar"
)

// SimulationMetricsCollector records engine and tick manager activity.
// It is handed to the engine and the tick manager as their recorder.
type SimulationMetricsCollector struct {
	tickDuration      prometheus.Histogram
	ticksTotal        prometheus.Counter
	droppedTicksTotal prometheus.Counter
	boundariesTotal   *prometheus.CounterVec
	currentDay        prometheus.Gauge
	speed             prometheus.Gauge
	running           prometheus.Gauge

	processorDuration *prometheus.HistogramVec
	processorFailures *prometheus.CounterVec
	dayPassDuration   prometheus.Histogram
}

var (
	_ simulation.MetricsRecorder = (*SimulationMetricsCollector)(nil)
	_ tick.MetricsRecorder       = (*SimulationMetricsCollector)(nil)
)

// NewSimulationMetricsCollector creates a new simulation metrics collector
func NewSimulationMetricsCollector() *SimulationMetricsCollector {
	tickBuckets := []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0}

	return &SimulationMetricsCollector{
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: engineSubsystem,
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent processing one simulated day",
			Buckets:   tickBuckets,
		}),
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: engineSubsystem,
			Name:      "ticks_total",
			Help:      "Total number of simulated days processed",
		}),
		droppedTicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: engineSubsystem,
			Name:      "dropped_ticks_total",
			Help:      "Timer fires skipped because a tick was still in progress",
		}),
		boundariesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: engineSubsystem,
			Name:      "period_boundaries_total",
			Help:      "Calendar boundaries crossed by period",
		}, []string{"period"}),
		currentDay: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: engineSubsystem,
			Name:      "day",
			Help:      "Current simulated day",
		}),
		speed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: engineSubsystem,
			Name:      "speed",
			Help:      "Current speed multiplier",
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: engineSubsystem,
			Name:      "running",
			Help:      "1 while the engine timer is armed",
		}),
		processorDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: engineSubsystem,
			Name:      "processor_duration_seconds",
			Help:      "Processor pass duration by processor and period",
			Buckets:   tickBuckets,
		}, []string{"processor", "period"}),
		processorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: engineSubsystem,
			Name:      "processor_failures_total",
			Help:      "Processor passes that returned an error",
		}, []string{"processor", "period"}),
		dayPassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: engineSubsystem,
			Name:      "day_pass_duration_seconds",
			Help:      "Time spent running every processor for one day",
			Buckets:   tickBuckets,
		}),
	}
}

// Register registers all simulation metrics with the Prometheus registry
func (c *SimulationMetricsCollector) Register() error {
	return registerAll(
		c.tickDuration,
		c.ticksTotal,
		c.droppedTicksTotal,
		c.boundariesTotal,
		c.currentDay,
		c.speed,
		c.running,
		c.processorDuration,
		c.processorFailures,
		c.dayPassDuration,
	)
}

// RecordTick records one completed tick
func (c *SimulationMetricsCollector) RecordTick(duration time.Duration, day int, crossed calendar.Boundaries) {
	c.tickDuration.Observe(duration.Seconds())
	c.ticksTotal.Inc()
	c.currentDay.Set(float64(day))
	for _, p := range crossed.Periods() {
		c.boundariesTotal.WithLabelValues(string(p)).Inc()
	}
}

// RecordDroppedTick counts a timer fire that found a tick in progress
func (c *SimulationMetricsCollector) RecordDroppedTick() {
	c.droppedTicksTotal.Inc()
}

// RecordSpeed updates the speed and running gauges
func (c *SimulationMetricsCollector) RecordSpeed(speed float64, running bool) {
	c.speed.Set(speed)
	if running {
		c.running.Set(1)
	} else {
		c.running.Set(0)
	}
}

// RecordProcessorPass records a single processor invocation
func (c *SimulationMetricsCollector) RecordProcessorPass(processor string, period calendar.Period, duration time.Duration, failed bool) {
	c.processorDuration.WithLabelValues(processor, string(period)).Observe(duration.Seconds())
	if failed {
		c.processorFailures.WithLabelValues(processor, string(period)).Inc()
	}
}

// RecordDayPass records the total time of a day's processor run
func (c *SimulationMetricsCollector) RecordDayPass(duration time.Duration) {
	c.dayPassDuration.Observe(duration.Seconds())
}
