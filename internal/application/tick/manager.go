package tick

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/domain/calendar"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// averageWindow is how many day passes are averaged per performance log line
const averageWindow = 100

// MetricsRecorder observes processor invocations
type MetricsRecorder interface {
	RecordProcessorPass(processor string, period calendar.Period, duration time.Duration, failed bool)
	RecordDayPass(duration time.Duration)
}

// ProcessorReport summarizes one processor's invocations
type ProcessorReport struct {
	Name        string  `json:"name"`
	Invocations uint64  `json:"invocations"`
	Failures    uint64  `json:"failures"`
	FailureRate float64 `json:"failure_rate"`
	LastError   string  `json:"last_error,omitempty"`
}

// PerformanceReport summarizes day-pass timing and processor health
type PerformanceReport struct {
	DayPasses      uint64            `json:"day_passes"`
	AverageDayPass time.Duration     `json:"average_day_pass"`
	LastDayPass    time.Duration     `json:"last_day_pass"`
	Processors     []ProcessorReport `json:"processors"`
}

type processorStats struct {
	invocations uint64
	failures    uint64
	lastError   string
}

// Manager fans each tick out to the registered processors in registration order.
// A failing processor is isolated: its error or panic is logged and counted and the
// remaining processors still run.
type Manager struct {
	logger  common.Logger
	metrics MetricsRecorder

	mu         sync.Mutex
	processors []Processor
	stats      map[string]*processorStats

	dayPasses   uint64
	totalDay    time.Duration
	windowDay   time.Duration
	windowCount int
	lastDay     time.Duration
}

// NewManager creates an empty manager. metrics may be nil.
func NewManager(logger common.Logger, metrics MetricsRecorder) *Manager {
	if logger == nil {
		logger = common.NoOpLogger{}
	}
	return &Manager{
		logger:  logger,
		metrics: metrics,
		stats:   make(map[string]*processorStats),
	}
}

// Register appends a processor. A processor whose name is already registered is ignored.
// Returns whether the processor was added.
func (m *Manager) Register(p Processor) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.stats[p.Name()]; exists {
		return false
	}
	m.processors = append(m.processors, p)
	m.stats[p.Name()] = &processorStats{}
	return true
}

// Processors returns the registered processor names in fan-out order
func (m *Manager) Processors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.processors))
	for i, p := range m.processors {
		names[i] = p.Name()
	}
	return names
}

// Dispatch runs every processor's hook for the period
func (m *Manager) Dispatch(period calendar.Period, w *world.World) {
	m.mu.Lock()
	processors := make([]Processor, len(m.processors))
	copy(processors, m.processors)
	m.mu.Unlock()

	started := time.Now()
	for _, p := range processors {
		m.invoke(p, period, w)
	}

	if period == calendar.PeriodDay {
		m.recordDayPass(time.Since(started), w)
	}
}

func (m *Manager) invoke(p Processor, period calendar.Period, w *world.World) {
	started := time.Now()
	err := runHook(p, period, w)
	elapsed := time.Since(started)

	m.mu.Lock()
	s := m.stats[p.Name()]
	s.invocations++
	if err != nil {
		s.failures++
		s.lastError = err.Error()
	}
	failures, invocations := s.failures, s.invocations
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.RecordProcessorPass(p.Name(), period, elapsed, err != nil)
	}

	if err != nil {
		m.logger.Log(common.LevelError, fmt.Sprintf("Processor %s failed on %s tick", p.Name(), period), map[string]interface{}{
			"processor":    p.Name(),
			"period":       string(period),
			"error":        err.Error(),
			"failures":     failures,
			"failure_rate": float64(failures) / float64(invocations),
		})
	}
}

// runHook calls the period hook, converting a panic into an error
func runHook(p Processor, period calendar.Period, w *world.World) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()

	switch period {
	case calendar.PeriodDay:
		return p.OnDayTick(w)
	case calendar.PeriodWeek:
		return p.OnWeekTick(w)
	case calendar.PeriodMonth:
		return p.OnMonthTick(w)
	case calendar.PeriodQuarter:
		return p.OnQuarterTick(w)
	case calendar.PeriodYear:
		return p.OnYearTick(w)
	default:
		return fmt.Errorf("unknown period %q", period)
	}
}

func (m *Manager) recordDayPass(elapsed time.Duration, w *world.World) {
	m.mu.Lock()
	m.dayPasses++
	m.totalDay += elapsed
	m.lastDay = elapsed
	m.windowDay += elapsed
	m.windowCount++

	var average time.Duration
	logWindow := m.windowCount >= averageWindow
	if logWindow {
		average = m.windowDay / time.Duration(m.windowCount)
		m.windowDay = 0
		m.windowCount = 0
	}
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.RecordDayPass(elapsed)
	}
	if logWindow {
		day := 0
		if w != nil {
			day = w.Calendar().Day()
		}
		m.logger.Log(common.LevelInfo, "Average day pass over last 100 ticks", map[string]interface{}{
			"average": average.String(),
			"day":     day,
		})
	}
}

// PerformanceReport returns timing and failure counters collected so far
func (m *Manager) PerformanceReport() PerformanceReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	report := PerformanceReport{
		DayPasses:   m.dayPasses,
		LastDayPass: m.lastDay,
	}
	if m.dayPasses > 0 {
		report.AverageDayPass = m.totalDay / time.Duration(m.dayPasses)
	}
	for _, p := range m.processors {
		s := m.stats[p.Name()]
		pr := ProcessorReport{
			Name:        p.Name(),
			Invocations: s.invocations,
			Failures:    s.failures,
			LastError:   s.lastError,
		}
		if s.invocations > 0 {
			pr.FailureRate = float64(s.failures) / float64(s.invocations)
		}
		report.Processors = append(report.Processors, pr)
	}
	return report
}
