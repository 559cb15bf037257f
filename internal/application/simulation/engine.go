package simulation

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/domain/calendar"
	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// Speed limits
const (
	MinSpeed = 0.1
	MaxSpeed = 16.0
)

// Config controls tick pacing
type Config struct {
	BaseInterval time.Duration
	MinInterval  time.Duration
	InitialSpeed float64
}

// DefaultConfig returns one tick per second at normal speed
func DefaultConfig() Config {
	return Config{
		BaseInterval: time.Second,
		MinInterval:  10 * time.Millisecond,
		InitialSpeed: 1.0,
	}
}

// Dispatcher receives the per-period fan-out of every tick.
// The tick manager implements it.
type Dispatcher interface {
	Dispatch(period calendar.Period, w *world.World)
}

// Replicator decides whether this engine owns the world and moves state between peers.
// ApplyPending and AfterTick run under the tick lock.
type Replicator interface {
	IsAuthoritative() bool
	ApplyPending(w *world.World) error
	AfterTick(w *world.World)
}

// MetricsRecorder observes engine activity
type MetricsRecorder interface {
	RecordTick(duration time.Duration, day int, crossed calendar.Boundaries)
	RecordDroppedTick()
	RecordSpeed(speed float64, running bool)
}

// Statistics is the read-side summary served to presentation layers
type Statistics struct {
	TicksProcessed uint64           `json:"ticks_processed"`
	DroppedTicks   uint64           `json:"dropped_ticks"`
	Running        bool             `json:"running"`
	Speed          float64          `json:"speed"`
	Phase          Phase            `json:"phase"`
	LastTickTime   time.Time        `json:"last_tick_time"`
	LastError      string           `json:"last_error,omitempty"`
	World          world.Statistics `json:"world"`
}

// Engine drives the world with a single re-armed timer.
//
// Lock order: tickMu guards the world and the tick body; stateMu guards the
// run state and timer and is never held while the tick body runs, so Stop and
// SetSpeed are safe from inside tick callbacks.
type Engine struct {
	world      *world.World
	dispatcher Dispatcher
	clock      shared.Clock
	logger     common.Logger
	cfg        Config

	replicator Replicator
	metrics    MetricsRecorder

	tickMu sync.Mutex

	stateMu    sync.Mutex
	running    bool
	generation uint64
	timer      shared.Timer
	speed      float64
	phase      Phase
	lastTick   time.Time
	lastErr    error

	ticks   atomic.Uint64
	dropped atomic.Uint64
	cached  atomic.Pointer[world.Statistics]

	signals *Signals

	// test seam between the generation check and the tick lock
	beforeTickLock func()
}

// NewEngine creates a stopped engine. dispatcher may be nil.
func NewEngine(w *world.World, dispatcher Dispatcher, clock shared.Clock, logger common.Logger, cfg Config) *Engine {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = common.NoOpLogger{}
	}
	if cfg.BaseInterval <= 0 {
		cfg.BaseInterval = DefaultConfig().BaseInterval
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = DefaultConfig().MinInterval
	}
	if cfg.InitialSpeed == 0 {
		cfg.InitialSpeed = 1.0
	}

	e := &Engine{
		world:      w,
		dispatcher: dispatcher,
		clock:      clock,
		logger:     logger,
		cfg:        cfg,
		speed:      clampSpeed(cfg.InitialSpeed),
		phase:      PhasePlanning,
		signals:    newSignals(),
	}
	e.refreshStatistics()
	return e
}

// SetReplicator attaches a replication coordinator. Call before Start.
func (e *Engine) SetReplicator(r Replicator) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	e.replicator = r
}

// SetMetricsRecorder attaches a metrics sink. Call before Start.
func (e *Engine) SetMetricsRecorder(m MetricsRecorder) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	e.metrics = m
}

// Signals returns the engine's notification topics
func (e *Engine) Signals() *Signals {
	return e.signals
}

// Start arms the timer. Calling Start on a running engine does nothing.
func (e *Engine) Start() {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	if e.running {
		return
	}
	e.running = true
	e.generation++
	e.lastErr = nil
	e.armLocked()
	e.recordSpeedLocked()

	e.logger.Log(common.LevelInfo, "Simulation started", map[string]interface{}{
		"speed":    e.speed,
		"interval": e.intervalLocked().String(),
	})
}

// Stop disarms the timer. Safe from any goroutine, including tick callbacks.
// Calling Stop on a stopped engine does nothing.
func (e *Engine) Stop() {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	if !e.running {
		return
	}
	e.stopLocked()
	e.recordSpeedLocked()
	e.logger.Log(common.LevelInfo, "Simulation stopped", map[string]interface{}{
		"ticks": e.ticks.Load(),
	})
}

func (e *Engine) stopLocked() {
	e.running = false
	e.generation++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// SetSpeed changes the tick rate multiplier. The value is clamped to
// [MinSpeed, MaxSpeed] and applies from the next arming. Returns the clamped value.
func (e *Engine) SetSpeed(speed float64) float64 {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	e.speed = clampSpeed(speed)
	e.recordSpeedLocked()
	e.logger.Log(common.LevelInfo, "Simulation speed changed", map[string]interface{}{
		"speed": e.speed,
	})
	return e.speed
}

// Reset stops the engine and rewinds the calendar to the epoch.
// Ledger, inventory and orders are left alone.
func (e *Engine) Reset() {
	e.Stop()

	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	e.world.ResetCalendar()
	e.ticks.Store(0)
	e.dropped.Store(0)

	e.stateMu.Lock()
	e.phase = PhasePlanning
	e.lastTick = time.Time{}
	e.lastErr = nil
	e.stateMu.Unlock()

	e.refreshStatistics()
	e.logger.Log(common.LevelInfo, "Simulation reset to epoch", nil)
}

// Step runs exactly one tick synchronously, waiting for any tick in flight.
// A failing tick stops the engine and is returned.
func (e *Engine) Step() error {
	e.tickMu.Lock()
	err := e.runTick()
	e.tickMu.Unlock()

	if err != nil {
		e.fail(err)
	}
	return err
}

// Exec runs fn with exclusive access to the world, between ticks
func (e *Engine) Exec(fn func(w *world.World) error) error {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	err := fn(e.world)
	e.refreshStatistics()
	return err
}

// Read-side accessors

func (e *Engine) IsRunning() bool {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.running
}

func (e *Engine) CurrentSpeed() float64 {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.speed
}

func (e *Engine) CurrentPhase() Phase {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.phase
}

func (e *Engine) LastTickTime() time.Time {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.lastTick
}

func (e *Engine) LastError() error {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.lastErr
}

func (e *Engine) TicksProcessed() uint64 { return e.ticks.Load() }
func (e *Engine) DroppedTicks() uint64   { return e.dropped.Load() }

// Interval is the effective time between ticks at the current speed
func (e *Engine) Interval() time.Duration {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.intervalLocked()
}

// Statistics returns the summary cached after the last tick. It never waits for a tick.
func (e *Engine) Statistics() Statistics {
	e.stateMu.Lock()
	stats := Statistics{
		TicksProcessed: e.ticks.Load(),
		DroppedTicks:   e.dropped.Load(),
		Running:        e.running,
		Speed:          e.speed,
		Phase:          e.phase,
		LastTickTime:   e.lastTick,
	}
	if e.lastErr != nil {
		stats.LastError = e.lastErr.Error()
	}
	e.stateMu.Unlock()

	if cached := e.cached.Load(); cached != nil {
		stats.World = *cached
	}
	return stats
}

func (e *Engine) intervalLocked() time.Duration {
	interval := time.Duration(float64(e.cfg.BaseInterval) / e.speed)
	if interval < e.cfg.MinInterval {
		interval = e.cfg.MinInterval
	}
	return interval
}

func (e *Engine) armLocked() {
	gen := e.generation
	e.timer = e.clock.AfterFunc(e.intervalLocked(), func() { e.fire(gen) })
}

func (e *Engine) recordSpeedLocked() {
	if e.metrics != nil {
		e.metrics.RecordSpeed(e.speed, e.running)
	}
}

// fire is the timer callback. Firings from a previous run generation exit
// immediately; firings that find a tick in flight are dropped.
func (e *Engine) fire(gen uint64) {
	if !e.isCurrent(gen) {
		return
	}
	if e.beforeTickLock != nil {
		e.beforeTickLock()
	}

	if !e.tickMu.TryLock() {
		e.dropped.Add(1)
		if e.metrics != nil {
			e.metrics.RecordDroppedTick()
		}
		e.rearm(gen)
		return
	}
	// A Stop that returned before we took the tick lock must win
	if !e.isCurrent(gen) {
		e.tickMu.Unlock()
		return
	}
	err := e.runTick()
	e.tickMu.Unlock()

	if err != nil {
		e.fail(err)
		return
	}
	e.rearm(gen)
}

func (e *Engine) isCurrent(gen uint64) bool {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.running && gen == e.generation
}

func (e *Engine) rearm(gen uint64) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	if !e.running || gen != e.generation {
		return
	}
	e.armLocked()
}

// fail stops the engine after a fatal tick error. There is no automatic restart.
func (e *Engine) fail(err error) {
	e.stateMu.Lock()
	if e.running {
		e.stopLocked()
	}
	e.lastErr = err
	e.recordSpeedLocked()
	e.stateMu.Unlock()

	metadata := map[string]interface{}{"error": err.Error(), "day": e.world.Calendar().Day()}
	if p, ok := err.(*TickPanicError); ok {
		metadata["stack"] = string(p.Stack)
	}
	e.logger.Log(common.LevelError, "FATAL: simulation tick failed, engine stopped", metadata)
}

// runTick executes one tick. Caller holds tickMu.
func (e *Engine) runTick() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &TickPanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	started := e.clock.Now()
	wallStart := time.Now()

	authoritative := true
	if e.replicator != nil {
		if err := e.replicator.ApplyPending(e.world); err != nil {
			return fmt.Errorf("apply replicated state: %w", err)
		}
		authoritative = e.replicator.IsAuthoritative()
	}

	var crossed calendar.Boundaries
	if authoritative {
		crossed = e.world.AdvanceGameTime()
	} else {
		crossed = e.world.AdvanceCalendarOnly()
	}

	cal := e.world.Calendar()
	phase := PhaseForDay(cal.DayOfMonth())
	info := TickInfo{
		Tick:       e.ticks.Load() + 1,
		Day:        cal.Day(),
		Date:       cal.Date(),
		Boundaries: crossed,
		Phase:      phase,
	}

	e.dispatch(calendar.PeriodDay, info)
	for _, period := range crossed.Periods() {
		e.dispatch(period, info)
	}

	e.stateMu.Lock()
	previous := e.phase
	e.phase = phase
	e.lastTick = started
	e.stateMu.Unlock()

	if previous != phase {
		e.signals.PhaseChanged.Publish(PhaseChange{From: previous, To: phase, Day: info.Day})
	}

	if authoritative && e.replicator != nil {
		e.replicator.AfterTick(e.world)
	}

	e.ticks.Add(1)
	e.refreshStatistics()

	info.Duration = time.Since(wallStart)
	if e.metrics != nil {
		e.metrics.RecordTick(info.Duration, info.Day, crossed)
	}
	e.signals.Ticked.Publish(info)
	return nil
}

func (e *Engine) dispatch(period calendar.Period, info TickInfo) {
	if e.dispatcher != nil {
		e.dispatcher.Dispatch(period, e.world)
	}
	e.signals.Period(period).Publish(info)
}

func (e *Engine) refreshStatistics() {
	stats := e.world.Statistics()
	e.cached.Store(&stats)
}

func clampSpeed(speed float64) float64 {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}
