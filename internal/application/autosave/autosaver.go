package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// Autosaver writes the world to a slot every N simulated days.
//
// The snapshot is captured inside the day signal, which the engine delivers
// while it holds the tick lock, and written by a background goroutine so the
// tick never waits on storage. If a save is still running when the next one
// is due, the newer snapshot replaces the queued one.
type Autosaver struct {
	store     world.SnapshotStore
	slot      string
	everyDays int
	logger    common.Logger

	pending chan *world.Snapshot
	sub     events.Subscription
	engine  *simulation.Engine
	wg      sync.WaitGroup
	cancel  context.CancelFunc

	mu     sync.Mutex
	saves  int
	failed int
}

// NewAutosaver creates an autosaver for slot
func NewAutosaver(store world.SnapshotStore, slot string, everyDays int, logger common.Logger) *Autosaver {
	if everyDays <= 0 {
		everyDays = 30
	}
	if logger == nil {
		logger = common.NoOpLogger{}
	}
	return &Autosaver{
		store:     store,
		slot:      slot,
		everyDays: everyDays,
		logger:    logger,
		pending:   make(chan *world.Snapshot, 1),
	}
}

// Attach subscribes to the engine's day signal and starts the writer.
// w must be the world the engine drives.
func (a *Autosaver) Attach(engine *simulation.Engine, w *world.World) {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.engine = engine
	a.sub = engine.Signals().Day.Subscribe(func(info simulation.TickInfo) {
		if info.Day == 0 || info.Day%a.everyDays != 0 {
			return
		}
		a.offer(w.Snapshot())
	})

	a.wg.Add(1)
	go a.run(ctx)
}

// Detach unsubscribes, writes any queued snapshot and stops the writer
func (a *Autosaver) Detach() {
	if a.engine == nil {
		return
	}
	a.engine.Signals().Day.Unsubscribe(a.sub)
	a.engine = nil
	a.cancel()
	a.wg.Wait()
}

// Saves returns the number of successful autosaves
func (a *Autosaver) Saves() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saves
}

// Failures returns the number of failed autosaves
func (a *Autosaver) Failures() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failed
}

func (a *Autosaver) offer(snap *world.Snapshot) {
	for {
		select {
		case a.pending <- snap:
			return
		default:
		}
		select {
		case <-a.pending:
		default:
		}
	}
}

func (a *Autosaver) run(ctx context.Context) {
	defer a.wg.Done()
	for {
		select {
		case snap := <-a.pending:
			a.save(snap)
		case <-ctx.Done():
			select {
			case snap := <-a.pending:
				a.save(snap)
			default:
			}
			return
		}
	}
}

func (a *Autosaver) save(snap *world.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := a.store.Save(ctx, a.slot, snap)

	a.mu.Lock()
	if err != nil {
		a.failed++
	} else {
		a.saves++
	}
	a.mu.Unlock()

	if err != nil {
		a.logger.Log(common.LevelError, "Autosave failed", map[string]interface{}{
			"slot":  a.slot,
			"day":   snap.Calendar.Day,
			"error": err.Error(),
		})
		return
	}
	a.logger.Log(common.LevelInfo, "Autosaved", map[string]interface{}{
		"slot": a.slot,
		"day":  snap.Calendar.Day,
	})
}
