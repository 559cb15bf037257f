package journal

import (
	"context"
	"sync"
	"time"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
)

// Config controls batching of the journal writer
type Config struct {
	Buffer        int
	BatchSize     int
	FlushInterval time.Duration
	WriteTimeout  time.Duration
}

// DefaultConfig returns the standard batching settings
func DefaultConfig() Config {
	return Config{
		Buffer:        256,
		BatchSize:     64,
		FlushInterval: time.Second,
		WriteTimeout:  5 * time.Second,
	}
}

// Writer copies events from a bus into a Journal off the ticking goroutine.
// The bus side never blocks: when the buffer is full the event is dropped and counted.
type Writer struct {
	bus     *events.Bus
	journal events.Journal
	cfg     Config
	logger  common.Logger

	mu      sync.Mutex
	sub     *events.ChannelSubscription[events.GameEvent]
	wg      sync.WaitGroup
	written uint64
	failed  uint64
}

// NewWriter creates a writer; Start subscribes it to the bus
func NewWriter(bus *events.Bus, journal events.Journal, cfg Config, logger common.Logger) *Writer {
	def := DefaultConfig()
	if cfg.Buffer <= 0 {
		cfg.Buffer = def.Buffer
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = def.FlushInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if logger == nil {
		logger = common.NoOpLogger{}
	}
	return &Writer{bus: bus, journal: journal, cfg: cfg, logger: logger}
}

// Start subscribes to the bus and begins draining. Calling Start twice is a no-op.
func (w *Writer) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sub != nil {
		return
	}
	w.sub = w.bus.SubscribeChannel(w.cfg.Buffer)

	w.wg.Add(1)
	go w.run(w.sub.C())
}

// Stop unsubscribes, flushes what is buffered and waits for the drain to finish
func (w *Writer) Stop() {
	w.mu.Lock()
	sub := w.sub
	w.sub = nil
	w.mu.Unlock()

	if sub == nil {
		return
	}
	sub.Close()
	w.wg.Wait()

	if dropped := sub.Dropped(); dropped > 0 {
		w.logger.Log(common.LevelWarning, "Event journal dropped events", map[string]interface{}{
			"dropped": dropped,
		})
	}
}

// Written returns how many events have been stored
func (w *Writer) Written() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Failed returns how many events were lost to write errors
func (w *Writer) Failed() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failed
}

func (w *Writer) run(ch <-chan events.GameEvent) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]events.Record, 0, w.cfg.BatchSize)
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				w.flush(batch)
				return
			}
			batch = append(batch, e.Record())
			if len(batch) >= w.cfg.BatchSize {
				w.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

func (w *Writer) flush(batch []events.Record) {
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.WriteTimeout)
	defer cancel()

	err := w.journal.Append(ctx, batch)

	w.mu.Lock()
	if err != nil {
		w.failed += uint64(len(batch))
	} else {
		w.written += uint64(len(batch))
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Log(common.LevelError, "Failed to write events to journal", map[string]interface{}{
			"events": len(batch),
			"error":  err.Error(),
		})
	}
}
