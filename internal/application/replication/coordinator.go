package replication

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// Config controls how often the authority publishes state
type Config struct {
	// BroadcastsPerSecond caps outbound snapshots; ticks beyond the cap are skipped
	BroadcastsPerSecond float64
	Burst               int
	SendTimeout         time.Duration
}

// DefaultConfig publishes at most four snapshots per second
func DefaultConfig() Config {
	return Config{
		BroadcastsPerSecond: 4,
		Burst:               1,
		SendTimeout:         5 * time.Second,
	}
}

// Stats are the coordinator's counters
type Stats struct {
	Broadcasts uint64 `json:"broadcasts"`
	Throttled  uint64 `json:"throttled"`
	Superseded uint64 `json:"superseded"`
	Failed     uint64 `json:"failed"`
	Received   uint64 `json:"received"`
	Applied    uint64 `json:"applied"`
}

// Coordinator connects the engine to a Transport.
//
// On the authority it snapshots the world after each tick (rate limited) and hands the
// snapshot to a background sender, so the tick never blocks on I/O. On followers it keeps
// only the newest inbound snapshot and applies it at the start of the next tick.
type Coordinator struct {
	transport Transport
	limiter   *rate.Limiter
	logger    common.Logger
	cfg       Config

	outbound chan *world.Snapshot

	mu      sync.Mutex
	pending *world.Snapshot

	broadcasts atomic.Uint64
	throttled  atomic.Uint64
	superseded atomic.Uint64
	failed     atomic.Uint64
	received   atomic.Uint64
	applied    atomic.Uint64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCoordinator wires a coordinator to a transport and registers the inbound handler
func NewCoordinator(transport Transport, cfg Config, logger common.Logger) *Coordinator {
	if logger == nil {
		logger = common.NoOpLogger{}
	}
	if cfg.BroadcastsPerSecond <= 0 {
		cfg.BroadcastsPerSecond = DefaultConfig().BroadcastsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultConfig().SendTimeout
	}

	c := &Coordinator{
		transport: transport,
		limiter:   rate.NewLimiter(rate.Limit(cfg.BroadcastsPerSecond), cfg.Burst),
		logger:    logger,
		cfg:       cfg,
		outbound:  make(chan *world.Snapshot, 1),
	}
	transport.OnStateReceived(c.receive)
	return c
}

// Start launches the background sender
func (c *Coordinator) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go c.sendLoop(ctx)
}

// Stop halts the background sender and waits for it to exit
func (c *Coordinator) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

// IsAuthoritative reports whether this peer runs the business rules
func (c *Coordinator) IsAuthoritative() bool {
	return c.transport.IsAuthoritative()
}

// ApplyPending restores the newest inbound snapshot, if any
func (c *Coordinator) ApplyPending(w *world.World) error {
	c.mu.Lock()
	snap := c.pending
	c.pending = nil
	c.mu.Unlock()

	if snap == nil {
		return nil
	}
	if err := w.Restore(snap); err != nil {
		return err
	}
	c.applied.Add(1)
	return nil
}

// AfterTick queues a snapshot for broadcast when the rate limit allows
func (c *Coordinator) AfterTick(w *world.World) {
	if !c.limiter.Allow() {
		c.throttled.Add(1)
		return
	}
	snap := w.Snapshot()

	// keep only the newest snapshot if the sender is behind
	select {
	case c.outbound <- snap:
		return
	default:
	}
	select {
	case <-c.outbound:
		c.superseded.Add(1)
	default:
	}
	select {
	case c.outbound <- snap:
	default:
		c.superseded.Add(1)
	}
}

// Stats returns the current counters
func (c *Coordinator) Stats() Stats {
	return Stats{
		Broadcasts: c.broadcasts.Load(),
		Throttled:  c.throttled.Load(),
		Superseded: c.superseded.Load(),
		Failed:     c.failed.Load(),
		Received:   c.received.Load(),
		Applied:    c.applied.Load(),
	}
}

func (c *Coordinator) receive(snap *world.Snapshot) {
	if c.transport.IsAuthoritative() || snap == nil {
		return
	}
	c.mu.Lock()
	c.pending = snap
	c.mu.Unlock()
	c.received.Add(1)
}

func (c *Coordinator) sendLoop(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-c.outbound:
			sendCtx, cancel := context.WithTimeout(ctx, c.cfg.SendTimeout)
			err := c.transport.BroadcastState(sendCtx, snap)
			cancel()
			if err != nil {
				c.failed.Add(1)
				c.logger.Log(common.LevelWarning, "State broadcast failed", map[string]interface{}{
					"error": err.Error(),
					"day":   snap.Calendar.Day,
				})
				continue
			}
			c.broadcasts.Add(1)
		}
	}
}
