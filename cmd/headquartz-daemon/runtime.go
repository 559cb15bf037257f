package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	daemongrpc "github.com/andrescamacho/headquartz-go/internal/adapters/grpc"
	"github.com/andrescamacho/headquartz-go/internal/adapters/metrics"
	"github.com/andrescamacho/headquartz-go/internal/adapters/persistence"
	"github.com/andrescamacho/headquartz-go/internal/adapters/web"
	"github.com/andrescamacho/headquartz-go/internal/application/autosave"
	"github.com/andrescamacho/headquartz-go/internal/application/common"
	controlCmd "github.com/andrescamacho/headquartz-go/internal/application/control/commands"
	"github.com/andrescamacho/headquartz-go/internal/application/journal"
	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/replication"
	"github.com/andrescamacho/headquartz-go/internal/application/setup"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/application/tick"
	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
	"github.com/andrescamacho/headquartz-go/internal/infrastructure/config"
)

const roleAuthority = "authority"

// daemon owns every long-lived component of a running simulation service
type daemon struct {
	cfg     *config.Config
	db      *gorm.DB
	base    *common.StdLogger
	logRepo *persistence.GormEngineLogRepository
	logger  common.Logger

	world    *world.World
	engine   *simulation.Engine
	manager  *tick.Manager
	mediator mediator.Mediator
	catalog  *persistence.GormSnapshotRepository

	journal   *journal.Writer
	autosaver *autosave.Autosaver

	replica      *simulation.Engine
	coordinators []*replication.Coordinator

	simMetrics     *metrics.SimulationMetricsCollector
	companyMetrics *metrics.CompanyMetricsCollector
	eventMetrics   *metrics.EventMetricsCollector

	server *daemongrpc.DaemonServer
	web    *web.Server

	cancel context.CancelFunc
	wg     sync.WaitGroup
	errs   chan error
}

// newBaseLogger builds the process logger from the logging section
func newBaseLogger(cfg config.LoggingConfig) (*common.StdLogger, io.Closer, error) {
	var (
		out    io.Writer = os.Stdout
		closer io.Closer
	)
	switch cfg.Output {
	case "stderr":
		out = os.Stderr
	case "file":
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = f, f
	}
	return common.NewStdLogger("daemon", cfg.Level, cfg.Format, log.New(out, "", log.LstdFlags)), closer, nil
}

// newDaemon constructs and wires all components. Nothing runs until start.
func newDaemon(cfg *config.Config, db *gorm.DB, base *common.StdLogger) (*daemon, error) {
	d := &daemon{cfg: cfg, db: db, base: base, errs: make(chan error, 2)}
	if cfg.Logging.Persist {
		d.logRepo = persistence.NewGormEngineLogRepository(db, nil, cfg.Logging.DedupWindow)
	}
	d.logger = d.componentLogger("daemon")

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		d.simMetrics = metrics.NewSimulationMetricsCollector()
		if err := d.simMetrics.Register(); err != nil {
			return nil, fmt.Errorf("failed to register simulation metrics: %w", err)
		}
	}

	d.world = world.New(worldConfig(cfg.Simulation))
	if cfg.Simulation.SeedDefaults {
		if err := d.world.SeedDefaults(); err != nil {
			return nil, fmt.Errorf("failed to seed world: %w", err)
		}
	}

	d.manager = tick.NewManager(d.componentLogger("tick"), d.recorderForTick())
	for _, p := range tick.DefaultProcessors(d.componentLogger("processor")) {
		d.manager.Register(p)
	}

	role := cfg.Replication.Role
	var dispatcher simulation.Dispatcher = d.manager
	if cfg.Replication.Enabled && role != roleAuthority {
		dispatcher = nil
	}
	d.engine = simulation.NewEngine(d.world, dispatcher, shared.NewRealClock(), d.componentLogger("engine"), engineConfig(cfg.Simulation))
	if d.simMetrics != nil {
		d.engine.SetMetricsRecorder(d.simMetrics)
	}

	if cfg.Replication.Enabled {
		if err := d.setupReplication(); err != nil {
			return nil, err
		}
	}

	d.catalog = persistence.NewGormSnapshotRepository(db, nil)
	eventJournal := persistence.NewGormEventJournalRepository(db, nil)

	journalCfg := journal.DefaultConfig()
	journalCfg.Buffer = cfg.Daemon.JournalBuffer
	d.journal = journal.NewWriter(d.world.Events(), eventJournal, journalCfg, d.componentLogger("journal"))

	if cfg.Simulation.AutosaveSlot != "" {
		d.autosaver = autosave.NewAutosaver(d.catalog, cfg.Simulation.AutosaveSlot, cfg.Simulation.AutosaveEveryDays, d.componentLogger("autosave"))
	}

	d.mediator = mediator.NewMediator()
	d.mediator.Use(mediator.LoggingMiddleware(d.componentLogger("mediator")))
	if cfg.Metrics.Enabled {
		commandMetrics := metrics.NewCommandMetricsCollector()
		if err := commandMetrics.Register(); err != nil {
			return nil, fmt.Errorf("failed to register command metrics: %w", err)
		}
		d.mediator.Use(metrics.PrometheusMiddleware(commandMetrics))
	}
	registry := setup.NewHandlerRegistry(d.engine, d.manager, d.catalog, eventJournal)
	if d.logRepo != nil {
		registry.WithLogSource(d.logRepo)
	}
	if err := registry.RegisterAll(d.mediator); err != nil {
		return nil, fmt.Errorf("failed to register handlers: %w", err)
	}

	if cfg.Metrics.Enabled {
		d.companyMetrics = metrics.NewCompanyMetricsCollector(d.mediator, cfg.Metrics.PollInterval, d.componentLogger("metrics"))
		if err := d.companyMetrics.Register(); err != nil {
			return nil, fmt.Errorf("failed to register company metrics: %w", err)
		}
		d.eventMetrics = metrics.NewEventMetricsCollector()
		if err := d.eventMetrics.Register(); err != nil {
			return nil, fmt.Errorf("failed to register event metrics: %w", err)
		}
		d.web = web.NewServer(web.Config{
			Addr:        fmt.Sprintf("%s:%d", cfg.Metrics.Host, cfg.Metrics.Port),
			MetricsPath: cfg.Metrics.Path,
		}, d.mediator, d.world.Events(), metrics.GetRegistry(), d.componentLogger("web"))
	}

	return d, nil
}

// componentLogger tags the base logger and, with persistence on, mirrors entries to engine_logs
func (d *daemon) componentLogger(component string) common.Logger {
	std := d.base.WithComponent(component)
	if d.logRepo == nil {
		return std
	}
	return persistence.NewDatabaseLogger(component, std, d.logRepo)
}

func (d *daemon) recorderForTick() tick.MetricsRecorder {
	if d.simMetrics == nil {
		return nil
	}
	return d.simMetrics
}

// setupReplication pairs the served engine with an in-process peer over a loopback hub.
// With role authority the peer is a read-only mirror; with role follower the peer owns
// the business rules and the served engine mirrors it.
func (d *daemon) setupReplication() error {
	cfg := d.cfg
	authority := cfg.Replication.Role == roleAuthority
	replCfg := replication.Config{
		BroadcastsPerSecond: cfg.Replication.BroadcastsPerSecond,
		Burst:               cfg.Replication.Burst,
	}

	hub := replication.NewLoopbackHub()
	served := replication.NewCoordinator(hub.Join(authority), replCfg, d.componentLogger("replication"))
	d.engine.SetReplicator(served)

	peerWorld := world.New(worldConfig(cfg.Simulation))
	if cfg.Simulation.SeedDefaults {
		if err := peerWorld.SeedDefaults(); err != nil {
			return fmt.Errorf("failed to seed replica world: %w", err)
		}
	}
	var peerDispatcher simulation.Dispatcher
	if !authority {
		peerManager := tick.NewManager(d.componentLogger("replica-tick"), nil)
		for _, p := range tick.DefaultProcessors(d.componentLogger("replica-processor")) {
			peerManager.Register(p)
		}
		peerDispatcher = peerManager
	}
	d.replica = simulation.NewEngine(peerWorld, peerDispatcher, shared.NewRealClock(), d.componentLogger("replica"), engineConfig(cfg.Simulation))
	peer := replication.NewCoordinator(hub.Join(!authority), replCfg, d.componentLogger("replica-replication"))
	d.replica.SetReplicator(peer)

	d.coordinators = []*replication.Coordinator{served, peer}
	return nil
}

// resume restores the autosave slot if one exists
func (d *daemon) resume(ctx context.Context) error {
	if d.cfg.Simulation.AutosaveSlot == "" {
		return nil
	}
	resp, err := d.mediator.Send(ctx, &controlCmd.LoadSnapshotCommand{Slot: d.cfg.Simulation.AutosaveSlot})
	if errors.Is(err, world.ErrSnapshotNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if snap, ok := resp.(*controlCmd.SnapshotResponse); ok {
		d.logger.Log(common.LevelInfo, "Resumed from autosave", map[string]interface{}{
			"slot": snap.Slot,
			"day":  snap.Day,
		})
	}
	return nil
}

// start launches background components and the control server on listener.
// A nil listener binds the configured unix socket.
func (d *daemon) start(listener net.Listener) error {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	if err := d.resume(common.WithLogger(ctx, d.logger)); err != nil {
		cancel()
		return fmt.Errorf("failed to resume autosave: %w", err)
	}

	if listener == nil {
		if err := os.MkdirAll(filepath.Dir(d.cfg.Daemon.SocketPath), 0755); err != nil {
			cancel()
			return fmt.Errorf("failed to create socket directory: %w", err)
		}
		server, err := daemongrpc.NewDaemonServer(d.mediator, d.world.Events(), d.componentLogger("grpc"), d.cfg.Daemon.SocketPath)
		if err != nil {
			cancel()
			return err
		}
		d.server = server
	} else {
		d.server = daemongrpc.NewDaemonServerWithListener(d.mediator, d.world.Events(), d.componentLogger("grpc"), listener)
	}

	d.journal.Start()
	if d.autosaver != nil {
		d.autosaver.Attach(d.engine, d.world)
	}
	for _, c := range d.coordinators {
		c.Start(ctx)
	}
	if d.replica != nil {
		d.replica.Start()
	}
	if d.eventMetrics != nil {
		d.eventMetrics.Attach(d.world.Events())
	}
	if d.companyMetrics != nil {
		d.companyMetrics.Start(ctx)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.server.Start(); err != nil {
			d.errs <- err
		}
	}()

	if d.web != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			if err := d.web.ListenAndServe(ctx); err != nil {
				d.errs <- err
			}
		}()
	}

	if d.cfg.Simulation.AutoStart {
		d.engine.Start()
	}

	d.logger.Log(common.LevelInfo, "Daemon started", map[string]interface{}{
		"socket":      d.cfg.Daemon.SocketPath,
		"auto_start":  d.cfg.Simulation.AutoStart,
		"replication": d.cfg.Replication.Enabled,
		"metrics":     d.cfg.Metrics.Enabled,
	})
	return nil
}

// Errors reports fatal server failures after start
func (d *daemon) Errors() <-chan error {
	return d.errs
}

// shutdown stops producers before consumers: engines first, then the
// servers, then the writers that drain what the last tick emitted.
func (d *daemon) shutdown(ctx context.Context) error {
	d.engine.Stop()
	if d.replica != nil {
		d.replica.Stop()
	}
	if d.server != nil {
		d.server.Shutdown()
	}
	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for servers to stop: %w", ctx.Err())
	}

	if d.companyMetrics != nil {
		d.companyMetrics.Stop()
	}
	if d.eventMetrics != nil {
		d.eventMetrics.Detach()
	}
	for _, c := range d.coordinators {
		c.Stop()
	}
	if d.autosaver != nil {
		d.autosaver.Detach()
	}
	d.journal.Stop()

	d.logger.Log(common.LevelInfo, "Daemon stopped", map[string]interface{}{
		"ticks":            d.engine.TicksProcessed(),
		"journaled_events": d.journal.Written(),
	})
	return nil
}

func worldConfig(sim config.SimulationConfig) world.Config {
	cfg := world.DefaultConfig()
	cfg.Seed = sim.Seed
	cfg.OpeningBalance = decimal.NewFromFloat(sim.OpeningBalance)
	cfg.RandomEventProbability = sim.RandomEventProbability
	cfg.BaseOrderProbability = sim.BaseOrderProbability
	cfg.HistoryCapacity = sim.HistoryCapacity
	return cfg
}

func engineConfig(sim config.SimulationConfig) simulation.Config {
	return simulation.Config{
		BaseInterval: sim.TickInterval,
		MinInterval:  sim.MinInterval,
		InitialSpeed: sim.InitialSpeed,
	}
}
