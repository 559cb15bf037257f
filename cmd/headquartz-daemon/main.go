package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrescamacho/headquartz-go/internal/infrastructure/config"
	"github.com/andrescamacho/headquartz-go/internal/infrastructure/database"
	"github.com/andrescamacho/headquartz-go/internal/infrastructure/pidfile"
)

func main() {
	// Parse command-line flags
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	configPath := flag.String("config", "", "Path to config file (default: search ./, ./configs, /etc/headquartz)")
	flag.Parse()

	fmt.Println("Headquartz Daemon v0.1.0")
	fmt.Println("========================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configPath)

	// Acquire PID file lock to prevent multiple instances
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)

	if err := pf.Acquire(); err != nil {
		if !*forceFlag {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}
		fmt.Println("Force mode enabled - attempting to kill existing daemon...")
		if killErr := pf.KillExisting(); killErr != nil && !errors.Is(killErr, pidfile.ErrNotRunning) {
			log.Fatalf("Failed to kill existing daemon: %v", killErr)
		}
		fmt.Println("Existing daemon killed")
		if err := pf.Acquire(); err != nil {
			log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
		}
	}
	fmt.Println("PID file lock acquired")

	err := run(cfg)
	if releaseErr := pf.Release(); releaseErr != nil {
		log.Printf("Warning: failed to release PID file: %v", releaseErr)
	}
	if err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	base, logCloser, err := newBaseLogger(cfg.Logging)
	if err != nil {
		return err
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	// 1. Setup database connection
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	if !cfg.Database.SkipMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	fmt.Println("Database connected")

	// 2. Wire the world, engine, handlers and adapters
	d, err := newDaemon(cfg, db, base)
	if err != nil {
		return err
	}
	fmt.Println("Simulation engine initialized")

	// 3. Serve until a signal or a server failure
	if err := d.start(nil); err != nil {
		return err
	}
	fmt.Printf("Daemon listening on %s\n", cfg.Daemon.SocketPath)
	if cfg.Metrics.Enabled {
		fmt.Printf("HTTP server on http://%s:%d (metrics %s, /stats, /events)\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var serveErr error
	select {
	case sig := <-sigChan:
		fmt.Printf("\nReceived %s, shutting down...\n", sig)
	case serveErr = <-d.Errors():
		fmt.Printf("\nServer failed: %v\n", serveErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
	defer cancel()
	if err := d.shutdown(ctx); err != nil {
		return err
	}
	fmt.Println("Shutdown complete")
	return serveErr
}
