package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "headquartz.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "headquartz"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "headquartz"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Simulation defaults
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = 1
	}
	if cfg.Simulation.OpeningBalance == 0 {
		cfg.Simulation.OpeningBalance = 1_000_000
	}
	if cfg.Simulation.TickInterval == 0 {
		cfg.Simulation.TickInterval = time.Second
	}
	if cfg.Simulation.MinInterval == 0 {
		cfg.Simulation.MinInterval = 10 * time.Millisecond
	}
	if cfg.Simulation.InitialSpeed == 0 {
		cfg.Simulation.InitialSpeed = 1.0
	}
	if cfg.Simulation.RandomEventProbability == 0 {
		cfg.Simulation.RandomEventProbability = 0.05
	}
	if cfg.Simulation.BaseOrderProbability == 0 {
		cfg.Simulation.BaseOrderProbability = 0.3
	}
	if cfg.Simulation.HistoryCapacity == 0 {
		cfg.Simulation.HistoryCapacity = 100
	}
	if cfg.Simulation.AutosaveSlot != "" && cfg.Simulation.AutosaveEveryDays == 0 {
		cfg.Simulation.AutosaveEveryDays = 30
	}

	// Daemon defaults
	if cfg.Daemon.SocketPath == "" {
		cfg.Daemon.SocketPath = "/tmp/headquartz-daemon.sock"
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/headquartz-daemon.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Daemon.JournalBuffer == 0 {
		cfg.Daemon.JournalBuffer = 256
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.PollInterval == 0 {
		cfg.Metrics.PollInterval = 5 * time.Second
	}

	// Replication defaults
	if cfg.Replication.Role == "" {
		cfg.Replication.Role = "authority"
	}
	if cfg.Replication.BroadcastsPerSecond == 0 {
		cfg.Replication.BroadcastsPerSecond = 4
	}
	if cfg.Replication.Burst == 0 {
		cfg.Replication.Burst = 1
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
	if cfg.Logging.DedupWindow == 0 {
		cfg.Logging.DedupWindow = 60 * time.Second
	}
}
