package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/headquartz-go/internal/infrastructure/config"
)

func TestSetDefaults_FillsEverySection(t *testing.T) {
	cfg := &config.Config{}

	config.SetDefaults(cfg)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "headquartz.db", cfg.Database.Path)
	assert.Equal(t, time.Second, cfg.Simulation.TickInterval)
	assert.Equal(t, 1.0, cfg.Simulation.InitialSpeed)
	assert.Equal(t, 1_000_000.0, cfg.Simulation.OpeningBalance)
	assert.Equal(t, "/tmp/headquartz-daemon.sock", cfg.Daemon.SocketPath)
	assert.Equal(t, "authority", cfg.Replication.Role)
	assert.Equal(t, 4.0, cfg.Replication.BroadcastsPerSecond)
	assert.Equal(t, 60*time.Second, cfg.Logging.DedupWindow)
	require.NoError(t, config.ValidateConfig(cfg))
}

func TestSetDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &config.Config{}
	cfg.Simulation.InitialSpeed = 4
	cfg.Simulation.AutosaveSlot = "auto"

	config.SetDefaults(cfg)

	assert.Equal(t, 4.0, cfg.Simulation.InitialSpeed)
	assert.Equal(t, 30, cfg.Simulation.AutosaveEveryDays)
}

func TestValidateConfig_RejectsOutOfRangeSpeed(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Simulation.InitialSpeed = 32

	err := config.ValidateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "InitialSpeed")
}

func TestValidateConfig_RejectsUnknownRole(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Replication.Role = "observer"

	require.Error(t, config.ValidateConfig(cfg))
}

func TestLoadConfig_ReadsFileAndEnvironment(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "simulation:\n  seed: 42\n  tick_interval: 250ms\nlogging:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	t.Setenv("HQ_SIMULATION_INITIAL_SPEED", "2")

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Equal(t, 250*time.Millisecond, cfg.Simulation.TickInterval)
	assert.Equal(t, 2.0, cfg.Simulation.InitialSpeed)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestUserConfigHandler_RoundTripsPreferences(t *testing.T) {
	h, err := config.NewUserConfigHandlerAt(filepath.Join(t.TempDir(), "hq", "config.json"))
	require.NoError(t, err)

	empty, err := h.Load()
	require.NoError(t, err)
	assert.Empty(t, empty.DefaultSlot)

	require.NoError(t, h.SetDefaultSlot("weekly"))
	require.NoError(t, h.SetDefaultSocket("/tmp/hq.sock"))

	cfg, err := h.Load()
	require.NoError(t, err)
	assert.Equal(t, "weekly", cfg.DefaultSlot)
	assert.Equal(t, "/tmp/hq.sock", cfg.DefaultSocket)
}

func TestValidateConfig_RejectsMinIntervalAboveTickInterval(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Simulation.TickInterval = 50 * time.Millisecond
	cfg.Simulation.MinInterval = time.Second

	err := config.ValidateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "MinInterval")
}

func TestValidateConfig_RejectsMalformedAutosaveSlot(t *testing.T) {
	cfg := &config.Config{}
	cfg.Simulation.AutosaveSlot = "Auto Save!"
	config.SetDefaults(cfg)

	err := config.ValidateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AutosaveSlot")
}

func TestValidateConfig_RequiresSQLitePath(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Database.Path = ""

	require.Error(t, config.ValidateConfig(cfg))
}

func TestValidSlot(t *testing.T) {
	assert.True(t, config.ValidSlot("quicksave"))
	assert.True(t, config.ValidSlot("year-2_final"))
	assert.False(t, config.ValidSlot(""))
	assert.False(t, config.ValidSlot("../etc"))
	assert.False(t, config.ValidSlot("Upper"))
}

func TestDatabaseConfig_PostgresDSN(t *testing.T) {
	cfg := config.DatabaseConfig{Type: "postgres", Host: "db", Port: 5432, User: "hq", Password: "pw", Name: "hq", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=hq password=pw dbname=hq sslmode=disable", cfg.PostgresDSN())
	cfg.URL = "postgresql://hq@db/hq"
	assert.Equal(t, "postgresql://hq@db/hq", cfg.PostgresDSN())
	assert.False(t, cfg.InMemory())
	assert.True(t, config.DatabaseConfig{Type: "sqlite", Path: ":memory:"}.InMemory())
}
