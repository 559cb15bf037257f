package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Database    DatabaseConfig    `mapstructure:"database"`
	Simulation  SimulationConfig  `mapstructure:"simulation"`
	Daemon      DaemonConfig      `mapstructure:"daemon"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Replication ReplicationConfig `mapstructure:"replication"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/headquartz")
	}

	v.SetEnvPrefix("HQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// DATABASE_URL is honored without the HQ_ prefix
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// bindEnvKeys registers every key so AutomaticEnv overrides work without a config file.
// viper only consults the environment for keys it already knows about when unmarshalling.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"database.type", "database.url", "database.host", "database.port", "database.user",
		"database.password", "database.name", "database.sslmode", "database.path",
		"database.skip_migrate", "database.pool.max_open", "database.pool.max_idle", "database.pool.max_lifetime",
		"simulation.seed", "simulation.opening_balance", "simulation.tick_interval",
		"simulation.min_interval", "simulation.initial_speed", "simulation.auto_start",
		"simulation.seed_defaults", "simulation.random_event_probability",
		"simulation.base_order_probability", "simulation.history_capacity",
		"simulation.autosave_slot", "simulation.autosave_every_days",
		"daemon.socket_path", "daemon.pid_file", "daemon.shutdown_timeout", "daemon.journal_buffer",
		"metrics.enabled", "metrics.host", "metrics.port", "metrics.path", "metrics.poll_interval",
		"replication.enabled", "replication.role", "replication.broadcasts_per_second", "replication.burst",
		"logging.level", "logging.format", "logging.output", "logging.file_path",
		"logging.persist", "logging.dedup_window",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// LoadConfigOrDefault loads configuration or returns a default config on error
func LoadConfigOrDefault(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		defaultCfg := &Config{}
		SetDefaults(defaultCfg)
		return defaultCfg
	}
	return cfg
}

// MustLoadConfig loads configuration and panics on error (for use in main.go)
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
