package config

import "time"

// MetricsConfig holds metrics collection and the HTTP server that exposes them
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled"`

	// Port for the HTTP server (/metrics, /stats, /events)
	Port int `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`

	// Host to bind the HTTP server (default: localhost)
	Host string `mapstructure:"host"`

	// Path for the metrics endpoint (default: /metrics)
	Path string `mapstructure:"path"`

	// How often world gauges are refreshed
	PollInterval time.Duration `mapstructure:"poll_interval"`
}
