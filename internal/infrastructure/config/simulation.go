package config

import "time"

// SimulationConfig holds engine pacing and world construction settings
type SimulationConfig struct {
	// Seed for the world's random source
	Seed int64 `mapstructure:"seed"`

	// Opening cash balance
	OpeningBalance float64 `mapstructure:"opening_balance" validate:"gte=0"`

	// Wall-clock time per simulated day at speed 1
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required"`

	// Lower bound on the effective interval at high speeds
	MinInterval time.Duration `mapstructure:"min_interval" validate:"required"`

	// Starting speed multiplier (0.1 - 16)
	InitialSpeed float64 `mapstructure:"initial_speed" validate:"gte=0.1,lte=16"`

	// Start ticking as soon as the daemon is up
	AutoStart bool `mapstructure:"auto_start"`

	// Stock the starter company on a fresh world
	SeedDefaults bool `mapstructure:"seed_defaults"`

	RandomEventProbability float64 `mapstructure:"random_event_probability" validate:"gte=0,lte=1"`
	BaseOrderProbability   float64 `mapstructure:"base_order_probability" validate:"gte=0,lte=1"`

	// Number of recent events retained in the world
	HistoryCapacity int `mapstructure:"history_capacity" validate:"min=1"`

	// Snapshot slot written automatically; empty disables autosave
	AutosaveSlot string `mapstructure:"autosave_slot" validate:"omitempty,slot"`

	// Simulated days between autosaves
	AutosaveEveryDays int `mapstructure:"autosave_every_days" validate:"min=0"`
}
