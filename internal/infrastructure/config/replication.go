package config

// ReplicationConfig controls state replication between peers
type ReplicationConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// authority runs the business rules; follower applies received snapshots
	Role string `mapstructure:"role" validate:"required,oneof=authority follower"`

	// Cap on outbound snapshots per second
	BroadcastsPerSecond float64 `mapstructure:"broadcasts_per_second" validate:"gt=0"`

	Burst int `mapstructure:"burst" validate:"min=1"`
}
