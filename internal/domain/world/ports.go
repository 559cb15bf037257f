package world

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotStore persists whole-world snapshots under named slots
type SnapshotStore interface {
	// Save writes the snapshot, replacing any existing one in the slot
	Save(ctx context.Context, slot string, snapshot *Snapshot) error

	// Load reads the snapshot in a slot. Returns ErrSnapshotNotFound if the slot is empty.
	Load(ctx context.Context, slot string) (*Snapshot, error)
}

// SnapshotSummary describes a saved slot without its collections
type SnapshotSummary struct {
	Slot    string
	Day     int
	Balance decimal.Decimal
	SavedAt time.Time
}

// SnapshotCatalog is a SnapshotStore that can enumerate and remove slots
type SnapshotCatalog interface {
	SnapshotStore
	List(ctx context.Context) ([]SnapshotSummary, error)
	Delete(ctx context.Context, slot string) error
}
