package replication

import (
	"context"

	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// Transport moves whole-world snapshots between peers.
// Exactly one peer in a session is authoritative; the others follow.
type Transport interface {
	IsAuthoritative() bool

	// BroadcastState sends a snapshot to every other peer
	BroadcastState(ctx context.Context, snapshot *world.Snapshot) error

	// OnStateReceived registers the handler for inbound snapshots.
	// Handlers may be invoked from any goroutine.
	OnStateReceived(handler func(snapshot *world.Snapshot))
}
