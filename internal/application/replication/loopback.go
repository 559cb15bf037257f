package replication

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// LoopbackHub connects in-process peers. Every broadcast is delivered to all
// other peers as an independent copy, so peers never share world pointers.
type LoopbackHub struct {
	mu    sync.RWMutex
	peers []*LoopbackTransport
}

func NewLoopbackHub() *LoopbackHub {
	return &LoopbackHub{}
}

// Join adds a peer to the hub
func (h *LoopbackHub) Join(authoritative bool) *LoopbackTransport {
	h.mu.Lock()
	defer h.mu.Unlock()
	t := &LoopbackTransport{hub: h, authoritative: authoritative}
	h.peers = append(h.peers, t)
	return t
}

// LoopbackTransport is one peer's end of a LoopbackHub
type LoopbackTransport struct {
	hub           *LoopbackHub
	authoritative bool

	mu      sync.RWMutex
	handler func(*world.Snapshot)
}

func (t *LoopbackTransport) IsAuthoritative() bool {
	return t.authoritative
}

func (t *LoopbackTransport) OnStateReceived(handler func(*world.Snapshot)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = handler
}

// BroadcastState encodes the snapshot once and hands each peer its own decoded copy
func (t *LoopbackTransport) BroadcastState(ctx context.Context, snapshot *world.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	t.hub.mu.RLock()
	peers := make([]*LoopbackTransport, 0, len(t.hub.peers))
	for _, p := range t.hub.peers {
		if p != t {
			peers = append(peers, p)
		}
	}
	t.hub.mu.RUnlock()

	for _, p := range peers {
		if err := ctx.Err(); err != nil {
			return err
		}
		var copied world.Snapshot
		if err := json.Unmarshal(data, &copied); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		p.deliver(&copied)
	}
	return nil
}

func (t *LoopbackTransport) deliver(snap *world.Snapshot) {
	t.mu.RLock()
	handler := t.handler
	t.mu.RUnlock()
	if handler != nil {
		handler(snap)
	}
}
