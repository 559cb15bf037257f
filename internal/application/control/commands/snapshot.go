package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// SaveSnapshotCommand writes the current world to a slot
type SaveSnapshotCommand struct {
	Slot string
}

// SnapshotResponse reports the slot and the simulated day it holds
type SnapshotResponse struct {
	Slot string
	Day  int
}

// SaveSnapshotHandler handles SaveSnapshotCommand
type SaveSnapshotHandler struct {
	engine *simulation.Engine
	store  world.SnapshotStore
}

// NewSaveSnapshotHandler creates a new SaveSnapshotHandler
func NewSaveSnapshotHandler(engine *simulation.Engine, store world.SnapshotStore) *SaveSnapshotHandler {
	return &SaveSnapshotHandler{engine: engine, store: store}
}

// Handle captures the world between ticks and persists it outside the tick lock
func (h *SaveSnapshotHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SaveSnapshotCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SaveSnapshotCommand")
	}
	if cmd.Slot == "" {
		return nil, fmt.Errorf("snapshot slot is required")
	}

	var snap *world.Snapshot
	if err := h.engine.Exec(func(w *world.World) error {
		snap = w.Snapshot()
		return nil
	}); err != nil {
		return nil, err
	}

	if err := h.store.Save(ctx, cmd.Slot, snap); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Snapshot saved", map[string]interface{}{
		"slot": cmd.Slot,
		"day":  snap.Calendar.Day,
	})
	return &SnapshotResponse{Slot: cmd.Slot, Day: snap.Calendar.Day}, nil
}

// LoadSnapshotCommand replaces the world with a saved slot
type LoadSnapshotCommand struct {
	Slot string
}

// LoadSnapshotHandler handles LoadSnapshotCommand
type LoadSnapshotHandler struct {
	engine *simulation.Engine
	store  world.SnapshotStore
}

// NewLoadSnapshotHandler creates a new LoadSnapshotHandler
func NewLoadSnapshotHandler(engine *simulation.Engine, store world.SnapshotStore) *LoadSnapshotHandler {
	return &LoadSnapshotHandler{engine: engine, store: store}
}

// Handle loads outside the tick lock and restores between ticks.
// A snapshot that fails validation leaves the world untouched.
func (h *LoadSnapshotHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*LoadSnapshotCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *LoadSnapshotCommand")
	}
	if cmd.Slot == "" {
		return nil, fmt.Errorf("snapshot slot is required")
	}

	snap, err := h.store.Load(ctx, cmd.Slot)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %q: %w", cmd.Slot, err)
	}

	if err := h.engine.Exec(func(w *world.World) error {
		return w.Restore(snap)
	}); err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Snapshot restored", map[string]interface{}{
		"slot": cmd.Slot,
		"day":  snap.Calendar.Day,
	})
	return &SnapshotResponse{Slot: cmd.Slot, Day: snap.Calendar.Day}, nil
}

// DeleteSnapshotCommand removes a saved slot
type DeleteSnapshotCommand struct {
	Slot string
}

// DeleteSnapshotHandler handles DeleteSnapshotCommand
type DeleteSnapshotHandler struct {
	catalog world.SnapshotCatalog
}

// NewDeleteSnapshotHandler creates a new DeleteSnapshotHandler
func NewDeleteSnapshotHandler(catalog world.SnapshotCatalog) *DeleteSnapshotHandler {
	return &DeleteSnapshotHandler{catalog: catalog}
}

// Handle deletes the slot
func (h *DeleteSnapshotHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DeleteSnapshotCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DeleteSnapshotCommand")
	}
	if err := h.catalog.Delete(ctx, cmd.Slot); err != nil {
		return nil, fmt.Errorf("failed to delete snapshot %q: %w", cmd.Slot, err)
	}
	return &SnapshotResponse{Slot: cmd.Slot}, nil
}
