package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// TriggerRandomEventCommand forces one of the random business events
type TriggerRandomEventCommand struct {
	Kind string
}

// TriggerRandomEventResponse reports whether the kind was a random event
type TriggerRandomEventResponse struct {
	Applied bool
}

// TriggerRandomEventHandler handles TriggerRandomEventCommand
type TriggerRandomEventHandler struct {
	engine *simulation.Engine
}

// NewTriggerRandomEventHandler creates a new TriggerRandomEventHandler
func NewTriggerRandomEventHandler(engine *simulation.Engine) *TriggerRandomEventHandler {
	return &TriggerRandomEventHandler{engine: engine}
}

// Handle applies the event between ticks
func (h *TriggerRandomEventHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*TriggerRandomEventCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *TriggerRandomEventCommand")
	}
	kind, err := events.ParseKind(cmd.Kind)
	if err != nil {
		return nil, err
	}

	var applied bool
	if err := h.engine.Exec(func(w *world.World) error {
		applied = w.TriggerRandomEvent(kind)
		return nil
	}); err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("%s is not a random event", kind)
	}
	return &TriggerRandomEventResponse{Applied: true}, nil
}
