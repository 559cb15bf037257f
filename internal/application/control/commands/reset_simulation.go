package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
)

// ResetSimulationCommand stops the engine and rewinds the calendar to the epoch
type ResetSimulationCommand struct{}

// ResetSimulationHandler handles ResetSimulationCommand
type ResetSimulationHandler struct {
	engine *simulation.Engine
}

// NewResetSimulationHandler creates a new ResetSimulationHandler
func NewResetSimulationHandler(engine *simulation.Engine) *ResetSimulationHandler {
	return &ResetSimulationHandler{engine: engine}
}

// Handle resets the engine
func (h *ResetSimulationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ResetSimulationCommand); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ResetSimulationCommand")
	}
	h.engine.Reset()
	return stateOf(h.engine), nil
}
