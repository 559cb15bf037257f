package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
)

// StartSimulationCommand begins automatic ticking
type StartSimulationCommand struct{}

// StartSimulationHandler handles StartSimulationCommand
type StartSimulationHandler struct {
	engine *simulation.Engine
}

// NewStartSimulationHandler creates a new StartSimulationHandler
func NewStartSimulationHandler(engine *simulation.Engine) *StartSimulationHandler {
	return &StartSimulationHandler{engine: engine}
}

// Handle starts the engine. Starting a running engine is a no-op.
func (h *StartSimulationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*StartSimulationCommand); !ok {
		return nil, fmt.Errorf("invalid request type: expected *StartSimulationCommand")
	}
	h.engine.Start()
	return stateOf(h.engine), nil
}

// StopSimulationCommand halts automatic ticking after any tick in flight
type StopSimulationCommand struct{}

// StopSimulationHandler handles StopSimulationCommand
type StopSimulationHandler struct {
	engine *simulation.Engine
}

// NewStopSimulationHandler creates a new StopSimulationHandler
func NewStopSimulationHandler(engine *simulation.Engine) *StopSimulationHandler {
	return &StopSimulationHandler{engine: engine}
}

// Handle stops the engine
func (h *StopSimulationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*StopSimulationCommand); !ok {
		return nil, fmt.Errorf("invalid request type: expected *StopSimulationCommand")
	}
	h.engine.Stop()
	return stateOf(h.engine), nil
}
