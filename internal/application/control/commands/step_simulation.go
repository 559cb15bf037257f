package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
)

// MaxStepDays bounds a single StepSimulationCommand
const MaxStepDays = 3650

// StepSimulationCommand runs Days ticks synchronously (default 1)
type StepSimulationCommand struct {
	Days int
}

// StepSimulationHandler handles StepSimulationCommand
type StepSimulationHandler struct {
	engine *simulation.Engine
}

// NewStepSimulationHandler creates a new StepSimulationHandler
func NewStepSimulationHandler(engine *simulation.Engine) *StepSimulationHandler {
	return &StepSimulationHandler{engine: engine}
}

// Handle runs the ticks, stopping early on the first failing tick or a cancelled context
func (h *StepSimulationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*StepSimulationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *StepSimulationCommand")
	}

	days := cmd.Days
	if days == 0 {
		days = 1
	}
	if days < 0 || days > MaxStepDays {
		return nil, fmt.Errorf("days must be between 1 and %d, got %d", MaxStepDays, cmd.Days)
	}

	for i := 0; i < days; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := h.engine.Step(); err != nil {
			return nil, fmt.Errorf("tick %d of %d failed: %w", i+1, days, err)
		}
	}
	return stateOf(h.engine), nil
}
