package commands

import (
	"context"
	"fmt"
	"math"

	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
)

// SetSpeedCommand changes the tick rate multiplier.
// Values outside the supported range are clamped, not rejected.
type SetSpeedCommand struct {
	Speed float64
}

// SetSpeedHandler handles SetSpeedCommand
type SetSpeedHandler struct {
	engine *simulation.Engine
}

// NewSetSpeedHandler creates a new SetSpeedHandler
func NewSetSpeedHandler(engine *simulation.Engine) *SetSpeedHandler {
	return &SetSpeedHandler{engine: engine}
}

// Handle applies the clamped speed
func (h *SetSpeedHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SetSpeedCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SetSpeedCommand")
	}
	if math.IsNaN(cmd.Speed) || math.IsInf(cmd.Speed, 0) {
		return nil, fmt.Errorf("speed must be a finite number")
	}
	h.engine.SetSpeed(cmd.Speed)
	return stateOf(h.engine), nil
}
