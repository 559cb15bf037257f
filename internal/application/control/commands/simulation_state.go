package commands

import (
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
)

// SimulationStateResponse is returned by every engine control command
type SimulationStateResponse struct {
	Running bool
	Speed   float64
	Day     int
	Phase   string
	Ticks   uint64
}

func stateOf(engine *simulation.Engine) *SimulationStateResponse {
	stats := engine.Statistics()
	return &SimulationStateResponse{
		Running: stats.Running,
		Speed:   stats.Speed,
		Day:     stats.World.Day,
		Phase:   string(stats.Phase),
		Ticks:   stats.TicksProcessed,
	}
}
