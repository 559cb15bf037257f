package tick

import (
	"errors"

	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// errNoWorld is returned by processors invoked without a world
var errNoWorld = errors.New("processor invoked without a world")

// Processor is a subsystem observer run by the Manager for every period boundary.
// Processors hold no world reference of their own; the world is passed on every call.
type Processor interface {
	Name() string
	OnDayTick(w *world.World) error
	OnWeekTick(w *world.World) error
	OnMonthTick(w *world.World) error
	OnQuarterTick(w *world.World) error
	OnYearTick(w *world.World) error
}

// BaseProcessor provides no-op hooks for embedding
type BaseProcessor struct{}

func (BaseProcessor) OnDayTick(*world.World) error     { return nil }
func (BaseProcessor) OnWeekTick(*world.World) error    { return nil }
func (BaseProcessor) OnMonthTick(*world.World) error   { return nil }
func (BaseProcessor) OnQuarterTick(*world.World) error { return nil }
func (BaseProcessor) OnYearTick(*world.World) error    { return nil }
