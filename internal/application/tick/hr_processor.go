package tick

import (
	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// lowMoraleThreshold is the average satisfaction below which HR warns
const lowMoraleThreshold = 60.0

// HRProcessor watches morale and headcount
type HRProcessor struct {
	BaseProcessor
	logger common.Logger
}

func NewHRProcessor(logger common.Logger) *HRProcessor {
	return &HRProcessor{logger: orNoOp(logger)}
}

func (p *HRProcessor) Name() string { return "hr" }

func (p *HRProcessor) OnWeekTick(w *world.World) error {
	if w == nil {
		return errNoWorld
	}
	if w.Roster().Count() == 0 {
		return nil
	}
	avg := w.Roster().AverageSatisfaction()
	if avg < lowMoraleThreshold {
		p.logger.Log(common.LevelWarning, "Employee satisfaction is low", map[string]interface{}{
			"average_satisfaction": avg,
			"employees":            w.Roster().Count(),
		})
	}
	return nil
}

func (p *HRProcessor) OnMonthTick(w *world.World) error {
	if w == nil {
		return errNoWorld
	}
	metadata := map[string]interface{}{"headcount": w.Roster().Count()}
	for dept, count := range w.Roster().ByDepartment() {
		metadata[string(dept)] = count
	}
	p.logger.Log(common.LevelInfo, "Monthly headcount", metadata)
	return nil
}
