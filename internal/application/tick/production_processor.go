package tick

import (
	"fmt"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// ProductionProcessor watches the shop floor
type ProductionProcessor struct {
	BaseProcessor
	logger common.Logger
}

func NewProductionProcessor(logger common.Logger) *ProductionProcessor {
	return &ProductionProcessor{logger: orNoOp(logger)}
}

func (p *ProductionProcessor) Name() string { return "production" }

// OnWeekTick warns about in-progress work orders running behind schedule
func (p *ProductionProcessor) OnWeekTick(w *world.World) error {
	if w == nil {
		return errNoWorld
	}
	late := w.BehindSchedule()
	if len(late) == 0 {
		return nil
	}
	ids := make([]string, 0, len(late))
	for _, wo := range late {
		ids = append(ids, wo.ID().String()[:8])
	}
	p.logger.Log(common.LevelWarning, fmt.Sprintf("%d work orders behind schedule", len(late)), map[string]interface{}{
		"work_orders": ids,
		"efficiency":  w.Metrics().ProductionEfficiency,
	})
	return nil
}

// OnMonthTick summarizes the month's completed production
func (p *ProductionProcessor) OnMonthTick(w *world.World) error {
	if w == nil {
		return errNoWorld
	}
	activity := w.LastMonthActivity()
	p.logger.Log(common.LevelInfo, "Monthly production summary", map[string]interface{}{
		"work_orders_completed": activity.WorkOrdersCompleted,
		"units_produced":        activity.UnitsProduced,
		"active_work_orders":    len(w.ActiveWorkOrders()),
	})
	return nil
}

func orNoOp(logger common.Logger) common.Logger {
	if logger == nil {
		return common.NoOpLogger{}
	}
	return logger
}
