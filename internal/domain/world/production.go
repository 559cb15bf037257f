package world

import (
	"fmt"

	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/production"
)

// ProductionRate is the workforce multiplier on daily progress:
// mean of average performance and average satisfaction, 1.0 with no staff
func (w *World) ProductionRate() float64 {
	if w.roster.Count() == 0 {
		return 1.0
	}
	return (w.roster.AveragePerformance() + w.roster.AverageSatisfaction()) / 200.0
}

// dailyProgressIncrement is the percentage points an in-progress order gains today
func (w *World) dailyProgressIncrement() int {
	inc := int(10 * w.ProductionRate() * w.metrics.ProductionEfficiency / 100.0)
	if inc < 1 {
		inc = 1
	}
	return inc
}

// processProduction advances in-progress work orders, completes finished ones
// and starts scheduled or waiting orders whose materials are on hand
func (w *World) processProduction() {
	today := w.calendar.Date()
	increment := w.dailyProgressIncrement()

	for _, wo := range w.workOrders {
		if wo.Status() != production.StatusInProgress {
			continue
		}
		ready, err := wo.Advance(increment)
		if err != nil || !ready {
			continue
		}
		w.completeWorkOrder(wo)
	}

	for _, wo := range w.workOrders {
		status := wo.Status()
		if status != production.StatusScheduled && status != production.StatusWaitingMaterials {
			continue
		}

		required := wo.RequiredMaterials()
		if !w.inventory.HasMaterials(required) {
			if status == production.StatusScheduled && wo.AwaitMaterials() == nil {
				w.emitf(events.KindMaterialShortage, fmt.Sprintf("Work order %s waiting for materials", shortID(wo.ID())))
			}
			continue
		}

		if err := w.inventory.ConsumeMaterials(required); err != nil {
			continue
		}
		if err := wo.Start(today); err != nil {
			continue
		}
		w.emitf(events.KindProductionStarted, fmt.Sprintf("Work order %s started - %d x %s", shortID(wo.ID()), wo.Quantity(), wo.ProductID()))
	}
}

// completeWorkOrder transitions the order and credits inventory. The status
// check inside Complete makes the credit happen at most once per order.
func (w *World) completeWorkOrder(wo *production.WorkOrder) {
	today := w.calendar.Date()
	if err := wo.Complete(today); err != nil {
		return
	}

	unitCost := w.cfg.StandardUnitCost
	if item, ok := w.inventory.Item(wo.ProductID()); ok && item.UnitCost().IsPositive() {
		unitCost = item.UnitCost()
	}
	if err := w.inventory.Credit(wo.ProductID(), wo.Quantity(), unitCost, today); err != nil {
		return
	}

	w.weekActivity.WorkOrdersCompleted++
	w.monthActivity.WorkOrdersCompleted++
	w.weekActivity.UnitsProduced += wo.Quantity()
	w.monthActivity.UnitsProduced += wo.Quantity()

	w.emitf(events.KindProductionCompleted, fmt.Sprintf("Work order %s completed - %d units of %s produced",
		shortID(wo.ID()), wo.Quantity(), wo.ProductID()))
}

// BehindSchedule returns in-progress orders whose progress lags the
// expected pace for the days they have been running
func (w *World) BehindSchedule() []*production.WorkOrder {
	today := w.calendar.Date()
	expectedPerDay := w.dailyProgressIncrement()

	var late []*production.WorkOrder
	for _, wo := range w.workOrders {
		if wo.Status() != production.StatusInProgress || wo.StartedAt() == nil {
			continue
		}
		days := int(today.Sub(*wo.StartedAt()).Hours() / 24)
		if days > 0 && wo.Progress() < days*expectedPerDay/2 {
			late = append(late, wo)
		}
	}
	return late
}
