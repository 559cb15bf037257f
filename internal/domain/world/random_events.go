package world

import (
	"fmt"

	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/production"
)

// randomEvent pairs an event kind with its side effect on the world.
// The effect returns the message to publish.
type randomEvent struct {
	kind   events.Kind
	effect func(w *World) string
}

var randomEvents = []randomEvent{
	{
		kind: events.KindMachineBreakdown,
		effect: func(w *World) string {
			w.metrics.ProductionEfficiency *= 0.8
			return fmt.Sprintf("Production equipment malfunction - efficiency reduced to %.0f%%", w.metrics.ProductionEfficiency)
		},
	},
	{
		kind: events.KindMajorOrder,
		effect: func(w *World) string {
			order, err := w.generateSalesOrder()
			if err != nil {
				return "Major customer enquiry could not be converted into an order"
			}
			return fmt.Sprintf("Major customer %s placed a large order", order.CustomerID())
		},
	},
	{
		kind: events.KindSupplierDelay,
		effect: func(w *World) string {
			for _, wo := range w.workOrders {
				if wo.Status() == production.StatusScheduled && wo.AwaitMaterials() == nil {
					return fmt.Sprintf("Supplier delivery delayed - work order %s waiting for materials", shortID(wo.ID()))
				}
			}
			return "Supplier delivery delayed"
		},
	},
	{
		kind: events.KindQualityIssue,
		effect: func(w *World) string {
			w.metrics.QualityScore = clampFloat(w.metrics.QualityScore-5, 0, 100)
			return "Quality control found defects"
		},
	},
	{
		kind: events.KindMarketOpportunity,
		effect: func(w *World) string {
			w.market.BumpDemand(0.1)
			return "Favorable market conditions!"
		},
	},
}

// rollRandomEvent fires one uniformly chosen random event with the configured probability
func (w *World) rollRandomEvent() {
	if w.rng.Float64() >= w.cfg.RandomEventProbability {
		return
	}
	w.triggerRandomEvent(randomEvents[w.rng.Intn(len(randomEvents))])
}

func (w *World) triggerRandomEvent(ev randomEvent) {
	message := ev.effect(w)
	w.emitf(ev.kind, message)
}

// TriggerRandomEvent forces a named random event regardless of probability.
// Returns false if the kind is not a random event.
func (w *World) TriggerRandomEvent(kind events.Kind) bool {
	for _, ev := range randomEvents {
		if ev.kind == kind {
			w.triggerRandomEvent(ev)
			return true
		}
	}
	return false
}
