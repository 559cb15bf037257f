package world

import (
	"github.com/andrescamacho/headquartz-go/internal/domain/calendar"
)

// AdvanceGameTime moves the world forward one simulated day.
//
// The day pipeline runs first, in a fixed order. Then, for each period
// boundary the new day lands on, the matching period pipeline runs in
// ascending granularity: week, month, quarter, year. Day 360 runs all four.
func (w *World) AdvanceGameTime() calendar.Boundaries {
	crossed := w.calendar.Advance()

	w.processProduction()
	w.processShipments()
	w.processNewOrders()
	w.processEmployeeDailyWork()
	w.processQualityDrift()
	w.rollRandomEvent()
	w.recomputeMetrics()

	if crossed.Week {
		w.processWeek()
	}
	if crossed.Month {
		w.processMonth()
	}
	if crossed.Quarter {
		w.processQuarter()
	}
	if crossed.Year {
		w.processYear()
	}

	return crossed
}

// AdvanceCalendarOnly moves the calendar without running any business rules.
// Used by replicas that receive authoritative state from elsewhere.
func (w *World) AdvanceCalendarOnly() calendar.Boundaries {
	return w.calendar.Advance()
}

// ResetCalendar returns the calendar to the epoch, leaving ledger and inventory alone
func (w *World) ResetCalendar() {
	w.calendar.Reset()
}
