package world

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/ledger"
)

// processWeek runs market drift, staff evaluation, customer satisfaction and restocking
func (w *World) processWeek() {
	drift := w.market.WeeklyDrift(w.rng)
	if math.Abs(drift.DemandChange) > 0.05 {
		direction := "increased"
		if drift.DemandChange < 0 {
			direction = "decreased"
		}
		w.emitf(events.KindMarketChange, fmt.Sprintf("Market demand %s by %.1f%%", direction, math.Abs(drift.DemandChange)*100))
	}

	w.evaluateEmployees()
	w.updateCustomerSatisfaction()
	w.processReorders()

	w.lastWeekActivity = w.weekActivity
	w.weekActivity = Activity{}

	w.emitf(events.KindMarketChange, fmt.Sprintf("Week %d completed - market analysis updated", w.calendar.Week()-1))
}

// evaluateEmployees applies the weekly performance review
func (w *World) evaluateEmployees() {
	for _, e := range w.roster.All() {
		e.AdjustPerformance(w.rng.Intn(15) - 5)
		if e.Satisfaction() < 50 {
			e.AdjustPerformance(-2)
		}
	}
}

// updateCustomerSatisfaction moves satisfaction with quality and delivery performance
func (w *World) updateCustomerSatisfaction() {
	sat := w.metrics.CustomerSatisfaction
	switch {
	case w.metrics.QualityScore > 90:
		sat += 1 + w.rng.Intn(2)
	case w.metrics.QualityScore < 70:
		sat -= 1 + w.rng.Intn(2)
	}
	if w.weekActivity.OrdersShipped > 5 {
		sat++
	}
	w.metrics.CustomerSatisfaction = clampInt(sat, 0, 100)
}

// processReorders buys stock for every line below its reorder level
func (w *World) processReorders() {
	today := w.calendar.Date()

	for _, item := range w.inventory.Items() {
		if !item.NeedsReorder() {
			continue
		}
		unitCost := item.UnitCost()
		if !unitCost.IsPositive() {
			unitCost = w.cfg.StandardUnitCost
		}
		cost := unitCost.Mul(decimal.NewFromInt(int64(item.ReorderQuantity())))
		if !w.spend(ledger.CategoryProcurement, cost, fmt.Sprintf("Restock %s", item.ProductID())) {
			continue
		}
		if err := w.inventory.Credit(item.ProductID(), item.ReorderQuantity(), unitCost, today); err != nil {
			continue
		}
		w.emitf(events.KindReorderPlaced, fmt.Sprintf("Restocked %d x %s for %s", item.ReorderQuantity(), item.ProductID(), ledger.FormatMoney(cost)))
	}

	for _, m := range w.inventory.Materials() {
		if !m.NeedsReorder() {
			continue
		}
		cost := m.UnitCost().Mul(decimal.NewFromInt(int64(m.ReorderQuantity())))
		if !w.spend(ledger.CategoryProcurement, cost, fmt.Sprintf("Purchase %s", m.Name())) {
			continue
		}
		if err := w.inventory.ReceiveMaterial(m.MaterialID(), m.ReorderQuantity()); err != nil {
			continue
		}
		w.emitf(events.KindReorderPlaced, fmt.Sprintf("Purchased %d x %s for %s", m.ReorderQuantity(), m.Name(), ledger.FormatMoney(cost)))
	}
}

// processMonth runs payroll, statements and the month close
func (w *World) processMonth() {
	closing := w.calendar.Month() - 1

	w.processPayroll()
	w.refreshValuation()
	w.emitf(events.KindBudgetReview, "Department budget review completed")

	w.lastMonthTotals = w.ledger.CloseMonth()
	w.lastMonthActivity = w.monthActivity
	w.monthActivity = Activity{}
	w.archiveClosedOrders()

	w.emitf(events.KindFinancialReport, fmt.Sprintf("Month %d closed - revenue %s, expenses %s, profit %s",
		closing,
		ledger.FormatMoney(w.lastMonthTotals.Revenue),
		ledger.FormatMoney(w.lastMonthTotals.Expenses),
		ledger.FormatMoney(w.lastMonthTotals.Profit())))
}

// processQuarter reports quarterly results, checks for opportunities and folds into the year
func (w *World) processQuarter() {
	closing := w.calendar.Quarter() - 1
	totals := w.ledger.Quarterly()

	w.emitf(events.KindBudgetReview, fmt.Sprintf("Q%d results: revenue %s, profit %s",
		closing, ledger.FormatMoney(totals.Revenue), ledger.FormatMoney(totals.Profit())))

	if w.metrics.MarketShare < 10 && w.ledger.Balance().GreaterThan(decimal.NewFromInt(500_000)) {
		w.emitf(events.KindMarketOpportunity, "Market opportunity detected - consider increasing marketing budget")
	}

	w.lastQuarterTotals = w.ledger.CloseQuarter()
}

// processYear publishes the annual report, rewards high performers and folds into lifetime
func (w *World) processYear() {
	closing := w.calendar.Year() - 1
	totals := w.ledger.Yearly()

	w.emitf(events.KindFinancialReport, fmt.Sprintf("Year %d complete! Annual revenue %s, profit %s",
		closing, ledger.FormatMoney(totals.Revenue), ledger.FormatMoney(totals.Profit())))

	raised := 0
	for _, e := range w.roster.All() {
		if e.Performance() > 85 {
			e.GiveRaise(decimal.NewFromInt(5))
			raised++
		}
	}
	if raised > 0 {
		w.emitf(events.KindSalaryIncrease, fmt.Sprintf("%d high performers received a 5%% raise", raised))
	}

	w.lastYearTotals = w.ledger.CloseYear()
}
