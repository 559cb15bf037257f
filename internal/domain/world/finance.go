package world

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/ledger"
)

// ProcessTransaction is the only path that changes the cash balance.
//
// A declined expense leaves the balance untouched and emits one
// InsufficientFunds event. Invalid transactions return an error and change
// nothing.
func (w *World) ProcessTransaction(tx *ledger.Transaction) (ledger.TransactionResult, error) {
	result, err := w.ledger.Apply(tx)
	if err != nil {
		return result, err
	}

	if !result.Approved {
		w.emitf(events.KindInsufficientFunds, fmt.Sprintf("Insufficient funds for %s (%s needed, %s available)",
			tx.Description(), ledger.FormatMoney(tx.Amount()), ledger.FormatMoney(result.BalanceBefore)))
		return result, nil
	}

	w.checkCashAlert(result.BalanceBefore, result.BalanceAfter)
	return result, nil
}

// spend books an expense dated today and reports whether it was approved
func (w *World) spend(category ledger.Category, amount decimal.Decimal, description string) bool {
	if !amount.IsPositive() {
		return true
	}
	tx, err := ledger.NewExpense(category, amount, description, w.calendar.Date())
	if err != nil {
		return false
	}
	result, err := w.ProcessTransaction(tx)
	return err == nil && result.Approved
}

// earn books revenue dated today
func (w *World) earn(category ledger.Category, amount decimal.Decimal, description string) {
	if !amount.IsPositive() {
		return
	}
	tx, err := ledger.NewRevenue(category, amount, description, w.calendar.Date())
	if err != nil {
		return
	}
	_, _ = w.ProcessTransaction(tx)
}

// checkCashAlert emits at most one LowCashFlow alert when a balance assignment
// crosses a threshold downwards. The critical threshold takes precedence.
func (w *World) checkCashAlert(before, after decimal.Decimal) {
	critical := w.cfg.CriticalCashThreshold
	caution := w.cfg.CautionCashThreshold

	switch {
	case before.GreaterThanOrEqual(critical) && after.LessThan(critical):
		w.emitWithSeverity(events.KindLowCashFlow, events.SeverityHigh,
			fmt.Sprintf("CRITICAL: cash balance fell below %s (now %s)", ledger.FormatMoney(critical), ledger.FormatMoney(after)))
	case before.GreaterThanOrEqual(caution) && after.LessThan(caution):
		w.emitWithSeverity(events.KindLowCashFlow, events.SeverityMedium,
			fmt.Sprintf("Warning: cash balance fell below %s (now %s)", ledger.FormatMoney(caution), ledger.FormatMoney(after)))
	}
}

// processPayroll pays every employee's monthly salary in one transaction
func (w *World) processPayroll() {
	if w.roster.Count() == 0 {
		return
	}
	amount := w.roster.Payroll()
	if w.spend(ledger.CategoryPayroll, amount, "Monthly payroll") {
		w.emitf(events.KindPayrollProcessed, fmt.Sprintf("Payroll processed: %s for %d employees",
			ledger.FormatMoney(amount), w.roster.Count()))
		for _, e := range w.roster.All() {
			e.AdjustSatisfaction(2)
		}
		return
	}
	for _, e := range w.roster.All() {
		e.AdjustSatisfaction(-5)
	}
}

// RunwayWeeks returns how many weeks the balance covers at weeklyBurn.
// ok is false when there is no burn to measure against.
func (w *World) RunwayWeeks(weeklyBurn decimal.Decimal) (decimal.Decimal, bool) {
	if !weeklyBurn.IsPositive() {
		return decimal.Zero, false
	}
	return w.ledger.Balance().Div(weeklyBurn), true
}
