package tick

import (
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/domain/ledger"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// runwayWarningWeeks is the cash cover below which the weekly check warns
var runwayWarningWeeks = decimal.NewFromInt(2)

// FinanceProcessor reports cash runway and period results
type FinanceProcessor struct {
	BaseProcessor
	logger common.Logger
}

func NewFinanceProcessor(logger common.Logger) *FinanceProcessor {
	return &FinanceProcessor{logger: orNoOp(logger)}
}

func (p *FinanceProcessor) Name() string { return "finance" }

// WeeklyBurn estimates weekly spending as a quarter of the larger of the
// running month's expenses and the last closed month's expenses
func WeeklyBurn(w *world.World) decimal.Decimal {
	monthly := w.Ledger().Monthly().Expenses
	if closed := w.LastClosedMonth().Expenses; closed.GreaterThan(monthly) {
		monthly = closed
	}
	return monthly.Div(decimal.NewFromInt(4))
}

// OnWeekTick warns when cash covers fewer than two weeks of burn
func (p *FinanceProcessor) OnWeekTick(w *world.World) error {
	if w == nil {
		return errNoWorld
	}
	burn := WeeklyBurn(w)
	weeks, ok := w.RunwayWeeks(burn)
	if !ok {
		return nil
	}
	if weeks.LessThan(runwayWarningWeeks) {
		p.logger.Log(common.LevelWarning, "Cash runway below two weeks", map[string]interface{}{
			"cash":         ledger.FormatMoney(w.CashBalance()),
			"weekly_burn":  ledger.FormatMoney(burn),
			"runway_weeks": weeks.StringFixed(1),
		})
	}
	return nil
}

func (p *FinanceProcessor) OnMonthTick(w *world.World) error {
	if w == nil {
		return errNoWorld
	}
	p.logTotals("Monthly P&L", w.LastClosedMonth(), w)
	return nil
}

func (p *FinanceProcessor) OnQuarterTick(w *world.World) error {
	if w == nil {
		return errNoWorld
	}
	p.logTotals("Quarterly P&L", w.LastClosedQuarter(), w)
	return nil
}

func (p *FinanceProcessor) OnYearTick(w *world.World) error {
	if w == nil {
		return errNoWorld
	}
	p.logTotals("Annual P&L", w.LastClosedYear(), w)
	return nil
}

func (p *FinanceProcessor) logTotals(title string, totals ledger.Totals, w *world.World) {
	p.logger.Log(common.LevelInfo, title, map[string]interface{}{
		"revenue":  ledger.FormatMoney(totals.Revenue),
		"expenses": ledger.FormatMoney(totals.Expenses),
		"profit":   ledger.FormatMoney(totals.Profit()),
		"cash":     ledger.FormatMoney(w.CashBalance()),
	})
}
