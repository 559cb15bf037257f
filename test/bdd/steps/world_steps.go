package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/headquartz-go/internal/domain/calendar"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/ledger"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// worldContext holds state for calendar and ledger scenarios
type worldContext struct {
	world    *world.World
	crossed  calendar.Boundaries
	result   ledger.TransactionResult
	recorded []events.GameEvent
	declined int
}

func (wc *worldContext) reset() {
	wc.world = nil
	wc.crossed = calendar.Boundaries{}
	wc.result = ledger.TransactionResult{}
	wc.recorded = nil
	wc.declined = 0
}

// quietConfig disables stochastic order and event generation
func quietConfig(openingBalance int64) world.Config {
	cfg := world.DefaultConfig()
	cfg.OpeningBalance = decimal.NewFromInt(openingBalance)
	cfg.RandomEventProbability = 0
	cfg.BaseOrderProbability = 0
	return cfg
}

func (wc *worldContext) aFreshWorldWithAnOpeningBalanceOf(balance int64) error {
	wc.world = world.New(quietConfig(balance))
	return nil
}

func (wc *worldContext) theWorldEventsAreBeingRecorded() error {
	wc.world.Events().Subscribe(func(e events.GameEvent) {
		wc.recorded = append(wc.recorded, e)
	})
	return nil
}

func (wc *worldContext) process(tx *ledger.Transaction, err error) error {
	if err != nil {
		return err
	}
	result, err := wc.world.ProcessTransaction(tx)
	if err != nil {
		return err
	}
	wc.result = result
	if !result.Approved {
		wc.declined++
	}
	return nil
}

func (wc *worldContext) aRevenueHasBeenRecorded(amount int64) error {
	return wc.process(ledger.NewRevenue(ledger.CategorySales, decimal.NewFromInt(amount), "Opening contract", wc.world.Now()))
}

func (wc *worldContext) anExpenseIsProcessed(amount int64) error {
	return wc.process(ledger.NewExpense(ledger.CategoryOperations, decimal.NewFromInt(amount), "Equipment", wc.world.Now()))
}

func (wc *worldContext) theGameTimeAdvancesTimes(n int) error {
	for i := 0; i < n; i++ {
		wc.crossed = wc.world.AdvanceGameTime()
	}
	return nil
}

func (wc *worldContext) theGameTimeAdvancesOnceMore() error {
	return wc.theGameTimeAdvancesTimes(1)
}

// cellValue looks a column up by the header in the first table row
func cellValue(table *godog.Table, row *messages.PickleTableRow, column string) string {
	for i, header := range table.Rows[0].Cells {
		if header.Value == column && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}

func (wc *worldContext) theFollowingTransactionsAreProcessed(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("transaction table needs a header and at least one row")
	}
	for _, row := range table.Rows[1:] {
		txType, err := ledger.ParseTransactionType(cellValue(table, row, "type"))
		if err != nil {
			return err
		}
		category, err := ledger.ParseCategory(cellValue(table, row, "category"))
		if err != nil {
			return err
		}
		amount, err := decimal.NewFromString(cellValue(table, row, "amount"))
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		if err := wc.process(ledger.NewTransaction(txType, category, amount, "batch", wc.world.Now())); err != nil {
			return err
		}
	}
	return nil
}

func (wc *worldContext) transactionsShouldHaveBeenDeclined(n int) error {
	return expectInt("declined transactions", wc.declined, n)
}

func expectInt(name string, got, want int) error {
	if got != want {
		return fmt.Errorf("expected %s %d, got %d", name, want, got)
	}
	return nil
}

func expectMoney(name string, got decimal.Decimal, want int64) error {
	if !got.Equal(decimal.NewFromInt(want)) {
		return fmt.Errorf("expected %s %d, got %s", name, want, got.String())
	}
	return nil
}

func (wc *worldContext) theDayCounterShouldBe(n int) error {
	return expectInt("day", wc.world.Calendar().Day(), n)
}

func (wc *worldContext) theWeekCounterShouldBe(n int) error {
	return expectInt("week", wc.world.Calendar().Week(), n)
}

func (wc *worldContext) theMonthCounterShouldBe(n int) error {
	return expectInt("month", wc.world.Calendar().Month(), n)
}

func (wc *worldContext) theQuarterCounterShouldBe(n int) error {
	return expectInt("quarter", wc.world.Calendar().Quarter(), n)
}

func (wc *worldContext) theYearCounterShouldBe(n int) error {
	return expectInt("year", wc.world.Calendar().Year(), n)
}

func (wc *worldContext) theMonthlyRevenueAndExpensesShouldBeZero() error {
	monthly := wc.world.Ledger().Monthly()
	if !monthly.Revenue.IsZero() || !monthly.Expenses.IsZero() {
		return fmt.Errorf("expected zero monthly totals, got revenue %s expenses %s", monthly.Revenue, monthly.Expenses)
	}
	return nil
}

func (wc *worldContext) theLastClosedMonthRevenueShouldBeAtLeast(amount int64) error {
	revenue := wc.world.LastClosedMonth().Revenue
	if revenue.LessThan(decimal.NewFromInt(amount)) {
		return fmt.Errorf("expected last closed month revenue >= %d, got %s", amount, revenue)
	}
	return nil
}

func (wc *worldContext) noBoundaryShouldHaveBeenCrossed() error {
	if wc.crossed.Any() {
		return fmt.Errorf("expected no boundary, got %s", wc.crossed)
	}
	return nil
}

func (wc *worldContext) theBoundariesCrossedShouldBe(expected string) error {
	names := make([]string, 0, 4)
	for _, p := range wc.crossed.Periods() {
		names = append(names, string(p))
	}
	if got := strings.Join(names, ","); got != expected {
		return fmt.Errorf("expected boundaries %q, got %q", expected, got)
	}
	return nil
}

func (wc *worldContext) theTransactionShouldBeDeclined() error {
	if wc.result.Approved {
		return fmt.Errorf("expected the transaction to be declined")
	}
	return nil
}

func (wc *worldContext) theTransactionShouldBeApproved() error {
	if !wc.result.Approved {
		return fmt.Errorf("expected the transaction to be approved, declined: %s", wc.result.DeclineReason)
	}
	return nil
}

func (wc *worldContext) theCashBalanceShouldBe(amount int64) error {
	return expectMoney("cash balance", wc.world.CashBalance(), amount)
}

func (wc *worldContext) theMonthlyExpensesShouldBe(amount int64) error {
	return expectMoney("monthly expenses", wc.world.Ledger().Monthly().Expenses, amount)
}

func (wc *worldContext) exactlyEventsShouldHaveBeenEmitted(n int, kind string) error {
	count := 0
	for _, e := range wc.recorded {
		if string(e.Kind()) == kind {
			count++
		}
	}
	return expectInt(kind+" events", count, n)
}

// InitializeWorldScenario registers calendar and ledger steps
func InitializeWorldScenario(ctx *godog.ScenarioContext) {
	wc := &worldContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		wc.reset()
		return ctx, nil
	})

	ctx.Step(`^a fresh world with an opening balance of (\d+)$`, wc.aFreshWorldWithAnOpeningBalanceOf)
	ctx.Step(`^the world events are being recorded$`, wc.theWorldEventsAreBeingRecorded)
	ctx.Step(`^a revenue of (\d+) has been recorded$`, wc.aRevenueHasBeenRecorded)
	ctx.Step(`^a revenue of (\d+) is processed$`, wc.aRevenueHasBeenRecorded)
	ctx.Step(`^an expense of (\d+) is processed$`, wc.anExpenseIsProcessed)
	ctx.Step(`^the following transactions are processed:$`, wc.theFollowingTransactionsAreProcessed)
	ctx.Step(`^(\d+) transactions? should have been declined$`, wc.transactionsShouldHaveBeenDeclined)
	ctx.Step(`^the game time advances (\d+) times$`, wc.theGameTimeAdvancesTimes)
	ctx.Step(`^the game time advances once more$`, wc.theGameTimeAdvancesOnceMore)

	ctx.Step(`^the day counter should be (\d+)$`, wc.theDayCounterShouldBe)
	ctx.Step(`^the week counter should be (\d+)$`, wc.theWeekCounterShouldBe)
	ctx.Step(`^the month counter should be (\d+)$`, wc.theMonthCounterShouldBe)
	ctx.Step(`^the quarter counter should be (\d+)$`, wc.theQuarterCounterShouldBe)
	ctx.Step(`^the year counter should be (\d+)$`, wc.theYearCounterShouldBe)
	ctx.Step(`^the monthly revenue and expenses should be zero$`, wc.theMonthlyRevenueAndExpensesShouldBeZero)
	ctx.Step(`^the last closed month revenue should be at least (\d+)$`, wc.theLastClosedMonthRevenueShouldBeAtLeast)
	ctx.Step(`^no boundary should have been crossed$`, wc.noBoundaryShouldHaveBeenCrossed)
	ctx.Step(`^the boundaries crossed should be "([^"]*)"$`, wc.theBoundariesCrossedShouldBe)

	ctx.Step(`^the transaction should be declined$`, wc.theTransactionShouldBeDeclined)
	ctx.Step(`^the transaction should be approved$`, wc.theTransactionShouldBeApproved)
	ctx.Step(`^the cash balance should be (\d+)$`, wc.theCashBalanceShouldBe)
	ctx.Step(`^the monthly expenses should be (\d+)$`, wc.theMonthlyExpensesShouldBe)
	ctx.Step(`^exactly (\d+) "([^"]*)" events should have been emitted$`, wc.exactlyEventsShouldHaveBeenEmitted)
}
