package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/headquartz-go/internal/adapters/persistence"
	"github.com/andrescamacho/headquartz-go/internal/application/tick"
	"github.com/andrescamacho/headquartz-go/internal/domain/calendar"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
	"github.com/andrescamacho/headquartz-go/test/helpers"
)

// snapshotContext holds state for save/load scenarios against the shared database
type snapshotContext struct {
	repo         *persistence.GormSnapshotRepository
	manager      *tick.Manager
	world        *world.World
	savedBalance decimal.Decimal
	loadErr      error
}

func (sc *snapshotContext) reset() {
	sc.repo = persistence.NewGormSnapshotRepository(helpers.SharedTestDB, nil)
	sc.manager = tick.NewManager(nil, nil)
	for _, p := range tick.DefaultProcessors(nil) {
		sc.manager.Register(p)
	}
	sc.world = nil
	sc.savedBalance = decimal.Zero
	sc.loadErr = nil
}

// advance runs full ticks without the engine: calendar first, then processor fan-out
func (sc *snapshotContext) advance(days int) {
	for i := 0; i < days; i++ {
		crossed := sc.world.AdvanceGameTime()
		sc.manager.Dispatch(calendar.PeriodDay, sc.world)
		for _, period := range crossed.Periods() {
			sc.manager.Dispatch(period, sc.world)
		}
	}
}

func (sc *snapshotContext) aSeededWorldAdvancedDays(days int) error {
	sc.world = world.New(quietConfig(1_000_000))
	if err := sc.world.SeedDefaults(); err != nil {
		return err
	}
	sc.advance(days)
	return nil
}

func (sc *snapshotContext) theWorldIsSavedToSlot(slot string) error {
	sc.savedBalance = sc.world.CashBalance()
	return sc.repo.Save(context.Background(), slot, sc.world.Snapshot())
}

func (sc *snapshotContext) theSeededWorldAdvancesMoreDays(days int) error {
	sc.advance(days)
	return nil
}

func (sc *snapshotContext) slotIsLoadedIntoTheWorld(slot string) error {
	snap, err := sc.repo.Load(context.Background(), slot)
	if err != nil {
		sc.loadErr = err
		return nil
	}
	sc.loadErr = sc.world.Restore(snap)
	return nil
}

func (sc *snapshotContext) theRestoredDayCounterShouldBe(day int) error {
	if sc.loadErr != nil {
		return fmt.Errorf("load failed: %w", sc.loadErr)
	}
	return expectInt("day", sc.world.Calendar().Day(), day)
}

func (sc *snapshotContext) theCashBalanceShouldEqualTheSavedBalance() error {
	if got := sc.world.CashBalance(); !got.Equal(sc.savedBalance) {
		return fmt.Errorf("expected balance %s, got %s", sc.savedBalance, got)
	}
	return nil
}

func (sc *snapshotContext) theLoadShouldFailWithSnapshotNotFound() error {
	if !errors.Is(sc.loadErr, world.ErrSnapshotNotFound) {
		return fmt.Errorf("expected snapshot not found, got %v", sc.loadErr)
	}
	return nil
}

// InitializeSnapshotScenario registers snapshot persistence steps
func InitializeSnapshotScenario(ctx *godog.ScenarioContext) {
	sc := &snapshotContext{}

	ctx.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		if err := helpers.TruncateAllTables(); err != nil {
			return ctx, err
		}
		sc.reset()
		return ctx, nil
	})

	ctx.Step(`^a seeded world advanced (\d+) days$`, sc.aSeededWorldAdvancedDays)
	ctx.Step(`^the world is saved to slot "([^"]*)"$`, sc.theWorldIsSavedToSlot)
	ctx.Step(`^the seeded world advances (\d+) more days$`, sc.theSeededWorldAdvancesMoreDays)
	ctx.Step(`^slot "([^"]*)" is loaded into the world$`, sc.slotIsLoadedIntoTheWorld)
	ctx.Step(`^the restored day counter should be (\d+)$`, sc.theRestoredDayCounterShouldBe)
	ctx.Step(`^the cash balance should equal the saved balance$`, sc.theCashBalanceShouldEqualTheSavedBalance)
	ctx.Step(`^the load should fail with snapshot not found$`, sc.theLoadShouldFailWithSnapshotNotFound)
}
