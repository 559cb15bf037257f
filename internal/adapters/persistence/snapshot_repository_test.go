package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/headquartz-go/internal/adapters/persistence"
	"github.com/andrescamacho/headquartz-go/internal/domain/sales"
	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
	"github.com/andrescamacho/headquartz-go/test/helpers"
)

func busyWorld(t *testing.T) *world.World {
	t.Helper()
	cfg := world.DefaultConfig()
	cfg.Seed = 7
	cfg.RandomEventProbability = 0
	cfg.BaseOrderProbability = 0
	w := world.New(cfg)
	require.NoError(t, w.SeedDefaults())

	_, err := w.CreateSalesOrder("CUST-1", []sales.OrderLine{
		{ProductID: "P-001", Quantity: 80, UnitPrice: decimal.NewFromInt(100)},
	})
	require.NoError(t, err)
	_, err = w.CreateWorkOrder("P-002", 10)
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		w.AdvanceGameTime()
	}
	return w
}

func TestSnapshotRepository_SaveAndLoadRestoresEquivalentWorld(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSnapshotRepository(db, nil)
	original := busyWorld(t)
	snap := original.Snapshot()

	// Act
	require.NoError(t, repo.Save(context.Background(), "slot-a", snap))
	loaded, err := repo.Load(context.Background(), "slot-a")
	require.NoError(t, err)

	restored := world.New(world.DefaultConfig())
	require.NoError(t, restored.Restore(loaded))

	// Assert
	assert.Equal(t, original.Calendar().Day(), restored.Calendar().Day())
	assert.True(t, original.Calendar().Date().Equal(restored.Calendar().Date()))
	assert.True(t, original.CashBalance().Equal(restored.CashBalance()))
	assert.True(t, original.Ledger().Lifetime().Expenses.Equal(restored.Ledger().Lifetime().Expenses))
	assert.Equal(t, len(original.WorkOrders()), len(restored.WorkOrders()))
	assert.Equal(t, len(original.SalesOrders()), len(restored.SalesOrders()))
	assert.Equal(t, original.Roster().Count(), restored.Roster().Count())
	assert.Equal(t, len(snap.Events), len(loaded.Events))
	assert.Equal(t, snap.Market.ProductDemand, loaded.Market.ProductDemand)

	for i, wo := range snap.WorkOrders {
		assert.Equal(t, wo.ID, loaded.WorkOrders[i].ID)
		assert.Equal(t, wo.Status, loaded.WorkOrders[i].Status)
		assert.Equal(t, wo.RequiredMaterials, loaded.WorkOrders[i].RequiredMaterials)
	}
}

func TestSnapshotRepository_SaveOverwritesSlot(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSnapshotRepository(db, nil)
	ctx := context.Background()

	busy := busyWorld(t)
	require.NoError(t, repo.Save(ctx, "slot", busy.Snapshot()))

	fresh := world.New(world.DefaultConfig())

	// Act
	require.NoError(t, repo.Save(ctx, "slot", fresh.Snapshot()))
	loaded, err := repo.Load(ctx, "slot")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Calendar.Day)
	assert.Empty(t, loaded.WorkOrders)
	assert.Empty(t, loaded.Employees)
	assert.Empty(t, loaded.Inventory)
}

func TestSnapshotRepository_LoadUnknownSlot(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSnapshotRepository(db, nil)

	_, err := repo.Load(context.Background(), "missing")

	assert.ErrorIs(t, err, world.ErrSnapshotNotFound)
}

func TestSnapshotRepository_ListAndDelete(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := persistence.NewGormSnapshotRepository(db, clock)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "older", world.New(world.DefaultConfig()).Snapshot()))
	clock.Advance(time.Hour)
	require.NoError(t, repo.Save(ctx, "newer", busyWorld(t).Snapshot()))

	// Act
	summaries, err := repo.List(ctx)

	// Assert
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "newer", summaries[0].Slot)
	assert.Equal(t, 12, summaries[0].Day)
	assert.Equal(t, "older", summaries[1].Slot)
	assert.True(t, summaries[1].Balance.Equal(decimal.NewFromInt(1_000_000)))

	require.Positive(t, helpers.SlotRowCount(t, db, "newer"))
	require.NoError(t, repo.Delete(ctx, "newer"))
	assert.Zero(t, helpers.SlotRowCount(t, db, "newer"))
	assert.Positive(t, helpers.SlotRowCount(t, db, "older"))
	_, err = repo.Load(ctx, "newer")
	assert.ErrorIs(t, err, world.ErrSnapshotNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "newer"), world.ErrSnapshotNotFound)
}

func TestSnapshotRepository_RejectsEmptySlot(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSnapshotRepository(db, nil)

	err := repo.Save(context.Background(), "", world.New(world.DefaultConfig()).Snapshot())

	assert.Error(t, err)
}

func TestSnapshotRepository_PersistsClosedPeriodFigures(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSnapshotRepository(db, nil)
	original := busyWorld(t)
	for i := 0; i < 20; i++ {
		original.AdvanceGameTime()
	}
	require.True(t, original.LastClosedMonth().Expenses.IsPositive())

	// Act
	require.NoError(t, repo.Save(context.Background(), "periods", original.Snapshot()))
	loaded, err := repo.Load(context.Background(), "periods")
	require.NoError(t, err)
	restored := world.New(world.DefaultConfig())
	require.NoError(t, restored.Restore(loaded))

	// Assert
	assert.True(t, original.LastClosedMonth().Expenses.Equal(restored.LastClosedMonth().Expenses))
	assert.True(t, original.LastClosedMonth().Revenue.Equal(restored.LastClosedMonth().Revenue))
	assert.Equal(t, original.LastMonthActivity().OrdersCreated, restored.LastMonthActivity().OrdersCreated)
	assert.Equal(t, original.LastWeekActivity().UnitsProduced, restored.LastWeekActivity().UnitsProduced)
	assert.True(t, original.LastMonthActivity().ShippedRevenue.Equal(restored.LastMonthActivity().ShippedRevenue))
}
