package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andrescamacho/headquartz-go/internal/domain/calendar"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/ledger"
	"github.com/andrescamacho/headquartz-go/internal/domain/market"
	"github.com/andrescamacho/headquartz-go/internal/domain/sales"
	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// GormSnapshotRepository implements world.SnapshotStore using GORM
type GormSnapshotRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

var _ world.SnapshotCatalog = (*GormSnapshotRepository)(nil)

// NewGormSnapshotRepository creates a new snapshot repository
// If clock is nil, uses RealClock (production behavior)
func NewGormSnapshotRepository(db *gorm.DB, clock shared.Clock) *GormSnapshotRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormSnapshotRepository{db: db, clock: clock}
}

// childModels lists every table keyed by slot
var childModels = []interface{}{
	&SnapshotInventoryItemModel{},
	&SnapshotRawMaterialModel{},
	&SnapshotWorkOrderModel{},
	&SnapshotSalesOrderModel{},
	&SnapshotEmployeeModel{},
	&SnapshotEventModel{},
}

// Save replaces the slot's contents atomically
func (r *GormSnapshotRepository) Save(ctx context.Context, slot string, snap *world.Snapshot) error {
	if slot == "" {
		return fmt.Errorf("snapshot slot is required")
	}
	if snap == nil {
		return fmt.Errorf("snapshot is nil")
	}

	header, err := r.headerFromSnapshot(slot, snap)
	if err != nil {
		return err
	}
	children, err := childrenFromSnapshot(slot, snap)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range childModels {
			if err := tx.Where("slot = ?", slot).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear slot %s: %w", slot, err)
			}
		}
		if err := tx.Save(header).Error; err != nil {
			return fmt.Errorf("failed to save snapshot header: %w", err)
		}
		for _, rows := range children {
			if rows == nil {
				continue
			}
			if err := tx.CreateInBatches(rows, 200).Error; err != nil {
				return fmt.Errorf("failed to save snapshot rows: %w", err)
			}
		}
		return nil
	})
}

// Load rebuilds a snapshot from the slot. Returns world.ErrSnapshotNotFound for unknown slots.
func (r *GormSnapshotRepository) Load(ctx context.Context, slot string) (*world.Snapshot, error) {
	db := r.db.WithContext(ctx)

	var header SnapshotModel
	if err := db.Where("slot = ?", slot).First(&header).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, world.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	snap, err := snapshotFromHeader(&header)
	if err != nil {
		return nil, err
	}

	var items []SnapshotInventoryItemModel
	if err := db.Where("slot = ?", slot).Order("position").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	for _, m := range items {
		cost, err := parseMoney("unit_cost", m.UnitCost)
		if err != nil {
			return nil, err
		}
		snap.Inventory = append(snap.Inventory, world.InventoryItemState{
			ProductID:       m.ProductID,
			Quantity:        m.Quantity,
			ReorderLevel:    m.ReorderLevel,
			ReorderQuantity: m.ReorderQuantity,
			UnitCost:        cost,
			LastRestocked:   m.LastRestocked.UTC(),
		})
	}

	var materials []SnapshotRawMaterialModel
	if err := db.Where("slot = ?", slot).Order("position").Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("failed to load raw materials: %w", err)
	}
	for _, m := range materials {
		cost, err := parseMoney("unit_cost", m.UnitCost)
		if err != nil {
			return nil, err
		}
		snap.RawMaterials = append(snap.RawMaterials, world.RawMaterialState{
			MaterialID:      m.MaterialID,
			Name:            m.Name,
			Quantity:        m.Quantity,
			UnitCost:        cost,
			ReorderLevel:    m.ReorderLevel,
			ReorderQuantity: m.ReorderQuantity,
		})
	}

	var workOrders []SnapshotWorkOrderModel
	if err := db.Where("slot = ?", slot).Order("position").Find(&workOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to load work orders: %w", err)
	}
	for _, m := range workOrders {
		required := map[string]int{}
		if m.RequiredMaterials != "" {
			if err := json.Unmarshal([]byte(m.RequiredMaterials), &required); err != nil {
				return nil, fmt.Errorf("failed to decode required materials: %w", err)
			}
		}
		snap.WorkOrders = append(snap.WorkOrders, world.WorkOrderState{
			ID:                m.WorkOrderID,
			ProductID:         m.ProductID,
			Quantity:          m.Quantity,
			Status:            m.Status,
			Progress:          m.Progress,
			RequiredMaterials: required,
			CreatedAt:         m.OpenedAt.UTC(),
			StartedAt:         utcPtr(m.StartedAt),
			CompletedAt:       utcPtr(m.CompletedAt),
		})
	}

	var salesOrders []SnapshotSalesOrderModel
	if err := db.Where("slot = ?", slot).Order("position").Find(&salesOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to load sales orders: %w", err)
	}
	for _, m := range salesOrders {
		var lines []sales.OrderLine
		if m.Lines != "" {
			if err := json.Unmarshal([]byte(m.Lines), &lines); err != nil {
				return nil, fmt.Errorf("failed to decode order lines: %w", err)
			}
		}
		total, err := parseMoney("total", m.Total)
		if err != nil {
			return nil, err
		}
		snap.SalesOrders = append(snap.SalesOrders, world.SalesOrderState{
			ID:          m.OrderID,
			CustomerID:  m.CustomerID,
			Lines:       lines,
			Status:      m.Status,
			Total:       total,
			OrderedAt:   m.OrderedAt.UTC(),
			ShippedAt:   utcPtr(m.ShippedAt),
			DeliveredAt: utcPtr(m.DeliveredAt),
		})
	}

	var employees []SnapshotEmployeeModel
	if err := db.Where("slot = ?", slot).Order("position").Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	for _, m := range employees {
		salary, err := parseMoney("monthly_salary", m.MonthlySalary)
		if err != nil {
			return nil, err
		}
		snap.Employees = append(snap.Employees, world.EmployeeState{
			ID:            m.EmployeeID,
			Name:          m.Name,
			Department:    m.Department,
			MonthlySalary: salary,
			Performance:   m.Performance,
			Satisfaction:  m.Satisfaction,
			HiredAt:       m.HiredAt.UTC(),
		})
	}

	var history []SnapshotEventModel
	if err := db.Where("slot = ?", slot).Order("position").Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	for _, m := range history {
		snap.Events = append(snap.Events, events.Record{
			Kind:      m.Kind,
			Title:     m.Title,
			Color:     m.Color,
			Message:   m.Message,
			Severity:  m.Severity,
			Timestamp: m.Timestamp.UTC(),
			Day:       m.Day,
		})
	}

	return snap, nil
}

// List returns every saved slot, most recently saved first
func (r *GormSnapshotRepository) List(ctx context.Context) ([]world.SnapshotSummary, error) {
	var models []SnapshotModel
	if err := r.db.WithContext(ctx).Order("saved_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	out := make([]world.SnapshotSummary, 0, len(models))
	for _, m := range models {
		balance, err := parseMoney("balance", m.Balance)
		if err != nil {
			return nil, err
		}
		out = append(out, world.SnapshotSummary{Slot: m.Slot, Day: m.Day, Balance: balance, SavedAt: m.SavedAt})
	}
	return out, nil
}

// Delete removes a slot and all its rows
func (r *GormSnapshotRepository) Delete(ctx context.Context, slot string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("slot = ?", slot).Delete(&SnapshotModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete snapshot: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return world.ErrSnapshotNotFound
		}
		for _, model := range childModels {
			if err := tx.Where("slot = ?", slot).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete snapshot rows: %w", err)
			}
		}
		return nil
	})
}

func (r *GormSnapshotRepository) headerFromSnapshot(slot string, snap *world.Snapshot) (*SnapshotModel, error) {
	products, err := json.Marshal(snap.Market.ProductDemand)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product demand: %w", err)
	}
	periods, err := json.Marshal(snap.Periods)
	if err != nil {
		return nil, fmt.Errorf("failed to encode period state: %w", err)
	}

	l := snap.Ledger
	return &SnapshotModel{
		Slot:                 slot,
		Version:              snap.Version,
		Seed:                 snap.Seed,
		SavedAt:              r.clock.Now(),
		CalendarDate:         snap.Calendar.Date,
		Day:                  snap.Calendar.Day,
		Week:                 snap.Calendar.Week,
		Month:                snap.Calendar.Month,
		Quarter:              snap.Calendar.Quarter,
		Year:                 snap.Calendar.Year,
		Balance:              l.Balance.String(),
		MonthlyRevenue:       l.Monthly.Revenue.String(),
		MonthlyExpenses:      l.Monthly.Expenses.String(),
		QuarterlyRevenue:     l.Quarterly.Revenue.String(),
		QuarterlyExpenses:    l.Quarterly.Expenses.String(),
		YearlyRevenue:        l.Yearly.Revenue.String(),
		YearlyExpenses:       l.Yearly.Expenses.String(),
		LifetimeRevenue:      l.Lifetime.Revenue.String(),
		LifetimeExpenses:     l.Lifetime.Expenses.String(),
		MarketDemand:         snap.Market.Demand,
		CompetitorIndex:      snap.Market.CompetitorIndex,
		ProductDemand:        string(products),
		CustomerSatisfaction: snap.Metrics.CustomerSatisfaction,
		MarketShare:          snap.Metrics.MarketShare,
		ProductionEfficiency: snap.Metrics.ProductionEfficiency,
		QualityScore:         snap.Metrics.QualityScore,
		Periods:              string(periods),
	}, nil
}

func childrenFromSnapshot(slot string, snap *world.Snapshot) ([]interface{}, error) {
	var items []SnapshotInventoryItemModel
	for i, s := range snap.Inventory {
		items = append(items, SnapshotInventoryItemModel{
			Slot: slot, Position: i,
			ProductID:       s.ProductID,
			Quantity:        s.Quantity,
			ReorderLevel:    s.ReorderLevel,
			ReorderQuantity: s.ReorderQuantity,
			UnitCost:        s.UnitCost.String(),
			LastRestocked:   s.LastRestocked,
		})
	}

	var materials []SnapshotRawMaterialModel
	for i, s := range snap.RawMaterials {
		materials = append(materials, SnapshotRawMaterialModel{
			Slot: slot, Position: i,
			MaterialID:      s.MaterialID,
			Name:            s.Name,
			Quantity:        s.Quantity,
			UnitCost:        s.UnitCost.String(),
			ReorderLevel:    s.ReorderLevel,
			ReorderQuantity: s.ReorderQuantity,
		})
	}

	var workOrders []SnapshotWorkOrderModel
	for i, s := range snap.WorkOrders {
		required, err := json.Marshal(s.RequiredMaterials)
		if err != nil {
			return nil, fmt.Errorf("failed to encode required materials: %w", err)
		}
		workOrders = append(workOrders, SnapshotWorkOrderModel{
			Slot: slot, Position: i,
			WorkOrderID:       s.ID,
			ProductID:         s.ProductID,
			Quantity:          s.Quantity,
			Status:            s.Status,
			Progress:          s.Progress,
			RequiredMaterials: string(required),
			OpenedAt:          s.CreatedAt,
			StartedAt:         s.StartedAt,
			CompletedAt:       s.CompletedAt,
		})
	}

	var salesOrders []SnapshotSalesOrderModel
	for i, s := range snap.SalesOrders {
		lines, err := json.Marshal(s.Lines)
		if err != nil {
			return nil, fmt.Errorf("failed to encode order lines: %w", err)
		}
		salesOrders = append(salesOrders, SnapshotSalesOrderModel{
			Slot: slot, Position: i,
			OrderID:     s.ID,
			CustomerID:  s.CustomerID,
			Lines:       string(lines),
			Status:      s.Status,
			Total:       s.Total.String(),
			OrderedAt:   s.OrderedAt,
			ShippedAt:   s.ShippedAt,
			DeliveredAt: s.DeliveredAt,
		})
	}

	var employees []SnapshotEmployeeModel
	for i, s := range snap.Employees {
		employees = append(employees, SnapshotEmployeeModel{
			Slot: slot, Position: i,
			EmployeeID:    s.ID,
			Name:          s.Name,
			Department:    s.Department,
			MonthlySalary: s.MonthlySalary.String(),
			Performance:   s.Performance,
			Satisfaction:  s.Satisfaction,
			HiredAt:       s.HiredAt,
		})
	}

	var history []SnapshotEventModel
	for i, r := range snap.Events {
		history = append(history, SnapshotEventModel{
			Slot: slot, Position: i,
			Kind:      r.Kind,
			Title:     r.Title,
			Color:     r.Color,
			Message:   r.Message,
			Severity:  r.Severity,
			Timestamp: r.Timestamp,
			Day:       r.Day,
		})
	}

	// CreateInBatches rejects empty slices, so absent collections are passed as nil
	out := make([]interface{}, 0, 6)
	if len(items) > 0 {
		out = append(out, &items)
	}
	if len(materials) > 0 {
		out = append(out, &materials)
	}
	if len(workOrders) > 0 {
		out = append(out, &workOrders)
	}
	if len(salesOrders) > 0 {
		out = append(out, &salesOrders)
	}
	if len(employees) > 0 {
		out = append(out, &employees)
	}
	if len(history) > 0 {
		out = append(out, &history)
	}
	return out, nil
}

func snapshotFromHeader(m *SnapshotModel) (*world.Snapshot, error) {
	money := map[string]string{
		"balance":            m.Balance,
		"monthly_revenue":    m.MonthlyRevenue,
		"monthly_expenses":   m.MonthlyExpenses,
		"quarterly_revenue":  m.QuarterlyRevenue,
		"quarterly_expenses": m.QuarterlyExpenses,
		"yearly_revenue":     m.YearlyRevenue,
		"yearly_expenses":    m.YearlyExpenses,
		"lifetime_revenue":   m.LifetimeRevenue,
		"lifetime_expenses":  m.LifetimeExpenses,
	}
	parsed := make(map[string]decimal.Decimal, len(money))
	for column, raw := range money {
		d, err := parseMoney(column, raw)
		if err != nil {
			return nil, err
		}
		parsed[column] = d
	}

	products := map[string]float64{}
	if m.ProductDemand != "" {
		if err := json.Unmarshal([]byte(m.ProductDemand), &products); err != nil {
			return nil, fmt.Errorf("failed to decode product demand: %w", err)
		}
	}

	var periods world.PeriodState
	if m.Periods != "" {
		if err := json.Unmarshal([]byte(m.Periods), &periods); err != nil {
			return nil, fmt.Errorf("failed to decode period state: %w", err)
		}
	}

	return &world.Snapshot{
		Version: m.Version,
		Seed:    m.Seed,
		Calendar: calendar.State{
			Date:    m.CalendarDate.UTC(),
			Day:     m.Day,
			Week:    m.Week,
			Month:   m.Month,
			Quarter: m.Quarter,
			Year:    m.Year,
		},
		Ledger: ledger.State{
			Balance:   parsed["balance"],
			Monthly:   ledger.Totals{Revenue: parsed["monthly_revenue"], Expenses: parsed["monthly_expenses"]},
			Quarterly: ledger.Totals{Revenue: parsed["quarterly_revenue"], Expenses: parsed["quarterly_expenses"]},
			Yearly:    ledger.Totals{Revenue: parsed["yearly_revenue"], Expenses: parsed["yearly_expenses"]},
			Lifetime:  ledger.Totals{Revenue: parsed["lifetime_revenue"], Expenses: parsed["lifetime_expenses"]},
		},
		Market: market.Snapshot{
			Demand:          m.MarketDemand,
			CompetitorIndex: m.CompetitorIndex,
			ProductDemand:   products,
		},
		Metrics: world.MetricsState{
			CustomerSatisfaction: m.CustomerSatisfaction,
			MarketShare:          m.MarketShare,
			ProductionEfficiency: m.ProductionEfficiency,
			QualityScore:         m.QualityScore,
		},
		Periods: periods,
	}, nil
}

func parseMoney(column, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", column, raw, err)
	}
	return d, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
