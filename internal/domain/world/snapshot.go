package world

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/headquartz-go/internal/domain/calendar"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/inventory"
	"github.com/andrescamacho/headquartz-go/internal/domain/ledger"
	"github.com/andrescamacho/headquartz-go/internal/domain/market"
	"github.com/andrescamacho/headquartz-go/internal/domain/production"
	"github.com/andrescamacho/headquartz-go/internal/domain/sales"
	"github.com/andrescamacho/headquartz-go/internal/domain/workforce"
)

// SnapshotVersion is bumped when the snapshot layout changes incompatibly
const SnapshotVersion = 1

// Snapshot is a complete, self-contained copy of world state.
// Restoring one replaces every collection, not only the scalar fields.
type Snapshot struct {
	Version      int                   `json:"version"`
	Seed         int64                 `json:"seed"`
	Calendar     calendar.State        `json:"calendar"`
	Ledger       ledger.State          `json:"ledger"`
	Inventory    []InventoryItemState  `json:"inventory"`
	RawMaterials []RawMaterialState    `json:"raw_materials"`
	WorkOrders   []WorkOrderState      `json:"work_orders"`
	SalesOrders  []SalesOrderState     `json:"sales_orders"`
	Employees    []EmployeeState       `json:"employees"`
	Market       market.Snapshot       `json:"market"`
	Metrics      MetricsState          `json:"metrics"`
	Periods      PeriodState           `json:"periods"`
	Events       []events.Record       `json:"events"`
}

// PeriodState holds running and last-closed reporting figures
type PeriodState struct {
	Week              Activity      `json:"week"`
	Month             Activity      `json:"month"`
	LastWeek          Activity      `json:"last_week"`
	LastMonth         Activity      `json:"last_month"`
	LastMonthTotals   ledger.Totals `json:"last_month_totals"`
	LastQuarterTotals ledger.Totals `json:"last_quarter_totals"`
	LastYearTotals    ledger.Totals `json:"last_year_totals"`
}

type InventoryItemState struct {
	ProductID       string          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	ReorderLevel    int             `json:"reorder_level"`
	ReorderQuantity int             `json:"reorder_quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	LastRestocked   time.Time       `json:"last_restocked"`
}

type RawMaterialState struct {
	MaterialID      string          `json:"material_id"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	ReorderLevel    int             `json:"reorder_level"`
	ReorderQuantity int             `json:"reorder_quantity"`
}

type WorkOrderState struct {
	ID                string         `json:"id"`
	ProductID         string         `json:"product_id"`
	Quantity          int            `json:"quantity"`
	Status            string         `json:"status"`
	Progress          int            `json:"progress"`
	RequiredMaterials map[string]int `json:"required_materials"`
	CreatedAt         time.Time      `json:"created_at"`
	StartedAt         *time.Time     `json:"started_at,omitempty"`
	CompletedAt       *time.Time     `json:"completed_at,omitempty"`
}

type SalesOrderState struct {
	ID          string            `json:"id"`
	CustomerID  string            `json:"customer_id"`
	Lines       []sales.OrderLine `json:"lines"`
	Status      string            `json:"status"`
	Total       decimal.Decimal   `json:"total"`
	OrderedAt   time.Time         `json:"ordered_at"`
	ShippedAt   *time.Time        `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time        `json:"delivered_at,omitempty"`
}

type EmployeeState struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Department    string          `json:"department"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
	Performance   int             `json:"performance"`
	Satisfaction  int             `json:"satisfaction"`
	HiredAt       time.Time       `json:"hired_at"`
}

type MetricsState struct {
	CustomerSatisfaction int     `json:"customer_satisfaction"`
	MarketShare          float64 `json:"market_share"`
	ProductionEfficiency float64 `json:"production_efficiency"`
	QualityScore         float64 `json:"quality_score"`
}

// Snapshot captures the full world state
func (w *World) Snapshot() *Snapshot {
	snap := &Snapshot{
		Version:  SnapshotVersion,
		Seed:     w.cfg.Seed,
		Calendar: w.calendar.State(),
		Ledger:   w.ledger.State(),
		Market:   w.market.Snapshot(),
		Metrics: MetricsState{
			CustomerSatisfaction: w.metrics.CustomerSatisfaction,
			MarketShare:          w.metrics.MarketShare,
			ProductionEfficiency: w.metrics.ProductionEfficiency,
			QualityScore:         w.metrics.QualityScore,
		},
		Periods: PeriodState{
			Week:              w.weekActivity,
			Month:             w.monthActivity,
			LastWeek:          w.lastWeekActivity,
			LastMonth:         w.lastMonthActivity,
			LastMonthTotals:   w.lastMonthTotals,
			LastQuarterTotals: w.lastQuarterTotals,
			LastYearTotals:    w.lastYearTotals,
		},
	}

	for _, item := range w.inventory.Items() {
		snap.Inventory = append(snap.Inventory, InventoryItemState{
			ProductID:       item.ProductID(),
			Quantity:        item.Quantity(),
			ReorderLevel:    item.ReorderLevel(),
			ReorderQuantity: item.ReorderQuantity(),
			UnitCost:        item.UnitCost(),
			LastRestocked:   item.LastRestocked(),
		})
	}
	for _, m := range w.inventory.Materials() {
		snap.RawMaterials = append(snap.RawMaterials, RawMaterialState{
			MaterialID:      m.MaterialID(),
			Name:            m.Name(),
			Quantity:        m.Quantity(),
			UnitCost:        m.UnitCost(),
			ReorderLevel:    m.ReorderLevel(),
			ReorderQuantity: m.ReorderQuantity(),
		})
	}
	for _, wo := range w.workOrders {
		snap.WorkOrders = append(snap.WorkOrders, WorkOrderState{
			ID:                wo.ID().String(),
			ProductID:         wo.ProductID(),
			Quantity:          wo.Quantity(),
			Status:            string(wo.Status()),
			Progress:          wo.Progress(),
			RequiredMaterials: wo.RequiredMaterials(),
			CreatedAt:         wo.CreatedAt(),
			StartedAt:         wo.StartedAt(),
			CompletedAt:       wo.CompletedAt(),
		})
	}
	for _, o := range w.salesOrders {
		snap.SalesOrders = append(snap.SalesOrders, SalesOrderState{
			ID:          o.ID().String(),
			CustomerID:  o.CustomerID(),
			Lines:       o.Lines(),
			Status:      string(o.Status()),
			Total:       o.Total(),
			OrderedAt:   o.OrderedAt(),
			ShippedAt:   o.ShippedAt(),
			DeliveredAt: o.DeliveredAt(),
		})
	}
	for _, e := range w.roster.All() {
		snap.Employees = append(snap.Employees, EmployeeState{
			ID:            e.ID().String(),
			Name:          e.Name(),
			Department:    string(e.Department()),
			MonthlySalary: e.MonthlySalary(),
			Performance:   e.Performance(),
			Satisfaction:  e.Satisfaction(),
			HiredAt:       e.HiredAt(),
		})
	}
	for _, e := range w.history.All() {
		snap.Events = append(snap.Events, e.Record())
	}

	return snap
}

// Restore replaces the whole world state with a snapshot.
// Everything is decoded before anything is assigned, so a bad snapshot leaves the world unchanged.
// The random source is reseeded from the snapshot seed and day.
func (w *World) Restore(snap *Snapshot) error {
	if snap == nil {
		return &ErrInvalidSnapshot{Reason: "snapshot is nil"}
	}
	if snap.Version != SnapshotVersion {
		return &ErrInvalidSnapshot{Reason: fmt.Sprintf("unsupported version %d", snap.Version)}
	}

	cal := calendar.New()
	if err := cal.Restore(snap.Calendar); err != nil {
		return &ErrInvalidSnapshot{Reason: err.Error()}
	}

	mkt := market.New()
	if err := mkt.Restore(snap.Market); err != nil {
		return &ErrInvalidSnapshot{Reason: err.Error()}
	}

	inv := inventory.New()
	for _, s := range snap.Inventory {
		if s.Quantity < 0 {
			return &ErrInvalidSnapshot{Reason: fmt.Sprintf("negative quantity for %s", s.ProductID)}
		}
		inv.PutItem(inventory.ReconstructItem(s.ProductID, s.Quantity, s.ReorderLevel, s.ReorderQuantity, s.UnitCost, s.LastRestocked))
	}
	for _, s := range snap.RawMaterials {
		if s.Quantity < 0 {
			return &ErrInvalidSnapshot{Reason: fmt.Sprintf("negative quantity for %s", s.MaterialID)}
		}
		inv.PutMaterial(inventory.ReconstructRawMaterial(s.MaterialID, s.Name, s.Quantity, s.UnitCost, s.ReorderLevel, s.ReorderQuantity))
	}

	workOrders := make([]*production.WorkOrder, 0, len(snap.WorkOrders))
	for _, s := range snap.WorkOrders {
		id, err := uuid.Parse(s.ID)
		if err != nil {
			return &ErrInvalidSnapshot{Reason: fmt.Sprintf("work order id %q: %v", s.ID, err)}
		}
		status, err := production.ParseWorkOrderStatus(s.Status)
		if err != nil {
			return &ErrInvalidSnapshot{Reason: err.Error()}
		}
		if s.Quantity <= 0 {
			return &ErrInvalidSnapshot{Reason: fmt.Sprintf("work order %s: quantity %d", s.ID, s.Quantity)}
		}
		if s.Progress < 0 || s.Progress > 100 {
			return &ErrInvalidSnapshot{Reason: fmt.Sprintf("work order %s: progress %d outside 0..100", s.ID, s.Progress)}
		}
		workOrders = append(workOrders, production.ReconstructWorkOrder(id, s.ProductID, s.Quantity, status, s.Progress,
			s.RequiredMaterials, s.CreatedAt, s.StartedAt, s.CompletedAt))
	}

	salesOrders := make([]*sales.SalesOrder, 0, len(snap.SalesOrders))
	for _, s := range snap.SalesOrders {
		id, err := uuid.Parse(s.ID)
		if err != nil {
			return &ErrInvalidSnapshot{Reason: fmt.Sprintf("sales order id %q: %v", s.ID, err)}
		}
		status, err := sales.ParseOrderStatus(s.Status)
		if err != nil {
			return &ErrInvalidSnapshot{Reason: err.Error()}
		}
		salesOrders = append(salesOrders, sales.ReconstructSalesOrder(id, s.CustomerID, s.Lines, status, s.Total,
			s.OrderedAt, s.ShippedAt, s.DeliveredAt))
	}

	employees := make([]*workforce.Employee, 0, len(snap.Employees))
	for _, s := range snap.Employees {
		id, err := uuid.Parse(s.ID)
		if err != nil {
			return &ErrInvalidSnapshot{Reason: fmt.Sprintf("employee id %q: %v", s.ID, err)}
		}
		dept, err := workforce.ParseDepartment(s.Department)
		if err != nil {
			return &ErrInvalidSnapshot{Reason: err.Error()}
		}
		employees = append(employees, workforce.ReconstructEmployee(id, s.Name, dept, s.MonthlySalary, s.Performance, s.Satisfaction, s.HiredAt))
	}

	history := make([]events.GameEvent, 0, len(snap.Events))
	for _, r := range snap.Events {
		history = append(history, events.FromRecord(r))
	}

	before := w.ledger.Balance()

	w.calendar = cal
	w.ledger.Restore(snap.Ledger)
	w.inventory = inv
	w.workOrders = workOrders
	w.salesOrders = salesOrders
	w.roster.Replace(employees)
	w.market = mkt
	w.metrics.CustomerSatisfaction = snap.Metrics.CustomerSatisfaction
	w.metrics.MarketShare = snap.Metrics.MarketShare
	w.metrics.ProductionEfficiency = snap.Metrics.ProductionEfficiency
	w.metrics.QualityScore = snap.Metrics.QualityScore
	w.weekActivity = snap.Periods.Week
	w.monthActivity = snap.Periods.Month
	w.lastWeekActivity = snap.Periods.LastWeek
	w.lastMonthActivity = snap.Periods.LastMonth
	w.lastMonthTotals = snap.Periods.LastMonthTotals
	w.lastQuarterTotals = snap.Periods.LastQuarterTotals
	w.lastYearTotals = snap.Periods.LastYearTotals
	w.history.Replace(history)
	w.cfg.Seed = snap.Seed
	w.rng = rand.New(rand.NewSource(snap.Seed + int64(snap.Calendar.Day)))
	w.refreshValuation()

	w.checkCashAlert(before, w.ledger.Balance())
	return nil
}
