package world

import (
	"math/rand"
	"time"

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

// Config holds the tunable business constants of a world
type Config struct {
	Seed                   int64
	OpeningBalance         decimal.Decimal
	CriticalCashThreshold  decimal.Decimal
	CautionCashThreshold   decimal.Decimal
	RandomEventProbability float64
	BaseOrderProbability   float64
	DeliveryDays           int
	HistoryCapacity        int
	StandardUnitCost       decimal.Decimal
	BaseUnitPrice          decimal.Decimal
}

// DefaultConfig returns the stock business constants
func DefaultConfig() Config {
	return Config{
		Seed:                   1,
		OpeningBalance:         decimal.NewFromInt(1_000_000),
		CriticalCashThreshold:  decimal.NewFromInt(100_000),
		CautionCashThreshold:   decimal.NewFromInt(250_000),
		RandomEventProbability: 0.05,
		BaseOrderProbability:   0.3,
		DeliveryDays:           2,
		HistoryCapacity:        events.DefaultHistoryCapacity,
		StandardUnitCost:       decimal.NewFromInt(50),
		BaseUnitPrice:          decimal.NewFromInt(100),
	}
}

// Activity counts operational outcomes within a reporting period
type Activity struct {
	WorkOrdersCompleted int             `json:"work_orders_completed"`
	UnitsProduced       int             `json:"units_produced"`
	OrdersCreated       int             `json:"orders_created"`
	OrdersShipped       int             `json:"orders_shipped"`
	OrdersDelivered     int             `json:"orders_delivered"`
	ShippedRevenue      decimal.Decimal `json:"shipped_revenue"`
}

// Metrics are company-level indicators recomputed daily
type Metrics struct {
	CustomerSatisfaction int
	MarketShare          float64
	ProductionEfficiency float64
	QualityScore         float64
	TotalAssets          decimal.Decimal
	CompanyValue         decimal.Decimal
}

// World is the single mutable aggregate of the simulation.
//
// It owns every entity, the seeded random source and the event bus. It has no
// internal locking: the simulation engine serializes all access through its
// tick lock.
type World struct {
	cfg Config
	rng *rand.Rand

	calendar    *calendar.Calendar
	ledger      *ledger.Ledger
	inventory   *inventory.Inventory
	workOrders  []*production.WorkOrder
	salesOrders []*sales.SalesOrder
	roster      *workforce.Roster
	market      *market.State
	metrics     Metrics

	weekActivity      Activity
	monthActivity     Activity
	lastWeekActivity  Activity
	lastMonthActivity Activity
	lastMonthTotals   ledger.Totals
	lastQuarterTotals ledger.Totals
	lastYearTotals    ledger.Totals

	bus     *events.Bus
	history *events.History
}

// New constructs a world at the epoch with the configured opening balance
func New(cfg Config) *World {
	if cfg.HistoryCapacity <= 0 {
		cfg.HistoryCapacity = events.DefaultHistoryCapacity
	}
	if cfg.DeliveryDays <= 0 {
		cfg.DeliveryDays = 2
	}
	w := &World{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		calendar:  calendar.New(),
		ledger:    ledger.NewLedger(cfg.OpeningBalance),
		inventory: inventory.New(),
		roster:    workforce.NewRoster(),
		market:    market.New(),
		bus:       events.NewBus(),
		history:   events.NewHistory(cfg.HistoryCapacity),
	}
	w.metrics = Metrics{
		CustomerSatisfaction: 75,
		MarketShare:          15,
		ProductionEfficiency: 100,
		QualityScore:         95,
	}
	w.refreshValuation()
	return w
}

// Accessors

func (w *World) Config() Config                     { return w.cfg }
func (w *World) Calendar() *calendar.Calendar       { return w.calendar }
func (w *World) Ledger() *ledger.Ledger             { return w.ledger }
func (w *World) Inventory() *inventory.Inventory    { return w.inventory }
func (w *World) Roster() *workforce.Roster          { return w.roster }
func (w *World) Market() *market.State              { return w.market }
func (w *World) Metrics() Metrics                   { return w.metrics }
func (w *World) Events() *events.Bus                { return w.bus }
func (w *World) Now() time.Time                     { return w.calendar.Date() }
func (w *World) CashBalance() decimal.Decimal       { return w.ledger.Balance() }
func (w *World) LastWeekActivity() Activity         { return w.lastWeekActivity }
func (w *World) LastMonthActivity() Activity        { return w.lastMonthActivity }
func (w *World) LastClosedMonth() ledger.Totals     { return w.lastMonthTotals }
func (w *World) LastClosedQuarter() ledger.Totals   { return w.lastQuarterTotals }
func (w *World) LastClosedYear() ledger.Totals      { return w.lastYearTotals }

// WorkOrders returns all retained work orders in creation order
func (w *World) WorkOrders() []*production.WorkOrder {
	out := make([]*production.WorkOrder, len(w.workOrders))
	copy(out, w.workOrders)
	return out
}

// SalesOrders returns all retained sales orders in creation order
func (w *World) SalesOrders() []*sales.SalesOrder {
	out := make([]*sales.SalesOrder, len(w.salesOrders))
	copy(out, w.salesOrders)
	return out
}

// ActiveWorkOrders returns work orders that are neither completed nor cancelled
func (w *World) ActiveWorkOrders() []*production.WorkOrder {
	var out []*production.WorkOrder
	for _, wo := range w.workOrders {
		if wo.IsActive() {
			out = append(out, wo)
		}
	}
	return out
}

// ActiveSalesOrders returns sales orders not yet shipped or cancelled
func (w *World) ActiveSalesOrders() []*sales.SalesOrder {
	var out []*sales.SalesOrder
	for _, o := range w.salesOrders {
		if o.IsActive() {
			out = append(out, o)
		}
	}
	return out
}

// RecentEvents returns up to n of the newest retained events, oldest first
func (w *World) RecentEvents(n int) []events.GameEvent {
	return w.history.Recent(n)
}

// emit records an event in history and publishes it on the bus
func (w *World) emit(e events.GameEvent) {
	w.history.Add(e)
	w.bus.Publish(e)
}

func (w *World) emitf(kind events.Kind, message string) {
	w.emit(events.New(kind, message, w.calendar.Date(), w.calendar.Day()))
}

func (w *World) emitWithSeverity(kind events.Kind, severity events.Severity, message string) {
	w.emit(events.NewWithSeverity(kind, severity, message, w.calendar.Date(), w.calendar.Day()))
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
