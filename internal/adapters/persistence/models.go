package persistence

import (
	"time"
)

// SnapshotModel is the header row of a saved world, one per slot.
// Money columns hold decimal strings so no precision is lost across drivers.
type SnapshotModel struct {
	Slot    string    `gorm:"column:slot;primaryKey;not null"`
	Version int       `gorm:"column:version;not null"`
	Seed    int64     `gorm:"column:seed;not null"`
	SavedAt time.Time `gorm:"column:saved_at;not null"`

	CalendarDate time.Time `gorm:"column:calendar_date;not null"`
	Day          int       `gorm:"column:day;not null"`
	Week         int       `gorm:"column:week;not null"`
	Month        int       `gorm:"column:month;not null"`
	Quarter      int       `gorm:"column:quarter;not null"`
	Year         int       `gorm:"column:year;not null"`

	Balance           string `gorm:"column:balance;not null"`
	MonthlyRevenue    string `gorm:"column:monthly_revenue;not null"`
	MonthlyExpenses   string `gorm:"column:monthly_expenses;not null"`
	QuarterlyRevenue  string `gorm:"column:quarterly_revenue;not null"`
	QuarterlyExpenses string `gorm:"column:quarterly_expenses;not null"`
	YearlyRevenue     string `gorm:"column:yearly_revenue;not null"`
	YearlyExpenses    string `gorm:"column:yearly_expenses;not null"`
	LifetimeRevenue   string `gorm:"column:lifetime_revenue;not null"`
	LifetimeExpenses  string `gorm:"column:lifetime_expenses;not null"`

	MarketDemand    float64 `gorm:"column:market_demand;not null"`
	CompetitorIndex float64 `gorm:"column:competitor_index;not null"`
	ProductDemand   string  `gorm:"column:product_demand;type:text"` // JSON object

	CustomerSatisfaction int     `gorm:"column:customer_satisfaction;not null"`
	MarketShare          float64 `gorm:"column:market_share;not null"`
	ProductionEfficiency float64 `gorm:"column:production_efficiency;not null"`
	QualityScore         float64 `gorm:"column:quality_score;not null"`

	Periods string `gorm:"column:periods;type:text"` // JSON world.PeriodState
}

func (SnapshotModel) TableName() string {
	return "snapshots"
}

type SnapshotInventoryItemModel struct {
	ID              int       `gorm:"column:id;primaryKey;autoIncrement"`
	Slot            string    `gorm:"column:slot;not null;index"`
	Position        int       `gorm:"column:position;not null"`
	ProductID       string    `gorm:"column:product_id;not null"`
	Quantity        int       `gorm:"column:quantity;not null"`
	ReorderLevel    int       `gorm:"column:reorder_level;not null"`
	ReorderQuantity int       `gorm:"column:reorder_quantity;not null"`
	UnitCost        string    `gorm:"column:unit_cost;not null"`
	LastRestocked   time.Time `gorm:"column:last_restocked"`
}

func (SnapshotInventoryItemModel) TableName() string {
	return "snapshot_inventory_items"
}

type SnapshotRawMaterialModel struct {
	ID              int    `gorm:"column:id;primaryKey;autoIncrement"`
	Slot            string `gorm:"column:slot;not null;index"`
	Position        int    `gorm:"column:position;not null"`
	MaterialID      string `gorm:"column:material_id;not null"`
	Name            string `gorm:"column:name;not null"`
	Quantity        int    `gorm:"column:quantity;not null"`
	UnitCost        string `gorm:"column:unit_cost;not null"`
	ReorderLevel    int    `gorm:"column:reorder_level;not null"`
	ReorderQuantity int    `gorm:"column:reorder_quantity;not null"`
}

func (SnapshotRawMaterialModel) TableName() string {
	return "snapshot_raw_materials"
}

type SnapshotWorkOrderModel struct {
	ID                int        `gorm:"column:id;primaryKey;autoIncrement"`
	Slot              string     `gorm:"column:slot;not null;index"`
	Position          int        `gorm:"column:position;not null"`
	WorkOrderID       string     `gorm:"column:work_order_id;not null"`
	ProductID         string     `gorm:"column:product_id;not null"`
	Quantity          int        `gorm:"column:quantity;not null"`
	Status            string     `gorm:"column:status;not null"`
	Progress          int        `gorm:"column:progress;not null"`
	RequiredMaterials string     `gorm:"column:required_materials;type:text"` // JSON object
	OpenedAt          time.Time  `gorm:"column:opened_at;not null"`
	StartedAt         *time.Time `gorm:"column:started_at"`
	CompletedAt       *time.Time `gorm:"column:completed_at"`
}

func (SnapshotWorkOrderModel) TableName() string {
	return "snapshot_work_orders"
}

type SnapshotSalesOrderModel struct {
	ID          int        `gorm:"column:id;primaryKey;autoIncrement"`
	Slot        string     `gorm:"column:slot;not null;index"`
	Position    int        `gorm:"column:position;not null"`
	OrderID     string     `gorm:"column:order_id;not null"`
	CustomerID  string     `gorm:"column:customer_id;not null"`
	Lines       string     `gorm:"column:lines;type:text"` // JSON array
	Status      string     `gorm:"column:status;not null"`
	Total       string     `gorm:"column:total;not null"`
	OrderedAt   time.Time  `gorm:"column:ordered_at;not null"`
	ShippedAt   *time.Time `gorm:"column:shipped_at"`
	DeliveredAt *time.Time `gorm:"column:delivered_at"`
}

func (SnapshotSalesOrderModel) TableName() string {
	return "snapshot_sales_orders"
}

type SnapshotEmployeeModel struct {
	ID            int       `gorm:"column:id;primaryKey;autoIncrement"`
	Slot          string    `gorm:"column:slot;not null;index"`
	Position      int       `gorm:"column:position;not null"`
	EmployeeID    string    `gorm:"column:employee_id;not null"`
	Name          string    `gorm:"column:name;not null"`
	Department    string    `gorm:"column:department;not null"`
	MonthlySalary string    `gorm:"column:monthly_salary;not null"`
	Performance   int       `gorm:"column:performance;not null"`
	Satisfaction  int       `gorm:"column:satisfaction;not null"`
	HiredAt       time.Time `gorm:"column:hired_at;not null"`
}

func (SnapshotEmployeeModel) TableName() string {
	return "snapshot_employees"
}

// SnapshotEventModel holds the retained event history of a saved world
type SnapshotEventModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Slot      string    `gorm:"column:slot;not null;index"`
	Position  int       `gorm:"column:position;not null"`
	Kind      string    `gorm:"column:kind;not null"`
	Title     string    `gorm:"column:title"`
	Color     string    `gorm:"column:color"`
	Message   string    `gorm:"column:message;type:text"`
	Severity  string    `gorm:"column:severity;not null"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	Day       int       `gorm:"column:day;not null"`
}

func (SnapshotEventModel) TableName() string {
	return "snapshot_events"
}

// GameEventModel is the append-only journal of every published event
type GameEventModel struct {
	ID         int       `gorm:"column:id;primaryKey;autoIncrement"`
	Kind       string    `gorm:"column:kind;not null;index"`
	Title      string    `gorm:"column:title"`
	Message    string    `gorm:"column:message;type:text"`
	Severity   string    `gorm:"column:severity;not null"`
	Day        int       `gorm:"column:day;not null;index"`
	Timestamp  time.Time `gorm:"column:timestamp;not null"`
	RecordedAt time.Time `gorm:"column:recorded_at;not null"`
}

func (GameEventModel) TableName() string {
	return "game_events"
}

// EngineLogModel represents an engine or processor log line
type EngineLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Component string    `gorm:"column:component;not null;index"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index"`
	Level     string    `gorm:"column:level;not null"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Metadata  string    `gorm:"column:metadata;type:text"` // JSON
}

func (EngineLogModel) TableName() string {
	return "engine_logs"
}
