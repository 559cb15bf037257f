package world

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statistics is a read-only summary of the world for presentation
type Statistics struct {
	Date                 time.Time       `json:"date"`
	Day                  int             `json:"day"`
	Week                 int             `json:"week"`
	Month                int             `json:"month"`
	Quarter              int             `json:"quarter"`
	Year                 int             `json:"year"`
	CashBalance          decimal.Decimal `json:"cash_balance"`
	MonthlyRevenue       decimal.Decimal `json:"monthly_revenue"`
	MonthlyExpenses      decimal.Decimal `json:"monthly_expenses"`
	InventoryItems       int             `json:"inventory_items"`
	InventoryUnits       int             `json:"inventory_units"`
	ActiveSalesOrders    int             `json:"active_sales_orders"`
	ActiveWorkOrders     int             `json:"active_work_orders"`
	Employees            int             `json:"employees"`
	CustomerSatisfaction int             `json:"customer_satisfaction"`
	EmployeeSatisfaction float64         `json:"employee_satisfaction"`
	MarketShare          float64         `json:"market_share"`
	ProductionEfficiency float64         `json:"production_efficiency"`
	QualityScore         float64         `json:"quality_score"`
	DemandMultiplier     float64         `json:"demand_multiplier"`
	CompanyValue         decimal.Decimal `json:"company_value"`
}

// Statistics captures the current summary
func (w *World) Statistics() Statistics {
	monthly := w.ledger.Monthly()
	return Statistics{
		Date:                 w.calendar.Date(),
		Day:                  w.calendar.Day(),
		Week:                 w.calendar.Week(),
		Month:                w.calendar.Month(),
		Quarter:              w.calendar.Quarter(),
		Year:                 w.calendar.Year(),
		CashBalance:          w.ledger.Balance(),
		MonthlyRevenue:       monthly.Revenue,
		MonthlyExpenses:      monthly.Expenses,
		InventoryItems:       w.inventory.ItemCount(),
		InventoryUnits:       w.inventory.TotalUnits(),
		ActiveSalesOrders:    len(w.ActiveSalesOrders()),
		ActiveWorkOrders:     len(w.ActiveWorkOrders()),
		Employees:            w.roster.Count(),
		CustomerSatisfaction: w.metrics.CustomerSatisfaction,
		EmployeeSatisfaction: w.roster.AverageSatisfaction(),
		MarketShare:          w.metrics.MarketShare,
		ProductionEfficiency: w.metrics.ProductionEfficiency,
		QualityScore:         w.metrics.QualityScore,
		DemandMultiplier:     w.market.Demand(),
		CompanyValue:         w.metrics.CompanyValue,
	}
}
