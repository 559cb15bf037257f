package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	controlQueries "github.com/andrescamacho/headquartz-go/internal/application/control/queries"
	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
)

// CompanyMetricsCollector polls company statistics through the mediator and
// exposes them as gauges
type CompanyMetricsCollector struct {
	// Dependencies
	mediator mediator.Mediator
	logger   common.Logger
	interval time.Duration

	// Finance
	cashBalance     prometheus.Gauge
	monthlyRevenue  prometheus.Gauge
	monthlyExpenses prometheus.Gauge
	companyValue    prometheus.Gauge

	// Operations
	inventoryUnits *prometheus.GaugeVec
	activeOrders   *prometheus.GaugeVec
	employees      prometheus.Gauge

	// Indicators
	indicators *prometheus.GaugeVec

	// Lifecycle
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewCompanyMetricsCollector creates a new company metrics collector.
// A non-positive interval defaults to five seconds.
func NewCompanyMetricsCollector(m mediator.Mediator, interval time.Duration, logger common.Logger) *CompanyMetricsCollector {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if logger == nil {
		logger = common.NoOpLogger{}
	}

	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: companySubsystem,
			Name:      name,
			Help:      help,
		})
	}

	return &CompanyMetricsCollector{
		mediator: m,
		logger:   logger,
		interval: interval,

		cashBalance:     gauge("cash_balance", "Current cash balance"),
		monthlyRevenue:  gauge("monthly_revenue", "Revenue booked in the running month"),
		monthlyExpenses: gauge("monthly_expenses", "Expenses booked in the running month"),
		companyValue:    gauge("value", "Estimated company value"),
		employees:       gauge("employees", "Current headcount"),

		inventoryUnits: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: companySubsystem,
				Name:      "inventory",
				Help:      "Inventory size by measure",
			},
			[]string{"measure"},
		),
		activeOrders: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: companySubsystem,
				Name:      "active_orders",
				Help:      "Open orders by kind",
			},
			[]string{"kind"},
		),
		indicators: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: companySubsystem,
				Name:      "indicator",
				Help:      "Company indicators such as satisfaction and market share",
			},
			[]string{"name"},
		),
	}
}

// Register registers all company metrics with the Prometheus registry
func (c *CompanyMetricsCollector) Register() error {
	return registerAll(
		c.cashBalance,
		c.monthlyRevenue,
		c.monthlyExpenses,
		c.companyValue,
		c.employees,
		c.inventoryUnits,
		c.activeOrders,
		c.indicators,
	)
}

// Start begins polling in the background
func (c *CompanyMetricsCollector) Start(ctx context.Context) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.poll()
}

// Stop gracefully stops polling
func (c *CompanyMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *CompanyMetricsCollector) poll() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Do initial poll immediately
	c.Update(c.ctx)

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.Update(c.ctx)
		}
	}
}

// Update fetches statistics once and refreshes every gauge
func (c *CompanyMetricsCollector) Update(ctx context.Context) {
	if c.mediator == nil {
		return
	}

	response, err := c.mediator.Send(ctx, &controlQueries.GetStatisticsQuery{})
	if err != nil {
		c.logger.Log(common.LevelWarning, "Failed to fetch statistics", map[string]interface{}{"error": err.Error()})
		return
	}
	stats, ok := response.(*controlQueries.GetStatisticsResponse)
	if !ok {
		c.logger.Log(common.LevelWarning, fmt.Sprintf("Unexpected response type for statistics query: %T", response), nil)
		return
	}

	w := stats.Statistics.World
	c.cashBalance.Set(w.CashBalance.InexactFloat64())
	c.monthlyRevenue.Set(w.MonthlyRevenue.InexactFloat64())
	c.monthlyExpenses.Set(w.MonthlyExpenses.InexactFloat64())
	c.companyValue.Set(w.CompanyValue.InexactFloat64())
	c.employees.Set(float64(w.Employees))

	c.inventoryUnits.WithLabelValues("items").Set(float64(w.InventoryItems))
	c.inventoryUnits.WithLabelValues("units").Set(float64(w.InventoryUnits))

	c.activeOrders.WithLabelValues("sales").Set(float64(w.ActiveSalesOrders))
	c.activeOrders.WithLabelValues("work").Set(float64(w.ActiveWorkOrders))

	c.indicators.WithLabelValues("customer_satisfaction").Set(float64(w.CustomerSatisfaction))
	c.indicators.WithLabelValues("employee_satisfaction").Set(w.EmployeeSatisfaction)
	c.indicators.WithLabelValues("market_share").Set(w.MarketShare)
	c.indicators.WithLabelValues("production_efficiency").Set(w.ProductionEfficiency)
	c.indicators.WithLabelValues("quality_score").Set(w.QualityScore)
	c.indicators.WithLabelValues("demand_multiplier").Set(w.DemandMultiplier)
}
