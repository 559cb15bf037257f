package tick

import (
	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/domain/ledger"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// LogisticsProcessor reports shipping and delivery volume
type LogisticsProcessor struct {
	BaseProcessor
	logger common.Logger
}

func NewLogisticsProcessor(logger common.Logger) *LogisticsProcessor {
	return &LogisticsProcessor{logger: orNoOp(logger)}
}

func (p *LogisticsProcessor) Name() string { return "logistics" }

func (p *LogisticsProcessor) OnWeekTick(w *world.World) error {
	if w == nil {
		return errNoWorld
	}
	activity := w.LastWeekActivity()
	p.logger.Log(common.LevelInfo, "Weekly shipments", map[string]interface{}{
		"orders_shipped":  activity.OrdersShipped,
		"shipped_revenue": ledger.FormatMoney(activity.ShippedRevenue),
		"open_orders":     len(w.ActiveSalesOrders()),
	})
	return nil
}

func (p *LogisticsProcessor) OnMonthTick(w *world.World) error {
	if w == nil {
		return errNoWorld
	}
	activity := w.LastMonthActivity()
	p.logger.Log(common.LevelInfo, "Monthly deliveries", map[string]interface{}{
		"orders_delivered": activity.OrdersDelivered,
		"orders_shipped":   activity.OrdersShipped,
	})
	return nil
}
