package world

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/ledger"
	"github.com/andrescamacho/headquartz-go/internal/domain/production"
	"github.com/andrescamacho/headquartz-go/internal/domain/sales"
)

// CreateSalesOrder registers a new pending order dated today
func (w *World) CreateSalesOrder(customerID string, lines []sales.OrderLine) (*sales.SalesOrder, error) {
	order, err := sales.NewSalesOrder(customerID, lines, w.calendar.Date())
	if err != nil {
		return nil, fmt.Errorf("create sales order: %w", err)
	}
	w.salesOrders = append(w.salesOrders, order)
	w.weekActivity.OrdersCreated++
	w.monthActivity.OrdersCreated++

	w.emitf(events.KindNewSalesOrder, fmt.Sprintf("New order from %s - %s", customerID, ledger.FormatMoney(order.Total())))
	return order, nil
}

// CreateWorkOrder registers a new production run.
// When the bill of materials is not on hand the order starts in WaitingMaterials
// and a MaterialShortage event is emitted.
func (w *World) CreateWorkOrder(productID string, quantity int) (*production.WorkOrder, error) {
	wo, err := production.NewWorkOrder(productID, quantity, w.calendar.Date())
	if err != nil {
		return nil, fmt.Errorf("create work order: %w", err)
	}

	if !w.inventory.HasMaterials(wo.RequiredMaterials()) {
		if err := wo.AwaitMaterials(); err != nil {
			return nil, fmt.Errorf("create work order: %w", err)
		}
	}
	w.workOrders = append(w.workOrders, wo)

	w.emitf(events.KindWorkOrderCreated, fmt.Sprintf("Work order %s created - %d x %s", shortID(wo.ID()), quantity, productID))
	if wo.Status() == production.StatusWaitingMaterials {
		w.emitf(events.KindMaterialShortage, fmt.Sprintf("Work order %s waiting for materials", shortID(wo.ID())))
	}
	return wo, nil
}

// CancelSalesOrder cancels an unshipped order
func (w *World) CancelSalesOrder(id uuid.UUID) error {
	order := w.findSalesOrder(id)
	if order == nil {
		return &ErrOrderNotFound{OrderType: "sales order", ID: id.String()}
	}
	if err := order.Cancel(); err != nil {
		return fmt.Errorf("cancel sales order: %w", err)
	}
	w.emitf(events.KindOrderCancelled, fmt.Sprintf("Order %s from %s cancelled", shortID(id), order.CustomerID()))
	return nil
}

// CancelWorkOrder cancels an unfinished work order. Consumed materials are not returned.
func (w *World) CancelWorkOrder(id uuid.UUID) error {
	wo := w.findWorkOrder(id)
	if wo == nil {
		return &ErrOrderNotFound{OrderType: "work order", ID: id.String()}
	}
	if err := wo.Cancel(); err != nil {
		return fmt.Errorf("cancel work order: %w", err)
	}
	w.emitf(events.KindWorkOrderCancelled, fmt.Sprintf("Work order %s cancelled", shortID(id)))
	return nil
}

// FindSalesOrder looks up a retained sales order
func (w *World) FindSalesOrder(id uuid.UUID) (*sales.SalesOrder, bool) {
	o := w.findSalesOrder(id)
	return o, o != nil
}

// FindWorkOrder looks up a retained work order
func (w *World) FindWorkOrder(id uuid.UUID) (*production.WorkOrder, bool) {
	wo := w.findWorkOrder(id)
	return wo, wo != nil
}

func (w *World) findSalesOrder(id uuid.UUID) *sales.SalesOrder {
	for _, o := range w.salesOrders {
		if o.ID() == id {
			return o
		}
	}
	return nil
}

func (w *World) findWorkOrder(id uuid.UUID) *production.WorkOrder {
	for _, wo := range w.workOrders {
		if wo.ID() == id {
			return wo
		}
	}
	return nil
}

// processShipments ships ready orders in full, advances order statuses and
// records deliveries. Stock is never partially deducted.
func (w *World) processShipments() {
	today := w.calendar.Date()

	for _, order := range w.salesOrders {
		if order.Status() != sales.StatusReadyToShip {
			continue
		}
		demand := order.Demand()
		if !w.inventory.Covers(demand) {
			continue
		}
		if err := w.inventory.DebitAll(demand); err != nil {
			continue
		}
		if err := order.Ship(today); err != nil {
			continue
		}
		w.earn(ledger.CategorySales, order.Total(), fmt.Sprintf("Sales order %s", shortID(order.ID())))
		w.weekActivity.OrdersShipped++
		w.monthActivity.OrdersShipped++
		w.weekActivity.ShippedRevenue = w.weekActivity.ShippedRevenue.Add(order.Total())
		w.monthActivity.ShippedRevenue = w.monthActivity.ShippedRevenue.Add(order.Total())
		w.metrics.CustomerSatisfaction = clampInt(w.metrics.CustomerSatisfaction+1, 0, 100)
		w.emitf(events.KindOrderShipped, fmt.Sprintf("Order %s shipped - %s", shortID(order.ID()), ledger.FormatMoney(order.Total())))
	}

	for _, order := range w.salesOrders {
		switch order.Status() {
		case sales.StatusPending:
			_ = order.Confirm()
		case sales.StatusConfirmed:
			if w.inventory.Covers(order.Demand()) {
				_ = order.MarkReadyToShip()
				continue
			}
			if err := order.MarkInProduction(); err == nil {
				w.scheduleProductionFor(order)
			}
		case sales.StatusInProduction:
			if w.inventory.Covers(order.Demand()) {
				_ = order.MarkReadyToShip()
			}
		case sales.StatusShipped:
			shipped := order.ShippedAt()
			if shipped != nil && !today.Before(shipped.AddDate(0, 0, w.cfg.DeliveryDays)) {
				if err := order.Deliver(today); err == nil {
					w.weekActivity.OrdersDelivered++
					w.monthActivity.OrdersDelivered++
					w.emitf(events.KindOrderDelivered, fmt.Sprintf("Order %s delivered to %s", shortID(order.ID()), order.CustomerID()))
				}
			}
		}
	}
}

// scheduleProductionFor creates work orders covering the stock shortfall of an order
func (w *World) scheduleProductionFor(order *sales.SalesOrder) {
	demand := order.Demand()
	products := make([]string, 0, len(demand))
	for productID := range demand {
		products = append(products, productID)
	}
	sort.Strings(products)

	for _, productID := range products {
		shortfall := demand[productID] - w.inventory.Quantity(productID)
		if shortfall > 0 {
			_, _ = w.CreateWorkOrder(productID, shortfall)
		}
	}
}

// processNewOrders rolls for an incoming customer order
func (w *World) processNewOrders() {
	chance := w.cfg.BaseOrderProbability * w.market.Demand() * (float64(w.metrics.CustomerSatisfaction) / 100.0)
	if w.rng.Float64() < chance {
		_, _ = w.generateSalesOrder()
	}
}

// generateSalesOrder creates a random single-line order priced off the market
func (w *World) generateSalesOrder() (*sales.SalesOrder, error) {
	products := w.market.Products()
	if len(products) == 0 {
		_ = w.market.TrackProduct("P-001", 1.0)
		_ = w.market.TrackProduct("P-002", 1.2)
		products = w.market.Products()
	}

	productID := products[w.rng.Intn(len(products))]
	quantity := 10 + w.rng.Intn(90)
	price := w.cfg.BaseUnitPrice.Mul(decimal.NewFromFloat(w.market.CompetitorIndex())).Round(2)
	customer := fmt.Sprintf("CUST-%d", 1000+w.rng.Intn(9000))

	return w.CreateSalesOrder(customer, []sales.OrderLine{{ProductID: productID, Quantity: quantity, UnitPrice: price}})
}

// archiveClosedOrders drops completed and cancelled work orders and
// delivered and cancelled sales orders after a month closes
func (w *World) archiveClosedOrders() {
	keptWork := w.workOrders[:0]
	for _, wo := range w.workOrders {
		if wo.IsActive() {
			keptWork = append(keptWork, wo)
		}
	}
	w.workOrders = keptWork

	keptSales := w.salesOrders[:0]
	for _, o := range w.salesOrders {
		if o.Status() != sales.StatusDelivered && o.Status() != sales.StatusCancelled {
			keptSales = append(keptSales, o)
		}
	}
	w.salesOrders = keptSales
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
