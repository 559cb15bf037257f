package queries

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// ListOrdersQuery returns retained sales and work orders.
// ActiveOnly drops shipped, delivered, completed and cancelled orders.
type ListOrdersQuery struct {
	ActiveOnly bool
}

// SalesOrderView is a read model of a sales order
type SalesOrderView struct {
	ID         string
	CustomerID string
	Status     string
	Units      int
	Total      decimal.Decimal
	OrderedDay string
}

// WorkOrderView is a read model of a work order
type WorkOrderView struct {
	ID        string
	ProductID string
	Quantity  int
	Status    string
	Progress  int
}

// ListOrdersResponse holds both order books in creation order
type ListOrdersResponse struct {
	SalesOrders []SalesOrderView
	WorkOrders  []WorkOrderView
}

// ListOrdersHandler handles ListOrdersQuery
type ListOrdersHandler struct {
	engine *simulation.Engine
}

// NewListOrdersHandler creates a new ListOrdersHandler
func NewListOrdersHandler(engine *simulation.Engine) *ListOrdersHandler {
	return &ListOrdersHandler{engine: engine}
}

// Handle copies the order books between ticks
func (h *ListOrdersHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListOrdersQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListOrdersQuery")
	}

	resp := &ListOrdersResponse{}
	err := h.engine.Exec(func(w *world.World) error {
		salesOrders := w.SalesOrders()
		workOrders := w.WorkOrders()
		if query.ActiveOnly {
			salesOrders = w.ActiveSalesOrders()
			workOrders = w.ActiveWorkOrders()
		}

		for _, o := range salesOrders {
			units := 0
			for _, l := range o.Lines() {
				units += l.Quantity
			}
			resp.SalesOrders = append(resp.SalesOrders, SalesOrderView{
				ID:         o.ID().String(),
				CustomerID: o.CustomerID(),
				Status:     string(o.Status()),
				Units:      units,
				Total:      o.Total(),
				OrderedDay: o.OrderedAt().Format("2006-01-02"),
			})
		}
		for _, wo := range workOrders {
			resp.WorkOrders = append(resp.WorkOrders, WorkOrderView{
				ID:        wo.ID().String(),
				ProductID: wo.ProductID(),
				Quantity:  wo.Quantity(),
				Status:    string(wo.Status()),
				Progress:  wo.Progress(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
