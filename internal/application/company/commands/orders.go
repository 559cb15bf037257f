package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/domain/sales"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// OrderLineInput is one requested product line
type OrderLineInput struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateSalesOrderCommand places a customer order
type CreateSalesOrderCommand struct {
	CustomerID string
	Lines      []OrderLineInput
}

// OrderResponse identifies an order and its status after the command
type OrderResponse struct {
	OrderID string
	Status  string
	Total   decimal.Decimal
}

// CreateSalesOrderHandler handles CreateSalesOrderCommand
type CreateSalesOrderHandler struct {
	engine *simulation.Engine
}

// NewCreateSalesOrderHandler creates a new CreateSalesOrderHandler
func NewCreateSalesOrderHandler(engine *simulation.Engine) *CreateSalesOrderHandler {
	return &CreateSalesOrderHandler{engine: engine}
}

// Handle creates the order between ticks
func (h *CreateSalesOrderHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CreateSalesOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreateSalesOrderCommand")
	}

	lines := make([]sales.OrderLine, len(cmd.Lines))
	for i, l := range cmd.Lines {
		lines[i] = sales.OrderLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}

	var resp *OrderResponse
	err := h.engine.Exec(func(w *world.World) error {
		order, err := w.CreateSalesOrder(cmd.CustomerID, lines)
		if err != nil {
			return err
		}
		resp = &OrderResponse{OrderID: order.ID().String(), Status: string(order.Status()), Total: order.Total()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CancelSalesOrderCommand cancels a sales order that has not shipped
type CancelSalesOrderCommand struct {
	OrderID string
}

// CancelSalesOrderHandler handles CancelSalesOrderCommand
type CancelSalesOrderHandler struct {
	engine *simulation.Engine
}

// NewCancelSalesOrderHandler creates a new CancelSalesOrderHandler
func NewCancelSalesOrderHandler(engine *simulation.Engine) *CancelSalesOrderHandler {
	return &CancelSalesOrderHandler{engine: engine}
}

// Handle cancels the order between ticks
func (h *CancelSalesOrderHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CancelSalesOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CancelSalesOrderCommand")
	}
	id, err := uuid.Parse(cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order id %q: %w", cmd.OrderID, err)
	}

	var resp *OrderResponse
	err = h.engine.Exec(func(w *world.World) error {
		if err := w.CancelSalesOrder(id); err != nil {
			return err
		}
		order, _ := w.FindSalesOrder(id)
		resp = &OrderResponse{OrderID: cmd.OrderID, Status: string(order.Status()), Total: order.Total()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateWorkOrderCommand schedules production of a product
type CreateWorkOrderCommand struct {
	ProductID string
	Quantity  int
}

// CreateWorkOrderHandler handles CreateWorkOrderCommand
type CreateWorkOrderHandler struct {
	engine *simulation.Engine
}

// NewCreateWorkOrderHandler creates a new CreateWorkOrderHandler
func NewCreateWorkOrderHandler(engine *simulation.Engine) *CreateWorkOrderHandler {
	return &CreateWorkOrderHandler{engine: engine}
}

// Handle creates the work order between ticks
func (h *CreateWorkOrderHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CreateWorkOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreateWorkOrderCommand")
	}

	var resp *OrderResponse
	err := h.engine.Exec(func(w *world.World) error {
		wo, err := w.CreateWorkOrder(cmd.ProductID, cmd.Quantity)
		if err != nil {
			return err
		}
		resp = &OrderResponse{OrderID: wo.ID().String(), Status: string(wo.Status())}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CancelWorkOrderCommand cancels an active work order
type CancelWorkOrderCommand struct {
	WorkOrderID string
}

// CancelWorkOrderHandler handles CancelWorkOrderCommand
type CancelWorkOrderHandler struct {
	engine *simulation.Engine
}

// NewCancelWorkOrderHandler creates a new CancelWorkOrderHandler
func NewCancelWorkOrderHandler(engine *simulation.Engine) *CancelWorkOrderHandler {
	return &CancelWorkOrderHandler{engine: engine}
}

// Handle cancels the work order between ticks
func (h *CancelWorkOrderHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CancelWorkOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CancelWorkOrderCommand")
	}
	id, err := uuid.Parse(cmd.WorkOrderID)
	if err != nil {
		return nil, fmt.Errorf("invalid work order id %q: %w", cmd.WorkOrderID, err)
	}

	var resp *OrderResponse
	err = h.engine.Exec(func(w *world.World) error {
		if err := w.CancelWorkOrder(id); err != nil {
			return err
		}
		wo, _ := w.FindWorkOrder(id)
		resp = &OrderResponse{OrderID: cmd.WorkOrderID, Status: string(wo.Status())}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
