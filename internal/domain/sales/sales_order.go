package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
)

// OrderStatus is the lifecycle position of a sales order
type OrderStatus string

const (
	StatusPending      OrderStatus = "PENDING"
	StatusConfirmed    OrderStatus = "CONFIRMED"
	StatusInProduction OrderStatus = "IN_PRODUCTION"
	StatusReadyToShip  OrderStatus = "READY_TO_SHIP"
	StatusShipped      OrderStatus = "SHIPPED"
	StatusDelivered    OrderStatus = "DELIVERED"
	StatusCancelled    OrderStatus = "CANCELLED"
)

var transitions = shared.NewTransitionTable("sales order", map[OrderStatus][]OrderStatus{
	StatusPending:      {StatusConfirmed, StatusCancelled},
	StatusConfirmed:    {StatusInProduction, StatusReadyToShip, StatusCancelled},
	StatusInProduction: {StatusReadyToShip, StatusCancelled},
	StatusReadyToShip:  {StatusShipped, StatusCancelled},
	StatusShipped:      {StatusDelivered},
})

// IsValid checks if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProduction, StatusReadyToShip,
		StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive reports whether the order has not yet been shipped or cancelled
func (s OrderStatus) IsActive() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProduction, StatusReadyToShip:
		return true
	default:
		return false
	}
}

func (s OrderStatus) String() string {
	return string(s)
}

// ParseOrderStatus parses a string into an OrderStatus
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid order status: %s", s)
	}
	return status, nil
}

// OrderLine is one product on a sales order
type OrderLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal returns quantity times unit price
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SalesOrder is a customer order.
// The total is computed once at creation and never recomputed.
type SalesOrder struct {
	id          uuid.UUID
	customerID  string
	lines       []OrderLine
	status      OrderStatus
	total       decimal.Decimal
	orderedAt   time.Time
	shippedAt   *time.Time
	deliveredAt *time.Time
}

// NewSalesOrder creates a pending order
func NewSalesOrder(customerID string, lines []OrderLine, orderedAt time.Time) (*SalesOrder, error) {
	if customerID == "" {
		return nil, shared.NewValidationError("customer_id", "cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewValidationError("lines", "order must contain at least one line")
	}

	total := decimal.Zero
	copied := make([]OrderLine, len(lines))
	for i, line := range lines {
		if line.ProductID == "" {
			return nil, shared.NewValidationError("product_id", fmt.Sprintf("line %d has no product", i))
		}
		if line.Quantity <= 0 {
			return nil, shared.NewValidationError("quantity", fmt.Sprintf("line %d quantity must be positive", i))
		}
		if line.UnitPrice.IsNegative() {
			return nil, shared.NewValidationError("unit_price", fmt.Sprintf("line %d price cannot be negative", i))
		}
		copied[i] = line
		total = total.Add(line.Subtotal())
	}

	return &SalesOrder{
		id:         uuid.New(),
		customerID: customerID,
		lines:      copied,
		status:     StatusPending,
		total:      total,
		orderedAt:  orderedAt,
	}, nil
}

// ReconstructSalesOrder rebuilds an order from a snapshot
func ReconstructSalesOrder(
	id uuid.UUID,
	customerID string,
	lines []OrderLine,
	status OrderStatus,
	total decimal.Decimal,
	orderedAt time.Time,
	shippedAt *time.Time,
	deliveredAt *time.Time,
) *SalesOrder {
	copied := make([]OrderLine, len(lines))
	copy(copied, lines)
	return &SalesOrder{
		id:          id,
		customerID:  customerID,
		lines:       copied,
		status:      status,
		total:       total,
		orderedAt:   orderedAt,
		shippedAt:   shippedAt,
		deliveredAt: deliveredAt,
	}
}

// Getters

func (o *SalesOrder) ID() uuid.UUID            { return o.id }
func (o *SalesOrder) CustomerID() string       { return o.customerID }
func (o *SalesOrder) Status() OrderStatus      { return o.status }
func (o *SalesOrder) Total() decimal.Decimal   { return o.total }
func (o *SalesOrder) OrderedAt() time.Time     { return o.orderedAt }
func (o *SalesOrder) ShippedAt() *time.Time    { return o.shippedAt }
func (o *SalesOrder) DeliveredAt() *time.Time  { return o.deliveredAt }

// Lines returns a copy of the order lines
func (o *SalesOrder) Lines() []OrderLine {
	out := make([]OrderLine, len(o.lines))
	copy(out, o.lines)
	return out
}

// Demand sums the ordered quantity per product
func (o *SalesOrder) Demand() map[string]int {
	demand := make(map[string]int, len(o.lines))
	for _, l := range o.lines {
		demand[l.ProductID] += l.Quantity
	}
	return demand
}

// IsActive reports whether the order still awaits shipment
func (o *SalesOrder) IsActive() bool {
	return o.status.IsActive()
}

func (o *SalesOrder) transition(to OrderStatus) error {
	if err := transitions.Check(o.status, to); err != nil {
		return err
	}
	o.status = to
	return nil
}

// Confirm accepts a pending order
func (o *SalesOrder) Confirm() error {
	return o.transition(StatusConfirmed)
}

// MarkInProduction records that stock must be manufactured before shipping
func (o *SalesOrder) MarkInProduction() error {
	return o.transition(StatusInProduction)
}

// MarkReadyToShip records that stock is available
func (o *SalesOrder) MarkReadyToShip() error {
	return o.transition(StatusReadyToShip)
}

// Ship records full shipment of the order
func (o *SalesOrder) Ship(at time.Time) error {
	if err := o.transition(StatusShipped); err != nil {
		return err
	}
	shipped := at
	o.shippedAt = &shipped
	return nil
}

// Deliver records receipt by the customer
func (o *SalesOrder) Deliver(at time.Time) error {
	if err := o.transition(StatusDelivered); err != nil {
		return err
	}
	delivered := at
	o.deliveredAt = &delivered
	return nil
}

// Cancel abandons an unshipped order
func (o *SalesOrder) Cancel() error {
	return o.transition(StatusCancelled)
}

func (o *SalesOrder) String() string {
	return fmt.Sprintf("SalesOrder[%s, customer=%s, status=%s, total=%s]",
		o.id, o.customerID, o.status, o.total.StringFixed(2))
}
