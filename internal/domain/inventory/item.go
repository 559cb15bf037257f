package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Stocking defaults applied to items created without explicit levels
const (
	DefaultReorderLevel    = 50
	DefaultReorderQuantity = 100
)

// Item is a finished-goods stock line keyed by product id.
// Quantity never goes negative and items are never removed, only zeroed.
type Item struct {
	productID       string
	quantity        int
	reorderLevel    int
	reorderQuantity int
	unitCost        decimal.Decimal
	lastRestocked   time.Time
}

// NewItem creates a stock line with default reorder settings
func NewItem(productID string, quantity int, unitCost decimal.Decimal, restockedAt time.Time) (*Item, error) {
	if productID == "" {
		return nil, fmt.Errorf("product_id cannot be empty")
	}
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative: %d", quantity)
	}
	return &Item{
		productID:       productID,
		quantity:        quantity,
		reorderLevel:    DefaultReorderLevel,
		reorderQuantity: DefaultReorderQuantity,
		unitCost:        unitCost,
		lastRestocked:   restockedAt,
	}, nil
}

// ReconstructItem rebuilds an item from a snapshot
func ReconstructItem(productID string, quantity, reorderLevel, reorderQuantity int, unitCost decimal.Decimal, lastRestocked time.Time) *Item {
	return &Item{
		productID:       productID,
		quantity:        quantity,
		reorderLevel:    reorderLevel,
		reorderQuantity: reorderQuantity,
		unitCost:        unitCost,
		lastRestocked:   lastRestocked,
	}
}

// Getters

func (i *Item) ProductID() string          { return i.productID }
func (i *Item) Quantity() int              { return i.quantity }
func (i *Item) ReorderLevel() int          { return i.reorderLevel }
func (i *Item) ReorderQuantity() int       { return i.reorderQuantity }
func (i *Item) UnitCost() decimal.Decimal  { return i.unitCost }
func (i *Item) LastRestocked() time.Time   { return i.lastRestocked }

// SetReorderPolicy changes when and how much the item is restocked
func (i *Item) SetReorderPolicy(level, quantity int) error {
	if level < 0 || quantity <= 0 {
		return fmt.Errorf("invalid reorder policy: level=%d quantity=%d", level, quantity)
	}
	i.reorderLevel = level
	i.reorderQuantity = quantity
	return nil
}

// Credit adds stock and stamps the restock date
func (i *Item) Credit(quantity int, at time.Time) error {
	if quantity <= 0 {
		return fmt.Errorf("credit quantity must be positive: %d", quantity)
	}
	i.quantity += quantity
	i.lastRestocked = at
	return nil
}

// Debit removes stock, refusing to go below zero
func (i *Item) Debit(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("debit quantity must be positive: %d", quantity)
	}
	if quantity > i.quantity {
		return &ErrInsufficientStock{SKU: i.productID, Requested: quantity, Available: i.quantity}
	}
	i.quantity -= quantity
	return nil
}

// NeedsReorder reports whether stock is below the reorder level
func (i *Item) NeedsReorder() bool {
	return i.quantity < i.reorderLevel
}

// Value returns quantity times unit cost
func (i *Item) Value() decimal.Decimal {
	return i.unitCost.Mul(decimal.NewFromInt(int64(i.quantity)))
}

// RawMaterial is a production input consumed when work orders start
type RawMaterial struct {
	materialID      string
	name            string
	quantity        int
	unitCost        decimal.Decimal
	reorderLevel    int
	reorderQuantity int
}

// NewRawMaterial creates a material stock line
func NewRawMaterial(materialID, name string, quantity int, unitCost decimal.Decimal) (*RawMaterial, error) {
	if materialID == "" {
		return nil, fmt.Errorf("material_id cannot be empty")
	}
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative: %d", quantity)
	}
	return &RawMaterial{
		materialID:      materialID,
		name:            name,
		quantity:        quantity,
		unitCost:        unitCost,
		reorderLevel:    DefaultReorderLevel * 2,
		reorderQuantity: DefaultReorderQuantity * 5,
	}, nil
}

// ReconstructRawMaterial rebuilds a material from a snapshot
func ReconstructRawMaterial(materialID, name string, quantity int, unitCost decimal.Decimal, reorderLevel, reorderQuantity int) *RawMaterial {
	return &RawMaterial{
		materialID:      materialID,
		name:            name,
		quantity:        quantity,
		unitCost:        unitCost,
		reorderLevel:    reorderLevel,
		reorderQuantity: reorderQuantity,
	}
}

func (m *RawMaterial) MaterialID() string         { return m.materialID }
func (m *RawMaterial) Name() string               { return m.name }
func (m *RawMaterial) Quantity() int              { return m.quantity }
func (m *RawMaterial) UnitCost() decimal.Decimal  { return m.unitCost }
func (m *RawMaterial) ReorderLevel() int          { return m.reorderLevel }
func (m *RawMaterial) ReorderQuantity() int       { return m.reorderQuantity }

// NeedsReorder reports whether stock is below the reorder level
func (m *RawMaterial) NeedsReorder() bool {
	return m.quantity < m.reorderLevel
}

// SetReorderPolicy changes when and how much the material is restocked
func (m *RawMaterial) SetReorderPolicy(level, quantity int) error {
	if level < 0 || quantity <= 0 {
		return fmt.Errorf("invalid reorder policy: level=%d quantity=%d", level, quantity)
	}
	m.reorderLevel = level
	m.reorderQuantity = quantity
	return nil
}

func (m *RawMaterial) credit(quantity int) {
	m.quantity += quantity
}

func (m *RawMaterial) debit(quantity int) {
	m.quantity -= quantity
}
