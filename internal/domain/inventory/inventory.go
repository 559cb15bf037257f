package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Inventory holds finished goods and raw materials.
// Iteration order is insertion order so seeded simulations replay identically.
type Inventory struct {
	items         map[string]*Item
	itemOrder     []string
	materials     map[string]*RawMaterial
	materialOrder []string
}

// New creates an empty inventory
func New() *Inventory {
	return &Inventory{
		items:     make(map[string]*Item),
		materials: make(map[string]*RawMaterial),
	}
}

// Item looks up a finished-goods line
func (inv *Inventory) Item(productID string) (*Item, bool) {
	item, ok := inv.items[productID]
	return item, ok
}

// Items returns all finished-goods lines in insertion order
func (inv *Inventory) Items() []*Item {
	out := make([]*Item, 0, len(inv.itemOrder))
	for _, id := range inv.itemOrder {
		out = append(out, inv.items[id])
	}
	return out
}

// PutItem adds or replaces a finished-goods line
func (inv *Inventory) PutItem(item *Item) {
	if _, exists := inv.items[item.productID]; !exists {
		inv.itemOrder = append(inv.itemOrder, item.productID)
	}
	inv.items[item.productID] = item
}

// Quantity returns on-hand stock for a product, zero if not stocked
func (inv *Inventory) Quantity(productID string) int {
	if item, ok := inv.items[productID]; ok {
		return item.quantity
	}
	return 0
}

// Covers reports whether every requested quantity is on hand
func (inv *Inventory) Covers(requested map[string]int) bool {
	for productID, qty := range requested {
		if inv.Quantity(productID) < qty {
			return false
		}
	}
	return true
}

// Credit adds stock, creating the line on first receipt
func (inv *Inventory) Credit(productID string, quantity int, unitCost decimal.Decimal, at time.Time) error {
	item, ok := inv.items[productID]
	if !ok {
		created, err := NewItem(productID, 0, unitCost, at)
		if err != nil {
			return err
		}
		inv.PutItem(created)
		item = created
	}
	return item.Credit(quantity, at)
}

// DebitAll removes every requested quantity or nothing at all
func (inv *Inventory) DebitAll(requested map[string]int) error {
	for productID, qty := range requested {
		available := inv.Quantity(productID)
		if available < qty {
			return &ErrInsufficientStock{SKU: productID, Requested: qty, Available: available}
		}
	}
	for productID, qty := range requested {
		if err := inv.items[productID].Debit(qty); err != nil {
			return fmt.Errorf("debit %s after availability check: %w", productID, err)
		}
	}
	return nil
}

// Material looks up a raw material
func (inv *Inventory) Material(materialID string) (*RawMaterial, bool) {
	m, ok := inv.materials[materialID]
	return m, ok
}

// Materials returns all raw materials in insertion order
func (inv *Inventory) Materials() []*RawMaterial {
	out := make([]*RawMaterial, 0, len(inv.materialOrder))
	for _, id := range inv.materialOrder {
		out = append(out, inv.materials[id])
	}
	return out
}

// PutMaterial adds or replaces a raw material
func (inv *Inventory) PutMaterial(m *RawMaterial) {
	if _, exists := inv.materials[m.materialID]; !exists {
		inv.materialOrder = append(inv.materialOrder, m.materialID)
	}
	inv.materials[m.materialID] = m
}

// HasMaterials reports whether all required materials are stocked in sufficient quantity
func (inv *Inventory) HasMaterials(required map[string]int) bool {
	for id, qty := range required {
		m, ok := inv.materials[id]
		if !ok || m.quantity < qty {
			return false
		}
	}
	return true
}

// ConsumeMaterials removes all required materials or nothing at all
func (inv *Inventory) ConsumeMaterials(required map[string]int) error {
	for id, qty := range required {
		m, ok := inv.materials[id]
		if !ok {
			return &ErrUnknownSKU{SKU: id}
		}
		if m.quantity < qty {
			return &ErrInsufficientStock{SKU: id, Requested: qty, Available: m.quantity}
		}
	}
	for id, qty := range required {
		inv.materials[id].debit(qty)
	}
	return nil
}

// ReceiveMaterial adds purchased stock to a known material
func (inv *Inventory) ReceiveMaterial(materialID string, quantity int) error {
	m, ok := inv.materials[materialID]
	if !ok {
		return &ErrUnknownSKU{SKU: materialID}
	}
	if quantity <= 0 {
		return fmt.Errorf("receive quantity must be positive: %d", quantity)
	}
	m.credit(quantity)
	return nil
}

// TotalUnits returns the sum of finished-goods quantities
func (inv *Inventory) TotalUnits() int {
	total := 0
	for _, item := range inv.items {
		total += item.quantity
	}
	return total
}

// TotalValue returns the cost value of finished goods and raw materials
func (inv *Inventory) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, id := range inv.itemOrder {
		total = total.Add(inv.items[id].Value())
	}
	for _, id := range inv.materialOrder {
		m := inv.materials[id]
		total = total.Add(m.unitCost.Mul(decimal.NewFromInt(int64(m.quantity))))
	}
	return total
}

// ItemCount returns the number of finished-goods lines
func (inv *Inventory) ItemCount() int {
	return len(inv.items)
}

// Clear drops every line; used only by full snapshot restore
func (inv *Inventory) Clear() {
	inv.items = make(map[string]*Item)
	inv.itemOrder = nil
	inv.materials = make(map[string]*RawMaterial)
	inv.materialOrder = nil
}
