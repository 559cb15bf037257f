package inventory

import "fmt"

// ErrInsufficientStock is returned when a debit exceeds what is on hand
type ErrInsufficientStock struct {
	SKU       string
	Requested int
	Available int
}

func (e *ErrInsufficientStock) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.SKU, e.Requested, e.Available)
}

// ErrUnknownSKU is returned when a product or material id is not stocked
type ErrUnknownSKU struct {
	SKU string
}

func (e *ErrUnknownSKU) Error() string {
	return fmt.Sprintf("unknown sku: %s", e.SKU)
}
