package ledger

import "fmt"

// Category classifies a transaction for financial reporting
type Category string

const (
	// CategorySales is revenue from shipped sales orders
	CategorySales Category = "SALES"

	// CategoryPayroll is the monthly salary run
	CategoryPayroll Category = "PAYROLL"

	// CategoryProcurement is purchasing of finished goods and raw materials
	CategoryProcurement Category = "PROCUREMENT"

	// CategoryOperations covers running costs such as maintenance and marketing
	CategoryOperations Category = "OPERATIONS"

	CategoryOther Category = "OTHER"
)

// AllCategories returns all valid categories
func AllCategories() []Category {
	return []Category{
		CategorySales,
		CategoryPayroll,
		CategoryProcurement,
		CategoryOperations,
		CategoryOther,
	}
}

// String returns the string representation of the Category
func (c Category) String() string {
	return string(c)
}

// IsValid checks if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategorySales,
		CategoryPayroll,
		CategoryProcurement,
		CategoryOperations,
		CategoryOther:
		return true
	default:
		return false
	}
}

// ParseCategory parses a string into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid category: %s", s)
	}
	return c, nil
}
