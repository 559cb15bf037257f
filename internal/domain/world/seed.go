package world

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/inventory"
	"github.com/andrescamacho/headquartz-go/internal/domain/ledger"
	"github.com/andrescamacho/headquartz-go/internal/domain/workforce"
)

// HireEmployee adds a new employee dated today
func (w *World) HireEmployee(name string, department workforce.Department, monthlySalary decimal.Decimal, performance, satisfaction int) (*workforce.Employee, error) {
	e, err := workforce.NewEmployee(name, department, monthlySalary, performance, satisfaction, w.calendar.Date())
	if err != nil {
		return nil, fmt.Errorf("hire employee: %w", err)
	}
	w.roster.Hire(e)
	w.emitf(events.KindEmployeeHired, fmt.Sprintf("%s joined %s at %s/month", name, department, ledger.FormatMoney(monthlySalary)))
	return e, nil
}

// SeedInventory stocks a finished product and starts tracking its demand
func (w *World) SeedInventory(productID string, quantity int, unitCost decimal.Decimal, demandWeight float64) error {
	item, err := inventory.NewItem(productID, quantity, unitCost, w.calendar.Date())
	if err != nil {
		return fmt.Errorf("seed inventory: %w", err)
	}
	w.inventory.PutItem(item)
	if err := w.market.TrackProduct(productID, demandWeight); err != nil {
		return fmt.Errorf("seed inventory: %w", err)
	}
	return nil
}

// SeedRawMaterial stocks a production input
func (w *World) SeedRawMaterial(materialID, name string, quantity int, unitCost decimal.Decimal) error {
	m, err := inventory.NewRawMaterial(materialID, name, quantity, unitCost)
	if err != nil {
		return fmt.Errorf("seed raw material: %w", err)
	}
	w.inventory.PutMaterial(m)
	return nil
}

// SeedDefaults stocks the starter company: two products, their inputs and a small staff.
// It does nothing if the inventory already has products.
func (w *World) SeedDefaults() error {
	if w.inventory.ItemCount() > 0 {
		return nil
	}

	if err := w.SeedInventory("P-001", 50, decimal.NewFromInt(40), 1.0); err != nil {
		return err
	}
	if err := w.SeedInventory("P-002", 25, decimal.NewFromInt(55), 1.2); err != nil {
		return err
	}
	if err := w.SeedRawMaterial("RM-001", "Steel Frame", 500, decimal.NewFromInt(5)); err != nil {
		return err
	}
	if err := w.SeedRawMaterial("RM-002", "Circuit Board", 250, decimal.NewFromInt(12)); err != nil {
		return err
	}

	staff := []struct {
		name   string
		dept   workforce.Department
		salary int64
		perf   int
		sat    int
	}{
		{"Alex Morgan", workforce.DepartmentManagement, 9000, 80, 75},
		{"Sam Rivera", workforce.DepartmentProduction, 4200, 72, 70},
		{"Jordan Lee", workforce.DepartmentProduction, 4000, 68, 65},
		{"Casey Kim", workforce.DepartmentSales, 4800, 75, 72},
		{"Riley Chen", workforce.DepartmentFinance, 5200, 82, 78},
		{"Taylor Brooks", workforce.DepartmentHR, 4500, 70, 74},
		{"Quinn Patel", workforce.DepartmentLogistics, 4100, 66, 68},
	}
	for _, s := range staff {
		if _, err := w.HireEmployee(s.name, s.dept, decimal.NewFromInt(s.salary), s.perf, s.sat); err != nil {
			return err
		}
	}

	w.refreshValuation()
	return nil
}
