package workforce

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
)

// Department groups employees by function
type Department string

const (
	DepartmentProduction Department = "PRODUCTION"
	DepartmentSales      Department = "SALES"
	DepartmentFinance    Department = "FINANCE"
	DepartmentHR         Department = "HR"
	DepartmentLogistics  Department = "LOGISTICS"
	DepartmentManagement Department = "MANAGEMENT"
)

// IsValid checks if the department is valid
func (d Department) IsValid() bool {
	switch d {
	case DepartmentProduction, DepartmentSales, DepartmentFinance,
		DepartmentHR, DepartmentLogistics, DepartmentManagement:
		return true
	default:
		return false
	}
}

func (d Department) String() string {
	return string(d)
}

// ParseDepartment parses a string into a Department
func ParseDepartment(s string) (Department, error) {
	d := Department(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid department: %s", s)
	}
	return d, nil
}

// Rating bounds for performance and satisfaction
const (
	MinRating = 0
	MaxRating = 100
)

func clamp(v int) int {
	if v < MinRating {
		return MinRating
	}
	if v > MaxRating {
		return MaxRating
	}
	return v
}

// Employee is a member of staff. Performance and satisfaction stay within [0,100].
type Employee struct {
	id            uuid.UUID
	name          string
	department    Department
	monthlySalary decimal.Decimal
	performance   int
	satisfaction  int
	hiredAt       time.Time
}

// NewEmployee hires a new employee
func NewEmployee(name string, department Department, monthlySalary decimal.Decimal, performance, satisfaction int, hiredAt time.Time) (*Employee, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "cannot be empty")
	}
	if !department.IsValid() {
		return nil, shared.NewValidationError("department", fmt.Sprintf("invalid department: %s", department))
	}
	if !monthlySalary.IsPositive() {
		return nil, shared.NewValidationError("monthly_salary", "must be positive")
	}
	return &Employee{
		id:            uuid.New(),
		name:          name,
		department:    department,
		monthlySalary: monthlySalary,
		performance:   clamp(performance),
		satisfaction:  clamp(satisfaction),
		hiredAt:       hiredAt,
	}, nil
}

// ReconstructEmployee rebuilds an employee from a snapshot
func ReconstructEmployee(id uuid.UUID, name string, department Department, monthlySalary decimal.Decimal, performance, satisfaction int, hiredAt time.Time) *Employee {
	return &Employee{
		id:            id,
		name:          name,
		department:    department,
		monthlySalary: monthlySalary,
		performance:   clamp(performance),
		satisfaction:  clamp(satisfaction),
		hiredAt:       hiredAt,
	}
}

// Getters

func (e *Employee) ID() uuid.UUID                   { return e.id }
func (e *Employee) Name() string                    { return e.name }
func (e *Employee) Department() Department          { return e.department }
func (e *Employee) MonthlySalary() decimal.Decimal  { return e.monthlySalary }
func (e *Employee) Performance() int                { return e.performance }
func (e *Employee) Satisfaction() int               { return e.satisfaction }
func (e *Employee) HiredAt() time.Time              { return e.hiredAt }

// AdjustPerformance shifts the performance rating, clamped to bounds
func (e *Employee) AdjustPerformance(delta int) {
	e.performance = clamp(e.performance + delta)
}

// AdjustSatisfaction shifts the satisfaction level, clamped to bounds
func (e *Employee) AdjustSatisfaction(delta int) {
	e.satisfaction = clamp(e.satisfaction + delta)
}

// GiveRaise increases the monthly salary by a percentage and returns the new salary
func (e *Employee) GiveRaise(percent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(percent.Div(decimal.NewFromInt(100)))
	e.monthlySalary = e.monthlySalary.Mul(factor).Round(2)
	return e.monthlySalary
}

func (e *Employee) String() string {
	return fmt.Sprintf("Employee[%s, %s, dept=%s, perf=%d, sat=%d]",
		e.id, e.name, e.department, e.performance, e.satisfaction)
}
