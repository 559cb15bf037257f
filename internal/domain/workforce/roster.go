package workforce

import (
	"github.com/shopspring/decimal"
)

// Roster is the ordered set of employees
type Roster struct {
	employees []*Employee
}

// NewRoster creates an empty roster
func NewRoster() *Roster {
	return &Roster{}
}

// Hire adds an employee
func (r *Roster) Hire(e *Employee) {
	r.employees = append(r.employees, e)
}

// All returns employees in hiring order
func (r *Roster) All() []*Employee {
	out := make([]*Employee, len(r.employees))
	copy(out, r.employees)
	return out
}

// Count returns the headcount
func (r *Roster) Count() int {
	return len(r.employees)
}

// Payroll returns the sum of monthly salaries
func (r *Roster) Payroll() decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.employees {
		total = total.Add(e.monthlySalary)
	}
	return total
}

// AveragePerformance returns the mean performance, or zero for an empty roster
func (r *Roster) AveragePerformance() float64 {
	if len(r.employees) == 0 {
		return 0
	}
	sum := 0
	for _, e := range r.employees {
		sum += e.performance
	}
	return float64(sum) / float64(len(r.employees))
}

// AverageSatisfaction returns the mean satisfaction, or zero for an empty roster
func (r *Roster) AverageSatisfaction() float64 {
	if len(r.employees) == 0 {
		return 0
	}
	sum := 0
	for _, e := range r.employees {
		sum += e.satisfaction
	}
	return float64(sum) / float64(len(r.employees))
}

// ByDepartment returns headcount per department
func (r *Roster) ByDepartment() map[Department]int {
	counts := make(map[Department]int)
	for _, e := range r.employees {
		counts[e.department]++
	}
	return counts
}

// Replace swaps in a new set of employees; used by snapshot restore
func (r *Roster) Replace(employees []*Employee) {
	r.employees = make([]*Employee, len(employees))
	copy(r.employees, employees)
}
