package workforce_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/headquartz-go/internal/domain/workforce"
)

var hired = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestNewEmployee_ClampsRatings(t *testing.T) {
	e, err := workforce.NewEmployee("Ada", workforce.DepartmentProduction, decimal.NewFromInt(4000), 120, -5, hired)

	require.NoError(t, err)
	assert.Equal(t, 100, e.Performance())
	assert.Equal(t, 0, e.Satisfaction())
}

func TestNewEmployee_Validation(t *testing.T) {
	_, err := workforce.NewEmployee("", workforce.DepartmentSales, decimal.NewFromInt(1), 50, 50, hired)
	assert.Error(t, err)

	_, err = workforce.NewEmployee("Bo", "JANITORIAL", decimal.NewFromInt(1), 50, 50, hired)
	assert.Error(t, err)

	_, err = workforce.NewEmployee("Bo", workforce.DepartmentSales, decimal.Zero, 50, 50, hired)
	assert.Error(t, err)
}

func TestAdjustments_StayInBounds(t *testing.T) {
	e, _ := workforce.NewEmployee("Cy", workforce.DepartmentHR, decimal.NewFromInt(3000), 98, 3, hired)

	e.AdjustPerformance(9)
	e.AdjustSatisfaction(-5)

	assert.Equal(t, 100, e.Performance())
	assert.Equal(t, 0, e.Satisfaction())
}

func TestGiveRaise(t *testing.T) {
	e, _ := workforce.NewEmployee("Di", workforce.DepartmentFinance, decimal.NewFromInt(5000), 90, 70, hired)

	salary := e.GiveRaise(decimal.NewFromInt(5))

	assert.True(t, decimal.NewFromInt(5250).Equal(salary))
	assert.True(t, decimal.NewFromInt(5250).Equal(e.MonthlySalary()))
}

func TestRoster_Aggregates(t *testing.T) {
	r := workforce.NewRoster()
	a, _ := workforce.NewEmployee("A", workforce.DepartmentProduction, decimal.NewFromInt(4000), 80, 60, hired)
	b, _ := workforce.NewEmployee("B", workforce.DepartmentProduction, decimal.NewFromInt(6000), 60, 40, hired)
	c, _ := workforce.NewEmployee("C", workforce.DepartmentSales, decimal.NewFromInt(5000), 70, 50, hired)
	r.Hire(a)
	r.Hire(b)
	r.Hire(c)

	assert.Equal(t, 3, r.Count())
	assert.True(t, decimal.NewFromInt(15000).Equal(r.Payroll()))
	assert.InDelta(t, 70.0, r.AveragePerformance(), 0.001)
	assert.InDelta(t, 50.0, r.AverageSatisfaction(), 0.001)
	assert.Equal(t, 2, r.ByDepartment()[workforce.DepartmentProduction])
}

func TestRoster_EmptyAverages(t *testing.T) {
	r := workforce.NewRoster()

	assert.Equal(t, 0.0, r.AveragePerformance())
	assert.Equal(t, 0.0, r.AverageSatisfaction())
	assert.True(t, r.Payroll().IsZero())
}
