package commands

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/domain/workforce"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// HireEmployeeCommand adds a member of staff
type HireEmployeeCommand struct {
	Name          string
	Department    string
	MonthlySalary decimal.Decimal
	Performance   int
	Satisfaction  int
}

// HireEmployeeResponse identifies the new employee
type HireEmployeeResponse struct {
	EmployeeID string
	Headcount  int
}

// HireEmployeeHandler handles HireEmployeeCommand
type HireEmployeeHandler struct {
	engine *simulation.Engine
}

// NewHireEmployeeHandler creates a new HireEmployeeHandler
func NewHireEmployeeHandler(engine *simulation.Engine) *HireEmployeeHandler {
	return &HireEmployeeHandler{engine: engine}
}

// Handle hires between ticks
func (h *HireEmployeeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*HireEmployeeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *HireEmployeeCommand")
	}
	dept, err := workforce.ParseDepartment(cmd.Department)
	if err != nil {
		return nil, err
	}

	var resp *HireEmployeeResponse
	err = h.engine.Exec(func(w *world.World) error {
		e, err := w.HireEmployee(cmd.Name, dept, cmd.MonthlySalary, cmd.Performance, cmd.Satisfaction)
		if err != nil {
			return err
		}
		resp = &HireEmployeeResponse{EmployeeID: e.ID().String(), Headcount: w.Roster().Count()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
