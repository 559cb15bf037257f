package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/tick"
)

// GetPerformanceReportQuery reads day-pass timing and processor health
type GetPerformanceReportQuery struct{}

// GetPerformanceReportResponse wraps the report
type GetPerformanceReportResponse struct {
	Report tick.PerformanceReport
}

// GetPerformanceReportHandler handles GetPerformanceReportQuery
type GetPerformanceReportHandler struct {
	manager *tick.Manager
}

// NewGetPerformanceReportHandler creates a new GetPerformanceReportHandler
func NewGetPerformanceReportHandler(manager *tick.Manager) *GetPerformanceReportHandler {
	return &GetPerformanceReportHandler{manager: manager}
}

// Handle returns the current report
func (h *GetPerformanceReportHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetPerformanceReportQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetPerformanceReportQuery")
	}
	return &GetPerformanceReportResponse{Report: h.manager.PerformanceReport()}, nil
}
