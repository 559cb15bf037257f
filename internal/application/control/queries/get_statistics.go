package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
)

// GetStatisticsQuery reads the cached engine and world statistics
type GetStatisticsQuery struct{}

// GetStatisticsResponse wraps the statistics snapshot
type GetStatisticsResponse struct {
	Statistics simulation.Statistics
}

// GetStatisticsHandler handles GetStatisticsQuery
type GetStatisticsHandler struct {
	engine *simulation.Engine
}

// NewGetStatisticsHandler creates a new GetStatisticsHandler
func NewGetStatisticsHandler(engine *simulation.Engine) *GetStatisticsHandler {
	return &GetStatisticsHandler{engine: engine}
}

// Handle never waits on a tick in flight
func (h *GetStatisticsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetStatisticsQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetStatisticsQuery")
	}
	return &GetStatisticsResponse{Statistics: h.engine.Statistics()}, nil
}
