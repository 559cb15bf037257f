package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
)

const maxLogLimit = 1000

// ListLogsQuery reads back persisted engine, processor and daemon logs
type ListLogsQuery struct {
	Component string
	Level     string
	// Only logs newer than this much wall-clock time; zero means no bound
	Within time.Duration
	Limit  int
}

type ListLogsResponse struct {
	Logs []common.LogEntry
}

type ListLogsHandler struct {
	source common.LogSource
	clock  func() time.Time
}

func NewListLogsHandler(source common.LogSource) *ListLogsHandler {
	return &ListLogsHandler{source: source, clock: time.Now}
}

func (h *ListLogsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListLogsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListLogsQuery")
	}
	if query.Limit < 0 || query.Limit > maxLogLimit {
		return nil, fmt.Errorf("limit must be between 0 and %d", maxLogLimit)
	}

	filter := common.LogFilter{
		Component: query.Component,
		Level:     query.Level,
		Limit:     query.Limit,
	}
	if query.Within > 0 {
		filter.Since = h.clock().Add(-query.Within)
	}
	logs, err := h.source.RecentLogs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to read logs: %w", err)
	}
	return &ListLogsResponse{Logs: logs}, nil
}
