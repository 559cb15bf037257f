package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// ListSnapshotsQuery enumerates saved slots
type ListSnapshotsQuery struct{}

// ListSnapshotsResponse holds slot summaries, most recent first
type ListSnapshotsResponse struct {
	Snapshots []world.SnapshotSummary
}

// ListSnapshotsHandler handles ListSnapshotsQuery
type ListSnapshotsHandler struct {
	catalog world.SnapshotCatalog
}

// NewListSnapshotsHandler creates a new ListSnapshotsHandler
func NewListSnapshotsHandler(catalog world.SnapshotCatalog) *ListSnapshotsHandler {
	return &ListSnapshotsHandler{catalog: catalog}
}

// Handle lists the catalog
func (h *ListSnapshotsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListSnapshotsQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListSnapshotsQuery")
	}
	summaries, err := h.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ListSnapshotsResponse{Snapshots: summaries}, nil
}
