package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// ListEventsQuery returns recent events, oldest first.
// With FromJournal the durable journal is read instead of the in-memory history.
type ListEventsQuery struct {
	Kind        string
	Severity    string
	SinceDay    int
	Limit       int
	FromJournal bool
}

// ListEventsResponse holds matching events
type ListEventsResponse struct {
	Events []events.Record
}

// ListEventsHandler handles ListEventsQuery
type ListEventsHandler struct {
	engine  *simulation.Engine
	journal events.Journal
}

// NewListEventsHandler creates a new ListEventsHandler. journal may be nil.
func NewListEventsHandler(engine *simulation.Engine, journal events.Journal) *ListEventsHandler {
	return &ListEventsHandler{engine: engine, journal: journal}
}

// Handle reads from history or the journal
func (h *ListEventsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListEventsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListEventsQuery")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}
	filter := events.Filter{Kind: query.Kind, Severity: query.Severity, SinceDay: query.SinceDay, Limit: limit}

	if query.FromJournal {
		if h.journal == nil {
			return nil, fmt.Errorf("event journal is not configured")
		}
		records, err := h.journal.Recent(ctx, filter)
		if err != nil {
			return nil, err
		}
		return &ListEventsResponse{Events: records}, nil
	}

	var recent []events.GameEvent
	if err := h.engine.Exec(func(w *world.World) error {
		recent = w.RecentEvents(w.Config().HistoryCapacity)
		return nil
	}); err != nil {
		return nil, err
	}

	matched := make([]events.Record, 0, limit)
	for _, e := range recent {
		if matches(e, filter) {
			matched = append(matched, e.Record())
		}
	}
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return &ListEventsResponse{Events: matched}, nil
}

func matches(e events.GameEvent, f events.Filter) bool {
	if f.Kind != "" && string(e.Kind()) != f.Kind {
		return false
	}
	if f.Severity != "" && string(e.Severity()) != f.Severity {
		return false
	}
	return e.Day() >= f.SinceDay
}
