package events

import "context"

// Filter narrows a journal query. Zero values match everything.
type Filter struct {
	Kind     string
	Severity string
	SinceDay int
	Limit    int
}

// Journal is the durable, append-only store of published events
type Journal interface {
	Append(ctx context.Context, batch []Record) error
	Recent(ctx context.Context, filter Filter) ([]Record, error)
}
