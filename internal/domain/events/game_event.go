package events

import (
	"fmt"
	"time"
)

// GameEvent is an immutable record of something that happened in the world.
// The kind's descriptor is resolved once, when the event is built.
type GameEvent struct {
	kind       Kind
	descriptor Descriptor
	message    string
	severity   Severity
	timestamp  time.Time
	day        int
}

// New builds an event with the kind's default severity
func New(kind Kind, message string, timestamp time.Time, day int) GameEvent {
	d := kind.Descriptor()
	return GameEvent{
		kind:       kind,
		descriptor: d,
		message:    message,
		severity:   d.Severity,
		timestamp:  timestamp,
		day:        day,
	}
}

// NewWithSeverity builds an event overriding the kind's default severity
func NewWithSeverity(kind Kind, severity Severity, message string, timestamp time.Time, day int) GameEvent {
	e := New(kind, message, timestamp, day)
	if severity.IsValid() {
		e.severity = severity
	}
	return e
}

// Getters

func (e GameEvent) Kind() Kind             { return e.kind }
func (e GameEvent) Title() string          { return e.descriptor.Title }
func (e GameEvent) Color() string          { return e.descriptor.Color }
func (e GameEvent) Message() string        { return e.message }
func (e GameEvent) Severity() Severity     { return e.severity }
func (e GameEvent) Timestamp() time.Time   { return e.timestamp }
func (e GameEvent) Day() int               { return e.day }
func (e GameEvent) Descriptor() Descriptor { return e.descriptor }

func (e GameEvent) String() string {
	return fmt.Sprintf("[day %d] %s (%s): %s", e.day, e.descriptor.Title, e.severity, e.message)
}

// Record is the wire/persistence form of an event
type Record struct {
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Color     string    `json:"color"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
	Day       int       `json:"day"`
}

// Record converts the event to its serializable form
func (e GameEvent) Record() Record {
	return Record{
		Kind:      string(e.kind),
		Title:     e.descriptor.Title,
		Color:     e.descriptor.Color,
		Message:   e.message,
		Severity:  string(e.severity),
		Timestamp: e.timestamp,
		Day:       e.day,
	}
}

// FromRecord rebuilds an event from its serializable form
func FromRecord(r Record) GameEvent {
	return NewWithSeverity(Kind(r.Kind), Severity(r.Severity), r.Message, r.Timestamp, r.Day)
}
