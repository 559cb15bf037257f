package simulation

import (
	"time"

	"github.com/andrescamacho/headquartz-go/internal/domain/calendar"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
)

// TickInfo describes one completed tick
type TickInfo struct {
	Tick       uint64
	Day        int
	Date       time.Time
	Boundaries calendar.Boundaries
	Phase      Phase
	Duration   time.Duration
}

// PhaseChange is published when a tick moves the simulation into another phase
type PhaseChange struct {
	From Phase
	To   Phase
	Day  int
}

// Signals are the coarse notifications the engine publishes for presentation layers.
// All of them are delivered synchronously on the ticking goroutine while the tick
// lock is held: listeners may call Stop, SetSpeed or Statistics but not Step, Exec or Reset.
type Signals struct {
	Ticked       *events.Topic[TickInfo]
	PhaseChanged *events.Topic[PhaseChange]
	Day          *events.Topic[TickInfo]
	Week         *events.Topic[TickInfo]
	Month        *events.Topic[TickInfo]
	Quarter      *events.Topic[TickInfo]
	Year         *events.Topic[TickInfo]
}

func newSignals() *Signals {
	return &Signals{
		Ticked:       events.NewTopic[TickInfo](),
		PhaseChanged: events.NewTopic[PhaseChange](),
		Day:          events.NewTopic[TickInfo](),
		Week:         events.NewTopic[TickInfo](),
		Month:        events.NewTopic[TickInfo](),
		Quarter:      events.NewTopic[TickInfo](),
		Year:         events.NewTopic[TickInfo](),
	}
}

// Period returns the topic for a calendar period
func (s *Signals) Period(p calendar.Period) *events.Topic[TickInfo] {
	switch p {
	case calendar.PeriodWeek:
		return s.Week
	case calendar.PeriodMonth:
		return s.Month
	case calendar.PeriodQuarter:
		return s.Quarter
	case calendar.PeriodYear:
		return s.Year
	default:
		return s.Day
	}
}
