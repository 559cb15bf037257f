package calendar

import (
	"fmt"
	"time"
)

// Epoch is the simulated date every new or reset calendar starts from
var Epoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Period lengths in simulated days
const (
	DaysPerWeek    = 7
	DaysPerMonth   = 30
	DaysPerQuarter = 90
	DaysPerYear    = 360
)

// Boundaries records which period boundaries a single advance crossed
type Boundaries struct {
	Week    bool
	Month   bool
	Quarter bool
	Year    bool
}

// Any reports whether at least one boundary was crossed
func (b Boundaries) Any() bool {
	return b.Week || b.Month || b.Quarter || b.Year
}

func (b Boundaries) String() string {
	return fmt.Sprintf("week=%t month=%t quarter=%t year=%t", b.Week, b.Month, b.Quarter, b.Year)
}

// Period names a reporting granularity
type Period string

const (
	PeriodDay     Period = "day"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// Periods lists the crossed boundaries in ascending granularity
func (b Boundaries) Periods() []Period {
	var out []Period
	if b.Week {
		out = append(out, PeriodWeek)
	}
	if b.Month {
		out = append(out, PeriodMonth)
	}
	if b.Quarter {
		out = append(out, PeriodQuarter)
	}
	if b.Year {
		out = append(out, PeriodYear)
	}
	return out
}

// Calendar is the simulation clock embedded in the world.
//
// Invariants:
//   - day increases by exactly one per Advance
//   - week/month/quarter/year increase only when day is a multiple of 7/30/90/360
//   - counters never regress except through Reset
type Calendar struct {
	date    time.Time
	day     int
	week    int
	month   int
	quarter int
	year    int
}

// New creates a calendar positioned at the epoch
func New() *Calendar {
	c := &Calendar{}
	c.Reset()
	return c
}

// Advance moves the calendar forward one day and returns the boundaries crossed
func (c *Calendar) Advance() Boundaries {
	c.day++
	c.date = c.date.AddDate(0, 0, 1)

	b := Boundaries{
		Week:    c.day%DaysPerWeek == 0,
		Month:   c.day%DaysPerMonth == 0,
		Quarter: c.day%DaysPerQuarter == 0,
		Year:    c.day%DaysPerYear == 0,
	}
	if b.Week {
		c.week++
	}
	if b.Month {
		c.month++
	}
	if b.Quarter {
		c.quarter++
	}
	if b.Year {
		c.year++
	}
	return b
}

// Reset returns the calendar to the epoch
func (c *Calendar) Reset() {
	c.date = Epoch
	c.day = 0
	c.week = 1
	c.month = 1
	c.quarter = 1
	c.year = 1
}

// Getters

func (c *Calendar) Date() time.Time { return c.date }
func (c *Calendar) Day() int        { return c.day }
func (c *Calendar) Week() int       { return c.week }
func (c *Calendar) Month() int      { return c.month }
func (c *Calendar) Quarter() int    { return c.quarter }
func (c *Calendar) Year() int       { return c.year }

// DayOfMonth returns the 1-based position of the current day within its 30-day month
func (c *Calendar) DayOfMonth() int {
	dom := c.day % DaysPerMonth
	if dom == 0 {
		return DaysPerMonth
	}
	return dom
}

// State is the serializable form of a Calendar
type State struct {
	Date    time.Time `json:"date"`
	Day     int       `json:"day"`
	Week    int       `json:"week"`
	Month   int       `json:"month"`
	Quarter int       `json:"quarter"`
	Year    int       `json:"year"`
}

// State captures the calendar counters
func (c *Calendar) State() State {
	return State{
		Date:    c.date,
		Day:     c.day,
		Week:    c.week,
		Month:   c.month,
		Quarter: c.quarter,
		Year:    c.year,
	}
}

// Restore overwrites the calendar with a previously captured state
func (c *Calendar) Restore(s State) error {
	if s.Day < 0 || s.Week < 1 || s.Month < 1 || s.Quarter < 1 || s.Year < 1 {
		return fmt.Errorf("invalid calendar state: day=%d week=%d month=%d quarter=%d year=%d",
			s.Day, s.Week, s.Month, s.Quarter, s.Year)
	}
	c.date = s.Date.UTC()
	c.day = s.Day
	c.week = s.Week
	c.month = s.Month
	c.quarter = s.Quarter
	c.year = s.Year
	return nil
}
