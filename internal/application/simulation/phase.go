package simulation

// Phase is the business cycle stage derived from the day of the month
type Phase string

const (
	PhasePlanning  Phase = "PLANNING"
	PhaseExecution Phase = "EXECUTION"
	PhaseReview    Phase = "REVIEW"
)

// PhaseForDay maps a day of month (1..30) to its phase:
// 1-10 planning, 11-25 execution, 26-30 review
func PhaseForDay(dayOfMonth int) Phase {
	switch {
	case dayOfMonth <= 10:
		return PhasePlanning
	case dayOfMonth <= 25:
		return PhaseExecution
	default:
		return PhaseReview
	}
}

func (p Phase) String() string {
	return string(p)
}
