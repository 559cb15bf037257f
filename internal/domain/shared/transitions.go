package shared

// TransitionTable describes the legal moves of a status lifecycle.
// Entities build one at package init and consult it before mutating status.
type TransitionTable[S ~string] struct {
	entity string
	edges  map[S]map[S]struct{}
}

// NewTransitionTable builds a table for the named entity from an adjacency list
func NewTransitionTable[S ~string](entity string, edges map[S][]S) TransitionTable[S] {
	table := TransitionTable[S]{entity: entity, edges: make(map[S]map[S]struct{}, len(edges))}
	for from, targets := range edges {
		set := make(map[S]struct{}, len(targets))
		for _, to := range targets {
			set[to] = struct{}{}
		}
		table.edges[from] = set
	}
	return table
}

// CanTransition reports whether from -> to is a declared edge
func (t TransitionTable[S]) CanTransition(from, to S) bool {
	targets, ok := t.edges[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// Check returns an InvalidStatusTransitionError when from -> to is not declared
func (t TransitionTable[S]) Check(from, to S) error {
	if t.CanTransition(from, to) {
		return nil
	}
	return NewInvalidStatusTransitionError(t.entity, string(from), string(to))
}

// IsTerminal reports whether no transitions leave the given status
func (t TransitionTable[S]) IsTerminal(status S) bool {
	return len(t.edges[status]) == 0
}
