package simulation

import "fmt"

// TickPanicError wraps a panic recovered from the tick body
type TickPanicError struct {
	Value interface{}
	Stack []byte
}

func (e *TickPanicError) Error() string {
	return fmt.Sprintf("tick panicked: %v", e.Value)
}
