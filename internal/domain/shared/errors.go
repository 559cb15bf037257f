package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Status transition errors

// InvalidStatusTransitionError is returned when an entity is asked to move
// between two statuses its lifecycle does not connect
type InvalidStatusTransitionError struct {
	*DomainError
	Entity string
	From   string
	To     string
}

func NewInvalidStatusTransitionError(entity, from, to string) *InvalidStatusTransitionError {
	return &InvalidStatusTransitionError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s cannot transition from %s to %s", entity, from, to)},
		Entity:      entity,
		From:        from,
		To:          to,
	}
}
