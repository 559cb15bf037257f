package production

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
)

// WorkOrderStatus is the lifecycle position of a work order
type WorkOrderStatus string

const (
	StatusScheduled        WorkOrderStatus = "SCHEDULED"
	StatusWaitingMaterials WorkOrderStatus = "WAITING_MATERIALS"
	StatusInProgress       WorkOrderStatus = "IN_PROGRESS"
	StatusCompleted        WorkOrderStatus = "COMPLETED"
	StatusCancelled        WorkOrderStatus = "CANCELLED"
)

var transitions = shared.NewTransitionTable("work order", map[WorkOrderStatus][]WorkOrderStatus{
	StatusScheduled:        {StatusWaitingMaterials, StatusInProgress, StatusCancelled},
	StatusWaitingMaterials: {StatusScheduled, StatusInProgress, StatusCancelled},
	StatusInProgress:       {StatusCompleted, StatusCancelled},
})

// IsValid checks if the status is valid
func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusWaitingMaterials, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive reports whether the order still occupies the production schedule
func (s WorkOrderStatus) IsActive() bool {
	return s.IsValid() && !transitions.IsTerminal(s)
}

func (s WorkOrderStatus) String() string {
	return string(s)
}

// ParseWorkOrderStatus parses a string into a WorkOrderStatus
func ParseWorkOrderStatus(s string) (WorkOrderStatus, error) {
	status := WorkOrderStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid work order status: %s", s)
	}
	return status, nil
}

// Raw materials consumed per unit produced
const (
	MaterialFrame   = "RM-001"
	MaterialCircuit = "RM-002"
)

// RequiredMaterialsFor returns the bill of materials for a production run
func RequiredMaterialsFor(quantity int) map[string]int {
	return map[string]int{
		MaterialFrame:   quantity * 2,
		MaterialCircuit: quantity,
	}
}

// WorkOrder is a production run of one product.
//
// Invariants:
//   - progress is within [0,100] and never decreases
//   - Complete succeeds once; afterwards the order is terminal
type WorkOrder struct {
	id                uuid.UUID
	productID         string
	quantity          int
	status            WorkOrderStatus
	progress          int
	requiredMaterials map[string]int
	createdAt         time.Time
	startedAt         *time.Time
	completedAt       *time.Time
}

// NewWorkOrder creates a scheduled work order
func NewWorkOrder(productID string, quantity int, createdAt time.Time) (*WorkOrder, error) {
	if productID == "" {
		return nil, shared.NewValidationError("product_id", "cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("quantity", fmt.Sprintf("must be positive, got %d", quantity))
	}
	return &WorkOrder{
		id:                uuid.New(),
		productID:         productID,
		quantity:          quantity,
		status:            StatusScheduled,
		requiredMaterials: RequiredMaterialsFor(quantity),
		createdAt:         createdAt,
	}, nil
}

// ReconstructWorkOrder rebuilds a work order from a snapshot
func ReconstructWorkOrder(
	id uuid.UUID,
	productID string,
	quantity int,
	status WorkOrderStatus,
	progress int,
	requiredMaterials map[string]int,
	createdAt time.Time,
	startedAt *time.Time,
	completedAt *time.Time,
) *WorkOrder {
	materials := make(map[string]int, len(requiredMaterials))
	for k, v := range requiredMaterials {
		materials[k] = v
	}
	return &WorkOrder{
		id:                id,
		productID:         productID,
		quantity:          quantity,
		status:            status,
		progress:          progress,
		requiredMaterials: materials,
		createdAt:         createdAt,
		startedAt:         startedAt,
		completedAt:       completedAt,
	}
}

// Getters

func (w *WorkOrder) ID() uuid.UUID           { return w.id }
func (w *WorkOrder) ProductID() string       { return w.productID }
func (w *WorkOrder) Quantity() int           { return w.quantity }
func (w *WorkOrder) Status() WorkOrderStatus { return w.status }
func (w *WorkOrder) Progress() int           { return w.progress }
func (w *WorkOrder) CreatedAt() time.Time    { return w.createdAt }
func (w *WorkOrder) StartedAt() *time.Time   { return w.startedAt }
func (w *WorkOrder) CompletedAt() *time.Time { return w.completedAt }

// RequiredMaterials returns a copy of the bill of materials
func (w *WorkOrder) RequiredMaterials() map[string]int {
	out := make(map[string]int, len(w.requiredMaterials))
	for k, v := range w.requiredMaterials {
		out[k] = v
	}
	return out
}

// IsActive reports whether the order is neither completed nor cancelled
func (w *WorkOrder) IsActive() bool {
	return w.status.IsActive()
}

// AwaitMaterials parks the order until materials arrive
func (w *WorkOrder) AwaitMaterials() error {
	if err := transitions.Check(w.status, StatusWaitingMaterials); err != nil {
		return err
	}
	w.status = StatusWaitingMaterials
	return nil
}

// Reschedule returns a waiting order to the schedule
func (w *WorkOrder) Reschedule() error {
	if err := transitions.Check(w.status, StatusScheduled); err != nil {
		return err
	}
	w.status = StatusScheduled
	return nil
}

// Start moves the order into production
func (w *WorkOrder) Start(at time.Time) error {
	if err := transitions.Check(w.status, StatusInProgress); err != nil {
		return err
	}
	w.status = StatusInProgress
	started := at
	w.startedAt = &started
	return nil
}

// Advance adds progress to an in-progress order, capped at 100.
// Returns true when the order has reached 100 and is ready to complete.
func (w *WorkOrder) Advance(increment int) (bool, error) {
	if w.status != StatusInProgress {
		return false, shared.NewInvalidStatusTransitionError("work order", string(w.status), "progress")
	}
	if increment < 0 {
		return false, shared.NewValidationError("increment", "cannot be negative")
	}
	w.progress += increment
	if w.progress > 100 {
		w.progress = 100
	}
	return w.progress >= 100, nil
}

// Complete marks a fully progressed order completed.
// A second call fails, so callers crediting inventory on success do so exactly once.
func (w *WorkOrder) Complete(at time.Time) error {
	if err := transitions.Check(w.status, StatusCompleted); err != nil {
		return err
	}
	if w.progress < 100 {
		return shared.NewValidationError("progress", fmt.Sprintf("cannot complete at %d%%", w.progress))
	}
	w.status = StatusCompleted
	completed := at
	w.completedAt = &completed
	return nil
}

// Cancel abandons the order
func (w *WorkOrder) Cancel() error {
	if err := transitions.Check(w.status, StatusCancelled); err != nil {
		return err
	}
	w.status = StatusCancelled
	return nil
}

func (w *WorkOrder) String() string {
	return fmt.Sprintf("WorkOrder[%s, product=%s, qty=%d, status=%s, progress=%d%%]",
		w.id, w.productID, w.quantity, w.status, w.progress)
}
