package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// TransactionID identifies a transaction
type TransactionID struct {
	value uuid.UUID
}

// NewTransactionID creates a new TransactionID with a generated UUID
func NewTransactionID() TransactionID {
	return TransactionID{value: uuid.New()}
}

// ParseTransactionID parses a persisted transaction id
func ParseTransactionID(id string) (TransactionID, error) {
	if id == "" {
		return TransactionID{}, fmt.Errorf("transaction_id cannot be empty")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return TransactionID{}, fmt.Errorf("invalid transaction_id format: %w", err)
	}
	return TransactionID{value: parsed}, nil
}

func (t TransactionID) String() string {
	return t.value.String()
}

// IsZero checks if the TransactionID is uninitialized
func (t TransactionID) IsZero() bool {
	return t.value == uuid.Nil
}
