package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidTransaction rejects a transaction before it reaches the balance
type ErrInvalidTransaction struct {
	Field  string
	Reason string
}

func (e *ErrInvalidTransaction) Error() string {
	return fmt.Sprintf("invalid transaction %s: %s", e.Field, e.Reason)
}

// ErrBalanceInvariantViolation means balance_after != balance_before + signed amount.
// Seeing it indicates a ledger bug, never bad input.
type ErrBalanceInvariantViolation struct {
	BalanceBefore decimal.Decimal
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	Expected      decimal.Decimal
}

func (e *ErrBalanceInvariantViolation) Error() string {
	return fmt.Sprintf("ledger out of balance: %s + (%s) left %s, expected %s",
		e.BalanceBefore.StringFixed(2), e.Amount.StringFixed(2), e.BalanceAfter.StringFixed(2), e.Expected.StringFixed(2))
}
