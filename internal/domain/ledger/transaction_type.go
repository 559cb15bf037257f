package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction money moves
type TransactionType string

const (
	TransactionTypeRevenue TransactionType = "REVENUE"

	// TransactionTypeExpense debits the balance and is declined when the balance cannot cover it
	TransactionTypeExpense TransactionType = "EXPENSE"
)

func (t TransactionType) String() string {
	return string(t)
}

func (t TransactionType) IsValid() bool {
	return t == TransactionTypeRevenue || t == TransactionTypeExpense
}

// Signed returns amount as a balance delta: negative for expenses
func (t TransactionType) Signed(amount decimal.Decimal) decimal.Decimal {
	if t == TransactionTypeExpense {
		return amount.Neg()
	}
	return amount
}

// ParseTransactionType accepts either case ("expense", "EXPENSE")
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid transaction type: %s", s)
	}
	return t, nil
}
