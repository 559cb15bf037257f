package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable request to move money in or out of the company account.
// Amounts are always positive; the type decides the direction.
type Transaction struct {
	id              TransactionID
	transactionType TransactionType
	category        Category
	amount          decimal.Decimal
	description     string
	date            time.Time
}

// NewTransaction creates a new transaction with validation
func NewTransaction(
	transactionType TransactionType,
	category Category,
	amount decimal.Decimal,
	description string,
	date time.Time,
) (*Transaction, error) {
	t := &Transaction{
		id:              NewTransactionID(),
		transactionType: transactionType,
		category:        category,
		amount:          amount,
		description:     description,
		date:            date,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// NewRevenue is shorthand for a REVENUE transaction
func NewRevenue(category Category, amount decimal.Decimal, description string, date time.Time) (*Transaction, error) {
	return NewTransaction(TransactionTypeRevenue, category, amount, description, date)
}

// NewExpense is shorthand for an EXPENSE transaction
func NewExpense(category Category, amount decimal.Decimal, description string, date time.Time) (*Transaction, error) {
	return NewTransaction(TransactionTypeExpense, category, amount, description, date)
}

// ReconstructTransaction rebuilds a transaction from persistence without validation
func ReconstructTransaction(
	id TransactionID,
	transactionType TransactionType,
	category Category,
	amount decimal.Decimal,
	description string,
	date time.Time,
) *Transaction {
	return &Transaction{
		id:              id,
		transactionType: transactionType,
		category:        category,
		amount:          amount,
		description:     description,
		date:            date,
	}
}

// Validate checks that the transaction satisfies all invariants
func (t *Transaction) Validate() error {
	if !t.transactionType.IsValid() {
		return &ErrInvalidTransaction{
			Field:  "transaction_type",
			Reason: fmt.Sprintf("invalid transaction type: %s", t.transactionType),
		}
	}

	if !t.category.IsValid() {
		return &ErrInvalidTransaction{
			Field:  "category",
			Reason: fmt.Sprintf("invalid category: %s", t.category),
		}
	}

	if !t.amount.IsPositive() {
		return &ErrInvalidTransaction{
			Field:  "amount",
			Reason: fmt.Sprintf("amount must be positive, got %s", t.amount),
		}
	}

	return nil
}

// Getters (all fields are immutable)

func (t *Transaction) ID() TransactionID {
	return t.id
}

func (t *Transaction) TransactionType() TransactionType {
	return t.transactionType
}

func (t *Transaction) Category() Category {
	return t.category
}

func (t *Transaction) Amount() decimal.Decimal {
	return t.amount
}

func (t *Transaction) Description() string {
	return t.description
}

func (t *Transaction) Date() time.Time {
	return t.date
}

// IsRevenue returns true if the transaction credits the balance
func (t *Transaction) IsRevenue() bool {
	return t.transactionType == TransactionTypeRevenue
}

// IsExpense returns true if the transaction debits the balance
func (t *Transaction) IsExpense() bool {
	return t.transactionType == TransactionTypeExpense
}

// String provides a human-readable representation
func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction[%s, type=%s, category=%s, amount=%s]",
		t.id.String(), t.transactionType, t.category, t.amount.StringFixed(2))
}

// TransactionResult reports the outcome of applying a transaction to a ledger
type TransactionResult struct {
	Transaction   *Transaction
	Approved      bool
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	DeclineReason string
}

// Validate checks the balance arithmetic of an approved result
func (r TransactionResult) Validate() error {
	if !r.Approved {
		if !r.BalanceAfter.Equal(r.BalanceBefore) {
			return &ErrBalanceInvariantViolation{
				BalanceBefore: r.BalanceBefore,
				Amount:        decimal.Zero,
				BalanceAfter:  r.BalanceAfter,
				Expected:      r.BalanceBefore,
			}
		}
		return nil
	}

	signed := r.Transaction.TransactionType().Signed(r.Transaction.Amount())
	expected := r.BalanceBefore.Add(signed)
	if !r.BalanceAfter.Equal(expected) {
		return &ErrBalanceInvariantViolation{
			BalanceBefore: r.BalanceBefore,
			Amount:        signed,
			BalanceAfter:  r.BalanceAfter,
			Expected:      expected,
		}
	}
	return nil
}
