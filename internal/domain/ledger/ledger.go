package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Totals is a revenue/expense accumulator for one reporting period
type Totals struct {
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
}

// Profit returns revenue minus expenses
func (t Totals) Profit() decimal.Decimal {
	return t.Revenue.Sub(t.Expenses)
}

func (t Totals) add(other Totals) Totals {
	return Totals{
		Revenue:  t.Revenue.Add(other.Revenue),
		Expenses: t.Expenses.Add(other.Expenses),
	}
}

// Ledger holds the company cash balance and its period accumulators.
//
// Apply is the only operation that changes the balance. Accumulators move
// one way: month folds into quarter, quarter into year, year into lifetime,
// and each is zeroed only after being folded.
type Ledger struct {
	balance   decimal.Decimal
	monthly   Totals
	quarterly Totals
	yearly    Totals
	lifetime  Totals
}

// NewLedger creates a ledger with the given opening balance
func NewLedger(openingBalance decimal.Decimal) *Ledger {
	return &Ledger{balance: openingBalance}
}

// Apply validates and applies a transaction.
// Expenses exceeding the balance are declined and leave the ledger untouched.
func (l *Ledger) Apply(tx *Transaction) (TransactionResult, error) {
	if tx == nil {
		return TransactionResult{}, &ErrInvalidTransaction{Field: "transaction", Reason: "transaction is nil"}
	}
	if err := tx.Validate(); err != nil {
		return TransactionResult{}, err
	}

	result := TransactionResult{
		Transaction:   tx,
		BalanceBefore: l.balance,
	}

	switch tx.TransactionType() {
	case TransactionTypeExpense:
		if l.balance.LessThan(tx.Amount()) {
			result.BalanceAfter = l.balance
			result.DeclineReason = fmt.Sprintf("insufficient funds: need %s, have %s",
				tx.Amount().StringFixed(2), l.balance.StringFixed(2))
			return result, nil
		}
		l.balance = l.balance.Sub(tx.Amount())
		l.monthly.Expenses = l.monthly.Expenses.Add(tx.Amount())
	case TransactionTypeRevenue:
		l.balance = l.balance.Add(tx.Amount())
		l.monthly.Revenue = l.monthly.Revenue.Add(tx.Amount())
	}

	result.Approved = true
	result.BalanceAfter = l.balance
	return result, result.Validate()
}

// CloseMonth folds the monthly totals into the quarter and resets them.
// Returns the totals of the month just closed.
func (l *Ledger) CloseMonth() Totals {
	closed := l.monthly
	l.quarterly = l.quarterly.add(closed)
	l.monthly = Totals{}
	return closed
}

// CloseQuarter folds the quarterly totals into the year and resets them
func (l *Ledger) CloseQuarter() Totals {
	closed := l.quarterly
	l.yearly = l.yearly.add(closed)
	l.quarterly = Totals{}
	return closed
}

// CloseYear folds the yearly totals into the lifetime totals and resets them
func (l *Ledger) CloseYear() Totals {
	closed := l.yearly
	l.lifetime = l.lifetime.add(closed)
	l.yearly = Totals{}
	return closed
}

// Getters

func (l *Ledger) Balance() decimal.Decimal { return l.balance }
func (l *Ledger) Monthly() Totals          { return l.monthly }
func (l *Ledger) Quarterly() Totals        { return l.quarterly }
func (l *Ledger) Yearly() Totals           { return l.yearly }
func (l *Ledger) Lifetime() Totals         { return l.lifetime }

// State is the serializable form of a Ledger
type State struct {
	Balance   decimal.Decimal `json:"balance"`
	Monthly   Totals          `json:"monthly"`
	Quarterly Totals          `json:"quarterly"`
	Yearly    Totals          `json:"yearly"`
	Lifetime  Totals          `json:"lifetime"`
}

// State captures the ledger
func (l *Ledger) State() State {
	return State{
		Balance:   l.balance,
		Monthly:   l.monthly,
		Quarterly: l.quarterly,
		Yearly:    l.yearly,
		Lifetime:  l.lifetime,
	}
}

// Restore overwrites the ledger with a captured state
func (l *Ledger) Restore(s State) {
	l.balance = s.Balance
	l.monthly = s.Monthly
	l.quarterly = s.Quarterly
	l.yearly = s.Yearly
	l.lifetime = s.Lifetime
}
