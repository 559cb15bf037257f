package commands

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/domain/ledger"
	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// RecordTransactionCommand applies a revenue or expense to the ledger.
// Type is REVENUE or EXPENSE.
type RecordTransactionCommand struct {
	Type        string
	Category    string
	Amount      decimal.Decimal
	Description string
}

// RecordTransactionResponse reports whether the ledger accepted the transaction
type RecordTransactionResponse struct {
	TransactionID string
	Approved      bool
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	DeclineReason string
}

// RecordTransactionHandler handles RecordTransactionCommand
type RecordTransactionHandler struct {
	engine *simulation.Engine
}

// NewRecordTransactionHandler creates a new RecordTransactionHandler
func NewRecordTransactionHandler(engine *simulation.Engine) *RecordTransactionHandler {
	return &RecordTransactionHandler{engine: engine}
}

// Handle applies the transaction between ticks. A declined expense is not an error.
func (h *RecordTransactionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RecordTransactionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RecordTransactionCommand")
	}
	category, err := ledger.ParseCategory(cmd.Category)
	if err != nil {
		return nil, shared.NewValidationError("category", err.Error())
	}
	txType := ledger.TransactionTypeExpense
	if cmd.Type != "" {
		if txType, err = ledger.ParseTransactionType(cmd.Type); err != nil {
			return nil, shared.NewValidationError("type", err.Error())
		}
	}

	var resp *RecordTransactionResponse
	err = h.engine.Exec(func(w *world.World) error {
		tx, err := ledger.NewTransaction(txType, category, cmd.Amount, cmd.Description, w.Now())
		if err != nil {
			return err
		}

		result, err := w.ProcessTransaction(tx)
		if err != nil {
			return err
		}
		resp = &RecordTransactionResponse{
			TransactionID: tx.ID().String(),
			Approved:      result.Approved,
			BalanceBefore: result.BalanceBefore,
			BalanceAfter:  result.BalanceAfter,
			DeclineReason: result.DeclineReason,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
