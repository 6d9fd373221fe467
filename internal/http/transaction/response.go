package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payledger/internal/transaction"
)

// Response is the wire representation of a transaction. It is shared with
// the user handler for the per-user listing endpoint.
type Response struct {
	ID          uuid.UUID            `json:"id"`
	UserID      uuid.UUID            `json:"user_id"`
	Amount      decimal.Decimal      `json:"amount"`
	Currency    transaction.Currency `json:"currency"`
	Type        transaction.Type     `json:"type"`
	Status      transaction.Status   `json:"status"`
	Description string               `json:"description"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func ToResponse(tx *transaction.Transaction) Response {
	return Response{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Amount:      tx.Amount,
		Currency:    tx.Currency,
		Type:        tx.Type,
		Status:      tx.Status,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func ToResponseList(txs []*transaction.Transaction) []Response {
	resp := make([]Response, len(txs))
	for i, tx := range txs {
		resp[i] = ToResponse(tx)
	}

	return resp
}
