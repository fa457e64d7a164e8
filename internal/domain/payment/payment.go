// Package payment holds the payment record and payment method aggregates.
package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("payment amount must be positive")

// Status of a payment record. There is no partial or failed state: a payment
// row exists only once the full application transaction has committed.
type Status string

const StatusCompleted Status = "Completed"

// Payment is an immutable record of a bill being settled. It references
// exactly one bill and exactly one payment method.
type Payment struct {
	ID       int64           `json:"payment_id"`
	BillID   int64           `json:"bill_document_id"`
	MethodID int64           `json:"method_id"`
	Amount   decimal.Decimal `json:"payment_amount"`
	Status   Status          `json:"status"`
	PaidAt   time.Time       `json:"payment_date"`
}

// NewPayment builds a payment record pending insertion. The ID is assigned by
// the store.
func NewPayment(billID, methodID int64, amount decimal.Decimal) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return &Payment{
		BillID:   billID,
		MethodID: methodID,
		Amount:   amount,
		Status:   StatusCompleted,
		PaidAt:   time.Now().UTC(),
	}, nil
}

// HistoryEntry is a payment joined with its method and bill context for the
// consumer's payment history view.
type HistoryEntry struct {
	Payment
	Channel     Channel         `json:"method_name"`
	IsDefault   bool            `json:"is_default"`
	BillAmount  decimal.Decimal `json:"total_amount"`
	UtilityName string          `json:"utility_name"`
	BilledAt    time.Time       `json:"bill_generation_date"`
}
