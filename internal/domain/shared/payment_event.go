// Package shared holds cross-cutting types exchanged between the payment
// service, the audit trail, and the event producer.
package shared

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentOutcome records how a payment attempt ended.
type PaymentOutcome string

const (
	PaymentOutcomeCompleted PaymentOutcome = "COMPLETED"
	PaymentOutcomeFailed    PaymentOutcome = "FAILED"
)

// PaymentEvent describes the outcome of a payment attempt. Completed events
// are published to Kafka for downstream receipt and notification consumers;
// all events are appended to the audit trail.
type PaymentEvent struct {
	EventID       uuid.UUID       `json:"event_id"`
	PaymentID     int64           `json:"payment_id,omitempty"`
	BillID        int64           `json:"bill_document_id"`
	ConsumerID    int64           `json:"consumer_id"`
	MethodID      int64           `json:"method_id"`
	Amount        decimal.Decimal `json:"amount"`
	Outcome       PaymentOutcome  `json:"outcome"`
	FailureReason string          `json:"failure_reason,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
