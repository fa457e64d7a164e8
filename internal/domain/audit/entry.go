// Package audit models the append-only payment audit trail stored in MongoDB.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is an immutable record of a payment attempt. Amounts are kept as
// fixed-point strings so the trail is exact regardless of BSON numeric types.
type Entry struct {
	EventID       uuid.UUID `json:"event_id" bson:"event_id"`
	PaymentID     int64     `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
	BillID        int64     `json:"bill_document_id" bson:"bill_document_id"`
	ConsumerID    int64     `json:"consumer_id" bson:"consumer_id"`
	MethodID      int64     `json:"method_id" bson:"method_id"`
	Amount        string    `json:"amount" bson:"amount"`
	Outcome       string    `json:"outcome" bson:"outcome"`
	FailureReason string    `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	RecordedAt    time.Time `json:"recorded_at" bson:"recorded_at"`
}
