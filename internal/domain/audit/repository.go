package audit

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages the payment audit trail.
type Repository interface {
	// Append stores a new entry. Entries are never updated or deleted.
	Append(ctx context.Context, entry *Entry) error

	// GetByEventID retrieves a single attempt record, the consumer-facing
	// receipt of a payment attempt.
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*Entry, error)

	// ListByBillID returns all recorded attempts against a bill, oldest first.
	ListByBillID(ctx context.Context, billID int64) ([]*Entry, error)
}

// ErrEntryNotFound indicates a missing audit entry.
type ErrEntryNotFound struct {
	EventID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "audit entry not found for event: " + e.EventID.String()
}
