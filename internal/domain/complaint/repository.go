package complaint

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository defines complaint persistence for the consumer portal.
type Repository interface {
	// Create inserts the complaint and fills in its store-assigned ID.
	Create(ctx context.Context, c *Complaint) error

	// ListByConsumer returns the consumer's complaints newest first, with the
	// utility name of the referenced connection when present.
	ListByConsumer(ctx context.Context, consumerID int64) ([]*Complaint, error)

	WithTx(tx pgx.Tx) Repository
}
