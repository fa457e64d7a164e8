package payment

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
)

// Repository defines payment record persistence. Payment rows are insert-only.
type Repository interface {
	// Create inserts the payment and fills in its store-assigned ID.
	Create(ctx context.Context, p *Payment) error

	// ListHistoryByConsumer returns the consumer's payments newest first,
	// joined with method and bill context. A limit of 0 means no limit.
	ListHistoryByConsumer(ctx context.Context, consumerID int64, limit int) ([]*HistoryEntry, error)

	WithTx(tx pgx.Tx) Repository
}

// MethodRepository defines saved payment method persistence.
type MethodRepository interface {
	Create(ctx context.Context, m *Method) error
	GetOwned(ctx context.Context, methodID, consumerID int64) (*Method, error)
	ListByConsumer(ctx context.Context, consumerID int64) ([]*Method, error)

	// ClearDefault unsets the default flag on all of the consumer's methods.
	ClearDefault(ctx context.Context, consumerID int64) error

	// SetDefault flags the method as default. Returns ErrMethodNotFound when
	// the method is absent or not owned by the consumer.
	SetDefault(ctx context.Context, methodID, consumerID int64) error

	Delete(ctx context.Context, methodID, consumerID int64) error
	WithTx(tx pgx.Tx) MethodRepository
}

// ErrMethodNotFound indicates the payment method is absent or not owned by
// the caller.
type ErrMethodNotFound struct {
	MethodID int64
}

func (e ErrMethodNotFound) Error() string {
	return "payment method not found: " + strconv.FormatInt(e.MethodID, 10)
}
