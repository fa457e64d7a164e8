package application

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository defines connection application persistence for the consumer
// portal.
type Repository interface {
	Create(ctx context.Context, a *Application) error
	ListByConsumer(ctx context.Context, consumerID int64) ([]*Application, error)
	WithTx(tx pgx.Tx) Repository
}
