package billing

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
)

// Repository defines bill persistence operations. Bills are created by the
// billing-generation process outside this service; the only mutation exposed
// here is the UNPAID to PAID flip.
type Repository interface {
	// ListByConsumer returns the consumer's bills newest first. A limit of 0
	// means no limit.
	ListByConsumer(ctx context.Context, consumerID int64, limit int) ([]*Bill, error)

	// GetOwned retrieves a bill only if its connection belongs to the consumer.
	GetOwned(ctx context.Context, billID, consumerID int64) (*Bill, error)

	// LockOwnedForUpdate is GetOwned with a row lock on the bill document.
	// Must be called inside a transaction.
	LockOwnedForUpdate(ctx context.Context, billID, consumerID int64) (*Bill, error)

	// MarkPaid flips the bill to PAID, guarded on the current status being
	// UNPAID. Returns ErrBillAlreadyPaid when the guard matches no row.
	MarkPaid(ctx context.Context, billID int64) error

	WithTx(tx pgx.Tx) Repository
}

// ErrBillNotFound indicates the bill is absent or not owned by the caller.
type ErrBillNotFound struct {
	BillID int64
}

func (e ErrBillNotFound) Error() string {
	return "bill not found: " + strconv.FormatInt(e.BillID, 10)
}

// ErrBillAlreadyPaid indicates an attempt to pay a bill a second time.
type ErrBillAlreadyPaid struct {
	BillID int64
}

func (e ErrBillAlreadyPaid) Error() string {
	return "bill already paid: " + strconv.FormatInt(e.BillID, 10)
}
