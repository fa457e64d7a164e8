package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Chihiro-bmp/CitySync/internal/domain/application"
	"github.com/Chihiro-bmp/CitySync/internal/domain/audit"
	"github.com/Chihiro-bmp/CitySync/internal/domain/billing"
	"github.com/Chihiro-bmp/CitySync/internal/domain/complaint"
	"github.com/Chihiro-bmp/CitySync/internal/domain/connection"
	"github.com/Chihiro-bmp/CitySync/internal/domain/payment"
	"github.com/Chihiro-bmp/CitySync/internal/domain/shared"
)

// BillingService defines the read side of the bill ledger. Every returned
// bill carries a display status derived at read time.
type BillingService interface {
	// ListBills returns the consumer's bills newest first. A limit of 0 means
	// no limit.
	ListBills(ctx context.Context, consumerID int64, limit int) ([]*billing.Bill, error)

	// GetBill retrieves one bill owned by the consumer.
	// Returns ErrBillNotFound if absent or owned by someone else.
	GetBill(ctx context.Context, consumerID, billID int64) (*billing.Bill, error)

	// GetSummary aggregates all of the consumer's bills by display status.
	GetSummary(ctx context.Context, consumerID int64) (*billing.Summary, error)
}

// PaymentService defines payment application and history.
type PaymentService interface {
	// ApplyPayment settles a bill with a saved method. The payment insert and
	// the UNPAID to PAID flip happen in one transaction; a second call for
	// the same bill fails with ErrBillAlreadyPaid.
	ApplyPayment(ctx context.Context, consumerID, billID, methodID int64, amount decimal.Decimal, correlationID string) (*payment.Payment, error)

	// ListHistory returns the consumer's payments newest first. A limit of 0
	// means no limit.
	ListHistory(ctx context.Context, consumerID int64, limit int) ([]*payment.HistoryEntry, error)

	// ListAttempts returns the audit trail for one of the consumer's bills,
	// oldest first, including failed attempts that produced no payment row.
	ListAttempts(ctx context.Context, consumerID, billID int64) ([]*audit.Entry, error)

	// GetAttempt retrieves a single attempt record by its event ID. Records
	// belonging to other consumers are indistinguishable from absent ones.
	GetAttempt(ctx context.Context, consumerID int64, eventID uuid.UUID) (*audit.Entry, error)
}

// PaymentMethodService defines saved payment method management.
type PaymentMethodService interface {
	// AddMethod stores a new method. When the method is flagged default, the
	// previous default is cleared in the same transaction.
	AddMethod(ctx context.Context, m *payment.Method) error

	ListMethods(ctx context.Context, consumerID int64) ([]*payment.Method, error)

	// SetDefault makes the method the consumer's single default, clearing any
	// previous default in the same transaction.
	SetDefault(ctx context.Context, consumerID, methodID int64) error

	DeleteMethod(ctx context.Context, consumerID, methodID int64) error
}

// ComplaintService defines the consumer side of complaint handling:
// creation and listing only.
type ComplaintService interface {
	FileComplaint(ctx context.Context, consumerID int64, connectionID *int64, description string) (*complaint.Complaint, error)
	ListComplaints(ctx context.Context, consumerID int64) ([]*complaint.Complaint, error)
}

// ApplicationService defines new-connection application submission and
// listing.
type ApplicationService interface {
	SubmitApplication(ctx context.Context, consumerID int64, utilityType, connectionType, address string, priority application.Priority) (*application.Application, error)
	ListApplications(ctx context.Context, consumerID int64) ([]*application.Application, error)
}

// ConnectionService defines utility connection listing.
type ConnectionService interface {
	ListConnections(ctx context.Context, consumerID int64) ([]*connection.Connection, error)
}

// EventDispatcher hands payment events to the post-commit side-effect
// pipeline (audit trail, event topic).
type EventDispatcher interface {
	Dispatch(event *shared.PaymentEvent)
}
