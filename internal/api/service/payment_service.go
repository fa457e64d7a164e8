package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Chihiro-bmp/CitySync/internal/domain/audit"
	"github.com/Chihiro-bmp/CitySync/internal/domain/billing"
	"github.com/Chihiro-bmp/CitySync/internal/domain/payment"
	"github.com/Chihiro-bmp/CitySync/internal/domain/shared"
	"github.com/Chihiro-bmp/CitySync/internal/platform/persistence"
)

// PaymentServiceImpl implements PaymentService
type PaymentServiceImpl struct {
	db          persistence.TxRunner
	billRepo    billing.Repository
	paymentRepo payment.Repository
	methodRepo  payment.MethodRepository
	auditRepo   audit.Repository
	dispatcher  EventDispatcher
	logger      *slog.Logger
}

func NewPaymentService(
	db persistence.TxRunner,
	billRepo billing.Repository,
	paymentRepo payment.Repository,
	methodRepo payment.MethodRepository,
	auditRepo audit.Repository,
	dispatcher EventDispatcher,
	logger *slog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		db:          db,
		billRepo:    billRepo,
		paymentRepo: paymentRepo,
		methodRepo:  methodRepo,
		auditRepo:   auditRepo,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// ApplyPayment settles a bill inside one transaction: lock the bill row,
// verify it is still UNPAID and the method belongs to the payer, insert the
// payment record, and flip the bill to PAID with a status guard. Two
// concurrent attempts on the same bill serialize on the row lock, so exactly
// one commits and the other observes PAID.
//
// Side effects (audit trail, payment event) run after the transaction's fate
// is known and never influence it.
func (s *PaymentServiceImpl) ApplyPayment(ctx context.Context, consumerID, billID, methodID int64, amount decimal.Decimal, correlationID string) (*payment.Payment, error) {
	pay, err := payment.NewPayment(billID, methodID, amount)
	if err != nil {
		return nil, err
	}

	txErr := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		bills := s.billRepo.WithTx(tx)

		bill, err := bills.LockOwnedForUpdate(ctx, billID, consumerID)
		if err != nil {
			return err
		}
		if bill.Status == billing.StatusPaid {
			return billing.ErrBillAlreadyPaid{BillID: billID}
		}

		if _, err := s.methodRepo.WithTx(tx).GetOwned(ctx, methodID, consumerID); err != nil {
			return err
		}

		if err := s.paymentRepo.WithTx(tx).Create(ctx, pay); err != nil {
			return err
		}

		return bills.MarkPaid(ctx, billID)
	})

	event := &shared.PaymentEvent{
		EventID:       uuid.New(),
		BillID:        billID,
		ConsumerID:    consumerID,
		MethodID:      methodID,
		Amount:        amount,
		CorrelationID: correlationID,
		OccurredAt:    time.Now().UTC(),
	}

	if txErr != nil {
		s.logger.Warn("Payment attempt failed",
			"bill_id", billID,
			"consumer_id", consumerID,
			"error", txErr,
		)
		event.Outcome = shared.PaymentOutcomeFailed
		event.FailureReason = txErr.Error()
		s.dispatcher.Dispatch(event)
		return nil, txErr
	}

	s.logger.Info("Payment applied",
		"payment_id", pay.ID,
		"bill_id", billID,
		"consumer_id", consumerID,
	)
	event.PaymentID = pay.ID
	event.Outcome = shared.PaymentOutcomeCompleted
	s.dispatcher.Dispatch(event)

	return pay, nil
}

// ListHistory returns the consumer's payments newest first.
func (s *PaymentServiceImpl) ListHistory(ctx context.Context, consumerID int64, limit int) ([]*payment.HistoryEntry, error) {
	entries, err := s.paymentRepo.ListHistoryByConsumer(ctx, consumerID, limit)
	if err != nil {
		s.logger.Error("Failed to list payment history", "consumer_id", consumerID, "error", err)
		return nil, err
	}
	return entries, nil
}

// ListAttempts returns the audit trail for one of the consumer's bills. The
// ownership check runs against the bill, so the trail of someone else's bill
// reads as ErrBillNotFound.
func (s *PaymentServiceImpl) ListAttempts(ctx context.Context, consumerID, billID int64) ([]*audit.Entry, error) {
	if _, err := s.billRepo.GetOwned(ctx, billID, consumerID); err != nil {
		return nil, err
	}

	entries, err := s.auditRepo.ListByBillID(ctx, billID)
	if err != nil {
		s.logger.Error("Failed to list payment attempts", "bill_id", billID, "error", err)
		return nil, err
	}
	return entries, nil
}

// GetAttempt retrieves a single attempt record by its event ID.
func (s *PaymentServiceImpl) GetAttempt(ctx context.Context, consumerID int64, eventID uuid.UUID) (*audit.Entry, error) {
	entry, err := s.auditRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if entry.ConsumerID != consumerID {
		return nil, audit.ErrEntryNotFound{EventID: eventID}
	}
	return entry, nil
}
