package service

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/Chihiro-bmp/CitySync/internal/domain/payment"
	"github.com/Chihiro-bmp/CitySync/internal/platform/persistence"
)

// PaymentMethodServiceImpl implements PaymentMethodService
type PaymentMethodServiceImpl struct {
	db         persistence.TxRunner
	methodRepo payment.MethodRepository
	logger     *slog.Logger
}

func NewPaymentMethodService(db persistence.TxRunner, methodRepo payment.MethodRepository, logger *slog.Logger) *PaymentMethodServiceImpl {
	return &PaymentMethodServiceImpl{
		db:         db,
		methodRepo: methodRepo,
		logger:     logger,
	}
}

// AddMethod stores a new method. A method flagged default clears the previous
// default inside the same transaction, so the partial unique index on
// (consumer_id) WHERE is_default never sees two defaults.
func (s *PaymentMethodServiceImpl) AddMethod(ctx context.Context, m *payment.Method) error {
	if !m.IsDefault {
		return s.methodRepo.Create(ctx, m)
	}

	return s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		methods := s.methodRepo.WithTx(tx)
		if err := methods.ClearDefault(ctx, m.ConsumerID); err != nil {
			return err
		}
		return methods.Create(ctx, m)
	})
}

// ListMethods returns the consumer's saved methods, default first.
func (s *PaymentMethodServiceImpl) ListMethods(ctx context.Context, consumerID int64) ([]*payment.Method, error) {
	return s.methodRepo.ListByConsumer(ctx, consumerID)
}

// SetDefault clears the consumer's current default and flags the given method
// in one transaction. Returns ErrMethodNotFound when the method is absent or
// owned by someone else; in that case the clear rolls back too.
func (s *PaymentMethodServiceImpl) SetDefault(ctx context.Context, consumerID, methodID int64) error {
	return s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		methods := s.methodRepo.WithTx(tx)
		if err := methods.ClearDefault(ctx, consumerID); err != nil {
			return err
		}
		return methods.SetDefault(ctx, methodID, consumerID)
	})
}

// DeleteMethod removes a saved method. Payment rows keep referencing the
// method ID, so deletion is rejected by the store while payments exist.
func (s *PaymentMethodServiceImpl) DeleteMethod(ctx context.Context, consumerID, methodID int64) error {
	if err := s.methodRepo.Delete(ctx, methodID, consumerID); err != nil {
		s.logger.Warn("Failed to delete payment method", "method_id", methodID, "consumer_id", consumerID, "error", err)
		return err
	}
	return nil
}
