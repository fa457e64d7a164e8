package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Chihiro-bmp/CitySync/internal/domain/audit"
	"github.com/Chihiro-bmp/CitySync/internal/domain/billing"
	"github.com/Chihiro-bmp/CitySync/internal/domain/payment"
	"github.com/Chihiro-bmp/CitySync/internal/domain/shared"
)

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListHistoryByConsumer(ctx context.Context, consumerID int64, limit int) ([]*payment.HistoryEntry, error) {
	args := m.Called(ctx, consumerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.HistoryEntry), args.Error(1)
}

func (m *MockPaymentRepository) WithTx(tx pgx.Tx) payment.Repository {
	m.Called(tx)
	return m
}

var _ payment.Repository = (*MockPaymentRepository)(nil)

type MockMethodRepository struct {
	mock.Mock
}

func (m *MockMethodRepository) Create(ctx context.Context, method *payment.Method) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}

func (m *MockMethodRepository) GetOwned(ctx context.Context, methodID, consumerID int64) (*payment.Method, error) {
	args := m.Called(ctx, methodID, consumerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Method), args.Error(1)
}

func (m *MockMethodRepository) ListByConsumer(ctx context.Context, consumerID int64) ([]*payment.Method, error) {
	args := m.Called(ctx, consumerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Method), args.Error(1)
}

func (m *MockMethodRepository) ClearDefault(ctx context.Context, consumerID int64) error {
	args := m.Called(ctx, consumerID)
	return args.Error(0)
}

func (m *MockMethodRepository) SetDefault(ctx context.Context, methodID, consumerID int64) error {
	args := m.Called(ctx, methodID, consumerID)
	return args.Error(0)
}

func (m *MockMethodRepository) Delete(ctx context.Context, methodID, consumerID int64) error {
	args := m.Called(ctx, methodID, consumerID)
	return args.Error(0)
}

func (m *MockMethodRepository) WithTx(tx pgx.Tx) payment.MethodRepository {
	m.Called(tx)
	return m
}

var _ payment.MethodRepository = (*MockMethodRepository)(nil)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) (*audit.Entry, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.Entry), args.Error(1)
}

func (m *MockAuditRepository) ListByBillID(ctx context.Context, billID int64) ([]*audit.Entry, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Entry), args.Error(1)
}

var _ audit.Repository = (*MockAuditRepository)(nil)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(event *shared.PaymentEvent) {
	m.Called(event)
}

var _ EventDispatcher = (*MockDispatcher)(nil)

// fakeTxRunner runs the transactional function directly. The repositories are
// mocks, so there is no real transaction to pass.
type fakeTxRunner struct {
	beginErr error
}

func (f *fakeTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	return fn(nil)
}

func newPaymentTestMethod(consumerID int64) *payment.Method {
	email := "consumer@example.com"
	return &payment.Method{
		ID:          7,
		ConsumerID:  consumerID,
		Channel:     payment.ChannelWallet,
		WalletEmail: &email,
	}
}

func TestPaymentServiceImpl_ApplyPayment(t *testing.T) {
	ctx := context.Background()
	consumerID := int64(10)
	billID := int64(1)
	methodID := int64(7)
	amount := decimal.NewFromFloat(960.50)

	newService := func() (*PaymentServiceImpl, *MockBillRepository, *MockPaymentRepository, *MockMethodRepository, *MockDispatcher) {
		billRepo := new(MockBillRepository)
		paymentRepo := new(MockPaymentRepository)
		methodRepo := new(MockMethodRepository)
		dispatcher := new(MockDispatcher)
		svc := NewPaymentService(&fakeTxRunner{}, billRepo, paymentRepo, methodRepo, new(MockAuditRepository), dispatcher, newServiceTestLogger())
		return svc, billRepo, paymentRepo, methodRepo, dispatcher
	}

	t.Run("Success", func(t *testing.T) {
		svc, billRepo, paymentRepo, methodRepo, dispatcher := newService()

		unpaidBill := &billing.Bill{ID: billID, Status: billing.StatusUnpaid}

		billRepo.On("WithTx", mock.Anything).Return(nil)
		billRepo.On("LockOwnedForUpdate", ctx, billID, consumerID).Return(unpaidBill, nil).Once()
		methodRepo.On("WithTx", mock.Anything).Return(nil)
		methodRepo.On("GetOwned", ctx, methodID, consumerID).Return(newPaymentTestMethod(consumerID), nil).Once()
		paymentRepo.On("WithTx", mock.Anything).Return(nil)
		paymentRepo.On("Create", ctx, mock.AnythingOfType("*payment.Payment")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*payment.Payment).ID = 99
			}).Return(nil).Once()
		billRepo.On("MarkPaid", ctx, billID).Return(nil).Once()
		dispatcher.On("Dispatch", mock.AnythingOfType("*shared.PaymentEvent")).Once()

		pay, err := svc.ApplyPayment(ctx, consumerID, billID, methodID, amount, "corr-1")
		require.NoError(t, err)
		require.NotNil(t, pay)
		assert.Equal(t, int64(99), pay.ID)
		assert.Equal(t, payment.StatusCompleted, pay.Status)

		event := dispatcher.Calls[0].Arguments.Get(0).(*shared.PaymentEvent)
		assert.Equal(t, shared.PaymentOutcomeCompleted, event.Outcome)
		assert.Equal(t, int64(99), event.PaymentID)
		assert.Equal(t, billID, event.BillID)
		assert.Equal(t, "corr-1", event.CorrelationID)

		billRepo.AssertExpectations(t)
		paymentRepo.AssertExpectations(t)
		methodRepo.AssertExpectations(t)
		dispatcher.AssertExpectations(t)
	})

	t.Run("BillAlreadyPaid", func(t *testing.T) {
		svc, billRepo, paymentRepo, _, dispatcher := newService()

		paidBill := &billing.Bill{ID: billID, Status: billing.StatusPaid}

		billRepo.On("WithTx", mock.Anything).Return(nil)
		billRepo.On("LockOwnedForUpdate", ctx, billID, consumerID).Return(paidBill, nil).Once()
		dispatcher.On("Dispatch", mock.AnythingOfType("*shared.PaymentEvent")).Once()

		pay, err := svc.ApplyPayment(ctx, consumerID, billID, methodID, amount, "corr-2")
		assert.Nil(t, pay)
		var alreadyPaid billing.ErrBillAlreadyPaid
		assert.ErrorAs(t, err, &alreadyPaid)
		assert.Equal(t, billID, alreadyPaid.BillID)

		// No payment row and no status flip may happen on a replay.
		paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		billRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)

		event := dispatcher.Calls[0].Arguments.Get(0).(*shared.PaymentEvent)
		assert.Equal(t, shared.PaymentOutcomeFailed, event.Outcome)
		assert.NotEmpty(t, event.FailureReason)
		dispatcher.AssertExpectations(t)
	})

	t.Run("BillNotOwned", func(t *testing.T) {
		svc, billRepo, paymentRepo, _, dispatcher := newService()

		billRepo.On("WithTx", mock.Anything).Return(nil)
		billRepo.On("LockOwnedForUpdate", ctx, billID, consumerID).
			Return(nil, billing.ErrBillNotFound{BillID: billID}).Once()
		dispatcher.On("Dispatch", mock.AnythingOfType("*shared.PaymentEvent")).Once()

		pay, err := svc.ApplyPayment(ctx, consumerID, billID, methodID, amount, "")
		assert.Nil(t, pay)
		var notFound billing.ErrBillNotFound
		assert.ErrorAs(t, err, &notFound)
		paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("MethodNotOwned", func(t *testing.T) {
		svc, billRepo, paymentRepo, methodRepo, dispatcher := newService()

		unpaidBill := &billing.Bill{ID: billID, Status: billing.StatusUnpaid}

		billRepo.On("WithTx", mock.Anything).Return(nil)
		billRepo.On("LockOwnedForUpdate", ctx, billID, consumerID).Return(unpaidBill, nil).Once()
		methodRepo.On("WithTx", mock.Anything).Return(nil)
		methodRepo.On("GetOwned", ctx, methodID, consumerID).
			Return(nil, payment.ErrMethodNotFound{MethodID: methodID}).Once()
		dispatcher.On("Dispatch", mock.AnythingOfType("*shared.PaymentEvent")).Once()

		pay, err := svc.ApplyPayment(ctx, consumerID, billID, methodID, amount, "")
		assert.Nil(t, pay)
		var notFound payment.ErrMethodNotFound
		assert.ErrorAs(t, err, &notFound)
		paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		billRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	})

	t.Run("ConcurrentFlipLosesRace", func(t *testing.T) {
		// The lock read saw UNPAID but the guarded update affected zero rows.
		// The whole transaction rolls back, payment row included.
		svc, billRepo, paymentRepo, methodRepo, dispatcher := newService()

		unpaidBill := &billing.Bill{ID: billID, Status: billing.StatusUnpaid}

		billRepo.On("WithTx", mock.Anything).Return(nil)
		billRepo.On("LockOwnedForUpdate", ctx, billID, consumerID).Return(unpaidBill, nil).Once()
		methodRepo.On("WithTx", mock.Anything).Return(nil)
		methodRepo.On("GetOwned", ctx, methodID, consumerID).Return(newPaymentTestMethod(consumerID), nil).Once()
		paymentRepo.On("WithTx", mock.Anything).Return(nil)
		paymentRepo.On("Create", ctx, mock.AnythingOfType("*payment.Payment")).Return(nil).Once()
		billRepo.On("MarkPaid", ctx, billID).Return(billing.ErrBillAlreadyPaid{BillID: billID}).Once()
		dispatcher.On("Dispatch", mock.AnythingOfType("*shared.PaymentEvent")).Once()

		pay, err := svc.ApplyPayment(ctx, consumerID, billID, methodID, amount, "")
		assert.Nil(t, pay)
		var alreadyPaid billing.ErrBillAlreadyPaid
		assert.ErrorAs(t, err, &alreadyPaid)

		event := dispatcher.Calls[0].Arguments.Get(0).(*shared.PaymentEvent)
		assert.Equal(t, shared.PaymentOutcomeFailed, event.Outcome)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		svc, billRepo, _, _, dispatcher := newService()

		pay, err := svc.ApplyPayment(ctx, consumerID, billID, methodID, decimal.Zero, "")
		assert.Nil(t, pay)
		assert.ErrorIs(t, err, payment.ErrInvalidAmount)

		// Rejected before any transaction or event.
		billRepo.AssertNotCalled(t, "LockOwnedForUpdate", mock.Anything, mock.Anything, mock.Anything)
		dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything)
	})
}

func TestPaymentServiceImpl_ListHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepository)
		svc := NewPaymentService(&fakeTxRunner{}, new(MockBillRepository), paymentRepo, new(MockMethodRepository), new(MockAuditRepository), new(MockDispatcher), newServiceTestLogger())

		entries := []*payment.HistoryEntry{
			{Payment: payment.Payment{ID: 99, BillID: 1}, UtilityName: "Electricity"},
		}
		paymentRepo.On("ListHistoryByConsumer", ctx, int64(10), 20).Return(entries, nil).Once()

		got, err := svc.ListHistory(ctx, 10, 20)
		require.NoError(t, err)
		assert.Equal(t, entries, got)
		paymentRepo.AssertExpectations(t)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepository)
		svc := NewPaymentService(&fakeTxRunner{}, new(MockBillRepository), paymentRepo, new(MockMethodRepository), new(MockAuditRepository), new(MockDispatcher), newServiceTestLogger())

		repoErr := errors.New("db down")
		paymentRepo.On("ListHistoryByConsumer", ctx, int64(10), 20).Return(nil, repoErr).Once()

		got, err := svc.ListHistory(ctx, 10, 20)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestPaymentServiceImpl_ListAttempts(t *testing.T) {
	ctx := context.Background()
	consumerID := int64(10)
	billID := int64(1)

	t.Run("Success", func(t *testing.T) {
		billRepo := new(MockBillRepository)
		auditRepo := new(MockAuditRepository)
		svc := NewPaymentService(&fakeTxRunner{}, billRepo, new(MockPaymentRepository), new(MockMethodRepository), auditRepo, new(MockDispatcher), newServiceTestLogger())

		entries := []*audit.Entry{
			{EventID: uuid.New(), BillID: billID, ConsumerID: consumerID, Outcome: "FAILED", FailureReason: "bill is already paid: 1"},
			{EventID: uuid.New(), BillID: billID, ConsumerID: consumerID, PaymentID: 99, Outcome: "COMPLETED"},
		}
		billRepo.On("GetOwned", ctx, billID, consumerID).Return(&billing.Bill{ID: billID}, nil).Once()
		auditRepo.On("ListByBillID", ctx, billID).Return(entries, nil).Once()

		got, err := svc.ListAttempts(ctx, consumerID, billID)
		require.NoError(t, err)
		assert.Equal(t, entries, got)
		billRepo.AssertExpectations(t)
		auditRepo.AssertExpectations(t)
	})

	t.Run("BillNotOwned", func(t *testing.T) {
		billRepo := new(MockBillRepository)
		auditRepo := new(MockAuditRepository)
		svc := NewPaymentService(&fakeTxRunner{}, billRepo, new(MockPaymentRepository), new(MockMethodRepository), auditRepo, new(MockDispatcher), newServiceTestLogger())

		billRepo.On("GetOwned", ctx, billID, consumerID).
			Return(nil, billing.ErrBillNotFound{BillID: billID}).Once()

		got, err := svc.ListAttempts(ctx, consumerID, billID)
		assert.Nil(t, got)
		var notFound billing.ErrBillNotFound
		assert.ErrorAs(t, err, &notFound)

		// The trail of someone else's bill is never read.
		auditRepo.AssertNotCalled(t, "ListByBillID", mock.Anything, mock.Anything)
	})
}

func TestPaymentServiceImpl_GetAttempt(t *testing.T) {
	ctx := context.Background()
	consumerID := int64(10)
	eventID := uuid.New()

	newService := func() (*PaymentServiceImpl, *MockAuditRepository) {
		auditRepo := new(MockAuditRepository)
		svc := NewPaymentService(&fakeTxRunner{}, new(MockBillRepository), new(MockPaymentRepository), new(MockMethodRepository), auditRepo, new(MockDispatcher), newServiceTestLogger())
		return svc, auditRepo
	}

	t.Run("Success", func(t *testing.T) {
		svc, auditRepo := newService()

		entry := &audit.Entry{EventID: eventID, BillID: 1, ConsumerID: consumerID, PaymentID: 99, Outcome: "COMPLETED"}
		auditRepo.On("GetByEventID", ctx, eventID).Return(entry, nil).Once()

		got, err := svc.GetAttempt(ctx, consumerID, eventID)
		require.NoError(t, err)
		assert.Equal(t, entry, got)
		auditRepo.AssertExpectations(t)
	})

	t.Run("OtherConsumersAttempt", func(t *testing.T) {
		svc, auditRepo := newService()

		entry := &audit.Entry{EventID: eventID, BillID: 1, ConsumerID: consumerID + 1, Outcome: "COMPLETED"}
		auditRepo.On("GetByEventID", ctx, eventID).Return(entry, nil).Once()

		got, err := svc.GetAttempt(ctx, consumerID, eventID)
		assert.Nil(t, got)
		var notFound audit.ErrEntryNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, eventID, notFound.EventID)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, auditRepo := newService()

		auditRepo.On("GetByEventID", ctx, eventID).
			Return(nil, audit.ErrEntryNotFound{EventID: eventID}).Once()

		got, err := svc.GetAttempt(ctx, consumerID, eventID)
		assert.Nil(t, got)
		var notFound audit.ErrEntryNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, eventID, notFound.EventID)
		assert.Contains(t, err.Error(), eventID.String())
	})
}
