package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Chihiro-bmp/CitySync/internal/domain/billing"
)

// BillingServiceImpl implements BillingService
type BillingServiceImpl struct {
	billRepo billing.Repository
	logger   *slog.Logger

	// now is swapped in tests to pin the display-status derivation date.
	now func() time.Time
}

func NewBillingService(billRepo billing.Repository, logger *slog.Logger) *BillingServiceImpl {
	return &BillingServiceImpl{
		billRepo: billRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// ListBills returns the consumer's bills newest first, each classified via
// DeriveDisplayStatus against today's date.
func (s *BillingServiceImpl) ListBills(ctx context.Context, consumerID int64, limit int) ([]*billing.Bill, error) {
	bills, err := s.billRepo.ListByConsumer(ctx, consumerID, limit)
	if err != nil {
		s.logger.Error("Failed to list bills", "consumer_id", consumerID, "error", err)
		return nil, err
	}

	today := s.now()
	for _, b := range bills {
		b.DisplayStatus = billing.DeriveDisplayStatus(b.Status, b.DueDate, today)
	}
	return bills, nil
}

// GetBill retrieves one bill owned by the consumer.
func (s *BillingServiceImpl) GetBill(ctx context.Context, consumerID, billID int64) (*billing.Bill, error) {
	bill, err := s.billRepo.GetOwned(ctx, billID, consumerID)
	if err != nil {
		return nil, err
	}

	bill.DisplayStatus = billing.DeriveDisplayStatus(bill.Status, bill.DueDate, s.now())
	return bill, nil
}

// GetSummary folds all of the consumer's bills into per-status counts and
// totals. It walks the same derivation as ListBills so the dashboard numbers
// can never disagree with the list view.
func (s *BillingServiceImpl) GetSummary(ctx context.Context, consumerID int64) (*billing.Summary, error) {
	bills, err := s.billRepo.ListByConsumer(ctx, consumerID, 0)
	if err != nil {
		s.logger.Error("Failed to load bills for summary", "consumer_id", consumerID, "error", err)
		return nil, err
	}

	today := s.now()
	summary := &billing.Summary{
		TotalBills:       len(bills),
		PaidTotal:        decimal.Zero,
		OutstandingTotal: decimal.Zero,
	}
	for _, b := range bills {
		switch billing.DeriveDisplayStatus(b.Status, b.DueDate, today) {
		case billing.DisplayPaid:
			summary.Paid++
			summary.PaidTotal = summary.PaidTotal.Add(b.TotalAmount)
		case billing.DisplayOverdue:
			summary.Overdue++
			summary.OutstandingTotal = summary.OutstandingTotal.Add(b.TotalAmount)
		default:
			summary.Pending++
			summary.OutstandingTotal = summary.OutstandingTotal.Add(b.TotalAmount)
		}
	}
	return summary, nil
}
