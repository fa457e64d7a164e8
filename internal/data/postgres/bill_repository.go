// Package postgres provides PostgreSQL implementations of the domain
// repositories. It handles all database operations while maintaining
// transaction safety and proper error handling for the billing service.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Chihiro-bmp/CitySync/internal/domain/billing"
	"github.com/Chihiro-bmp/CitySync/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// BillRepository implements the billing.Repository interface for PostgreSQL
type BillRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewBillRepository creates a new PostgreSQL bill repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewBillRepository(logger *slog.Logger, db *persistence.PostgresDB) billing.Repository {
	return &BillRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic
// operations across multiple repository calls.
func (r *BillRepository) WithTx(tx pgx.Tx) billing.Repository {
	return &BillRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const billColumns = `
		bd.bill_document_id, bd.connection_id, bd.bill_type,
		uc.utility_name, uc.unit_of_measurement,
		bd.unit_consumed, bd.total_amount, bd.bill_status, bd.bill_generation_date,
		bp.bill_period_start, bp.bill_period_end, bp.due_date, bp.remarks`

// ListByConsumer returns the consumer's bills newest first. A limit of 0
// means no limit, which the summary aggregation relies on.
func (r *BillRepository) ListByConsumer(ctx context.Context, consumerID int64, limit int) ([]*billing.Bill, error) {
	query := `
		SELECT` + billColumns + `
		FROM bill_document bd
		JOIN utility_connection uc ON bd.connection_id = uc.connection_id
		LEFT JOIN bill_postpaid bp ON bd.bill_document_id = bp.bill_document_id
		WHERE uc.consumer_id = $1
		ORDER BY bd.bill_generation_date DESC
		LIMIT NULLIF($2, 0)
	`

	rows, err := r.querier.Query(ctx, query, consumerID, limit)
	if err != nil {
		r.logger.Error("Failed to list bills", "consumer_id", consumerID, "error", err)
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*billing.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			r.logger.Error("Failed to scan bill", "error", err)
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over bills", "error", err)
		return nil, fmt.Errorf("error iterating over bills: %w", err)
	}

	return bills, nil
}

// GetOwned retrieves a bill only if its connection belongs to the consumer.
// Ownership failure and absence are indistinguishable by design.
func (r *BillRepository) GetOwned(ctx context.Context, billID, consumerID int64) (*billing.Bill, error) {
	query := `
		SELECT` + billColumns + `
		FROM bill_document bd
		JOIN utility_connection uc ON bd.connection_id = uc.connection_id
		LEFT JOIN bill_postpaid bp ON bd.bill_document_id = bp.bill_document_id
		WHERE bd.bill_document_id = $1 AND uc.consumer_id = $2
	`

	bill, err := scanBill(r.querier.QueryRow(ctx, query, billID, consumerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, billing.ErrBillNotFound{BillID: billID}
		}
		r.logger.Error("Failed to get bill", "bill_id", billID, "error", err)
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	return bill, nil
}

// LockOwnedForUpdate obtains a row lock on the bill document and returns its
// current state. Must be used within a transaction; concurrent payment
// attempts on the same bill serialize here.
func (r *BillRepository) LockOwnedForUpdate(ctx context.Context, billID, consumerID int64) (*billing.Bill, error) {
	query := `
		SELECT` + billColumns + `
		FROM bill_document bd
		JOIN utility_connection uc ON bd.connection_id = uc.connection_id
		LEFT JOIN bill_postpaid bp ON bd.bill_document_id = bp.bill_document_id
		WHERE bd.bill_document_id = $1 AND uc.consumer_id = $2
		FOR UPDATE OF bd
	`

	bill, err := scanBill(r.querier.QueryRow(ctx, query, billID, consumerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, billing.ErrBillNotFound{BillID: billID}
		}
		r.logger.Error("Failed to lock bill for update", "bill_id", billID, "error", err)
		return nil, fmt.Errorf("failed to lock bill for update: %w", err)
	}

	return bill, nil
}

// MarkPaid flips the bill status to PAID. The status guard in the WHERE
// clause together with the affected-row check makes the flip fire exactly
// once even under concurrent payment attempts.
func (r *BillRepository) MarkPaid(ctx context.Context, billID int64) error {
	query := `
		UPDATE bill_document
		SET bill_status = 'PAID'
		WHERE bill_document_id = $1 AND bill_status = 'UNPAID'
	`

	result, err := r.querier.Exec(ctx, query, billID)
	if err != nil {
		r.logger.Error("Failed to mark bill paid", "bill_id", billID, "error", err)
		return fmt.Errorf("failed to mark bill paid: %w", err)
	}

	if result.RowsAffected() == 0 {
		return billing.ErrBillAlreadyPaid{BillID: billID}
	}

	return nil
}

// scanBill reads one bill row from either a pgx.Row or pgx.Rows.
func scanBill(row pgx.Row) (*billing.Bill, error) {
	var bill billing.Bill
	err := row.Scan(
		&bill.ID,
		&bill.ConnectionID,
		&bill.BillType,
		&bill.UtilityName,
		&bill.UnitOfMeasurement,
		&bill.UnitConsumed,
		&bill.TotalAmount,
		&bill.Status,
		&bill.GeneratedAt,
		&bill.PeriodStart,
		&bill.PeriodEnd,
		&bill.DueDate,
		&bill.Remarks,
	)
	if err != nil {
		return nil, err
	}
	return &bill, nil
}
