package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Chihiro-bmp/CitySync/internal/domain/payment"
	"github.com/Chihiro-bmp/CitySync/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// PaymentRepository implements the payment.Repository interface for PostgreSQL
type PaymentRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewPaymentRepository creates a new PostgreSQL payment repository
func NewPaymentRepository(logger *slog.Logger, db *persistence.PostgresDB) payment.Repository {
	return &PaymentRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction. The payment insert must
// share a transaction with the bill status flip.
func (r *PaymentRepository) WithTx(tx pgx.Tx) payment.Repository {
	return &PaymentRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create inserts a payment record and fills in its store-assigned ID.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	query := `
		INSERT INTO payment (bill_document_id, method_id, payment_amount, payment_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING payment_id
	`

	err := r.querier.QueryRow(ctx, query,
		p.BillID,
		p.MethodID,
		p.Amount,
		p.PaidAt,
		p.Status,
	).Scan(&p.ID)

	if err != nil {
		r.logger.Error("Failed to create payment", "bill_id", p.BillID, "error", err)
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// ListHistoryByConsumer returns the consumer's payments newest first, joined
// with method and bill context.
func (r *PaymentRepository) ListHistoryByConsumer(ctx context.Context, consumerID int64, limit int) ([]*payment.HistoryEntry, error) {
	query := `
		SELECT
			p.payment_id, p.bill_document_id, p.method_id, p.payment_amount, p.status, p.payment_date,
			pm.method_name, pm.is_default,
			bd.total_amount, bd.bill_generation_date,
			uc.utility_name
		FROM payment p
		JOIN payment_method pm ON p.method_id = pm.method_id
		JOIN bill_document bd ON p.bill_document_id = bd.bill_document_id
		JOIN utility_connection uc ON bd.connection_id = uc.connection_id
		WHERE uc.consumer_id = $1
		ORDER BY p.payment_date DESC
		LIMIT NULLIF($2, 0)
	`

	rows, err := r.querier.Query(ctx, query, consumerID, limit)
	if err != nil {
		r.logger.Error("Failed to list payment history", "consumer_id", consumerID, "error", err)
		return nil, fmt.Errorf("failed to list payment history: %w", err)
	}
	defer rows.Close()

	var entries []*payment.HistoryEntry
	for rows.Next() {
		var e payment.HistoryEntry
		err := rows.Scan(
			&e.ID,
			&e.BillID,
			&e.MethodID,
			&e.Amount,
			&e.Status,
			&e.PaidAt,
			&e.Channel,
			&e.IsDefault,
			&e.BillAmount,
			&e.BilledAt,
			&e.UtilityName,
		)
		if err != nil {
			r.logger.Error("Failed to scan payment history entry", "error", err)
			return nil, fmt.Errorf("failed to scan payment history entry: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over payment history", "error", err)
		return nil, fmt.Errorf("error iterating over payment history: %w", err)
	}

	return entries, nil
}
