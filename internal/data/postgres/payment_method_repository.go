package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Chihiro-bmp/CitySync/internal/domain/payment"
	"github.com/Chihiro-bmp/CitySync/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// PaymentMethodRepository implements the payment.MethodRepository interface
// for PostgreSQL
type PaymentMethodRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewPaymentMethodRepository creates a new PostgreSQL payment method repository
func NewPaymentMethodRepository(logger *slog.Logger, db *persistence.PostgresDB) payment.MethodRepository {
	return &PaymentMethodRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so that clear-then-set and
// add-with-default run as one atomic unit.
func (r *PaymentMethodRepository) WithTx(tx pgx.Tx) payment.MethodRepository {
	return &PaymentMethodRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const methodColumns = `
		method_id, consumer_id, method_name, is_default, created_at,
		bank_name, account_num, provider_name, phone_num, wallet_email`

// Create stores a new payment method and fills in its store-assigned ID.
func (r *PaymentMethodRepository) Create(ctx context.Context, m *payment.Method) error {
	query := `
		INSERT INTO payment_method (consumer_id, method_name, is_default, created_at,
			bank_name, account_num, provider_name, phone_num, wallet_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING method_id
	`

	err := r.querier.QueryRow(ctx, query,
		m.ConsumerID,
		m.Channel,
		m.IsDefault,
		m.CreatedAt,
		m.BankName,
		m.AccountNum,
		m.ProviderName,
		m.PhoneNum,
		m.WalletEmail,
	).Scan(&m.ID)

	if err != nil {
		r.logger.Error("Failed to create payment method", "consumer_id", m.ConsumerID, "error", err)
		return fmt.Errorf("failed to create payment method: %w", err)
	}

	return nil
}

// GetOwned retrieves a method only if it belongs to the consumer.
func (r *PaymentMethodRepository) GetOwned(ctx context.Context, methodID, consumerID int64) (*payment.Method, error) {
	query := `
		SELECT` + methodColumns + `
		FROM payment_method
		WHERE method_id = $1 AND consumer_id = $2
	`

	m, err := scanMethod(r.querier.QueryRow(ctx, query, methodID, consumerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrMethodNotFound{MethodID: methodID}
		}
		r.logger.Error("Failed to get payment method", "method_id", methodID, "error", err)
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}

	return m, nil
}

// ListByConsumer returns the consumer's methods, default first.
func (r *PaymentMethodRepository) ListByConsumer(ctx context.Context, consumerID int64) ([]*payment.Method, error) {
	query := `
		SELECT` + methodColumns + `
		FROM payment_method
		WHERE consumer_id = $1
		ORDER BY is_default DESC, method_id ASC
	`

	rows, err := r.querier.Query(ctx, query, consumerID)
	if err != nil {
		r.logger.Error("Failed to list payment methods", "consumer_id", consumerID, "error", err)
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	defer rows.Close()

	var methods []*payment.Method
	for rows.Next() {
		m, err := scanMethod(rows)
		if err != nil {
			r.logger.Error("Failed to scan payment method", "error", err)
			return nil, fmt.Errorf("failed to scan payment method: %w", err)
		}
		methods = append(methods, m)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over payment methods", "error", err)
		return nil, fmt.Errorf("error iterating over payment methods: %w", err)
	}

	return methods, nil
}

// ClearDefault unsets the default flag on all of the consumer's methods.
// Affecting zero rows is fine: the consumer may have no default yet.
func (r *PaymentMethodRepository) ClearDefault(ctx context.Context, consumerID int64) error {
	query := `
		UPDATE payment_method
		SET is_default = FALSE
		WHERE consumer_id = $1 AND is_default
	`

	if _, err := r.querier.Exec(ctx, query, consumerID); err != nil {
		r.logger.Error("Failed to clear default payment method", "consumer_id", consumerID, "error", err)
		return fmt.Errorf("failed to clear default payment method: %w", err)
	}

	return nil
}

// SetDefault flags the method as default, guarded on ownership.
func (r *PaymentMethodRepository) SetDefault(ctx context.Context, methodID, consumerID int64) error {
	query := `
		UPDATE payment_method
		SET is_default = TRUE
		WHERE method_id = $1 AND consumer_id = $2
	`

	result, err := r.querier.Exec(ctx, query, methodID, consumerID)
	if err != nil {
		r.logger.Error("Failed to set default payment method", "method_id", methodID, "error", err)
		return fmt.Errorf("failed to set default payment method: %w", err)
	}

	if result.RowsAffected() == 0 {
		return payment.ErrMethodNotFound{MethodID: methodID}
	}

	return nil
}

// Delete removes a method, guarded on ownership.
func (r *PaymentMethodRepository) Delete(ctx context.Context, methodID, consumerID int64) error {
	query := `
		DELETE FROM payment_method
		WHERE method_id = $1 AND consumer_id = $2
	`

	result, err := r.querier.Exec(ctx, query, methodID, consumerID)
	if err != nil {
		r.logger.Error("Failed to delete payment method", "method_id", methodID, "error", err)
		return fmt.Errorf("failed to delete payment method: %w", err)
	}

	if result.RowsAffected() == 0 {
		return payment.ErrMethodNotFound{MethodID: methodID}
	}

	return nil
}

func scanMethod(row pgx.Row) (*payment.Method, error) {
	var m payment.Method
	err := row.Scan(
		&m.ID,
		&m.ConsumerID,
		&m.Channel,
		&m.IsDefault,
		&m.CreatedAt,
		&m.BankName,
		&m.AccountNum,
		&m.ProviderName,
		&m.PhoneNum,
		&m.WalletEmail,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
