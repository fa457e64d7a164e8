package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Chihiro-bmp/CitySync/internal/domain/application"
	"github.com/Chihiro-bmp/CitySync/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// ApplicationRepository implements the application.Repository interface for
// PostgreSQL
type ApplicationRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewApplicationRepository creates a new PostgreSQL connection application
// repository
func NewApplicationRepository(logger *slog.Logger, db *persistence.PostgresDB) application.Repository {
	return &ApplicationRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *ApplicationRepository) WithTx(tx pgx.Tx) application.Repository {
	return &ApplicationRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create inserts an application in Pending state and fills in its ID.
func (r *ApplicationRepository) Create(ctx context.Context, a *application.Application) error {
	query := `
		INSERT INTO connection_application
			(consumer_id, utility_type, requested_connection_type, address, priority, status, application_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING application_id
	`

	err := r.querier.QueryRow(ctx, query,
		a.ConsumerID,
		a.UtilityType,
		a.ConnectionType,
		a.Address,
		a.Priority,
		a.Status,
		a.AppliedAt,
	).Scan(&a.ID)

	if err != nil {
		r.logger.Error("Failed to create application", "consumer_id", a.ConsumerID, "error", err)
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// ListByConsumer returns the consumer's applications newest first.
func (r *ApplicationRepository) ListByConsumer(ctx context.Context, consumerID int64) ([]*application.Application, error) {
	query := `
		SELECT
			application_id, utility_type, requested_connection_type, address,
			priority, status, application_date, review_date, approval_date, reviewed_by_name
		FROM connection_application
		WHERE consumer_id = $1
		ORDER BY application_date DESC
	`

	rows, err := r.querier.Query(ctx, query, consumerID)
	if err != nil {
		r.logger.Error("Failed to list applications", "consumer_id", consumerID, "error", err)
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var applications []*application.Application
	for rows.Next() {
		var a application.Application
		a.ConsumerID = consumerID
		err := rows.Scan(
			&a.ID,
			&a.UtilityType,
			&a.ConnectionType,
			&a.Address,
			&a.Priority,
			&a.Status,
			&a.AppliedAt,
			&a.ReviewedAt,
			&a.ApprovedAt,
			&a.ReviewedBy,
		)
		if err != nil {
			r.logger.Error("Failed to scan application", "error", err)
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		applications = append(applications, &a)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over applications", "error", err)
		return nil, fmt.Errorf("error iterating over applications: %w", err)
	}

	return applications, nil
}
