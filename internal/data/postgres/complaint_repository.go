package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Chihiro-bmp/CitySync/internal/domain/complaint"
	"github.com/Chihiro-bmp/CitySync/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// ComplaintRepository implements the complaint.Repository interface for
// PostgreSQL
type ComplaintRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewComplaintRepository creates a new PostgreSQL complaint repository
func NewComplaintRepository(logger *slog.Logger, db *persistence.PostgresDB) complaint.Repository {
	return &ComplaintRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *ComplaintRepository) WithTx(tx pgx.Tx) complaint.Repository {
	return &ComplaintRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create inserts a complaint in Pending state and fills in its ID.
func (r *ComplaintRepository) Create(ctx context.Context, c *complaint.Complaint) error {
	query := `
		INSERT INTO complaint (consumer_id, connection_id, description, status, complaint_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING complaint_id
	`

	err := r.querier.QueryRow(ctx, query,
		c.ConsumerID,
		c.ConnectionID,
		c.Description,
		c.Status,
		c.FiledAt,
	).Scan(&c.ID)

	if err != nil {
		r.logger.Error("Failed to create complaint", "consumer_id", c.ConsumerID, "error", err)
		return fmt.Errorf("failed to create complaint: %w", err)
	}

	return nil
}

// ListByConsumer returns the consumer's complaints newest first, with the
// utility name of the referenced connection when one is attached.
func (r *ComplaintRepository) ListByConsumer(ctx context.Context, consumerID int64) ([]*complaint.Complaint, error) {
	query := `
		SELECT
			c.complaint_id, c.connection_id, c.description, c.status,
			c.complaint_date, c.assignment_date, c.resolution_date, c.remarks,
			uc.utility_name
		FROM complaint c
		LEFT JOIN utility_connection uc ON c.connection_id = uc.connection_id
		WHERE c.consumer_id = $1
		ORDER BY c.complaint_date DESC
	`

	rows, err := r.querier.Query(ctx, query, consumerID)
	if err != nil {
		r.logger.Error("Failed to list complaints", "consumer_id", consumerID, "error", err)
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	defer rows.Close()

	var complaints []*complaint.Complaint
	for rows.Next() {
		var c complaint.Complaint
		c.ConsumerID = consumerID
		err := rows.Scan(
			&c.ID,
			&c.ConnectionID,
			&c.Description,
			&c.Status,
			&c.FiledAt,
			&c.AssignedAt,
			&c.ResolvedAt,
			&c.Remarks,
			&c.UtilityName,
		)
		if err != nil {
			r.logger.Error("Failed to scan complaint", "error", err)
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, &c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over complaints", "error", err)
		return nil, fmt.Errorf("error iterating over complaints: %w", err)
	}

	return complaints, nil
}
