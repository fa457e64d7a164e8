package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Chihiro-bmp/CitySync/internal/domain/connection"
	"github.com/Chihiro-bmp/CitySync/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// ConnectionRepository implements the connection.Repository interface for
// PostgreSQL
type ConnectionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewConnectionRepository creates a new PostgreSQL utility connection
// repository
func NewConnectionRepository(logger *slog.Logger, db *persistence.PostgresDB) connection.Repository {
	return &ConnectionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *ConnectionRepository) WithTx(tx pgx.Tx) connection.Repository {
	return &ConnectionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// ListByConsumer returns the consumer's connections newest first, with the
// units consumed since the start of the current month.
func (r *ConnectionRepository) ListByConsumer(ctx context.Context, consumerID int64) ([]*connection.Connection, error) {
	query := `
		SELECT
			uc.connection_id, uc.utility_name, uc.unit_of_measurement,
			uc.connection_type, uc.payment_type, uc.connection_status,
			uc.tariff_name, uc.billing_method, uc.connection_date,
			COALESCE((
				SELECT SUM(bd.unit_consumed)
				FROM bill_document bd
				WHERE bd.connection_id = uc.connection_id
				  AND bd.bill_generation_date >= DATE_TRUNC('month', CURRENT_DATE)
			), 0) AS units_used
		FROM utility_connection uc
		WHERE uc.consumer_id = $1
		ORDER BY uc.connection_date DESC
	`

	rows, err := r.querier.Query(ctx, query, consumerID)
	if err != nil {
		r.logger.Error("Failed to list connections", "consumer_id", consumerID, "error", err)
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	var connections []*connection.Connection
	for rows.Next() {
		var c connection.Connection
		c.ConsumerID = consumerID
		err := rows.Scan(
			&c.ID,
			&c.UtilityName,
			&c.UnitOfMeasurement,
			&c.ConnectionType,
			&c.PaymentType,
			&c.Status,
			&c.TariffName,
			&c.BillingMethod,
			&c.ConnectedAt,
			&c.UnitsThisMonth,
		)
		if err != nil {
			r.logger.Error("Failed to scan connection", "error", err)
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		connections = append(connections, &c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over connections", "error", err)
		return nil, fmt.Errorf("error iterating over connections: %w", err)
	}

	return connections, nil
}
