// Package connection models active utility connections. Connections are
// provisioned by the employee workflow; this service only lists them.
package connection

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Connection is a consumer's link to a metered utility service.
type Connection struct {
	ID                int64           `json:"connection_id"`
	ConsumerID        int64           `json:"-"`
	UtilityName       string          `json:"utility_name"`
	UnitOfMeasurement string          `json:"unit_of_measurement"`
	ConnectionType    string          `json:"connection_type"`
	PaymentType       string          `json:"payment_type"`
	Status            string          `json:"connection_status"`
	TariffName        string          `json:"tariff_name"`
	BillingMethod     string          `json:"billing_method"`
	ConnectedAt       time.Time       `json:"connection_date"`
	UnitsThisMonth    decimal.Decimal `json:"units_used"`
}

// Repository defines connection read access for the consumer portal.
type Repository interface {
	ListByConsumer(ctx context.Context, consumerID int64) ([]*Connection, error)
	WithTx(tx pgx.Tx) Repository
}
