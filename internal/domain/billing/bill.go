// Package billing holds the bill document aggregate and the display-status
// derivation shared by every read path in the system.
package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoredStatus is the persisted bill state. Overdue is never stored; it is
// derived from the due date at read time.
type StoredStatus string

const (
	StatusUnpaid StoredStatus = "UNPAID"
	StatusPaid   StoredStatus = "PAID"
)

// DisplayStatus is the consumer-facing classification of a bill.
type DisplayStatus string

const (
	DisplayPaid    DisplayStatus = "Paid"
	DisplayPending DisplayStatus = "Pending"
	DisplayOverdue DisplayStatus = "Overdue"
)

// Bill represents a bill document together with its post-paid billing period.
// Amounts are Bangladeshi Taka with two decimal places.
type Bill struct {
	ID                int64           `json:"bill_document_id"`
	ConnectionID      int64           `json:"connection_id"`
	BillType          string          `json:"bill_type"`
	UtilityName       string          `json:"utility_name"`
	UnitOfMeasurement string          `json:"unit_of_measurement"`
	UnitConsumed      decimal.Decimal `json:"unit_consumed"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Status            StoredStatus    `json:"-"`
	GeneratedAt       time.Time       `json:"bill_generation_date"`
	PeriodStart       *time.Time      `json:"bill_period_start,omitempty"`
	PeriodEnd         *time.Time      `json:"bill_period_end,omitempty"`
	DueDate           *time.Time      `json:"due_date,omitempty"`
	Remarks           *string         `json:"remarks,omitempty"`

	// DisplayStatus is populated by the service layer via DeriveDisplayStatus
	// and never read from or written to the store.
	DisplayStatus DisplayStatus `json:"status"`
}

// Summary aggregates a consumer's bills by display status for the dashboard.
type Summary struct {
	TotalBills       int             `json:"total_bills"`
	Paid             int             `json:"paid"`
	Pending          int             `json:"pending"`
	Overdue          int             `json:"overdue"`
	PaidTotal        decimal.Decimal `json:"paid_total"`
	OutstandingTotal decimal.Decimal `json:"outstanding_total"`
}

// DeriveDisplayStatus classifies a bill as Paid, Pending, or Overdue. It is a
// pure function of the stored status, the due date, and the current date, and
// is the only place this classification exists: list, detail, and summary
// endpoints all go through it so they cannot drift apart.
//
// A PAID bill is always Paid regardless of due date. An UNPAID bill is Overdue
// once its due date lies strictly before today's civil date, Pending otherwise
// (including bills with no billing period attached).
func DeriveDisplayStatus(status StoredStatus, dueDate *time.Time, today time.Time) DisplayStatus {
	if status == StatusPaid {
		return DisplayPaid
	}
	if dueDate != nil && civilDate(*dueDate).Before(civilDate(today)) {
		return DisplayOverdue
	}
	return DisplayPending
}

// civilDate truncates a timestamp to its UTC calendar date.
func civilDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
