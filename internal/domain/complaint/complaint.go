// Package complaint models consumer complaints. The consumer-facing contract
// is creation-only: Assigned, In Progress, and Resolved transitions happen in
// the employee workflow outside this service.
package complaint

import (
	"errors"
	"time"
)

var ErrEmptyDescription = errors.New("complaint description cannot be empty")

// Status progression: Pending -> Assigned -> In Progress -> Resolved.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusAssigned   Status = "Assigned"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// Complaint filed by a consumer, optionally against one of their connections.
type Complaint struct {
	ID             int64      `json:"complaint_id"`
	ConsumerID     int64      `json:"-"`
	ConnectionID   *int64     `json:"connection_id,omitempty"`
	Description    string     `json:"description"`
	Status         Status     `json:"status"`
	FiledAt        time.Time  `json:"complaint_date"`
	AssignedAt     *time.Time `json:"assignment_date,omitempty"`
	ResolvedAt     *time.Time `json:"resolution_date,omitempty"`
	Remarks        *string    `json:"remarks,omitempty"`
	UtilityName    *string    `json:"utility_name,omitempty"`
}

// NewComplaint builds a complaint in Pending state.
func NewComplaint(consumerID int64, connectionID *int64, description string) (*Complaint, error) {
	if description == "" {
		return nil, ErrEmptyDescription
	}
	return &Complaint{
		ConsumerID:   consumerID,
		ConnectionID: connectionID,
		Description:  description,
		Status:       StatusPending,
		FiledAt:      time.Now().UTC(),
	}, nil
}
