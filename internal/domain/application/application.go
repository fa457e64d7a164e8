// Package application models new-connection applications. Review and approval
// happen in the employee workflow outside this service.
package application

import (
	"errors"
	"time"
)

var (
	ErrMissingUtilityType    = errors.New("utility_type is required")
	ErrMissingConnectionType = errors.New("requested_connection_type is required")
	ErrMissingAddress        = errors.New("address is required")
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

type Priority string

const (
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
)

// Application is a consumer's request for a new utility connection.
type Application struct {
	ID             int64      `json:"application_id"`
	ConsumerID     int64      `json:"-"`
	UtilityType    string     `json:"utility_type"`
	ConnectionType string     `json:"requested_connection_type"`
	Address        string     `json:"address"`
	Priority       Priority   `json:"priority"`
	Status         Status     `json:"status"`
	AppliedAt      time.Time  `json:"application_date"`
	ReviewedAt     *time.Time `json:"review_date,omitempty"`
	ApprovedAt     *time.Time `json:"approval_date,omitempty"`
	ReviewedBy     *string    `json:"reviewed_by_name,omitempty"`
}

// NewApplication builds an application in Pending state. Priority defaults to
// Normal when empty.
func NewApplication(consumerID int64, utilityType, connectionType, address string, priority Priority) (*Application, error) {
	if utilityType == "" {
		return nil, ErrMissingUtilityType
	}
	if connectionType == "" {
		return nil, ErrMissingConnectionType
	}
	if address == "" {
		return nil, ErrMissingAddress
	}
	if priority == "" {
		priority = PriorityNormal
	}
	return &Application{
		ConsumerID:     consumerID,
		UtilityType:    utilityType,
		ConnectionType: connectionType,
		Address:        address,
		Priority:       priority,
		Status:         StatusPending,
		AppliedAt:      time.Now().UTC(),
	}, nil
}
