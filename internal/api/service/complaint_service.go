package service

import (
	"context"
	"log/slog"

	"github.com/Chihiro-bmp/CitySync/internal/domain/complaint"
)

// ComplaintServiceImpl implements ComplaintService
type ComplaintServiceImpl struct {
	complaintRepo complaint.Repository
	logger        *slog.Logger
}

func NewComplaintService(complaintRepo complaint.Repository, logger *slog.Logger) *ComplaintServiceImpl {
	return &ComplaintServiceImpl{
		complaintRepo: complaintRepo,
		logger:        logger,
	}
}

// FileComplaint records a new complaint in Pending state.
func (s *ComplaintServiceImpl) FileComplaint(ctx context.Context, consumerID int64, connectionID *int64, description string) (*complaint.Complaint, error) {
	c, err := complaint.NewComplaint(consumerID, connectionID, description)
	if err != nil {
		return nil, err
	}

	if err := s.complaintRepo.Create(ctx, c); err != nil {
		s.logger.Error("Failed to file complaint", "consumer_id", consumerID, "error", err)
		return nil, err
	}

	s.logger.Info("Complaint filed", "complaint_id", c.ID, "consumer_id", consumerID)
	return c, nil
}

// ListComplaints returns the consumer's complaints newest first.
func (s *ComplaintServiceImpl) ListComplaints(ctx context.Context, consumerID int64) ([]*complaint.Complaint, error) {
	return s.complaintRepo.ListByConsumer(ctx, consumerID)
}
