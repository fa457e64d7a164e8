package service

import (
	"context"
	"log/slog"

	"github.com/Chihiro-bmp/CitySync/internal/domain/application"
)

// ApplicationServiceImpl implements ApplicationService
type ApplicationServiceImpl struct {
	applicationRepo application.Repository
	logger          *slog.Logger
}

func NewApplicationService(applicationRepo application.Repository, logger *slog.Logger) *ApplicationServiceImpl {
	return &ApplicationServiceImpl{
		applicationRepo: applicationRepo,
		logger:          logger,
	}
}

// SubmitApplication records a new-connection request in Pending state.
func (s *ApplicationServiceImpl) SubmitApplication(ctx context.Context, consumerID int64, utilityType, connectionType, address string, priority application.Priority) (*application.Application, error) {
	a, err := application.NewApplication(consumerID, utilityType, connectionType, address, priority)
	if err != nil {
		return nil, err
	}

	if err := s.applicationRepo.Create(ctx, a); err != nil {
		s.logger.Error("Failed to submit application", "consumer_id", consumerID, "error", err)
		return nil, err
	}

	s.logger.Info("Application submitted", "application_id", a.ID, "consumer_id", consumerID)
	return a, nil
}

// ListApplications returns the consumer's applications newest first.
func (s *ApplicationServiceImpl) ListApplications(ctx context.Context, consumerID int64) ([]*application.Application, error) {
	return s.applicationRepo.ListByConsumer(ctx, consumerID)
}
