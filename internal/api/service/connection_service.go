package service

import (
	"context"
	"log/slog"

	"github.com/Chihiro-bmp/CitySync/internal/domain/connection"
)

// ConnectionServiceImpl implements ConnectionService
type ConnectionServiceImpl struct {
	connectionRepo connection.Repository
	logger         *slog.Logger
}

func NewConnectionService(connectionRepo connection.Repository, logger *slog.Logger) *ConnectionServiceImpl {
	return &ConnectionServiceImpl{
		connectionRepo: connectionRepo,
		logger:         logger,
	}
}

// ListConnections returns the consumer's utility connections with their
// current-month usage.
func (s *ConnectionServiceImpl) ListConnections(ctx context.Context, consumerID int64) ([]*connection.Connection, error) {
	conns, err := s.connectionRepo.ListByConsumer(ctx, consumerID)
	if err != nil {
		s.logger.Error("Failed to list connections", "consumer_id", consumerID, "error", err)
		return nil, err
	}
	return conns, nil
}
