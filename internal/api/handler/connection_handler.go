package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Chihiro-bmp/CitySync/internal/api/middleware"
	"github.com/Chihiro-bmp/CitySync/internal/api/service"
)

// ConnectionHandler handles HTTP requests for utility connections
type ConnectionHandler struct {
	connectionService service.ConnectionService
	logger            *slog.Logger
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(logger *slog.Logger, connectionService service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
		logger:            logger,
	}
}

// List returns the consumer's utility connections with current-month usage
func (h *ConnectionHandler) List(c *gin.Context) {
	consumerID := middleware.ConsumerID(c)
	conns, err := h.connectionService.ListConnections(c.Request.Context(), consumerID)
	if err != nil {
		h.logger.Error("Failed to list connections", "consumer_id", consumerID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, conns)
}
