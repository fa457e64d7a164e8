package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Chihiro-bmp/CitySync/internal/api/middleware"
	"github.com/Chihiro-bmp/CitySync/internal/api/service"
	"github.com/Chihiro-bmp/CitySync/internal/domain/application"
)

// ApplicationHandler handles HTTP requests for new-connection applications
type ApplicationHandler struct {
	applicationService service.ApplicationService
	logger             *slog.Logger
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(logger *slog.Logger, applicationService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		logger:             logger,
	}
}

// Create submits a new-connection application
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	consumerID := middleware.ConsumerID(c)
	app, err := h.applicationService.SubmitApplication(c.Request.Context(), consumerID,
		req.UtilityType, req.ConnectionType, req.Address, application.Priority(req.Priority))
	if err != nil {
		h.logger.Error("Failed to submit application", "consumer_id", consumerID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, app)
}

// List returns the consumer's applications newest first
func (h *ApplicationHandler) List(c *gin.Context) {
	consumerID := middleware.ConsumerID(c)
	apps, err := h.applicationService.ListApplications(c.Request.Context(), consumerID)
	if err != nil {
		h.logger.Error("Failed to list applications", "consumer_id", consumerID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, apps)
}
