package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Chihiro-bmp/CitySync/internal/api/middleware"
	"github.com/Chihiro-bmp/CitySync/internal/api/service"
	"github.com/Chihiro-bmp/CitySync/internal/domain/complaint"
)

// ComplaintHandler handles HTTP requests for complaints
type ComplaintHandler struct {
	complaintService service.ComplaintService
	logger           *slog.Logger
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(logger *slog.Logger, complaintService service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		logger:           logger,
	}
}

// Create files a new complaint
func (h *ComplaintHandler) Create(c *gin.Context) {
	var req FileComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	consumerID := middleware.ConsumerID(c)
	cmp, err := h.complaintService.FileComplaint(c.Request.Context(), consumerID, req.ConnectionID, req.Description)
	if err != nil {
		if errors.Is(err, complaint.ErrEmptyDescription) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to file complaint", "consumer_id", consumerID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, cmp)
}

// List returns the consumer's complaints newest first
func (h *ComplaintHandler) List(c *gin.Context) {
	consumerID := middleware.ConsumerID(c)
	complaints, err := h.complaintService.ListComplaints(c.Request.Context(), consumerID)
	if err != nil {
		h.logger.Error("Failed to list complaints", "consumer_id", consumerID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, complaints)
}
