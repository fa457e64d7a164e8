package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Chihiro-bmp/CitySync/internal/api/middleware"
	"github.com/Chihiro-bmp/CitySync/internal/api/service"
	"github.com/Chihiro-bmp/CitySync/internal/domain/billing"
)

// BillHandler handles HTTP requests for bill reads
type BillHandler struct {
	billingService service.BillingService
	logger         *slog.Logger
}

// NewBillHandler creates a new bill handler
func NewBillHandler(logger *slog.Logger, billingService service.BillingService) *BillHandler {
	return &BillHandler{
		billingService: billingService,
		logger:         logger,
	}
}

// List returns the authenticated consumer's bills newest first
func (h *BillHandler) List(c *gin.Context) {
	var params ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	consumerID := middleware.ConsumerID(c)
	bills, err := h.billingService.ListBills(c.Request.Context(), consumerID, params.Limit)
	if err != nil {
		h.logger.Error("Failed to list bills", "consumer_id", consumerID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, bills)
}

// GetByID retrieves one of the consumer's bills, returning 404 if the bill
// does not exist or belongs to another consumer
func (h *BillHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	billID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || billID <= 0 {
		RespondBadRequest(c, "Invalid bill ID")
		return
	}

	consumerID := middleware.ConsumerID(c)
	bill, err := h.billingService.GetBill(c.Request.Context(), consumerID, billID)
	if err != nil {
		var notFound billing.ErrBillNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Bill not found")
			return
		}
		h.logger.Error("Failed to get bill", "bill_id", billID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, bill)
}

// Summary returns per-status counts and totals across all the consumer's bills
func (h *BillHandler) Summary(c *gin.Context) {
	consumerID := middleware.ConsumerID(c)
	summary, err := h.billingService.GetSummary(c.Request.Context(), consumerID)
	if err != nil {
		h.logger.Error("Failed to build bill summary", "consumer_id", consumerID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, summary)
}
