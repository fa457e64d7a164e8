package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Chihiro-bmp/CitySync/internal/api/middleware"
	"github.com/Chihiro-bmp/CitySync/internal/api/service"
	"github.com/Chihiro-bmp/CitySync/internal/domain/audit"
	"github.com/Chihiro-bmp/CitySync/internal/domain/billing"
	"github.com/Chihiro-bmp/CitySync/internal/domain/payment"
)

// PaymentHandler handles HTTP requests for payment operations
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *slog.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(logger *slog.Logger, paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// Create applies a payment to a bill. Replays against an already-paid bill
// get 409; a bill or method the consumer does not own gets 404 so the
// response does not reveal whether the resource exists.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	consumerID := middleware.ConsumerID(c)
	correlationID := middleware.GetCorrelationID(c)

	pay, err := h.paymentService.ApplyPayment(c.Request.Context(), consumerID, req.BillID, req.MethodID, req.Amount, correlationID)
	if err != nil {
		var billNotFound billing.ErrBillNotFound
		var methodNotFound payment.ErrMethodNotFound
		var alreadyPaid billing.ErrBillAlreadyPaid
		switch {
		case errors.As(err, &billNotFound):
			RespondNotFound(c, "Bill not found")
		case errors.As(err, &methodNotFound):
			RespondNotFound(c, "Payment method not found")
		case errors.As(err, &alreadyPaid):
			RespondConflict(c, "Bill is already paid")
		case errors.Is(err, payment.ErrInvalidAmount):
			RespondBadRequest(c, "Payment amount must be positive")
		default:
			h.logger.Error("Failed to apply payment", "bill_id", req.BillID, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, pay)
}

// History returns the consumer's payments newest first
func (h *PaymentHandler) History(c *gin.Context) {
	var params ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	consumerID := middleware.ConsumerID(c)
	entries, err := h.paymentService.ListHistory(c.Request.Context(), consumerID, params.Limit)
	if err != nil {
		h.logger.Error("Failed to list payment history", "consumer_id", consumerID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, entries)
}

// Attempts lists the audit trail of a bill: every payment attempt recorded
// against it, failed ones included
func (h *PaymentHandler) Attempts(c *gin.Context) {
	billID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || billID <= 0 {
		RespondBadRequest(c, "Invalid bill ID")
		return
	}

	consumerID := middleware.ConsumerID(c)
	entries, err := h.paymentService.ListAttempts(c.Request.Context(), consumerID, billID)
	if err != nil {
		var billNotFound billing.ErrBillNotFound
		if errors.As(err, &billNotFound) {
			RespondNotFound(c, "Bill not found")
			return
		}
		h.logger.Error("Failed to list payment attempts", "bill_id", billID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, entries)
}

// Attempt returns one recorded payment attempt by its event ID
func (h *PaymentHandler) Attempt(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		RespondBadRequest(c, "Invalid event ID")
		return
	}

	consumerID := middleware.ConsumerID(c)
	entry, err := h.paymentService.GetAttempt(c.Request.Context(), consumerID, eventID)
	if err != nil {
		var notFound audit.ErrEntryNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Payment attempt not found")
			return
		}
		h.logger.Error("Failed to get payment attempt", "event_id", eventID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, entry)
}
