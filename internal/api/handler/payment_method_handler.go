package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Chihiro-bmp/CitySync/internal/api/middleware"
	"github.com/Chihiro-bmp/CitySync/internal/api/service"
	"github.com/Chihiro-bmp/CitySync/internal/domain/payment"
)

// PaymentMethodHandler handles HTTP requests for saved payment methods
type PaymentMethodHandler struct {
	methodService service.PaymentMethodService
	logger        *slog.Logger
}

// NewPaymentMethodHandler creates a new payment method handler
func NewPaymentMethodHandler(logger *slog.Logger, methodService service.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		methodService: methodService,
		logger:        logger,
	}
}

// Create saves a new payment method for the consumer
func (h *PaymentMethodHandler) Create(c *gin.Context) {
	var req AddPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	consumerID := middleware.ConsumerID(c)
	m, err := payment.NewMethod(consumerID, payment.Channel(req.MethodName), req.IsDefault,
		req.BankName, req.AccountNum, req.ProviderName, req.PhoneNum, req.WalletEmail)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	if err := h.methodService.AddMethod(c.Request.Context(), m); err != nil {
		h.logger.Error("Failed to add payment method", "consumer_id", consumerID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, m)
}

// List returns the consumer's saved methods, default first
func (h *PaymentMethodHandler) List(c *gin.Context) {
	consumerID := middleware.ConsumerID(c)
	methods, err := h.methodService.ListMethods(c.Request.Context(), consumerID)
	if err != nil {
		h.logger.Error("Failed to list payment methods", "consumer_id", consumerID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, methods)
}

// SetDefault makes the method the consumer's single default
func (h *PaymentMethodHandler) SetDefault(c *gin.Context) {
	methodID, ok := methodIDParam(c)
	if !ok {
		return
	}

	consumerID := middleware.ConsumerID(c)
	if err := h.methodService.SetDefault(c.Request.Context(), consumerID, methodID); err != nil {
		var notFound payment.ErrMethodNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Payment method not found")
			return
		}
		h.logger.Error("Failed to set default payment method", "method_id", methodID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// Delete removes a saved method
func (h *PaymentMethodHandler) Delete(c *gin.Context) {
	methodID, ok := methodIDParam(c)
	if !ok {
		return
	}

	consumerID := middleware.ConsumerID(c)
	if err := h.methodService.DeleteMethod(c.Request.Context(), consumerID, methodID); err != nil {
		var notFound payment.ErrMethodNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Payment method not found")
			return
		}
		h.logger.Error("Failed to delete payment method", "method_id", methodID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

func methodIDParam(c *gin.Context) (int64, bool) {
	methodID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || methodID <= 0 {
		RespondBadRequest(c, "Invalid payment method ID")
		return 0, false
	}
	return methodID, true
}
