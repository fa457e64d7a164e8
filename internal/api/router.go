package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Chihiro-bmp/CitySync/internal/api/handler"
	"github.com/Chihiro-bmp/CitySync/internal/api/middleware"
)

// Pinger reports whether the primary store is reachable, for the health
// endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	jwtSecret []byte,
	db Pinger,
	billHandler *handler.BillHandler,
	paymentHandler *handler.PaymentHandler,
	methodHandler *handler.PaymentMethodHandler,
	complaintHandler *handler.ComplaintHandler,
	applicationHandler *handler.ApplicationHandler,
	connectionHandler *handler.ConnectionHandler,
) {
	r.Use(middleware.Recovery(logger, handler.RespondInternalError))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// Consumer portal endpoints; everything below requires a consumer token
	consumer := r.Group("/api/v1/consumer")
	consumer.Use(middleware.Auth(jwtSecret))
	consumer.Use(middleware.RequireRole(middleware.RoleConsumer))
	{
		bills := consumer.Group("/bills")
		{
			bills.GET("", billHandler.List)
			bills.GET("/summary", billHandler.Summary)
			bills.GET("/:id", billHandler.GetByID)
			bills.GET("/:id/attempts", paymentHandler.Attempts)
		}

		payments := consumer.Group("/payments")
		{
			payments.POST("", paymentHandler.Create)
			payments.GET("", paymentHandler.History)
			payments.GET("/attempts/:event_id", paymentHandler.Attempt)
		}

		methods := consumer.Group("/payment-methods")
		{
			methods.POST("", methodHandler.Create)
			methods.GET("", methodHandler.List)
			methods.PUT("/:id/default", methodHandler.SetDefault)
			methods.DELETE("/:id", methodHandler.Delete)
		}

		complaints := consumer.Group("/complaints")
		{
			complaints.POST("", complaintHandler.Create)
			complaints.GET("", complaintHandler.List)
		}

		applications := consumer.Group("/applications")
		{
			applications.POST("", applicationHandler.Create)
			applications.GET("", applicationHandler.List)
		}

		consumer.GET("/connections", connectionHandler.List)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "timestamp": time.Now().UTC()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
