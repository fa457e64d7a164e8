// Package api assembles the HTTP surface of the consumer portal: router,
// handlers, and server lifecycle.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Chihiro-bmp/CitySync/internal/api/handler"
	"github.com/Chihiro-bmp/CitySync/internal/api/service"
	"github.com/Chihiro-bmp/CitySync/internal/config"
)

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger // For structured logging
	httpServer *http.Server // Underlying HTTP server
	httpRouter *gin.Engine  // Gin router instance
}

// Services groups the service dependencies of the HTTP layer.
type Services struct {
	Billing       service.BillingService
	Payment       service.PaymentService
	PaymentMethod service.PaymentMethodService
	Complaint     service.ComplaintService
	Application   service.ApplicationService
	Connection    service.ConnectionService
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(log *slog.Logger, cfg *config.Config, db Pinger, svcs Services) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	billHandler := handler.NewBillHandler(log, svcs.Billing)
	paymentHandler := handler.NewPaymentHandler(log, svcs.Payment)
	methodHandler := handler.NewPaymentMethodHandler(log, svcs.PaymentMethod)
	complaintHandler := handler.NewComplaintHandler(log, svcs.Complaint)
	applicationHandler := handler.NewApplicationHandler(log, svcs.Application)
	connectionHandler := handler.NewConnectionHandler(log, svcs.Connection)

	setupRouter(log, httpRouter, []byte(cfg.Auth.JWTSecret), db,
		billHandler, paymentHandler, methodHandler,
		complaintHandler, applicationHandler, connectionHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
