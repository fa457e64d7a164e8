package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Chihiro-bmp/CitySync/internal/api"
	"github.com/Chihiro-bmp/CitySync/internal/api/service"
	"github.com/Chihiro-bmp/CitySync/internal/config"
	"github.com/Chihiro-bmp/CitySync/internal/data/mongo"
	"github.com/Chihiro-bmp/CitySync/internal/data/postgres"
	"github.com/Chihiro-bmp/CitySync/internal/logger"
	"github.com/Chihiro-bmp/CitySync/internal/platform/events"
	"github.com/Chihiro-bmp/CitySync/internal/platform/messaging/producers"
	"github.com/Chihiro-bmp/CitySync/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for payment events
	paymentProducer, err := producers.NewPaymentEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize payment event producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	billRepo := postgres.NewBillRepository(log, postgresDB)
	paymentRepo := postgres.NewPaymentRepository(log, postgresDB)
	methodRepo := postgres.NewPaymentMethodRepository(log, postgresDB)
	complaintRepo := postgres.NewComplaintRepository(log, postgresDB)
	applicationRepo := postgres.NewApplicationRepository(log, postgresDB)
	connectionRepo := postgres.NewConnectionRepository(log, postgresDB)
	auditRepo := mongo.NewAuditRepository(log, mongoDB.Database())

	// Initialize the post-commit side-effect dispatcher
	dispatcher, err := events.NewDispatcher(log, cfg.Dispatcher.PoolSize, auditRepo, paymentProducer)
	if err != nil {
		log.Error("Failed to initialize event dispatcher", "error", err)
		os.Exit(1)
	}

	// Initialize services
	svcs := api.Services{
		Billing:       service.NewBillingService(billRepo, log),
		Payment:       service.NewPaymentService(postgresDB, billRepo, paymentRepo, methodRepo, auditRepo, dispatcher, log),
		PaymentMethod: service.NewPaymentMethodService(postgresDB, methodRepo, log),
		Complaint:     service.NewComplaintService(complaintRepo, log),
		Application:   service.NewApplicationService(applicationRepo, log),
		Connection:    service.NewConnectionService(connectionRepo, log),
	}

	// Initialize REST server
	server := api.NewServer(log, cfg, postgresDB, svcs)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so no new payments arrive
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Drain in-flight side effects before closing their sinks
	dispatcher.Shutdown()

	if err = paymentProducer.Close(); err != nil {
		log.Error("Error closing payment event producer", "error", err)
	}

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
