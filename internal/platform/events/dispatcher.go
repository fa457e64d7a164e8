// Package events runs post-commit side effects of the payment flow: the
// audit trail append and the Kafka publish. Both are best-effort; a failure
// here is logged but can never affect a payment that already committed.
package events

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/Chihiro-bmp/CitySync/internal/domain/audit"
	"github.com/Chihiro-bmp/CitySync/internal/domain/shared"
	"github.com/Chihiro-bmp/CitySync/internal/platform/messaging/producers"
)

// sideEffectTimeout bounds each dispatched task; the request that triggered
// it has already returned.
const sideEffectTimeout = 10 * time.Second

// Dispatcher fans payment events out to the audit trail and the event topic
// on a worker pool, off the request goroutine.
type Dispatcher struct {
	logger    *slog.Logger
	pool      *ants.Pool
	auditRepo audit.Repository
	producer  producers.MessagePublisher
}

// NewDispatcher creates a dispatcher backed by a worker pool of the given
// size.
func NewDispatcher(logger *slog.Logger, poolSize int, auditRepo audit.Repository, producer producers.MessagePublisher) (*Dispatcher, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		logger:    logger,
		pool:      pool,
		auditRepo: auditRepo,
		producer:  producer,
	}, nil
}

// Dispatch submits the event's side effects to the worker pool. If the pool
// rejects the task the side effects run inline so they are never dropped
// silently.
func (d *Dispatcher) Dispatch(event *shared.PaymentEvent) {
	eventCopy := *event

	if err := d.pool.Submit(func() { d.run(&eventCopy) }); err != nil {
		d.logger.Warn("Worker pool rejected payment event, running inline",
			"event_id", event.EventID.String(),
			"error", err,
		)
		d.run(&eventCopy)
	}
}

func (d *Dispatcher) run(event *shared.PaymentEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	entry := &audit.Entry{
		EventID:       event.EventID,
		PaymentID:     event.PaymentID,
		BillID:        event.BillID,
		ConsumerID:    event.ConsumerID,
		MethodID:      event.MethodID,
		Amount:        event.Amount.StringFixed(2),
		Outcome:       string(event.Outcome),
		FailureReason: event.FailureReason,
		CorrelationID: event.CorrelationID,
		RecordedAt:    event.OccurredAt,
	}

	if err := d.auditRepo.Append(ctx, entry); err != nil {
		d.logger.Error("Failed to record payment audit entry",
			"event_id", event.EventID.String(),
			"bill_id", event.BillID,
			"error", err,
		)
	}

	// Only completed payments are announced downstream; failed attempts stay
	// in the audit trail.
	if event.Outcome != shared.PaymentOutcomeCompleted {
		return
	}

	key := strconv.FormatInt(event.BillID, 10)
	if err := d.producer.Publish(ctx, key, event); err != nil {
		d.logger.Error("Failed to publish payment event",
			"event_id", event.EventID.String(),
			"bill_id", event.BillID,
			"error", err,
		)
	}
}

// Shutdown releases the worker pool.
func (d *Dispatcher) Shutdown() {
	d.logger.Info("Shutting down event dispatcher", "running_workers", d.pool.Running())
	d.pool.Release()
}

// Running returns the number of busy workers in the pool.
func (d *Dispatcher) Running() int {
	return d.pool.Running()
}
