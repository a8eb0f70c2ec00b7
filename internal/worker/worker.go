package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AhmeddHanyy/Order-Management-System/internal/broker"
	"github.com/AhmeddHanyy/Order-Management-System/internal/models"
	"github.com/AhmeddHanyy/Order-Management-System/internal/store"
	"github.com/AhmeddHanyy/Order-Management-System/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// AuditWorker consumes order events and appends them to the order audit
// trail. Processing is idempotent: redelivered events are skipped via the
// processed_events table.
type AuditWorker struct {
	consumer *broker.Consumer
	store    *store.Store
	logger   *zap.Logger
}

// NewAuditWorker creates a new audit worker
func NewAuditWorker(consumer *broker.Consumer, store *store.Store) *AuditWorker {
	return &AuditWorker{
		consumer: consumer,
		store:    store,
		logger:   util.GetLogger(),
	}
}

// Start starts the worker
func (w *AuditWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting audit worker")
	return w.consumer.StartConsuming(ctx, w.handleMessage)
}

// Stop stops the worker
func (w *AuditWorker) Stop() error {
	w.logger.Info("Stopping audit worker")
	return w.consumer.Close()
}

// orderEventEnvelope carries the fields the worker needs from any order event
type orderEventEnvelope struct {
	models.BaseEvent
	OrderID int64 `json:"order_id"`
}

func (w *AuditWorker) handleMessage(ctx context.Context, msg kafka.Message) error {
	var envelope orderEventEnvelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	switch envelope.EventType {
	case models.EventTypeOrderCreated, models.EventTypeOrderStatusChanged:
	default:
		// Cart events carry no order and are not audited
		return nil
	}

	processed, err := w.store.IsEventProcessed(ctx, envelope.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		w.logger.Info("Event already processed", zap.String("event_id", envelope.EventID))
		return nil
	}

	if err := w.store.RecordOrderEvent(ctx, envelope.OrderID, envelope.EventType, msg.Value); err != nil {
		return fmt.Errorf("failed to record order event: %w", err)
	}

	if err := w.store.MarkEventProcessed(ctx, envelope.EventID, envelope.EventType); err != nil {
		w.logger.Error("Failed to mark event processed", zap.Error(err))
	}

	w.logger.Info("Order event recorded",
		zap.Int64("order_id", envelope.OrderID),
		zap.String("event_type", envelope.EventType),
		zap.String("event_id", envelope.EventID))
	return nil
}
