package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/AhmeddHanyy/Order-Management-System/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessageIgnoresCartEvents(t *testing.T) {
	w := NewAuditWorker(nil, nil)

	msg := kafka.Message{
		Value: []byte(`{"event_id": "e1", "event_type": "CART_ITEM_ADDED", "user_id": 1}`),
	}

	// Cart events are filtered out before any store access
	require.NoError(t, w.handleMessage(context.Background(), msg))
}

func TestHandleMessageRejectsMalformedPayload(t *testing.T) {
	w := NewAuditWorker(nil, nil)

	msg := kafka.Message{Value: []byte("{not json")}

	err := w.handleMessage(context.Background(), msg)
	assert.Error(t, err)
}

func TestOrderEventEnvelopeDecoding(t *testing.T) {
	var envelope orderEventEnvelope
	payload := []byte(`{"event_id": "e2", "event_type": "ORDER_CREATED", "order_id": 42, "user_id": 7}`)
	require.NoError(t, json.Unmarshal(payload, &envelope))
	assert.Equal(t, models.EventTypeOrderCreated, envelope.EventType)
	assert.Equal(t, int64(42), envelope.OrderID)
}
