package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/AhmeddHanyy/Order-Management-System/internal/models"

	"github.com/google/uuid"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

// PublishCartItemAdded publishes a CartItemAdded event keyed by user so a
// user's cart activity stays ordered
func (ep *EventPublisher) PublishCartItemAdded(ctx context.Context, userID, cartID, productID int64, quantity int) error {
	event := &models.CartItemAddedEvent{
		BaseEvent: newBaseEvent(models.EventTypeCartItemAdded),
		UserID:    userID,
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("user-%d", userID), event)
}

// PublishOrderCreated publishes an OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, order *models.OrderWithItems) error {
	items := make([]models.OrderItemData, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, models.OrderItemData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
	}

	event := &models.OrderCreatedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeOrderCreated),
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.Total(),
		Items:       items,
	}
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("order-%d", order.ID), event)
}

// PublishOrderStatusChanged publishes an OrderStatusChanged event
func (ep *EventPublisher) PublishOrderStatusChanged(ctx context.Context, orderID, userID int64, newStatus string) error {
	event := &models.OrderStatusChangedEvent{
		BaseEvent: newBaseEvent(models.EventTypeOrderStatusChanged),
		OrderID:   orderID,
		UserID:    userID,
		NewStatus: newStatus,
	}
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("order-%d", orderID), event)
}
