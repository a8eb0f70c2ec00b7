package service

import (
	"context"
	"time"

	"github.com/AhmeddHanyy/Order-Management-System/internal/broker"
	"github.com/AhmeddHanyy/Order-Management-System/internal/models"
	"github.com/AhmeddHanyy/Order-Management-System/internal/redisclient"
	"github.com/AhmeddHanyy/Order-Management-System/internal/store"
	"github.com/AhmeddHanyy/Order-Management-System/internal/util"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// OrderService converts carts into immutable orders and manages order status
// after creation. Conversion is all-or-nothing: order plus items are created
// and the source cart destroyed in one transaction, with the product prices
// in effect at that instant snapshotted onto the order items.
type OrderService struct {
	store  *store.Store
	cache  *redisclient.Client
	events *broker.EventPublisher
	logger *zap.Logger
}

// NewOrderService creates a new order service. Cache and event publisher are
// optional; a nil value disables that path.
func NewOrderService(store *store.Store, cache *redisclient.Client, events *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:  store,
		cache:  cache,
		events: events,
		logger: util.GetLogger(),
	}
}

// CreateOrderRequest represents a request to convert a user's cart
type CreateOrderRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// UpdateStatusRequest represents a request to change an order's status
type UpdateStatusRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// CreateOrder converts the user's cart into a new Pending order. The cart row
// is locked for the duration of the transaction; when two conversions race,
// the loser observes the cart already gone and fails cleanly instead of
// billing twice.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.OrderWithItems, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderConversionLatency.Observe(time.Since(start).Seconds())
	}()

	var result *models.OrderWithItems

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.store.GetUserByID(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return NotFound("user not found")
		}

		cart, err := s.store.GetActiveCartForUpdate(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		if cart == nil {
			return NotFound("cart not found for user")
		}

		lines, err := s.store.GetCartLines(ctx, tx, cart.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return InvalidRequest("no items found in the user's cart")
		}

		order := &models.Order{
			UserID: req.UserID,
			Status: models.OrderStatusPending,
		}
		if err := s.store.CreateOrder(ctx, tx, order); err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Price,
			}
			if err := s.store.CreateOrderItem(ctx, tx, &item); err != nil {
				return err
			}
			items = append(items, item)
		}

		if _, err := s.store.DeleteCartItems(ctx, tx, cart.ID); err != nil {
			return err
		}

		deleted, err := s.store.DeleteCart(ctx, tx, cart.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return InvalidRequest("cart was already converted to an order")
		}

		result = &models.OrderWithItems{Order: *order, Items: items}
		return nil
	})
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, classify("failed to create order", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", result.ID),
		zap.Int64("user_id", result.UserID),
		zap.Int("item_count", len(result.Items)),
		zap.Int64("total_amount", result.Total()))

	s.invalidateCache(ctx, req.UserID)

	if s.events != nil {
		if err := s.events.PublishOrderCreated(ctx, result); err != nil {
			s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
		}
	}

	return result, nil
}

// GetOrder returns an order with its items, but only to its owner. A missing
// order and an order owned by someone else are reported identically so the
// response never reveals that the order exists.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID int64) (*models.OrderWithItems, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.GetOrder")
	defer span.End()

	var result *models.OrderWithItems

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.store.GetUserByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return NotFound("user not found")
		}

		order, err := s.store.GetOrderByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil || order.UserID != userID {
			return NotFound("order not found for the user")
		}

		items, err := s.store.GetOrderItems(ctx, tx, order.ID)
		if err != nil {
			return err
		}

		result = &models.OrderWithItems{Order: *order, Items: items}
		return nil
	})
	if err != nil {
		return nil, classify("failed to retrieve order", err)
	}

	return result, nil
}

// ListOrders returns all of a user's orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListOrders")
	defer span.End()

	user, err := s.store.GetUserByID(ctx, s.store.DB(), userID)
	if err != nil {
		return nil, classify("failed to retrieve orders", err)
	}
	if user == nil {
		return nil, NotFound("user not found")
	}

	orders, err := s.store.GetOrdersByUserID(ctx, s.store.DB(), userID)
	if err != nil {
		return nil, classify("failed to retrieve orders", err)
	}
	return orders, nil
}

// UpdateStatus overwrites an order's status. Status is free-form text and no
// transition graph is enforced; ownership is the only gate, and an order
// owned by someone else reads as not found.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, req *UpdateStatusRequest) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.store.GetUserByID(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return NotFound("user not found")
		}

		updated, err := s.store.UpdateOrderStatusForUser(ctx, tx, orderID, req.UserID, req.Status)
		if err != nil {
			return err
		}
		if !updated {
			return NotFound("order not found for user")
		}
		return nil
	})
	if err != nil {
		return classify("failed to update order status", err)
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(req.Status).Inc()
	s.logger.Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.Int64("user_id", req.UserID),
		zap.String("new_status", req.Status))

	if s.events != nil {
		if err := s.events.PublishOrderStatusChanged(ctx, orderID, req.UserID, req.Status); err != nil {
			s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
		}
	}

	return nil
}

func (s *OrderService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCart(ctx, userID); err != nil {
		s.logger.Warn("Cart cache invalidation failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func failureReason(err error) string {
	switch KindOf(err) {
	case KindNotFound:
		return "not_found"
	case KindInvalidRequest:
		return "invalid_request"
	default:
		return "error"
	}
}
