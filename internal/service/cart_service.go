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

// CartService owns the cart aggregate: creation, item merge, quantity
// overwrite and item removal. Every mutation runs inside one transaction;
// there is no in-process locking, so correctness under concurrent requests
// comes entirely from the store's constraints and atomic upserts.
type CartService struct {
	store  *store.Store
	cache  *redisclient.Client
	events *broker.EventPublisher
	logger *zap.Logger
}

// NewCartService creates a new cart service. Cache and event publisher are
// optional; a nil value disables that path.
func NewCartService(store *store.Store, cache *redisclient.Client, events *broker.EventPublisher) *CartService {
	return &CartService{
		store:  store,
		cache:  cache,
		events: events,
		logger: util.GetLogger(),
	}
}

// AddItemRequest represents a request to add an item to a cart
type AddItemRequest struct {
	UserID    int64 `json:"user_id" binding:"required"`
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// UpdateItemRequest represents a request to overwrite an item's quantity
type UpdateItemRequest struct {
	UserID    int64 `json:"user_id" binding:"required"`
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// RemoveItemRequest represents a request to remove an item from a cart
type RemoveItemRequest struct {
	UserID    int64 `json:"user_id" binding:"required"`
	ProductID int64 `json:"product_id" binding:"required"`
}

// AddItem merges quantity into the user's cart, creating the cart when the
// user has none. Adding the same product twice accumulates; it never
// overwrites.
func (s *CartService) AddItem(ctx context.Context, req *AddItemRequest) (*models.CartItem, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CartOperationLatency.WithLabelValues("add_item").Observe(time.Since(start).Seconds())
	}()

	if req.Quantity <= 0 {
		util.CartOperationsFailedTotal.WithLabelValues("add_item", "invalid_quantity").Inc()
		return nil, InvalidRequest("quantity must be a positive integer")
	}

	var item *models.CartItem
	var cartID int64

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.store.GetUserByID(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return NotFound("user not found")
		}

		cart, err := s.store.GetOrCreateCart(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		item, err = s.store.UpsertCartItem(ctx, tx, cart.ID, req.ProductID, req.Quantity)
		return err
	})
	if err != nil {
		util.CartOperationsFailedTotal.WithLabelValues("add_item", "error").Inc()
		return nil, classify("failed to add item to cart", err)
	}

	util.CartItemsAddedTotal.Inc()
	s.logger.Info("Item added to cart",
		zap.Int64("user_id", req.UserID),
		zap.Int64("cart_id", cartID),
		zap.Int64("product_id", req.ProductID),
		zap.Int("quantity", item.Quantity))

	s.invalidateCache(ctx, req.UserID)

	if s.events != nil {
		if err := s.events.PublishCartItemAdded(ctx, req.UserID, cartID, req.ProductID, req.Quantity); err != nil {
			s.logger.Error("Failed to publish CartItemAdded event", zap.Error(err))
		}
	}

	return item, nil
}

// GetCart returns the user's cart with its items. Reads go through the cache
// when one is configured; the store is the source of truth.
func (s *CartService) GetCart(ctx context.Context, userID int64) (*models.CartWithItems, error) {
	ctx, span := util.StartSpan(ctx, "CartService.GetCart")
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.GetCart(ctx, userID)
		if err != nil {
			s.logger.Warn("Cart cache read failed", zap.Int64("user_id", userID), zap.Error(err))
		} else if cached != nil {
			util.CartCacheHitsTotal.Inc()
			return cached, nil
		}
		util.CartCacheMissesTotal.Inc()
	}

	var result *models.CartWithItems

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.store.GetUserByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return NotFound("user not found")
		}

		cart, err := s.store.GetActiveCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return NotFound("cart not found for user")
		}

		items, err := s.store.GetCartItems(ctx, tx, cart.ID)
		if err != nil {
			return err
		}

		result = &models.CartWithItems{Cart: *cart, Items: items}
		return nil
	})
	if err != nil {
		return nil, classify("failed to retrieve cart", err)
	}

	if s.cache != nil {
		if err := s.cache.SetCart(ctx, result); err != nil {
			s.logger.Warn("Cart cache write failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	}

	return result, nil
}

// UpdateItem overwrites the quantity of a product already in the user's cart
func (s *CartService) UpdateItem(ctx context.Context, req *UpdateItemRequest) (*models.CartItem, error) {
	ctx, span := util.StartSpan(ctx, "CartService.UpdateItem")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CartOperationLatency.WithLabelValues("update_item").Observe(time.Since(start).Seconds())
	}()

	if req.Quantity <= 0 {
		util.CartOperationsFailedTotal.WithLabelValues("update_item", "invalid_quantity").Inc()
		return nil, InvalidRequest("quantity must be a positive integer")
	}

	var item *models.CartItem

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		cartItem, err := s.findCartItem(ctx, tx, req.UserID, req.ProductID)
		if err != nil {
			return err
		}

		item, err = s.store.SetCartItemQuantity(ctx, tx, cartItem.ID, req.Quantity)
		return err
	})
	if err != nil {
		util.CartOperationsFailedTotal.WithLabelValues("update_item", "error").Inc()
		return nil, classify("failed to update cart", err)
	}

	s.logger.Info("Cart item updated",
		zap.Int64("user_id", req.UserID),
		zap.Int64("product_id", req.ProductID),
		zap.Int("quantity", req.Quantity))

	s.invalidateCache(ctx, req.UserID)

	return item, nil
}

// RemoveItem deletes a product's line from the user's cart. The cart row is
// retained even when it becomes empty.
func (s *CartService) RemoveItem(ctx context.Context, req *RemoveItemRequest) error {
	ctx, span := util.StartSpan(ctx, "CartService.RemoveItem")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CartOperationLatency.WithLabelValues("remove_item").Observe(time.Since(start).Seconds())
	}()

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		cartItem, err := s.findCartItem(ctx, tx, req.UserID, req.ProductID)
		if err != nil {
			return err
		}

		return s.store.DeleteCartItem(ctx, tx, cartItem.ID)
	})
	if err != nil {
		util.CartOperationsFailedTotal.WithLabelValues("remove_item", "error").Inc()
		return classify("failed to remove item from cart", err)
	}

	util.CartItemsRemovedTotal.Inc()
	s.logger.Info("Cart item removed",
		zap.Int64("user_id", req.UserID),
		zap.Int64("product_id", req.ProductID))

	s.invalidateCache(ctx, req.UserID)

	return nil
}

// findCartItem walks the user -> cart -> item existence chain and returns the
// first NotFound it hits
func (s *CartService) findCartItem(ctx context.Context, tx *sqlx.Tx, userID, productID int64) (*models.CartItem, error) {
	user, err := s.store.GetUserByID(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("user not found")
	}

	cart, err := s.store.GetActiveCart(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, NotFound("cart not found for user")
	}

	item, err := s.store.FindCartItem(ctx, tx, cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, NotFound("product not found in cart")
	}

	return item, nil
}

func (s *CartService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCart(ctx, userID); err != nil {
		s.logger.Warn("Cart cache invalidation failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}
