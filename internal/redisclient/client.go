package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AhmeddHanyy/Order-Management-System/internal/models"

	"github.com/go-redis/redis/v8"
)

// Client caches cart reads. Carts are read far more often than they change;
// every mutation invalidates the cached entry, so a stale read window is
// bounded by the TTL.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int, cartTTL time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: cartTTL}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func cartKey(userID int64) string {
	return fmt.Sprintf("cart:%d", userID)
}

// GetCart retrieves a cached cart. Returns (nil, nil) on a cache miss.
func (c *Client) GetCart(ctx context.Context, userID int64) (*models.CartWithItems, error) {
	data, err := c.rdb.Get(ctx, cartKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached cart: %w", err)
	}

	var cart models.CartWithItems
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cached cart: %w", err)
	}
	return &cart, nil
}

// SetCart caches a cart with the configured TTL
func (c *Client) SetCart(ctx context.Context, cart *models.CartWithItems) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	return c.rdb.Set(ctx, cartKey(cart.UserID), data, c.ttl).Err()
}

// InvalidateCart drops the cached cart for a user
func (c *Client) InvalidateCart(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, cartKey(userID)).Err()
}
