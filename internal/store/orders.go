package store

import (
	"context"
	"database/sql"

	"github.com/AhmeddHanyy/Order-Management-System/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateOrder inserts a new order
func (s *Store) CreateOrder(ctx context.Context, q sqlx.ExtContext, order *models.Order) error {
	query := `
		INSERT INTO orders (user_id, status)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	return sqlx.GetContext(ctx, q, order, query, order.UserID, order.Status)
}

// CreateOrderItem inserts a new order item with its price snapshot
func (s *Store) CreateOrderItem(ctx context.Context, q sqlx.ExtContext, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return sqlx.GetContext(ctx, q, &item.ID, query,
		item.OrderID, item.ProductID, item.Quantity, item.Price)
}

// GetOrderByID retrieves an order by ID. Returns (nil, nil) when the order
// does not exist.
func (s *Store) GetOrderByID(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Order, error) {
	var order models.Order
	err := sqlx.GetContext(ctx, q, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderItems retrieves all items for an order
func (s *Store) GetOrderItems(ctx context.Context, q sqlx.ExtContext, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := sqlx.SelectContext(ctx, q, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// GetOrdersByUserID retrieves a user's orders, newest first
func (s *Store) GetOrdersByUserID(ctx context.Context, q sqlx.ExtContext, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := sqlx.SelectContext(ctx, q, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}

// UpdateOrderStatusForUser overwrites an order's status, but only when the
// order belongs to the given user. Returns false when no such order exists,
// which callers report the same way as a missing order.
func (s *Store) UpdateOrderStatusForUser(ctx context.Context, q sqlx.ExtContext, orderID, userID int64, status string) (bool, error) {
	res, err := q.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3",
		status, orderID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
