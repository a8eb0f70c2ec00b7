package store

import (
	"context"
	"database/sql"

	"github.com/AhmeddHanyy/Order-Management-System/internal/models"

	"github.com/jmoiron/sqlx"
)

// CartLine is a cart item joined with the product's current catalog price.
// Used when converting a cart into an order.
type CartLine struct {
	ProductID int64 `db:"product_id"`
	Quantity  int   `db:"quantity"`
	Price     int64 `db:"price"`
}

// GetActiveCart retrieves the user's active cart. Returns (nil, nil) when the
// user has no cart. The schema allows at most one cart per user; the ORDER BY
// keeps reads deterministic regardless.
func (s *Store) GetActiveCart(ctx context.Context, q sqlx.ExtContext, userID int64) (*models.Cart, error) {
	var cart models.Cart
	err := sqlx.GetContext(ctx, q, &cart,
		"SELECT * FROM carts WHERE user_id = $1 ORDER BY id DESC LIMIT 1", userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetActiveCartForUpdate retrieves the user's active cart with a row lock.
// Must run inside a transaction; concurrent order conversions serialize on
// this lock.
func (s *Store) GetActiveCartForUpdate(ctx context.Context, tx *sqlx.Tx, userID int64) (*models.Cart, error) {
	var cart models.Cart
	err := tx.GetContext(ctx, &cart,
		"SELECT * FROM carts WHERE user_id = $1 ORDER BY id DESC LIMIT 1 FOR UPDATE", userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetOrCreateCart returns the user's cart, creating it atomically when none
// exists. The no-op DO UPDATE makes the insert return the existing row, so
// two racing calls converge on the same cart.
func (s *Store) GetOrCreateCart(ctx context.Context, q sqlx.ExtContext, userID int64) (*models.Cart, error) {
	query := `
		INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at`

	var cart models.Cart
	if err := sqlx.GetContext(ctx, q, &cart, query, userID); err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCartItems retrieves all items in a cart
func (s *Store) GetCartItems(ctx context.Context, q sqlx.ExtContext, cartID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := sqlx.SelectContext(ctx, q, &items,
		"SELECT * FROM cart_items WHERE cart_id = $1 ORDER BY id", cartID)
	return items, err
}

// FindCartItem retrieves the item for a product within a cart. Returns
// (nil, nil) when the product is not in the cart.
func (s *Store) FindCartItem(ctx context.Context, q sqlx.ExtContext, cartID, productID int64) (*models.CartItem, error) {
	var item models.CartItem
	err := sqlx.GetContext(ctx, q, &item,
		"SELECT * FROM cart_items WHERE cart_id = $1 AND product_id = $2", cartID, productID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpsertCartItem merges quantity into the cart item for a product, inserting
// the row when absent. The upsert keys on the (cart_id, product_id) unique
// constraint, so concurrent merges for the same product accumulate instead of
// producing duplicate rows or lost updates.
func (s *Store) UpsertCartItem(ctx context.Context, q sqlx.ExtContext, cartID, productID int64, quantity int) (*models.CartItem, error) {
	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, cart_id, product_id, quantity`

	var item models.CartItem
	if err := sqlx.GetContext(ctx, q, &item, query, cartID, productID, quantity); err != nil {
		return nil, err
	}
	return &item, nil
}

// SetCartItemQuantity overwrites a cart item's quantity
func (s *Store) SetCartItemQuantity(ctx context.Context, q sqlx.ExtContext, itemID int64, quantity int) (*models.CartItem, error) {
	query := `
		UPDATE cart_items SET quantity = $1
		WHERE id = $2
		RETURNING id, cart_id, product_id, quantity`

	var item models.CartItem
	if err := sqlx.GetContext(ctx, q, &item, query, quantity, itemID); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteCartItem removes a single cart item
func (s *Store) DeleteCartItem(ctx context.Context, q sqlx.ExtContext, itemID int64) error {
	_, err := q.ExecContext(ctx, "DELETE FROM cart_items WHERE id = $1", itemID)
	return err
}

// DeleteCartItems removes all items belonging to a cart and reports how many
// rows were deleted
func (s *Store) DeleteCartItems(ctx context.Context, q sqlx.ExtContext, cartID int64) (int64, error) {
	res, err := q.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = $1", cartID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteCart removes a cart row. Returns false when the row was already gone,
// which signals a concurrent conversion of the same cart.
func (s *Store) DeleteCart(ctx context.Context, q sqlx.ExtContext, cartID int64) (bool, error) {
	res, err := q.ExecContext(ctx, "DELETE FROM carts WHERE id = $1", cartID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetCartLines retrieves a cart's items joined with live product prices
func (s *Store) GetCartLines(ctx context.Context, q sqlx.ExtContext, cartID int64) ([]CartLine, error) {
	query := `
		SELECT ci.product_id, ci.quantity, p.price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`

	var lines []CartLine
	err := sqlx.SelectContext(ctx, q, &lines, query, cartID)
	return lines, err
}
