package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AhmeddHanyy/Order-Management-System/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database handle, usable wherever a query does not
// need a surrounding transaction.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// WithTx runs fn inside a single transaction. Any error from fn rolls the
// whole transaction back; the error is returned unchanged so callers can
// classify it.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by ID. Returns (nil, nil) when the user does
// not exist.
func (s *Store) GetUserByID(ctx context.Context, q sqlx.ExtContext, id int64) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, q, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email)
		VALUES ($1, $2)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, user, query, user.Name, user.Email)
}

// GetProductByID retrieves a product by ID. Returns (nil, nil) when the
// product does not exist.
func (s *Store) GetProductByID(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Product, error) {
	var product models.Product
	err := sqlx.GetContext(ctx, q, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (sku, name, price)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, product, query, product.SKU, product.Name, product.Price)
}

// UpdateProductPrice updates a product's live catalog price. Existing order
// items keep the price captured at order time.
func (s *Store) UpdateProductPrice(ctx context.Context, productID, price int64) error {
	_, err := s.db.ExecContext(ctx, "UPDATE products SET price = $1 WHERE id = $2", price, productID)
	return err
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}

// RecordOrderEvent appends an entry to the order audit trail
func (s *Store) RecordOrderEvent(ctx context.Context, orderID int64, eventType string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO order_events (order_id, event_type, payload) VALUES ($1, $2, $3)",
		orderID, eventType, string(payload))
	return err
}

// GetOrderEvents retrieves the audit trail for an order, oldest first
func (s *Store) GetOrderEvents(ctx context.Context, orderID int64) ([]models.OrderEvent, error) {
	var events []models.OrderEvent
	err := s.db.SelectContext(ctx, &events,
		"SELECT * FROM order_events WHERE order_id = $1 ORDER BY id", orderID)
	return events, err
}
