package models

import "time"

// User represents a registered customer
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Product represents a product in the catalog (read-only for this service)
type Product struct {
	ID        int64     `db:"id" json:"id"`
	SKU       string    `db:"sku" json:"sku"`
	Name      string    `db:"name" json:"name"`
	Price     int64     `db:"price" json:"price"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Cart represents a user's active shopping cart
type Cart struct {
	ID        int64     `db:"id" json:"cart_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CartItem represents a (product, quantity) line in a cart
type CartItem struct {
	ID        int64 `db:"id" json:"id"`
	CartID    int64 `db:"cart_id" json:"cart_id"`
	ProductID int64 `db:"product_id" json:"product_id"`
	Quantity  int   `db:"quantity" json:"quantity"`
}

// CartWithItems is a cart together with its line items
type CartWithItems struct {
	Cart
	Items []CartItem `json:"items"`
}

// Order represents a customer order
type Order struct {
	ID        int64     `db:"id" json:"order_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem represents a line in an order. Price is the product's unit price
// captured when the order was created; later catalog changes never touch it.
type OrderItem struct {
	ID        int64 `db:"id" json:"id"`
	OrderID   int64 `db:"order_id" json:"order_id"`
	ProductID int64 `db:"product_id" json:"product_id"`
	Quantity  int   `db:"quantity" json:"quantity"`
	Price     int64 `db:"price" json:"price"`
}

// OrderWithItems is an order together with its line items
type OrderWithItems struct {
	Order
	Items []OrderItem `json:"items"`
}

// Total returns the order total in cents from the snapshotted line prices.
func (o *OrderWithItems) Total() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// Order statuses. Status is stored as free-form text; these are the
// well-known values. New orders always start as Pending.
const (
	OrderStatusPending   = "Pending"
	OrderStatusPaid      = "Paid"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// ProcessedEvent marks a consumed event for idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}

// OrderEvent is an audit trail entry recorded by the event worker
type OrderEvent struct {
	ID         int64     `db:"id" json:"id"`
	OrderID    int64     `db:"order_id" json:"order_id"`
	EventType  string    `db:"event_type" json:"event_type"`
	Payload    []byte    `db:"payload" json:"payload"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}
