package service

import (
	"context"
	"sync"
	"testing"

	"github.com/AhmeddHanyy/Order-Management-System/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderNoCart(t *testing.T) {
	s := newTestStore(t)
	orders := NewOrderService(s, nil, nil)
	user := createTestUser(t, s)

	_, err := orders.CreateOrder(context.Background(), &CreateOrderRequest{UserID: user.ID})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCreateOrderEmptyCart(t *testing.T) {
	s := newTestStore(t)
	carts := NewCartService(s, nil, nil)
	orders := NewOrderService(s, nil, nil)
	user := createTestUser(t, s)
	product := createTestProduct(t, s, 1000)

	ctx := context.Background()

	_, err := carts.AddItem(ctx, &AddItemRequest{UserID: user.ID, ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, carts.RemoveItem(ctx, &RemoveItemRequest{UserID: user.ID, ProductID: product.ID}))

	_, err = orders.CreateOrder(ctx, &CreateOrderRequest{UserID: user.ID})
	require.Error(t, err)
	assert.Equal(t, KindInvalidRequest, KindOf(err))
}

func TestCreateOrderConvertsCart(t *testing.T) {
	s := newTestStore(t)
	carts := NewCartService(s, nil, nil)
	orders := NewOrderService(s, nil, nil)
	user := createTestUser(t, s)
	productA := createTestProduct(t, s, 1000)
	productB := createTestProduct(t, s, 500)

	ctx := context.Background()

	_, err := carts.AddItem(ctx, &AddItemRequest{UserID: user.ID, ProductID: productA.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, &AddItemRequest{UserID: user.ID, ProductID: productB.ID, Quantity: 1})
	require.NoError(t, err)

	order, err := orders.CreateOrder(ctx, &CreateOrderRequest{UserID: user.ID})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, int64(1000), order.Items[0].Price)
	assert.Equal(t, 1, order.Items[1].Quantity)
	assert.Equal(t, int64(500), order.Items[1].Price)
	assert.Equal(t, int64(2500), order.Total())

	// The cart is gone: at most one order per cart lifetime
	_, err = carts.GetCart(ctx, user.ID)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestOrderPriceSnapshotImmutable(t *testing.T) {
	s := newTestStore(t)
	carts := NewCartService(s, nil, nil)
	orders := NewOrderService(s, nil, nil)
	user := createTestUser(t, s)
	product := createTestProduct(t, s, 1000)

	ctx := context.Background()

	_, err := carts.AddItem(ctx, &AddItemRequest{UserID: user.ID, ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	order, err := orders.CreateOrder(ctx, &CreateOrderRequest{UserID: user.ID})
	require.NoError(t, err)

	require.NoError(t, s.UpdateProductPrice(ctx, product.ID, 9999))

	reread, err := orders.GetOrder(ctx, user.ID, order.ID)
	require.NoError(t, err)
	require.Len(t, reread.Items, 1)
	assert.Equal(t, int64(1000), reread.Items[0].Price,
		"order item price must not follow the catalog price")
}

func TestConcurrentCreateOrderSingleWinner(t *testing.T) {
	s := newTestStore(t)
	carts := NewCartService(s, nil, nil)
	orders := NewOrderService(s, nil, nil)
	user := createTestUser(t, s)
	product := createTestProduct(t, s, 1000)

	ctx := context.Background()

	_, err := carts.AddItem(ctx, &AddItemRequest{UserID: user.ID, ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	const n = 5
	results := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := orders.CreateOrder(ctx, &CreateOrderRequest{UserID: user.ID})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		// Losers must fail as an expected outcome, never crash or double-bill
		kind := KindOf(err)
		assert.True(t, kind == KindNotFound || kind == KindInvalidRequest,
			"unexpected failure kind for losing conversion: %v", err)
	}
	assert.Equal(t, 1, succeeded, "exactly one conversion may win")

	list, err := orders.ListOrders(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGetOrderHidesForeignOrders(t *testing.T) {
	s := newTestStore(t)
	carts := NewCartService(s, nil, nil)
	orders := NewOrderService(s, nil, nil)
	owner := createTestUser(t, s)
	stranger := createTestUser(t, s)
	product := createTestProduct(t, s, 1000)

	ctx := context.Background()

	_, err := carts.AddItem(ctx, &AddItemRequest{UserID: owner.ID, ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	order, err := orders.CreateOrder(ctx, &CreateOrderRequest{UserID: owner.ID})
	require.NoError(t, err)

	_, missingErr := orders.GetOrder(ctx, stranger.ID, order.ID+1000000)
	_, foreignErr := orders.GetOrder(ctx, stranger.ID, order.ID)

	require.Error(t, missingErr)
	require.Error(t, foreignErr)
	assert.Equal(t, KindNotFound, KindOf(missingErr))
	assert.Equal(t, KindNotFound, KindOf(foreignErr))
	assert.Equal(t, missingErr.Error(), foreignErr.Error(),
		"a foreign order must be indistinguishable from a missing one")
}

func TestUpdateStatus(t *testing.T) {
	s := newTestStore(t)
	carts := NewCartService(s, nil, nil)
	orders := NewOrderService(s, nil, nil)
	user := createTestUser(t, s)
	other := createTestUser(t, s)
	product := createTestProduct(t, s, 1000)

	ctx := context.Background()

	_, err := carts.AddItem(ctx, &AddItemRequest{UserID: user.ID, ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	order, err := orders.CreateOrder(ctx, &CreateOrderRequest{UserID: user.ID})
	require.NoError(t, err)

	// Only the owner may mutate status
	err = orders.UpdateStatus(ctx, order.ID, &UpdateStatusRequest{UserID: other.ID, Status: models.OrderStatusPaid})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	require.NoError(t, orders.UpdateStatus(ctx, order.ID, &UpdateStatusRequest{UserID: user.ID, Status: models.OrderStatusShipped}))

	// No transition graph: any string is accepted, including going backwards
	require.NoError(t, orders.UpdateStatus(ctx, order.ID, &UpdateStatusRequest{UserID: user.ID, Status: models.OrderStatusPending}))

	reread, err := orders.GetOrder(ctx, user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, reread.Status)
}

func TestEndToEndCartToOrder(t *testing.T) {
	s := newTestStore(t)
	carts := NewCartService(s, nil, nil)
	orders := NewOrderService(s, nil, nil)
	user := createTestUser(t, s)
	productA := createTestProduct(t, s, 2500)
	productB := createTestProduct(t, s, 700)

	ctx := context.Background()

	_, err := carts.AddItem(ctx, &AddItemRequest{UserID: user.ID, ProductID: productA.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, &AddItemRequest{UserID: user.ID, ProductID: productB.ID, Quantity: 1})
	require.NoError(t, err)

	order, err := orders.CreateOrder(ctx, &CreateOrderRequest{UserID: user.ID})
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	quantities := []int{order.Items[0].Quantity, order.Items[1].Quantity}
	assert.ElementsMatch(t, []int{2, 1}, quantities)

	_, err = carts.GetCart(ctx, user.ID)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}
