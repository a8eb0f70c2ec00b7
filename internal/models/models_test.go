package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderTotal(t *testing.T) {
	order := &OrderWithItems{
		Order: Order{ID: 1, UserID: 1, Status: OrderStatusPending},
		Items: []OrderItem{
			{ProductID: 1, Quantity: 2, Price: 1000},
			{ProductID: 2, Quantity: 1, Price: 500},
		},
	}

	assert.Equal(t, int64(2500), order.Total())
}

func TestOrderTotalEmpty(t *testing.T) {
	order := &OrderWithItems{}
	assert.Equal(t, int64(0), order.Total())
}
