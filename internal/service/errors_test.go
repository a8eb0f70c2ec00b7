package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("user not found")))
	assert.Equal(t, KindInvalidRequest, KindOf(InvalidRequest("quantity must be a positive integer")))
	assert.Equal(t, KindUnexpected, KindOf(Unexpected("boom", errors.New("db down"))))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("untyped")))
	assert.Equal(t, KindUnexpected, KindOf(nil))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("cart not found for user"))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestClassifyPassesThroughTypedErrors(t *testing.T) {
	original := NotFound("order not found for the user")
	classified := classify("failed to retrieve order", original)

	assert.Equal(t, KindNotFound, KindOf(classified))
	assert.Equal(t, original.Error(), classified.Error())
}

func TestClassifyConstraintViolation(t *testing.T) {
	// 23503 foreign_key_violation, e.g. adding an unknown product to a cart
	pqErr := &pq.Error{Code: "23503", Message: "violates foreign key constraint"}
	classified := classify("failed to add item to cart", pqErr)

	assert.Equal(t, KindInvalidRequest, KindOf(classified))
	assert.True(t, errors.Is(classified, pqErr))
}

func TestClassifyUnknownError(t *testing.T) {
	cause := errors.New("connection refused")
	classified := classify("failed to create order", cause)

	assert.Equal(t, KindUnexpected, KindOf(classified))
	assert.True(t, errors.Is(classified, cause))
	assert.Contains(t, classified.Error(), "failed to create order")
}

func TestErrorMessage(t *testing.T) {
	plain := NotFound("cart not found for user")
	assert.Equal(t, "cart not found for user", plain.Error())

	wrapped := Unexpected("failed to retrieve cart", errors.New("timeout"))
	assert.Equal(t, "failed to retrieve cart: timeout", wrapped.Error())
}
