package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AhmeddHanyy/Order-Management-System/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(nil, nil)
	handler.SetupRoutes(router)
	return router
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFromError(service.NotFound("user not found")))
	assert.Equal(t, http.StatusBadRequest, statusFromError(service.InvalidRequest("quantity must be a positive integer")))
	assert.Equal(t, http.StatusInternalServerError, statusFromError(service.Unexpected("boom", errors.New("db down"))))
	assert.Equal(t, http.StatusInternalServerError, statusFromError(errors.New("untyped")))
}

func TestAddToCartRejectsMalformedBody(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/add", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddToCartRejectsMissingFields(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/add", strings.NewReader(`{"user_id": 1}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCartRejectsBadUserID(t *testing.T) {
	router := newTestRouter()

	for _, userID := range []string{"abc", "0", "-5"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/cart/"+userID, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "userId=%s", userID)
	}
}

func TestGetOrderRejectsBadOrderID(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/1/abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatusRejectsMissingStatus(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/orders/1/status", strings.NewReader(`{"user_id": 1}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderRejectsMissingUserID(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/health", "/ready"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "path=%s", path)
	}
}
