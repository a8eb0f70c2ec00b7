package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/AhmeddHanyy/Order-Management-System/internal/service"
	"github.com/AhmeddHanyy/Order-Management-System/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	cartService  *service.CartService
	orderService *service.OrderService
}

// NewHandler creates a new HTTP handler
func NewHandler(cartService *service.CartService, orderService *service.OrderService) *Handler {
	return &Handler{
		cartService:  cartService,
		orderService: orderService,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	cart := router.Group("/api/cart")
	{
		cart.POST("/add", h.addToCart)
		cart.GET("/:userId", h.getCart)
		cart.PUT("/update", h.updateCart)
		cart.DELETE("/remove", h.removeFromCart)
	}

	orders := router.Group("/api/orders")
	{
		orders.POST("", h.createOrder)
		orders.GET("/:userId", h.listOrders)
		orders.GET("/:userId/:orderId", h.getOrder)
		orders.PUT("/:orderId/status", h.updateOrderStatus)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// addToCart handles adding an item to a user's cart
func (h *Handler) addToCart(c *gin.Context) {
	var req service.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	item, err := h.cartService.AddItem(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Item added to cart successfully",
		"cart_item": item,
	})
}

// getCart handles retrieving a user's cart with items
func (h *Handler) getCart(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// updateCart handles overwriting a cart item's quantity
func (h *Handler) updateCart(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	item, err := h.cartService.UpdateItem(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Cart item updated successfully",
		"cart_item": item,
	})
}

// removeFromCart handles removing an item from a user's cart
func (h *Handler) removeFromCart(c *gin.Context) {
	var req service.RemoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item removed successfully",
	})
}

// createOrder handles converting a user's cart into an order
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   order,
	})
}

// listOrders handles listing a user's orders
func (h *Handler) listOrders(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// getOrder handles retrieving an order for its owner
func (h *Handler) getOrder(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	orderID, ok := parseID(c, "orderId")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// updateOrderStatus handles overwriting an order's status
func (h *Handler) updateOrderStatus(c *gin.Context) {
	orderID, ok := parseID(c, "orderId")
	if !ok {
		return
	}

	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.orderService.UpdateStatus(c.Request.Context(), orderID, &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Order status updated successfully",
		"order_id":   orderID,
		"new_status": req.Status,
	})
}

// parseID reads a positive integer path parameter, responding 400 on failure
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return id, true
}

// respondError maps a service error kind to an HTTP status
func respondError(c *gin.Context, err error) {
	c.JSON(statusFromError(err), gin.H{"error": err.Error()})
}

func statusFromError(err error) int {
	switch service.KindOf(err) {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
