package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartItemsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_items_added_total",
		Help: "Total number of items merged into carts",
	})

	CartItemsRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_items_removed_total",
		Help: "Total number of items removed from carts",
	})

	CartOperationsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_failed_total",
		Help: "Total number of failed cart operations",
	}, []string{"operation", "reason"})

	CartOperationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_operation_latency_seconds",
		Help:    "Latency of cart operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created from carts",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order creations",
	}, []string{"reason"})

	OrderStatusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_updates_total",
		Help: "Total number of order status updates",
	}, []string{"status"})

	OrderConversionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_conversion_latency_seconds",
		Help:    "Latency of cart-to-order conversion",
		Buckets: prometheus.DefBuckets,
	})

	CartCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_cache_hits_total",
		Help: "Total number of cart reads served from cache",
	})

	CartCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_cache_misses_total",
		Help: "Total number of cart reads that missed the cache",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
