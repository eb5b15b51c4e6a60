package metrics

import (
	"time" // Durations

	"github.com/prometheus/client_golang/prometheus"          // Collectors
	"github.com/prometheus/client_golang/prometheus/promauto" // Auto registration
)

const prefix = "ecommerce_api"

var (
	// HTTPRequestsTotal counts requests by method, route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method, route and status
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// AuthAttemptsTotal counts register and login attempts by outcome
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of registration and login attempts",
		},
		[]string{"operation", "result"},
	)

	// ProductOperationsTotal counts product writes by operation
	ProductOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation"},
	)

	// CategoryOperationsTotal counts category writes by operation
	CategoryOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_category_operations_total",
			Help: "Total number of category operations",
		},
		[]string{"operation"},
	)

	// PurchasedUnitsTotal counts units sold through the purchase endpoint
	PurchasedUnitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_purchased_units_total",
			Help: "Total number of product units purchased",
		},
	)

	// CacheLookupsTotal counts Redis response cache lookups by outcome
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_cache_lookups_total",
			Help: "Total number of response cache lookups",
		},
		[]string{"result"},
	)
)

// ObserveRequest records one finished HTTP request
func ObserveRequest(method, path, status string, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(elapsed.Seconds())
}

// RecordAuth records an authentication attempt
func RecordAuth(operation string, ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	AuthAttemptsTotal.WithLabelValues(operation, result).Inc()
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	ProductOperationsTotal.WithLabelValues(operation).Inc()
}

// RecordCategoryOperation increments the counter for category operations
func RecordCategoryOperation(operation string) {
	CategoryOperationsTotal.WithLabelValues(operation).Inc()
}

// RecordCacheLookup records a cache hit or miss
func RecordCacheLookup(hit bool) {
	if hit {
		CacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	CacheLookupsTotal.WithLabelValues("miss").Inc()
}
