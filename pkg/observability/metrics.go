package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Global collector instance for singleton pattern
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	ToolsAttached      prometheus.Counter
	ToolsRemoved       prometheus.Counter
	ConnectionsCreated prometheus.Counter
	ConnectionsDeleted prometheus.Counter
	PostsCreated       prometheus.Counter
	IdeasReviewed      prometheus.Counter

	// Repository metrics
	DBOperations *prometheus.CounterVec
	DBDuration   *prometheus.HistogramVec

	// Query bus metrics
	QueryDuration *prometheus.HistogramVec
}

// NewCollector creates a new metrics collector with the given namespace.
// A process-wide singleton avoids duplicate registration in tests.
func NewCollector(namespace string) *Collector {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	toolsAttached := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tools_attached_total",
			Help:      "Total number of tools attached to projects",
		},
	)

	toolsRemoved := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tools_removed_total",
			Help:      "Total number of tools removed from projects",
		},
	)

	connectionsCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_created_total",
			Help:      "Total number of tool connections created",
		},
	)

	connectionsDeleted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_deleted_total",
			Help:      "Total number of tool connections deleted",
		},
	)

	postsCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_posts_created_total",
			Help:      "Total number of feed posts created",
		},
	)

	ideasReviewed := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ideas_reviewed_total",
			Help:      "Total number of idea reviews recorded",
		},
	)

	dbOperations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_operations_total",
			Help:      "Total number of database operations",
		},
		[]string{"operation", "table", "status"},
	)

	dbDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_operation_duration_seconds",
			Help:      "Database operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Query bus handler duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"query", "status"},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		toolsAttached,
		toolsRemoved,
		connectionsCreated,
		connectionsDeleted,
		postsCreated,
		ideasReviewed,
		dbOperations,
		dbDuration,
		queryDuration,
	)

	globalCollector = &Collector{
		registry:           registry,
		HTTPRequests:       httpRequests,
		HTTPDuration:       httpDuration,
		ToolsAttached:      toolsAttached,
		ToolsRemoved:       toolsRemoved,
		ConnectionsCreated: connectionsCreated,
		ConnectionsDeleted: connectionsDeleted,
		PostsCreated:       postsCreated,
		IdeasReviewed:      ideasReviewed,
		DBOperations:       dbOperations,
		DBDuration:         dbDuration,
		QueryDuration:      queryDuration,
	}

	return globalCollector
}

// Handler returns an HTTP handler exposing this collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records a completed HTTP request
func (c *Collector) ObserveHTTP(method, route string, status string, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveQuery records a completed query bus dispatch
func (c *Collector) ObserveQuery(query, status string, duration time.Duration) {
	c.QueryDuration.WithLabelValues(query, status).Observe(duration.Seconds())
}

// ObserveDB records a completed database operation
func (c *Collector) ObserveDB(operation, table, status string, duration time.Duration) {
	c.DBOperations.WithLabelValues(operation, table, status).Inc()
	c.DBDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}
