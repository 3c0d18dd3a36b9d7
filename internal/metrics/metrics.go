package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gym_dashboard",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gym_dashboard",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gym_dashboard",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	clientsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gym_dashboard",
			Subsystem: "clients",
			Name:      "created_total",
			Help:      "Total number of clients added by coaches.",
		},
	)

	invoicesIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gym_dashboard",
			Subsystem: "invoices",
			Name:      "issued_total",
			Help:      "Total number of invoices issued, by plan.",
		},
		[]string{"plan"},
	)

	paymentMethodsAdded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gym_dashboard",
			Subsystem: "payment_methods",
			Name:      "added_total",
			Help:      "Total number of payment methods added, by type.",
		},
		[]string{"type"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		clientsCreated,
		invoicesIssued,
		paymentMethodsAdded,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records in-flight, count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func RecordClientCreated() {
	clientsCreated.Inc()
}

func RecordInvoiceIssued(plan string) {
	invoicesIssued.WithLabelValues(plan).Inc()
}

func RecordPaymentMethodAdded(paymentType string) {
	paymentMethodsAdded.WithLabelValues(paymentType).Inc()
}
