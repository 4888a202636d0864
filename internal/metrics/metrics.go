package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	propertyTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_status_transitions_total",
			Help: "Total number of property moderation transitions",
		},
		[]string{"status"},
	)

	otpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_requests_total",
			Help: "Total number of OTP requests by purpose",
		},
		[]string{"purpose"},
	)
)

// HTTPMetrics records request metrics for the Echo server.
type HTTPMetrics struct{}

// NewHTTPMetrics registers the collectors and returns the middleware holder.
func NewHTTPMetrics() *HTTPMetrics {
	prometheus.MustRegister(requestCounter, requestDuration, propertyTransitions, otpRequests)
	return &HTTPMetrics{}
}

// Middleware records a counter and duration sample per request.
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method
			path := c.Path()

			requestCounter.WithLabelValues(method, path, status).Inc()
			requestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// ObservePropertyTransition counts an approve/reject moderation decision.
func ObservePropertyTransition(status string) {
	propertyTransitions.WithLabelValues(status).Inc()
}

// ObserveOTPRequest counts an issued OTP by purpose.
func ObserveOTPRequest(purpose string) {
	otpRequests.WithLabelValues(purpose).Inc()
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
