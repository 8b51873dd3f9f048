package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "marketplace",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "marketplace",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "bookings",
			Name:      "created_total",
			Help:      "Total number of bookings created.",
		},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "bookings",
			Name:      "transitions_total",
			Help:      "Booking status transitions.",
		},
		[]string{"from", "to"},
	)

	disputesClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "disputes",
			Name:      "closed_total",
			Help:      "Disputes closed by an admin, by outcome.",
		},
		[]string{"status"},
	)

	refundsIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "disputes",
			Name:      "refund_amount_total",
			Help:      "Sum of refund amounts credited to wallets.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		bookingsCreated,
		bookingTransitions,
		disputesClosed,
		refundsIssued,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registry on a Fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}

// Middleware records in-flight, count and latency per matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		httpInFlight.Inc()
		start := time.Now()
		err := c.Next()
		httpInFlight.Dec()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		route := c.Route().Path
		httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

func BookingCreated() { bookingsCreated.Inc() }

func BookingTransition(from, to string) {
	bookingTransitions.WithLabelValues(from, to).Inc()
}

func DisputeClosed(status string, refund float64) {
	disputesClosed.WithLabelValues(status).Inc()
	if refund > 0 {
		refundsIssued.Add(refund)
	}
}
