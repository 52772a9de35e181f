package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, path template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradeconnect_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path template.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradeconnect_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// LoginAttemptsTotal counts logins by outcome: success, invalid,
	// locked_out, two_factor_required.
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradeconnect_login_attempts_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// TokenRefreshesTotal counts refresh operations by outcome: success,
	// reuse_detected, invalid.
	TokenRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradeconnect_token_refreshes_total",
			Help: "Refresh token rotations by outcome.",
		},
		[]string{"outcome"},
	)

	// RateLimitedTotal counts requests rejected by the rate limiter.
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradeconnect_rate_limited_total",
			Help: "Requests rejected by rate limiting.",
		},
		[]string{"action"},
	)

	// EventRegistrationsTotal counts event registrations by outcome.
	EventRegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradeconnect_event_registrations_total",
			Help: "Event registrations by outcome.",
		},
		[]string{"outcome"},
	)
)
