package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Total HTTP requests by method, path and status.
	ReqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Request duration histogram.
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "app_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)

	// Application errors by handler and type.
	ErrorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_errors_total",
			Help: "Total app errors",
		},
		[]string{"handler", "type"},
	)

	// Points awarded on goal completion, labelled by goal type.
	PointsAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_goal_points_awarded_total",
			Help: "Points awarded for completed goals",
		},
		[]string{"goal_type"},
	)
)

func InitMetrics() {
	prometheus.MustRegister(ReqCount, ReqDuration, ErrorCount, PointsAwarded)
}
