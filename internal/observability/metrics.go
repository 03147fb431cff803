// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diplomat_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// NotificationsWritten counts outbox writes by category and outcome.
	NotificationsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diplomat_notifications_written_total",
		Help: "Total number of notification outbox writes by category and outcome",
	}, []string{"category", "outcome"})

	// PushDeliveries counts push fan-out attempts by outcome.
	PushDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diplomat_push_deliveries_total",
		Help: "Total number of push fan-out attempts by outcome",
	}, []string{"outcome"})

	// ReportTransitions counts report status transitions by new status.
	ReportTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diplomat_report_transitions_total",
		Help: "Total number of moderation report status transitions",
	}, []string{"status"})

	// UploadFailures counts failed uploads to the external file manager.
	UploadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "diplomat_upload_failures_total",
		Help: "Total number of failed uploads to the external file manager",
	})
)
