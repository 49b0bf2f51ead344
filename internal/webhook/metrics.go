package webhook

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics mirrors the exported counters in-process.
type Metrics struct {
	Events         atomic.Int64
	Notifications  atomic.Int64
	TotalLatencyNs atomic.Int64
}

func (m *Metrics) RecordEvent(d time.Duration) {
	m.Events.Add(1)
	m.TotalLatencyNs.Add(d.Nanoseconds())
}

func (m *Metrics) RecordNotifications(n int) {
	m.Notifications.Add(int64(n))
}

var (
	webhookMetricsOnce      sync.Once
	webhookEventCounter     metric.Int64Counter
	notificationCounter     metric.Int64Counter
	webhookLatencyHistogram metric.Float64Histogram
)

func initWebhookOTelMetrics() {
	webhookMetricsOnce.Do(func() {
		meter := otel.Meter("favrelay/webhook")

		var err error
		webhookEventCounter, err = meter.Int64Counter(
			"favrelay.webhook.events.total",
			metric.WithDescription("Total webhook events processed"),
		)
		if err != nil {
			log.Printf("observability: failed to create webhook event counter: %v", err)
		}

		notificationCounter, err = meter.Int64Counter(
			"favrelay.slack.notifications.total",
			metric.WithDescription("Total Slack mention notifications delivered"),
		)
		if err != nil {
			log.Printf("observability: failed to create notification counter: %v", err)
		}

		webhookLatencyHistogram, err = meter.Float64Histogram(
			"favrelay.webhook.processing_time",
			metric.WithDescription("Webhook processing time (ms)"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			log.Printf("observability: failed to create webhook latency histogram: %v", err)
		}
	})
}

func recordEventMetric(ctx context.Context, action string, d time.Duration) {
	if webhookEventCounter != nil {
		webhookEventCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
	}
	if webhookLatencyHistogram != nil {
		webhookLatencyHistogram.Record(ctx, float64(d.Milliseconds()), metric.WithAttributes(attribute.String("action", action)))
	}
}

func recordNotificationMetric(ctx context.Context, n int) {
	if n > 0 && notificationCounter != nil {
		notificationCounter.Add(ctx, int64(n))
	}
}
