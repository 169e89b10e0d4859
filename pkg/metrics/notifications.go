package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NotificationMetrics records vendor notification fan-out outcomes.
type NotificationMetrics struct {
	sent     *prometheus.CounterVec
	failed   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewNotificationMetrics registers the notification metrics on the provided registerer.
func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	sent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vendor_notifications_sent_total",
		Help: "Vendor notifications delivered, by channel.",
	}, []string{"channel"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vendor_notifications_failed_total",
		Help: "Vendor notifications that exhausted retries, by channel.",
	}, []string{"channel"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vendor_notification_send_seconds",
		Help:    "Time spent delivering one vendor notification.",
		Buckets: prometheus.DefBuckets,
	}, []string{"channel"})
	reg.MustRegister(sent, failed, duration)
	return &NotificationMetrics{
		sent:     sent,
		failed:   failed,
		duration: duration,
	}
}

// IncSent increments the delivered counter for the channel.
func (n *NotificationMetrics) IncSent(channel string) {
	if n == nil || n.sent == nil {
		return
	}
	n.sent.WithLabelValues(channelLabel(channel)).Inc()
}

// IncFailed increments the failure counter for the channel.
func (n *NotificationMetrics) IncFailed(channel string) {
	if n == nil || n.failed == nil {
		return
	}
	n.failed.WithLabelValues(channelLabel(channel)).Inc()
}

// ObserveSend records how long one delivery attempt chain took.
func (n *NotificationMetrics) ObserveSend(channel string, d time.Duration) {
	if n == nil || n.duration == nil {
		return
	}
	n.duration.WithLabelValues(channelLabel(channel)).Observe(d.Seconds())
}

func channelLabel(channel string) string {
	if channel == "" {
		return "unknown"
	}
	return channel
}
