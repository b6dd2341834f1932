package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CheckoutSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitcoach_checkout_sessions_total",
			Help: "Number of checkout session attempts by outcome",
		},
		[]string{"outcome"},
	)

	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitcoach_webhook_events_total",
			Help: "Number of processor webhook deliveries by event type and outcome",
		},
		[]string{"type", "outcome"},
	)

	WebhookProcessingTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "fitcoach_webhook_processing_seconds",
			Help: "Time taken to reconcile a webhook delivery",
		},
	)
)

func Register() {
	prometheus.MustRegister(CheckoutSessions, WebhookEvents, WebhookProcessingTime)
}
