package model

// Metadata keys attached to checkout sessions and payment intents.
const (
	MetadataOrderID = "orderId"
	MetadataUserID  = "userId"
)

// WebhookEventKind is the closed set of processor events the reconciler knows.
// Anything else parses to WebhookEventUnhandled.
type WebhookEventKind int

const (
	WebhookEventUnhandled WebhookEventKind = iota
	WebhookEventCheckoutSessionCompleted
	WebhookEventPaymentIntentFailed
)

var webhookEventKinds = map[string]WebhookEventKind{
	"checkout.session.completed":    WebhookEventCheckoutSessionCompleted,
	"payment_intent.payment_failed": WebhookEventPaymentIntentFailed,
}

func ParseWebhookEventKind(eventType string) WebhookEventKind {
	if k, ok := webhookEventKinds[eventType]; ok {
		return k
	}
	return WebhookEventUnhandled
}

func (k WebhookEventKind) String() string {
	switch k {
	case WebhookEventCheckoutSessionCompleted:
		return "checkout.session.completed"
	case WebhookEventPaymentIntentFailed:
		return "payment_intent.payment_failed"
	default:
		return "unhandled"
	}
}
