package payment

// EventKind is the closed set of Stripe webhook event types this service
// acts on. Everything else maps to EventUnknown and is acknowledged without
// side effects, so Stripe does not retry events we will never handle.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventCheckoutCompleted
	EventInvoicePaid
)

// ParseEventKind maps a raw Stripe event type string onto the closed kind
// set.
func ParseEventKind(eventType string) EventKind {
	switch eventType {
	case "checkout.session.completed":
		return EventCheckoutCompleted
	case "invoice.payment_succeeded":
		return EventInvoicePaid
	default:
		return EventUnknown
	}
}

func (k EventKind) String() string {
	switch k {
	case EventCheckoutCompleted:
		return "checkout.session.completed"
	case EventInvoicePaid:
		return "invoice.payment_succeeded"
	default:
		return "unknown"
	}
}
