package payments

import "context"

// CheckoutParams carries everything a gateway needs to open a checkout
// session for one generated document.
type CheckoutParams struct {
	InstanceID  string
	TemplateID  string
	ProductName string
	Description string
	AmountCents int64
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession is the gateway's handle for a started checkout.
type CheckoutSession struct {
	ID  string
	URL string
}

// Event is a verified payment notification. SessionID and InstanceID carry
// whichever references the gateway included; either may be empty.
type Event struct {
	Type       string
	SessionID  string
	InstanceID string
}

// EventCheckoutCompleted is the only event type that changes local state.
const EventCheckoutCompleted = "checkout.session.completed"

// Gateway abstracts the payment provider so the rest of the app never
// touches provider SDK types.
type Gateway interface {
	CreateSession(ctx context.Context, p CheckoutParams) (CheckoutSession, error)
	VerifyWebhook(payload []byte, sigHeader string) (Event, error)
}

// Recorder is implemented by whoever owns instance payment state. Both
// lookups must be idempotent so replayed webhooks are harmless.
type Recorder interface {
	MarkPaidByInstanceID(ctx context.Context, instanceID string) error
	MarkPaidBySessionRef(ctx context.Context, sessionID string) error
}
