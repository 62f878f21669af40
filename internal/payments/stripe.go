package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeGateway drives Stripe Checkout and verifies Stripe webhooks.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

// NewStripeGateway constructs a gateway bound to one Stripe account.
func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

// CreateSession opens a single-payment Checkout session priced inline, with
// the instance and template IDs attached as metadata so the completion
// webhook can find its way back.
func (g *StripeGateway) CreateSession(_ context.Context, p CheckoutParams) (CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(p.SuccessURL),
		CancelURL:          stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(p.ProductName),
						Description: stripe.String(p.Description),
					},
					UnitAmount: stripe.Int64(p.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("instance_id", p.InstanceID)
	params.AddMetadata("template_id", p.TemplateID)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("create checkout session: %w", err)
	}
	return CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// VerifyWebhook checks the Stripe-Signature header against the endpoint
// secret and extracts the session references from the event payload.
func (g *StripeGateway) VerifyWebhook(payload []byte, sigHeader string) (Event, error) {
	event, err := constructEvent(payload, sigHeader, g.webhookSecret)
	if err != nil {
		return Event{}, err
	}
	return eventFromStripe(event)
}

// constructEvent runs Stripe's signature check. API version mismatches are
// deliberately tolerated: the endpoint must accept events from accounts
// pinned to any Stripe API version, and a version skew is not a signature
// failure.
func constructEvent(payload []byte, sigHeader, secret string) (stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	return event, nil
}

func eventFromStripe(event stripe.Event) (Event, error) {
	out := Event{Type: string(event.Type)}
	if len(event.Data.Raw) == 0 {
		return out, nil
	}

	var obj struct {
		ID       string            `json:"id"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(event.Data.Raw, &obj); err != nil {
		return Event{}, fmt.Errorf("decode event object: %w", err)
	}
	out.SessionID = obj.ID
	out.InstanceID = obj.Metadata["instance_id"]
	return out, nil
}
