package payments

import (
	"context"
	"fmt"
)

// FakeGateway stands in for Stripe when no secret key is configured. It
// hands out deterministic session IDs and a checkout URL under the app's
// own base URL, so the full generate-pay-download flow works locally.
//
// Webhook verification still runs Stripe's real signature scheme against
// WebhookSecret, so a dev instance rejects unsigned payloads the same way
// production does.
type FakeGateway struct {
	BaseURL       string
	WebhookSecret string
}

func (g *FakeGateway) CreateSession(_ context.Context, p CheckoutParams) (CheckoutSession, error) {
	id := "cs_test_" + p.InstanceID
	return CheckoutSession{
		ID:  id,
		URL: fmt.Sprintf("%s/fake-checkout/%s", g.BaseURL, id),
	}, nil
}

func (g *FakeGateway) VerifyWebhook(payload []byte, sigHeader string) (Event, error) {
	event, err := constructEvent(payload, sigHeader, g.WebhookSecret)
	if err != nil {
		return Event{}, err
	}
	return eventFromStripe(event)
}
