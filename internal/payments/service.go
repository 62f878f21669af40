package payments

import (
	"context"
	"errors"

	"formfill-backend/internal/shared/telemetry"
)

// Service coordinates checkout creation and webhook handling between the
// gateway and the instance records.
type Service struct {
	Gateway  Gateway
	Recorder Recorder
}

// CreateSession opens a checkout session for an instance.
func (s *Service) CreateSession(ctx context.Context, p CheckoutParams) (CheckoutSession, error) {
	return s.Gateway.CreateSession(ctx, p)
}

// HandleWebhook verifies and applies one webhook delivery. Completed
// checkouts mark the referenced instance paid; every other event type is
// acknowledged without touching state so Stripe stops retrying it.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) (Event, error) {
	event, err := s.Gateway.VerifyWebhook(payload, sigHeader)
	if err != nil {
		return Event{}, err
	}

	if event.Type != EventCheckoutCompleted {
		telemetry.Info("webhook event ignored", map[string]any{"eventType": event.Type})
		return event, nil
	}

	if event.InstanceID != "" {
		err = s.Recorder.MarkPaidByInstanceID(ctx, event.InstanceID)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return event, err
		}
	}
	if event.SessionID != "" {
		return event, s.Recorder.MarkPaidBySessionRef(ctx, event.SessionID)
	}
	return event, ErrNotFound
}
