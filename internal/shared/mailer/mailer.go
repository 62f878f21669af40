package mailer

import "context"

// Email is a single outbound message.
type Email struct {
	From    string
	To      []string
	Subject string
	Text    string
}

// Mailer sends emails. Implementations report the outcome of a single
// transmission attempt and never retry.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}
