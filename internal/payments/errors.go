package payments

import "errors"

var (
	// ErrBadSignature indicates a webhook payload whose signature did not
	// verify against the configured endpoint secret.
	ErrBadSignature = errors.New("webhook signature verification failed")

	// ErrNotFound indicates no local record matches the event's references.
	ErrNotFound = errors.New("payment target not found")
)
