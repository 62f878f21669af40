package instances

import "time"

// Instance is a generated document awaiting (or past) payment.
type Instance struct {
	ID                string
	TemplateID        string
	Data              map[string]string
	FileKey           string
	Paid              bool
	CheckoutSessionID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Preview is a transient filled document produced without a checkout. It is
// deleted when promoted to a real instance.
type Preview struct {
	ID         string
	TemplateID string
	Data       map[string]string
	FileKey    string
	CreatedAt  time.Time
}
