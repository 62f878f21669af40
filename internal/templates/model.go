package templates

import "time"

// Template is a system-provided blank PDF form available for generation.
// Immutable after creation except for administrative replacement of the
// stored file.
type Template struct {
	ID             string
	Name           string
	Type           string
	Description    string
	FileKey        string
	PreviewFileKey string
	Active         bool
	PriceCents     int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

var validTypes = map[string]struct{}{
	"paystub": {},
	"w2":      {},
	"1099":    {},
	"invoice": {},
	"receipt": {},
	"other":   {},
}

// ValidType reports whether t is a known template type.
func ValidType(t string) bool {
	_, ok := validTypes[t]
	return ok
}
