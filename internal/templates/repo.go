package templates

import "context"

// Repo defines persistence operations for templates.
type Repo interface {
	Create(ctx context.Context, tmpl Template) error
	GetByID(ctx context.Context, id string) (Template, error)
	ListActive(ctx context.Context, templateType string) ([]Template, error)
	ReplaceFile(ctx context.Context, id, fileKey, previewFileKey string) error
}
