package instances

import "context"

// Repo persists instances and previews.
type Repo interface {
	Create(ctx context.Context, inst Instance) error
	GetByID(ctx context.Context, id string) (Instance, error)
	GetBySessionRef(ctx context.Context, sessionID string) (Instance, error)
	SetSessionRef(ctx context.Context, id, sessionID string) error

	// MarkPaid flips paid to true. Calling it on an already-paid instance
	// is a no-op success; an unknown id is ErrNotFound.
	MarkPaid(ctx context.Context, id string) error

	CreatePreview(ctx context.Context, p Preview) error
	GetPreview(ctx context.Context, id string) (Preview, error)
	DeletePreview(ctx context.Context, id string) error
}
