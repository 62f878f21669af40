package instances

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. The data payload lives in a JSONB
// column.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new instance.
func (r *PGRepo) Create(ctx context.Context, inst Instance) error {
	const query = `
INSERT INTO template_instances (
    id,
    template_id,
    data,
    file_key,
    is_paid,
    checkout_session_id,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

	dataJSON, err := json.Marshal(inst.Data)
	if err != nil {
		return fmt.Errorf("marshal instance data: %w", err)
	}

	var sessionRef sql.NullString
	if inst.CheckoutSessionID != "" {
		sessionRef = sql.NullString{String: inst.CheckoutSessionID, Valid: true}
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		inst.ID,
		inst.TemplateID,
		dataJSON,
		inst.FileKey,
		inst.Paid,
		sessionRef,
		inst.CreatedAt,
	)
	return err
}

const instanceColumns = `id, template_id, data, file_key, is_paid, checkout_session_id, created_at, updated_at`

// GetByID fetches an instance by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Instance, error) {
	const query = `
SELECT ` + instanceColumns + `
FROM template_instances
WHERE id = $1
LIMIT 1`

	return r.fetch(ctx, query, id)
}

// GetBySessionRef fetches the instance holding a checkout session reference.
func (r *PGRepo) GetBySessionRef(ctx context.Context, sessionID string) (Instance, error) {
	const query = `
SELECT ` + instanceColumns + `
FROM template_instances
WHERE checkout_session_id = $1
LIMIT 1`

	return r.fetch(ctx, query, sessionID)
}

func (r *PGRepo) fetch(ctx context.Context, query string, arg any) (Instance, error) {
	var inst Instance
	var dataJSON []byte
	var sessionRef sql.NullString

	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&inst.ID,
		&inst.TemplateID,
		&dataJSON,
		&inst.FileKey,
		&inst.Paid,
		&sessionRef,
		&inst.CreatedAt,
		&inst.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Instance{}, ErrNotFound
		}
		return Instance{}, err
	}

	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &inst.Data); err != nil {
			return Instance{}, fmt.Errorf("unmarshal instance data: %w", err)
		}
	}
	if sessionRef.Valid {
		inst.CheckoutSessionID = sessionRef.String
	}
	return inst, nil
}

// SetSessionRef stores the checkout session reference for an instance. A
// later checkout for the same instance overwrites the earlier reference.
func (r *PGRepo) SetSessionRef(ctx context.Context, id, sessionID string) error {
	const query = `
UPDATE template_instances
SET checkout_session_id = $2,
    updated_at = now()
WHERE id = $1`

	res, err := r.DB.ExecContext(ctx, query, id, sessionID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// MarkPaid flips is_paid in a single guarded UPDATE so concurrent webhook
// deliveries cannot double-apply. Zero rows means either already paid or
// unknown, so it is followed by an existence check.
func (r *PGRepo) MarkPaid(ctx context.Context, id string) error {
	const query = `
UPDATE template_instances
SET is_paid = TRUE,
    updated_at = now()
WHERE id = $1
  AND is_paid = FALSE`

	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	_, err = r.GetByID(ctx, id)
	return err
}

// CreatePreview inserts a transient preview record.
func (r *PGRepo) CreatePreview(ctx context.Context, p Preview) error {
	const query = `
INSERT INTO template_previews (
    id,
    template_id,
    data,
    file_key,
    created_at
) VALUES ($1, $2, $3, $4, $5)`

	dataJSON, err := json.Marshal(p.Data)
	if err != nil {
		return fmt.Errorf("marshal preview data: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, query, p.ID, p.TemplateID, dataJSON, p.FileKey, p.CreatedAt)
	return err
}

// GetPreview fetches a preview by ID.
func (r *PGRepo) GetPreview(ctx context.Context, id string) (Preview, error) {
	const query = `
SELECT id, template_id, data, file_key, created_at
FROM template_previews
WHERE id = $1
LIMIT 1`

	var p Preview
	var dataJSON []byte
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.TemplateID,
		&dataJSON,
		&p.FileKey,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Preview{}, ErrNotFound
		}
		return Preview{}, err
	}
	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &p.Data); err != nil {
			return Preview{}, fmt.Errorf("unmarshal preview data: %w", err)
		}
	}
	return p, nil
}

// DeletePreview removes a preview record.
func (r *PGRepo) DeletePreview(ctx context.Context, id string) error {
	const query = `DELETE FROM template_previews WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
