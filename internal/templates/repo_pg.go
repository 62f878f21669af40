package templates

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new template.
func (r *PGRepo) Create(ctx context.Context, tmpl Template) error {
	const query = `
INSERT INTO templates (
    id,
    name,
    template_type,
    description,
    file_key,
    preview_file_key,
    is_active,
    price_cents,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`

	templateType := tmpl.Type
	if templateType == "" {
		templateType = "other"
	}

	var previewKey sql.NullString
	if tmpl.PreviewFileKey != "" {
		previewKey = sql.NullString{String: tmpl.PreviewFileKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		tmpl.ID,
		tmpl.Name,
		templateType,
		tmpl.Description,
		tmpl.FileKey,
		previewKey,
		tmpl.Active,
		tmpl.PriceCents,
		tmpl.CreatedAt,
	)
	return err
}

const selectColumns = `id, name, template_type, description, file_key, preview_file_key, is_active, price_cents, created_at, updated_at`

// GetByID fetches a template by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Template, error) {
	const query = `
SELECT ` + selectColumns + `
FROM templates
WHERE id = $1
LIMIT 1`

	row := r.DB.QueryRowContext(ctx, query, id)
	tmpl, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, ErrNotFound
		}
		return Template{}, err
	}
	return tmpl, nil
}

// ListActive lists active templates, optionally filtered by type.
func (r *PGRepo) ListActive(ctx context.Context, templateType string) ([]Template, error) {
	query := `
SELECT ` + selectColumns + `
FROM templates
WHERE is_active = TRUE`
	args := []any{}
	if templateType != "" {
		query += ` AND template_type = $1`
		args = append(args, templateType)
	}
	query += `
ORDER BY template_type, name`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tmpl)
	}
	return out, rows.Err()
}

// ReplaceFile swaps the stored file references for a template.
func (r *PGRepo) ReplaceFile(ctx context.Context, id, fileKey, previewFileKey string) error {
	const query = `
UPDATE templates
SET file_key = $2,
    preview_file_key = $3,
    updated_at = now()
WHERE id = $1`

	var previewKey sql.NullString
	if previewFileKey != "" {
		previewKey = sql.NullString{String: previewFileKey, Valid: true}
	}

	res, err := r.DB.ExecContext(ctx, query, id, fileKey, previewKey)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (Template, error) {
	var tmpl Template
	var previewKey sql.NullString
	err := row.Scan(
		&tmpl.ID,
		&tmpl.Name,
		&tmpl.Type,
		&tmpl.Description,
		&tmpl.FileKey,
		&previewKey,
		&tmpl.Active,
		&tmpl.PriceCents,
		&tmpl.CreatedAt,
		&tmpl.UpdatedAt,
	)
	if err != nil {
		return Template{}, err
	}
	if previewKey.Valid {
		tmpl.PreviewFileKey = previewKey.String
	}
	return tmpl, nil
}
