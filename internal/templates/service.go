package templates

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"formfill-backend/internal/fieldmap"
	"formfill-backend/internal/pdfform"
	"formfill-backend/internal/shared/storage/object"
)

// Service contains business logic for template management.
type Service struct {
	Store object.Store
	Repo  Repo
}

// CreateInput carries the fields for registering a new template.
type CreateInput struct {
	Name        string
	Type        string
	Description string
	PriceCents  int64
	File        []byte
}

// FieldDescriptor describes one fillable field a template declares. Name is
// the business name clients should use in their fill payload; PDFName is the
// underlying AcroForm identifier.
type FieldDescriptor struct {
	Name    string `json:"name"`
	PDFName string `json:"pdfName"`
	Type    string `json:"type"`
}

// Create validates the uploaded PDF, stores it, and records the template.
func (s *Service) Create(ctx context.Context, in CreateInput) (Template, error) {
	if in.Name == "" || len(in.File) == 0 {
		return Template{}, ErrInvalidInput
	}

	tmpl := Template{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Type:        in.Type,
		Description: in.Description,
		Active:      true,
		PriceCents:  in.PriceCents,
		CreatedAt:   time.Now().UTC(),
	}
	tmpl.UpdatedAt = tmpl.CreatedAt
	if tmpl.Type == "" {
		tmpl.Type = "other"
	}
	if !ValidType(tmpl.Type) {
		return Template{}, fmt.Errorf("%w: unknown template type %q", ErrInvalidInput, in.Type)
	}

	if err := validatePDF(in.File); err != nil {
		return Template{}, err
	}

	tmpl.FileKey = blankKey(tmpl.ID)
	if _, err := s.Store.SaveWithKey(ctx, tmpl.FileKey, "application/pdf", bytes.NewReader(in.File)); err != nil {
		return Template{}, err
	}

	if err := s.Repo.Create(ctx, tmpl); err != nil {
		return Template{}, err
	}
	return tmpl, nil
}

// GetByID returns a single template.
func (s *Service) GetByID(ctx context.Context, id string) (Template, error) {
	if id == "" {
		return Template{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// ListActive returns active templates, optionally filtered by type.
func (s *Service) ListActive(ctx context.Context, templateType string) ([]Template, error) {
	return s.Repo.ListActive(ctx, templateType)
}

// Fields inspects a template's blank PDF and lists its fillable fields with
// the business names clients should use when filling them.
func (s *Service) Fields(ctx context.Context, id string) ([]FieldDescriptor, error) {
	tmpl, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rc, err := s.Store.Open(ctx, tmpl.FileKey)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	fields, err := pdfform.Inspect(data)
	if err != nil {
		return nil, err
	}

	out := make([]FieldDescriptor, 0, len(fields))
	for _, f := range fields {
		desc := FieldDescriptor{Name: f.Name, PDFName: f.Name, Type: f.Type}
		if business, ok := fieldmap.BusinessName(tmpl.Type, f.Name); ok {
			desc.Name = business
		}
		out = append(out, desc)
	}
	return out, nil
}

// ReplaceFile validates and stores a replacement PDF for an existing
// template. The storage key stays stable so in-flight references keep
// working.
func (s *Service) ReplaceFile(ctx context.Context, id string, file []byte) (Template, error) {
	tmpl, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Template{}, err
	}
	if len(file) == 0 {
		return Template{}, ErrInvalidInput
	}
	if err := validatePDF(file); err != nil {
		return Template{}, err
	}

	fileKey := blankKey(tmpl.ID)
	if _, err := s.Store.SaveWithKey(ctx, fileKey, "application/pdf", bytes.NewReader(file)); err != nil {
		return Template{}, err
	}
	if err := s.Repo.ReplaceFile(ctx, tmpl.ID, fileKey, tmpl.PreviewFileKey); err != nil {
		return Template{}, err
	}
	tmpl.FileKey = fileKey
	return tmpl, nil
}

// validatePDF rejects uploads that are not parseable PDFs or that declare no
// fillable form fields.
func validatePDF(data []byte) error {
	if _, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		return fmt.Errorf("%w: %v", ErrNotPDF, err)
	}
	fields, err := pdfform.Inspect(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotPDF, err)
	}
	if len(fields) == 0 {
		return fieldmap.ErrNoFields
	}
	return nil
}

func blankKey(id string) string {
	return "system-templates/" + id + ".pdf"
}
