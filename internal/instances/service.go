package instances

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"formfill-backend/internal/fieldmap"
	"formfill-backend/internal/payments"
	"formfill-backend/internal/pdfform"
	"formfill-backend/internal/shared/storage/object"
	"formfill-backend/internal/shared/telemetry"
	"formfill-backend/internal/templates"
)

// Service generates filled documents and owns instance payment state.
type Service struct {
	Repo      Repo
	Templates *templates.Service
	Store     object.Store
	Payments  *payments.Service

	// DefaultPriceCents applies when a template carries no price.
	DefaultPriceCents int64
	// PublicBaseURL anchors checkout success/cancel redirects.
	PublicBaseURL string
}

// GenerateResult pairs the created instance with its checkout redirect.
type GenerateResult struct {
	Instance    Instance
	CheckoutURL string
}

// Generate fills the template with the supplied data, stores the result,
// records the instance, and opens a checkout session for it. When previewID
// names an existing preview its stored artifacts are discarded; promotion
// always refills from the submitted data.
func (s *Service) Generate(ctx context.Context, templateID string, data map[string]string, previewID string) (GenerateResult, error) {
	tmpl, filled, err := s.fill(ctx, templateID, data)
	if err != nil {
		return GenerateResult{}, err
	}

	inst := Instance{
		ID:         uuid.NewString(),
		TemplateID: tmpl.ID,
		Data:       data,
		CreatedAt:  time.Now().UTC(),
	}
	inst.UpdatedAt = inst.CreatedAt
	inst.FileKey = "template-instances/" + inst.ID + ".pdf"

	if _, err := s.Store.SaveWithKey(ctx, inst.FileKey, "application/pdf", bytes.NewReader(filled)); err != nil {
		return GenerateResult{}, err
	}
	if err := s.Repo.Create(ctx, inst); err != nil {
		return GenerateResult{}, err
	}

	if previewID != "" {
		s.discardPreview(ctx, previewID)
	}

	amount := tmpl.PriceCents
	if amount <= 0 {
		amount = s.DefaultPriceCents
	}
	detailURL := fmt.Sprintf("%s/api/v1/instances/%s", s.PublicBaseURL, inst.ID)
	session, err := s.Payments.CreateSession(ctx, payments.CheckoutParams{
		InstanceID:  inst.ID,
		TemplateID:  tmpl.ID,
		ProductName: "PDF Document - " + tmpl.Name,
		Description: fmt.Sprintf("Generated PDF from %s template", tmpl.Name),
		AmountCents: amount,
		SuccessURL:  detailURL,
		CancelURL:   detailURL,
	})
	if err != nil {
		return GenerateResult{}, err
	}

	if err := s.Repo.SetSessionRef(ctx, inst.ID, session.ID); err != nil {
		return GenerateResult{}, err
	}
	inst.CheckoutSessionID = session.ID

	return GenerateResult{Instance: inst, CheckoutURL: session.URL}, nil
}

// GeneratePreview fills the template without opening a checkout. The result
// is transient and is discarded when promoted.
func (s *Service) GeneratePreview(ctx context.Context, templateID string, data map[string]string) (Preview, error) {
	tmpl, filled, err := s.fill(ctx, templateID, data)
	if err != nil {
		return Preview{}, err
	}

	p := Preview{
		ID:         uuid.NewString(),
		TemplateID: tmpl.ID,
		Data:       data,
		CreatedAt:  time.Now().UTC(),
	}
	p.FileKey = "template-previews/" + p.ID + ".pdf"

	if _, err := s.Store.SaveWithKey(ctx, p.FileKey, "application/pdf", bytes.NewReader(filled)); err != nil {
		return Preview{}, err
	}
	if err := s.Repo.CreatePreview(ctx, p); err != nil {
		return Preview{}, err
	}
	return p, nil
}

// GetByID returns a single instance.
func (s *Service) GetByID(ctx context.Context, id string) (Instance, error) {
	if id == "" {
		return Instance{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// OpenPreview streams a preview's PDF bytes.
func (s *Service) OpenPreview(ctx context.Context, id string) (io.ReadCloser, error) {
	p, err := s.Repo.GetPreview(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Store.Open(ctx, p.FileKey)
}

// MarkPaidByInstanceID implements payments.Recorder.
func (s *Service) MarkPaidByInstanceID(ctx context.Context, instanceID string) error {
	err := s.Repo.MarkPaid(ctx, instanceID)
	if errors.Is(err, ErrNotFound) {
		return payments.ErrNotFound
	}
	return err
}

// MarkPaidBySessionRef implements payments.Recorder.
func (s *Service) MarkPaidBySessionRef(ctx context.Context, sessionID string) error {
	inst, err := s.Repo.GetBySessionRef(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return payments.ErrNotFound
		}
		return err
	}
	return s.Repo.MarkPaid(ctx, inst.ID)
}

// fill loads the template's blank PDF, resolves the business names, and
// produces the filled bytes.
func (s *Service) fill(ctx context.Context, templateID string, data map[string]string) (templates.Template, []byte, error) {
	tmpl, err := s.Templates.GetByID(ctx, templateID)
	if err != nil {
		return templates.Template{}, nil, err
	}

	rc, err := s.Store.Open(ctx, tmpl.FileKey)
	if err != nil {
		return templates.Template{}, nil, err
	}
	defer rc.Close()

	blank, err := io.ReadAll(rc)
	if err != nil {
		return templates.Template{}, nil, err
	}

	fields, err := pdfform.Inspect(blank)
	if err != nil {
		return templates.Template{}, nil, err
	}

	values, err := fieldmap.Resolve(tmpl.Type, data, fields)
	if err != nil {
		return templates.Template{}, nil, err
	}

	filled, err := pdfform.Fill(blank, values)
	if err != nil {
		return templates.Template{}, nil, err
	}
	return tmpl, filled, nil
}

// discardPreview deletes a promoted preview's record and artifact. Failures
// only leak a transient file, so they are logged and swallowed.
func (s *Service) discardPreview(ctx context.Context, previewID string) {
	p, err := s.Repo.GetPreview(ctx, previewID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			telemetry.Warn("preview lookup failed during promotion", map[string]any{"previewId": previewID, "err": err.Error()})
		}
		return
	}
	if err := s.Store.Delete(ctx, p.FileKey); err != nil {
		telemetry.Warn("preview artifact delete failed", map[string]any{"previewId": previewID, "err": err.Error()})
	}
	if err := s.Repo.DeletePreview(ctx, previewID); err != nil {
		telemetry.Warn("preview record delete failed", map[string]any{"previewId": previewID, "err": err.Error()})
	}
}
