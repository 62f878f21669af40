package templates

import "time"

// TemplateResponse is the outward-facing representation of a template.
type TemplateResponse struct {
	TemplateID  string    `json:"templateId"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"priceCents"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TemplateDetailResponse extends TemplateResponse with the declared form
// fields.
type TemplateDetailResponse struct {
	TemplateResponse
	Fields []FieldDescriptor `json:"fields"`
}

func toResponse(tmpl Template) TemplateResponse {
	return TemplateResponse{
		TemplateID:  tmpl.ID,
		Name:        tmpl.Name,
		Type:        tmpl.Type,
		Description: tmpl.Description,
		PriceCents:  tmpl.PriceCents,
		Active:      tmpl.Active,
		CreatedAt:   tmpl.CreatedAt,
		UpdatedAt:   tmpl.UpdatedAt,
	}
}
