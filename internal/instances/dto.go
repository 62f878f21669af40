package instances

import "time"

// InstanceResponse is the outward-facing representation of an instance.
type InstanceResponse struct {
	InstanceID string            `json:"instanceId"`
	TemplateID string            `json:"templateId"`
	Data       map[string]string `json:"data"`
	Paid       bool              `json:"paid"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// GenerateResponse is returned by the generate endpoint; the caller is
// expected to redirect the user to CheckoutURL.
type GenerateResponse struct {
	InstanceID  string `json:"instance_id"`
	CheckoutURL string `json:"checkout_url"`
	Message     string `json:"message"`
}

// PreviewResponse is returned by the preview endpoint.
type PreviewResponse struct {
	PreviewID  string    `json:"previewId"`
	TemplateID string    `json:"templateId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toResponse(inst Instance) InstanceResponse {
	return InstanceResponse{
		InstanceID: inst.ID,
		TemplateID: inst.TemplateID,
		Data:       inst.Data,
		Paid:       inst.Paid,
		CreatedAt:  inst.CreatedAt,
		UpdatedAt:  inst.UpdatedAt,
	}
}
