package instances

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"

	"formfill-backend/internal/delivery"
	"formfill-backend/internal/fieldmap"
	"formfill-backend/internal/pdfform"
	"formfill-backend/internal/shared/server/respond"
	"formfill-backend/internal/shared/storage/object"
	"formfill-backend/internal/shared/util"
	"formfill-backend/internal/templates"
)

// Handler wires HTTP handlers to the instance and delivery services.
type Handler struct {
	Svc      *Service
	Delivery *delivery.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, del *delivery.Service) *Handler {
	return &Handler{Svc: svc, Delivery: del}
}

// RegisterRoutes attaches instance routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/templates/:templateId", h.generate)
	rg.POST("/templates/:templateId/preview", h.preview)
	rg.GET("/instances/:instanceId", h.get)
	rg.GET("/instances/:instanceId/download", h.download)
	rg.POST("/instances/:instanceId/send-email", h.sendEmail)
	rg.GET("/previews/:previewId/download", h.downloadPreview)
}

// generateRequest keeps data values as raw JSON so non-string leaves can be
// rejected instead of silently coerced.
type generateRequest struct {
	Data      map[string]json.RawMessage `json:"data"`
	PreviewID string                     `json:"previewId"`
}

func (r generateRequest) stringData() (map[string]string, error) {
	out := make(map[string]string, len(r.Data))
	for k, raw := range r.Data {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("field %q: value must be a string", k)
		}
		out[k] = v
	}
	return out, nil
}

func (h *Handler) generate(c *gin.Context) {
	templateID := c.Param("templateId")
	c.Set("templateId", templateID)

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	data, err := req.stringData()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	result, err := h.Svc.Generate(c.Request.Context(), templateID, data, req.PreviewID)
	if err != nil {
		h.respondGenerateError(c, err)
		return
	}

	respond.JSON(c, http.StatusCreated, GenerateResponse{
		InstanceID:  result.Instance.ID,
		CheckoutURL: result.CheckoutURL,
		Message:     "PDF generated successfully. Please complete payment to download.",
	})
}

func (h *Handler) preview(c *gin.Context) {
	templateID := c.Param("templateId")
	c.Set("templateId", templateID)

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	data, err := req.stringData()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	p, err := h.Svc.GeneratePreview(c.Request.Context(), templateID, data)
	if err != nil {
		h.respondGenerateError(c, err)
		return
	}

	respond.JSON(c, http.StatusCreated, PreviewResponse{
		PreviewID:  p.ID,
		TemplateID: p.TemplateID,
		CreatedAt:  p.CreatedAt,
	})
}

// respondGenerateError maps fill-pipeline failures onto the taxonomy: the
// caller is at fault only for unencodable values; broken or field-less
// templates are server-side configuration problems.
func (h *Handler) respondGenerateError(c *gin.Context, err error) {
	var unencodable *pdfform.UnencodableValueError
	switch {
	case errors.Is(err, templates.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "template not found", nil)
	case errors.As(err, &unencodable):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), map[string]any{"field": unencodable.Field})
	case errors.Is(err, fieldmap.ErrNoFields):
		respond.Error(c, http.StatusInternalServerError, "template_error", "template declares no form fields", nil)
	case errors.Is(err, pdfform.ErrMalformed):
		respond.Error(c, http.StatusInternalServerError, "template_error", "template PDF could not be processed", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate document", nil)
	}
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("instanceId")
	c.Set("instanceId", id)

	inst, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "instance not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch instance", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(inst))
}

func (h *Handler) download(c *gin.Context) {
	id := c.Param("instanceId")
	c.Set("instanceId", id)

	inst, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "instance not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch instance", nil)
		return
	}

	doc := delivery.Document{ID: inst.ID, FileKey: inst.FileKey, Paid: inst.Paid}
	url, err := h.Delivery.DownloadURL(c.Request.Context(), doc)
	if err == nil {
		respond.JSON(c, http.StatusOK, gin.H{"downloadUrl": url})
		return
	}
	if errors.Is(err, delivery.ErrUnpaid) {
		respond.Error(c, http.StatusForbidden, "payment_required", "Payment not completed. Please complete payment first.", nil)
		return
	}
	if !errors.Is(err, object.ErrPresignUnsupported) {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to resolve download", nil)
		return
	}

	// Local store: stream the bytes directly.
	rc, err := h.Delivery.Open(c.Request.Context(), doc)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open document", nil)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.downloadName(c, inst)))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

// downloadName derives the attachment file name from the template name,
// falling back to the instance id.
func (h *Handler) downloadName(c *gin.Context, inst Instance) string {
	tmpl, err := h.Svc.Templates.GetByID(c.Request.Context(), inst.TemplateID)
	if err != nil {
		return inst.ID + ".pdf"
	}
	name, err := util.SanitizeFileName(tmpl.Name)
	if err != nil {
		return inst.ID + ".pdf"
	}
	return name + ".pdf"
}

type sendEmailRequest struct {
	Email string `json:"email"`
}

func (h *Handler) sendEmail(c *gin.Context) {
	id := c.Param("instanceId")
	c.Set("instanceId", id)

	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "a valid email address is required", nil)
		return
	}

	inst, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "instance not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch instance", nil)
		return
	}

	doc := delivery.Document{ID: inst.ID, FileKey: inst.FileKey, Paid: inst.Paid}
	if err := h.Delivery.SendDownloadLink(c.Request.Context(), doc, req.Email); err != nil {
		if errors.Is(err, delivery.ErrUnpaid) {
			respond.Error(c, http.StatusForbidden, "payment_required", "Payment not completed. Please complete payment first.", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to send email", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("PDF download link sent to %s", req.Email),
	})
}

func (h *Handler) downloadPreview(c *gin.Context) {
	id := c.Param("previewId")

	rc, err := h.Svc.OpenPreview(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "preview not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open preview", nil)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}
