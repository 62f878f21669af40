package templates

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"formfill-backend/internal/fieldmap"
	"formfill-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches template routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/templates", h.list)
	rg.GET("/templates/:templateId", h.get)
	rg.POST("/templates", h.create)
	rg.PUT("/templates/:templateId/file", h.replaceFile)
}

func (h *Handler) list(c *gin.Context) {
	templateType := strings.TrimSpace(c.Query("type"))

	tmpls, err := h.Svc.ListActive(c.Request.Context(), templateType)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list templates", nil)
		return
	}

	out := make([]TemplateResponse, 0, len(tmpls))
	for _, tmpl := range tmpls {
		out = append(out, toResponse(tmpl))
	}
	respond.JSON(c, http.StatusOK, gin.H{"templates": out})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("templateId")
	c.Set("templateId", id)

	tmpl, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "template not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch template", nil)
		}
		return
	}

	fields, err := h.Svc.Fields(c.Request.Context(), id)
	if err != nil && !errors.Is(err, fieldmap.ErrNoFields) {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to inspect template", nil)
		return
	}

	respond.JSON(c, http.StatusOK, TemplateDetailResponse{
		TemplateResponse: toResponse(tmpl),
		Fields:           fields,
	})
}

func (h *Handler) create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	in := CreateInput{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Type:        strings.TrimSpace(c.PostForm("type")),
		Description: strings.TrimSpace(c.PostForm("description")),
		File:        data,
	}
	if raw := strings.TrimSpace(c.PostForm("priceCents")); raw != "" {
		price, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || price < 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "priceCents must be a non-negative integer", nil)
			return
		}
		in.PriceCents = price
	}
	if in.Name == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "name is required", nil)
		return
	}

	tmpl, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotPDF):
			respond.Error(c, http.StatusBadRequest, "validation_error", "file is not a valid PDF", nil)
		case errors.Is(err, fieldmap.ErrNoFields):
			respond.Error(c, http.StatusBadRequest, "validation_error", "PDF declares no fillable form fields", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create template", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(tmpl))
}

func (h *Handler) replaceFile(c *gin.Context) {
	id := c.Param("templateId")
	c.Set("templateId", id)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	tmpl, err := h.Svc.ReplaceFile(c.Request.Context(), id, data)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "template not found", nil)
		case errors.Is(err, ErrNotPDF):
			respond.Error(c, http.StatusBadRequest, "validation_error", "file is not a valid PDF", nil)
		case errors.Is(err, fieldmap.ErrNoFields):
			respond.Error(c, http.StatusBadRequest, "validation_error", "PDF declares no fillable form fields", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to replace template file", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(tmpl))
}
