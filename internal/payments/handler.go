package payments

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"formfill-backend/internal/shared/server/respond"
	"formfill-backend/internal/shared/telemetry"
)

const maxWebhookSize = 1 << 20 // 1MB, well above Stripe's event sizes

// Handler exposes the webhook endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches payment routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/stripe/webhook", h.webhook)
}

// webhook reads the raw body before any decoding; the signature covers the
// exact bytes Stripe sent.
func (h *Handler) webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookSize))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read payload", nil)
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if sigHeader == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "missing Stripe-Signature header", nil)
		return
	}

	event, err := h.Svc.HandleWebhook(c.Request.Context(), payload, sigHeader)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadSignature):
			telemetry.Warn("webhook signature rejected", map[string]any{"requestId": c.GetString("requestId")})
			respond.Error(c, http.StatusBadRequest, "invalid_signature", "webhook signature verification failed", nil)
		case errors.Is(err, ErrNotFound):
			// Acknowledge: retrying will never make the instance appear.
			telemetry.Warn("webhook references unknown instance", map[string]any{"sessionId": event.SessionID})
			respond.JSON(c, http.StatusOK, gin.H{"received": true})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process webhook", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"received": true})
}
