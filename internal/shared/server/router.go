package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"formfill-backend/internal/instances"
	"formfill-backend/internal/payments"
	"formfill-backend/internal/shared/config"
	"formfill-backend/internal/shared/server/middleware"
	"formfill-backend/internal/shared/server/respond"
	"formfill-backend/internal/templates"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config          config.Config
	TemplateHandler *templates.Handler
	InstanceHandler *instances.Handler
	PaymentHandler  *payments.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.TemplateHandler.RegisterRoutes(api)
	deps.InstanceHandler.RegisterRoutes(api)
	deps.PaymentHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
