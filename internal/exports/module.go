package exports

import (
	"net/http"

	apphttp "freight_broker_backend/internal/http"
	"freight_broker_backend/platform/httpkit"
	"freight_broker_backend/platform/logger"
	"freight_broker_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the exports bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	enabled bool
}

// NewModule creates and initializes the exports module. A nil store means
// object storage is not configured; the endpoint then reports unavailable
// instead of the module disappearing from the API surface.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, store ObjectStore, log *logger.Logger) *Module {
	svc := NewService(NewRepository(pool), store, log)

	return &Module{
		handler: NewHandler(svc, val),
		enabled: store != nil,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts export routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/exports")
	if !m.enabled {
		group.POST("/audit", func(c *gin.Context) {
			httpkit.Error(c, http.StatusServiceUnavailable, "export storage not configured", nil)
		})
		return
	}
	group.POST("/audit", m.handler.HandleRunAuditExport)
}

var _ apphttp.Module = (*Module)(nil)
