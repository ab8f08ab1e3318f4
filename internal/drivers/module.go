// Package drivers provides the drivers bounded context module.
package drivers

import (
	"freight_broker_backend/internal/drivers/handler"
	"freight_broker_backend/internal/drivers/repository"
	"freight_broker_backend/internal/drivers/service"
	apphttp "freight_broker_backend/internal/http"
	"freight_broker_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the drivers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the drivers module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "drivers"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts driver routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/drivers"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
