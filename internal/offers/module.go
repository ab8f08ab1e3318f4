// Package offers provides the offer workflow bounded context module.
package offers

import (
	"freight_broker_backend/internal/events"
	apphttp "freight_broker_backend/internal/http"
	"freight_broker_backend/internal/offers/handler"
	"freight_broker_backend/internal/offers/repository"
	"freight_broker_backend/internal/offers/service"
	"freight_broker_backend/platform/logger"
	"freight_broker_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the offers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the offers module. The eligibility
// checkers come from the carriers and drivers modules.
func NewModule(
	pool *pgxpool.Pool,
	val *validator.Validator,
	carrierEligible service.EligibilityChecker,
	driverEligible service.EligibilityChecker,
	bus events.Bus,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, carrierEligible, driverEligible, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "offers"
}

// Service returns the service layer for external use, such as the inbound
// resolver and the expiry sweeper.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts offer routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/offers"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
