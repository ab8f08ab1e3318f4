// Package inbound provides the inbound SMS bounded context module: the
// public gateway webhook, the correlation resolver, and the operator review
// queue for messages that could not be applied automatically.
package inbound

import (
	"freight_broker_backend/internal/events"
	apphttp "freight_broker_backend/internal/http"
	"freight_broker_backend/platform/logger"
	"freight_broker_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the inbound bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the inbound module. The responder and
// directory come from the offers module.
func NewModule(
	pool *pgxpool.Pool,
	responder OfferResponder,
	directory OfferDirectory,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := NewRepository(pool)
	service := NewService(repo, responder, directory, bus, log)
	handler := NewHandler(service, repo, val, log)

	return &Module{handler: handler}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "inbound"
}

// RegisterRoutes mounts inbound routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public gateway webhook (rate limited, no JWT)
	ctx.Webhook.POST("/sms", m.handler.HandleSMSWebhook)

	// Operator review queue (JWT auth)
	review := ctx.Protected.Group("/inbound/messages")
	review.GET("", m.handler.HandleListReviewQueue)
	review.POST("/:id/review", m.handler.HandleMarkReviewed)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
