// Package handler provides HTTP handlers for the shipments module.
package handler

import (
	"net/http"

	"freight_broker_backend/internal/shipments/repository"
	"freight_broker_backend/internal/shipments/service"
	"freight_broker_backend/internal/shipments/transport"
	"freight_broker_backend/platform/httpkit"
	"freight_broker_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles shipment HTTP requests.
type Handler struct {
	service *service.Service
	val     *validator.Validator
}

// New creates a new shipments handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{service: svc, val: val}
}

// RegisterRoutes mounts shipment routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}

// Create handles POST /shipments.
func (h *Handler) Create(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	var req transport.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	shipment, err := h.service.Create(c.Request.Context(), repository.Shipment{
		TenantID:          tenantID,
		Reference:         req.Reference,
		Origin:            req.Origin,
		Destination:       req.Destination,
		QuotedAmountCents: req.QuotedAmountCents,
		PickupAt:          req.PickupAt,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, transport.ToShipmentResponse(shipment))
}

// Get handles GET /shipments/:id.
func (h *Handler) Get(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid shipment id", nil)
		return
	}

	shipment, err := h.service.Get(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToShipmentResponse(shipment))
}

// List handles GET /shipments.
func (h *Handler) List(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	shipments, err := h.service.List(c.Request.Context(), tenantID, c.Query("status"))
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.ShipmentResponse, 0, len(shipments))
	for _, s := range shipments {
		out = append(out, transport.ToShipmentResponse(s))
	}
	httpkit.OK(c, out)
}
