// Package handler provides HTTP handlers for the carriers module.
package handler

import (
	"net/http"

	"freight_broker_backend/internal/carriers/repository"
	"freight_broker_backend/internal/carriers/service"
	"freight_broker_backend/internal/carriers/transport"
	"freight_broker_backend/platform/httpkit"
	"freight_broker_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles carrier HTTP requests.
type Handler struct {
	service *service.Service
	val     *validator.Validator
}

// New creates a new carriers handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{service: svc, val: val}
}

// RegisterRoutes mounts carrier routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id/status", h.UpdateStatus)
}

// Create handles POST /carriers.
func (h *Handler) Create(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	var req transport.CreateCarrierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	carrier, err := h.service.Create(c.Request.Context(), repository.Carrier{
		TenantID:     tenantID,
		Name:         req.Name,
		MCNumber:     req.MCNumber,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, transport.ToCarrierResponse(carrier))
}

// Get handles GET /carriers/:id.
func (h *Handler) Get(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid carrier id", nil)
		return
	}

	carrier, err := h.service.Get(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToCarrierResponse(carrier))
}

// List handles GET /carriers.
func (h *Handler) List(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	carriers, err := h.service.List(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.CarrierResponse, 0, len(carriers))
	for _, carrier := range carriers {
		out = append(out, transport.ToCarrierResponse(carrier))
	}
	httpkit.OK(c, out)
}

// UpdateStatus handles PATCH /carriers/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid carrier id", nil)
		return
	}

	var req transport.UpdateCarrierStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, tenantID, req.Status); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}
