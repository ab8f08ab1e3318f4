// Package handler provides HTTP handlers for the drivers module.
package handler

import (
	"net/http"

	"freight_broker_backend/internal/drivers/repository"
	"freight_broker_backend/internal/drivers/service"
	"freight_broker_backend/internal/drivers/transport"
	"freight_broker_backend/platform/httpkit"
	"freight_broker_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles driver HTTP requests.
type Handler struct {
	service *service.Service
	val     *validator.Validator
}

// New creates a new drivers handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{service: svc, val: val}
}

// RegisterRoutes mounts driver routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id/status", h.UpdateStatus)
}

// Create handles POST /drivers.
func (h *Handler) Create(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	var req transport.CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	driver, err := h.service.Create(c.Request.Context(), repository.Driver{
		TenantID:             tenantID,
		CarrierID:            req.CarrierID,
		Name:                 req.Name,
		Phone:                req.Phone,
		Active:               true,
		LicenseNumber:        req.LicenseNumber,
		LicenseExpiresAt:     req.LicenseExpiresAt,
		MedicalCertExpiresAt: req.MedicalCertExpiresAt,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, transport.ToDriverResponse(driver))
}

// Get handles GET /drivers/:id.
func (h *Handler) Get(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid driver id", nil)
		return
	}

	driver, err := h.service.Get(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToDriverResponse(driver))
}

// List handles GET /drivers.
func (h *Handler) List(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	drivers, err := h.service.List(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, transport.ToDriverResponse(d))
	}
	httpkit.OK(c, out)
}

// UpdateStatus handles PATCH /drivers/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid driver id", nil)
		return
	}

	var req transport.UpdateDriverStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, tenantID, req.Status, *req.Active); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}
