// Package handler provides HTTP handlers for the offers module.
package handler

import (
	"net/http"

	"freight_broker_backend/internal/offers/domain"
	"freight_broker_backend/internal/offers/repository"
	"freight_broker_backend/internal/offers/service"
	"freight_broker_backend/internal/offers/transport"
	"freight_broker_backend/platform/httpkit"
	"freight_broker_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles offer HTTP requests.
type Handler struct {
	service *service.Service
	val     *validator.Validator
}

// New creates a new offers handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{service: svc, val: val}
}

// RegisterRoutes mounts offer routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/response", h.Respond)
}

// Create handles POST /offers for both offer kinds.
func (h *Handler) Create(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	var req transport.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	var (
		offer repository.Offer
		err   error
	)
	switch domain.Kind(req.Kind) {
	case domain.KindTender:
		offer, err = h.service.CreateTender(c.Request.Context(), service.CreateTenderParams{
			TenantID:    tenantID,
			ShipmentID:  req.ShipmentID,
			CarrierID:   req.ActorID,
			AmountCents: req.AmountCents,
			Message:     req.Message,
			ExpiryHours: req.ExpiryHours,
		})
	case domain.KindDispatch:
		offer, err = h.service.CreateDispatch(c.Request.Context(), service.CreateDispatchParams{
			TenantID:   tenantID,
			ShipmentID: req.ShipmentID,
			DriverID:   req.ActorID,
			Message:    req.Message,
		})
	default:
		httpkit.Error(c, http.StatusBadRequest, "unknown offer kind", nil)
		return
	}
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, transport.ToOfferResponse(offer))
}

// Respond handles POST /offers/:id/response.
func (h *Handler) Respond(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid offer id", nil)
		return
	}

	var req transport.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	params := service.RespondParams{
		TenantID: tenantID,
		OfferID:  id,
		Decision: domain.Decision(req.Decision),
		Note:     req.Note,
	}
	if req.ActorID != nil {
		params.ActorID = *req.ActorID
	}

	result, err := h.service.Respond(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.RespondResponse{
		Offer:               transport.ToOfferResponse(result.Offer),
		ShipmentStatus:      string(result.ShipmentStatus),
		CancelledSiblingIDs: result.CancelledSiblingIDs,
		Duplicate:           result.Duplicate,
	})
}

// Get handles GET /offers/:id, returning the offer with its audit trail.
func (h *Handler) Get(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid offer id", nil)
		return
	}

	offer, trail, err := h.service.Get(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToOfferWithTrail(offer, trail))
}

// List handles GET /offers?shipmentId=…|actorId=…, newest first.
func (h *Handler) List(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	shipmentParam := c.Query("shipmentId")
	actorParam := c.Query("actorId")
	if (shipmentParam == "") == (actorParam == "") {
		httpkit.Error(c, http.StatusBadRequest, "exactly one of shipmentId or actorId is required", nil)
		return
	}

	var offers []repository.Offer
	if shipmentParam != "" {
		shipmentID, perr := uuid.Parse(shipmentParam)
		if perr != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid shipmentId", nil)
			return
		}
		var err error
		offers, err = h.service.ListByShipment(c.Request.Context(), shipmentID, tenantID)
		if httpkit.HandleError(c, err) {
			return
		}
	} else {
		actorID, perr := uuid.Parse(actorParam)
		if perr != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid actorId", nil)
			return
		}
		var err error
		offers, err = h.service.ListByActor(c.Request.Context(), actorID, tenantID)
		if httpkit.HandleError(c, err) {
			return
		}
	}

	out := make([]transport.OfferResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, transport.ToOfferResponse(o))
	}
	httpkit.OK(c, out)
}
