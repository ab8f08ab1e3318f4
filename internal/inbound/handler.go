package inbound

import (
	"net/http"
	"time"

	"freight_broker_backend/platform/httpkit"
	"freight_broker_backend/platform/logger"
	"freight_broker_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SMSWebhookRequest is the payload posted by the SMS gateway on delivery of
// an inbound message.
type SMSWebhookRequest struct {
	MessageID string `json:"messageId"`
	From      string `json:"from" validate:"required,max=32"`
	To        string `json:"to" validate:"max=32"`
	Body      string `json:"body" validate:"max=1600"`
}

// SMSWebhookResponse acknowledges an inbound message. The gateway retries on
// non-2xx, so this endpoint always answers 200 once the payload parses;
// resolution problems are reported in the body instead.
type SMSWebhookResponse struct {
	Success         bool       `json:"success"`
	Status          string     `json:"status,omitempty"`
	MatchedOfferID  *uuid.UUID `json:"matchedOfferId,omitempty"`
	AppliedDecision string     `json:"appliedDecision,omitempty"`
	Reason          string     `json:"reason,omitempty"`
}

// MessageResponse is the review-queue representation of an inbound message.
type MessageResponse struct {
	ID             uuid.UUID  `json:"id"`
	FromPhone      string     `json:"fromPhone"`
	Body           string     `json:"body"`
	Intent         string     `json:"intent"`
	Status         string     `json:"status"`
	Reason         string     `json:"reason,omitempty"`
	MatchedOfferID *uuid.UUID `json:"matchedOfferId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Handler handles inbound SMS webhook and review-queue requests.
type Handler struct {
	service *Service
	repo    *Repository
	val     *validator.Validator
	log     *logger.Logger
}

// NewHandler creates a new inbound handler.
func NewHandler(service *Service, repo *Repository, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{service: service, repo: repo, val: val, log: log}
}

// HandleSMSWebhook processes an inbound SMS delivery.
// POST /api/v1/webhook/sms
func (h *Handler) HandleSMSWebhook(c *gin.Context) {
	var req SMSWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, SMSWebhookResponse{Success: false, Reason: "invalid payload"})
		return
	}
	if err := h.val.Struct(req); err != nil {
		c.JSON(http.StatusOK, SMSWebhookResponse{Success: false, Reason: "invalid payload"})
		return
	}

	result, err := h.service.Process(c.Request.Context(), req.From, req.Body)
	if err != nil {
		h.log.Error("inbound_webhook_failed", "error", err.Error(), "from", req.From)
		c.JSON(http.StatusOK, SMSWebhookResponse{Success: false, Reason: "internal error"})
		return
	}

	c.JSON(http.StatusOK, SMSWebhookResponse{
		Success:         true,
		Status:          result.Status,
		MatchedOfferID:  result.MatchedOfferID,
		AppliedDecision: result.AppliedDecision,
		Reason:          result.Reason,
	})
}

// HandleListReviewQueue lists the tenant's unresolved inbound messages.
// GET /api/v1/inbound/messages
func (h *Handler) HandleListReviewQueue(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	messages, err := h.repo.ListReviewQueue(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, toMessageResponse(m))
	}
	httpkit.OK(c, out)
}

// HandleMarkReviewed closes a review-queue entry.
// POST /api/v1/inbound/messages/:id/review
func (h *Handler) HandleMarkReviewed(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "no tenant context", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid message id", nil)
		return
	}

	if err := h.repo.MarkReviewed(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func toMessageResponse(m Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		FromPhone:      m.FromPhone,
		Body:           m.Body,
		Intent:         m.Intent,
		Status:         m.Status,
		Reason:         m.Reason,
		MatchedOfferID: m.MatchedOfferID,
		CreatedAt:      m.CreatedAt,
	}
}
