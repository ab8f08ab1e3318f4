// Package transport defines request/response DTOs for the offers module.
package transport

import (
	"time"

	"freight_broker_backend/internal/offers/repository"

	"github.com/google/uuid"
)

// CreateOfferRequest is the request body for extending an offer. AmountCents
// and ExpiryHours apply to tenders; Message is required for dispatch offers
// and optional for tenders.
type CreateOfferRequest struct {
	ShipmentID  uuid.UUID `json:"shipmentId" validate:"required"`
	ActorID     uuid.UUID `json:"actorId" validate:"required"`
	Kind        string    `json:"kind" validate:"required,oneof=TENDER DISPATCH"`
	AmountCents int64     `json:"amountCents,omitempty"`
	Message     string    `json:"message,omitempty" validate:"max=1000"`
	ExpiryHours int       `json:"expiryHours,omitempty" validate:"min=0,max=168"`
}

// RespondRequest is the request body for answering an open offer. ActorID is
// optional; when present it must match the offer's recipient.
type RespondRequest struct {
	Decision string     `json:"decision" validate:"required,oneof=ACCEPT REJECT"`
	Note     string     `json:"note,omitempty" validate:"max=500"`
	ActorID  *uuid.UUID `json:"actorId,omitempty"`
}

// AuditEntryResponse is one line of an offer's audit trail.
type AuditEntryResponse struct {
	Action    string    `json:"action"`
	FromState *string   `json:"fromState,omitempty"`
	ToState   string    `json:"toState"`
	Source    string    `json:"source"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// OfferResponse is the API representation of an offer.
type OfferResponse struct {
	ID          uuid.UUID            `json:"id"`
	ShipmentID  uuid.UUID            `json:"shipmentId"`
	Kind        string               `json:"kind"`
	ActorID     uuid.UUID            `json:"actorId"`
	State       string               `json:"state"`
	AmountCents *int64               `json:"amountCents,omitempty"`
	Message     string               `json:"message,omitempty"`
	Note        string               `json:"note,omitempty"`
	ExpiresAt   *time.Time           `json:"expiresAt,omitempty"`
	RespondedAt *time.Time           `json:"respondedAt,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	AuditTrail  []AuditEntryResponse `json:"auditTrail,omitempty"`
}

// RespondResponse reports the outcome of a decision, including the shipment's
// resulting status and any tenders cancelled by the cascade.
type RespondResponse struct {
	Offer               OfferResponse `json:"offer"`
	ShipmentStatus      string        `json:"shipmentStatus,omitempty"`
	CancelledSiblingIDs []uuid.UUID   `json:"cancelledSiblingIds,omitempty"`
	Duplicate           bool          `json:"duplicate,omitempty"`
}

// ToOfferResponse maps a repository offer to its API representation.
func ToOfferResponse(o repository.Offer) OfferResponse {
	return OfferResponse{
		ID:          o.ID,
		ShipmentID:  o.ShipmentID,
		Kind:        string(o.Kind),
		ActorID:     o.ActorID,
		State:       string(o.State),
		AmountCents: o.AmountCents,
		Message:     o.Message,
		Note:        o.Note,
		ExpiresAt:   o.ExpiresAt,
		RespondedAt: o.RespondedAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ToOfferWithTrail maps an offer together with its audit trail.
func ToOfferWithTrail(o repository.Offer, trail []repository.AuditEntry) OfferResponse {
	out := ToOfferResponse(o)
	out.AuditTrail = make([]AuditEntryResponse, 0, len(trail))
	for _, e := range trail {
		out.AuditTrail = append(out.AuditTrail, AuditEntryResponse{
			Action:    e.Action,
			FromState: e.FromState,
			ToState:   e.ToState,
			Source:    e.Source,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
