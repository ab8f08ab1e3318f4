// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"freight_broker_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Offer Domain Events
// =============================================================================

// OfferCreated is published after an offer has been committed in OFFERED state.
// The notification module uses it to deliver the tender/dispatch message to
// the target actor.
type OfferCreated struct {
	BaseEvent
	OfferID     uuid.UUID  `json:"offerId"`
	ShipmentID  uuid.UUID  `json:"shipmentId"`
	TenantID    uuid.UUID  `json:"tenantId"`
	Kind        string     `json:"kind"`
	ActorID     uuid.UUID  `json:"actorId"`
	AmountCents *int64     `json:"amountCents,omitempty"`
	Message     string     `json:"message,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

func (e OfferCreated) EventName() string { return "offers.offer.created" }

// OfferAccepted is published after an ACCEPTED transition has been committed,
// together with all of its transactional side effects.
type OfferAccepted struct {
	BaseEvent
	OfferID             uuid.UUID   `json:"offerId"`
	ShipmentID          uuid.UUID   `json:"shipmentId"`
	TenantID            uuid.UUID   `json:"tenantId"`
	Kind                string      `json:"kind"`
	ActorID             uuid.UUID   `json:"actorId"`
	ShipmentStatus      string      `json:"shipmentStatus"`
	CancelledSiblingIDs []uuid.UUID `json:"cancelledSiblingIds,omitempty"`
}

func (e OfferAccepted) EventName() string { return "offers.offer.accepted" }

// OfferRejected is published after a REJECTED transition has been committed.
type OfferRejected struct {
	BaseEvent
	OfferID        uuid.UUID `json:"offerId"`
	ShipmentID     uuid.UUID `json:"shipmentId"`
	TenantID       uuid.UUID `json:"tenantId"`
	Kind           string    `json:"kind"`
	ActorID        uuid.UUID `json:"actorId"`
	ShipmentStatus string    `json:"shipmentStatus"`
	Note           string    `json:"note,omitempty"`
}

func (e OfferRejected) EventName() string { return "offers.offer.rejected" }

// OfferExpired is published when lazy expiry or the sweeper moves an offer to
// EXPIRED.
type OfferExpired struct {
	BaseEvent
	OfferID    uuid.UUID `json:"offerId"`
	ShipmentID uuid.UUID `json:"shipmentId"`
	TenantID   uuid.UUID `json:"tenantId"`
	ActorID    uuid.UUID `json:"actorId"`
}

func (e OfferExpired) EventName() string { return "offers.offer.expired" }

// =============================================================================
// Inbound Channel Events
// =============================================================================

// InboundMessageUnresolved is published when an inbound SMS could not be
// resolved to exactly one open offer. Operators pick these up from the review
// queue; the event exists so the notification module can alert them.
type InboundMessageUnresolved struct {
	BaseEvent
	MessageID uuid.UUID `json:"messageId"`
	TenantID  uuid.UUID `json:"tenantId,omitempty"`
	From      string    `json:"from"`
	Status    string    `json:"status"` // unmatched or ambiguous
	Reason    string    `json:"reason"`
}

func (e InboundMessageUnresolved) EventName() string { return "inbound.message.unresolved" }

// =============================================================================
// Notification Events
// =============================================================================

// NotificationOutboxDue signals that a persisted outbox row is due for
// delivery. Published by the scheduler worker, consumed by the notification
// module.
type NotificationOutboxDue struct {
	BaseEvent
	OutboxID uuid.UUID `json:"outboxId"`
	TenantID uuid.UUID `json:"tenantId"`
}

func (e NotificationOutboxDue) EventName() string { return "notification.outbox.due" }
