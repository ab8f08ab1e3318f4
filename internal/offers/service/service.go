// Package service implements the offer workflow: creation behind the
// eligibility gate, accept/reject resolution, lazy expiry, and the domain
// events published after each committed change.
package service

import (
	"context"
	"strings"
	"time"

	"freight_broker_backend/internal/events"
	"freight_broker_backend/internal/offers/domain"
	"freight_broker_backend/internal/offers/repository"
	"freight_broker_backend/platform/apperr"
	"freight_broker_backend/platform/logger"
	"freight_broker_backend/platform/metrics"

	"github.com/google/uuid"
)

// OfferStore is the persistence surface the service needs. Implemented by
// the offers repository.
type OfferStore interface {
	CreateTender(ctx context.Context, o repository.Offer) (repository.Offer, error)
	CreateDispatch(ctx context.Context, o repository.Offer) (repository.Offer, error)
	Transition(ctx context.Context, p repository.TransitionParams) (repository.TransitionResult, error)
	ExpireDue(ctx context.Context, limit int) ([]repository.Offer, error)
	GetByID(ctx context.Context, id, tenantID uuid.UUID) (repository.Offer, []repository.AuditEntry, error)
	ListByShipment(ctx context.Context, shipmentID, tenantID uuid.UUID) ([]repository.Offer, error)
	ListByActor(ctx context.Context, actorID, tenantID uuid.UUID) ([]repository.Offer, error)
}

// timeNow is indirected for tests.
var timeNow = time.Now

// EligibilityChecker reports whether an actor may receive an offer right now.
// The carriers service implements it for tenders, the drivers service for
// dispatch offers.
type EligibilityChecker interface {
	Check(ctx context.Context, tenantID, actorID uuid.UUID) (bool, string, error)
}

// EligibilityFunc adapts a function to the EligibilityChecker interface.
type EligibilityFunc func(ctx context.Context, tenantID, actorID uuid.UUID) (bool, string, error)

// Check calls f.
func (f EligibilityFunc) Check(ctx context.Context, tenantID, actorID uuid.UUID) (bool, string, error) {
	return f(ctx, tenantID, actorID)
}

// CreateTenderParams describes a tender offer to a carrier.
type CreateTenderParams struct {
	TenantID    uuid.UUID
	ShipmentID  uuid.UUID
	CarrierID   uuid.UUID
	AmountCents int64
	Message     string
	ExpiryHours int
}

// CreateDispatchParams describes a dispatch offer to a driver.
type CreateDispatchParams struct {
	TenantID   uuid.UUID
	ShipmentID uuid.UUID
	DriverID   uuid.UUID
	Message    string
}

// RespondParams describes a decision on an open offer.
type RespondParams struct {
	TenantID uuid.UUID
	OfferID  uuid.UUID
	Decision domain.Decision
	Note     string
	// ActorID, when set, must match the offer's recipient.
	ActorID uuid.UUID
	// Source is recorded in the audit trail, API unless stated otherwise.
	Source string
	// AllowDuplicate turns a redelivered decision on a terminal offer into
	// a no-op success. Used by the inbound webhook path.
	AllowDuplicate bool
}

// Service coordinates offer creation and resolution.
type Service struct {
	store           OfferStore
	carrierEligible EligibilityChecker
	driverEligible  EligibilityChecker
	bus             events.Bus
	log             *logger.Logger
}

// New creates a new offers service.
func New(store OfferStore, carrierEligible, driverEligible EligibilityChecker, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:           store,
		carrierEligible: carrierEligible,
		driverEligible:  driverEligible,
		bus:             bus,
		log:             log,
	}
}

// CreateTender extends a load offer to a carrier. The carrier must pass the
// eligibility gate at this moment; a later eligibility change does not touch
// an already-open offer.
func (s *Service) CreateTender(ctx context.Context, p CreateTenderParams) (repository.Offer, error) {
	if p.AmountCents <= 0 {
		return repository.Offer{}, apperr.Validation("tender amount must be positive")
	}
	expiry, err := domain.TenderExpiry(p.ExpiryHours)
	if err != nil {
		return repository.Offer{}, apperr.Validation(err.Error())
	}

	ok, reason, err := s.carrierEligible.Check(ctx, p.TenantID, p.CarrierID)
	if err != nil {
		return repository.Offer{}, err
	}
	if !ok {
		return repository.Offer{}, apperr.Unprocessable(reason)
	}

	expiresAt := timeNow().Add(expiry)
	offer, err := s.store.CreateTender(ctx, repository.Offer{
		TenantID:    p.TenantID,
		ShipmentID:  p.ShipmentID,
		Kind:        domain.KindTender,
		ActorID:     p.CarrierID,
		AmountCents: &p.AmountCents,
		Message:     strings.TrimSpace(p.Message),
		ExpiresAt:   &expiresAt,
	})
	if err != nil {
		return repository.Offer{}, err
	}

	metrics.OffersCreated.WithLabelValues(string(domain.KindTender)).Inc()
	s.bus.Publish(ctx, events.OfferCreated{
		BaseEvent:   events.NewBaseEvent(),
		OfferID:     offer.ID,
		ShipmentID:  offer.ShipmentID,
		TenantID:    offer.TenantID,
		Kind:        string(offer.Kind),
		ActorID:     offer.ActorID,
		AmountCents: offer.AmountCents,
		Message:     offer.Message,
		ExpiresAt:   offer.ExpiresAt,
	})
	s.log.OfferTransition(offer.ID.String(), string(offer.Kind), "", string(domain.StateOffered), 0)
	return offer, nil
}

// CreateDispatch extends a trip assignment offer to a driver. Dispatch offers
// carry no expiry; they stay open until answered or cancelled.
func (s *Service) CreateDispatch(ctx context.Context, p CreateDispatchParams) (repository.Offer, error) {
	if strings.TrimSpace(p.Message) == "" {
		return repository.Offer{}, apperr.Validation("dispatch message is required")
	}

	ok, reason, err := s.driverEligible.Check(ctx, p.TenantID, p.DriverID)
	if err != nil {
		return repository.Offer{}, err
	}
	if !ok {
		return repository.Offer{}, apperr.Unprocessable(reason)
	}

	offer, err := s.store.CreateDispatch(ctx, repository.Offer{
		TenantID:   p.TenantID,
		ShipmentID: p.ShipmentID,
		Kind:       domain.KindDispatch,
		ActorID:    p.DriverID,
		Message:    strings.TrimSpace(p.Message),
	})
	if err != nil {
		return repository.Offer{}, err
	}

	metrics.OffersCreated.WithLabelValues(string(domain.KindDispatch)).Inc()
	s.bus.Publish(ctx, events.OfferCreated{
		BaseEvent:  events.NewBaseEvent(),
		OfferID:    offer.ID,
		ShipmentID: offer.ShipmentID,
		TenantID:   offer.TenantID,
		Kind:       string(offer.Kind),
		ActorID:    offer.ActorID,
		Message:    offer.Message,
	})
	s.log.OfferTransition(offer.ID.String(), string(offer.Kind), "", string(domain.StateOffered), 0)
	return offer, nil
}

// Respond applies an accept or reject decision. Everything the decision
// implies, including sibling cancellation and the shipment update, commits in
// one transaction before any event is published.
func (s *Service) Respond(ctx context.Context, p RespondParams) (repository.TransitionResult, error) {
	if p.Source == "" {
		p.Source = domain.SourceAPI
	}

	result, err := s.store.Transition(ctx, repository.TransitionParams{
		OfferID:        p.OfferID,
		TenantID:       p.TenantID,
		Decision:       p.Decision,
		Source:         p.Source,
		Note:           p.Note,
		ActorID:        p.ActorID,
		AllowDuplicate: p.AllowDuplicate,
	})
	if err != nil {
		if apperr.Is(err, apperr.KindGone) {
			// Lazy expiry committed as a side effect of the late response.
			s.publishExpired(ctx, result.Offer)
		}
		return result, err
	}
	if result.Duplicate {
		return result, nil
	}

	o := result.Offer
	metrics.OfferTransitions.WithLabelValues(string(o.Kind), string(o.State)).Inc()
	s.log.OfferTransition(o.ID.String(), string(o.Kind), string(domain.StateOffered), string(o.State), len(result.CancelledSiblingIDs))

	switch o.State {
	case domain.StateAccepted:
		if n := len(result.CancelledSiblingIDs); n > 0 {
			metrics.SiblingsCancelled.Add(float64(n))
		}
		s.bus.Publish(ctx, events.OfferAccepted{
			BaseEvent:           events.NewBaseEvent(),
			OfferID:             o.ID,
			ShipmentID:          o.ShipmentID,
			TenantID:            o.TenantID,
			Kind:                string(o.Kind),
			ActorID:             o.ActorID,
			ShipmentStatus:      string(result.ShipmentStatus),
			CancelledSiblingIDs: result.CancelledSiblingIDs,
		})
	case domain.StateRejected:
		s.bus.Publish(ctx, events.OfferRejected{
			BaseEvent:      events.NewBaseEvent(),
			OfferID:        o.ID,
			ShipmentID:     o.ShipmentID,
			TenantID:       o.TenantID,
			Kind:           string(o.Kind),
			ActorID:        o.ActorID,
			ShipmentStatus: string(result.ShipmentStatus),
			Note:           o.Note,
		})
	}

	return result, nil
}

// ExpireDueTenders is the sweeper entry point. Lazy expiry already guarantees
// correctness; this pass keeps listings and metrics from lagging behind.
func (s *Service) ExpireDueTenders(ctx context.Context, limit int) (int, error) {
	expired, err := s.store.ExpireDue(ctx, limit)
	if err != nil {
		return 0, err
	}
	for _, o := range expired {
		s.publishExpired(ctx, o)
	}
	return len(expired), nil
}

// Get retrieves an offer together with its audit trail.
func (s *Service) Get(ctx context.Context, id, tenantID uuid.UUID) (repository.Offer, []repository.AuditEntry, error) {
	return s.store.GetByID(ctx, id, tenantID)
}

// ListByShipment returns a shipment's offers, newest first.
func (s *Service) ListByShipment(ctx context.Context, shipmentID, tenantID uuid.UUID) ([]repository.Offer, error) {
	return s.store.ListByShipment(ctx, shipmentID, tenantID)
}

// ListByActor returns the offers extended to a carrier or driver, newest first.
func (s *Service) ListByActor(ctx context.Context, actorID, tenantID uuid.UUID) ([]repository.Offer, error) {
	return s.store.ListByActor(ctx, actorID, tenantID)
}

func (s *Service) publishExpired(ctx context.Context, o repository.Offer) {
	metrics.OfferTransitions.WithLabelValues(string(o.Kind), string(domain.StateExpired)).Inc()
	s.log.OfferTransition(o.ID.String(), string(o.Kind), string(domain.StateOffered), string(domain.StateExpired), 0)
	s.bus.Publish(ctx, events.OfferExpired{
		BaseEvent:  events.NewBaseEvent(),
		OfferID:    o.ID,
		ShipmentID: o.ShipmentID,
		TenantID:   o.TenantID,
		ActorID:    o.ActorID,
	})
}
