package inbound

import (
	"context"

	"freight_broker_backend/internal/events"
	offerdomain "freight_broker_backend/internal/offers/domain"
	offerrepo "freight_broker_backend/internal/offers/repository"
	offersvc "freight_broker_backend/internal/offers/service"
	"freight_broker_backend/platform/apperr"
	"freight_broker_backend/platform/logger"
	"freight_broker_backend/platform/metrics"
	"freight_broker_backend/platform/phone"

	"github.com/google/uuid"
)

// OfferResponder applies a resolved decision to an offer. Implemented by the
// offers service.
type OfferResponder interface {
	Respond(ctx context.Context, p offersvc.RespondParams) (offerrepo.TransitionResult, error)
}

// OfferDirectory correlates phone numbers to dispatch offers. Implemented by
// the offers repository.
type OfferDirectory interface {
	FindOpenDispatchByPhone(ctx context.Context, phone string) ([]offerrepo.Offer, error)
	FindLatestTerminalDispatchByPhone(ctx context.Context, phone string) (offerrepo.Offer, bool, error)
}

// MessageStore persists inbound messages. Implemented by the repository.
type MessageStore interface {
	Insert(ctx context.Context, m Message) (Message, error)
}

// Result is the resolution outcome reported back to the SMS gateway.
type Result struct {
	Status          string
	Intent          Intent
	MatchedOfferID  *uuid.UUID
	AppliedDecision string
	Reason          string
}

// Service resolves inbound SMS replies against open dispatch offers.
type Service struct {
	store     MessageStore
	responder OfferResponder
	directory OfferDirectory
	bus       events.Bus
	log       *logger.Logger
}

// NewService creates a new inbound resolver service.
func NewService(store MessageStore, responder OfferResponder, directory OfferDirectory, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, responder: responder, directory: directory, bus: bus, log: log}
}

// Process resolves one inbound SMS. Every message is persisted with its
// outcome regardless of how resolution went; messages that could not be
// applied land in the review queue and raise an unresolved event.
func (s *Service) Process(ctx context.Context, from, body string) (Result, error) {
	normalized := phone.NormalizeE164(from)
	intent := ClassifyIntent(body)

	result, tenantID := s.resolve(ctx, normalized, intent)

	stored, err := s.store.Insert(ctx, Message{
		TenantID:       tenantID,
		FromPhone:      normalized,
		Body:           body,
		Intent:         string(intent),
		Status:         result.Status,
		Reason:         result.Reason,
		MatchedOfferID: result.MatchedOfferID,
	})
	if err != nil {
		return result, err
	}

	metrics.InboundMessages.WithLabelValues(result.Status).Inc()
	matchedID := ""
	if result.MatchedOfferID != nil {
		matchedID = result.MatchedOfferID.String()
	}
	s.log.InboundMessage(normalized, string(intent), result.Status, matchedID)

	if stored.NeedsReview() {
		s.bus.Publish(ctx, events.InboundMessageUnresolved{
			BaseEvent: events.NewBaseEvent(),
			MessageID: stored.ID,
			TenantID:  derefUUID(tenantID),
			From:      normalized,
			Status:    result.Status,
			Reason:    result.Reason,
		})
	}

	return result, nil
}

// resolve correlates the sender to an offer and applies the decision when
// exactly one open dispatch offer matches. The returned tenant id is best
// effort and may be nil for senders no tenant knows.
func (s *Service) resolve(ctx context.Context, from string, intent Intent) (Result, *uuid.UUID) {
	open, err := s.directory.FindOpenDispatchByPhone(ctx, from)
	if err != nil {
		return Result{Status: StatusUnmatched, Intent: intent, Reason: "offer lookup failed"}, nil
	}

	var tenantID *uuid.UUID
	if len(open) > 0 {
		tenantID = &open[0].TenantID
	}

	if intent == IntentUnrecognized {
		if tenantID == nil {
			tenantID = s.tenantFromHistory(ctx, from)
		}
		return Result{Status: StatusUnrecognized, Intent: intent, Reason: "message text could not be classified"}, tenantID
	}

	switch len(open) {
	case 1:
		return s.apply(ctx, open[0], intent)
	case 0:
		if result, tenant, ok := s.tryDuplicate(ctx, from, intent); ok {
			return result, tenant
		}
		return Result{Status: StatusUnmatched, Intent: intent, Reason: "no open dispatch offer for this number"},
			s.tenantFromHistory(ctx, from)
	default:
		return Result{Status: StatusAmbiguous, Intent: intent, Reason: "multiple open dispatch offers for this number"},
			tenantID
	}
}

func (s *Service) apply(ctx context.Context, offer offerrepo.Offer, intent Intent) (Result, *uuid.UUID) {
	decision := offerdomain.DecisionAccept
	if intent == IntentReject {
		decision = offerdomain.DecisionReject
	}

	_, err := s.responder.Respond(ctx, offersvc.RespondParams{
		TenantID:       offer.TenantID,
		OfferID:        offer.ID,
		Decision:       decision,
		ActorID:        offer.ActorID,
		Source:         offerdomain.SourceInbound,
		AllowDuplicate: true,
	})
	offerID := offer.ID
	tenantID := offer.TenantID

	switch {
	case err == nil:
		return Result{
			Status:          StatusApplied,
			Intent:          intent,
			MatchedOfferID:  &offerID,
			AppliedDecision: string(decision),
		}, &tenantID
	case apperr.Is(err, apperr.KindGone):
		return Result{
			Status:         StatusExpired,
			Intent:         intent,
			MatchedOfferID: &offerID,
			Reason:         "offer expired before the reply arrived",
		}, &tenantID
	case apperr.Is(err, apperr.KindConflict):
		return Result{
			Status:         StatusDuplicate,
			Intent:         intent,
			MatchedOfferID: &offerID,
			Reason:         "offer was already resolved",
		}, &tenantID
	default:
		return Result{
			Status:         StatusUnmatched,
			Intent:         intent,
			MatchedOfferID: &offerID,
			Reason:         "decision could not be applied",
		}, &tenantID
	}
}

// tryDuplicate treats a redelivered reply to an already-resolved offer as a
// harmless duplicate instead of an unmatched message.
func (s *Service) tryDuplicate(ctx context.Context, from string, intent Intent) (Result, *uuid.UUID, bool) {
	prev, found, err := s.directory.FindLatestTerminalDispatchByPhone(ctx, from)
	if err != nil || !found {
		return Result{}, nil, false
	}

	var matchesPrior bool
	switch intent {
	case IntentAccept:
		matchesPrior = prev.State == offerdomain.StateAccepted
	case IntentReject:
		matchesPrior = prev.State == offerdomain.StateRejected
	}
	if !matchesPrior {
		return Result{}, nil, false
	}

	offerID := prev.ID
	tenantID := prev.TenantID
	return Result{
		Status:          StatusDuplicate,
		Intent:          intent,
		MatchedOfferID:  &offerID,
		AppliedDecision: string(intent),
		Reason:          "decision already applied to this offer",
	}, &tenantID, true
}

func (s *Service) tenantFromHistory(ctx context.Context, from string) *uuid.UUID {
	prev, found, err := s.directory.FindLatestTerminalDispatchByPhone(ctx, from)
	if err != nil || !found {
		return nil
	}
	return &prev.TenantID
}

func derefUUID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
