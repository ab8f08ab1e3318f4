package inbound

import (
	"context"
	"testing"

	"freight_broker_backend/internal/events"
	offerdomain "freight_broker_backend/internal/offers/domain"
	offerrepo "freight_broker_backend/internal/offers/repository"
	offersvc "freight_broker_backend/internal/offers/service"
	"freight_broker_backend/platform/apperr"
	"freight_broker_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeResponder struct {
	params []offersvc.RespondParams
	err    error
}

func (f *fakeResponder) Respond(_ context.Context, p offersvc.RespondParams) (offerrepo.TransitionResult, error) {
	f.params = append(f.params, p)
	return offerrepo.TransitionResult{}, f.err
}

type fakeDirectory struct {
	open     []offerrepo.Offer
	terminal *offerrepo.Offer
}

func (f *fakeDirectory) FindOpenDispatchByPhone(context.Context, string) ([]offerrepo.Offer, error) {
	return f.open, nil
}

func (f *fakeDirectory) FindLatestTerminalDispatchByPhone(context.Context, string) (offerrepo.Offer, bool, error) {
	if f.terminal == nil {
		return offerrepo.Offer{}, false, nil
	}
	return *f.terminal, true, nil
}

type fakeMessageStore struct {
	inserted []Message
}

func (f *fakeMessageStore) Insert(_ context.Context, m Message) (Message, error) {
	m.ID = uuid.New()
	f.inserted = append(f.inserted, m)
	return m, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.published = append(b.published, e)
}

func (b *recordingBus) PublishSync(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func openOffer() offerrepo.Offer {
	return offerrepo.Offer{
		ID:       uuid.New(),
		TenantID: uuid.New(),
		Kind:     offerdomain.KindDispatch,
		ActorID:  uuid.New(),
		State:    offerdomain.StateOffered,
	}
}

func newTestService(store MessageStore, responder OfferResponder, directory OfferDirectory, bus events.Bus) *Service {
	return NewService(store, responder, directory, bus, logger.NewNop())
}

func TestProcessAppliesSingleMatch(t *testing.T) {
	offer := openOffer()
	responder := &fakeResponder{}
	store := &fakeMessageStore{}
	svc := newTestService(store, responder, &fakeDirectory{open: []offerrepo.Offer{offer}}, &recordingBus{})

	result, err := svc.Process(context.Background(), "+1 (555) 010-0199", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusApplied {
		t.Fatalf("expected APPLIED, got %s (%s)", result.Status, result.Reason)
	}
	if result.AppliedDecision != "ACCEPT" {
		t.Fatalf("expected ACCEPT decision, got %s", result.AppliedDecision)
	}
	if len(responder.params) != 1 {
		t.Fatalf("expected one respond call, got %d", len(responder.params))
	}
	p := responder.params[0]
	if p.OfferID != offer.ID || p.TenantID != offer.TenantID || p.ActorID != offer.ActorID {
		t.Fatalf("respond params do not target the matched offer: %+v", p)
	}
	if p.Source != offerdomain.SourceInbound || !p.AllowDuplicate {
		t.Fatalf("inbound responses must be marked as such: %+v", p)
	}
	if len(store.inserted) != 1 || store.inserted[0].Status != StatusApplied {
		t.Fatalf("message not persisted as applied: %+v", store.inserted)
	}
}

func TestProcessRejectKeyword(t *testing.T) {
	offer := openOffer()
	responder := &fakeResponder{}
	svc := newTestService(&fakeMessageStore{}, responder, &fakeDirectory{open: []offerrepo.Offer{offer}}, &recordingBus{})

	result, err := svc.Process(context.Background(), "+15550100199", "sorry, not available")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusApplied || result.AppliedDecision != "REJECT" {
		t.Fatalf("expected applied REJECT, got %s / %s", result.Status, result.AppliedDecision)
	}
	if responder.params[0].Decision != offerdomain.DecisionReject {
		t.Fatalf("expected reject decision, got %s", responder.params[0].Decision)
	}
}

func TestProcessUnmatchedGoesToReviewQueue(t *testing.T) {
	store := &fakeMessageStore{}
	bus := &recordingBus{}
	svc := newTestService(store, &fakeResponder{}, &fakeDirectory{}, bus)

	result, err := svc.Process(context.Background(), "+15550109999", "yes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusUnmatched {
		t.Fatalf("expected UNMATCHED, got %s", result.Status)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected an unresolved event, got %d", len(bus.published))
	}
	if _, ok := bus.published[0].(events.InboundMessageUnresolved); !ok {
		t.Fatalf("expected InboundMessageUnresolved, got %T", bus.published[0])
	}
}

func TestProcessAmbiguousWithMultipleOpenOffers(t *testing.T) {
	tenant := uuid.New()
	a, b := openOffer(), openOffer()
	a.TenantID, b.TenantID = tenant, tenant
	responder := &fakeResponder{}
	bus := &recordingBus{}
	svc := newTestService(&fakeMessageStore{}, responder, &fakeDirectory{open: []offerrepo.Offer{a, b}}, bus)

	result, err := svc.Process(context.Background(), "+15550100199", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusAmbiguous {
		t.Fatalf("expected AMBIGUOUS, got %s", result.Status)
	}
	if len(responder.params) != 0 {
		t.Fatal("ambiguous messages must not apply any decision")
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected an unresolved event, got %d", len(bus.published))
	}
}

func TestProcessUnrecognizedText(t *testing.T) {
	offer := openOffer()
	responder := &fakeResponder{}
	svc := newTestService(&fakeMessageStore{}, responder, &fakeDirectory{open: []offerrepo.Offer{offer}}, &recordingBus{})

	result, err := svc.Process(context.Background(), "+15550100199", "what load is this?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusUnrecognized {
		t.Fatalf("expected UNRECOGNIZED, got %s", result.Status)
	}
	if len(responder.params) != 0 {
		t.Fatal("unrecognized messages must not apply any decision")
	}
}

func TestProcessRedeliveryIsDuplicate(t *testing.T) {
	prev := openOffer()
	prev.State = offerdomain.StateAccepted
	bus := &recordingBus{}
	svc := newTestService(&fakeMessageStore{}, &fakeResponder{}, &fakeDirectory{terminal: &prev}, bus)

	result, err := svc.Process(context.Background(), "+15550100199", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusDuplicate {
		t.Fatalf("expected DUPLICATE, got %s (%s)", result.Status, result.Reason)
	}
	if result.MatchedOfferID == nil || *result.MatchedOfferID != prev.ID {
		t.Fatal("duplicate should reference the previously resolved offer")
	}
	if len(bus.published) != 0 {
		t.Fatal("duplicates do not belong in the review queue")
	}
}

func TestProcessConflictingRedeliveryIsUnmatched(t *testing.T) {
	// The prior offer was rejected but the redelivered text says accept:
	// that is not a duplicate, an operator should look at it.
	prev := openOffer()
	prev.State = offerdomain.StateRejected
	svc := newTestService(&fakeMessageStore{}, &fakeResponder{}, &fakeDirectory{terminal: &prev}, &recordingBus{})

	result, err := svc.Process(context.Background(), "+15550100199", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusUnmatched {
		t.Fatalf("expected UNMATCHED, got %s", result.Status)
	}
}

func TestProcessLazyExpiredOffer(t *testing.T) {
	offer := openOffer()
	responder := &fakeResponder{err: apperr.Gone("offer has expired")}
	svc := newTestService(&fakeMessageStore{}, responder, &fakeDirectory{open: []offerrepo.Offer{offer}}, &recordingBus{})

	result, err := svc.Process(context.Background(), "+15550100199", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusExpired {
		t.Fatalf("expected EXPIRED, got %s", result.Status)
	}
}
