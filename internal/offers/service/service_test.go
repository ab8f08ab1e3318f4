package service

import (
	"context"
	"testing"
	"time"

	"freight_broker_backend/internal/events"
	"freight_broker_backend/internal/offers/domain"
	"freight_broker_backend/internal/offers/repository"
	shipdomain "freight_broker_backend/internal/shipments/domain"
	"freight_broker_backend/platform/apperr"
	"freight_broker_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	createTender   func(ctx context.Context, o repository.Offer) (repository.Offer, error)
	createDispatch func(ctx context.Context, o repository.Offer) (repository.Offer, error)
	transition     func(ctx context.Context, p repository.TransitionParams) (repository.TransitionResult, error)
	expireDue      func(ctx context.Context, limit int) ([]repository.Offer, error)
}

func (f *fakeStore) CreateTender(ctx context.Context, o repository.Offer) (repository.Offer, error) {
	return f.createTender(ctx, o)
}

func (f *fakeStore) CreateDispatch(ctx context.Context, o repository.Offer) (repository.Offer, error) {
	return f.createDispatch(ctx, o)
}

func (f *fakeStore) Transition(ctx context.Context, p repository.TransitionParams) (repository.TransitionResult, error) {
	return f.transition(ctx, p)
}

func (f *fakeStore) ExpireDue(ctx context.Context, limit int) ([]repository.Offer, error) {
	return f.expireDue(ctx, limit)
}

func (f *fakeStore) GetByID(context.Context, uuid.UUID, uuid.UUID) (repository.Offer, []repository.AuditEntry, error) {
	return repository.Offer{}, nil, nil
}

func (f *fakeStore) ListByShipment(context.Context, uuid.UUID, uuid.UUID) ([]repository.Offer, error) {
	return nil, nil
}

func (f *fakeStore) ListByActor(context.Context, uuid.UUID, uuid.UUID) ([]repository.Offer, error) {
	return nil, nil
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

func (b *recordingBus) names() []string {
	var out []string
	for _, e := range b.published {
		out = append(out, e.EventName())
	}
	return out
}

func allow(ctx context.Context, tenantID, actorID uuid.UUID) (bool, string, error) {
	return true, "", nil
}

func deny(reason string) EligibilityFunc {
	return func(context.Context, uuid.UUID, uuid.UUID) (bool, string, error) {
		return false, reason, nil
	}
}

func newTestService(store OfferStore, carrier, driver EligibilityChecker, bus events.Bus) *Service {
	return New(store, carrier, driver, bus, logger.NewNop())
}

func TestCreateTenderRejectsIneligibleCarrier(t *testing.T) {
	store := &fakeStore{
		createTender: func(context.Context, repository.Offer) (repository.Offer, error) {
			t.Fatal("store must not be reached when the eligibility gate fails")
			return repository.Offer{}, nil
		},
	}
	bus := &recordingBus{}
	svc := newTestService(store, deny("carrier is suspended"), EligibilityFunc(allow), bus)

	_, err := svc.CreateTender(context.Background(), CreateTenderParams{
		TenantID:    uuid.New(),
		ShipmentID:  uuid.New(),
		CarrierID:   uuid.New(),
		AmountCents: 125000,
	})
	if !apperr.Is(err, apperr.KindUnprocessable) {
		t.Fatalf("expected unprocessable error, got %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("no events should be published, got %v", bus.names())
	}
}

func TestCreateTenderValidatesAmountAndExpiry(t *testing.T) {
	svc := newTestService(&fakeStore{}, EligibilityFunc(allow), EligibilityFunc(allow), &recordingBus{})

	_, err := svc.CreateTender(context.Background(), CreateTenderParams{AmountCents: 0})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("zero amount should fail validation, got %v", err)
	}

	_, err = svc.CreateTender(context.Background(), CreateTenderParams{AmountCents: 100, ExpiryHours: 500})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("out-of-range expiry should fail validation, got %v", err)
	}
}

func TestCreateTenderSetsExpiryAndPublishes(t *testing.T) {
	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	var stored repository.Offer
	store := &fakeStore{
		createTender: func(_ context.Context, o repository.Offer) (repository.Offer, error) {
			o.ID = uuid.New()
			stored = o
			return o, nil
		},
	}
	bus := &recordingBus{}
	svc := newTestService(store, EligibilityFunc(allow), EligibilityFunc(allow), bus)

	_, err := svc.CreateTender(context.Background(), CreateTenderParams{
		TenantID:    uuid.New(),
		ShipmentID:  uuid.New(),
		CarrierID:   uuid.New(),
		AmountCents: 240000,
		ExpiryHours: 48,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.ExpiresAt == nil || !stored.ExpiresAt.Equal(fixed.Add(48*time.Hour)) {
		t.Fatalf("expected expiry 48h after creation, got %v", stored.ExpiresAt)
	}
	if len(bus.published) != 1 || bus.published[0].EventName() != "offers.offer.created" {
		t.Fatalf("expected one offer-created event, got %v", bus.names())
	}
}

func TestCreateDispatchRejectsIneligibleDriver(t *testing.T) {
	svc := newTestService(&fakeStore{}, EligibilityFunc(allow), deny("driver license is expired"), &recordingBus{})

	_, err := svc.CreateDispatch(context.Background(), CreateDispatchParams{
		TenantID:   uuid.New(),
		ShipmentID: uuid.New(),
		DriverID:   uuid.New(),
		Message:    "Pickup tomorrow 06:00 at dock 4",
	})
	if !apperr.Is(err, apperr.KindUnprocessable) {
		t.Fatalf("expected unprocessable error, got %v", err)
	}
}

func TestRespondAcceptPublishesWithCancelledSiblings(t *testing.T) {
	offerID := uuid.New()
	siblings := []uuid.UUID{uuid.New(), uuid.New()}
	store := &fakeStore{
		transition: func(_ context.Context, p repository.TransitionParams) (repository.TransitionResult, error) {
			return repository.TransitionResult{
				Offer: repository.Offer{
					ID:         p.OfferID,
					TenantID:   p.TenantID,
					ShipmentID: uuid.New(),
					Kind:       domain.KindTender,
					State:      domain.StateAccepted,
				},
				ShipmentStatus:      shipdomain.StatusBooked,
				CancelledSiblingIDs: siblings,
			}, nil
		},
	}
	bus := &recordingBus{}
	svc := newTestService(store, EligibilityFunc(allow), EligibilityFunc(allow), bus)

	result, err := svc.Respond(context.Background(), RespondParams{
		TenantID: uuid.New(),
		OfferID:  offerID,
		Decision: domain.DecisionAccept,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.CancelledSiblingIDs) != 2 {
		t.Fatalf("expected 2 cancelled siblings, got %d", len(result.CancelledSiblingIDs))
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %v", bus.names())
	}
	accepted, ok := bus.published[0].(events.OfferAccepted)
	if !ok {
		t.Fatalf("expected OfferAccepted, got %T", bus.published[0])
	}
	if len(accepted.CancelledSiblingIDs) != 2 || accepted.ShipmentStatus != string(shipdomain.StatusBooked) {
		t.Fatalf("event payload incomplete: %+v", accepted)
	}
}

func TestRespondLazyExpiryPublishesExpired(t *testing.T) {
	store := &fakeStore{
		transition: func(_ context.Context, p repository.TransitionParams) (repository.TransitionResult, error) {
			return repository.TransitionResult{
				Offer: repository.Offer{
					ID:       p.OfferID,
					TenantID: p.TenantID,
					Kind:     domain.KindTender,
					State:    domain.StateExpired,
				},
			}, apperr.Gone("offer has expired")
		},
	}
	bus := &recordingBus{}
	svc := newTestService(store, EligibilityFunc(allow), EligibilityFunc(allow), bus)

	_, err := svc.Respond(context.Background(), RespondParams{
		TenantID: uuid.New(),
		OfferID:  uuid.New(),
		Decision: domain.DecisionAccept,
	})
	if !apperr.Is(err, apperr.KindGone) {
		t.Fatalf("expected gone error, got %v", err)
	}
	if len(bus.published) != 1 || bus.published[0].EventName() != "offers.offer.expired" {
		t.Fatalf("expected offer-expired event, got %v", bus.names())
	}
}

func TestRespondDuplicateIsSilent(t *testing.T) {
	store := &fakeStore{
		transition: func(_ context.Context, p repository.TransitionParams) (repository.TransitionResult, error) {
			return repository.TransitionResult{
				Offer:     repository.Offer{ID: p.OfferID, State: domain.StateAccepted},
				Duplicate: true,
			}, nil
		},
	}
	bus := &recordingBus{}
	svc := newTestService(store, EligibilityFunc(allow), EligibilityFunc(allow), bus)

	result, err := svc.Respond(context.Background(), RespondParams{
		TenantID:       uuid.New(),
		OfferID:        uuid.New(),
		Decision:       domain.DecisionAccept,
		AllowDuplicate: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Duplicate {
		t.Fatal("expected duplicate result")
	}
	if len(bus.published) != 0 {
		t.Fatalf("duplicate must not publish events, got %v", bus.names())
	}
}

func TestExpireDueTendersPublishesPerOffer(t *testing.T) {
	store := &fakeStore{
		expireDue: func(context.Context, int) ([]repository.Offer, error) {
			return []repository.Offer{
				{ID: uuid.New(), Kind: domain.KindTender, State: domain.StateExpired},
				{ID: uuid.New(), Kind: domain.KindTender, State: domain.StateExpired},
			}, nil
		},
	}
	bus := &recordingBus{}
	svc := newTestService(store, EligibilityFunc(allow), EligibilityFunc(allow), bus)

	n, err := svc.ExpireDueTenders(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 expired offers, got %d", n)
	}
	if len(bus.published) != 2 {
		t.Fatalf("expected 2 events, got %v", bus.names())
	}
}
