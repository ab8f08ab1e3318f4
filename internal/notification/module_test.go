package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	carriersrepo "freight_broker_backend/internal/carriers/repository"
	driversrepo "freight_broker_backend/internal/drivers/repository"
	"freight_broker_backend/internal/email"
	"freight_broker_backend/internal/events"
	"freight_broker_backend/internal/notification/outbox"
	offersrepo "freight_broker_backend/internal/offers/repository"
	shipmentsrepo "freight_broker_backend/internal/shipments/repository"
	"freight_broker_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeOutbox struct {
	inserted  []outbox.InsertParams
	records   map[uuid.UUID]outbox.Record
	succeeded []uuid.UUID
	failed    []uuid.UUID
	pending   []uuid.UUID
}

func newFakeOutbox() *fakeOutbox {
	return &fakeOutbox{records: make(map[uuid.UUID]outbox.Record)}
}

func (f *fakeOutbox) Insert(_ context.Context, p outbox.InsertParams) (uuid.UUID, error) {
	f.inserted = append(f.inserted, p)
	return uuid.New(), nil
}

func (f *fakeOutbox) GetByID(_ context.Context, id uuid.UUID) (outbox.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return outbox.Record{}, errors.New("not found")
	}
	return rec, nil
}

func (f *fakeOutbox) MarkProcessing(context.Context, uuid.UUID) error { return nil }

func (f *fakeOutbox) MarkPending(_ context.Context, id uuid.UUID, _ *string) error {
	f.pending = append(f.pending, id)
	return nil
}

func (f *fakeOutbox) MarkSucceeded(_ context.Context, id uuid.UUID) error {
	f.succeeded = append(f.succeeded, id)
	return nil
}

func (f *fakeOutbox) MarkFailed(_ context.Context, id uuid.UUID, _ string) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakeCarriers struct{ carrier carriersrepo.Carrier }

func (f *fakeCarriers) Get(context.Context, uuid.UUID, uuid.UUID) (carriersrepo.Carrier, error) {
	return f.carrier, nil
}

type fakeDrivers struct{ driver driversrepo.Driver }

func (f *fakeDrivers) Get(context.Context, uuid.UUID, uuid.UUID) (driversrepo.Driver, error) {
	return f.driver, nil
}

type fakeShipments struct{ shipment shipmentsrepo.Shipment }

func (f *fakeShipments) Get(context.Context, uuid.UUID, uuid.UUID) (shipmentsrepo.Shipment, error) {
	return f.shipment, nil
}

type fakeOffers struct{ offer offersrepo.Offer }

func (f *fakeOffers) Get(context.Context, uuid.UUID, uuid.UUID) (offersrepo.Offer, []offersrepo.AuditEntry, error) {
	return f.offer, nil, nil
}

type fakeSMS struct {
	sent []string
	err  error
}

func (f *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+": "+body)
	return nil
}

type fakeEmail struct {
	email.NopSender
	tenderOffers []string
}

func (f *fakeEmail) SendTenderOfferEmail(_ context.Context, to string, _ email.TenderOfferEmail) error {
	f.tenderOffers = append(f.tenderOffers, to)
	return nil
}

type staticConfig struct{}

func (staticConfig) GetAppBaseURL() string   { return "https://broker.example.com" }
func (staticConfig) GetOpsAlertEmail() string { return "ops@example.com" }

func newTestModule(store OutboxStore, smsSender *fakeSMS, emailSender *fakeEmail) *Module {
	return New(
		store,
		&fakeCarriers{carrier: carriersrepo.Carrier{ID: uuid.New(), Name: "Acme Freight", ContactEmail: "dispatch@acme.example"}},
		&fakeDrivers{driver: driversrepo.Driver{ID: uuid.New(), Name: "Ray Mercer", Phone: "+15550100199"}},
		&fakeShipments{shipment: shipmentsrepo.Shipment{Reference: "SH-1042", Origin: "Chicago, IL", Destination: "Dallas, TX"}},
		&fakeOffers{},
		smsSender,
		emailSender,
		staticConfig{},
		logger.NewNop(),
	)
}

func TestTenderOfferEnqueuesEmail(t *testing.T) {
	store := newFakeOutbox()
	m := newTestModule(store, &fakeSMS{}, &fakeEmail{})

	amount := int64(240000)
	expires := time.Now().Add(24 * time.Hour)
	err := m.Handle(context.Background(), events.OfferCreated{
		BaseEvent:   events.NewBaseEvent(),
		OfferID:     uuid.New(),
		ShipmentID:  uuid.New(),
		TenantID:    uuid.New(),
		Kind:        "TENDER",
		ActorID:     uuid.New(),
		AmountCents: &amount,
		ExpiresAt:   &expires,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected one outbox insert, got %d", len(store.inserted))
	}
	ins := store.inserted[0]
	if ins.Kind != outbox.KindEmail || ins.Template != templateTenderOfferEmail {
		t.Fatalf("unexpected outbox row: %s/%s", ins.Kind, ins.Template)
	}
}

func TestDispatchOfferEnqueuesSMSWithReplyInstructions(t *testing.T) {
	store := newFakeOutbox()
	m := newTestModule(store, &fakeSMS{}, &fakeEmail{})

	err := m.Handle(context.Background(), events.OfferCreated{
		BaseEvent:  events.NewBaseEvent(),
		OfferID:    uuid.New(),
		ShipmentID: uuid.New(),
		TenantID:   uuid.New(),
		Kind:       "DISPATCH",
		ActorID:    uuid.New(),
		Message:    "Pickup tomorrow 06:00 at dock 4",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected one outbox insert, got %d", len(store.inserted))
	}
	ins := store.inserted[0]
	if ins.Kind != outbox.KindSMS || ins.Template != templateDispatchOfferSMS {
		t.Fatalf("unexpected outbox row: %s/%s", ins.Kind, ins.Template)
	}
	payload, _ := json.Marshal(ins.Payload)
	var p smsPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		t.Fatalf("payload not an sms payload: %v", err)
	}
	if p.To != "+15550100199" {
		t.Fatalf("sms addressed to %s", p.To)
	}
	want := "Reply 1 to accept or 2 to reject."
	if len(p.Body) == 0 || p.Body[len(p.Body)-len(want):] != want {
		t.Fatalf("sms body missing reply instructions: %q", p.Body)
	}
}

func TestDeliverSMSMarksSucceeded(t *testing.T) {
	store := newFakeOutbox()
	smsSender := &fakeSMS{}
	m := newTestModule(store, smsSender, &fakeEmail{})

	id := uuid.New()
	payload, _ := json.Marshal(smsPayload{To: "+15550100199", Body: "hi"})
	store.records[id] = outbox.Record{ID: id, Kind: outbox.KindSMS, Template: templateDispatchOfferSMS, Payload: payload}

	if err := m.deliver(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(smsSender.sent) != 1 {
		t.Fatalf("expected one send, got %d", len(smsSender.sent))
	}
	if len(store.succeeded) != 1 || store.succeeded[0] != id {
		t.Fatal("record not marked succeeded")
	}
}

func TestDeliverRetriesThenFails(t *testing.T) {
	store := newFakeOutbox()
	smsSender := &fakeSMS{err: errors.New("gateway down")}
	m := newTestModule(store, smsSender, &fakeEmail{})

	id := uuid.New()
	payload, _ := json.Marshal(smsPayload{To: "+15550100199", Body: "hi"})

	store.records[id] = outbox.Record{ID: id, Kind: outbox.KindSMS, Payload: payload, Attempts: 0}
	if err := m.deliver(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.pending) != 1 {
		t.Fatal("first failure should requeue as pending")
	}

	store.records[id] = outbox.Record{ID: id, Kind: outbox.KindSMS, Payload: payload, Attempts: maxDeliveryAttempts - 1}
	if err := m.deliver(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.failed) != 1 {
		t.Fatal("exhausted attempts should mark the record failed")
	}
}
