// Package notification turns committed offer events into outbound messages.
// Delivery is asynchronous through a persisted outbox: the subscriber only
// enqueues, and the scheduler drives actual sends. A channel outage therefore
// degrades notification delivery without ever touching offer state.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	carriersrepo "freight_broker_backend/internal/carriers/repository"
	driversrepo "freight_broker_backend/internal/drivers/repository"
	"freight_broker_backend/internal/email"
	"freight_broker_backend/internal/events"
	"freight_broker_backend/internal/notification/outbox"
	offerdomain "freight_broker_backend/internal/offers/domain"
	offersrepo "freight_broker_backend/internal/offers/repository"
	shipmentsrepo "freight_broker_backend/internal/shipments/repository"
	"freight_broker_backend/internal/sms"
	"freight_broker_backend/platform/config"
	"freight_broker_backend/platform/logger"
	"freight_broker_backend/platform/metrics"

	"github.com/google/uuid"
)

const maxDeliveryAttempts = 5

// Template identifiers stored on outbox rows.
const (
	templateDispatchOfferSMS     = "dispatch_offer_sms"
	templateDispatchConfirmedSMS = "dispatch_confirmed_sms"
	templateTenderOfferEmail     = "tender_offer_email"
	templateTenderClosedEmail    = "tender_closed_email"
	templateInboundAlertEmail    = "inbound_alert_email"
)

// CarrierReader resolves carrier contact details. Implemented by the carriers
// service.
type CarrierReader interface {
	Get(ctx context.Context, id, tenantID uuid.UUID) (carriersrepo.Carrier, error)
}

// DriverReader resolves driver contact details. Implemented by the drivers
// service.
type DriverReader interface {
	Get(ctx context.Context, id, tenantID uuid.UUID) (driversrepo.Driver, error)
}

// ShipmentReader resolves shipment details for message bodies. Implemented by
// the shipments service.
type ShipmentReader interface {
	Get(ctx context.Context, id, tenantID uuid.UUID) (shipmentsrepo.Shipment, error)
}

// OfferReader resolves offers, used to find the carriers behind cascade-
// cancelled tenders. Implemented by the offers service.
type OfferReader interface {
	Get(ctx context.Context, id, tenantID uuid.UUID) (offersrepo.Offer, []offersrepo.AuditEntry, error)
}

// OutboxStore is the persistence surface for queued notifications.
// Implemented by the outbox repository.
type OutboxStore interface {
	Insert(ctx context.Context, p outbox.InsertParams) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (outbox.Record, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkPending(ctx context.Context, id uuid.UUID, lastError *string) error
	MarkSucceeded(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error
}

// smsPayload is the outbox payload for SMS deliveries.
type smsPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// emailPayload is the outbox payload for email deliveries. Exactly one of the
// template-specific fields is set, matching the record's template.
type emailPayload struct {
	To           string                             `json:"to"`
	TenderOffer  *email.TenderOfferEmail            `json:"tenderOffer,omitempty"`
	TenderClosed *email.TenderClosedEmail           `json:"tenderClosed,omitempty"`
	InboundAlert *email.UnresolvedInboundAlertEmail `json:"inboundAlert,omitempty"`
}

// Module subscribes to domain events and manages outbox delivery.
type Module struct {
	store     OutboxStore
	carriers  CarrierReader
	drivers   DriverReader
	shipments ShipmentReader
	offers    OfferReader
	sms       sms.Sender
	email     email.Sender
	cfg       config.NotificationConfig
	log       *logger.Logger
}

// New creates the notification module.
func New(
	store OutboxStore,
	carriers CarrierReader,
	drivers DriverReader,
	shipments ShipmentReader,
	offers OfferReader,
	smsSender sms.Sender,
	emailSender email.Sender,
	cfg config.NotificationConfig,
	log *logger.Logger,
) *Module {
	return &Module{
		store:     store,
		carriers:  carriers,
		drivers:   drivers,
		shipments: shipments,
		offers:    offers,
		sms:       smsSender,
		email:     emailSender,
		cfg:       cfg,
		log:       log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.OfferCreated{}.EventName(), m)
	bus.Subscribe(events.OfferAccepted{}.EventName(), m)
	bus.Subscribe(events.OfferExpired{}.EventName(), m)
	bus.Subscribe(events.InboundMessageUnresolved{}.EventName(), m)
	bus.Subscribe(events.NotificationOutboxDue{}.EventName(), m)
}

// Handle implements events.Handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.OfferCreated:
		m.onOfferCreated(ctx, e)
	case events.OfferAccepted:
		m.onOfferAccepted(ctx, e)
	case events.OfferExpired:
		m.onOfferExpired(ctx, e)
	case events.InboundMessageUnresolved:
		m.onInboundUnresolved(ctx, e)
	case events.NotificationOutboxDue:
		return m.deliver(ctx, e.OutboxID)
	}
	return nil
}

func (m *Module) onOfferCreated(ctx context.Context, e events.OfferCreated) {
	switch offerdomain.Kind(e.Kind) {
	case offerdomain.KindTender:
		m.enqueueTenderOffer(ctx, e)
	case offerdomain.KindDispatch:
		m.enqueueDispatchOffer(ctx, e)
	}
}

func (m *Module) enqueueTenderOffer(ctx context.Context, e events.OfferCreated) {
	carrier, err := m.carriers.Get(ctx, e.ActorID, e.TenantID)
	if err != nil {
		m.degrade("email", "resolve carrier for tender offer", err)
		return
	}
	if carrier.ContactEmail == "" {
		m.log.Warn("carrier has no contact email, skipping tender notification", "carrier_id", carrier.ID)
		return
	}
	shipment, err := m.shipments.Get(ctx, e.ShipmentID, e.TenantID)
	if err != nil {
		m.degrade("email", "resolve shipment for tender offer", err)
		return
	}

	amount := ""
	if e.AmountCents != nil {
		amount = email.FormatCurrencyUSD(*e.AmountCents)
	}
	expiresAt := time.Now()
	if e.ExpiresAt != nil {
		expiresAt = *e.ExpiresAt
	}

	m.enqueue(ctx, e.TenantID, outbox.KindEmail, templateTenderOfferEmail, emailPayload{
		To: carrier.ContactEmail,
		TenderOffer: &email.TenderOfferEmail{
			CarrierName:     carrier.Name,
			ShipmentRef:     shipment.Reference,
			Origin:          shipment.Origin,
			Destination:     shipment.Destination,
			AmountFormatted: amount,
			ExpiresAt:       expiresAt,
			OfferURL:        fmt.Sprintf("%s/offers/%s", m.cfg.GetAppBaseURL(), e.OfferID),
		},
	})
}

func (m *Module) enqueueDispatchOffer(ctx context.Context, e events.OfferCreated) {
	driver, err := m.drivers.Get(ctx, e.ActorID, e.TenantID)
	if err != nil {
		m.degrade("sms", "resolve driver for dispatch offer", err)
		return
	}
	shipment, err := m.shipments.Get(ctx, e.ShipmentID, e.TenantID)
	if err != nil {
		m.degrade("sms", "resolve shipment for dispatch offer", err)
		return
	}

	body := fmt.Sprintf("%s (load %s, %s to %s). Reply 1 to accept or 2 to reject.",
		e.Message, shipment.Reference, shipment.Origin, shipment.Destination)

	m.enqueue(ctx, e.TenantID, outbox.KindSMS, templateDispatchOfferSMS, smsPayload{
		To:   driver.Phone,
		Body: body,
	})
}

func (m *Module) onOfferAccepted(ctx context.Context, e events.OfferAccepted) {
	// Carriers whose competing tenders were cancelled learn about it here.
	for _, siblingID := range e.CancelledSiblingIDs {
		sibling, _, err := m.offers.Get(ctx, siblingID, e.TenantID)
		if err != nil {
			m.degrade("email", "resolve cancelled sibling tender", err)
			continue
		}
		m.enqueueTenderClosed(ctx, e.TenantID, sibling, "The load was awarded to another carrier.")
	}

	if offerdomain.Kind(e.Kind) == offerdomain.KindDispatch {
		driver, err := m.drivers.Get(ctx, e.ActorID, e.TenantID)
		if err != nil {
			m.degrade("sms", "resolve driver for dispatch confirmation", err)
			return
		}
		m.enqueue(ctx, e.TenantID, outbox.KindSMS, templateDispatchConfirmedSMS, smsPayload{
			To:   driver.Phone,
			Body: "Trip confirmed. Dispatch will follow up with pickup details.",
		})
	}
}

func (m *Module) onOfferExpired(ctx context.Context, e events.OfferExpired) {
	offer, _, err := m.offers.Get(ctx, e.OfferID, e.TenantID)
	if err != nil {
		m.degrade("email", "resolve expired offer", err)
		return
	}
	m.enqueueTenderClosed(ctx, e.TenantID, offer, "The offer expired before a response arrived.")
}

func (m *Module) enqueueTenderClosed(ctx context.Context, tenantID uuid.UUID, offer offersrepo.Offer, reason string) {
	carrier, err := m.carriers.Get(ctx, offer.ActorID, tenantID)
	if err != nil {
		m.degrade("email", "resolve carrier for closed tender", err)
		return
	}
	if carrier.ContactEmail == "" {
		return
	}
	shipment, err := m.shipments.Get(ctx, offer.ShipmentID, tenantID)
	if err != nil {
		m.degrade("email", "resolve shipment for closed tender", err)
		return
	}

	m.enqueue(ctx, tenantID, outbox.KindEmail, templateTenderClosedEmail, emailPayload{
		To: carrier.ContactEmail,
		TenderClosed: &email.TenderClosedEmail{
			CarrierName: carrier.Name,
			ShipmentRef: shipment.Reference,
			Reason:      reason,
		},
	})
}

func (m *Module) onInboundUnresolved(ctx context.Context, e events.InboundMessageUnresolved) {
	opsEmail := m.cfg.GetOpsAlertEmail()
	if opsEmail == "" || e.TenantID == uuid.Nil {
		return
	}

	m.enqueue(ctx, e.TenantID, outbox.KindEmail, templateInboundAlertEmail, emailPayload{
		To: opsEmail,
		InboundAlert: &email.UnresolvedInboundAlertEmail{
			FromPhone: e.From,
			Status:    e.Status,
			Reason:    e.Reason,
			QueueURL:  m.cfg.GetAppBaseURL() + "/inbound/messages",
		},
	})
}

func (m *Module) enqueue(ctx context.Context, tenantID uuid.UUID, kind, template string, payload any) {
	if _, err := m.store.Insert(ctx, outbox.InsertParams{
		TenantID: tenantID,
		Kind:     kind,
		Template: template,
		Payload:  payload,
	}); err != nil {
		m.degrade(kind, "enqueue "+template, err)
	}
}

// deliver sends one claimed outbox record. Failures are retried until the
// attempt budget runs out, then parked as failed.
func (m *Module) deliver(ctx context.Context, outboxID uuid.UUID) error {
	rec, err := m.store.GetByID(ctx, outboxID)
	if err != nil {
		return err
	}
	if rec.Status == outbox.StatusSucceeded {
		return nil
	}
	if err := m.store.MarkProcessing(ctx, rec.ID); err != nil {
		return err
	}

	sendErr := m.send(ctx, rec)
	if sendErr == nil {
		return m.store.MarkSucceeded(ctx, rec.ID)
	}

	m.degrade(rec.Kind, "deliver "+rec.Template, sendErr)
	if rec.Attempts+1 >= maxDeliveryAttempts {
		return m.store.MarkFailed(ctx, rec.ID, sendErr.Error())
	}
	msg := sendErr.Error()
	return m.store.MarkPending(ctx, rec.ID, &msg)
}

func (m *Module) send(ctx context.Context, rec outbox.Record) error {
	switch rec.Kind {
	case outbox.KindSMS:
		var p smsPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return fmt.Errorf("decode sms payload: %w", err)
		}
		return m.sms.SendSMS(ctx, p.To, p.Body)
	case outbox.KindEmail:
		var p emailPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return fmt.Errorf("decode email payload: %w", err)
		}
		switch {
		case p.TenderOffer != nil:
			return m.email.SendTenderOfferEmail(ctx, p.To, *p.TenderOffer)
		case p.TenderClosed != nil:
			return m.email.SendTenderClosedEmail(ctx, p.To, *p.TenderClosed)
		case p.InboundAlert != nil:
			return m.email.SendUnresolvedInboundAlertEmail(ctx, p.To, *p.InboundAlert)
		}
		return fmt.Errorf("email payload has no content: %s", rec.Template)
	}
	return fmt.Errorf("unknown outbox kind %q", rec.Kind)
}

// degrade records a notification failure without propagating it: the offer
// workflow already committed and must not be affected.
func (m *Module) degrade(channel, op string, err error) {
	metrics.NotificationFailures.WithLabelValues(channel).Inc()
	m.log.Warn("notification degraded", "op", op, "error", err.Error())
}

// Compile-time check that Module implements events.Handler
var _ events.Handler = (*Module)(nil)
