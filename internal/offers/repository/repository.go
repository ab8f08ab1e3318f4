// Package repository provides persistence for offers and their audit trail.
// All state changes happen inside a single database transaction with the
// offer and shipment rows locked, so the state machine, the cascade, the
// shipment side effect, and the audit entries commit or roll back together.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"freight_broker_backend/internal/offers/domain"
	shipdomain "freight_broker_backend/internal/shipments/domain"
	"freight_broker_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const offerNotFoundMsg = "offer not found"

// Offer is a persisted offer row.
type Offer struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	ShipmentID  uuid.UUID
	Kind        domain.Kind
	ActorID     uuid.UUID
	State       domain.State
	AmountCents *int64
	Message     string
	Note        string
	ExpiresAt   *time.Time
	RespondedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AuditEntry is one immutable line of an offer's audit trail.
type AuditEntry struct {
	ID        uuid.UUID
	OfferID   uuid.UUID
	TenantID  uuid.UUID
	Action    string
	FromState *string
	ToState   string
	Source    string
	Note      string
	CreatedAt time.Time
}

// TransitionParams describes a requested response to an open offer.
type TransitionParams struct {
	OfferID  uuid.UUID
	TenantID uuid.UUID
	Decision domain.Decision
	Source   string
	Note     string
	// ActorID, when set, must match the offer's recipient. Inbound
	// correlation already resolved the actor, so it passes uuid.Nil.
	ActorID uuid.UUID
	// AllowDuplicate makes a redelivery of the decision that already
	// resolved the offer a no-op success instead of a conflict. Set by the
	// inbound webhook path.
	AllowDuplicate bool
}

// TransitionResult reports what a committed transition did.
type TransitionResult struct {
	Offer               Offer
	ShipmentStatus      shipdomain.Status
	CancelledSiblingIDs []uuid.UUID
	Duplicate           bool
}

// Repository provides access to offer records.
type Repository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// New creates a new offers repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, now: time.Now}
}

// CreateTender inserts a tender offer for a quoted shipment. The shipment row
// is locked for the duration of the transaction; its status is not changed,
// so competing tenders to several carriers can coexist.
func (r *Repository) CreateTender(ctx context.Context, o Offer) (Offer, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Offer{}, fmt.Errorf("begin create tender: %w", err)
	}
	defer tx.Rollback(ctx)

	status, err := lockShipment(ctx, tx, o.ShipmentID, o.TenantID)
	if err != nil {
		return Offer{}, err
	}
	if err := tenderGate(status); err != nil {
		return Offer{}, err
	}

	o.State = domain.StateOffered
	if err := insertOffer(ctx, tx, &o); err != nil {
		return Offer{}, err
	}
	if err := insertAudit(ctx, tx, auditRow{
		offerID:  o.ID,
		tenantID: o.TenantID,
		action:   domain.AuditActionCreated,
		toState:  domain.StateOffered,
		source:   domain.SourceAPI,
	}); err != nil {
		return Offer{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Offer{}, fmt.Errorf("commit create tender: %w", err)
	}
	return o, nil
}

// CreateDispatch inserts a dispatch offer and moves the shipment to
// "dispatched". The shipment must already have an accepted tender and be in a
// status that allows dispatching. Several drivers may hold open dispatch
// offers for the same move at once (primary plus backups); each driver gets
// at most one active dispatch per shipment.
func (r *Repository) CreateDispatch(ctx context.Context, o Offer) (Offer, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Offer{}, fmt.Errorf("begin create dispatch: %w", err)
	}
	defer tx.Rollback(ctx)

	status, err := lockShipment(ctx, tx, o.ShipmentID, o.TenantID)
	if err != nil {
		return Offer{}, err
	}
	if err := dispatchGate(status); err != nil {
		return Offer{}, err
	}

	var accepted bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM offers
			WHERE shipment_id = $1 AND tenant_id = $2 AND kind = $3 AND state = $4
		)`,
		o.ShipmentID, o.TenantID, string(domain.KindTender), string(domain.StateAccepted),
	).Scan(&accepted)
	if err != nil {
		return Offer{}, fmt.Errorf("check accepted tender: %w", err)
	}
	if !accepted {
		return Offer{}, apperr.Unprocessable("shipment has no accepted tender to dispatch against")
	}

	var duplicate bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM offers
			WHERE shipment_id = $1 AND tenant_id = $2 AND actor_id = $3 AND kind = $4 AND state = ANY($5)
		)`,
		o.ShipmentID, o.TenantID, o.ActorID, string(domain.KindDispatch),
		activeStateStrings(domain.KindDispatch),
	).Scan(&duplicate)
	if err != nil {
		return Offer{}, fmt.Errorf("check active dispatch: %w", err)
	}
	if duplicate {
		return Offer{}, apperr.Conflict(dispatchConflictMsg)
	}

	o.State = domain.StateOffered
	o.ExpiresAt = nil
	if err := insertOffer(ctx, tx, &o); err != nil {
		return Offer{}, err
	}
	if err := insertAudit(ctx, tx, auditRow{
		offerID:  o.ID,
		tenantID: o.TenantID,
		action:   domain.AuditActionCreated,
		toState:  domain.StateOffered,
		source:   domain.SourceAPI,
	}); err != nil {
		return Offer{}, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE shipments SET status = $3, updated_at = now() WHERE id = $1 AND tenant_id = $2`,
		o.ShipmentID, o.TenantID, string(shipdomain.StatusDispatched),
	); err != nil {
		return Offer{}, fmt.Errorf("mark shipment dispatched: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Offer{}, fmt.Errorf("commit create dispatch: %w", err)
	}
	return o, nil
}

// Transition applies an accept or reject decision to an open offer. The offer
// row is locked first; an acceptance past the offer's expiry moves it to
// EXPIRED instead and the caller receives a Gone error together with the
// expired offer in the result, while a late rejection is still recorded.
// Responses to already-terminal offers are a conflict, or a no-op duplicate
// when the params allow it.
func (r *Repository) Transition(ctx context.Context, p TransitionParams) (TransitionResult, error) {
	target, err := p.Decision.State()
	if err != nil {
		return TransitionResult{}, apperr.Validation(err.Error())
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return TransitionResult{}, fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback(ctx)

	o, err := lockOffer(ctx, tx, p.OfferID, p.TenantID)
	if err != nil {
		return TransitionResult{}, err
	}
	if p.ActorID != uuid.Nil && p.ActorID != o.ActorID {
		return TransitionResult{}, apperr.Forbidden("offer belongs to a different recipient")
	}

	if o.State.Terminal() {
		if p.AllowDuplicate && o.State == target {
			return TransitionResult{Offer: o, Duplicate: true}, nil
		}
		return TransitionResult{}, apperr.Conflict(fmt.Sprintf("offer is already %s", o.State))
	}

	now := r.now()
	if domain.ExpiresOnResponse(target, o.ExpiresAt, now) {
		expired, err := r.expireLocked(ctx, tx, o, now)
		if err != nil {
			return TransitionResult{}, err
		}
		if err := tx.Commit(ctx); err != nil {
			return TransitionResult{}, fmt.Errorf("commit lazy expiry: %w", err)
		}
		return TransitionResult{Offer: expired}, apperr.Gone("offer has expired")
	}

	if err := updateOfferState(ctx, tx, &o, target, p.Note, now); err != nil {
		return TransitionResult{}, err
	}
	from := string(domain.StateOffered)
	if err := insertAudit(ctx, tx, auditRow{
		offerID:   o.ID,
		tenantID:  o.TenantID,
		action:    domain.AuditActionFor(target),
		fromState: &from,
		toState:   target,
		source:    p.Source,
		note:      p.Note,
	}); err != nil {
		return TransitionResult{}, err
	}

	result := TransitionResult{Offer: o}

	if target == domain.StateAccepted && o.Kind.CascadeOnAccept() {
		cancelled, err := cancelSiblings(ctx, tx, o, now)
		if err != nil {
			return TransitionResult{}, err
		}
		result.CancelledSiblingIDs = cancelled
	}

	status, err := applyShipmentEffect(ctx, tx, o, target)
	if err != nil {
		return TransitionResult{}, err
	}
	result.ShipmentStatus = status

	if err := tx.Commit(ctx); err != nil {
		return TransitionResult{}, fmt.Errorf("commit transition: %w", err)
	}
	return result, nil
}

// ExpireDue moves tender offers past their deadline to EXPIRED, up to limit
// rows per call. Rows locked by a concurrent response are skipped; lazy
// expiry covers them. Returns the expired offers so events can be published.
func (r *Repository) ExpireDue(ctx context.Context, limit int) ([]Offer, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin expire due: %w", err)
	}
	defer tx.Rollback(ctx)

	now := r.now()
	rows, err := tx.Query(ctx, offerSelect+`
		WHERE state = $1 AND expires_at IS NOT NULL AND expires_at <= $2
		ORDER BY expires_at
		LIMIT $3
		FOR UPDATE SKIP LOCKED`,
		string(domain.StateOffered), now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select due offers: %w", err)
	}
	due, err := collectOffers(rows)
	if err != nil {
		return nil, err
	}

	expired := make([]Offer, 0, len(due))
	for _, o := range due {
		e, err := r.expireLocked(ctx, tx, o, now)
		if err != nil {
			return nil, err
		}
		expired = append(expired, e)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit expire due: %w", err)
	}
	return expired, nil
}

// GetByID retrieves an offer with its full audit trail.
func (r *Repository) GetByID(ctx context.Context, id, tenantID uuid.UUID) (Offer, []AuditEntry, error) {
	row := r.pool.QueryRow(ctx, offerSelect+` WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	o, err := scanOffer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Offer{}, nil, apperr.NotFound(offerNotFoundMsg)
	}
	if err != nil {
		return Offer{}, nil, fmt.Errorf("get offer by id: %w", err)
	}

	trail, err := r.auditTrail(ctx, id, tenantID)
	if err != nil {
		return Offer{}, nil, err
	}
	return o, trail, nil
}

// ListByShipment returns a shipment's offers, newest first.
func (r *Repository) ListByShipment(ctx context.Context, shipmentID, tenantID uuid.UUID) ([]Offer, error) {
	rows, err := r.pool.Query(ctx,
		offerSelect+` WHERE shipment_id = $1 AND tenant_id = $2 ORDER BY created_at DESC`,
		shipmentID, tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list offers by shipment: %w", err)
	}
	return collectOffers(rows)
}

// ListByActor returns the offers extended to a carrier or driver, newest first.
func (r *Repository) ListByActor(ctx context.Context, actorID, tenantID uuid.UUID) ([]Offer, error) {
	rows, err := r.pool.Query(ctx,
		offerSelect+` WHERE actor_id = $1 AND tenant_id = $2 ORDER BY created_at DESC`,
		actorID, tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list offers by actor: %w", err)
	}
	return collectOffers(rows)
}

// FindOpenDispatchByPhone returns the OFFERED dispatch offers whose recipient
// driver is registered under the given E.164 phone number, across tenants.
// Inbound correlation requires exactly one result to act.
func (r *Repository) FindOpenDispatchByPhone(ctx context.Context, phone string) ([]Offer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT o.id, o.tenant_id, o.shipment_id, o.kind, o.actor_id, o.state,
		       o.amount_cents, o.message, o.note, o.expires_at, o.responded_at,
		       o.created_at, o.updated_at
		FROM offers o
		JOIN drivers d ON d.id = o.actor_id AND d.tenant_id = o.tenant_id
		WHERE d.phone = $1 AND o.kind = $2 AND o.state = $3
		ORDER BY o.created_at DESC`,
		phone, string(domain.KindDispatch), string(domain.StateOffered),
	)
	if err != nil {
		return nil, fmt.Errorf("find open dispatch offers by phone: %w", err)
	}
	return collectOffers(rows)
}

// FindLatestTerminalDispatchByPhone returns the most recently resolved
// dispatch offer for the phone's driver, if any. Used to treat webhook
// redeliveries of an already-applied decision as duplicates.
func (r *Repository) FindLatestTerminalDispatchByPhone(ctx context.Context, phone string) (Offer, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT o.id, o.tenant_id, o.shipment_id, o.kind, o.actor_id, o.state,
		       o.amount_cents, o.message, o.note, o.expires_at, o.responded_at,
		       o.created_at, o.updated_at
		FROM offers o
		JOIN drivers d ON d.id = o.actor_id AND d.tenant_id = o.tenant_id
		WHERE d.phone = $1 AND o.kind = $2 AND o.state <> $3
		ORDER BY o.responded_at DESC NULLS LAST, o.updated_at DESC
		LIMIT 1`,
		phone, string(domain.KindDispatch), string(domain.StateOffered),
	)
	o, err := scanOffer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Offer{}, false, nil
	}
	if err != nil {
		return Offer{}, false, fmt.Errorf("find latest terminal dispatch by phone: %w", err)
	}
	return o, true, nil
}

// expireLocked moves an already-locked OFFERED offer to EXPIRED and appends
// the audit entry. The shipment is untouched: tender expiry leaves it open
// for the remaining tenders.
func (r *Repository) expireLocked(ctx context.Context, tx pgx.Tx, o Offer, now time.Time) (Offer, error) {
	if err := updateOfferState(ctx, tx, &o, domain.StateExpired, "", now); err != nil {
		return Offer{}, err
	}
	from := string(domain.StateOffered)
	if err := insertAudit(ctx, tx, auditRow{
		offerID:   o.ID,
		tenantID:  o.TenantID,
		action:    domain.AuditActionExpired,
		fromState: &from,
		toState:   domain.StateExpired,
		source:    domain.SourceSystem,
	}); err != nil {
		return Offer{}, err
	}
	return o, nil
}

func lockShipment(ctx context.Context, tx pgx.Tx, shipmentID, tenantID uuid.UUID) (shipdomain.Status, error) {
	var status shipdomain.Status
	err := tx.QueryRow(ctx,
		`SELECT status FROM shipments WHERE id = $1 AND tenant_id = $2 FOR UPDATE`,
		shipmentID, tenantID,
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.NotFound("shipment not found")
	}
	if err != nil {
		return "", fmt.Errorf("lock shipment: %w", err)
	}
	return status, nil
}

func lockOffer(ctx context.Context, tx pgx.Tx, id, tenantID uuid.UUID) (Offer, error) {
	row := tx.QueryRow(ctx, offerSelect+` WHERE id = $1 AND tenant_id = $2 FOR UPDATE`, id, tenantID)
	o, err := scanOffer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Offer{}, apperr.NotFound(offerNotFoundMsg)
	}
	if err != nil {
		return Offer{}, fmt.Errorf("lock offer: %w", err)
	}
	return o, nil
}

const (
	tenderConflictMsg   = "carrier already has an open tender for this shipment"
	dispatchConflictMsg = "driver already has an active dispatch offer for this shipment"
)

// tenderGate and dispatchGate reject offer creation against a shipment whose
// status does not permit the offer kind. A wrong-state shipment is not a
// duplicate, so these map to Unprocessable rather than Conflict.
func tenderGate(status shipdomain.Status) error {
	if status.AllowsTender() {
		return nil
	}
	return apperr.Unprocessable(fmt.Sprintf("shipment in status %q cannot be tendered", status))
}

func dispatchGate(status shipdomain.Status) error {
	if status.AllowsDispatch() {
		return nil
	}
	return apperr.Unprocessable(fmt.Sprintf("shipment in status %q cannot be dispatched", status))
}

func activeStateStrings(k domain.Kind) []string {
	states := k.ActiveStates()
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}

// insertConflict maps a unique-index violation from the partial indexes that
// back duplicate suppression to the matching conflict. The indexes are the
// backstop for races the in-transaction checks cannot see.
func insertConflict(err error) error {
	switch {
	case strings.Contains(err.Error(), "offers_open_tender_key"):
		return apperr.Conflict(tenderConflictMsg)
	case strings.Contains(err.Error(), "offers_open_dispatch_key"):
		return apperr.Conflict(dispatchConflictMsg)
	}
	return nil
}

func insertOffer(ctx context.Context, tx pgx.Tx, o *Offer) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO offers (tenant_id, shipment_id, kind, actor_id, state,
		                    amount_cents, message, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		o.TenantID, o.ShipmentID, string(o.Kind), o.ActorID, string(o.State),
		o.AmountCents, o.Message, o.ExpiresAt,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if conflict := insertConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

func updateOfferState(ctx context.Context, tx pgx.Tx, o *Offer, to domain.State, note string, now time.Time) error {
	if !domain.CanTransition(o.State, to) {
		return apperr.Conflict(fmt.Sprintf("cannot move offer from %s to %s", o.State, to))
	}
	if _, err := tx.Exec(ctx, `
		UPDATE offers SET state = $3, note = $4, responded_at = $5, updated_at = $5
		WHERE id = $1 AND tenant_id = $2`,
		o.ID, o.TenantID, string(to), note, now,
	); err != nil {
		return fmt.Errorf("update offer state: %w", err)
	}
	o.State = to
	o.Note = note
	o.RespondedAt = &now
	o.UpdatedAt = now
	return nil
}

// cancelSiblings cancels the shipment's other open tenders after one was
// accepted and appends a cascade audit entry for each.
func cancelSiblings(ctx context.Context, tx pgx.Tx, accepted Offer, now time.Time) ([]uuid.UUID, error) {
	rows, err := tx.Query(ctx, `
		UPDATE offers SET state = $5, responded_at = $6, updated_at = $6
		WHERE shipment_id = $1 AND tenant_id = $2 AND kind = $3 AND state = $4 AND id <> $7
		RETURNING id`,
		accepted.ShipmentID, accepted.TenantID, string(accepted.Kind),
		string(domain.StateOffered), string(domain.StateCancelled), now, accepted.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("cancel sibling offers: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("collect cancelled siblings: %w", err)
	}

	from := string(domain.StateOffered)
	for _, id := range ids {
		if err := insertAudit(ctx, tx, auditRow{
			offerID:   id,
			tenantID:  accepted.TenantID,
			action:    domain.AuditActionCancelledCascade,
			fromState: &from,
			toState:   domain.StateCancelled,
			source:    domain.SourceSystem,
			note:      fmt.Sprintf("competing tender %s accepted", accepted.ID),
		}); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// applyShipmentEffect writes the shipment-side consequence of a resolved
// offer, as decided by domain.EffectFor, and returns the shipment's resulting
// status.
func applyShipmentEffect(ctx context.Context, tx pgx.Tx, o Offer, to domain.State) (shipdomain.Status, error) {
	effect, changed := domain.EffectFor(o.Kind, to)
	if !changed {
		var status shipdomain.Status
		err := tx.QueryRow(ctx,
			`SELECT status FROM shipments WHERE id = $1 AND tenant_id = $2`,
			o.ShipmentID, o.TenantID,
		).Scan(&status)
		if err != nil {
			return "", fmt.Errorf("read shipment status: %w", err)
		}
		return status, nil
	}

	var query string
	args := []any{o.ShipmentID, o.TenantID, string(effect.Status)}
	switch {
	case effect.AssignCarrier:
		query = `UPDATE shipments SET status = $3, carrier_id = $4, updated_at = now()
		         WHERE id = $1 AND tenant_id = $2`
		args = append(args, o.ActorID)
	case effect.AssignDriver:
		query = `UPDATE shipments SET status = $3, driver_id = $4, updated_at = now()
		         WHERE id = $1 AND tenant_id = $2`
		args = append(args, o.ActorID)
	case effect.ClearDriver:
		query = `UPDATE shipments SET status = $3, driver_id = NULL, updated_at = now()
		         WHERE id = $1 AND tenant_id = $2`
	default:
		query = `UPDATE shipments SET status = $3, updated_at = now()
		         WHERE id = $1 AND tenant_id = $2`
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return "", fmt.Errorf("apply shipment effect: %w", err)
	}
	return effect.Status, nil
}

type auditRow struct {
	offerID   uuid.UUID
	tenantID  uuid.UUID
	action    string
	fromState *string
	toState   domain.State
	source    string
	note      string
}

func insertAudit(ctx context.Context, tx pgx.Tx, a auditRow) error {
	if _, err := tx.Exec(ctx, `
		INSERT INTO offer_audit (offer_id, tenant_id, action, from_state, to_state, source, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.offerID, a.tenantID, a.action, a.fromState, string(a.toState), a.source, a.note,
	); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *Repository) auditTrail(ctx context.Context, offerID, tenantID uuid.UUID) ([]AuditEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, offer_id, tenant_id, action, from_state, to_state, source, note, created_at
		FROM offer_audit
		WHERE offer_id = $1 AND tenant_id = $2
		ORDER BY created_at`,
		offerID, tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("load audit trail: %w", err)
	}
	defer rows.Close()

	var trail []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(
			&e.ID, &e.OfferID, &e.TenantID, &e.Action, &e.FromState, &e.ToState,
			&e.Source, &e.Note, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		trail = append(trail, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit trail: %w", err)
	}
	return trail, nil
}

const offerSelect = `
	SELECT id, tenant_id, shipment_id, kind, actor_id, state,
	       amount_cents, message, note, expires_at, responded_at,
	       created_at, updated_at
	FROM offers`

func scanOffer(row pgx.Row) (Offer, error) {
	var (
		o     Offer
		kind  string
		state string
	)
	err := row.Scan(
		&o.ID, &o.TenantID, &o.ShipmentID, &kind, &o.ActorID, &state,
		&o.AmountCents, &o.Message, &o.Note, &o.ExpiresAt, &o.RespondedAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	o.Kind = domain.Kind(kind)
	o.State = domain.State(state)
	return o, err
}

func collectOffers(rows pgx.Rows) ([]Offer, error) {
	defer rows.Close()

	var offers []Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offers: %w", err)
	}
	return offers, nil
}
