package exports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRow is one offer audit entry joined with its offer and shipment, the
// unit of the compliance export.
type AuditRow struct {
	EntryID     uuid.UUID
	OfferID     uuid.UUID
	ShipmentID  uuid.UUID
	ShipmentRef string
	Kind        string
	ActorID     uuid.UUID
	Action      string
	FromState   *string
	ToState     string
	Source      string
	Note        string
	CreatedAt   time.Time
}

// InboundRow is one inbound message as it appears in the export.
type InboundRow struct {
	MessageID      uuid.UUID
	FromPhone      string
	Intent         string
	Status         string
	Reason         string
	MatchedOfferID *uuid.UUID
	ReviewedAt     *time.Time
	CreatedAt      time.Time
}

// Repository reads export data. Queries are bounded by tenant and time range;
// callers page with the limit if a range turns out to be very large.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListAuditRows(ctx context.Context, tenantID uuid.UUID, from, to time.Time, limit int) ([]AuditRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.offer_id, o.shipment_id, s.reference, o.kind, o.actor_id,
			a.action, a.from_state, a.to_state, a.source, a.note, a.created_at
		FROM offer_audit a
		JOIN offers o ON o.id = a.offer_id AND o.tenant_id = a.tenant_id
		JOIN shipments s ON s.id = o.shipment_id AND s.tenant_id = o.tenant_id
		WHERE a.tenant_id = $1
			AND a.created_at >= $2 AND a.created_at < $3
		ORDER BY a.created_at ASC
		LIMIT $4
	`, tenantID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]AuditRow, 0)
	for rows.Next() {
		var item AuditRow
		if err := rows.Scan(
			&item.EntryID,
			&item.OfferID,
			&item.ShipmentID,
			&item.ShipmentRef,
			&item.Kind,
			&item.ActorID,
			&item.Action,
			&item.FromState,
			&item.ToState,
			&item.Source,
			&item.Note,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repository) ListInboundRows(ctx context.Context, tenantID uuid.UUID, from, to time.Time, limit int) ([]InboundRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, from_phone, intent, status, reason, matched_offer_id, reviewed_at, created_at
		FROM inbound_messages
		WHERE tenant_id = $1
			AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC
		LIMIT $4
	`, tenantID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]InboundRow, 0)
	for rows.Next() {
		var item InboundRow
		if err := rows.Scan(
			&item.MessageID,
			&item.FromPhone,
			&item.Intent,
			&item.Status,
			&item.Reason,
			&item.MatchedOfferID,
			&item.ReviewedAt,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
