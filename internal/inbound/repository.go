package inbound

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freight_broker_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Resolution statuses persisted with every inbound message. APPLIED,
// DUPLICATE and EXPIRED are final; the rest land in the review queue.
const (
	StatusApplied      = "APPLIED"
	StatusDuplicate    = "DUPLICATE"
	StatusExpired      = "EXPIRED"
	StatusUnmatched    = "UNMATCHED"
	StatusAmbiguous    = "AMBIGUOUS"
	StatusUnrecognized = "UNRECOGNIZED"
)

// Message is a persisted inbound SMS with its resolution outcome. TenantID is
// nil when the sender could not be correlated to any tenant's driver.
type Message struct {
	ID             uuid.UUID
	TenantID       *uuid.UUID
	FromPhone      string
	Body           string
	Intent         string
	Status         string
	Reason         string
	MatchedOfferID *uuid.UUID
	ReviewedAt     *time.Time
	CreatedAt      time.Time
}

// NeedsReview reports whether the message belongs in the operator review queue.
func (m Message) NeedsReview() bool {
	switch m.Status {
	case StatusUnmatched, StatusAmbiguous, StatusUnrecognized:
		return m.ReviewedAt == nil
	}
	return false
}

// Repository persists inbound messages.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new inbound message repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert records an inbound message with its resolution outcome.
func (r *Repository) Insert(ctx context.Context, m Message) (Message, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO inbound_messages (tenant_id, from_phone, body, intent, status, reason, matched_offer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		m.TenantID, m.FromPhone, m.Body, m.Intent, m.Status, m.Reason, m.MatchedOfferID,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return Message{}, fmt.Errorf("insert inbound message: %w", err)
	}
	return m, nil
}

// ListReviewQueue returns a tenant's unresolved inbound messages, oldest
// first so operators work through them in arrival order.
func (r *Repository) ListReviewQueue(ctx context.Context, tenantID uuid.UUID) ([]Message, error) {
	rows, err := r.pool.Query(ctx, messageSelect+`
		WHERE tenant_id = $1
		  AND status IN ($2, $3, $4)
		  AND reviewed_at IS NULL
		ORDER BY created_at`,
		tenantID, StatusUnmatched, StatusAmbiguous, StatusUnrecognized,
	)
	if err != nil {
		return nil, fmt.Errorf("list review queue: %w", err)
	}
	return collectMessages(rows)
}

// MarkReviewed closes a review-queue entry.
func (r *Repository) MarkReviewed(ctx context.Context, id, tenantID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE inbound_messages SET reviewed_at = now()
		WHERE id = $1 AND tenant_id = $2 AND reviewed_at IS NULL`,
		id, tenantID,
	)
	if err != nil {
		return fmt.Errorf("mark inbound message reviewed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("inbound message not found or already reviewed")
	}
	return nil
}

// GetByID retrieves a single inbound message within a tenant.
func (r *Repository) GetByID(ctx context.Context, id, tenantID uuid.UUID) (Message, error) {
	row := r.pool.QueryRow(ctx, messageSelect+` WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	m, err := scanMessage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Message{}, apperr.NotFound("inbound message not found")
	}
	if err != nil {
		return Message{}, fmt.Errorf("get inbound message: %w", err)
	}
	return m, nil
}

const messageSelect = `
	SELECT id, tenant_id, from_phone, body, intent, status, reason,
	       matched_offer_id, reviewed_at, created_at
	FROM inbound_messages`

func scanMessage(row pgx.Row) (Message, error) {
	var m Message
	err := row.Scan(
		&m.ID, &m.TenantID, &m.FromPhone, &m.Body, &m.Intent, &m.Status, &m.Reason,
		&m.MatchedOfferID, &m.ReviewedAt, &m.CreatedAt,
	)
	return m, err
}

func collectMessages(rows pgx.Rows) ([]Message, error) {
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inbound message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inbound messages: %w", err)
	}
	return messages, nil
}
