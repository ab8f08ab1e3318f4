// Package repository provides persistence for the carriers module.
package repository

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

const carrierNotFoundMsg = "carrier not found"

// Carrier statuses. Only active carriers may receive tenders.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// Carrier represents a motor carrier that can receive load tenders.
type Carrier struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Name         string
	MCNumber     string
	Status       string
	ContactEmail string
	ContactPhone string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository provides access to carrier records.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new carriers repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new carrier.
func (r *Repository) Create(ctx context.Context, c Carrier) (Carrier, error) {
	query := `
		INSERT INTO carriers (tenant_id, name, mc_number, status, contact_email, contact_phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		c.TenantID, c.Name, c.MCNumber, c.Status, c.ContactEmail, c.ContactPhone,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Carrier{}, fmt.Errorf("create carrier: %w", err)
	}

	return c, nil
}

// GetByID retrieves a carrier by id within a tenant.
func (r *Repository) GetByID(ctx context.Context, id, tenantID uuid.UUID) (Carrier, error) {
	query := `
		SELECT id, tenant_id, name, mc_number, status, contact_email, contact_phone, created_at, updated_at
		FROM carriers
		WHERE id = $1 AND tenant_id = $2`

	var c Carrier
	err := r.pool.QueryRow(ctx, query, id, tenantID).Scan(
		&c.ID, &c.TenantID, &c.Name, &c.MCNumber, &c.Status,
		&c.ContactEmail, &c.ContactPhone, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Carrier{}, apperr.NotFound(carrierNotFoundMsg)
	}
	if err != nil {
		return Carrier{}, fmt.Errorf("get carrier by id: %w", err)
	}

	return c, nil
}

// List returns all carriers for a tenant, newest first.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID) ([]Carrier, error) {
	query := `
		SELECT id, tenant_id, name, mc_number, status, contact_email, contact_phone, created_at, updated_at
		FROM carriers
		WHERE tenant_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list carriers: %w", err)
	}
	defer rows.Close()

	var carriers []Carrier
	for rows.Next() {
		var c Carrier
		if err := rows.Scan(
			&c.ID, &c.TenantID, &c.Name, &c.MCNumber, &c.Status,
			&c.ContactEmail, &c.ContactPhone, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan carrier: %w", err)
		}
		carriers = append(carriers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate carriers: %w", err)
	}

	return carriers, nil
}

// UpdateStatus changes a carrier's status.
func (r *Repository) UpdateStatus(ctx context.Context, id, tenantID uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE carriers SET status = $3, updated_at = now() WHERE id = $1 AND tenant_id = $2`,
		id, tenantID, status,
	)
	if err != nil {
		return fmt.Errorf("update carrier status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(carrierNotFoundMsg)
	}
	return nil
}
