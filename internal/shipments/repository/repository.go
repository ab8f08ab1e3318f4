// Package repository provides persistence for the shipments module.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freight_broker_backend/internal/shipments/domain"
	"freight_broker_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shipmentNotFoundMsg = "shipment not found"

// Shipment is the external aggregate the offer workflow reads and
// conditionally writes. Its status is only mutated by the offer coordinator;
// this module exposes plain CRUD for everything else.
type Shipment struct {
	ID                uuid.UUID
	TenantID          uuid.UUID
	Reference         string
	Origin            string
	Destination       string
	Status            domain.Status
	CarrierID         *uuid.UUID
	DriverID          *uuid.UUID
	QuotedAmountCents int64
	PickupAt          *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Repository provides access to shipment records.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new shipments repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new shipment in "quoted" status.
func (r *Repository) Create(ctx context.Context, s Shipment) (Shipment, error) {
	query := `
		INSERT INTO shipments (tenant_id, reference, origin, destination, status, quoted_amount_cents, pickup_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		s.TenantID, s.Reference, s.Origin, s.Destination, string(domain.StatusQuoted), s.QuotedAmountCents, s.PickupAt,
	).Scan(&s.ID, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return Shipment{}, fmt.Errorf("create shipment: %w", err)
	}

	return s, nil
}

// GetByID retrieves a shipment by id within a tenant.
func (r *Repository) GetByID(ctx context.Context, id, tenantID uuid.UUID) (Shipment, error) {
	query := `
		SELECT id, tenant_id, reference, origin, destination, status,
		       carrier_id, driver_id, quoted_amount_cents, pickup_at,
		       created_at, updated_at
		FROM shipments
		WHERE id = $1 AND tenant_id = $2`

	var s Shipment
	err := r.pool.QueryRow(ctx, query, id, tenantID).Scan(
		&s.ID, &s.TenantID, &s.Reference, &s.Origin, &s.Destination, &s.Status,
		&s.CarrierID, &s.DriverID, &s.QuotedAmountCents, &s.PickupAt,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Shipment{}, apperr.NotFound(shipmentNotFoundMsg)
	}
	if err != nil {
		return Shipment{}, fmt.Errorf("get shipment by id: %w", err)
	}

	return s, nil
}

// List returns shipments for a tenant, newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID, status string) ([]Shipment, error) {
	query := `
		SELECT id, tenant_id, reference, origin, destination, status,
		       carrier_id, driver_id, quoted_amount_cents, pickup_at,
		       created_at, updated_at
		FROM shipments
		WHERE tenant_id = $1
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, tenantID, status)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()

	var shipments []Shipment
	for rows.Next() {
		var s Shipment
		if err := rows.Scan(
			&s.ID, &s.TenantID, &s.Reference, &s.Origin, &s.Destination, &s.Status,
			&s.CarrierID, &s.DriverID, &s.QuotedAmountCents, &s.PickupAt,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		shipments = append(shipments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shipments: %w", err)
	}

	return shipments, nil
}
