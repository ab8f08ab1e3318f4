// Package repository provides persistence for the drivers module.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"freight_broker_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const driverNotFoundMsg = "driver not found"

// Driver duty statuses. Dispatch offers may only be extended to drivers who
// are ACTIVE or OFF_DUTY.
const (
	StatusActive   = "ACTIVE"
	StatusOffDuty  = "OFF_DUTY"
	StatusDriving  = "DRIVING"
	StatusInactive = "INACTIVE"
)

// Driver represents a driver that can receive dispatch offers. Phone is the
// registered contact channel used for inbound SMS correlation and is stored
// in E.164 form, unique per tenant.
type Driver struct {
	ID                   uuid.UUID
	TenantID             uuid.UUID
	CarrierID            *uuid.UUID
	Name                 string
	Phone                string
	Status               string
	Active               bool
	LicenseNumber        string
	LicenseExpiresAt     time.Time
	MedicalCertExpiresAt *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Repository provides access to driver records.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new drivers repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new driver.
func (r *Repository) Create(ctx context.Context, d Driver) (Driver, error) {
	query := `
		INSERT INTO drivers (tenant_id, carrier_id, name, phone, status, active,
		                     license_number, license_expires_at, medical_cert_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		d.TenantID, d.CarrierID, d.Name, d.Phone, d.Status, d.Active,
		d.LicenseNumber, d.LicenseExpiresAt, d.MedicalCertExpiresAt,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "drivers_tenant_phone_key") {
			return Driver{}, apperr.Conflict("a driver with this phone number already exists")
		}
		return Driver{}, fmt.Errorf("create driver: %w", err)
	}

	return d, nil
}

// GetByID retrieves a driver by id within a tenant.
func (r *Repository) GetByID(ctx context.Context, id, tenantID uuid.UUID) (Driver, error) {
	query := driverSelect + ` WHERE id = $1 AND tenant_id = $2`

	row := r.pool.QueryRow(ctx, query, id, tenantID)
	d, err := scanDriver(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Driver{}, apperr.NotFound(driverNotFoundMsg)
	}
	if err != nil {
		return Driver{}, fmt.Errorf("get driver by id: %w", err)
	}

	return d, nil
}

// GetByPhone retrieves a driver by registered phone number. Used by inbound
// SMS correlation, which has no tenant context of its own; the phone column
// is unique per tenant, so multiple tenants can match. All matches are
// returned and the resolver disambiguates via outstanding offers.
func (r *Repository) GetByPhone(ctx context.Context, phone string) ([]Driver, error) {
	query := driverSelect + ` WHERE phone = $1`

	rows, err := r.pool.Query(ctx, query, phone)
	if err != nil {
		return nil, fmt.Errorf("get drivers by phone: %w", err)
	}
	defer rows.Close()

	var drivers []Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drivers: %w", err)
	}

	return drivers, nil
}

// List returns all drivers for a tenant, newest first.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID) ([]Driver, error) {
	query := driverSelect + ` WHERE tenant_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	defer rows.Close()

	var drivers []Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drivers: %w", err)
	}

	return drivers, nil
}

// UpdateStatus changes a driver's duty status and active flag.
func (r *Repository) UpdateStatus(ctx context.Context, id, tenantID uuid.UUID, status string, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE drivers SET status = $3, active = $4, updated_at = now() WHERE id = $1 AND tenant_id = $2`,
		id, tenantID, status, active,
	)
	if err != nil {
		return fmt.Errorf("update driver status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(driverNotFoundMsg)
	}
	return nil
}

const driverSelect = `
	SELECT id, tenant_id, carrier_id, name, phone, status, active,
	       license_number, license_expires_at, medical_cert_expires_at,
	       created_at, updated_at
	FROM drivers`

func scanDriver(row pgx.Row) (Driver, error) {
	var d Driver
	err := row.Scan(
		&d.ID, &d.TenantID, &d.CarrierID, &d.Name, &d.Phone, &d.Status, &d.Active,
		&d.LicenseNumber, &d.LicenseExpiresAt, &d.MedicalCertExpiresAt,
		&d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}
