// Package service provides driver business logic, including the dispatch-side
// eligibility gate.
package service

import (
	"context"
	"strings"
	"time"

	"freight_broker_backend/internal/drivers/repository"
	"freight_broker_backend/platform/apperr"
	"freight_broker_backend/platform/phone"

	"github.com/google/uuid"
)

// Service handles driver operations.
type Service struct {
	repo *repository.Repository
	now  func() time.Time
}

// New creates a new drivers service.
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create registers a new driver. The phone number is normalized to E.164 so
// inbound webhook correlation can match it exactly.
func (s *Service) Create(ctx context.Context, d repository.Driver) (repository.Driver, error) {
	if strings.TrimSpace(d.Name) == "" {
		return repository.Driver{}, apperr.Validation("driver name is required")
	}
	if strings.TrimSpace(d.Phone) == "" {
		return repository.Driver{}, apperr.Validation("driver phone is required")
	}
	if d.LicenseExpiresAt.IsZero() {
		return repository.Driver{}, apperr.Validation("license expiration date is required")
	}
	if d.Status == "" {
		d.Status = repository.StatusOffDuty
	}
	d.Phone = phone.NormalizeE164(d.Phone)

	return s.repo.Create(ctx, d)
}

// Get retrieves a driver by id.
func (s *Service) Get(ctx context.Context, id, tenantID uuid.UUID) (repository.Driver, error) {
	return s.repo.GetByID(ctx, id, tenantID)
}

// List returns all drivers for a tenant.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]repository.Driver, error) {
	return s.repo.List(ctx, tenantID)
}

// UpdateStatus changes a driver's duty status and active flag.
func (s *Service) UpdateStatus(ctx context.Context, id, tenantID uuid.UUID, status string, active bool) error {
	switch status {
	case repository.StatusActive, repository.StatusOffDuty, repository.StatusDriving, repository.StatusInactive:
	default:
		return apperr.Validation("invalid driver status")
	}
	return s.repo.UpdateStatus(ctx, id, tenantID, status, active)
}

// CheckDispatchEligibility reports whether the driver may receive a dispatch
// offer right now. Evaluated at offer-creation time only and never cached;
// an already-extended offer is not invalidated by later ineligibility.
func (s *Service) CheckDispatchEligibility(ctx context.Context, tenantID, driverID uuid.UUID) (bool, string, error) {
	driver, err := s.repo.GetByID(ctx, driverID, tenantID)
	if err != nil {
		return false, "", err
	}

	ok, reason := dispatchEligibility(driver, s.now())
	return ok, reason, nil
}

// dispatchEligibility is the pure eligibility rule set for drivers.
func dispatchEligibility(d repository.Driver, now time.Time) (bool, string) {
	if !d.Active {
		return false, "driver is inactive"
	}
	if d.Status != repository.StatusActive && d.Status != repository.StatusOffDuty {
		return false, "driver is not available for dispatch"
	}
	if d.LicenseExpiresAt.Before(now) {
		return false, "driver license is expired"
	}
	if d.MedicalCertExpiresAt != nil && d.MedicalCertExpiresAt.Before(now) {
		return false, "driver medical certificate is expired"
	}
	return true, ""
}
