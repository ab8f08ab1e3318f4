// Package service provides carrier business logic, including the tender-side
// eligibility gate.
package service

import (
	"context"
	"strings"

	"freight_broker_backend/internal/carriers/repository"
	"freight_broker_backend/platform/apperr"
	"freight_broker_backend/platform/phone"

	"github.com/google/uuid"
)

// Service handles carrier operations.
type Service struct {
	repo *repository.Repository
}

// New creates a new carriers service.
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new carrier. Status defaults to pending until approved.
func (s *Service) Create(ctx context.Context, c repository.Carrier) (repository.Carrier, error) {
	if strings.TrimSpace(c.Name) == "" {
		return repository.Carrier{}, apperr.Validation("carrier name is required")
	}
	if c.Status == "" {
		c.Status = repository.StatusPending
	}
	c.ContactPhone = phone.NormalizeE164(c.ContactPhone)

	return s.repo.Create(ctx, c)
}

// Get retrieves a carrier by id.
func (s *Service) Get(ctx context.Context, id, tenantID uuid.UUID) (repository.Carrier, error) {
	return s.repo.GetByID(ctx, id, tenantID)
}

// List returns all carriers for a tenant.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]repository.Carrier, error) {
	return s.repo.List(ctx, tenantID)
}

// UpdateStatus changes a carrier's status.
func (s *Service) UpdateStatus(ctx context.Context, id, tenantID uuid.UUID, status string) error {
	switch status {
	case repository.StatusPending, repository.StatusActive, repository.StatusSuspended:
	default:
		return apperr.Validation("invalid carrier status")
	}
	return s.repo.UpdateStatus(ctx, id, tenantID, status)
}

// CheckTenderEligibility reports whether the carrier may receive a tender.
// Evaluated at offer-creation time only; an offer already extended to a
// carrier stays valid if the carrier is suspended afterwards.
func (s *Service) CheckTenderEligibility(ctx context.Context, tenantID, carrierID uuid.UUID) (bool, string, error) {
	carrier, err := s.repo.GetByID(ctx, carrierID, tenantID)
	if err != nil {
		return false, "", err
	}

	if carrier.Status != repository.StatusActive {
		return false, "carrier is not active", nil
	}

	return true, "", nil
}
