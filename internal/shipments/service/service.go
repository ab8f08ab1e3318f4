// Package service provides shipment business logic.
package service

import (
	"context"
	"strings"

	"freight_broker_backend/internal/shipments/domain"
	"freight_broker_backend/internal/shipments/repository"
	"freight_broker_backend/platform/apperr"

	"github.com/google/uuid"
)

// Service handles shipment operations.
type Service struct {
	repo *repository.Repository
}

// New creates a new shipments service.
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new shipment in "quoted" status.
func (s *Service) Create(ctx context.Context, shipment repository.Shipment) (repository.Shipment, error) {
	if strings.TrimSpace(shipment.Reference) == "" {
		return repository.Shipment{}, apperr.Validation("reference is required")
	}
	if shipment.QuotedAmountCents < 0 {
		return repository.Shipment{}, apperr.Validation("quoted amount cannot be negative")
	}

	return s.repo.Create(ctx, shipment)
}

// Get retrieves a shipment by id.
func (s *Service) Get(ctx context.Context, id, tenantID uuid.UUID) (repository.Shipment, error) {
	return s.repo.GetByID(ctx, id, tenantID)
}

// List returns shipments for a tenant, newest first.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, status string) ([]repository.Shipment, error) {
	if status != "" && !domain.Status(status).Valid() {
		return nil, apperr.BadRequest("invalid shipment status filter")
	}
	return s.repo.List(ctx, tenantID, status)
}
