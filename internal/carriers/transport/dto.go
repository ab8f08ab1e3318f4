// Package transport defines request/response DTOs for the carriers module.
package transport

import (
	"time"

	"freight_broker_backend/internal/carriers/repository"

	"github.com/google/uuid"
)

// CreateCarrierRequest is the request body for registering a carrier.
type CreateCarrierRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	MCNumber     string `json:"mcNumber" validate:"required,min=1,max=20"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone string `json:"contactPhone" validate:"omitempty,max=32"`
}

// UpdateCarrierStatusRequest is the request body for changing carrier status.
type UpdateCarrierStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active suspended"`
}

// CarrierResponse is the API representation of a carrier.
type CarrierResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	MCNumber     string    `json:"mcNumber"`
	Status       string    `json:"status"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	ContactPhone string    `json:"contactPhone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ToCarrierResponse maps a repository carrier to its API representation.
func ToCarrierResponse(c repository.Carrier) CarrierResponse {
	return CarrierResponse{
		ID:           c.ID,
		Name:         c.Name,
		MCNumber:     c.MCNumber,
		Status:       c.Status,
		ContactEmail: c.ContactEmail,
		ContactPhone: c.ContactPhone,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
