// Package transport defines request/response DTOs for the shipments module.
package transport

import (
	"time"

	"freight_broker_backend/internal/shipments/repository"

	"github.com/google/uuid"
)

// CreateShipmentRequest is the request body for creating a shipment.
type CreateShipmentRequest struct {
	Reference         string     `json:"reference" validate:"required,min=1,max=64"`
	Origin            string     `json:"origin" validate:"required,min=1,max=200"`
	Destination       string     `json:"destination" validate:"required,min=1,max=200"`
	QuotedAmountCents int64      `json:"quotedAmountCents" validate:"gte=0"`
	PickupAt          *time.Time `json:"pickupAt,omitempty"`
}

// ShipmentResponse is the API representation of a shipment.
type ShipmentResponse struct {
	ID                uuid.UUID  `json:"id"`
	Reference         string     `json:"reference"`
	Origin            string     `json:"origin"`
	Destination       string     `json:"destination"`
	Status            string     `json:"status"`
	CarrierID         *uuid.UUID `json:"carrierId,omitempty"`
	DriverID          *uuid.UUID `json:"driverId,omitempty"`
	QuotedAmountCents int64      `json:"quotedAmountCents"`
	PickupAt          *time.Time `json:"pickupAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// ToShipmentResponse maps a repository shipment to its API representation.
func ToShipmentResponse(s repository.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:                s.ID,
		Reference:         s.Reference,
		Origin:            s.Origin,
		Destination:       s.Destination,
		Status:            string(s.Status),
		CarrierID:         s.CarrierID,
		DriverID:          s.DriverID,
		QuotedAmountCents: s.QuotedAmountCents,
		PickupAt:          s.PickupAt,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}
