// Package transport defines request/response DTOs for the drivers module.
package transport

import (
	"time"

	"freight_broker_backend/internal/drivers/repository"

	"github.com/google/uuid"
)

// CreateDriverRequest is the request body for registering a driver.
type CreateDriverRequest struct {
	CarrierID            *uuid.UUID `json:"carrierId,omitempty"`
	Name                 string     `json:"name" validate:"required,min=1,max=200"`
	Phone                string     `json:"phone" validate:"required,max=32"`
	LicenseNumber        string     `json:"licenseNumber" validate:"required,min=1,max=32"`
	LicenseExpiresAt     time.Time  `json:"licenseExpiresAt" validate:"required"`
	MedicalCertExpiresAt *time.Time `json:"medicalCertExpiresAt,omitempty"`
}

// UpdateDriverStatusRequest is the request body for changing driver status.
type UpdateDriverStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE OFF_DUTY DRIVING INACTIVE"`
	Active *bool  `json:"active" validate:"required"`
}

// DriverResponse is the API representation of a driver.
type DriverResponse struct {
	ID                   uuid.UUID  `json:"id"`
	CarrierID            *uuid.UUID `json:"carrierId,omitempty"`
	Name                 string     `json:"name"`
	Phone                string     `json:"phone"`
	Status               string     `json:"status"`
	Active               bool       `json:"active"`
	LicenseNumber        string     `json:"licenseNumber"`
	LicenseExpiresAt     time.Time  `json:"licenseExpiresAt"`
	MedicalCertExpiresAt *time.Time `json:"medicalCertExpiresAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// ToDriverResponse maps a repository driver to its API representation.
func ToDriverResponse(d repository.Driver) DriverResponse {
	return DriverResponse{
		ID:                   d.ID,
		CarrierID:            d.CarrierID,
		Name:                 d.Name,
		Phone:                d.Phone,
		Status:               d.Status,
		Active:               d.Active,
		LicenseNumber:        d.LicenseNumber,
		LicenseExpiresAt:     d.LicenseExpiresAt,
		MedicalCertExpiresAt: d.MedicalCertExpiresAt,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}
