package service

import (
	"testing"
	"time"

	"freight_broker_backend/internal/drivers/repository"
)

func eligibleDriver(now time.Time) repository.Driver {
	medCert := now.Add(90 * 24 * time.Hour)
	return repository.Driver{
		Name:                 "Ray Mercer",
		Phone:                "+15550100199",
		Status:               repository.StatusActive,
		Active:               true,
		LicenseNumber:        "D1234567",
		LicenseExpiresAt:     now.Add(365 * 24 * time.Hour),
		MedicalCertExpiresAt: &medCert,
	}
}

func TestDispatchEligibilityPasses(t *testing.T) {
	now := time.Now()

	ok, reason := dispatchEligibility(eligibleDriver(now), now)
	if !ok {
		t.Fatalf("expected eligible driver, got reason %q", reason)
	}
}

func TestDispatchEligibilityOffDutyIsAllowed(t *testing.T) {
	now := time.Now()
	d := eligibleDriver(now)
	d.Status = repository.StatusOffDuty

	if ok, reason := dispatchEligibility(d, now); !ok {
		t.Fatalf("off-duty driver should be eligible, got reason %q", reason)
	}
}

func TestDispatchEligibilityInactiveFlag(t *testing.T) {
	now := time.Now()
	d := eligibleDriver(now)
	d.Active = false

	ok, reason := dispatchEligibility(d, now)
	if ok {
		t.Fatal("inactive driver should not be eligible")
	}
	if reason != "driver is inactive" {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestDispatchEligibilityDrivingStatus(t *testing.T) {
	now := time.Now()
	d := eligibleDriver(now)
	d.Status = repository.StatusDriving

	if ok, _ := dispatchEligibility(d, now); ok {
		t.Fatal("driver already on a run should not be eligible")
	}
}

func TestDispatchEligibilityExpiredLicense(t *testing.T) {
	now := time.Now()
	d := eligibleDriver(now)
	d.LicenseExpiresAt = now.Add(-24 * time.Hour)

	ok, reason := dispatchEligibility(d, now)
	if ok {
		t.Fatal("driver with expired license should not be eligible")
	}
	if reason != "driver license is expired" {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestDispatchEligibilityExpiredMedicalCert(t *testing.T) {
	now := time.Now()
	d := eligibleDriver(now)
	expired := now.Add(-time.Hour)
	d.MedicalCertExpiresAt = &expired

	if ok, _ := dispatchEligibility(d, now); ok {
		t.Fatal("driver with expired medical certificate should not be eligible")
	}
}

func TestDispatchEligibilityMissingMedicalCertIsAllowed(t *testing.T) {
	now := time.Now()
	d := eligibleDriver(now)
	d.MedicalCertExpiresAt = nil

	if ok, reason := dispatchEligibility(d, now); !ok {
		t.Fatalf("driver without medical certificate on file should be eligible, got reason %q", reason)
	}
}
