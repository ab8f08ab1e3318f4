package repository

import (
	"errors"
	"strings"
	"testing"

	shipdomain "freight_broker_backend/internal/shipments/domain"
	"freight_broker_backend/platform/apperr"
)

func TestTenderGate(t *testing.T) {
	if err := tenderGate(shipdomain.StatusQuoted); err != nil {
		t.Fatalf("quoted shipment should accept a tender: %v", err)
	}

	for _, status := range []shipdomain.Status{
		shipdomain.StatusTendered,
		shipdomain.StatusBooked,
		shipdomain.StatusDelivered,
		shipdomain.StatusCancelled,
	} {
		err := tenderGate(status)
		if !apperr.Is(err, apperr.KindUnprocessable) {
			t.Errorf("tender against %s shipment should be unprocessable, got %v", status, err)
		}
	}
}

func TestDispatchGateAllowsBackupOffers(t *testing.T) {
	// "dispatched" stays open so a backup driver can be offered the same move
	// while the primary offer is still pending.
	for _, status := range []shipdomain.Status{
		shipdomain.StatusBooked,
		shipdomain.StatusTendered,
		shipdomain.StatusDispatched,
	} {
		if err := dispatchGate(status); err != nil {
			t.Errorf("%s shipment should accept a dispatch offer: %v", status, err)
		}
	}

	for _, status := range []shipdomain.Status{
		shipdomain.StatusQuoted,
		shipdomain.StatusConfirmed,
		shipdomain.StatusInTransit,
	} {
		err := dispatchGate(status)
		if !apperr.Is(err, apperr.KindUnprocessable) {
			t.Errorf("dispatch against %s shipment should be unprocessable, got %v", status, err)
		}
	}
}

func TestInsertConflictMapsConstraintNames(t *testing.T) {
	err := insertConflict(errors.New(`duplicate key value violates unique constraint "offers_open_tender_key"`))
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("tender constraint should map to a conflict, got %v", err)
	}

	err = insertConflict(errors.New(`duplicate key value violates unique constraint "offers_open_dispatch_key"`))
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("dispatch constraint should map to a conflict, got %v", err)
	}
	// The dispatch rule is scoped to one driver, not to the whole shipment.
	if !strings.Contains(err.Error(), "driver") {
		t.Fatalf("dispatch conflict should name the driver, got %q", err.Error())
	}

	if got := insertConflict(errors.New("connection reset by peer")); got != nil {
		t.Fatalf("unrelated errors must not become conflicts, got %v", got)
	}
}
