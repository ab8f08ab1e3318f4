package domain

import (
	"testing"
	"time"

	shipdomain "freight_broker_backend/internal/shipments/domain"
)

func TestCanTransitionFromOffered(t *testing.T) {
	targets := []State{StateAccepted, StateRejected, StateExpired, StateCancelled}
	for _, to := range targets {
		if !CanTransition(StateOffered, to) {
			t.Errorf("OFFERED -> %s should be allowed", to)
		}
	}
}

func TestTerminalStatesAreAbsorbing(t *testing.T) {
	terminals := []State{StateAccepted, StateRejected, StateExpired, StateCancelled}
	targets := []State{StateOffered, StateAccepted, StateRejected, StateExpired, StateCancelled}

	for _, from := range terminals {
		if !from.Terminal() {
			t.Errorf("%s should be terminal", from)
		}
		for _, to := range targets {
			if CanTransition(from, to) {
				t.Errorf("%s -> %s should not be allowed", from, to)
			}
		}
	}
}

func TestOfferedIsNotTerminal(t *testing.T) {
	if StateOffered.Terminal() {
		t.Fatal("OFFERED must not be terminal")
	}
}

func TestCanTransitionRejectsSelfLoop(t *testing.T) {
	if CanTransition(StateOffered, StateOffered) {
		t.Fatal("OFFERED -> OFFERED should not be allowed")
	}
}

func TestDecisionState(t *testing.T) {
	if s, err := DecisionAccept.State(); err != nil || s != StateAccepted {
		t.Fatalf("ACCEPT should map to ACCEPTED, got %s, %v", s, err)
	}
	if s, err := DecisionReject.State(); err != nil || s != StateRejected {
		t.Fatalf("REJECT should map to REJECTED, got %s, %v", s, err)
	}
	if _, err := Decision("MAYBE").State(); err == nil {
		t.Fatal("unknown decision should error")
	}
}

func TestCascadeOnAccept(t *testing.T) {
	if !KindTender.CascadeOnAccept() {
		t.Fatal("accepting a tender must cancel competing tenders")
	}
	if KindDispatch.CascadeOnAccept() {
		t.Fatal("accepting a dispatch offer must not cascade")
	}
}

func TestActiveStates(t *testing.T) {
	tender := KindTender.ActiveStates()
	if len(tender) != 1 || tender[0] != StateOffered {
		t.Fatalf("a tender should block duplicates only while OFFERED, got %v", tender)
	}

	// A dispatch blocks re-offering the same driver while pending and after
	// acceptance, so backups for the shipment go to other drivers.
	dispatch := KindDispatch.ActiveStates()
	if len(dispatch) != 2 || dispatch[0] != StateOffered || dispatch[1] != StateAccepted {
		t.Fatalf("a dispatch should block duplicates while OFFERED or ACCEPTED, got %v", dispatch)
	}
	for _, resolved := range []State{StateRejected, StateExpired, StateCancelled} {
		for _, active := range dispatch {
			if active == resolved {
				t.Errorf("a %s dispatch must not block a fresh offer to the driver", resolved)
			}
		}
	}
}

func TestTenderExpiryDefault(t *testing.T) {
	d, err := TenderExpiry(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != DefaultTenderExpiry {
		t.Fatalf("expected default expiry %v, got %v", DefaultTenderExpiry, d)
	}
}

func TestTenderExpiryBounds(t *testing.T) {
	cases := []struct {
		hours int
		ok    bool
	}{
		{1, true},
		{24, true},
		{168, true},
		{169, false},
		{-1, false},
		{200, false},
	}
	for _, tc := range cases {
		_, err := TenderExpiry(tc.hours)
		if tc.ok && err != nil {
			t.Errorf("expiry of %d hours should be valid: %v", tc.hours, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("expiry of %d hours should be rejected", tc.hours)
		}
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Now()

	if IsExpired(nil, now) {
		t.Fatal("offer without expiry must never expire")
	}

	past := now.Add(-time.Minute)
	if !IsExpired(&past, now) {
		t.Fatal("past deadline should be expired")
	}

	future := now.Add(time.Minute)
	if IsExpired(&future, now) {
		t.Fatal("future deadline should not be expired")
	}

	exact := now
	if !IsExpired(&exact, now) {
		t.Fatal("deadline equal to now counts as expired")
	}
}

func TestExpiresOnResponse(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	if !ExpiresOnResponse(StateAccepted, &past, now) {
		t.Fatal("accepting past the deadline should trigger lazy expiry")
	}
	if ExpiresOnResponse(StateRejected, &past, now) {
		t.Fatal("a late rejection is still a rejection, never an expiry")
	}
	if ExpiresOnResponse(StateAccepted, &future, now) {
		t.Fatal("acceptance before the deadline should go through")
	}
	if ExpiresOnResponse(StateAccepted, nil, now) {
		t.Fatal("offers without an expiry never lazily expire")
	}
}

func TestEffectFor(t *testing.T) {
	effect, changed := EffectFor(KindTender, StateAccepted)
	if !changed || effect.Status != shipdomain.StatusBooked || !effect.AssignCarrier {
		t.Fatalf("tender acceptance should book the shipment to the carrier, got %+v", effect)
	}

	effect, changed = EffectFor(KindDispatch, StateAccepted)
	if !changed || effect.Status != shipdomain.StatusConfirmed || !effect.AssignDriver {
		t.Fatalf("dispatch acceptance should confirm the shipment with the driver, got %+v", effect)
	}

	effect, changed = EffectFor(KindDispatch, StateRejected)
	if !changed || effect.Status != shipdomain.StatusTendered || !effect.ClearDriver {
		t.Fatalf("dispatch rejection should fall back to tendered and clear the driver, got %+v", effect)
	}
	if effect.AssignCarrier || effect.AssignDriver {
		t.Fatalf("dispatch rejection must not assign anyone, got %+v", effect)
	}

	if _, changed := EffectFor(KindTender, StateRejected); changed {
		t.Fatal("tender rejection leaves the shipment quoted for its other tenders")
	}
	for _, to := range []State{StateExpired, StateCancelled} {
		if _, changed := EffectFor(KindTender, to); changed {
			t.Errorf("tender %s must not touch the shipment", to)
		}
		if _, changed := EffectFor(KindDispatch, to); changed {
			t.Errorf("dispatch %s must not touch the shipment", to)
		}
	}
}

func TestAuditActionFor(t *testing.T) {
	cases := map[State]string{
		StateAccepted:  AuditActionAccepted,
		StateRejected:  AuditActionRejected,
		StateExpired:   AuditActionExpired,
		StateCancelled: AuditActionCancelled,
	}
	for state, want := range cases {
		if got := AuditActionFor(state); got != want {
			t.Errorf("AuditActionFor(%s) = %q, want %q", state, got, want)
		}
	}
	if got := AuditActionFor(StateOffered); got != "" {
		t.Errorf("AuditActionFor(OFFERED) = %q, want empty", got)
	}
}
