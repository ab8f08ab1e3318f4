// Package domain defines the offer state machine and the policies that govern
// tender and dispatch offers. It is persistence-free on purpose: the rules
// here are enforced inside the repository transaction, but decided here.
package domain

import (
	"fmt"
	"time"

	shipdomain "freight_broker_backend/internal/shipments/domain"
)

// Kind distinguishes the two offer flavors the workflow supports.
type Kind string

const (
	// KindTender is a load offer from a broker to a carrier.
	KindTender Kind = "TENDER"
	// KindDispatch is a trip assignment offer from a dispatcher to a driver.
	KindDispatch Kind = "DISPATCH"
)

// Valid reports whether k is a known offer kind.
func (k Kind) Valid() bool {
	return k == KindTender || k == KindDispatch
}

// State is the lifecycle state of an offer.
type State string

const (
	StateOffered   State = "OFFERED"
	StateAccepted  State = "ACCEPTED"
	StateRejected  State = "REJECTED"
	StateExpired   State = "EXPIRED"
	StateCancelled State = "CANCELLED"
)

// Valid reports whether s is a known offer state.
func (s State) Valid() bool {
	switch s {
	case StateOffered, StateAccepted, StateRejected, StateExpired, StateCancelled:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s State) Terminal() bool {
	return s != StateOffered
}

// CanTransition reports whether an offer may move from one state to another.
// Only OFFERED has outgoing edges; every terminal state is absorbing.
func CanTransition(from, to State) bool {
	if from != StateOffered {
		return false
	}
	switch to {
	case StateAccepted, StateRejected, StateExpired, StateCancelled:
		return true
	}
	return false
}

// Decision is a response a recipient can give to an open offer.
type Decision string

const (
	DecisionAccept Decision = "ACCEPT"
	DecisionReject Decision = "REJECT"
)

// State returns the target state a decision drives the offer into.
func (d Decision) State() (State, error) {
	switch d {
	case DecisionAccept:
		return StateAccepted, nil
	case DecisionReject:
		return StateRejected, nil
	}
	return "", fmt.Errorf("unknown decision %q", string(d))
}

// CascadeOnAccept reports whether accepting an offer of this kind cancels the
// shipment's other open offers of the same kind. Tenders compete for one
// shipment; sibling dispatch offers stay live as backups and never cascade.
func (k Kind) CascadeOnAccept() bool {
	return k == KindTender
}

// ActiveStates lists the states in which an offer still blocks a duplicate to
// the same (shipment, actor). A tender stops blocking once resolved either
// way; an accepted dispatch keeps blocking so a driver is never offered a
// load they already hold. Offers to other actors are never blocked, which is
// what lets a shipment carry concurrent primary and backup dispatch offers.
func (k Kind) ActiveStates() []State {
	if k == KindDispatch {
		return []State{StateOffered, StateAccepted}
	}
	return []State{StateOffered}
}

// Tender expiry bounds. Dispatch offers do not expire.
const (
	DefaultTenderExpiry = 24 * time.Hour
	MinTenderExpiry     = time.Hour
	MaxTenderExpiry     = 168 * time.Hour
)

// TenderExpiry validates and resolves a requested expiry window in hours.
// Zero means "use the default".
func TenderExpiry(hours int) (time.Duration, error) {
	if hours == 0 {
		return DefaultTenderExpiry, nil
	}
	d := time.Duration(hours) * time.Hour
	if d < MinTenderExpiry || d > MaxTenderExpiry {
		return 0, fmt.Errorf("tender expiry must be between %d and %d hours", int(MinTenderExpiry.Hours()), int(MaxTenderExpiry.Hours()))
	}
	return d, nil
}

// Audit actions recorded in the offer audit trail. Every state change appends
// exactly one entry per affected offer.
const (
	AuditActionCreated          = "CREATED"
	AuditActionAccepted         = "ACCEPTED"
	AuditActionRejected         = "REJECTED"
	AuditActionExpired          = "EXPIRED"
	AuditActionCancelledCascade = "CANCELLED_CASCADE"
	AuditActionCancelled        = "CANCELLED"
)

// AuditActionFor maps a terminal state reached by a direct transition to its
// audit action.
func AuditActionFor(to State) string {
	switch to {
	case StateAccepted:
		return AuditActionAccepted
	case StateRejected:
		return AuditActionRejected
	case StateExpired:
		return AuditActionExpired
	case StateCancelled:
		return AuditActionCancelled
	}
	return ""
}

// Response sources recorded alongside transitions, so the audit trail shows
// whether a decision arrived over the API or by inbound SMS.
const (
	SourceAPI     = "API"
	SourceInbound = "INBOUND_SMS"
	SourceSystem  = "SYSTEM"
)

// IsExpired reports whether an offer with the given expiry timestamp is past
// due at the reference time. Offers without an expiry never expire.
func IsExpired(expiresAt *time.Time, now time.Time) bool {
	return expiresAt != nil && !expiresAt.After(now)
}

// ExpiresOnResponse reports whether a response to an overdue offer should
// trigger lazy expiry instead of being recorded. Only an acceptance is
// blocked by the deadline; a rejection past the deadline is still a
// rejection, since declining a lapsed offer loses nothing.
func ExpiresOnResponse(target State, expiresAt *time.Time, now time.Time) bool {
	return target == StateAccepted && IsExpired(expiresAt, now)
}

// ShipmentEffect is the shipment-side consequence of a resolved offer.
type ShipmentEffect struct {
	Status        shipdomain.Status
	AssignCarrier bool
	AssignDriver  bool
	ClearDriver   bool
}

// EffectFor returns the shipment update implied by an offer of the given kind
// reaching the given state. The second return is false when the shipment is
// untouched: tender rejection and expiry leave it quoted with its other
// tenders still open.
func EffectFor(kind Kind, to State) (ShipmentEffect, bool) {
	switch {
	case kind == KindTender && to == StateAccepted:
		return ShipmentEffect{Status: shipdomain.StatusBooked, AssignCarrier: true}, true
	case kind == KindDispatch && to == StateAccepted:
		return ShipmentEffect{Status: shipdomain.StatusConfirmed, AssignDriver: true}, true
	case kind == KindDispatch && to == StateRejected:
		// Falls back so a different driver can be dispatched.
		return ShipmentEffect{Status: shipdomain.StatusTendered, ClearDriver: true}, true
	}
	return ShipmentEffect{}, false
}
