// Package domain holds the shipment status model shared across modules.
package domain

// Status is the shipment's position in the brokerage lifecycle.
type Status string

const (
	// StatusQuoted means the shipment is priced and awaiting carrier tenders.
	StatusQuoted Status = "quoted"
	// StatusTendered means a tender round is in flight or a dispatch fell through.
	StatusTendered Status = "tendered"
	// StatusBooked means a carrier accepted the tender.
	StatusBooked Status = "booked"
	// StatusDispatched means a driver has been offered the move.
	StatusDispatched Status = "dispatched"
	// StatusConfirmed means the driver accepted the dispatch.
	StatusConfirmed Status = "confirmed"
	// StatusInTransit means the cargo is moving.
	StatusInTransit Status = "in_transit"
	// StatusDelivered means the move is complete.
	StatusDelivered Status = "delivered"
	// StatusCancelled means the shipment was withdrawn.
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known shipment status.
func (s Status) Valid() bool {
	switch s {
	case StatusQuoted, StatusTendered, StatusBooked, StatusDispatched,
		StatusConfirmed, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// AllowsTender reports whether a carrier tender may be created for a shipment
// in this status.
func (s Status) AllowsTender() bool {
	return s == StatusQuoted
}

// AllowsDispatch reports whether a driver dispatch may be created for a
// shipment in this status. Dispatch is permitted from "dispatched" as well so
// that backup drivers can be offered the same move.
func (s Status) AllowsDispatch() bool {
	switch s {
	case StatusBooked, StatusTendered, StatusDispatched:
		return true
	}
	return false
}
