// Package email delivers offer notifications to carriers over SMTP.
package email

import (
	"context"
	"fmt"
	"time"
)

// Sender is the outbound email surface the notification module depends on.
type Sender interface {
	SendTenderOfferEmail(ctx context.Context, toEmail string, p TenderOfferEmail) error
	SendTenderClosedEmail(ctx context.Context, toEmail string, p TenderClosedEmail) error
	SendUnresolvedInboundAlertEmail(ctx context.Context, toEmail string, p UnresolvedInboundAlertEmail) error
}

// TenderOfferEmail carries the variables for a new tender offer message.
type TenderOfferEmail struct {
	CarrierName     string
	ShipmentRef     string
	Origin          string
	Destination     string
	AmountFormatted string
	ExpiresAt       time.Time
	OfferURL        string
}

// TenderClosedEmail tells a carrier their tender is no longer open, either
// because it expired or because a competing tender was accepted.
type TenderClosedEmail struct {
	CarrierName string
	ShipmentRef string
	Reason      string
}

// UnresolvedInboundAlertEmail alerts operators about an inbound SMS that
// landed in the review queue.
type UnresolvedInboundAlertEmail struct {
	FromPhone string
	Status    string
	Reason    string
	QueueURL  string
}

// NopSender discards all mail. Used when email is disabled in config.
type NopSender struct{}

func (NopSender) SendTenderOfferEmail(context.Context, string, TenderOfferEmail) error {
	return nil
}

func (NopSender) SendTenderClosedEmail(context.Context, string, TenderClosedEmail) error {
	return nil
}

func (NopSender) SendUnresolvedInboundAlertEmail(context.Context, string, UnresolvedInboundAlertEmail) error {
	return nil
}

// FormatCurrencyUSD renders cents as a dollar amount for message bodies.
func FormatCurrencyUSD(cents int64) string {
	dollars := cents / 100
	rem := cents % 100
	if rem < 0 {
		rem = -rem
	}
	return fmt.Sprintf("$%d.%02d", dollars, rem)
}
