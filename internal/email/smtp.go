package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"freight_broker_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface over a direct SMTP connection
// via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendTenderOfferEmail delivers a new tender offer to a carrier.
func (s *SMTPSender) SendTenderOfferEmail(ctx context.Context, toEmail string, p TenderOfferEmail) error {
	subject := fmt.Sprintf(subjectTenderOfferFmt, p.ShipmentRef)
	content, err := renderEmailTemplate("tender_offer.html", tenderOfferEmailData{
		baseEmailData: baseEmailData{
			Title:    "New load offer",
			Heading:  "New load offer",
			CTALabel: "View offer",
			CTAURL:   p.OfferURL,
		},
		CarrierName:     p.CarrierName,
		ShipmentRef:     p.ShipmentRef,
		Origin:          p.Origin,
		Destination:     p.Destination,
		AmountFormatted: p.AmountFormatted,
		ExpiresAt:       p.ExpiresAt.Format("Mon, Jan 2 2006 15:04 MST"),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

// SendTenderClosedEmail tells a carrier their tender expired or was cancelled.
func (s *SMTPSender) SendTenderClosedEmail(ctx context.Context, toEmail string, p TenderClosedEmail) error {
	subject := fmt.Sprintf(subjectTenderClosedFmt, p.ShipmentRef)
	content, err := renderEmailTemplate("tender_closed.html", tenderClosedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Load offer closed",
			Heading: "Load offer closed",
		},
		CarrierName: p.CarrierName,
		ShipmentRef: p.ShipmentRef,
		Reason:      p.Reason,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

// SendUnresolvedInboundAlertEmail alerts operators about a review-queue entry.
func (s *SMTPSender) SendUnresolvedInboundAlertEmail(ctx context.Context, toEmail string, p UnresolvedInboundAlertEmail) error {
	content, err := renderEmailTemplate("inbound_alert.html", inboundAlertEmailData{
		baseEmailData: baseEmailData{
			Title:    "Inbound SMS needs review",
			Heading:  "Inbound SMS needs review",
			CTALabel: "Open review queue",
			CTAURL:   p.QueueURL,
		},
		FromPhone: p.FromPhone,
		Status:    p.Status,
		Reason:    p.Reason,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectInboundAlert, content)
}

// Compile-time check that SMTPSender implements Sender
var _ Sender = (*SMTPSender)(nil)
