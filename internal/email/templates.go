package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// baseEmailData is shared by every template: title, heading, and an optional
// call-to-action button.
type baseEmailData struct {
	Title    string
	Heading  string
	CTALabel string
	CTAURL   string
}

type tenderOfferEmailData struct {
	baseEmailData
	CarrierName     string
	ShipmentRef     string
	Origin          string
	Destination     string
	AmountFormatted string
	ExpiresAt       string
}

type tenderClosedEmailData struct {
	baseEmailData
	CarrierName string
	ShipmentRef string
	Reason      string
}

type inboundAlertEmailData struct {
	baseEmailData
	FromPhone string
	Status    string
	Reason    string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
