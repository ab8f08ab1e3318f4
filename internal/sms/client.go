// Package sms provides the outbound SMS gateway client used to deliver
// offer notifications to drivers.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"freight_broker_backend/platform/config"
	"freight_broker_backend/platform/logger"
	"freight_broker_backend/platform/phone"

	"github.com/sony/gobreaker"
)

// Sender delivers an SMS to a phone number. Satisfied by Client; the
// notification module depends on this interface so tests can fake delivery.
type Sender interface {
	SendSMS(ctx context.Context, phoneNumber, message string) error
}

// Client talks to the SMS gateway's HTTP API. A circuit breaker guards the
// gateway: once it starts failing, sends short-circuit instead of tying up
// outbox workers on timeouts.
type Client struct {
	baseURL string
	apiKey  string
	from    string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *logger.Logger
}

type gatewayRequest struct {
	To   string `json:"to"`
	From string `json:"from"`
	Body string `json:"body"`
}

// NewClient creates a gateway client, or nil when no gateway is configured.
// A nil client silently drops messages, which keeps local development working
// without a gateway account.
func NewClient(cfg config.SMSConfig, log *logger.Logger) *Client {
	if cfg.GetSMSGatewayURL() == "" {
		return nil
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "sms-gateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("sms gateway breaker state change", "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.GetSMSGatewayURL(), "/"),
		apiKey:  cfg.GetSMSGatewayKey(),
		from:    cfg.GetSMSFromNumber(),
		http:    &http.Client{Timeout: 10 * time.Second},
		breaker: breaker,
		log:     log,
	}
}

// SendSMS delivers one message through the gateway.
func (c *Client) SendSMS(ctx context.Context, phoneNumber, message string) error {
	if c == nil {
		return nil
	}

	normalized := phone.NormalizeE164(phoneNumber)

	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.send(ctx, normalized, message)
	})
	if err != nil {
		return fmt.Errorf("sms to %s: %w", normalized, err)
	}

	c.log.Info("sms sent", "to", normalized)
	return nil
}

func (c *Client) send(ctx context.Context, to, message string) error {
	body, err := json.Marshal(gatewayRequest{To: to, From: c.from, Body: message})
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	url := c.baseURL + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return nil
}
