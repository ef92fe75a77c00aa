package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shop/backend/internal/domain/shared"
)

// WhatsAppConfig holds relay delivery settings. The relay is a small
// sidecar service that forwards messages to the WhatsApp session.
type WhatsAppConfig struct {
	RelayURL       string
	Token          string
	To             string
	TimeoutSeconds int
}

// WhatsAppSender delivers order notifications through the message relay
type WhatsAppSender struct {
	config     WhatsAppConfig
	httpClient *http.Client
}

// NewWhatsAppSender creates a relay-backed sender
func NewWhatsAppSender(config WhatsAppConfig) *WhatsAppSender {
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = 10
	}
	return &WhatsAppSender{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}
}

// Name identifies the channel in logs
func (s *WhatsAppSender) Name() string {
	return "whatsapp"
}

// whatsAppMessage is the relay request payload
type whatsAppMessage struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// Send posts the message to the relay. Subject and body are joined
// since WhatsApp has no subject line.
func (s *WhatsAppSender) Send(ctx context.Context, subject, body string) error {
	if s.config.RelayURL == "" {
		return fmt.Errorf("%w: whatsapp relay URL is required", shared.ErrNotConfigured)
	}

	text := body
	if subject != "" {
		text = subject + "\n\n" + body
	}

	data, err := json.Marshal(whatsAppMessage{To: s.config.To, Text: text})
	if err != nil {
		return fmt.Errorf("whatsapp: failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.RelayURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("whatsapp: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.Token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: relay unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("whatsapp: relay returned HTTP %d", resp.StatusCode)
	}
	return nil
}
