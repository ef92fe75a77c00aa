package notification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/domain/shared"
)

func TestEmailSenderSend(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	sender := NewEmailSender(EmailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "shop@example.com",
		To:       "owner@example.com",
	})
	sender.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotFrom = from
		gotTo = to
		gotMsg = msg
		return nil
	}

	err := sender.Send(context.Background(), "New order", "Order #42 was paid")
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "shop@example.com", gotFrom)
	assert.Equal(t, []string{"owner@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: New order\r\n")
	assert.Contains(t, string(gotMsg), "Order #42 was paid")
}

func TestEmailSenderNotConfigured(t *testing.T) {
	sender := NewEmailSender(EmailConfig{})
	err := sender.Send(context.Background(), "subject", "body")
	assert.ErrorIs(t, err, shared.ErrNotConfigured)
}

func TestWhatsAppSenderSend(t *testing.T) {
	var gotAuth, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewWhatsAppSender(WhatsAppConfig{
		RelayURL: server.URL,
		Token:    "relay-token",
		To:       "+5511999990000",
	})

	err := sender.Send(context.Background(), "New order", "Order #42 was paid")
	require.NoError(t, err)
	assert.Equal(t, "Bearer relay-token", gotAuth)
	assert.Contains(t, gotBody, "+5511999990000")
	assert.Contains(t, gotBody, "New order\\n\\nOrder #42 was paid")
}

func TestWhatsAppSenderRelayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sender := NewWhatsAppSender(WhatsAppConfig{RelayURL: server.URL})
	err := sender.Send(context.Background(), "subject", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestWhatsAppSenderNotConfigured(t *testing.T) {
	sender := NewWhatsAppSender(WhatsAppConfig{})
	err := sender.Send(context.Background(), "subject", "body")
	assert.ErrorIs(t, err, shared.ErrNotConfigured)
}
