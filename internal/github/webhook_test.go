// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package github

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListener(t *testing.T) {
	t.Run("fails without a webhook secret", func(t *testing.T) {
		t.Setenv("WEBHOOK_SECRET", "")

		listener, err := NewListener(NewDispatcher(nil))
		require.ErrorIs(t, err, ErrWebhookConfigNotValid)
		assert.Nil(t, listener)
	})

	t.Run("exposes the configured route", func(t *testing.T) {
		t.Setenv("WEBHOOK_SECRET", "secret")
		t.Setenv("WEBHOOK_PATH", "/github/webhook")

		listener, err := NewListener(NewDispatcher(nil))
		require.NoError(t, err)

		webhook := listener.Webhook()
		assert.Equal(t, http.MethodPost, webhook.Method)
		assert.Equal(t, "/github/webhook", webhook.Path)
		assert.NotNil(t, webhook.Handler)
	})
}

func TestListenerHandler(t *testing.T) {
	secret := "listener secret"

	newHandler := func(t *testing.T, handlers map[string]Handler) WebhookHandler {
		t.Helper()
		t.Setenv("WEBHOOK_SECRET", secret)

		listener, err := NewListener(NewDispatcher(handlers))
		require.NoError(t, err)
		return listener.Webhook().Handler
	}

	headersFor := func(body []byte, eventType string) http.Header {
		headers := http.Header{}
		headers.Set(SignatureHeader, signatureFor(body, secret))
		headers.Set(EventTypeHeader, eventType)
		return headers
	}

	t.Run("valid delivery reaches the dispatcher", func(t *testing.T) {
		handler := &countingHandler{}
		webhookHandler := newHandler(t, map[string]Handler{ActionOpened: handler.handle})

		body := []byte(`{"action": "opened", "pull_request": {"number": 3}}`)
		ack, err := webhookHandler(t.Context(), headersFor(body, EventTypePullRequest), body)
		require.NoError(t, err)
		assert.Equal(t, AckReceived, ack)
		assert.Equal(t, 1, handler.calls)
	})

	t.Run("ping delivery acknowledges with pong", func(t *testing.T) {
		webhookHandler := newHandler(t, nil)

		body := []byte(`{"zen": "Design for failure."}`)
		ack, err := webhookHandler(t.Context(), headersFor(body, EventTypePing), body)
		require.NoError(t, err)
		assert.Equal(t, AckPong, ack)
	})

	t.Run("missing signature rejects the delivery before parsing", func(t *testing.T) {
		handler := &countingHandler{}
		webhookHandler := newHandler(t, map[string]Handler{ActionOpened: handler.handle})

		// not even valid JSON: the body must never be parsed on this path
		body := []byte(`{"action": "opened"`)
		headers := http.Header{}
		headers.Set(EventTypeHeader, EventTypePullRequest)

		ack, err := webhookHandler(t.Context(), headers, body)
		require.ErrorIs(t, err, ErrInvalidSignature)
		assert.Empty(t, ack)
		assert.Zero(t, handler.calls)
	})

	t.Run("invalid JSON with a valid signature fails parsing", func(t *testing.T) {
		handler := &countingHandler{}
		webhookHandler := newHandler(t, map[string]Handler{ActionOpened: handler.handle})

		body := []byte(`{"action": "opened"`)
		ack, err := webhookHandler(t.Context(), headersFor(body, EventTypePullRequest), body)
		require.ErrorIs(t, err, ErrInvalidPayload)
		assert.Empty(t, ack)
		assert.Zero(t, handler.calls)
	})
}
