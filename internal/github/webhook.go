// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package github

import (
	"context"
	"net/http"
)

// WebhookHandler processes a single delivery and returns the acknowledgment
// message for the sender. ErrInvalidSignature and ErrInvalidPayload select
// the matching client error response at the server boundary.
type WebhookHandler func(ctx context.Context, headers http.Header, body []byte) (string, error)

// Webhook bundles the route registration data for a webhook listener.
type Webhook struct {
	Method  string
	Path    string
	Handler WebhookHandler
}

// Listener owns the webhook secret and the dispatcher for a GitHub endpoint.
type Listener struct {
	config     Config
	dispatcher *Dispatcher
}

// NewListener creates a listener around dispatcher, reading the webhook
// settings from the environment.
func NewListener(dispatcher *Dispatcher) (*Listener, error) {
	config, err := LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	return &Listener{
		config:     *config,
		dispatcher: dispatcher,
	}, nil
}

// Webhook returns the route handled by the listener. The handler verifies the
// delivery signature against the raw body before anything is parsed.
func (l *Listener) Webhook() Webhook {
	return Webhook{
		Method: http.MethodPost,
		Path:   l.config.WebhookPath,
		Handler: func(ctx context.Context, headers http.Header, body []byte) (string, error) {
			if !ValidateSignature(ctx, body, headers.Get(SignatureHeader), l.config.WebhookSecret) {
				return "", ErrInvalidSignature
			}

			envelope, err := ParseEnvelope(body)
			if err != nil {
				return "", err
			}

			return l.dispatcher.Dispatch(ctx, headers.Get(EventTypeHeader), envelope), nil
		},
	}
}
