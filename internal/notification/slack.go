// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package notification

import (
	"context"
	"net/http"
)

var _ Notifier = &Slack{}

// Slack posts notification messages to a Slack incoming webhook.
type Slack struct {
	webhookURL string
	client     *http.Client
}

// NewSlack creates a Slack notifier for the given incoming webhook URL.
func NewSlack(webhookURL string) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: defaultRequestTimeout},
	}
}

// Notify implements Notifier.
func (s *Slack) Notify(ctx context.Context, event Event) error {
	return postJSON(ctx, s.client, s.webhookURL, map[string]string{"text": event.Message})
}
