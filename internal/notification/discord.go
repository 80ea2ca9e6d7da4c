// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package notification

import (
	"context"
	"net/http"
)

var _ Notifier = &Discord{}

// Discord posts notification messages to a Discord webhook.
type Discord struct {
	webhookURL string
	client     *http.Client
}

// NewDiscord creates a Discord notifier for the given webhook URL.
func NewDiscord(webhookURL string) *Discord {
	return &Discord{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: defaultRequestTimeout},
	}
}

// Notify implements Notifier.
func (d *Discord) Notify(ctx context.Context, event Event) error {
	return postJSON(ctx, d.client, d.webhookURL, map[string]string{"content": event.Message})
}
