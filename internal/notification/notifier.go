// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package notification

import (
	"context"
	"errors"
)

// Target names accepted in routing configurations.
const (
	TargetSlack   = "slack"
	TargetDiscord = "discord"
	TargetJira    = "jira"
	TargetQueue   = "queue"
)

var (
	// ErrNotificationFailed reports a failed delivery to an outbound target.
	ErrNotificationFailed = errors.New("notification delivery failed")
)

// Event is the notification view of a pull request delivery.
type Event struct {
	Action     string `json:"action"`
	Number     int    `json:"number"`
	Title      string `json:"title"`
	Repository string `json:"repository"`
	Sender     string `json:"sender,omitempty"`
	URL        string `json:"url,omitempty"`

	// Message is the rendered notification text, set by the caller before
	// the event is handed to a target.
	Message string `json:"-"`
}

// Notifier delivers the notification view of a delivery to an external target.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}
