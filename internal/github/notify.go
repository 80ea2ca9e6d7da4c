// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package github

import "github.com/mia-platform/prhook/internal/notification"

// NotificationEvent projects the envelope into the view consumed by
// notification targets, applying the same lazy key checks as the handlers.
func (e *Envelope) NotificationEvent() notification.Event {
	pullRequest := e.PullRequest

	return notification.Event{
		Action:     e.Action,
		Number:     intField(pullRequest, "number"),
		Title:      stringField(pullRequest, "title"),
		Repository: stringField(e.Repository, "full_name"),
		Sender:     stringField(e.Sender, "login"),
		URL:        stringField(pullRequest, "html_url"),
	}
}
