// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package notification

import "fmt"

// DefaultMessage builds the standard notification text for event, used when
// a route does not configure its own template.
func DefaultMessage(event Event) string {
	switch event.Action {
	case "opened":
		return fmt.Sprintf("New PR opened: #%d - %s\nRepository: %s\nAuthor: %s\nURL: %s",
			event.Number, event.Title, event.Repository, event.Sender, event.URL)
	case "closed":
		return fmt.Sprintf("PR closed: #%d - %s\nRepository: %s\nClosed by: %s",
			event.Number, event.Title, event.Repository, event.Sender)
	case "merged":
		return fmt.Sprintf("PR merged: #%d - %s\nRepository: %s\nMerged by: %s",
			event.Number, event.Title, event.Repository, event.Sender)
	case "review_requested":
		return fmt.Sprintf("Review requested for PR: #%d - %s\nRepository: %s\nURL: %s",
			event.Number, event.Title, event.Repository, event.URL)
	case "submitted":
		return fmt.Sprintf("Review submitted for PR: #%d - %s\nRepository: %s\nReviewer: %s",
			event.Number, event.Title, event.Repository, event.Sender)
	case "synchronize":
		return fmt.Sprintf("PR updated: #%d - %s\nRepository: %s\nUpdated by: %s",
			event.Number, event.Title, event.Repository, event.Sender)
	default:
		return fmt.Sprintf("Pull request %s: #%d - %s\nRepository: %s",
			event.Action, event.Number, event.Title, event.Repository)
	}
}
