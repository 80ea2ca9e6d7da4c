// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package github

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Event types and pull request actions sent by GitHub.
// https://docs.github.com/en/webhooks/webhook-events-and-payloads#pull_request
const (
	EventTypePing        = "ping"
	EventTypePullRequest = "pull_request"

	ActionOpened          = "opened"
	ActionClosed          = "closed"
	ActionMerged          = "merged"
	ActionReviewRequested = "review_requested"
	ActionSubmitted       = "submitted"
	ActionSynchronize     = "synchronize"
)

var (
	// ErrInvalidPayload reports a delivery body that is not valid JSON.
	ErrInvalidPayload = errors.New("invalid webhook payload")
)

// Envelope is the decoded body of a webhook delivery. GitHub omits the keys
// that do not apply to a delivery, so every field beside Action can be nil and
// handlers must check for presence before use.
type Envelope struct {
	Action            string         `json:"action,omitempty"`
	PullRequest       map[string]any `json:"pull_request,omitempty"`
	Repository        map[string]any `json:"repository,omitempty"`
	Sender            map[string]any `json:"sender,omitempty"`
	Review            map[string]any `json:"review,omitempty"`
	RequestedReviewer map[string]any `json:"requested_reviewer,omitempty"`
	RequestedTeam     map[string]any `json:"requested_team,omitempty"`
}

// ParseEnvelope decodes a delivery body into an Envelope. Only JSON syntax is
// enforced: a valid body that is not an object, or carries wrongly typed keys,
// decodes to an envelope with the affected fields unset.
func ParseEnvelope(body []byte) (*Envelope, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err.Error())
	}

	values, _ := payload.(map[string]any)

	return &Envelope{
		Action:            stringField(values, "action"),
		PullRequest:       mapField(values, "pull_request"),
		Repository:        mapField(values, "repository"),
		Sender:            mapField(values, "sender"),
		Review:            mapField(values, "review"),
		RequestedReviewer: mapField(values, "requested_reviewer"),
		RequestedTeam:     mapField(values, "requested_team"),
	}, nil
}

// stringField returns the string value for key in values, or the empty string
// when the key is absent or not a string.
func stringField(values map[string]any, key string) string {
	value, _ := values[key].(string)
	return value
}

// intField returns the numeric value for key in values truncated to an int,
// or zero when the key is absent or not a number.
func intField(values map[string]any, key string) int {
	value, _ := values[key].(float64)
	return int(value)
}

// boolField returns the boolean value for key in values, or false when the
// key is absent or not a boolean.
func boolField(values map[string]any, key string) bool {
	value, _ := values[key].(bool)
	return value
}

// mapField returns the object value for key in values, or nil when the key is
// absent or not an object.
func mapField(values map[string]any, key string) map[string]any {
	value, _ := values[key].(map[string]any)
	return value
}
