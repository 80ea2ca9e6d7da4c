// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package notification

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/caarlos0/env/v11"
)

var _ Notifier = &Jira{}

// jiraConfig holds the environment-driven Jira settings.
type jiraConfig struct {
	Endpoint     string `env:"JIRA_ENDPOINT"`
	AuthEndpoint string `env:"JIRA_AUTH_ENDPOINT"`
	ClientID     string `env:"JIRA_CLIENT_ID"`
	ClientSecret string `env:"JIRA_CLIENT_SECRET"`
	ProjectKey   string `env:"JIRA_PROJECT_KEY" envDefault:"PROJ"`
}

// Jira creates review tasks on a Jira project for incoming pull requests.
type Jira struct {
	config jiraConfig

	client atomic.Pointer[http.Client]
}

// NewJira creates the Jira notifier reading its configuration from the
// environment. JIRA_ENDPOINT must be set.
func NewJira() (*Jira, error) {
	config, err := env.ParseAs[jiraConfig]()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotificationFailed, err.Error())
	}

	if config.Endpoint == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotificationFailed, "JIRA_ENDPOINT must be set")
	}

	return &Jira{
		config: config,
	}, nil
}

// Notify implements Notifier opening a review task for the pull request.
func (j *Jira) Notify(ctx context.Context, event Event) error {
	description := event.Message
	if description == "" {
		description = fmt.Sprintf("Pull Request: %s\nRepository: %s", event.URL, event.Repository)
	}

	payload := map[string]any{
		"fields": map[string]any{
			"project":     map[string]string{"key": j.config.ProjectKey},
			"summary":     "Review PR: " + event.Title,
			"description": description,
			"issuetype":   map[string]string{"name": "Task"},
		},
	}

	return postJSON(ctx, j.getClient(context.Background()), j.config.Endpoint, payload)
}

func (j *Jira) getClient(ctx context.Context) *http.Client {
	client := j.client.Load()
	if client != nil {
		return client
	}

	client = &http.Client{Timeout: defaultRequestTimeout}
	client.Transport = newTransport(ctx, j.config.AuthEndpoint, j.config.ClientID, j.config.ClientSecret)
	j.client.Store(client)
	return client
}
