// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package github

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	MessageMissingWebhookSecret = "WEBHOOK_SECRET must be set"
	MessageInvalidWebhookPath   = "WEBHOOK_PATH must start with '/'"
)

var (
	ErrWebhookConfigNotValid = errors.New("webhook configuration not valid")
)

// Config holds the environment-driven GitHub webhook settings. The secret is
// shared with the GitHub repository configuration and must never be logged.
type Config struct {
	WebhookPath   string `env:"WEBHOOK_PATH" envDefault:"/webhook"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

// LoadConfigFromEnv reads the webhook settings from the environment.
func LoadConfigFromEnv() (*Config, error) {
	config, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWebhookConfigNotValid, err.Error())
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate reports invalid webhook settings, joining every problem found.
func (c Config) Validate() error {
	errorsList := make([]string, 0)

	if c.WebhookSecret == "" {
		errorsList = append(errorsList, MessageMissingWebhookSecret)
	}

	if !strings.HasPrefix(c.WebhookPath, "/") {
		errorsList = append(errorsList, MessageInvalidWebhookPath)
	}

	if len(errorsList) > 0 {
		return fmt.Errorf("%w: %s", ErrWebhookConfigNotValid, strings.Join(errorsList, "; "))
	}
	return nil
}
