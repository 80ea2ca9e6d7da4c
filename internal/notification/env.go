// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package notification

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment switches that enable the notification targets.
type Config struct {
	SlackWebhookURL   string `env:"SLACK_WEBHOOK_URL"`
	DiscordWebhookURL string `env:"DISCORD_WEBHOOK_URL"`
	JiraEndpoint      string `env:"JIRA_ENDPOINT"`
	AMQPURL           string `env:"AMQP_URL"`
	AMQPQueue         string `env:"AMQP_QUEUE" envDefault:"pr_events"`
}

// NewNotifiersFromEnv builds the targets configured in the environment,
// keyed by target name. A target without configuration is simply absent.
func NewNotifiersFromEnv() (map[string]Notifier, error) {
	config, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotificationFailed, err.Error())
	}

	notifiers := make(map[string]Notifier)
	if config.SlackWebhookURL != "" {
		notifiers[TargetSlack] = NewSlack(config.SlackWebhookURL)
	}

	if config.DiscordWebhookURL != "" {
		notifiers[TargetDiscord] = NewDiscord(config.DiscordWebhookURL)
	}

	if config.JiraEndpoint != "" {
		jira, err := NewJira()
		if err != nil {
			return nil, err
		}
		notifiers[TargetJira] = jira
	}

	if config.AMQPURL != "" {
		queue, err := NewQueue(config.AMQPURL, config.AMQPQueue)
		if err != nil {
			return nil, err
		}
		notifiers[TargetQueue] = queue
	}

	return notifiers, nil
}
