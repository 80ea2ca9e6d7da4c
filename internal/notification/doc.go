// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package notification contains the outbound targets that pull request
// handlers can fan out to: chat webhooks, the Jira issue service and an AMQP
// queue for automation consumers.
package notification
