// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package github

import (
	"context"
	"maps"

	"github.com/mia-platform/prhook/internal/logger"
)

const (
	loggerName = "prhook:github"

	// AckPong is the acknowledgment returned for ping events.
	AckPong = "Pong"
	// AckReceived is the acknowledgment returned for every processed delivery.
	AckReceived = "Webhook received successfully"
)

// Handler processes a single pull request delivery. A returned error is
// confined by the dispatcher and never changes the delivery outcome.
type Handler func(ctx context.Context, envelope *Envelope) error

// Dispatcher routes pull request deliveries to action handlers through an
// immutable table built at construction time.
type Dispatcher struct {
	handlers map[string]Handler
}

// NewDispatcher builds a dispatcher around the given action table. Actions
// without an entry are acknowledged and skipped.
func NewDispatcher(handlers map[string]Handler) *Dispatcher {
	table := make(map[string]Handler, len(handlers))
	maps.Copy(table, handlers)

	return &Dispatcher{
		handlers: table,
	}
}

// Dispatch routes a delivery to at most one handler and returns the
// acknowledgment message for the sender. Unknown event types and unknown pull
// request actions are logged and acknowledged as received.
func (d *Dispatcher) Dispatch(ctx context.Context, eventType string, envelope *Envelope) string {
	log := logger.FromContext(ctx).WithName(loggerName)

	switch eventType {
	case EventTypePing:
		log.Info("received ping event from GitHub")
		return AckPong
	case EventTypePullRequest:
		log.Info("received pull_request event", "action", envelope.Action)

		handler, found := d.handlers[envelope.Action]
		if !found {
			log.Info("unhandled pull request action", "action", envelope.Action)
			return AckReceived
		}

		d.invoke(ctx, handler, envelope)
	default:
		log.Info("unhandled event type", "eventType", eventType)
	}

	return AckReceived
}

// invoke confines handler failures: both returned errors and panics degrade
// to log entries without touching the delivery outcome.
func (d *Dispatcher) invoke(ctx context.Context, handler Handler, envelope *Envelope) {
	log := logger.FromContext(ctx).WithName(loggerName)
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Error("panic in pull request handler", "action", envelope.Action, "panic", recovered)
		}
	}()

	if err := handler(ctx, envelope); err != nil {
		log.Error("error in pull request handler", "action", envelope.Action, "error", err.Error())
	}
}
