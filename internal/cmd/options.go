// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/joho/godotenv"

	"github.com/mia-platform/prhook/internal/config"
	"github.com/mia-platform/prhook/internal/github"
	"github.com/mia-platform/prhook/internal/logger"
	"github.com/mia-platform/prhook/internal/notification"
	"github.com/mia-platform/prhook/internal/server"
)

const loggerName = "prhook:serve"

// options configures a run of the webhook listener.
type options struct {
	routesPaths []string
	envFile     string

	// serverGetter can be overridden for testing purposes.
	serverGetter func(ctx context.Context) (server.Server, error)

	lock sync.Mutex
}

// validate checks the configured values and reports invalid setups.
func (o *options) validate() error {
	for _, path := range o.routesPaths {
		if path == "" {
			return fmt.Errorf("%w: empty routing file path", config.ErrParsing)
		}
	}

	return nil
}

// execute wires the dispatcher, the notification targets and the server, then
// serves until the context is cancelled.
func (o *options) execute(ctx context.Context) error {
	if !o.lock.TryLock() {
		return nil
	}
	defer o.lock.Unlock()

	log := logger.FromContext(ctx).WithName(loggerName)

	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			return err
		}
	}

	routes, err := loadRouteConfigs(o.routesPaths)
	if err != nil {
		return err
	}

	notifiers, err := notification.NewNotifiersFromEnv()
	if err != nil {
		return err
	}

	listener, err := github.NewListener(github.NewDispatcher(handlerTable(routes, notifiers)))
	if err != nil {
		return err
	}

	serverGetter := o.serverGetter
	if serverGetter == nil {
		serverGetter = server.NewServer
	}

	srv, err := serverGetter(ctx)
	if err != nil {
		return err
	}

	webhook := listener.Webhook()
	srv.AddWebhook(webhook.Method, webhook.Path, webhook.Handler)

	log.Info("starting GitHub webhook listener", "webhookPath", webhook.Path)
	srv.StartAsync(ctx)

	<-ctx.Done()
	log.Info("shutting down GitHub webhook listener")
	return srv.Stop()
}

// handlerTable builds the dispatch table: the logging handlers for every
// action, chained with the notification targets bound by the routing files.
func handlerTable(routes []*config.RouteConfig, notifiers map[string]notification.Notifier) map[string]github.Handler {
	handlers := github.DefaultHandlers()
	for _, route := range routes {
		handlers[route.Action] = notifyHandler(handlers[route.Action], route, notifiers)
	}

	return handlers
}

// notifyHandler chains the base action handler with the notification targets
// bound by route. Target failures are logged and never fail the delivery.
func notifyHandler(base github.Handler, route *config.RouteConfig, notifiers map[string]notification.Notifier) github.Handler {
	targets := slices.Clone(route.Notify)

	return func(ctx context.Context, envelope *github.Envelope) error {
		log := logger.FromContext(ctx).WithName(loggerName)

		if base != nil {
			if err := base(ctx, envelope); err != nil {
				log.Error("error in action handler", "action", route.Action, "error", err.Error())
			}
		}

		event := envelope.NotificationEvent()
		event.Message = route.RenderMessage(event, notification.DefaultMessage(event))

		for _, target := range targets {
			notifier, found := notifiers[target]
			if !found {
				log.Warn("notification target not configured", "target", target)
				continue
			}

			if err := notifier.Notify(ctx, event); err != nil {
				log.Error("error delivering notification", "target", target, "error", err.Error())
			}
		}

		return nil
	}
}
