// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/prhook/internal/github"
	"github.com/mia-platform/prhook/internal/logger"
)

const (
	loggerName = "prhook:server"

	defaultWebhookPath = "/webhook"
)

var (
	ErrServerListen   = errors.New("server listen error")
	ErrServerShutdown = errors.New("server shutdown error")
)

// Server exposes the HTTP surface of the listener: the webhook endpoint plus
// the health and descriptor routes.
type Server interface {
	AddWebhook(method string, path string, handler github.WebhookHandler)
	Start() error
	Stop() error
	StartAsync(ctx context.Context)
	App() *fiber.App
}

type impServer struct {
	config

	app         *fiber.App
	webhookPath string
}

// NewServer creates the fiber application reading the bind settings from the
// environment and registering the status routes.
func NewServer(ctx context.Context) (Server, error) {
	cfg, err := LoadServerConfig()
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: cfg.DisableStartupMessage,
		Immutable:             true, // ensure that accessing request body returns a copy that is valid after the request lifecycle (accessing body and headers in goroutines in the request handlers)
	})
	log := logger.FromContext(ctx)
	if cfg.LogLevel != "" {
		log.SetLevel(logger.LevelFromString(cfg.LogLevel))
	}
	app.Use(logger.RequestMiddlewareLogger(log, []string{"/health"}))

	server := &impServer{
		app:         app,
		config:      *cfg,
		webhookPath: defaultWebhookPath,
	}
	server.statusRoutes()

	return server, nil
}

// AddWebhook registers a webhook route mapping handler outcomes to the stable
// JSON responses of the endpoint contract.
func (s *impServer) AddWebhook(method string, path string, handler github.WebhookHandler) {
	s.webhookPath = path
	s.app.Add(method, path, func(ctx *fiber.Ctx) error {
		message, err := handler(ctx.UserContext(), ctx.GetReqHeaders(), ctx.Body())
		switch {
		case err == nil:
			return ctx.Status(http.StatusOK).JSON(fiber.Map{
				"message": message,
			})
		case errors.Is(err, github.ErrInvalidSignature):
			return ctx.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		case errors.Is(err, github.ErrInvalidPayload):
			return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid JSON",
			})
		default:
			log := logger.FromContext(ctx.UserContext()).WithName(loggerName)
			log.Error("error processing webhook delivery", "error", err.Error())
			return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}
	})
}

// statusRoutes registers the health check and the service descriptor.
func (s *impServer) statusRoutes() {
	s.app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.Status(http.StatusOK).JSON(fiber.Map{
			"status": "healthy",
		})
	})

	s.app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(http.StatusOK).JSON(fiber.Map{
			"message": "GitHub Webhook Listener",
			"endpoints": fiber.Map{
				"webhook": s.webhookPath,
				"health":  "/health",
			},
			"supported_events": []string{github.EventTypePullRequest, github.EventTypePing},
		})
	})
}

func (s *impServer) Start() error {
	if err := s.app.Listen(fmt.Sprintf("%s:%d", s.HTTPHost, s.HTTPPort)); err != nil {
		return fmt.Errorf("%w: %w", ErrServerListen, err)
	}
	return nil
}

func (s *impServer) Stop() error {
	if err := s.app.Shutdown(); err != nil {
		return fmt.Errorf("%w: %w", ErrServerShutdown, err)
	}
	return nil
}

func (s *impServer) StartAsync(ctx context.Context) {
	log := logger.FromContext(ctx).WithName(loggerName)
	go func() {
		if err := s.Start(); err != nil {
			log.Error(err.Error())
		}
	}()
}

func (s *impServer) App() *fiber.App {
	return s.app
}
