// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fake

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/prhook/internal/github"
	"github.com/mia-platform/prhook/internal/server"
)

var _ server.Server = &Server{}

// Route records a webhook registration performed on the fake server.
type Route struct {
	Method  string
	Path    string
	Handler github.WebhookHandler
}

// Server is a server.Server implementation for tests that records registered
// webhooks and exposes its lifecycle through channels.
type Server struct {
	tb               testing.TB
	RegisteredRoutes []Route

	startedChan chan struct{}
	closedChan  chan struct{}
}

func NewFakeServer(tb testing.TB) *Server {
	tb.Helper()

	return &Server{
		tb:          tb,
		startedChan: make(chan struct{}),
		closedChan:  make(chan struct{}),
	}
}

func (s *Server) AddWebhook(method string, path string, handler github.WebhookHandler) {
	s.tb.Helper()
	s.RegisteredRoutes = append(s.RegisteredRoutes, Route{
		Method:  method,
		Path:    path,
		Handler: handler,
	})
}

func (s *Server) Start() error {
	s.tb.Helper()
	close(s.startedChan)
	<-s.closedChan
	return nil
}

func (s *Server) Stop() error {
	s.tb.Helper()
	close(s.closedChan)
	return nil
}

func (s *Server) StartAsync(_ context.Context) {
	s.tb.Helper()
	close(s.startedChan)
}

func (s *Server) App() *fiber.App {
	s.tb.Helper()
	return nil
}

// StartedServer signals when Start or StartAsync has been invoked.
func (s *Server) StartedServer() <-chan struct{} {
	s.tb.Helper()
	return s.startedChan
}
