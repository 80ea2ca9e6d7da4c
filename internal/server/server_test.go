// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mia-platform/prhook/internal/github"
	"github.com/mia-platform/prhook/internal/logger"
)

const testSecret = "test-secret"

func signBody(t *testing.T, body string) string {
	t.Helper()

	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func decodeBody(t *testing.T, response *http.Response) map[string]any {
	t.Helper()

	defer response.Body.Close()
	raw, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	decoded := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func testServer(t *testing.T) Server {
	t.Helper()

	t.Setenv("WEBHOOK_SECRET", testSecret)

	srv, err := NewServer(t.Context())
	require.NoError(t, err)
	require.NotNil(t, srv)

	listener, err := github.NewListener(github.NewDispatcher(github.DefaultHandlers()))
	require.NoError(t, err)

	webhook := listener.Webhook()
	srv.AddWebhook(webhook.Method, webhook.Path, webhook.Handler)
	return srv
}

func TestStatusRoutes(t *testing.T) {
	srv := testServer(t)

	t.Run("health route", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/health", nil)
		response, err := srv.App().Test(request)
		require.NoError(t, err)

		require.Equal(t, http.StatusOK, response.StatusCode)
		require.Equal(t, map[string]any{"status": "healthy"}, decodeBody(t, response))
	})

	t.Run("descriptor route", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		response, err := srv.App().Test(request)
		require.NoError(t, err)

		require.Equal(t, http.StatusOK, response.StatusCode)
		body := decodeBody(t, response)
		require.Equal(t, "GitHub Webhook Listener", body["message"])
		require.Equal(t, map[string]any{"webhook": "/webhook", "health": "/health"}, body["endpoints"])
		require.Equal(t, []any{"pull_request", "ping"}, body["supported_events"])
	})
}

func TestWebhookRoute(t *testing.T) {
	srv := testServer(t)

	webhookRequest := func(body, signature, eventType string) *http.Request {
		request := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
		if signature != "" {
			request.Header.Set(github.SignatureHeader, signature)
		}
		if eventType != "" {
			request.Header.Set(github.EventTypeHeader, eventType)
		}
		return request
	}

	t.Run("missing signature returns 401", func(t *testing.T) {
		response, err := srv.App().Test(webhookRequest(`{"action": "opened"}`, "", "pull_request"))
		require.NoError(t, err)

		require.Equal(t, http.StatusUnauthorized, response.StatusCode)
		require.Equal(t, map[string]any{"error": "Invalid signature"}, decodeBody(t, response))
	})

	t.Run("tampered payload returns 401", func(t *testing.T) {
		signature := signBody(t, `{"action": "opened"}`)
		response, err := srv.App().Test(webhookRequest(`{"action": "closed"}`, signature, "pull_request"))
		require.NoError(t, err)

		require.Equal(t, http.StatusUnauthorized, response.StatusCode)
		require.Equal(t, map[string]any{"error": "Invalid signature"}, decodeBody(t, response))
	})

	t.Run("invalid JSON with valid signature returns 400", func(t *testing.T) {
		body := `{"action": "opened"`
		response, err := srv.App().Test(webhookRequest(body, signBody(t, body), "pull_request"))
		require.NoError(t, err)

		require.Equal(t, http.StatusBadRequest, response.StatusCode)
		require.Equal(t, map[string]any{"error": "Invalid JSON"}, decodeBody(t, response))
	})

	t.Run("ping event returns pong", func(t *testing.T) {
		body := `{"zen": "Keep it logically awesome."}`
		response, err := srv.App().Test(webhookRequest(body, signBody(t, body), "ping"))
		require.NoError(t, err)

		require.Equal(t, http.StatusOK, response.StatusCode)
		require.Equal(t, map[string]any{"message": "Pong"}, decodeBody(t, response))
	})

	t.Run("ping event with a non-object body returns pong", func(t *testing.T) {
		body := `"just a string"`
		response, err := srv.App().Test(webhookRequest(body, signBody(t, body), "ping"))
		require.NoError(t, err)

		require.Equal(t, http.StatusOK, response.StatusCode)
		require.Equal(t, map[string]any{"message": "Pong"}, decodeBody(t, response))
	})

	t.Run("pull request closed event is acknowledged", func(t *testing.T) {
		for _, merged := range []string{"false", "true"} {
			body := `{"action": "closed", "pull_request": {"number": 7, "title": "test", "merged": ` + merged + `}}`
			response, err := srv.App().Test(webhookRequest(body, signBody(t, body), "pull_request"))
			require.NoError(t, err)

			require.Equal(t, http.StatusOK, response.StatusCode)
			require.Equal(t, map[string]any{"message": "Webhook received successfully"}, decodeBody(t, response))
		}
	})

	t.Run("unknown event type is acknowledged", func(t *testing.T) {
		body := `{"ref": "refs/heads/main"}`
		response, err := srv.App().Test(webhookRequest(body, signBody(t, body), "push"))
		require.NoError(t, err)

		require.Equal(t, http.StatusOK, response.StatusCode)
		require.Equal(t, map[string]any{"message": "Webhook received successfully"}, decodeBody(t, response))
	})
}

func TestServerLogLevel(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", testSecret)
	t.Setenv("LOG_LEVEL", "ERROR")

	buffer := new(bytes.Buffer)
	log := logger.NewLogger(buffer)
	ctx := logger.WithContext(t.Context(), log)

	_, err := NewServer(ctx)
	require.NoError(t, err)

	log.Info("suppressed at error level")
	require.Empty(t, buffer.String())
	log.Error("visible at error level")
	require.Contains(t, buffer.String(), "visible at error level")
}

func TestStartServer(t *testing.T) {
	t.Run("starts and stops the server successfully", func(t *testing.T) {
		t.Setenv("PORT", "3001")

		srv, err := NewServer(t.Context())
		require.NoError(t, err)
		require.NotNil(t, srv)

		errChan := make(chan error, 1)
		go func() {
			errChan <- srv.Start()
		}()

		time.Sleep(1 * time.Second)
		request := httptest.NewRequest(http.MethodGet, "/health", nil)
		response, err := srv.App().Test(request)
		require.NoError(t, err)

		defer response.Body.Close()
		require.Equal(t, http.StatusOK, response.StatusCode)

		err = srv.Stop()
		require.NoError(t, err)
		err = <-errChan
		require.NoError(t, err)
	})
}

func TestStartAsyncServer(t *testing.T) {
	t.Run("starts the server asynchronously", func(t *testing.T) {
		t.Setenv("PORT", "3002")

		srv, err := NewServer(t.Context())
		require.NoError(t, err)
		require.NotNil(t, srv)

		srv.StartAsync(t.Context())

		time.Sleep(1 * time.Second)
		request := httptest.NewRequest(http.MethodGet, "/health", nil)
		response, err := srv.App().Test(request)
		require.NoError(t, err)

		defer response.Body.Close()
		require.Equal(t, http.StatusOK, response.StatusCode)

		err = srv.Stop()
		require.NoError(t, err)
	})
}
