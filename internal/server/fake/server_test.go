// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fake

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeServer(t *testing.T) {
	t.Parallel()

	srv := NewFakeServer(t)
	srv.AddWebhook(http.MethodPost, "/webhook", func(_ context.Context, _ http.Header, _ []byte) (string, error) {
		return "ok", nil
	})

	require.Len(t, srv.RegisteredRoutes, 1)
	assert.Equal(t, http.MethodPost, srv.RegisteredRoutes[0].Method)
	assert.Equal(t, "/webhook", srv.RegisteredRoutes[0].Path)
	assert.NotNil(t, srv.RegisteredRoutes[0].Handler)

	go func() {
		require.NoError(t, srv.Start())
	}()

	<-srv.StartedServer()
	require.NoError(t, srv.Stop())
}
