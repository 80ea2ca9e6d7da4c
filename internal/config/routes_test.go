// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRouteConfigsFromPath(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	testCases := map[string]struct {
		path                 string
		expectedRouteConfigs []*RouteConfig
		expectedError        error
		expectedErrorString  string
	}{
		"valid file with one route": {
			path: filepath.Join("testdata", "one.yaml"),
			expectedRouteConfigs: []*RouteConfig{
				{
					Action: "opened",
					Notify: []string{"slack"},
				},
			},
		},
		"valid file with multiple routes skips empty documents": {
			path: filepath.Join("testdata", "multiple.yaml"),
			expectedRouteConfigs: []*RouteConfig{
				{
					Action:  "opened",
					Notify:  []string{"slack", "discord"},
					Message: "New PR: {{ .Title }}",
				},
				{
					Action: "closed",
					Notify: []string{"queue"},
				},
				{
					Action: "review_requested",
					Notify: []string{"jira"},
				},
			},
		},
		"missing file return error": {
			path:          filepath.Join(tempDir, "missing"),
			expectedError: syscall.ENOENT,
		},
		"unknown action return error": {
			path:                filepath.Join("testdata", "unknown_action.yaml"),
			expectedError:       ErrParsing,
			expectedErrorString: "unknown value 'labeled' for 'action' in route",
		},
		"unknown target return error": {
			path:                filepath.Join("testdata", "unknown_target.yaml"),
			expectedError:       ErrParsing,
			expectedErrorString: "unknown value 'pager' for 'notify' in route",
		},
		"missing fields are joined in a single error": {
			path:                filepath.Join("testdata", "missing_fields.yaml"),
			expectedError:       ErrParsing,
			expectedErrorString: "missing field 'action' in route; missing field 'notify' in route",
		},
		"invalid message template return error": {
			path:                filepath.Join("testdata", "bad_template.yaml"),
			expectedError:       ErrParsing,
			expectedErrorString: "invalid message template in route",
		},
		"unknown field return error": {
			path:                filepath.Join("testdata", "unknown_field.yaml"),
			expectedError:       ErrParsing,
			expectedErrorString: "field channel not found",
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			routeConfigs, err := NewRouteConfigsFromPath(test.path)
			if test.expectedError != nil {
				assert.Empty(t, routeConfigs)
				assert.ErrorIs(t, err, test.expectedError)
				if test.expectedErrorString != "" {
					assert.ErrorContains(t, err, test.expectedErrorString)
				}
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, test.expectedRouteConfigs, routeConfigs)
		})
	}
}

func TestRenderMessage(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		route           RouteConfig
		data            any
		expectedMessage string
	}{
		"no template falls back": {
			route:           RouteConfig{Action: "opened", Notify: []string{"slack"}},
			data:            map[string]any{"Title": "a change"},
			expectedMessage: "default text",
		},
		"template renders against the event": {
			route: RouteConfig{
				Action:  "opened",
				Notify:  []string{"slack"},
				Message: "PR #{{ .Number }}: {{ .Title }}",
			},
			data:            map[string]any{"Number": 7, "Title": "a change"},
			expectedMessage: "PR #7: a change",
		},
		"missing key falls back": {
			route: RouteConfig{
				Action:  "opened",
				Notify:  []string{"slack"},
				Message: "{{ .Absent }}",
			},
			data:            map[string]any{"Title": "a change"},
			expectedMessage: "default text",
		},
		"rendering failure falls back": {
			route: RouteConfig{
				Action:  "opened",
				Notify:  []string{"slack"},
				Message: "{{ .Missing.Field }}",
			},
			data:            map[string]any{"Title": "a change"},
			expectedMessage: "default text",
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			message := test.route.RenderMessage(test.data, "default text")
			assert.Equal(t, test.expectedMessage, message)
		})
	}
}
