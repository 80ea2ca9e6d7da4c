// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/mia-platform/prhook/internal/github"
	"github.com/mia-platform/prhook/internal/notification"
)

const (
	ActionField = "action"
	NotifyField = "notify"
)

var (
	// ErrParsing reports failures that occur while decoding routing files.
	ErrParsing = errors.New("error parsing")

	// KnownActions are the pull request actions a route may bind to.
	KnownActions = []string{
		github.ActionOpened,
		github.ActionClosed,
		github.ActionMerged,
		github.ActionReviewRequested,
		github.ActionSubmitted,
		github.ActionSynchronize,
	}

	// KnownTargets are the notification targets a route may reference.
	KnownTargets = []string{
		notification.TargetSlack,
		notification.TargetDiscord,
		notification.TargetJira,
		notification.TargetQueue,
	}
)

// RouteConfig binds a pull request action to one or more notification
// targets, with an optional message template overriding the default text.
type RouteConfig struct {
	Action  string   `json:"action" yaml:"action"`
	Notify  []string `json:"notify" yaml:"notify"`
	Message string   `json:"message,omitempty" yaml:"message,omitempty"`
}

// validate checks the route fields against the known actions and targets,
// joining every problem found.
func (r *RouteConfig) validate() error {
	errorsList := []string{}

	switch {
	case r.Action == "":
		errorsList = append(errorsList, fmt.Sprintf("missing field '%s' in route", ActionField))
	case !slices.Contains(KnownActions, r.Action):
		errorsList = append(errorsList, fmt.Sprintf("unknown value '%s' for '%s' in route", r.Action, ActionField))
	}

	if len(r.Notify) == 0 {
		errorsList = append(errorsList, fmt.Sprintf("missing field '%s' in route", NotifyField))
	}
	for _, target := range r.Notify {
		if !slices.Contains(KnownTargets, target) {
			errorsList = append(errorsList, fmt.Sprintf("unknown value '%s' for '%s' in route", target, NotifyField))
		}
	}

	if r.Message != "" {
		if _, err := template.New(r.Action).Parse(r.Message); err != nil {
			errorsList = append(errorsList, fmt.Sprintf("invalid message template in route: %s", err.Error()))
		}
	}

	if len(errorsList) > 0 {
		return errors.New(strings.Join(errorsList, "; "))
	}
	return nil
}

// RenderMessage renders the route message template against data, falling back
// to fallback when no template is configured or the rendering fails.
func (r *RouteConfig) RenderMessage(data any, fallback string) string {
	if r.Message == "" {
		return fallback
	}

	// missingkey=error makes references to absent data fail the render
	// instead of producing "<no value>", so the fallback applies.
	tmpl, err := template.New(r.Action).Option("missingkey=error").Parse(r.Message)
	if err != nil {
		return fallback
	}

	builder := new(strings.Builder)
	if err := tmpl.Execute(builder, data); err != nil {
		return fallback
	}
	return builder.String()
}

// NewRouteConfigsFromPath parses the file at path and returns any notification
// routes it contains. It reports failures encountered while reading or decoding
// the data.
func NewRouteConfigsFromPath(path string) ([]*RouteConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Create a YAML decoder for the file.
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	routes := make([]*RouteConfig, 0)

	// Continue parsing until the end of the file.
	for {
		route := new(RouteConfig)
		err := decoder.Decode(&route)
		if err != nil {
			// End of file reached, stop parsing.
			if errors.Is(err, io.EOF) {
				break
			}

			// A different parsing error occurred; return it.
			return nil, fmt.Errorf("%w %q: %w", ErrParsing, path, err)
		}

		// Skip empty documents.
		if route == nil {
			continue
		}

		if err := route.validate(); err != nil {
			return nil, fmt.Errorf("%w %q: %s", ErrParsing, path, err.Error())
		}

		routes = append(routes, route)
	}

	return routes, nil
}
