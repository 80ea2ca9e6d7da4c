// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package github handles GitHub webhook deliveries: it verifies the delivery
// signature against the shared secret, decodes the payload envelope and
// dispatches pull request events to action specific handlers.
package github
