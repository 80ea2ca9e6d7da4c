// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package server contains the HTTP surface of the webhook listener.
// It sets up the server using the Fiber framework, configures middleware for
// logging, and maps webhook handler outcomes to the endpoint response contract.
package server
