// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package config loads the notification routing files binding pull request
// actions to outbound targets.
package config
