// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package github

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/mia-platform/prhook/internal/logger"
)

const (
	// SignatureHeader carries the HMAC token proving the delivery origin.
	SignatureHeader = "X-Hub-Signature-256"
	// EventTypeHeader carries the event type of the delivery.
	EventTypeHeader = "X-GitHub-Event"

	signaturePrefix = "sha256="
)

var (
	// ErrInvalidSignature reports a delivery that failed signature verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// ValidateSignature reports whether signatureHeader is a valid
// X-Hub-Signature-256 value for body. GitHub sends the header as "sha256="
// followed by the lowercase hex HMAC-SHA256 digest of the raw request body
// keyed with the shared webhook secret.
func ValidateSignature(ctx context.Context, body []byte, signatureHeader, secret string) bool {
	log := logger.FromContext(ctx).WithName(loggerName)

	if signatureHeader == "" || secret == "" {
		log.Warn("missing webhook signature or secret")
		return false
	}

	signature, found := strings.CutPrefix(signatureHeader, signaturePrefix)
	if !found {
		log.Warn("invalid webhook signature format")
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	// hmac.Equal keeps the comparison constant time with respect to the
	// compared content.
	return hmac.Equal([]byte(expected), []byte(signature))
}
