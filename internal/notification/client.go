// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mia-platform/prhook/internal/info"
)

// defaultRequestTimeout bounds every outbound call so that a slow target
// cannot hold a delivery open indefinitely.
const defaultRequestTimeout = 10 * time.Second

// postJSON sends payload to url and maps unexpected statuses to an error.
func postJSON(ctx context.Context, client *http.Client, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotificationFailed, err.Error())
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotificationFailed, err.Error())
	}

	request.Header.Set("User-Agent", userAgentString())
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotificationFailed, err.Error())
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: unexpected status code %d", ErrNotificationFailed, response.StatusCode)
	}
	return nil
}

// userAgentString builds the User-Agent header sent on outbound calls.
func userAgentString() string {
	return info.AppName + "/" + info.Version
}
