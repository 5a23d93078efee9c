// Copyright 2025 Fossil Data

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dbapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/stockparfait/logging"
)

// get performs a blocking GET with the client's retry policy: up to Retries
// total attempts, waiting attempt*RetryDelay before the next one. Only
// transport-level failures are retried; a received HTTP response never is,
// whatever its status. A non-success status yields a service error carrying
// the JSON error envelope text when the body contains one.
func (c *Client) get(ctx context.Context, uri, accept string) ([]byte, error) {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	retries := c.Retries
	if retries <= 0 {
		retries = DefaultRetries
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	delay := c.RetryDelay
	if delay <= 0 {
		delay = DefaultRetryDelay
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		if attempt > 1 {
			wait := time.Duration(attempt-1) * delay
			logging.Warningf(ctx, "GET %s failed, retrying in %s (attempt %d of %d)",
				uri, wait, attempt, retries)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, errorf(KindTransport, ctx.Err(), "request canceled")
			}
		}
		body, retryable, err := attemptGet(ctx, httpClient, uri, accept, timeout)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// attemptGet performs one attempt. The second return value reports whether a
// failure is retryable: only errors of the HTTP round trip itself are, and
// not when the caller's context is already done. A malformed URL never left
// the process, so it is a configuration mistake, not a transport failure.
func attemptGet(ctx context.Context, httpClient *http.Client, uri, accept string,
	timeout time.Duration) ([]byte, bool, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, false, errorf(KindConfiguration, err, "invalid request URL '%s'", uri)
	}
	req.Header.Set("Accept", accept)

	resp, err := httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, errorf(KindTransport, err, "request canceled")
		}
		return nil, true, errorf(KindTransport, err, "GET %s failed", uri)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, errorf(KindTransport, err, "failed to read response body of %s", uri)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if msg := envelopeMessage(body); msg != "" {
			return nil, false, errorf(KindService, nil, "GET %s: %s: %s", uri, resp.Status, msg)
		}
		return nil, false, errorf(KindService, nil, "GET %s: %s", uri, resp.Status)
	}
	return body, false, nil
}
