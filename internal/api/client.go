// Copyright 2025 ScholarDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package api is the thin fetch side of the portal: decoded-JSON GETs with
// retry on transient failures. The cache layer never calls it; callers fetch
// here and feed results into the cache services.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"
	log "github.com/sirupsen/logrus"

	"github.com/26JATIN/scholardesk-sub002/internal/util"
)

// Client fetches decoded JSON from the portal backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// transientStatusError marks 5xx responses as retryable.
type transientStatusError struct {
	status int
}

func (e *transientStatusError) Error() string {
	return fmt.Sprintf("portal returned status %d", e.status)
}

// GetJSON fetches path with the given query and returns the decoded JSON
// object. Retries transient failures (network errors, 5xx); 4xx fails
// immediately.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values) (map[string]any, error) {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return util.RetryWithResult(ctx, func() (map[string]any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		log.WithField("url", u).Debug("portal fetch")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			io.Copy(io.Discard, resp.Body)
			return nil, &transientStatusError{status: resp.StatusCode}
		}
		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return nil, retry.Unrecoverable(fmt.Errorf("portal returned status %d", resp.StatusCode))
		}

		var body map[string]any
		dec := json.NewDecoder(resp.Body)
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			return nil, retry.Unrecoverable(fmt.Errorf("decode portal response: %w", err))
		}
		return body, nil
	}, util.NetworkRetryOptions(ctx)...)
}
