/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal HTTP client for the results API.
// The desktop app uses it under a feature flag; the token comes from the
// OS keyring via the config layer.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new backend client. baseURL may include a trailing slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Result is one submitted factoring attempt.
type Result struct {
	ID         int64     `json:"id,omitempty"`
	Student    string    `json:"student"`
	A          int       `json:"a"`
	B          int       `json:"b"`
	C          int       `json:"c"`
	Factors    string    `json:"factors"`
	Valid      bool      `json:"valid"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// SubmitResult posts a solved (or attempted) problem and returns the row ID.
func (c *Client) SubmitResult(ctx context.Context, res Result) (int64, error) {
	var reply struct {
		ID int64 `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/results", res, &reply); err != nil {
		return 0, err
	}
	return reply.ID, nil
}

// ListResults returns recent submissions, optionally filtered by student.
func (c *Client) ListResults(ctx context.Context, student string) ([]Result, error) {
	path := "/api/results"
	if student != "" {
		path += "?student=" + url.QueryEscape(student)
	}
	var list []Result
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FetchToken requests a bearer token from the server's dev auth endpoint.
func (c *Client) FetchToken(ctx context.Context, subject string, ttl time.Duration) (string, error) {
	body := map[string]any{"subject": subject, "ttl_seconds": int64(ttl.Seconds())}
	var reply struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/token", body, &reply); err != nil {
		return "", err
	}
	return reply.Token, nil
}
