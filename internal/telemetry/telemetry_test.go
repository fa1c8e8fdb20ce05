/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// capture collects POST bodies per path.
type capture struct {
	mu     sync.Mutex
	bodies map[string][][]byte
}

func newCaptureServer() (*capture, *httptest.Server) {
	c := &capture{bodies: make(map[string][][]byte)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		c.mu.Lock()
		c.bodies[r.URL.Path] = append(c.bodies[r.URL.Path], append([]byte(nil), b...))
		c.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	return c, srv
}

func (c *capture) count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.bodies[path])
}

func (c *capture) first(path string) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.bodies[path]) == 0 {
		return nil
	}
	return c.bodies[path][0]
}

func TestReporter_SolveEventAndCrashUpload(t *testing.T) {
	seen, srv := newCaptureServer()
	defer srv.Close()

	r := New(Config{
		OptIn:     true,
		EventsURL: srv.URL + "/events",
		CrashURL:  srv.URL + "/crash",
		Timeout:   2 * time.Second,
	})
	defer r.Close()

	if !r.Enabled() {
		t.Fatalf("reporter with opt-in and endpoint must be enabled")
	}

	r.Solve(1, 5, 6, true)
	r.UploadCrash([]byte("goroutine 1 [running]"))
	r.Flush(context.Background())

	if seen.count("/events") == 0 {
		t.Fatalf("solve event never posted")
	}
	var rec struct {
		Name  string         `json:"name"`
		TS    string         `json:"ts"`
		Props map[string]any `json:"props"`
	}
	if err := json.Unmarshal(seen.first("/events"), &rec); err != nil {
		t.Fatalf("event body is not json: %v", err)
	}
	if rec.Name != "solve" || rec.TS == "" {
		t.Fatalf("bad envelope: %+v", rec)
	}
	// json numbers decode as float64
	if rec.Props["b"] != float64(5) || rec.Props["factored"] != true {
		t.Fatalf("solve props lost: %v", rec.Props)
	}

	if seen.count("/crash") == 0 {
		t.Fatalf("crash report never posted")
	}
	if got := string(seen.first("/crash")); got != "goroutine 1 [running]" {
		t.Fatalf("crash body altered: %q", got)
	}
}

func TestFromEnv_ConfiguresDefault(t *testing.T) {
	t.Setenv("ALT_TELEMETRY_OPT_IN", "yes")
	t.Setenv("ALT_TELEMETRY_URL", " http://127.0.0.1:0/events ")
	t.Setenv("ALT_CRASH_UPLOAD_URL", "")
	t.Setenv("ALT_TELEMETRY_TIMEOUT_MS", "250")

	cfg := FromEnv()
	if !cfg.OptIn {
		t.Fatalf("opt-in not parsed")
	}
	if cfg.EventsURL != "http://127.0.0.1:0/events" {
		t.Fatalf("events url not trimmed: %q", cfg.EventsURL)
	}
	if cfg.Timeout != 250*time.Millisecond {
		t.Fatalf("timeout = %v, want 250ms", cfg.Timeout)
	}

	NewDefault(cfg)
	if !Enabled() {
		t.Fatalf("default reporter should be enabled with this env")
	}
}
