/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry reports anonymous, strictly opt-in usage events (solve
// and check outcomes) and crash uploads. With no endpoint configured every
// call degrades to a no-op.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	applog "algebratiles/internal/log"
	"algebratiles/internal/version"
)

// Config holds telemetry and crash-upload settings. Everything is disabled
// unless the user opts in AND an endpoint is configured.
//
// Environment variables (read by FromEnv):
//   - ALT_TELEMETRY_OPT_IN: "1", "true", "yes", "on" to enable
//   - ALT_TELEMETRY_URL: endpoint to POST JSON events to
//   - ALT_CRASH_UPLOAD_URL: endpoint to POST crash reports to
//   - ALT_TELEMETRY_TIMEOUT_MS: request timeout, default 1500ms
//   - ALT_TELEMETRY_DEBUG: if set, logs each post attempt
type Config struct {
	OptIn     bool
	EventsURL string
	CrashURL  string
	Timeout   time.Duration
	Verbose   bool
}

// FromEnv builds a Config from the ALT_TELEMETRY_* environment variables.
func FromEnv() Config {
	cfg := Config{
		OptIn:     truthy(os.Getenv("ALT_TELEMETRY_OPT_IN")),
		EventsURL: strings.TrimSpace(os.Getenv("ALT_TELEMETRY_URL")),
		CrashURL:  strings.TrimSpace(os.Getenv("ALT_CRASH_UPLOAD_URL")),
		Timeout:   1500 * time.Millisecond,
		Verbose:   os.Getenv("ALT_TELEMETRY_DEBUG") != "",
	}
	if ms := strings.TrimSpace(os.Getenv("ALT_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if d, err := time.ParseDuration(ms + "ms"); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// record is the wire payload for one event. Props carry only coarse,
// non-identifying values (coefficients, verdicts, counts).
type record struct {
	Name    string         `json:"name"`
	TS      string         `json:"ts"`
	Version string         `json:"version"`
	OS      string         `json:"os"`
	Arch    string         `json:"arch"`
	Props   map[string]any `json:"props,omitempty"`
}

// job is one unit of work for the sender goroutine. Exactly one field is
// set: an event record, a raw crash report, or a flush marker.
type job struct {
	rec    *record
	crash  []byte
	closed chan struct{}
}

// Reporter queues events on a bounded channel and posts them from a single
// background goroutine. Full queue or failed post means the event is
// dropped; reporting never blocks the caller.
type Reporter struct {
	cfg  Config
	log  *slog.Logger
	http *http.Client
	jobs chan job
	stop chan struct{}
	once sync.Once
}

var (
	defaultReporter *Reporter
	defaultOnce     sync.Once
)

// InitDefault initializes the package-level reporter from env on first use.
func InitDefault() {
	defaultOnce.Do(func() { NewDefault(FromEnv()) })
}

// NewDefault installs cfg as the package-level reporter.
func NewDefault(cfg Config) {
	defaultReporter = New(cfg)
}

// New constructs a reporter and starts its sender goroutine.
func New(cfg Config) *Reporter {
	r := &Reporter{
		cfg:  cfg,
		log:  applog.WithComponent("telemetry"),
		http: &http.Client{Timeout: cfg.Timeout},
		jobs: make(chan job, 64),
		stop: make(chan struct{}),
	}
	go r.run()
	return r
}

// Enabled reports whether usage events would actually be sent.
func (r *Reporter) Enabled() bool { return r != nil && r.cfg.OptIn && r.cfg.EventsURL != "" }

// Enabled reports whether the default reporter would send usage events.
func Enabled() bool {
	InitDefault()
	return defaultReporter.Enabled()
}

// Event queues a named event. Props must be non-PII; nil is fine.
func (r *Reporter) Event(name string, props map[string]any) {
	if !r.Enabled() || name == "" {
		return
	}
	rec := &record{
		Name:    name,
		TS:      time.Now().UTC().Format(time.RFC3339Nano),
		Version: version.String(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
	if len(props) > 0 {
		rec.Props = make(map[string]any, len(props))
		for k, v := range props {
			rec.Props[k] = v
		}
	}
	select {
	case r.jobs <- job{rec: rec}:
	default:
		// queue full, drop
	}
}

// Solve records a factoring request: the quadratic's coefficients and
// whether a nice rectangle exists.
func (r *Reporter) Solve(a, b, c int, factored bool) {
	r.Event("solve", map[string]any{"a": a, "b": b, "c": c, "factored": factored})
}

// Check records a board validation and its verdict.
func (r *Reporter) Check(a, b, c int, valid bool, tiles int) {
	r.Event("check", map[string]any{"a": a, "b": b, "c": c, "valid": valid, "tiles": tiles})
}

// Event queues a named event on the default reporter.
func Event(name string, props map[string]any) { InitDefault(); defaultReporter.Event(name, props) }

// Solve records a factoring request on the default reporter.
func Solve(a, b, c int, factored bool) { InitDefault(); defaultReporter.Solve(a, b, c, factored) }

// Check records a board validation on the default reporter.
func Check(a, b, c int, valid bool, tiles int) {
	InitDefault()
	defaultReporter.Check(a, b, c, valid, tiles)
}

// UploadCrash queues an already-serialized crash report for the crash
// endpoint. Works even when usage events are unconfigured, as long as the
// user opted in.
func (r *Reporter) UploadCrash(report []byte) {
	if r == nil || !r.cfg.OptIn || r.cfg.CrashURL == "" || len(report) == 0 {
		return
	}
	select {
	case r.jobs <- job{crash: append([]byte(nil), report...)}:
	default:
	}
}

// UploadCrash queues a crash report on the default reporter.
func UploadCrash(report []byte) { InitDefault(); defaultReporter.UploadCrash(report) }

// Flush waits until everything queued before the call has been posted, up
// to 500ms. A nil ctx is treated as context.Background().
func (r *Reporter) Flush(ctx context.Context) {
	if r == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	marker := make(chan struct{})
	select {
	case r.jobs <- job{closed: marker}:
	case <-r.stop:
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	select {
	case <-marker:
	case <-ctx.Done():
	case <-r.stop:
	}
}

// Flush drains the default reporter's queue.
func Flush(ctx context.Context) { InitDefault(); defaultReporter.Flush(ctx) }

// Close stops the sender goroutine; queued jobs are discarded.
func (r *Reporter) Close() { r.once.Do(func() { close(r.stop) }) }

// run is the sender loop. Jobs are posted in queue order, so a flush
// marker proves everything ahead of it went out.
func (r *Reporter) run() {
	for {
		select {
		case <-r.stop:
			return
		case j := <-r.jobs:
			switch {
			case j.closed != nil:
				close(j.closed)
			case j.crash != nil:
				r.post(r.cfg.CrashURL, "text/plain; charset=utf-8", j.crash)
			case j.rec != nil:
				if buf, err := json.Marshal(j.rec); err == nil {
					r.post(r.cfg.EventsURL, "application/json", buf)
				}
			}
		}
	}
}

func (r *Reporter) post(url, contentType string, body []byte) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := r.http.Do(req)
	if err != nil {
		if r.cfg.Verbose {
			r.log.Debug("telemetry post failed", slog.String("url", url), slog.Any("err", err))
		}
		return
	}
	_ = resp.Body.Close()
	if r.cfg.Verbose {
		r.log.Debug("telemetry post ok", slog.String("url", url))
	}
}
