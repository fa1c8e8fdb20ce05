/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestFromEnv_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("ALT_LOG_LEVEL", "")
	t.Setenv("ALT_LOG_FORMAT", "")
	t.Setenv("ALT_LOG_SOURCE", "")
	t.Setenv("ALT_LOG_FILE", "")
	opts := FromEnv()
	if opts.Level != "info" || opts.Format != "console" || opts.AddSource {
		t.Fatalf("defaults wrong: %+v", opts)
	}

	t.Setenv("ALT_LOG_LEVEL", "error")
	t.Setenv("ALT_LOG_FORMAT", "json")
	t.Setenv("ALT_LOG_SOURCE", "TRUE")
	t.Setenv("ALT_LOG_FILE", "/tmp/alt.log")
	opts = FromEnv()
	if opts.Level != "error" || opts.Format != "json" || !opts.AddSource || opts.File != "/tmp/alt.log" {
		t.Fatalf("overrides not picked up: %+v", opts)
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel(" WARNING ") != slog.LevelWarn {
		t.Fatalf("warning alias not recognized")
	}
	if parseLevel("garbage") != slog.LevelInfo {
		t.Fatalf("unknown level must fall back to info")
	}
}

func TestPrettyTextHandler_FiltersAndFormats(t *testing.T) {
	var buf bytes.Buffer
	base := &prettyTextHandler{opts: prettyOpts{Level: slog.LevelInfo}, w: &buf}

	if base.Enabled(nil, slog.LevelDebug) {
		t.Fatalf("debug must be filtered at info level")
	}

	h := base.WithGroup("drag").WithAttrs([]slog.Attr{slog.String("tile", "bar-3")})
	rec := slog.Record{Time: time.Now(), Level: slog.LevelWarn, Message: "snap rejected"}
	rec.AddAttrs(slog.Int("dx", 7), slog.Bool("overlap", true))
	if err := h.Handle(nil, rec); err != nil {
		t.Fatalf("handle: %v", err)
	}

	line := buf.String()
	for _, want := range []string{"WRN", "snap rejected", "drag.tile=bar-3", "drag.dx=7", "drag.overlap=true"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line missing %q: %q", want, line)
		}
	}
}

func TestLevelString_PassthroughForCustomLevels(t *testing.T) {
	if got := levelString(slog.Level(2)); got == "" || got == "INF" {
		t.Fatalf("custom level should not map to a known tag: %q", got)
	}
}
