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
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientSubmitAndList(t *testing.T) {
	var stored []Result
	mux := http.NewServeMux()
	mux.HandleFunc("/api/results", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.Method {
		case http.MethodPost:
			b, _ := io.ReadAll(r.Body)
			var res Result
			if err := json.Unmarshal(b, &res); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			res.ID = int64(len(stored) + 1)
			stored = append(stored, res)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": res.ID})
		case http.MethodGet:
			student := r.URL.Query().Get("student")
			var out []Result
			for _, res := range stored {
				if student == "" || res.Student == student {
					out = append(out, res)
				}
			}
			_ = json.NewEncoder(w).Encode(out)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok123")
	ctx := context.Background()

	id, err := c.SubmitResult(ctx, Result{Student: "ada", A: 1, B: 5, C: 6, Factors: "(x + 2)(x + 3)", Valid: true, DurationMs: 42000})
	if err != nil {
		t.Fatalf("SubmitResult: %v", err)
	}
	if id != 1 {
		t.Fatalf("id = %d, want 1", id)
	}
	if _, err := c.SubmitResult(ctx, Result{Student: "bob", A: 1, B: 0, C: -4, Valid: false}); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	list, err := c.ListResults(ctx, "ada")
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(list) != 1 || list[0].Factors != "(x + 2)(x + 3)" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestClientAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad")
	if _, err := c.ListResults(context.Background(), ""); err == nil {
		t.Fatalf("expected error on 401")
	}
}

func TestTokenSignVerifyRoundTrip(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	tok, err := signToken("s3cret", "ada", exp)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sub, err := verifyToken("s3cret", tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "ada" {
		t.Fatalf("subject = %q", sub)
	}
	// wrong secret fails
	if _, err := verifyToken("other", tok); err == nil {
		t.Fatalf("verify with wrong secret must fail")
	}
	// expired token fails
	old, err := signToken("s3cret", "ada", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign expired: %v", err)
	}
	if _, err := verifyToken("s3cret", old); err == nil {
		t.Fatalf("expired token must fail")
	}
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0001_init.sql")
	if err != nil || v != 1 {
		t.Fatalf("parseVersion = %d, %v", v, err)
	}
	if _, err := parseVersion("nope.sql"); err == nil {
		t.Fatalf("expected parse error")
	}
}
