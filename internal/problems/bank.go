/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package problems keeps the local bank of factoring exercises in an
// embedded SQLite database. The bank seeds itself with a starter set and
// supports JSON import/export for sharing problem collections.
package problems

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"algebratiles/internal/factor"
	applog "algebratiles/internal/log"
	"algebratiles/internal/version"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	BankFileName = "problems.sqlite"

	// schemaVersion tracks the local SQLite schema for the problem bank.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 2
)

// Problem is one factoring exercise: the quadratic a·x² + b·x + c plus
// lightweight curriculum metadata.
type Problem struct {
	ID         int64  `json:"id,omitempty"`
	A          int    `json:"a"`
	B          int    `json:"b"`
	C          int    `json:"c"`
	Difficulty int    `json:"difficulty"`
	Topic      string `json:"topic,omitempty"`
}

// Equation renders the problem statement.
func (p Problem) Equation() string { return factor.FormatQuadratic(p.A, p.B, p.C) }

// Bank wraps the SQLite-backed problem store.
type Bank struct {
	db *sql.DB
}

// collectionSchema validates imported problem collections.
const collectionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "ProblemCollection",
  "type": "object",
  "required": ["problems"],
  "properties": {
    "problems": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["a", "b", "c"],
        "properties": {
          "a": {"type": "integer"},
          "b": {"type": "integer"},
          "c": {"type": "integer"},
          "difficulty": {"type": "integer", "minimum": 1, "maximum": 5},
          "topic": {"type": "string"}
        }
      }
    }
  }
}`

// Open opens (or creates) the bank database at path, enables WAL mode, and
// ensures the schema exists. Callers own the returned Bank and should Close it.
func Open(path string) (*Bank, error) {
	l := applog.WithOperation(applog.WithComponent("problems"), "bank_open").With(
		slog.String("path", path),
	)
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("bank path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Error("create bank dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create bank dir: %w", err)
	}

	// Use a URI with shared cache and set busy timeout. Convert to forward slashes for SQLite URI.
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Set reasonable connection pool limits for embedded usage.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureBankSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure bank schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("problem bank ready")
	return &Bank{db: db}, nil
}

// Close releases the underlying database.
func (b *Bank) Close() error { return b.db.Close() }

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Update app and timestamp only; keep existing schema for migrations
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func ensureBankSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS problems (
			id         INTEGER PRIMARY KEY,
			a          INTEGER NOT NULL,
			b          INTEGER NOT NULL,
			c          INTEGER NOT NULL,
			difficulty INTEGER NOT NULL DEFAULT 1,
			topic      TEXT    NOT NULL DEFAULT '',
			created_at TEXT    NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure bank schema: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// Do not downgrade; just continue
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_problems_difficulty ON problems(difficulty);`,
				`CREATE UNIQUE INDEX IF NOT EXISTS ux_problems_coeffs ON problems(a, b, c);`,
			}
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
		default:
			// Unknown future step; break
		}
		cur = next
	}
	return nil
}

// Seed inserts the starter problem set when the bank is empty.
func (b *Bank) Seed(ctx context.Context) error {
	var cnt int
	if err := b.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems;`).Scan(&cnt); err != nil {
		return fmt.Errorf("count problems: %w", err)
	}
	if cnt > 0 {
		return nil
	}
	starter := []Problem{
		{A: 1, B: 5, C: 6, Difficulty: 1, Topic: "monic"},
		{A: 1, B: 7, C: 12, Difficulty: 1, Topic: "monic"},
		{A: 1, B: -3, C: 2, Difficulty: 2, Topic: "negative-b"},
		{A: 1, B: 1, C: -2, Difficulty: 3, Topic: "mixed-signs"},
		{A: 1, B: 0, C: -4, Difficulty: 3, Topic: "difference-of-squares"},
		{A: 2, B: 7, C: 3, Difficulty: 4, Topic: "leading-coefficient"},
		{A: 1, B: 3, C: 0, Difficulty: 2, Topic: "common-factor"},
	}
	for _, p := range starter {
		if _, err := b.Add(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Add stores a problem and returns its row ID. Problems must be solvable
// with whole tiles; unsolvable coefficients are rejected up front.
func (b *Bank) Add(ctx context.Context, p Problem) (int64, error) {
	if _, err := factor.Solve(p.A, p.B, p.C); err != nil {
		return 0, fmt.Errorf("problem %s: %w", p.Equation(), err)
	}
	if p.Difficulty <= 0 {
		p.Difficulty = 1
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := b.db.ExecContext(ctx,
		`INSERT INTO problems(a, b, c, difficulty, topic, created_at) VALUES(?,?,?,?,?,?);`,
		p.A, p.B, p.C, p.Difficulty, p.Topic, now)
	if err != nil {
		return 0, fmt.Errorf("insert problem: %w", err)
	}
	return res.LastInsertId()
}

// Get returns the problem with the given ID.
func (b *Bank) Get(ctx context.Context, id int64) (Problem, error) {
	var p Problem
	err := b.db.QueryRowContext(ctx,
		`SELECT id, a, b, c, difficulty, topic FROM problems WHERE id=?;`, id).
		Scan(&p.ID, &p.A, &p.B, &p.C, &p.Difficulty, &p.Topic)
	if errors.Is(err, sql.ErrNoRows) {
		return Problem{}, fmt.Errorf("problem %d not found", id)
	}
	if err != nil {
		return Problem{}, fmt.Errorf("read problem: %w", err)
	}
	return p, nil
}

// List returns problems ordered by difficulty then ID. difficulty 0 lists all.
func (b *Bank) List(ctx context.Context, difficulty int) ([]Problem, error) {
	q := `SELECT id, a, b, c, difficulty, topic FROM problems`
	args := []any{}
	if difficulty > 0 {
		q += ` WHERE difficulty=?`
		args = append(args, difficulty)
	}
	q += ` ORDER BY difficulty, id;`
	rows, err := b.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}
	defer rows.Close()
	var out []Problem
	for rows.Next() {
		var p Problem
		if err := rows.Scan(&p.ID, &p.A, &p.B, &p.C, &p.Difficulty, &p.Topic); err != nil {
			return nil, fmt.Errorf("scan problem: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes a problem by ID.
func (b *Bank) Delete(ctx context.Context, id int64) error {
	res, err := b.db.ExecContext(ctx, `DELETE FROM problems WHERE id=?;`, id)
	if err != nil {
		return fmt.Errorf("delete problem: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("problem %d not found", id)
	}
	return nil
}

type collection struct {
	Problems []Problem `json:"problems"`
}

// ImportJSON validates data against the collection schema and inserts every
// problem. Duplicate coefficient triples are skipped silently.
func (b *Bank) ImportJSON(ctx context.Context, data []byte) (int, error) {
	schemaLoader := gojsonschema.NewStringLoader(collectionSchema)
	docLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return 0, fmt.Errorf("validate collection: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return 0, fmt.Errorf("collection does not match schema: %s", strings.Join(msgs, "; "))
	}

	var col collection
	if err := json.Unmarshal(data, &col); err != nil {
		return 0, fmt.Errorf("decode collection: %w", err)
	}
	inserted := 0
	for _, p := range col.Problems {
		p.ID = 0
		if _, err := b.Add(ctx, p); err != nil {
			if strings.Contains(err.Error(), "UNIQUE") {
				continue
			}
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// ExportJSON renders the whole bank as a shareable collection document.
func (b *Bank) ExportJSON(ctx context.Context) ([]byte, error) {
	probs, err := b.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(collection{Problems: probs}, "", "  ")
}
