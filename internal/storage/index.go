/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage maintains a per-workspace SQLite full-text index over
// parsed script blocks, so drafts stay searchable without reparsing.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	applog "screenmd/internal/log"
	"screenmd/internal/screenplay"
	"screenmd/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-workspace index data under the workspace root.
	IndexDirName  = ".smd"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this on breaking schema changes and add a migration step.
	schemaVersion = 1
)

// IndexPath returns the full path to the workspace's index database file.
func IndexPath(root string) string {
	return filepath.Join(root, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures the per-workspace SQLite index exists at
// .smd/index.sqlite, opens it, enables WAL mode, and ensures the meta,
// version, and block tables exist. Callers close the returned *sql.DB.
func InitOrOpenIndex(root string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", root),
	)
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("workspace root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, IndexDirName), 0o755); err != nil {
		l.Error("create .smd dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .smd dir: %w", err)
	}

	path := IndexPath(root)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("index ready", slog.String("path", path))
	return db, nil
}

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
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// ensureIndexSchema creates the block table and FTS structures if missing.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// One row per parsed block. elem is the element ordinal within the
		// script, character is the speaking character for dialogue rows.
		`CREATE TABLE IF NOT EXISTS blocks (
			block_id  INTEGER PRIMARY KEY,
			script    TEXT    NOT NULL,
			ordinal   INTEGER NOT NULL,
			elem      INTEGER NOT NULL,
			kind      TEXT    NOT NULL,
			character TEXT,
			scene     TEXT,
			text      TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_script ON blocks(script);`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_kind ON blocks(kind);`,

		// External-content FTS5 index backed by blocks, kept in sync via
		// triggers. External content keeps snippet() and highlight() working.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_blocks USING fts5(
			text,
			content='blocks',
			content_rowid='block_id',
			tokenize = 'unicode61'
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS blocks_ai AFTER INSERT ON blocks BEGIN
			INSERT INTO fts_blocks(rowid, text) VALUES (new.block_id, new.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS blocks_ad AFTER DELETE ON blocks BEGIN
			INSERT INTO fts_blocks(fts_blocks, rowid, text) VALUES ('delete', old.block_id, old.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS blocks_au AFTER UPDATE OF text ON blocks BEGIN
			INSERT INTO fts_blocks(fts_blocks, rowid, text) VALUES ('delete', old.block_id, old.text);
			INSERT INTO fts_blocks(rowid, text) VALUES (new.block_id, new.text);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	return nil
}

// Rebuild replaces the indexed rows for script (a workspace-relative name)
// with the blocks of d. Rows of other scripts are untouched.
func Rebuild(ctx context.Context, root, script string, d *screenplay.Document) error {
	if strings.TrimSpace(script) == "" {
		return errors.New("script name is required")
	}
	db, err := InitOrOpenIndex(root)
	if err != nil {
		return err
	}
	defer db.Close()
	return rebuildBlocks(ctx, db, script, d)
}

func rebuildBlocks(ctx context.Context, db *sql.DB, script string, d *screenplay.Document) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM blocks WHERE script=?;", script); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear blocks: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, "INSERT INTO blocks(script, ordinal, elem, kind, character, scene, text) VALUES(?,?,?,?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()

	var character, scene sql.NullString
	for i, b := range d.Blocks {
		switch b.Kind {
		case screenplay.KindSceneHeading:
			scene = sql.NullString{String: b.Text(), Valid: true}
			character = sql.NullString{}
		case screenplay.KindCharacterCue:
			character = sql.NullString{String: b.Text(), Valid: true}
		case screenplay.KindDialogue, screenplay.KindParenthetical:
			// keep the current speaker
		default:
			character = sql.NullString{}
		}
		text := strings.TrimSpace(b.Text())
		if text == "" {
			continue
		}
		if _, err := ins.ExecContext(ctx, script, i, b.Index, b.Kind.String(), character, scene, text); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert block: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
