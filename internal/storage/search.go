/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SearchQuery describes a search over the indexed blocks.
// Text uses SQLite FTS5 syntax (simple terms, phrases in quotes, AND/OR/NOT).
// Filters are optional; Kinds restricts to block kinds like "dialogue" or
// "scene". Limit/Offset paginate, with defaults applied when zero.
type SearchQuery struct {
	Text      string
	Character string
	Scene     string
	Kinds     []string
	Script    string
	Limit     int
	Offset    int
}

// SearchResult is a single match row. Snippet carries a highlighted excerpt
// using [ ] markers when an FTS query was given. Elem is the element ordinal
// within the script.
type SearchResult struct {
	BlockID int64
	Script  string
	Ordinal int
	Elem    int
	Kind    string
	Scene   string
	Snippet string
}

// Search performs full-text search with optional filters over the workspace
// index. When q.Text is empty, it falls back to a plain filtered scan.
func Search(ctx context.Context, root string, q SearchQuery) ([]SearchResult, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("workspace root is required")
	}
	db, err := InitOrOpenIndex(root)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return searchDB(ctx, db, q)
}

func searchDB(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	var args []any
	var sb strings.Builder
	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		sb.WriteString("SELECT b.block_id, b.script, b.ordinal, b.elem, b.kind, COALESCE(b.scene,''), snippet(fts_blocks, 0, '[', ']', '…', 10)\n")
		sb.WriteString("FROM fts_blocks JOIN blocks b ON fts_blocks.rowid = b.block_id\n")
		sb.WriteString("WHERE fts_blocks MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("SELECT b.block_id, b.script, b.ordinal, b.elem, b.kind, COALESCE(b.scene,''), ''\n")
		sb.WriteString("FROM blocks b\nWHERE 1=1\n")
	}
	if s := strings.TrimSpace(q.Script); s != "" {
		sb.WriteString(" AND b.script = ?\n")
		args = append(args, s)
	}
	if len(q.Kinds) > 0 {
		sb.WriteString(" AND b.kind IN (" + placeholders(len(q.Kinds)) + ")\n")
		for _, k := range q.Kinds {
			args = append(args, k)
		}
	}
	if s := strings.TrimSpace(q.Character); s != "" {
		sb.WriteString(" AND b.character IS NOT NULL AND upper(b.character) = ?\n")
		args = append(args, strings.ToUpper(s))
	}
	if s := strings.TrimSpace(q.Scene); s != "" {
		sb.WriteString(" AND lower(b.scene) LIKE ?\n")
		args = append(args, likeContains(strings.ToLower(s)))
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	sb.WriteString("ORDER BY b.script, b.ordinal\n")
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, q.Offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var sn sql.NullString
		if err := rows.Scan(&r.BlockID, &r.Script, &r.Ordinal, &r.Elem, &r.Kind, &r.Scene, &sn); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if sn.Valid {
			r.Snippet = sn.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func likeContains(s string) string { return "%" + s + "%" }

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := strings.Builder{}
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("?")
	}
	return b.String()
}
