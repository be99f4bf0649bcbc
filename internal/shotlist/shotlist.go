/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package shotlist derives a scene/shot index from a parsed document and
// writes it as CSV, a Markdown table, or a positioned page sequence.
package shotlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"screenmd/internal/entities"
	"screenmd/internal/screenplay"
)

// RowType distinguishes scene and shot rows.
type RowType string

const (
	RowScene RowType = "SCENE"
	RowShot  RowType = "SHOT"
)

// Row is one shot list entry. No is 1-based. Summary is the first Action text
// between this heading and the next heading of either kind, whitespace
// collapsed and capped at SummaryMax runes; empty when no such Action exists.
type Row struct {
	No      int
	Type    RowType
	Heading string
	Summary string
}

// SummaryMax caps summary length in runes.
const SummaryMax = 120

// Build walks the document in source order and emits one row per scene or
// shot heading.
func Build(d *screenplay.Document) []Row {
	var rows []Row
	for i, b := range d.Blocks {
		var rt RowType
		switch b.Kind {
		case screenplay.KindSceneHeading:
			rt = RowScene
		case screenplay.KindShotHeading:
			rt = RowShot
		default:
			continue
		}
		rows = append(rows, Row{
			No:      len(rows) + 1,
			Type:    rt,
			Heading: b.Text(),
			Summary: summaryAfter(d, i),
		})
	}
	return rows
}

func summaryAfter(d *screenplay.Document, i int) string {
	text, ok := d.NextActionAfter(i)
	if !ok {
		return ""
	}
	return Truncate(strings.Join(strings.Fields(text), " "), SummaryMax)
}

// Truncate shortens s to max runes, marking the cut with an ellipsis.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// WriteCSV emits rows with the header type,heading,summary. When inv is
// non-nil, an entity inventory section follows after a blank record.
func WriteCSV(w io.Writer, rows []Row, inv *entities.Inventory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"type", "heading", "summary"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write([]string{string(r.Type), r.Heading, r.Summary}); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.No, err)
		}
	}
	if inv != nil {
		if err := cw.Write([]string{""}); err != nil {
			return fmt.Errorf("write csv separator: %w", err)
		}
		if err := cw.Write([]string{"category", "name", "count", "first_mention"}); err != nil {
			return fmt.Errorf("write csv inventory header: %w", err)
		}
		for _, cat := range []struct {
			name string
			es   []entities.Entity
		}{
			{"character", inv.Characters},
			{"location", inv.Locations},
			{"object", inv.Objects},
		} {
			for _, e := range cat.es {
				rec := []string{cat.name, e.Name, strconv.Itoa(e.Count), strconv.Itoa(e.FirstIndex)}
				if err := cw.Write(rec); err != nil {
					return fmt.Errorf("write csv inventory row: %w", err)
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMarkdown emits a Markdown table, optionally followed by sorted entity
// inventory sections.
func WriteMarkdown(w io.Writer, rows []Row, inv *entities.Inventory) error {
	var sb strings.Builder
	sb.WriteString("| # | Type | Heading | Summary |\n")
	sb.WriteString("|---|------|---------|---------|\n")
	for _, r := range rows {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n", r.No, r.Type, mdEscape(r.Heading), mdEscape(r.Summary))
	}
	if inv != nil {
		sb.WriteString("\n## Entity Inventory\n")
		writeSection := func(title string, es []entities.Entity) {
			if len(es) == 0 {
				return
			}
			fmt.Fprintf(&sb, "\n### %s\n\n", title)
			sb.WriteString("| Name | Count | First Mention |\n")
			sb.WriteString("|------|-------|---------------|\n")
			for _, e := range entities.SortByCount(es) {
				fmt.Fprintf(&sb, "| %s | %d | %d |\n", mdEscape(e.Name), e.Count, e.FirstIndex)
			}
		}
		writeSection("Characters", inv.Characters)
		writeSection("Locations", inv.Locations)
		writeSection("Objects / Props", inv.Objects)
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func mdEscape(s string) string { return strings.ReplaceAll(s, "|", `\|`) }
