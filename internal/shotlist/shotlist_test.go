/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package shotlist

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"screenmd/internal/entities"
	"screenmd/internal/layout"
	"screenmd/internal/screenplay"
	"screenmd/internal/textmetrics"
)

const sample = `### int. kitchen - day

Steam curls from the kettle.

@alex
Anyone home?

! close on the stove
A pot boils over.

### ext. garden - night
`

func TestBuildRows(t *testing.T) {
	rows := Build(screenplay.Parse(sample))
	if len(rows) != 3 {
		t.Fatalf("want 3 rows, got %+v", rows)
	}
	want := []Row{
		{No: 1, Type: RowScene, Heading: "INT. KITCHEN - DAY", Summary: "Steam curls from the kettle."},
		{No: 2, Type: RowShot, Heading: "CLOSE ON THE STOVE", Summary: "A pot boils over."},
		{No: 3, Type: RowScene, Heading: "EXT. GARDEN - NIGHT", Summary: ""},
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d: want %+v, got %+v", i, want[i], rows[i])
		}
	}
}

func TestBuildSummaryCollapsesWhitespace(t *testing.T) {
	rows := Build(screenplay.Parse("### INT. A - DAY\n\nFirst   line.\nSecond line.\n"))
	if rows[0].Summary != "First line. Second line." {
		t.Fatalf("summary: %q", rows[0].Summary)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 130)
	got := Truncate(long, SummaryMax)
	if r := []rune(got); len(r) != SummaryMax {
		t.Fatalf("truncated length %d, want %d", len(r), SummaryMax)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("missing ellipsis: %q", got[len(got)-8:])
	}
	if Truncate("short", SummaryMax) != "short" {
		t.Fatalf("short strings must pass through")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := Build(screenplay.Parse(sample))
	if err := WriteCSV(&buf, rows, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reparse csv: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("want header + 3 rows, got %d", len(recs))
	}
	if strings.Join(recs[0], ",") != "type,heading,summary" {
		t.Fatalf("header: %v", recs[0])
	}
	if recs[1][0] != "SCENE" || recs[2][0] != "SHOT" {
		t.Fatalf("row types: %v %v", recs[1], recs[2])
	}
}

func TestWriteCSVWithInventory(t *testing.T) {
	var buf bytes.Buffer
	doc := screenplay.Parse(sample)
	inv := entities.Extract(doc, entities.Options{})
	if err := WriteCSV(&buf, Build(doc), &inv); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "category,name,count,first_mention") {
		t.Fatalf("inventory header missing:\n%s", out)
	}
	if !strings.Contains(out, "character,ALEX,1,") {
		t.Fatalf("character row missing:\n%s", out)
	}
	if !strings.Contains(out, "location,KITCHEN,") {
		t.Fatalf("location row missing:\n%s", out)
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	rows := []Row{{No: 1, Type: RowScene, Heading: "INT. A | B - DAY", Summary: "x"}}
	if err := WriteMarkdown(&buf, rows, nil); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "| # | Type | Heading | Summary |\n") {
		t.Fatalf("table header missing:\n%s", out)
	}
	if !strings.Contains(out, `INT. A \| B - DAY`) {
		t.Fatalf("pipe not escaped:\n%s", out)
	}
}

func TestLayoutPagesTable(t *testing.T) {
	doc := screenplay.Parse(sample)
	rows := Build(doc)
	inv := entities.Extract(doc, entities.Options{})
	pages, err := LayoutPages(rows, &inv, textmetrics.CourierProvider{}, PageOptions{Geometry: layout.USLetter()})
	if err != nil {
		t.Fatalf("LayoutPages: %v", err)
	}
	if len(pages) == 0 {
		t.Fatalf("no pages")
	}
	if len(pages[0].Rules) == 0 {
		t.Fatalf("header rule missing")
	}
	texts := map[string]bool{}
	for _, ln := range pages[0].Lines {
		texts[ln.Text] = true
	}
	for _, want := range []string{"#", "Type", "Heading", "Summary", "SCENE", "SHOT", "CHARACTERS", "LOCATIONS"} {
		if !texts[want] {
			t.Errorf("missing %q on the page", want)
		}
	}
}

func TestLayoutPagesRejectsBadGeometry(t *testing.T) {
	if _, err := LayoutPages(nil, nil, textmetrics.CourierProvider{}, PageOptions{}); err == nil {
		t.Fatalf("zero geometry must fail")
	}
}
