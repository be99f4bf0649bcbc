/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package layout

import (
	"reflect"
	"strings"
	"testing"

	"screenmd/internal/screenplay"
	"screenmd/internal/textmetrics"
)

func testOptions() Options {
	return Options{Geometry: USLetter(), FontSize: 12}
}

func TestPaginateDeterministic(t *testing.T) {
	doc := screenplay.Parse("### INT. A - DAY\n\n@b\nSome dialogue that is long enough to wrap across a couple of lines when measured in Courier twelve point.\n\nAction text.\n")
	prov := textmetrics.CourierProvider{}
	p1, err := Paginate(doc, prov, testOptions())
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	p2, err := Paginate(doc, prov, testOptions())
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if !reflect.DeepEqual(p1, p2) {
		t.Fatalf("same input produced different page sequences")
	}
}

func TestPaginateRejectsBadGeometry(t *testing.T) {
	doc := screenplay.Parse("x\n")
	opts := testOptions()
	opts.Geometry.MarginTop = 6 * PointsPerInch
	opts.Geometry.MarginBot = 6 * PointsPerInch
	if _, err := Paginate(doc, textmetrics.CourierProvider{}, opts); err == nil {
		t.Fatalf("overlapping margins must fail")
	}
	opts = testOptions()
	opts.FontSize = 0
	if _, err := Paginate(doc, textmetrics.CourierProvider{}, opts); err == nil {
		t.Fatalf("zero font size must fail")
	}
}

func TestWrapLineLaws(t *testing.T) {
	prov := textmetrics.CourierProvider{}
	const size = 12.0
	maxW := 30 * prov.Width("x", textmetrics.StyleNormal, size) // 30 chars

	text := "the quick brown fox jumps over the lazy dog and keeps on running"
	lines := WrapLine(prov, text, textmetrics.StyleNormal, size, maxW)
	if len(lines) < 2 {
		t.Fatalf("expected a wrap, got %v", lines)
	}
	for _, ln := range lines {
		if w := prov.Width(ln, textmetrics.StyleNormal, size); w > maxW {
			t.Errorf("line %q wider than budget: %v > %v", ln, w, maxW)
		}
	}
	if got := strings.Join(lines, " "); got != text {
		t.Fatalf("wrap lost or reordered words:\n%q\n%q", text, got)
	}
	// Greedy: moving the first word of any line up would overflow.
	for i := 1; i < len(lines); i++ {
		first := strings.Fields(lines[i])[0]
		test := lines[i-1] + " " + first
		if prov.Width(test, textmetrics.StyleNormal, size) <= maxW {
			t.Errorf("line %d not greedy: %q still fits", i-1, test)
		}
	}
}

func TestWrapLineOverlongTokenOverflows(t *testing.T) {
	prov := textmetrics.CourierProvider{}
	const size = 12.0
	maxW := 10 * prov.Width("x", textmetrics.StyleNormal, size)
	token := strings.Repeat("a", 25)
	lines := WrapLine(prov, "tiny "+token+" end", textmetrics.StyleNormal, size, maxW)
	found := false
	for _, ln := range lines {
		if ln == token {
			found = true
		}
		if strings.Contains(ln, token[:11]) && ln != token {
			t.Fatalf("overlong token was split: %v", lines)
		}
	}
	if !found {
		t.Fatalf("overlong token missing from %v", lines)
	}
}

func TestPaginateHardBreak(t *testing.T) {
	doc := screenplay.Parse("First page text.\n\n---\n\nSecond page text.\n")
	pages, err := Paginate(doc, textmetrics.CourierProvider{}, testOptions())
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("want 2 pages, got %d", len(pages))
	}
	if len(pages[0].Lines) != 1 || pages[0].Lines[0].Text != "First page text." {
		t.Fatalf("page 1: %+v", pages[0].Lines)
	}
	if len(pages[1].Lines) != 1 || pages[1].Lines[0].Text != "Second page text." {
		t.Fatalf("page 2: %+v", pages[1].Lines)
	}
}

func TestPaginateTransitionRightAligned(t *testing.T) {
	doc := screenplay.Parse(">> cut to\n")
	prov := textmetrics.CourierProvider{}
	opts := testOptions()
	pages, err := Paginate(doc, prov, opts)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(pages) != 1 || len(pages[0].Lines) != 1 {
		t.Fatalf("unexpected layout: %+v", pages)
	}
	ln := pages[0].Lines[0]
	if ln.Text != "CUT TO:" {
		t.Fatalf("text %q", ln.Text)
	}
	g := opts.Geometry
	wantX := g.PageWidth - g.TransitionRight - prov.Width("CUT TO:", ln.Style, opts.FontSize)
	if diff := ln.X - wantX; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("right edge: x=%v want %v", ln.X, wantX)
	}
}

func TestPaginateSceneHeadingBold(t *testing.T) {
	doc := screenplay.Parse("### INT. A - DAY\n\nAction.\n")
	pages, err := Paginate(doc, textmetrics.CourierProvider{}, testOptions())
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	lines := pages[0].Lines
	if lines[0].Style != textmetrics.StyleBold {
		t.Fatalf("scene heading must be bold")
	}
	if lines[1].Style != textmetrics.StyleNormal {
		t.Fatalf("action must be regular weight")
	}
}

func TestPaginateIndents(t *testing.T) {
	doc := screenplay.Parse("Action line.\n\n@alex\n(beat)\nDialogue line.\n")
	pages, err := Paginate(doc, textmetrics.CourierProvider{}, testOptions())
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	xs := map[string]float64{}
	for _, ln := range pages[0].Lines {
		xs[ln.Text] = ln.X
	}
	want := map[string]float64{
		"Action line.":   1.5 * PointsPerInch,
		"ALEX":           3.5 * PointsPerInch,
		"(beat)":         3.0 * PointsPerInch,
		"Dialogue line.": 2.5 * PointsPerInch,
	}
	for text, x := range want {
		if xs[text] != x {
			t.Errorf("%q at x=%v, want %v", text, xs[text], x)
		}
	}
}

func TestPaginateSoftBreak(t *testing.T) {
	// Enough one-line action blocks to overflow a page.
	var sb strings.Builder
	for i := 0; i < 80; i++ {
		sb.WriteString("A line of action.\n\n")
	}
	opts := testOptions()
	pages, err := Paginate(screenplay.Parse(sb.String()), textmetrics.CourierProvider{}, opts)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(pages) < 2 {
		t.Fatalf("expected overflow onto a second page, got %d", len(pages))
	}
	bottom := opts.Geometry.PageHeight - opts.Geometry.MarginBot
	met := textmetrics.CourierProvider{}.Metrics(opts.FontSize)
	for pi, pg := range pages {
		for _, ln := range pg.Lines {
			if ln.Baseline+met.Descent > bottom {
				t.Fatalf("page %d: baseline %v crosses bottom margin", pi+1, ln.Baseline)
			}
		}
	}
}

func TestPaginateTitleHeaderOnEveryPage(t *testing.T) {
	doc := screenplay.Parse("One.\n\n---\n\nTwo.\n")
	opts := testOptions()
	opts.Title = "My Script"
	pages, err := Paginate(doc, textmetrics.CourierProvider{}, opts)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	for pi, pg := range pages {
		if len(pg.Lines) == 0 || pg.Lines[0].Text != "My Script" || pg.Lines[0].Block != -1 {
			t.Fatalf("page %d lacks the title header: %+v", pi+1, pg.Lines)
		}
	}
}
