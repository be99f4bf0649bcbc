/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package shotlist

import (
	"strconv"

	"screenmd/internal/entities"
	"screenmd/internal/layout"
	"screenmd/internal/textmetrics"
)

// PageOptions controls the tabular shot list page layout.
type PageOptions struct {
	Geometry layout.Geometry
	FontSize float64 // point size, 0 means 10pt
	Leading  float64 // extra points between baselines, 0 means 2pt
	Title    string  // page header, empty for none
}

const (
	tableSideMargin = 1.0 * layout.PointsPerInch
	columnGap       = 12.0
	noColumnMax     = 36.0
	typeColumnMax   = 54.0
)

// LayoutPages renders rows as a positioned table, one header line with a rule
// under it, then one table row per shot list entry with cell text wrapped to
// the column widths. When inv is non-nil, entity inventory sections follow
// the table. The result feeds the same render surfaces as script pages.
func LayoutPages(rows []Row, inv *entities.Inventory, prov textmetrics.Provider, opts PageOptions) ([]layout.Page, error) {
	if err := opts.Geometry.Validate(); err != nil {
		return nil, err
	}
	size := opts.FontSize
	if size <= 0 {
		size = 10
	}
	leading := opts.Leading
	if leading == 0 {
		leading = 2
	}
	m := prov.Metrics(size)
	lineH := m.Ascent + m.Descent + leading

	g := opts.Geometry
	usable := g.PageWidth - 2*tableSideMargin

	// Fixed-cap columns for number and type, the rest split between heading
	// and summary two to three.
	noW := min(prov.Width("999", textmetrics.StyleBold, size), noColumnMax)
	typeW := min(prov.Width(string(RowScene), textmetrics.StyleBold, size), typeColumnMax)
	rest := usable - noW - typeW - 3*columnGap
	headingW := rest * 2 / 5
	summaryW := rest - headingW

	cols := []struct {
		x, w  float64
		title string
	}{
		{tableSideMargin, noW, "#"},
		{tableSideMargin + noW + columnGap, typeW, "Type"},
		{tableSideMargin + noW + typeW + 2*columnGap, headingW, "Heading"},
		{tableSideMargin + noW + typeW + 2*columnGap + headingW + columnGap, summaryW, "Summary"},
	}

	var pages []layout.Page
	var cur layout.Page
	y := 0.0

	startPage := func(withHeader bool) {
		cur = layout.Page{}
		y = g.MarginTop + m.Ascent
		if opts.Title != "" {
			tw := prov.Width(opts.Title, textmetrics.StyleBold, size)
			cur.Lines = append(cur.Lines, layout.PositionedLine{
				Text: opts.Title, X: (g.PageWidth - tw) / 2,
				Baseline: 0.5*layout.PointsPerInch + m.Ascent,
				Style:    textmetrics.StyleBold, Size: size, Block: -1,
			})
		}
		if withHeader {
			for _, c := range cols {
				cur.Lines = append(cur.Lines, layout.PositionedLine{
					Text: c.title, X: c.x, Baseline: y,
					Style: textmetrics.StyleBold, Size: size, Block: -1,
				})
			}
			cur.Rules = append(cur.Rules, layout.Rule{
				X1: tableSideMargin, X2: g.PageWidth - tableSideMargin,
				Y: y + m.Descent + leading/2,
			})
			y += lineH * 1.5
		}
	}
	flush := func() { pages = append(pages, cur) }
	ensure := func(need float64) {
		if y-m.Ascent+need+m.Descent > g.PageHeight-g.MarginBot {
			flush()
			startPage(true)
		}
	}

	startPage(true)
	for _, r := range rows {
		heading := layout.WrapLine(prov, r.Heading, textmetrics.StyleNormal, size, headingW)
		summary := layout.WrapLine(prov, r.Summary, textmetrics.StyleNormal, size, summaryW)
		tall := max(len(heading), len(summary))
		if tall == 0 {
			tall = 1
		}
		ensure(float64(tall) * lineH)
		cells := [][]string{{strconv.Itoa(r.No)}, {string(r.Type)}, heading, summary}
		for li := 0; li < tall; li++ {
			for ci, c := range cols {
				if li >= len(cells[ci]) || cells[ci][li] == "" {
					continue
				}
				cur.Lines = append(cur.Lines, layout.PositionedLine{
					Text: cells[ci][li], X: c.x, Baseline: y + float64(li)*lineH,
					Style: textmetrics.StyleNormal, Size: size, Block: -1,
				})
			}
		}
		y += float64(tall)*lineH + leading
	}

	if inv != nil {
		emitSection := func(title string, es []entities.Entity) {
			if len(es) == 0 {
				return
			}
			ensure(3 * lineH)
			y += lineH
			cur.Lines = append(cur.Lines, layout.PositionedLine{
				Text: title, X: tableSideMargin, Baseline: y,
				Style: textmetrics.StyleBold, Size: size, Block: -1,
			})
			y += lineH
			for _, e := range entities.SortByCount(es) {
				text := e.Name + " (" + strconv.Itoa(e.Count) + ")"
				for _, line := range layout.WrapLine(prov, text, textmetrics.StyleNormal, size, usable) {
					ensure(lineH)
					cur.Lines = append(cur.Lines, layout.PositionedLine{
						Text: line, X: tableSideMargin, Baseline: y,
						Style: textmetrics.StyleNormal, Size: size, Block: -1,
					})
					y += lineH
				}
			}
		}
		emitSection("CHARACTERS", inv.Characters)
		emitSection("LOCATIONS", inv.Locations)
		emitSection("OBJECTS / PROPS", inv.Objects)
	}

	flush()
	return pages, nil
}
