/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package layout maps a parsed Document onto pages of positioned text runs
// under fixed margin, word-wrap, and page-break rules. Layout is pure: given
// identical text, metrics, and geometry, the page sequence is identical.
package layout

import (
	"fmt"
	"strings"

	"screenmd/internal/screenplay"
	"screenmd/internal/textmetrics"
)

// PositionedLine is one laid-out text run. X is the left edge of the run and
// Baseline its vertical position, both in points from the page's top-left
// corner. Block points back into Document.Blocks.
type PositionedLine struct {
	Text     string
	X        float64
	Baseline float64
	Style    textmetrics.Style
	Size     float64
	Block    int
}

// Rule is a horizontal line between two x coordinates.
type Rule struct {
	X1, X2, Y float64
}

// Page is an ordered sequence of positioned lines plus optional rules.
type Page struct {
	Lines []PositionedLine
	Rules []Rule
}

// Options parameterizes pagination beyond geometry.
type Options struct {
	Geometry Geometry
	FontSize float64
	// Leading is the fixed extra distance between baselines on top of
	// ascent+descent. Defaults to 2pt when zero.
	Leading float64
	// Title, when non-empty, is centered near the top of every page.
	Title string
}

func (o Options) validate() error {
	if err := o.Geometry.Validate(); err != nil {
		return err
	}
	if o.FontSize <= 0 {
		return fmt.Errorf("%w: font size must be positive, got %v", ErrConfig, o.FontSize)
	}
	return nil
}

// Paginate lays the document out into pages. The metrics provider is the only
// source of width and height information, so the result is independent of any
// rendering backend.
func Paginate(doc *screenplay.Document, prov textmetrics.Provider, opts Options) ([]Page, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	leading := opts.Leading
	if leading == 0 {
		leading = 2
	}
	p := &paginator{
		prov:  prov,
		opts:  opts,
		met:   prov.Metrics(opts.FontSize),
		lead:  leading,
		page:  Page{},
		pages: nil,
	}
	p.lineH = p.met.Ascent + p.met.Descent + p.lead
	p.startPage()

	for i, b := range doc.Blocks {
		p.emitBlock(i, b)
	}
	p.pages = append(p.pages, p.page)
	return p.pages, nil
}

type paginator struct {
	prov  textmetrics.Provider
	opts  Options
	met   textmetrics.Metrics
	lead  float64
	lineH float64
	y     float64 // next baseline
	page  Page
	pages []Page
}

// startPage resets the cursor to the top margin and draws the optional header.
func (p *paginator) startPage() {
	p.page = Page{}
	p.y = p.opts.Geometry.MarginTop + p.met.Ascent
	if p.opts.Title != "" {
		g := p.opts.Geometry
		tw := p.prov.Width(p.opts.Title, textmetrics.StyleNormal, p.opts.FontSize)
		p.page.Lines = append(p.page.Lines, PositionedLine{
			Text:     p.opts.Title,
			X:        (g.PageWidth - tw) / 2,
			Baseline: 0.5*PointsPerInch + p.met.Ascent,
			Style:    textmetrics.StyleNormal,
			Size:     p.opts.FontSize,
			Block:    -1,
		})
	}
}

// newPage finishes the current page and begins the next one.
func (p *paginator) newPage() {
	p.pages = append(p.pages, p.page)
	p.startPage()
}

// ensureLine starts a new page when the next baseline's descender would cross
// the bottom margin. Soft breaks happen per line, so blocks may split.
func (p *paginator) ensureLine() {
	if p.y+p.met.Descent > p.opts.Geometry.PageHeight-p.opts.Geometry.MarginBot {
		p.newPage()
	}
}

func (p *paginator) emitBlock(idx int, b screenplay.Block) {
	g := p.opts.Geometry

	if b.Kind == screenplay.KindPageBreak {
		// Hard break: unconditional, regardless of remaining room.
		p.newPage()
		return
	}

	sp := spacingFor(b.Kind)
	p.y += sp.before * p.lineH

	style := textmetrics.StyleNormal
	if b.Kind == screenplay.KindSceneHeading {
		style = textmetrics.StyleBold
	}

	if b.Kind == screenplay.KindTransition {
		// Single line, right-aligned against the configured margin.
		text := b.Text()
		p.ensureLine()
		tw := p.prov.Width(text, style, p.opts.FontSize)
		p.page.Lines = append(p.page.Lines, PositionedLine{
			Text:     text,
			X:        g.PageWidth - g.TransitionRight - tw,
			Baseline: p.y,
			Style:    style,
			Size:     p.opts.FontSize,
			Block:    idx,
		})
		p.y += p.lineH
		p.y += sp.after * p.lineH
		return
	}

	in := indentFor(b.Kind)
	avail := g.PageWidth - in.left - in.right
	for _, logical := range b.Lines {
		for _, wrapped := range WrapLine(p.prov, logical, style, p.opts.FontSize, avail) {
			p.ensureLine()
			p.page.Lines = append(p.page.Lines, PositionedLine{
				Text:     wrapped,
				X:        in.left,
				Baseline: p.y,
				Style:    style,
				Size:     p.opts.FontSize,
				Block:    idx,
			})
			p.y += p.lineH
		}
	}
	p.y += sp.after * p.lineH
}

// WrapLine greedily packs whitespace-delimited tokens into lines no wider than
// maxWidth as measured by the provider. Breaks happen only at whitespace; a
// single token wider than maxWidth gets its own line and overflows rather than
// being split or hyphenated.
func WrapLine(prov textmetrics.Provider, s string, style textmetrics.Style, sizePt, maxWidth float64) []string {
	if prov.Width(s, style, sizePt) <= maxWidth {
		return []string{s}
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var out []string
	line := ""
	for _, w := range words {
		test := w
		if line != "" {
			test = line + " " + w
		}
		if prov.Width(test, style, sizePt) <= maxWidth {
			line = test
			continue
		}
		if line != "" {
			out = append(out, line)
		}
		// Overlong tokens overflow on a line of their own.
		line = w
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}
