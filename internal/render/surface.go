/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

// Package render paints laid-out pages through a minimal surface contract so
// the layout logic exists exactly once, independent of drawing technology.
package render

import (
	"screenmd/internal/layout"
	"screenmd/internal/textmetrics"
)

// Surface is the drawing contract a backend must fulfil: text runs at a
// baseline, horizontal rules, and page starts. Nothing else.
type Surface interface {
	NewPage()
	DrawText(x, baseline float64, text string, style textmetrics.Style, sizePt float64)
	DrawRule(x1, x2, y float64)
}

// Paint replays a page sequence onto a surface in order.
func Paint(pages []layout.Page, s Surface) {
	for _, pg := range pages {
		s.NewPage()
		for _, ln := range pg.Lines {
			s.DrawText(ln.X, ln.Baseline, ln.Text, ln.Style, ln.Size)
		}
		for _, r := range pg.Rules {
			s.DrawRule(r.X1, r.X2, r.Y)
		}
	}
}
