/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"screenmd/internal/layout"
	"screenmd/internal/textmetrics"
)

// PNGSurface rasterizes pages to RGBA images at 72 DPI (one pixel per point).
// It needs concrete faces; pass nil for bold to get double-draw simulation.
type PNGSurface struct {
	geom    layout.Geometry
	regular font.Face
	bold    font.Face
	cur     *image.RGBA
	pages   []*image.RGBA
}

// NewPNGSurface validates the geometry and prepares a raster surface.
func NewPNGSurface(g layout.Geometry, regular, bold font.Face) (*PNGSurface, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if regular == nil {
		return nil, fmt.Errorf("regular face is required")
	}
	return &PNGSurface{geom: g, regular: regular, bold: bold}, nil
}

func (s *PNGSurface) NewPage() {
	img := image.NewRGBA(image.Rect(0, 0, int(s.geom.PageWidth), int(s.geom.PageHeight)))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	s.cur = img
	s.pages = append(s.pages, img)
}

func (s *PNGSurface) DrawText(x, baseline float64, text string, style textmetrics.Style, _ float64) {
	if s.cur == nil {
		s.NewPage()
	}
	face := s.regular
	simulate := false
	if style == textmetrics.StyleBold {
		if s.bold != nil {
			face = s.bold
		} else {
			simulate = true
		}
	}
	d := &font.Drawer{
		Dst:  s.cur,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.Point26_6{X: ptToFixed(x), Y: ptToFixed(baseline)},
	}
	d.DrawString(text)
	if simulate {
		d.Dot = fixed.Point26_6{X: ptToFixed(x + 0.6), Y: ptToFixed(baseline)}
		d.DrawString(text)
	}
}

func (s *PNGSurface) DrawRule(x1, x2, y float64) {
	if s.cur == nil {
		s.NewPage()
	}
	yy := int(y)
	for x := int(x1); x <= int(x2); x++ {
		s.cur.Set(x, yy, color.Black)
	}
}

// Pages returns the rasterized pages in order.
func (s *PNGSurface) Pages() []*image.RGBA { return s.pages }

// EncodePage writes one page as PNG.
func (s *PNGSurface) EncodePage(i int, w io.Writer) error {
	if i < 0 || i >= len(s.pages) {
		return fmt.Errorf("page index %d out of range", i)
	}
	if err := png.Encode(w, s.pages[i]); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func ptToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }
