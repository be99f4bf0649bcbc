/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"screenmd/internal/layout"
	"screenmd/internal/textmetrics"
)

// PDFFonts selects the typeface used for PDF output. With no data the core
// Courier/Courier-Bold fonts are used (vector text, nothing embedded). With
// Regular set, the TTF is embedded; Bold is optional.
type PDFFonts struct {
	Family  string
	Regular []byte
	Bold    []byte
}

// PDFSurface implements Surface on a gofpdf document.
//
// When no bold face exists, bold runs are simulated with a 0.6pt double-draw,
// matching the width budget the paginator already reserved.
type PDFSurface struct {
	pdf     *gofpdf.Fpdf
	geom    layout.Geometry
	family  string
	hasBold bool
}

// NewPDFSurface prepares a PDF document of the given geometry. Title and
// author end up in the document metadata.
func NewPDFSurface(g layout.Geometry, fonts PDFFonts, title string) (*PDFSurface, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: g.PageWidth, Ht: g.PageHeight},
	})
	pdf.SetTitle(title, true)
	pdf.SetCreator("screenmd", true)
	pdf.SetAutoPageBreak(false, 0)

	family := "Courier"
	hasBold := true
	if len(fonts.Regular) > 0 {
		family = fonts.Family
		if family == "" {
			family = "ScriptMono"
		}
		pdf.AddUTF8FontFromBytes(family, "", fonts.Regular)
		if len(fonts.Bold) > 0 {
			pdf.AddUTF8FontFromBytes(family, "B", fonts.Bold)
		} else {
			hasBold = false
		}
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf font setup: %w", err)
	}
	return &PDFSurface{pdf: pdf, geom: g, family: family, hasBold: hasBold}, nil
}

func (s *PDFSurface) NewPage() {
	s.pdf.AddPageFormat("", gofpdf.SizeType{Wd: s.geom.PageWidth, Ht: s.geom.PageHeight})
}

func (s *PDFSurface) DrawText(x, baseline float64, text string, style textmetrics.Style, sizePt float64) {
	if style == textmetrics.StyleBold && s.hasBold {
		s.pdf.SetFont(s.family, "B", sizePt)
		s.pdf.Text(x, baseline, text)
		return
	}
	s.pdf.SetFont(s.family, "", sizePt)
	s.pdf.Text(x, baseline, text)
	if style == textmetrics.StyleBold {
		// Simulated bold: second pass nudged right.
		s.pdf.Text(x+0.6, baseline, text)
	}
}

func (s *PDFSurface) DrawRule(x1, x2, y float64) {
	s.pdf.SetLineWidth(0.75)
	s.pdf.Line(x1, y, x2, y)
}

// Output writes the finished document.
func (s *PDFSurface) Output(w io.Writer) error {
	if err := s.pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// WritePDF paints pages into a new PDF and writes it to w.
func WritePDF(w io.Writer, pages []layout.Page, g layout.Geometry, fonts PDFFonts, title string) error {
	s, err := NewPDFSurface(g, fonts, title)
	if err != nil {
		return err
	}
	Paint(pages, s)
	return s.Output(w)
}
