/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textmetrics

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FaceProvider measures with real OpenType metrics parsed from in-memory font
// data. The bold variant is optional; when absent, bold measurements fall back
// to the regular face so width budgets stay identical either way.
//
// A FaceProvider caches resolved faces per (style, size) and is not safe for
// concurrent use; create one per conversion.
type FaceProvider struct {
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
}

type faceKey struct {
	style Style
	size  float64
}

// NewFaceProvider parses the given font data. bold may be nil.
func NewFaceProvider(regular, bold []byte) (*FaceProvider, error) {
	if len(regular) == 0 {
		return nil, fmt.Errorf("regular font data is required")
	}
	rf, err := opentype.Parse(regular)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	p := &FaceProvider{regular: rf, faces: make(map[faceKey]font.Face)}
	if len(bold) > 0 {
		bf, err := opentype.Parse(bold)
		if err != nil {
			return nil, fmt.Errorf("parse bold font: %w", err)
		}
		p.bold = bf
	}
	return p, nil
}

// HasBold reports whether a distinct bold face was loaded.
func (p *FaceProvider) HasBold() bool { return p.bold != nil }

// Face returns a shaped face for the style and size. StyleBold without a bold
// variant resolves to the regular face.
func (p *FaceProvider) Face(style Style, sizePt float64) (font.Face, error) {
	if sizePt <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %v", sizePt)
	}
	key := faceKey{style: style, size: sizePt}
	if f, ok := p.faces[key]; ok {
		return f, nil
	}
	src := p.regular
	if style == StyleBold && p.bold != nil {
		src = p.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{Size: sizePt, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	p.faces[key] = face
	return face, nil
}

func (p *FaceProvider) Width(s string, style Style, sizePt float64) float64 {
	face, err := p.Face(style, sizePt)
	if err != nil {
		return 0
	}
	d := &font.Drawer{Face: face}
	return fixedToPt(d.MeasureString(s))
}

func (p *FaceProvider) Metrics(sizePt float64) Metrics {
	face, err := p.Face(StyleNormal, sizePt)
	if err != nil {
		return Metrics{}
	}
	m := face.Metrics()
	return Metrics{Ascent: fixedToPt(m.Ascent), Descent: fixedToPt(m.Descent)}
}

// fixedToPt converts a 26.6 fixed-point value to points (at 72 DPI a pixel is
// a point).
func fixedToPt(v fixed.Int26_6) float64 { return float64(v) / 64 }
