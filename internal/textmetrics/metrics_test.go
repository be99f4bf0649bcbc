/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package textmetrics

import (
	"testing"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func TestCourierWidths(t *testing.T) {
	p := CourierProvider{}
	if got := p.Width("HELLO", StyleNormal, 12); got != 5*0.6*12 {
		t.Fatalf("width: %v", got)
	}
	// Monospace: bold advances match regular.
	if p.Width("HELLO", StyleBold, 12) != p.Width("HELLO", StyleNormal, 12) {
		t.Fatalf("bold advance diverged")
	}
	// Runes, not bytes.
	if p.Width("äöü", StyleNormal, 10) != 3*0.6*10 {
		t.Fatalf("multibyte width wrong: %v", p.Width("äöü", StyleNormal, 10))
	}
	if p.Width("", StyleNormal, 12) != 0 {
		t.Fatalf("empty string must have zero width")
	}
}

func TestCourierMetricsScale(t *testing.T) {
	p := CourierProvider{}
	m10 := p.Metrics(10)
	m20 := p.Metrics(20)
	if m20.Ascent != 2*m10.Ascent || m20.Descent != 2*m10.Descent {
		t.Fatalf("metrics must scale linearly: %+v %+v", m10, m20)
	}
	if m10.Ascent <= 0 || m10.Descent <= 0 {
		t.Fatalf("metrics must be positive: %+v", m10)
	}
}

func TestFaceProviderMeasures(t *testing.T) {
	p, err := NewFaceProvider(goregular.TTF, gobold.TTF)
	if err != nil {
		t.Fatalf("NewFaceProvider: %v", err)
	}
	if !p.HasBold() {
		t.Fatalf("bold face not detected")
	}
	w := p.Width("Hello, world", StyleNormal, 12)
	if w <= 0 {
		t.Fatalf("width must be positive, got %v", w)
	}
	if again := p.Width("Hello, world", StyleNormal, 12); again != w {
		t.Fatalf("measurement not deterministic: %v vs %v", w, again)
	}
	m := p.Metrics(12)
	if m.Ascent <= 0 || m.Descent <= 0 {
		t.Fatalf("metrics: %+v", m)
	}
}

func TestFaceProviderBoldFallback(t *testing.T) {
	p, err := NewFaceProvider(goregular.TTF, nil)
	if err != nil {
		t.Fatalf("NewFaceProvider: %v", err)
	}
	if p.HasBold() {
		t.Fatalf("no bold data was given")
	}
	// Bold measurements still work and match the regular face.
	if p.Width("abc", StyleBold, 12) != p.Width("abc", StyleNormal, 12) {
		t.Fatalf("bold fallback must reuse regular advances")
	}
}

func TestFaceProviderRejectsGarbage(t *testing.T) {
	if _, err := NewFaceProvider([]byte("not a font"), nil); err == nil {
		t.Fatalf("garbage font data must fail to parse")
	}
	if _, err := NewFaceProvider(nil, nil); err == nil {
		t.Fatalf("empty regular font must fail")
	}
}
