/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package profile

import (
	"os"
	"path/filepath"
	"testing"

	"screenmd/internal/config"
)

func TestParseAndApply(t *testing.T) {
	data := []byte(`{
		"name": "a4-tight",
		"page": {"width_in": 8.27, "height_in": 11.69, "top_in": 0.8},
		"font": {"size_pt": 11},
		"leading_pt": 1.5
	}`)
	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Name != "a4-tight" {
		t.Fatalf("name: %q", p.Name)
	}
	cfg := config.Defaults()
	if err := p.Apply(&cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Page.WidthIn != 8.27 || cfg.Page.TopIn != 0.8 || cfg.Font.SizePt != 11 || cfg.Leading != 1.5 {
		t.Fatalf("overrides: %+v", cfg)
	}
	// Keys the profile did not name keep their config values.
	if cfg.Page.BottomIn != 1 || cfg.Timing.WPM != 160 {
		t.Fatalf("untouched keys changed: %+v", cfg)
	}
}

func TestParseRejectsUnknownProperty(t *testing.T) {
	if _, err := Parse([]byte(`{"name": "x", "pgae": {}}`)); err == nil {
		t.Fatalf("typo property must fail validation")
	}
}

func TestParseRequiresName(t *testing.T) {
	if _, err := Parse([]byte(`{"page": {"width_in": 8.5}}`)); err == nil {
		t.Fatalf("missing name must fail")
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	if _, err := Parse([]byte(`{"name": "x", "font": {"size_pt": 0}}`)); err == nil {
		t.Fatalf("zero size must fail the schema")
	}
	if _, err := Parse([]byte(`not json`)); err == nil {
		t.Fatalf("non-JSON must fail")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	if err := os.WriteFile(path, []byte(`{"name": "file-test"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Name != "file-test" {
		t.Fatalf("name: %q", p.Name)
	}
}

func TestApplyRevalidates(t *testing.T) {
	p, err := Parse([]byte(`{"name": "bad", "page": {"top_in": 6, "bottom_in": 6}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg := config.Defaults()
	if err := p.Apply(&cfg); err == nil {
		t.Fatalf("margins that squeeze out the page must fail on Apply")
	}
}
