/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"screenmd/internal/layout"
)

func TestDefaultsValid(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Font.SizePt != 12 || cfg.Timing.WPM != 160 || cfg.Timing.FPS != 25 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ShotList.Format != "csv" || !cfg.ShotList.IncludeEntities {
		t.Fatalf("shot list defaults: %+v", cfg.ShotList)
	}
	g := cfg.Geometry()
	if g.PageWidth != 8.5*layout.PointsPerInch || g.PageHeight != 11*layout.PointsPerInch {
		t.Fatalf("geometry: %+v", g)
	}
}

func TestLoadOverridesSubset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smd.yaml")
	data := "font:\n  size_pt: 10\ntiming:\n  wpm: 120\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Font.SizePt != 10 || cfg.Timing.WPM != 120 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if cfg.Page.WidthIn != 8.5 || cfg.Timing.FPS != 25 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smd.yaml")
	if err := os.WriteFile(path, []byte("fnt:\n  size_pt: 10\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("typo key must be rejected")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("missing file must error")
	}
}

func TestValidateFailuresWrapErrInvalid(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.Font.SizePt = 0 },
		func(c *Config) { c.Font.Bold = "b.ttf" },
		func(c *Config) { c.Timing.WPM = -1 },
		func(c *Config) { c.Timing.FPS = 0 },
		func(c *Config) { c.Entities.UppercaseRatio = 1.5 },
		func(c *Config) { c.Page.TopIn, c.Page.BottomIn = 6, 6 },
		func(c *Config) { c.ShotList.Format = "xlsx" },
	}
	for i, mutate := range cases {
		cfg := Defaults()
		mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("case %d: want error", i)
		}
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("case %d: error %v does not wrap ErrInvalid", i, err)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SMD_FONT_SIZE", "14")
	t.Setenv("SMD_WPM", "180")
	t.Setenv("SMD_LOG_LEVEL", "debug")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Font.SizePt != 14 || cfg.Timing.WPM != 180 || cfg.Logging.Level != "debug" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}
