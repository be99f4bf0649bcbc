/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package log

import (
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCompactHandlerFormat(t *testing.T) {
	var sb strings.Builder
	h := &compactHandler{level: slog.LevelDebug, w: &sb}
	l := slog.New(h).With(slog.String("component", "test"))
	l.Info("something happened", slog.Int("count", 3), slog.Bool("ok", true))

	out := sb.String()
	if !strings.Contains(out, " INF something happened") {
		t.Fatalf("level/message missing: %q", out)
	}
	for _, frag := range []string{"component=test", "count=3", "ok=true"} {
		if !strings.Contains(out, frag) {
			t.Errorf("missing %q in %q", frag, out)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("one record per line expected")
	}
}

func TestCompactHandlerLevelGate(t *testing.T) {
	var sb strings.Builder
	h := &compactHandler{level: slog.LevelWarn, w: &sb}
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info must be gated at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error must pass at warn level")
	}
}

func TestCompactHandlerGroups(t *testing.T) {
	var sb strings.Builder
	base := &compactHandler{level: slog.LevelDebug, w: &sb}
	l := slog.New(base).WithGroup("req").With(slog.String("id", "42"))
	l.Info("handled")
	if !strings.Contains(sb.String(), "req.id=42") {
		t.Fatalf("group prefix missing: %q", sb.String())
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SMD_LOG_LEVEL", "debug")
	t.Setenv("SMD_LOG_FORMAT", "json")
	t.Setenv("SMD_LOG_SOURCE", "true")
	t.Setenv("SMD_LOG_FILE", "/tmp/x.log")
	o := FromEnv()
	if o.Level != "debug" || o.Format != "json" || !o.AddSource || o.File != "/tmp/x.log" {
		t.Fatalf("FromEnv: %+v", o)
	}
}

func TestInitSetsDefault(t *testing.T) {
	Init(Options{Level: "error"})
	if L() == nil {
		t.Fatalf("no default logger after Init")
	}
	if WithComponent("x") == nil || WithOperation(L(), "y") == nil {
		t.Fatalf("derived loggers must not be nil")
	}
}
