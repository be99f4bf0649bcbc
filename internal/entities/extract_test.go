/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package entities

import (
	"testing"

	"screenmd/internal/screenplay"
)

func TestExtractCharacters(t *testing.T) {
	src := "@alex\nHi.\n\n@jordan\nHello.\n\n@Alex\nAgain.\n"
	inv := Extract(screenplay.Parse(src), Options{})
	if len(inv.Characters) != 2 {
		t.Fatalf("want 2 characters, got %+v", inv.Characters)
	}
	if inv.Characters[0].Name != "ALEX" || inv.Characters[0].Count != 2 {
		t.Fatalf("alex: %+v", inv.Characters[0])
	}
	if inv.Characters[1].Name != "JORDAN" || inv.Characters[1].Count != 1 {
		t.Fatalf("jordan: %+v", inv.Characters[1])
	}
	if inv.Characters[0].FirstIndex >= inv.Characters[1].FirstIndex {
		t.Fatalf("first-mention order wrong: %+v", inv.Characters)
	}
}

func TestExtractLocations(t *testing.T) {
	cases := []struct {
		heading string
		want    string
	}{
		{"### INT. KITCHEN - DAY", "KITCHEN"},
		{"### EXT. CITY STREET - NIGHT", "CITY STREET"},
		{"### INT./EXT. CAR - CONTINUOUS", "CAR"},
		{"### I/E. TRAIN - LATER", "TRAIN"},
		{"### int. basement workshop - evening", "BASEMENT WORKSHOP"},
		{"### THE VOID", "THE VOID"},
	}
	for _, tc := range cases {
		inv := Extract(screenplay.Parse(tc.heading+"\n"), Options{})
		if len(inv.Locations) != 1 {
			t.Fatalf("%q: want 1 location, got %+v", tc.heading, inv.Locations)
		}
		if inv.Locations[0].Name != tc.want {
			t.Errorf("%q: want %q, got %q", tc.heading, tc.want, inv.Locations[0].Name)
		}
	}
}

func TestExtractLocationDedup(t *testing.T) {
	src := "### INT. KITCHEN - DAY\n\nBeat.\n\n### INT. KITCHEN - NIGHT\n"
	inv := Extract(screenplay.Parse(src), Options{})
	if len(inv.Locations) != 1 || inv.Locations[0].Count != 2 {
		t.Fatalf("revisited location: %+v", inv.Locations)
	}
}

func TestExtractObjects(t *testing.T) {
	src := "### INT. LAB - DAY\n\nThe DETONATOR sits beside a COFFEE mug. Alex stares at the DETONATOR.\n"
	inv := Extract(screenplay.Parse(src), Options{})

	byName := map[string]Entity{}
	for _, e := range inv.Objects {
		byName[e.Name] = e
	}
	if e, ok := byName["DETONATOR"]; !ok || e.Count != 2 {
		t.Fatalf("DETONATOR: %+v (all: %+v)", byName["DETONATOR"], inv.Objects)
	}
	if _, ok := byName["COFFEE"]; !ok {
		t.Fatalf("COFFEE missing: %+v", inv.Objects)
	}
	// Mixed-case words fail the uppercase ratio.
	if _, ok := byName["Alex"]; ok {
		t.Fatalf("lowercase-ish token reported as object")
	}
}

func TestExtractObjectsSkipKnownNamesAndStoplist(t *testing.T) {
	src := "### INT. KITCHEN - DAY\n\n@ALEX\nHm.\n\nALEX drops the KNIFE. THE KITCHEN hums. CUT the cord. DAY breaks.\n"
	inv := Extract(screenplay.Parse(src), Options{})
	for _, e := range inv.Objects {
		switch e.Name {
		case "ALEX":
			t.Fatalf("character leaked into objects")
		case "KITCHEN":
			t.Fatalf("location leaked into objects")
		case "THE", "CUT", "DAY":
			t.Fatalf("stoplist word %q reported", e.Name)
		}
	}
	found := false
	for _, e := range inv.Objects {
		if e.Name == "KNIFE" {
			found = true
		}
	}
	if !found {
		t.Fatalf("KNIFE missing: %+v", inv.Objects)
	}
}

func TestExtractObjectPunctuationTrimmed(t *testing.T) {
	src := "The LEDGER, the LEDGER. (LEDGER!)\n"
	inv := Extract(screenplay.Parse(src), Options{})
	if len(inv.Objects) != 1 || inv.Objects[0].Name != "LEDGER" || inv.Objects[0].Count != 3 {
		t.Fatalf("punctuation handling: %+v", inv.Objects)
	}
}

func TestExtractDeterministic(t *testing.T) {
	src := "### INT. A - DAY\n\n@b\nHi.\n\nThe GADGET and the WIDGET.\n"
	d := screenplay.Parse(src)
	a := Extract(d, Options{})
	b := Extract(d, Options{})
	if len(a.Objects) != len(b.Objects) {
		t.Fatalf("reruns diverged")
	}
	for i := range a.Objects {
		if a.Objects[i] != b.Objects[i] {
			t.Fatalf("object %d diverged: %+v vs %+v", i, a.Objects[i], b.Objects[i])
		}
	}
}

func TestSortByCount(t *testing.T) {
	es := []Entity{
		{Name: "A", Count: 1, FirstIndex: 5},
		{Name: "B", Count: 3, FirstIndex: 9},
		{Name: "C", Count: 1, FirstIndex: 2},
	}
	sorted := SortByCount(es)
	if sorted[0].Name != "B" || sorted[1].Name != "C" || sorted[2].Name != "A" {
		t.Fatalf("order: %+v", sorted)
	}
	// Input order untouched.
	if es[0].Name != "A" {
		t.Fatalf("SortByCount mutated its input: %+v", es)
	}
}
