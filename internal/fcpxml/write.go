/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package fcpxml

import (
	"encoding/xml"
	"fmt"
	"io"

	"screenmd/internal/screenplay"
)

type xmlDoc struct {
	XMLName   xml.Name     `xml:"fcpxml"`
	Version   string       `xml:"version,attr"`
	Resources xmlResources `xml:"resources"`
	Library   xmlLibrary   `xml:"library"`
}

type xmlResources struct {
	Format xmlFormat `xml:"format"`
}

type xmlFormat struct {
	ID            string `xml:"id,attr"`
	Name          string `xml:"name,attr"`
	FrameDuration string `xml:"frameDuration,attr"`
	Width         int    `xml:"width,attr"`
	Height        int    `xml:"height,attr"`
}

type xmlLibrary struct {
	Event xmlEvent `xml:"event"`
}

type xmlEvent struct {
	Name    string     `xml:"name,attr"`
	Project xmlProject `xml:"project"`
}

type xmlProject struct {
	Name     string      `xml:"name,attr"`
	Sequence xmlSequence `xml:"sequence"`
}

type xmlSequence struct {
	Format   string   `xml:"format,attr"`
	Duration string   `xml:"duration,attr"`
	TCStart  string   `xml:"tcStart,attr"`
	Spine    xmlSpine `xml:"spine"`
}

type xmlSpine struct {
	Gaps []xmlGap `xml:"gap"`
}

type xmlGap struct {
	Name     string             `xml:"name,attr"`
	Offset   string             `xml:"offset,attr"`
	Start    string             `xml:"start,attr"`
	Duration string             `xml:"duration,attr"`
	Chapters []xmlChapterMarker `xml:"chapter-marker,omitempty"`
	Keywords []xmlKeyword       `xml:"keyword,omitempty"`
}

type xmlChapterMarker struct {
	Start string `xml:"start,attr"`
	Value string `xml:"value,attr"`
}

type xmlKeyword struct {
	Start    string `xml:"start,attr"`
	Duration string `xml:"duration,attr"`
	Value    string `xml:"value,attr"`
}

// Chapter marker labels cycle through colored squares so adjacent scenes are
// telling apart on a crowded timeline.
var markerPalette = []string{"🟦", "🟩", "🟨", "🟧", "🟥", "🟪"}

// Write serializes the timing model of d as an FCPXML 1.10 document. The
// spine carries one gap clip per scene; shots before the first scene heading
// fall into a synthetic leading gap. Chapter markers sit on scene starts and
// each shot contributes a keyword range ending at the next heading.
func Write(w io.Writer, d *screenplay.Document, opts Options) error {
	opts = opts.withDefaults()
	segs := Segments(d, opts)

	total := 0.0
	if n := len(segs); n > 0 {
		total = segs[n-1].Offset + segs[n-1].Duration
	}
	rat := func(sec float64) string { return secToRational(sec, opts.FPS) }

	// Scene gaps span from one scene heading to the next. Gap starts equal
	// their global offsets so marker times stay in one clock.
	var gaps []xmlGap
	gapEnd := func(from int) float64 {
		for j := from + 1; j < len(segs); j++ {
			if segs[j].Kind == screenplay.KindSceneHeading {
				return segs[j].Offset
			}
		}
		return total
	}
	if len(segs) > 0 && segs[0].Kind != screenplay.KindSceneHeading {
		end := gapEnd(-1)
		gaps = append(gaps, xmlGap{
			Name: "Opening", Offset: rat(0), Start: rat(0), Duration: rat(end),
		})
	}
	scene := 0
	for i, s := range segs {
		if s.Kind != screenplay.KindSceneHeading {
			continue
		}
		end := gapEnd(i)
		g := xmlGap{
			Name:   s.Label,
			Offset: rat(s.Offset), Start: rat(s.Offset), Duration: rat(end - s.Offset),
		}
		g.Chapters = append(g.Chapters, xmlChapterMarker{
			Start: rat(s.Offset),
			Value: markerPalette[scene%len(markerPalette)] + " " + s.Label,
		})
		scene++
		gaps = append(gaps, g)
	}

	// Attach keyword ranges to the gap that contains them. Starts and ends
	// pair positionally in the marker stream; at most one range is open at a
	// time, so labels never disambiguate anything (shots may repeat a heading).
	var open *Marker
	for _, m := range Timeline(segs) {
		switch m.Kind {
		case MarkerKeywordStart:
			start := m
			open = &start
		case MarkerKeywordEnd:
			if open == nil {
				continue
			}
			if gi := gapIndexAt(gaps, segs, open.Offset); gi >= 0 {
				gaps[gi].Keywords = append(gaps[gi].Keywords, xmlKeyword{
					Start: rat(open.Offset), Duration: rat(m.Offset - open.Offset), Value: open.Label,
				})
			}
			open = nil
		}
	}

	doc := xmlDoc{
		Version: "1.10",
		Resources: xmlResources{Format: xmlFormat{
			ID:            "r1",
			Name:          fmt.Sprintf("FFVideoFormat1080p%d", opts.FPS),
			FrameDuration: fmt.Sprintf("1/%ds", opts.FPS),
			Width:         1920,
			Height:        1080,
		}},
		Library: xmlLibrary{Event: xmlEvent{
			Name: opts.Title,
			Project: xmlProject{
				Name: opts.Title,
				Sequence: xmlSequence{
					Format: "r1", Duration: rat(total), TCStart: rat(0),
					Spine: xmlSpine{Gaps: gaps},
				},
			},
		}},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write fcpxml header: %w", err)
	}
	if _, err := io.WriteString(w, "<!DOCTYPE fcpxml>\n"); err != nil {
		return fmt.Errorf("write fcpxml doctype: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode fcpxml: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return nil
}

func gapIndexAt(gaps []xmlGap, segs []Segment, offset float64) int {
	// Gaps are in timeline order. The last gap whose start is at or before
	// offset contains it; starts are recomputed from the segment stream to
	// avoid parsing rationals back.
	idx := -1
	gi := 0
	if len(gaps) > 0 && gaps[0].Name == "Opening" {
		idx = 0
		gi = 1
	}
	for _, s := range segs {
		if s.Kind != screenplay.KindSceneHeading {
			continue
		}
		if s.Offset <= offset && gi < len(gaps) {
			idx = gi
		}
		gi++
	}
	return idx
}
