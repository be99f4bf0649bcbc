/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fcpxml projects a parsed script onto a speech-rate timeline and
// exports it as an FCPXML 1.10 document for video editors.
package fcpxml

import (
	"fmt"
	"math"
	"strings"

	"screenmd/internal/screenplay"
)

// Options controls the timing model. Zero values take the defaults below.
type Options struct {
	WPM             float64 // spoken words per minute
	FPS             int     // timeline frame rate
	MinBlockSeconds float64 // floor for any element with words
	Title           string  // project and event name
}

const (
	DefaultWPM             = 160.0
	DefaultFPS             = 25
	DefaultMinBlockSeconds = 1.0

	// Elements with no countable words still occupy a sliver of timeline so
	// their markers remain distinguishable.
	zeroWordSeconds = 0.2
)

func (o Options) withDefaults() Options {
	if o.WPM <= 0 {
		o.WPM = DefaultWPM
	}
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.MinBlockSeconds <= 0 {
		o.MinBlockSeconds = DefaultMinBlockSeconds
	}
	if o.Title == "" {
		o.Title = "Screenplay"
	}
	return o
}

// Segment is one timed element on the timeline.
type Segment struct {
	Kind     screenplay.Kind
	Label    string
	Words    int
	Offset   float64 // seconds from timeline start
	Duration float64 // seconds
}

// MarkerKind classifies timeline markers.
type MarkerKind uint8

const (
	MarkerChapter MarkerKind = iota
	MarkerKeywordStart
	MarkerKeywordEnd
)

// Marker is a chapter or keyword-range boundary at Offset seconds.
type Marker struct {
	Offset float64
	Kind   MarkerKind
	Label  string
}

// Segments computes the timed element sequence for d. Dialogue elements count
// the cue and dialogue words together, parentheticals contribute nothing.
// Scene and shot headings count at least one word. Offsets are cumulative and
// non-decreasing.
func Segments(d *screenplay.Document, opts Options) []Segment {
	opts = opts.withDefaults()
	wps := opts.WPM / 60.0

	var segs []Segment
	t := 0.0
	emit := func(kind screenplay.Kind, label string, words int) {
		var dur float64
		switch {
		case words > 0:
			dur = math.Max(float64(words)/wps, opts.MinBlockSeconds)
		default:
			dur = zeroWordSeconds
		}
		segs = append(segs, Segment{Kind: kind, Label: label, Words: words, Offset: t, Duration: dur})
		t += dur
	}

	blocks := d.Blocks
	for i := 0; i < len(blocks); i++ {
		b := blocks[i]
		switch b.Kind {
		case screenplay.KindSceneHeading, screenplay.KindShotHeading:
			w := b.WordCount()
			if w < 1 {
				w = 1
			}
			emit(b.Kind, b.Text(), w)
		case screenplay.KindCharacterCue:
			// One segment per dialogue group. Cue and dialogue words count,
			// parenthetical words do not.
			words := b.WordCount()
			j := i + 1
			for j < len(blocks) && blocks[j].Index == b.Index {
				if blocks[j].Kind == screenplay.KindDialogue {
					words += blocks[j].WordCount()
				}
				j++
			}
			emit(b.Kind, b.Text(), words)
			i = j - 1
		case screenplay.KindAction, screenplay.KindTransition:
			emit(b.Kind, firstWords(b.Text(), 6), b.WordCount())
		}
	}
	return segs
}

// Timeline derives chapter markers (one per scene heading) and keyword range
// boundaries (each shot heading opens a range that closes at the next heading
// of either kind, or at timeline end). Marker offsets are non-decreasing.
func Timeline(segs []Segment) []Marker {
	var ms []Marker
	openShot := -1 // index into ms of the unclosed keyword start
	closeShot := func(at float64) {
		if openShot < 0 {
			return
		}
		ms = append(ms, Marker{Offset: at, Kind: MarkerKeywordEnd, Label: ms[openShot].Label})
		openShot = -1
	}
	end := 0.0
	for _, s := range segs {
		end = s.Offset + s.Duration
		switch s.Kind {
		case screenplay.KindSceneHeading:
			closeShot(s.Offset)
			ms = append(ms, Marker{Offset: s.Offset, Kind: MarkerChapter, Label: s.Label})
		case screenplay.KindShotHeading:
			closeShot(s.Offset)
			ms = append(ms, Marker{Offset: s.Offset, Kind: MarkerKeywordStart, Label: "SHOT: " + s.Label})
			openShot = len(ms) - 1
		}
	}
	closeShot(end)
	return ms
}

// secToRational converts seconds to the FCPXML rational form "frames/fps s",
// rounding to the nearest frame.
func secToRational(sec float64, fps int) string {
	frames := int(math.Round(sec * float64(fps)))
	return fmt.Sprintf("%d/%ds", frames, fps)
}

func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
		return strings.Join(fields, " ") + "…"
	}
	return strings.Join(fields, " ")
}
