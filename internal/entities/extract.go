/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package entities derives a best-effort inventory of characters, locations,
// and objects/props from a parsed document. Characters and locations come from
// structural markers and are reliable; object detection is a heuristic token
// scan and is approximate by design.
package entities

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"screenmd/internal/screenplay"
)

// Entity is one deduplicated name with its occurrence count and the element
// index of its first mention. Dedup is case-insensitive; Name keeps the
// first-seen casing.
type Entity struct {
	Name       string
	Count      int
	FirstIndex int
}

// Inventory groups extracted entities by category, each in first-seen order.
type Inventory struct {
	Characters []Entity
	Locations  []Entity
	Objects    []Entity
}

// Options tunes the object heuristic.
type Options struct {
	// Stoplist names common words never reported as objects. Matched
	// case-insensitively. Nil means DefaultStoplist.
	Stoplist []string
	// MinTokenLen is the minimum rune count for an object token (default 3).
	MinTokenLen int
	// UppercaseRatio is the minimum share of uppercase letters among a
	// token's letters (default 0.8).
	UppercaseRatio float64
}

// DefaultStoplist covers slugline vocabulary, camera grammar, and glue words.
func DefaultStoplist() []string {
	return []string{
		"DAY", "NIGHT", "MORNING", "EVENING", "LATER", "CONTINUOUS", "DAWN", "DUSK",
		"INT", "EXT", "AND", "THE", "CUT", "TO", "FADE", "ON", "IN", "OUT",
		"ANGLE", "CLOSE", "UP", "POV", "WIDE", "TRACKING", "SHOT",
	}
}

var timeWords = map[string]bool{
	"DAY": true, "NIGHT": true, "MORNING": true, "EVENING": true, "LATER": true,
	"CONTINUOUS": true, "SAMETIME": true, "MOMENTSLATER": true, "DAWN": true, "DUSK": true,
}

var locPrefix = regexp.MustCompile(`^(INT\.?/EXT\.?|INT[-./]\s?EXT\.?|I[/-]E\.?|INT\.?|EXT\.?)\s+`)

// Extract walks the document once per category. Re-running on an unchanged
// document yields identical counts and first-index values.
func Extract(d *screenplay.Document, opts Options) Inventory {
	if opts.MinTokenLen <= 0 {
		opts.MinTokenLen = 3
	}
	if opts.UppercaseRatio <= 0 {
		opts.UppercaseRatio = 0.8
	}
	stop := opts.Stoplist
	if stop == nil {
		stop = DefaultStoplist()
	}
	stopset := make(map[string]bool, len(stop))
	for _, w := range stop {
		stopset[strings.ToUpper(w)] = true
	}

	var inv Inventory
	chars := newDedup()
	locs := newDedup()
	objs := newDedup()

	for _, b := range d.Blocks {
		switch b.Kind {
		case screenplay.KindCharacterCue:
			if name := strings.TrimSpace(b.Text()); name != "" {
				chars.add(name, b.Index)
			}
		case screenplay.KindSceneHeading:
			if loc := locationOf(b.Text()); loc != "" {
				locs.add(loc, b.Index)
			}
		}
	}

	known := make(map[string]bool)
	for _, e := range chars.list {
		known[strings.ToUpper(e.Name)] = true
	}
	for _, e := range locs.list {
		known[strings.ToUpper(e.Name)] = true
	}

	for _, b := range d.Blocks {
		if b.Kind != screenplay.KindAction && b.Kind != screenplay.KindShotHeading {
			continue
		}
		for _, ln := range b.Lines {
			for _, tok := range strings.Fields(ln) {
				tok = strings.TrimFunc(tok, func(r rune) bool {
					return !unicode.IsLetter(r) && !unicode.IsDigit(r)
				})
				if !objectCandidate(tok, opts) {
					continue
				}
				up := strings.ToUpper(tok)
				if stopset[up] || known[up] {
					continue
				}
				objs.add(tok, b.Index)
			}
		}
	}

	inv.Characters = chars.list
	inv.Locations = locs.list
	inv.Objects = objs.list
	return inv
}

// locationOf strips the INT./EXT. style prefix and trailing time qualifiers
// from an uppercased scene heading. "INT. KITCHEN - DAY" yields "KITCHEN".
func locationOf(heading string) string {
	raw := strings.ToUpper(strings.TrimSpace(heading))
	raw = locPrefix.ReplaceAllString(raw, "")
	parts := strings.Split(raw, "-")
	var kept []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if timeWords[strings.ReplaceAll(p, " ", "")] {
			break
		}
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		if first := strings.TrimSpace(parts[0]); first != "" {
			return first
		}
		return ""
	}
	return strings.Join(kept, " - ")
}

// objectCandidate applies the length and uppercase-ratio thresholds.
func objectCandidate(tok string, opts Options) bool {
	runes := []rune(tok)
	if len(runes) < opts.MinTokenLen {
		return false
	}
	letters, upper := 0, 0
	digitsOnly := true
	for _, r := range runes {
		if unicode.IsLetter(r) {
			letters++
			digitsOnly = false
			if unicode.IsUpper(r) {
				upper++
			}
		} else if !unicode.IsDigit(r) {
			digitsOnly = false
		}
	}
	if letters == 0 || digitsOnly {
		return false
	}
	return float64(upper)/float64(letters) >= opts.UppercaseRatio
}

// SortByCount orders a copy of es by descending count, ties broken by first
// mention.
func SortByCount(es []Entity) []Entity {
	out := append([]Entity(nil), es...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].FirstIndex < out[j].FirstIndex
	})
	return out
}

// dedup accumulates case-insensitive entities preserving first-seen casing and
// order.
type dedup struct {
	pos  map[string]int
	list []Entity
}

func newDedup() *dedup { return &dedup{pos: make(map[string]int)} }

func (m *dedup) add(name string, index int) {
	key := strings.ToUpper(name)
	if i, ok := m.pos[key]; ok {
		m.list[i].Count++
		return
	}
	m.pos[key] = len(m.list)
	m.list = append(m.list, Entity{Name: name, Count: 1, FirstIndex: index})
}
