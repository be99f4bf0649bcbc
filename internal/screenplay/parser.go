/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import "strings"

// Parse turns screenplay-flavored text into a Document. It never fails:
// unrecognized line shapes fall back to Action.
//
// Supported markers, checked per line group (groups are separated by blank
// lines):
//   - "###" (also "##"/"#")  scene heading, uppercased
//   - "!"                    shot heading; following lines of the group are
//     kept as an Action block for summaries
//   - "@"                    character cue; following lines are dialogue, lines
//     fully wrapped in parentheses become parentheticals
//   - "---" (exactly)        forced page break; more dashes or dashes mixed
//     with whitespace are plain Action
//   - ">>"                   transition, uppercased, ":" appended unless the
//     text already ends with one
//
// Comment lines ("//...") and note lines (">..." that are not ">>") are
// stripped before classification and never produce blocks. A transition or
// page-break line closes any open group, including an open dialogue group.
func Parse(input string) *Document {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	d := &Document{}
	next := 0 // element index
	var group []string

	flush := func() {
		if len(group) > 0 {
			classifyGroup(d, group, next)
			next++
			group = nil
		}
	}

	for _, raw := range strings.Split(input, "\n") {
		line := strings.TrimRight(raw, " \t")
		trim := strings.TrimSpace(line)

		// Pre-filter: comments and single-angle notes never reach
		// classification.
		if strings.HasPrefix(trim, "//") {
			continue
		}
		if strings.HasPrefix(trim, ">") && !strings.HasPrefix(trim, ">>") {
			continue
		}

		if trim == "" {
			flush()
			continue
		}
		if trim == "---" {
			flush()
			d.Blocks = append(d.Blocks, Block{Kind: KindPageBreak, Index: next})
			next++
			continue
		}
		if strings.HasPrefix(trim, ">>") {
			flush()
			text := strings.ToUpper(strings.TrimSpace(trim[2:]))
			if text != "" && !strings.HasSuffix(text, ":") {
				text += ":"
			}
			d.Blocks = append(d.Blocks, Block{Kind: KindTransition, Lines: []string{text}, Index: next})
			next++
			continue
		}
		group = append(group, line)
	}
	flush()
	return d
}

// classifyGroup classifies one blank-line-delimited group by its first line and
// appends the resulting blocks, all sharing elem as their element index.
func classifyGroup(d *Document, lines []string, elem int) {
	first := strings.TrimSpace(lines[0])
	rest := lines[1:]

	switch {
	case strings.HasPrefix(first, "#"):
		text := strings.ToUpper(strings.TrimSpace(strings.TrimLeft(first, "#")))
		d.Blocks = append(d.Blocks, Block{Kind: KindSceneHeading, Lines: []string{text}, Index: elem})
		appendTrailingAction(d, rest, elem)

	case strings.HasPrefix(first, "!"):
		text := strings.ToUpper(strings.TrimSpace(first[1:]))
		d.Blocks = append(d.Blocks, Block{Kind: KindShotHeading, Lines: []string{text}, Index: elem})
		appendTrailingAction(d, rest, elem)

	case strings.HasPrefix(first, "@"):
		name := strings.ToUpper(strings.TrimSpace(first[1:]))
		d.Blocks = append(d.Blocks, Block{Kind: KindCharacterCue, Lines: []string{name}, Index: elem})
		var speech []string
		flushSpeech := func() {
			if len(speech) > 0 {
				d.Blocks = append(d.Blocks, Block{Kind: KindDialogue, Lines: speech, Index: elem})
				speech = nil
			}
		}
		for _, ln := range rest {
			t := strings.TrimSpace(ln)
			if strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")") {
				flushSpeech()
				d.Blocks = append(d.Blocks, Block{Kind: KindParenthetical, Lines: []string{t}, Index: elem})
				continue
			}
			speech = append(speech, t)
		}
		flushSpeech()

	default:
		trimmed := make([]string, len(lines))
		for i, ln := range lines {
			trimmed[i] = strings.TrimSpace(ln)
		}
		d.Blocks = append(d.Blocks, Block{Kind: KindAction, Lines: trimmed, Index: elem})
	}
}

// appendTrailingAction keeps heading-attached lines as Action content so shot
// list summaries can see them.
func appendTrailingAction(d *Document, lines []string, elem int) {
	var kept []string
	for _, ln := range lines {
		if t := strings.TrimSpace(ln); t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) > 0 {
		d.Blocks = append(d.Blocks, Block{Kind: KindAction, Lines: kept, Index: elem})
	}
}
