/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import "strings"

// Kind classifies a screenplay block. Classification is total: any line shape
// that matches no marker is an Action block.
type Kind uint8

const (
	KindAction Kind = iota
	KindSceneHeading
	KindShotHeading
	KindCharacterCue
	KindDialogue
	KindParenthetical
	KindTransition
	KindPageBreak
)

func (k Kind) String() string {
	switch k {
	case KindSceneHeading:
		return "scene"
	case KindShotHeading:
		return "shot"
	case KindCharacterCue:
		return "cue"
	case KindDialogue:
		return "dialogue"
	case KindParenthetical:
		return "parenthetical"
	case KindTransition:
		return "transition"
	case KindPageBreak:
		return "pagebreak"
	default:
		return "action"
	}
}

// Block is the minimal classified unit of screenplay content.
//
// Index is the ordinal of the logical element the block belongs to. It is
// non-decreasing across the document. A character cue, its parentheticals, and
// its dialogue form a single element and share one Index; every other block
// gets its own. Derived views use Index for first-mention bookkeeping and
// timeline ordering.
type Block struct {
	Kind  Kind
	Lines []string
	Index int
}

// Text joins the block's logical lines with newlines.
func (b Block) Text() string { return strings.Join(b.Lines, "\n") }

// WordCount returns the number of whitespace-delimited tokens in the block.
func (b Block) WordCount() int {
	n := 0
	for _, ln := range b.Lines {
		n += len(strings.Fields(ln))
	}
	return n
}

// Document is an ordered block sequence for one input. It is built once by
// Parse and never mutated afterwards; callers must treat Blocks as read-only.
type Document struct {
	Blocks []Block
}
