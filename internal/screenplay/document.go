/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package screenplay

import "strings"

// IsHeading reports whether the block is a scene or shot heading.
func (b Block) IsHeading() bool {
	return b.Kind == KindSceneHeading || b.Kind == KindShotHeading
}

// Headings returns the positions of all scene and shot heading blocks in
// source order.
func (d *Document) Headings() []int {
	var out []int
	for i, b := range d.Blocks {
		if b.IsHeading() {
			out = append(out, i)
		}
	}
	return out
}

// NextActionAfter returns the text of the first Action block after position i
// and before the next heading of any kind. ok is false when no such block
// exists.
func (d *Document) NextActionAfter(i int) (text string, ok bool) {
	for j := i + 1; j < len(d.Blocks); j++ {
		b := d.Blocks[j]
		if b.IsHeading() {
			return "", false
		}
		if b.Kind == KindAction {
			return b.Text(), true
		}
	}
	return "", false
}

// WordCount returns the whitespace-delimited token count over the whole
// document.
func (d *Document) WordCount() int {
	n := 0
	for _, b := range d.Blocks {
		n += b.WordCount()
	}
	return n
}

// Canonical renders the document back into the input grammar. Parsing the
// canonical dump yields an equivalent document, which makes round-trip checks
// cheap.
func (d *Document) Canonical() string {
	var sb strings.Builder
	for i, b := range d.Blocks {
		switch b.Kind {
		case KindSceneHeading:
			sb.WriteString("### " + b.Text() + "\n")
		case KindShotHeading:
			sb.WriteString("! " + b.Text() + "\n")
		case KindCharacterCue:
			sb.WriteString("@" + b.Text() + "\n")
		case KindDialogue, KindParenthetical:
			sb.WriteString(b.Text() + "\n")
		case KindTransition:
			sb.WriteString(">> " + b.Text() + "\n")
		case KindPageBreak:
			sb.WriteString("---\n")
		default:
			sb.WriteString(b.Text() + "\n")
		}
		// Blank separator unless the next block continues this dialogue group.
		if i+1 < len(d.Blocks) && d.Blocks[i+1].Index == b.Index {
			continue
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
