// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// TEXT MEASUREMENT AND WRAPPING
// =============================================================================

// wordWrap wraps text at word boundaries so no line is wider than width
// terminal cells. Words wider than width are broken. Existing newlines are
// kept.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			out.WriteByte('\n')
		}
		if runewidth.StringWidth(line) <= width {
			out.WriteString(line)
			continue
		}
		out.WriteString(wrapLine(line, width))
	}
	return out.String()
}

func wrapLine(line string, width int) string {
	var lines []string
	var current strings.Builder
	currentWidth := 0

	flush := func() {
		lines = append(lines, current.String())
		current.Reset()
		currentWidth = 0
	}

	for _, word := range strings.Fields(line) {
		w := runewidth.StringWidth(word)

		// Break words that cannot fit on any line.
		for w > width {
			if currentWidth > 0 {
				flush()
			}
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				// A single wide rune in a one-cell column.
				head = string([]rune(word)[:1])
			}
			lines = append(lines, head)
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		if w == 0 {
			continue
		}

		switch {
		case currentWidth == 0:
			current.WriteString(word)
			currentWidth = w
		case currentWidth+1+w <= width:
			current.WriteByte(' ')
			current.WriteString(word)
			currentWidth += 1 + w
		default:
			flush()
			current.WriteString(word)
			currentWidth = w
		}
	}
	if currentWidth > 0 {
		flush()
	}
	return strings.Join(lines, "\n")
}

// Truncate shortens s to width cells with an ASCII ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "...")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
