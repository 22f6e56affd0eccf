// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders assistant replies with glamour. Renderers are
// built lazily per wrap width and reused.
type MarkdownRenderer struct {
	style     string
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer for a glamour standard style
// ("dark" or "light").
func NewMarkdownRenderer(style string) *MarkdownRenderer {
	if style == "" {
		style = "dark"
	}
	return &MarkdownRenderer{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Render returns content rendered for a column width cells wide. When
// glamour fails the content is returned wrapped but otherwise unchanged.
func (m *MarkdownRenderer) Render(content string, width int) string {
	if m == nil {
		return wordWrap(content, width)
	}

	r, err := m.renderer(width)
	if err != nil {
		return wordWrap(content, width)
	}
	rendered, err := r.Render(content)
	if err != nil {
		return wordWrap(content, width)
	}
	return strings.Trim(rendered, "\n")
}

func (m *MarkdownRenderer) renderer(width int) (*glamour.TermRenderer, error) {
	if r, ok := m.renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	m.renderers[width] = r
	return r, nil
}
