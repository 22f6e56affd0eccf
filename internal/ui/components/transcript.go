// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gemchat-tui/internal/model"
	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// ROW PROJECTION
// =============================================================================

// Slot names the side of the screen a row's content occupies.
type Slot int

const (
	SlotLeft Slot = iota
	SlotRight
)

// Row is the visual projection of one transcript entry. Exactly one of
// Left and Right is populated; user entries go right, replies go left.
type Row struct {
	EntryID string
	Left    string
	Right   string
	Entry   model.Entry
}

// Slot returns the populated side.
func (r Row) Slot() Slot {
	if r.Right != "" || r.Entry.IsUser() {
		return SlotRight
	}
	return SlotLeft
}

// Text returns the populated side's content.
func (r Row) Text() string {
	if r.Slot() == SlotRight {
		return r.Right
	}
	return r.Left
}

// ProjectRow maps one entry to its row.
func ProjectRow(e model.Entry) Row {
	row := Row{EntryID: e.ID, Entry: e}
	if e.IsUser() {
		row.Right = e.Text
	} else {
		row.Left = e.Text
	}
	return row
}

// ProjectRows maps entries to rows, one per entry, in order.
func ProjectRows(entries []model.Entry) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = ProjectRow(e)
	}
	return rows
}

// =============================================================================
// TRANSCRIPT RENDERER
// =============================================================================

// minCardWidth keeps cards legible in narrow terminals.
const minCardWidth = 12

// TranscriptRenderer turns rows into the text shown in the chat viewport.
// Output depends only on the rows and the renderer settings.
type TranscriptRenderer struct {
	theme          *styles.Theme
	markdown       *MarkdownRenderer
	showTimestamps bool
	emptyText      string
}

// NewTranscriptRenderer creates a renderer. A nil markdown renderer shows
// replies as plain wrapped text.
func NewTranscriptRenderer(theme *styles.Theme, markdown *MarkdownRenderer, showTimestamps bool) *TranscriptRenderer {
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	return &TranscriptRenderer{
		theme:          theme,
		markdown:       markdown,
		showTimestamps: showTimestamps,
		emptyText:      "Ask Gemini anything to start the conversation.",
	}
}

// Render draws every row for a viewport width cells wide.
func (r *TranscriptRenderer) Render(rows []Row, width int) string {
	if width <= 0 {
		width = 80
	}
	if len(rows) == 0 {
		return r.theme.EmptyState.Width(width).Render(r.emptyText)
	}

	blocks := make([]string, 0, len(rows))
	for _, row := range rows {
		blocks = append(blocks, r.RenderRow(row, width))
	}
	return strings.Join(blocks, "\n\n")
}

// RenderRow draws a single row. The card is pinned to the row's slot and
// the other side is left blank.
func (r *TranscriptRenderer) RenderRow(row Row, width int) string {
	slot := row.Slot()

	// Cards take at most three quarters of the width so the side is obvious.
	maxCard := clamp(width*3/4, minCardWidth, width)
	frame := r.cardStyle(slot).GetHorizontalFrameSize()
	inner := max(maxCard-frame, 1)

	var body string
	if slot == SlotLeft && r.markdown != nil {
		body = r.markdown.Render(row.Text(), inner)
	} else {
		body = wordWrap(row.Text(), inner)
	}
	if body == "" {
		body = " "
	}

	card := r.cardStyle(slot).
		Width(min(lipgloss.Width(body), inner) + r.cardStyle(slot).GetHorizontalPadding()).
		Render(body)

	parts := []string{r.label(row, slot), card}
	if r.showTimestamps && !row.Entry.CreatedAt.IsZero() {
		parts = append(parts, r.theme.Timestamp.Render(row.Entry.CreatedAt.Format("3:04 PM")))
	}

	pos := lipgloss.Left
	if slot == SlotRight {
		pos = lipgloss.Right
	}
	block := lipgloss.JoinVertical(pos, parts...)
	return lipgloss.PlaceHorizontal(width, pos, block)
}

func (r *TranscriptRenderer) cardStyle(slot Slot) lipgloss.Style {
	if slot == SlotRight {
		return r.theme.UserBubble
	}
	return r.theme.AssistantBubble
}

func (r *TranscriptRenderer) label(row Row, slot Slot) string {
	origin := row.Entry.Origin
	if !origin.Valid() {
		origin = model.OriginAssistant
		if slot == SlotRight {
			origin = model.OriginUser
		}
	}
	return r.theme.SenderLabel.Render(origin.DisplayName())
}
