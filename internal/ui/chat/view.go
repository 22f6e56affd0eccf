// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gemchat-tui/internal/ui/components"
)

func (m Model) render() string {
	if !m.ready {
		return "Starting gemchat..."
	}
	if m.gate.Visible() {
		return m.gate.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTranscript(),
		m.renderWave(),
		m.renderInput(),
		m.renderStatusBar(),
	)
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("Gemini Chat")
	if m.modelName != "" {
		name := components.Truncate(m.modelName, max(m.width-16, 8))
		title += "  " + m.theme.HeaderSubtitle.Render(name)
	}
	return m.theme.Header.Width(m.width).MaxHeight(headerHeight).Render(title)
}

// renderTranscript draws the viewport with any toasts laid over its
// bottom-right corner.
func (m Model) renderTranscript() string {
	body := m.viewport.View()
	if !m.toasts.HasToasts() {
		return body
	}
	stack := components.RenderToastStack(m.theme, m.toasts.Toasts(), m.width)
	return overlayBottom(body, stack)
}

func (m Model) renderWave() string {
	if !m.wave.IsActive() {
		return ""
	}
	line := m.wave.View()
	if n := m.orch.Pending(); n > 1 {
		line += m.theme.ThinkingText.Render(fmt.Sprintf("  %d replies pending", n))
	}
	return line
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	var hints []string
	for _, b := range m.keyMap.ShortHelp() {
		h := b.Help()
		hints = append(hints, m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}

	left := strings.Join(hints, "  ")
	right := fmt.Sprintf("%d messages", m.orch.Transcript().Len())
	if m.orch.AllowOverlap() {
		right = "overlap on  " + right
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return m.theme.StatusBar.Width(m.width).MaxHeight(statusHeight).
		Render(left + strings.Repeat(" ", gap) + right)
}

// =============================================================================
// HELPERS
// =============================================================================

// overlayBottom replaces the last lines of base with overlay. Base keeps
// its height so the layout does not jump when toasts appear.
func overlayBottom(base, overlay string) string {
	baseLines := strings.Split(base, "\n")
	overLines := strings.Split(overlay, "\n")
	if len(overLines) > len(baseLines) {
		overLines = overLines[len(overLines)-len(baseLines):]
	}
	start := len(baseLines) - len(overLines)
	copy(baseLines[start:], overLines)
	return strings.Join(baseLines, "\n")
}
