// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gemchat-tui/internal/connectivity"
	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// CONNECTIVITY GATE DIALOG
// =============================================================================

// GateDialog is the modal shown when no network transport is active. Its
// only action is acknowledge, after which the program exits.
type GateDialog struct {
	theme   *styles.Theme
	width   int
	height  int
	visible bool
}

// GateAcknowledgedMsg signals that the user dismissed the dialog.
type GateAcknowledgedMsg struct{}

// NewGateDialog creates a hidden dialog.
func NewGateDialog(theme *styles.Theme) GateDialog {
	return GateDialog{theme: theme}
}

// Show makes the dialog visible.
func (d *GateDialog) Show() {
	d.visible = true
}

// Visible reports whether the dialog is blocking the screen.
func (d GateDialog) Visible() bool {
	return d.visible
}

// SetSize updates the area the dialog is centered in.
func (d *GateDialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// IsAcknowledgeKey reports whether key dismisses the dialog.
func IsAcknowledgeKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "enter", "o", "O", " ", "esc", "ctrl+c":
		return true
	}
	return false
}

// Update consumes every key while visible. Acknowledge keys produce a
// GateAcknowledgedMsg; everything else is swallowed.
func (d GateDialog) Update(msg tea.Msg) (GateDialog, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if d.visible && IsAcknowledgeKey(msg) {
			return d, func() tea.Msg { return GateAcknowledgedMsg{} }
		}
	}
	return d, nil
}

// View renders the dialog centered in its area, or nothing when hidden.
func (d GateDialog) View() string {
	if !d.visible {
		return ""
	}

	title := d.theme.DialogTitle.Render(styles.StatusIndicators.Error + " " + connectivity.DialogTitle)
	message := d.theme.DialogMessage.Render(connectivity.DialogMessage)
	button := d.theme.DialogButton.Render(connectivity.DialogAction)

	box := d.theme.DialogBox.Render(lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		message,
		"",
		button,
	))

	width, height := d.width, d.height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
