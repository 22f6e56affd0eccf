// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects the background the theme is tuned for.
type Mode string

const (
	// ModeAuto probes the terminal background.
	ModeAuto  Mode = ""
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// Theme holds all the styled components for the chat screen.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Header
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// Transcript
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SenderLabel     lipgloss.Style
	Timestamp       lipgloss.Style
	EmptyState      lipgloss.Style

	// Input area
	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// Wave indicator
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// Blocking dialog
	DialogBox     lipgloss.Style
	DialogTitle   lipgloss.Style
	DialogMessage lipgloss.Style
	DialogButton  lipgloss.Style

	// Toasts
	ToastStatus lipgloss.Style
	ToastError  lipgloss.Style
}

// NewTheme creates a theme. ModeDark and ModeLight override background
// detection for every adaptive color.
func NewTheme(mode Mode) *Theme {
	colorProfile := termenv.ColorProfile()

	isDark := termenv.HasDarkBackground()
	switch mode {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// GlamourStyle returns the glamour standard style name matching the theme.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Blue)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Cards. Horizontal placement is done by the renderer, not by margins.
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)

	t.SenderLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.EmptyState = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Align(lipgloss.Center)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Violet)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.DialogBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Padding(1, 3).
		Align(lipgloss.Center)

	t.DialogTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.DialogMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.DialogButton = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Blue).
		Padding(0, 2)

	t.ToastStatus = lipgloss.NewStyle().
		Foreground(Cyan).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)

	t.ToastError = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)
}
