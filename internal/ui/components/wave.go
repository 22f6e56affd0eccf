// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// WAVE INDICATOR
// =============================================================================

// WaveFrames animate four dots with one raised dot travelling across.
var WaveFrames = []string{
	"o . . .",
	". o . .",
	". . o .",
	". . . o",
	". . o .",
	". o . .",
}

// Wave is the typing indicator shown while a reply is pending.
type Wave struct {
	spinner   spinner.Model
	theme     *styles.Theme
	label     string
	startTime time.Time
	isActive  bool
}

// NewWave creates an inactive wave indicator.
func NewWave(theme *styles.Theme) Wave {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: WaveFrames,
		FPS:    time.Second / 8,
	}
	if theme != nil {
		s.Style = theme.Spinner
	}
	return Wave{
		spinner: s,
		theme:   theme,
		label:   "Gemini is typing",
	}
}

// Start activates the wave and returns the first tick. Starting an active
// wave returns nil so only one tick loop runs.
func (w *Wave) Start() tea.Cmd {
	if w.isActive {
		return nil
	}
	w.isActive = true
	w.startTime = time.Now()
	return w.spinner.Tick
}

// Stop deactivates the wave. Pending ticks are dropped by Update.
func (w *Wave) Stop() {
	w.isActive = false
}

// IsActive returns whether the wave is animating.
func (w Wave) IsActive() bool {
	return w.isActive
}

// Elapsed returns the time since Start.
func (w Wave) Elapsed() time.Duration {
	if w.startTime.IsZero() {
		return 0
	}
	return time.Since(w.startTime)
}

// Update advances the animation. Ticks arriving while stopped end the loop.
func (w Wave) Update(msg tea.Msg) (Wave, tea.Cmd) {
	if !w.isActive {
		return w, nil
	}
	var cmd tea.Cmd
	w.spinner, cmd = w.spinner.Update(msg)
	return w, cmd
}

// View renders the wave, or nothing when stopped.
func (w Wave) View() string {
	if !w.isActive {
		return ""
	}
	label := w.label
	if secs := int(w.Elapsed().Seconds()); secs >= 2 {
		label = fmt.Sprintf("%s (%ds)", label, secs)
	}
	if w.theme == nil {
		return w.spinner.View() + "  " + label
	}
	return w.spinner.View() + "  " + w.theme.ThinkingText.Render(label)
}
