// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	core "github.com/jeranaias/gemchat-tui/internal/chat"
	"github.com/jeranaias/gemchat-tui/internal/ui/components"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.FocusMsg, tea.ResumeMsg:
		// The screen has resumed; re-check unless already blocked.
		if m.gate.Visible() {
			return m, nil
		}
		return m, m.checkConnectivity()

	case ConnectivityMsg:
		return m.handleConnectivity(msg)

	case components.GateAcknowledgedMsg:
		m.logger.Info("connectivity dialog acknowledged, exiting")
		return m.quit()

	case ResponseMsg:
		return m.handleResponse(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.wave, cmd = m.wave.Update(msg)
		return m, cmd

	case components.ToastTickMsg:
		m.toastTicking = false
		if m.toasts.Tick(msg.Time) {
			return m, m.startToastTick()
		}
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	m.viewport.Width = msg.Width
	m.viewport.Height = max(msg.Height-chromeHeight, 1)
	m.input.Width = max(msg.Width-len(m.input.Prompt)-4, 10)
	m.gate.SetSize(msg.Width, msg.Height)

	m.refreshTranscript()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The gate swallows every key; only acknowledge gets through.
	if m.gate.Visible() {
		var cmd tea.Cmd
		m.gate, cmd = m.gate.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m.quit()

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.Suspend):
		// Back in the foreground the program sends tea.ResumeMsg.
		return m, tea.Suspend

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfPageUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfPageDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Top):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keyMap.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit hands the input to the orchestrator. The input is cleared only
// when the submission is accepted.
func (m Model) submit() (tea.Model, tea.Cmd) {
	req, err := m.orch.Submit(m.input.Value())
	if err != nil {
		return m, m.notify(err)
	}

	m.input.Reset()
	m.refreshTranscript()

	return m, tea.Batch(m.wave.Start(), m.request(req))
}

func (m Model) handleResponse(msg ResponseMsg) (tea.Model, tea.Cmd) {
	_, err := m.orch.Complete(msg.Completion)
	if errors.Is(err, core.ErrStaleCompletion) {
		return m, nil
	}

	if !m.orch.Busy() {
		m.wave.Stop()
	}
	m.refreshTranscript()

	if err != nil {
		return m, m.notify(err)
	}
	return m, nil
}

func (m Model) handleConnectivity(msg ConnectivityMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("connectivity check failed", zap.Error(msg.Err))
		return m, nil
	}
	m.logger.Debug("connectivity checked", zap.Stringer("status", msg.Status))

	if msg.Status.Blocks() && !m.gate.Visible() {
		m.logger.Warn("no active network transport, blocking chat")
		m.gate.Show()
		m.input.Blur()
	}
	return m, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// notify shows the user-facing notice for err as a toast.
func (m *Model) notify(err error) tea.Cmd {
	text, kind := core.Notice(err)
	if kind == core.NoticeError {
		m.toasts.AddError(text)
	} else {
		m.toasts.AddStatus(text)
	}
	return m.startToastTick()
}

// refreshTranscript re-renders every entry and scrolls to the newest one.
func (m *Model) refreshTranscript() {
	rows := components.ProjectRows(m.orch.Transcript().Entries())
	m.viewport.SetContent(m.renderer.Render(rows, m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.orch.Close()
	m.wave.Stop()
	m.quitting = true
	return m, tea.Quit
}
