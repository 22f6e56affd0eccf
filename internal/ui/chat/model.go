// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	core "github.com/jeranaias/gemchat-tui/internal/chat"
	"github.com/jeranaias/gemchat-tui/internal/connectivity"
	"github.com/jeranaias/gemchat-tui/internal/ui/components"
	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// checkTimeout bounds one connectivity check.
const checkTimeout = 2 * time.Second

// Lines used by everything except the transcript viewport.
const (
	headerHeight = 1
	waveHeight   = 1
	inputHeight  = 2
	statusHeight = 1
	chromeHeight = headerHeight + waveHeight + inputHeight + statusHeight
)

// Options configures the chat screen.
type Options struct {
	// Orchestrator owns the transcript and the request cycle. Required.
	Orchestrator *core.Orchestrator

	// Checker reports network transport availability. Nil disables the gate.
	Checker connectivity.Checker

	Theme          *styles.Theme
	Markdown       bool
	ShowTimestamps bool
	ModelName      string

	Logger *zap.Logger
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	theme   *styles.Theme
	orch    *core.Orchestrator
	checker connectivity.Checker
	logger  *zap.Logger

	renderer *components.TranscriptRenderer
	viewport viewport.Model
	input    textinput.Model
	wave     components.Wave
	toasts   *components.ToastManager
	gate     components.GateDialog
	keyMap   KeyMap

	modelName string

	width  int
	height int
	ready  bool

	// toastTicking is set while a toast tick loop is scheduled.
	toastTicking bool
	quitting     bool
}

// New creates the chat screen.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	orch := opts.Orchestrator
	if orch == nil {
		panic("chat.New: Orchestrator is required")
	}

	var md *components.MarkdownRenderer
	if opts.Markdown {
		md = components.NewMarkdownRenderer(theme.GlamourStyle())
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask Gemini..."
	ti.CharLimit = 8192
	ti.PromptStyle = theme.InputPrompt
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.Focus()

	vp := viewport.New(80, 20)

	return Model{
		theme:     theme,
		orch:      orch,
		checker:   opts.Checker,
		logger:    logger.Named("ui"),
		renderer:  components.NewTranscriptRenderer(theme, md, opts.ShowTimestamps),
		viewport:  vp,
		input:     ti,
		wave:      components.NewWave(theme),
		toasts:    components.NewToastManager(),
		gate:      components.NewGateDialog(theme),
		keyMap:    DefaultKeyMap(),
		modelName: opts.ModelName,
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink and the first connectivity check.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.checkConnectivity())
}

// View renders the chat screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Orchestrator returns the request orchestrator behind the screen.
func (m Model) Orchestrator() *core.Orchestrator {
	return m.orch
}

// GateVisible reports whether the connectivity dialog is blocking input.
func (m Model) GateVisible() bool {
	return m.gate.Visible()
}

// InputValue returns the current contents of the input field.
func (m Model) InputValue() string {
	return m.input.Value()
}

// Toasts returns the visible toasts, newest first.
func (m Model) Toasts() []components.Toast {
	return m.toasts.Toasts()
}

// =============================================================================
// COMMANDS
// =============================================================================

// checkConnectivity runs the checker off the UI loop.
func (m Model) checkConnectivity() tea.Cmd {
	checker := m.checker
	if checker == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		status, err := checker.Check(ctx)
		return ConnectivityMsg{Status: status, Err: err}
	}
}

// request runs one outbound call off the UI loop.
func (m Model) request(req core.Request) tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		return ResponseMsg{Completion: orch.Run(req)}
	}
}

func (m *Model) startToastTick() tea.Cmd {
	if m.toastTicking {
		return nil
	}
	m.toastTicking = true
	return components.ToastTickCmd()
}
