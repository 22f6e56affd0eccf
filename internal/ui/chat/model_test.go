// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/jeranaias/gemchat-tui/internal/chat"
	"github.com/jeranaias/gemchat-tui/internal/connectivity"
	"github.com/jeranaias/gemchat-tui/internal/gemini"
	"github.com/jeranaias/gemchat-tui/internal/model"
	"github.com/jeranaias/gemchat-tui/internal/ui/components"
	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// HELPERS
// =============================================================================

func newTestModel(t *testing.T, gen gemini.Generator, status connectivity.Status) Model {
	t.Helper()
	orch := core.New(gen, core.Options{})
	t.Cleanup(orch.Close)

	m := New(Options{
		Orchestrator: orch,
		Checker:      connectivity.Fixed(status),
		Theme:        styles.NewTheme(styles.ModeDark),
		ModelName:    "gemini-pro",
	})
	return update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// awaitMsg runs cmd, expanding batches, and returns the first message of
// type T. Timer-driven messages (spinner, blink) are ignored.
func awaitMsg[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	msgs := make(chan tea.Msg, 32)

	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					run(sub)
				}
				return
			}
			msgs <- msg
		}()
	}
	run(cmd)

	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg := <-msgs:
			if v, ok := msg.(T); ok {
				return v
			}
		case <-timeout:
			var zero T
			t.Fatalf("no %T produced", zero)
			return zero
		}
	}
}

func origins(m Model) []model.Origin {
	var out []model.Origin
	for _, e := range m.Orchestrator().Transcript().Entries() {
		out = append(out, e.Origin)
	}
	return out
}

type countingGenerator struct {
	reply string
	err   error
	calls atomic.Int32
}

func (g *countingGenerator) Generate(context.Context, string) (string, error) {
	g.calls.Add(1)
	return g.reply, g.err
}

// =============================================================================
// SUBMISSION TESTS
// =============================================================================

func TestSubmit_HelloHiThere(t *testing.T) {
	gen := &countingGenerator{reply: "Hi there\n"}
	m := newTestModel(t, gen, connectivity.Online)

	m = typeText(t, m, "Hello")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	assert.Empty(t, m.InputValue(), "accepted input is cleared")
	assert.Equal(t, []model.Origin{model.OriginUser}, origins(m))
	assert.Contains(t, m.View(), "Gemini is typing", "pending indicator visible")

	resp := awaitMsg[ResponseMsg](t, cmd)
	m = update(t, m, resp)

	entries := m.Orchestrator().Transcript().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Hello", entries[0].Text)
	assert.Equal(t, "Hi there", entries[1].Text)
	assert.Equal(t, model.OriginAssistant, entries[1].Origin)

	view := m.View()
	assert.Contains(t, view, "Hi there")
	assert.NotContains(t, view, "Gemini is typing", "pending indicator hidden")
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestSubmit_BlankShowsNotice(t *testing.T) {
	gen := &countingGenerator{reply: "unused"}
	m := newTestModel(t, gen, connectivity.Online)

	m = typeText(t, m, "   ")
	m, _ = updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, 0, m.Orchestrator().Transcript().Len())
	assert.Equal(t, "   ", m.InputValue(), "rejected input is kept")
	require.Len(t, m.Toasts(), 1)
	assert.Equal(t, "Please enter some query", m.Toasts()[0].Message)
	assert.Equal(t, components.ToastKindStatus, m.Toasts()[0].Kind)
	assert.Contains(t, m.View(), "Please enter some query")
	assert.Equal(t, int32(0), gen.calls.Load())
}

func TestSubmit_FailureShowsErrorToast(t *testing.T) {
	gen := &countingGenerator{err: gemini.ErrTimeout}
	m := newTestModel(t, gen, connectivity.Online)

	m = typeText(t, m, "Hello")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, awaitMsg[ResponseMsg](t, cmd))

	assert.Equal(t, []model.Origin{model.OriginUser}, origins(m))
	assert.False(t, m.Orchestrator().Busy())
	require.NotEmpty(t, m.Toasts())
	assert.Equal(t, components.ToastKindError, m.Toasts()[0].Kind)
	assert.NotContains(t, m.View(), "Gemini is typing")
}

func TestSubmit_BusyRejectsSecond(t *testing.T) {
	m := newTestModel(t, &countingGenerator{reply: "ok"}, connectivity.Online)

	m = typeText(t, m, "first")
	m, _ = updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = typeText(t, m, "second")
	m, _ = updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, 1, m.Orchestrator().Transcript().Len())
	assert.Equal(t, "second", m.InputValue())
	require.NotEmpty(t, m.Toasts())
	assert.Equal(t, "Please wait for the current response", m.Toasts()[0].Message)
}

// =============================================================================
// CONNECTIVITY GATE TESTS
// =============================================================================

func TestGate_OfflineBlocksUntilAcknowledged(t *testing.T) {
	gen := &countingGenerator{reply: "unused"}
	m := newTestModel(t, gen, connectivity.Offline)

	m = update(t, m, awaitMsg[ConnectivityMsg](t, m.Init()))
	require.True(t, m.GateVisible())

	view := m.View()
	assert.Contains(t, view, connectivity.DialogTitle)
	assert.Contains(t, view, connectivity.DialogMessage)

	// Typing, submitting and scrolling are all swallowed.
	m = typeText(t, m, "Hello")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Nil(t, cmd)
	assert.Empty(t, m.InputValue())
	assert.Equal(t, 0, m.Orchestrator().Transcript().Len())

	// Enter acknowledges, which quits.
	m, cmd = updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	ack := awaitMsg[components.GateAcknowledgedMsg](t, cmd)
	m, cmd = updateCmd(t, m, ack)
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
	assert.True(t, m.Orchestrator().Closed())
	assert.Equal(t, int32(0), gen.calls.Load())
}

func TestGate_OnlineDoesNotBlock(t *testing.T) {
	m := newTestModel(t, &countingGenerator{reply: "ok"}, connectivity.Online)
	m = update(t, m, awaitMsg[ConnectivityMsg](t, m.Init()))
	assert.False(t, m.GateVisible())
}

func TestGate_CheckedOnResume(t *testing.T) {
	for name, msg := range map[string]tea.Msg{
		"focus":  tea.FocusMsg{},
		"resume": tea.ResumeMsg{},
	} {
		t.Run(name, func(t *testing.T) {
			m := newTestModel(t, &countingGenerator{reply: "ok"}, connectivity.Offline)

			m, cmd := updateCmd(t, m, msg)
			require.NotNil(t, cmd, "resume must trigger a check")
			m = update(t, m, awaitMsg[ConnectivityMsg](t, cmd))
			assert.True(t, m.GateVisible())
		})
	}
}

func TestSuspend_ResumeRechecks(t *testing.T) {
	m := newTestModel(t, &countingGenerator{reply: "ok"}, connectivity.Offline)

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.SuspendMsg)
	require.True(t, ok, "ctrl+z must suspend the program")
	assert.False(t, m.GateVisible())

	m, cmd = updateCmd(t, m, tea.ResumeMsg{})
	require.NotNil(t, cmd)
	m = update(t, m, awaitMsg[ConnectivityMsg](t, cmd))
	assert.True(t, m.GateVisible(), "coming back offline shows the gate")
}

func TestGate_CheckErrorDoesNotBlock(t *testing.T) {
	m := newTestModel(t, &countingGenerator{reply: "ok"}, connectivity.Online)
	m = update(t, m, ConnectivityMsg{Status: connectivity.Unknown, Err: context.DeadlineExceeded})
	assert.False(t, m.GateVisible())
}

// =============================================================================
// TEARDOWN TESTS
// =============================================================================

func TestQuit_DropsLateResponse(t *testing.T) {
	m := newTestModel(t, &countingGenerator{reply: "late"}, connectivity.Online)

	m = typeText(t, m, "Hello")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	resp := awaitMsg[ResponseMsg](t, cmd)

	m, cmd = updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, isQuit := cmd().(tea.QuitMsg)
	require.True(t, isQuit)

	m = update(t, m, resp)
	assert.Equal(t, 1, m.Orchestrator().Transcript().Len())
	assert.Empty(t, m.View())
}

func TestView_EmptyTranscript(t *testing.T) {
	m := newTestModel(t, &countingGenerator{reply: "ok"}, connectivity.Online)
	view := m.View()
	assert.Contains(t, view, "Gemini Chat")
	assert.Contains(t, view, "gemini-pro")
	assert.Contains(t, view, "Ask Gemini anything")
	assert.Equal(t, 24, strings.Count(view, "\n")+1, "screen fills the window")
}

func TestOverlayBottom(t *testing.T) {
	assert.Equal(t, "a\nb\nX\nY", overlayBottom("a\nb\nc\nd", "X\nY"))
	assert.Equal(t, "Y", overlayBottom("a", "X\nY"))
}
