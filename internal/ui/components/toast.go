// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind selects a toast's color, icon and lifetime.
type ToastKind int

const (
	// ToastKindStatus is an input hint (cyan).
	ToastKindStatus ToastKind = iota
	// ToastKindError reports a failed request (rose).
	ToastKindError
)

// DefaultToastDuration is the auto-dismiss duration for status toasts.
const DefaultToastDuration = 4 * time.Second

// ErrorToastDuration is longer so failures can be read.
const ErrorToastDuration = 8 * time.Second

// maxToasts caps the visible stack.
const maxToasts = 3

// Toast is a transient notice that does not block input.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// NewToast creates a toast with the lifetime for its kind.
func NewToast(message string, kind ToastKind) Toast {
	d := DefaultToastDuration
	if kind == ToastKindError {
		d = ErrorToastDuration
	}
	return Toast{
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

// IsExpired returns true if the toast should be dismissed at now.
func (t Toast) IsExpired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager keeps the visible toasts, newest first.
type ToastManager struct {
	mu     sync.Mutex
	toasts []Toast
	nextID int
}

// NewToastManager creates an empty manager.
func NewToastManager() *ToastManager {
	return &ToastManager{nextID: 1}
}

// Add shows a toast and returns its ID. A toast repeating the newest
// message replaces it instead of stacking.
func (m *ToastManager) Add(t Toast) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	t.ID = m.nextID
	m.nextID++

	if len(m.toasts) > 0 && m.toasts[0].Message == t.Message && m.toasts[0].Kind == t.Kind {
		m.toasts[0] = t
		return t.ID
	}

	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[:maxToasts]
	}
	return t.ID
}

// AddStatus shows a status toast.
func (m *ToastManager) AddStatus(message string) int {
	return m.Add(NewToast(message, ToastKindStatus))
}

// AddError shows an error toast.
func (m *ToastManager) AddError(message string) int {
	return m.Add(NewToast(message, ToastKindError))
}

// Tick drops toasts expired at now and reports whether any remain.
func (m *ToastManager) Tick(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
	return len(m.toasts) > 0
}

// Toasts returns a copy of the visible toasts, newest first.
func (m *ToastManager) Toasts() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// HasToasts returns true if any toast is visible.
func (m *ToastManager) HasToasts() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts) > 0
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg is sent periodically to expire toasts.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd ticks toasts every 250ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToast renders one toast no wider than width.
func RenderToast(theme *styles.Theme, t Toast, width int) string {
	maxWidth := clamp(width-4, 20, 60)

	style := theme.ToastStatus
	icon := styles.StatusIndicators.Info
	if t.Kind == ToastKindError {
		style = theme.ToastError
		icon = styles.StatusIndicators.Error
	}

	text := wordWrap(icon+" "+t.Message, maxWidth-style.GetHorizontalFrameSize())
	return style.Render(text)
}

// RenderToastStack renders toasts right-aligned in a block width wide,
// newest at the bottom.
func RenderToastStack(theme *styles.Theme, toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(toasts))
	for i := len(toasts) - 1; i >= 0; i-- {
		rendered = append(rendered, RenderToast(theme, toasts[i], width))
	}
	stack := strings.Join(rendered, "\n")
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
}
