// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"

	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsInteractive reports whether both ends of the session are terminals,
// which the full-screen chat needs.
func IsInteractive() bool {
	return IsTTY() && IsStdoutTTY()
}

// =============================================================================
// TERMINAL DIMENSIONS
// =============================================================================

// DefaultTerminalWidth is used when stdout is not a terminal.
const DefaultTerminalWidth = 80

// GetTerminalWidth returns the terminal width, or DefaultTerminalWidth when
// it cannot be determined.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	return width
}

// requireTerminal returns a usage error when the full-screen chat cannot run.
func requireTerminal(interactive bool) error {
	if interactive {
		return nil
	}
	return &UsageError{
		Reason:     "gemchat needs an interactive terminal for the full-screen chat",
		Suggestion: "gemchat --plain",
	}
}
