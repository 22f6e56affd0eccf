// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual building blocks of the gemchat chat
screen.

# Transcript (transcript.go)

ProjectRows maps transcript entries to rows, one per entry. A row has a
Left and a Right slot and exactly one is filled: user entries on the right,
Gemini replies on the left. TranscriptRenderer draws rows as cards pinned to
their side. Rendering is a pure function of the rows, the width and the
renderer settings, so the chat screen simply re-renders after every append.

# Markdown (markdown.go)

Replies are rendered with glamour when markdown is enabled.

# Wave Indicator (wave.go)

A four-dot bubbles spinner shown while a reply is pending.

# Gate Dialog (gate_dialog.go)

The blocking "No Internet Connection" modal whose only action exits.

# Toasts (toast.go)

Transient notices that expire on their own: input hints after 4s, request
failures after 8s.
*/
package components
