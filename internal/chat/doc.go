// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat orchestrates prompt submission against a Gemini generator.
//
// An Orchestrator owns the session transcript and is the only code that
// writes to it. A submission is split in three steps so that the network
// call can run off the UI loop while every state change stays on it:
//
//	req, err := orch.Submit(text)     // UI loop: validate, append user entry
//	done := orch.Run(req)             // any goroutine: one outbound call
//	entry, err := orch.Complete(done) // UI loop: append reply or report failure
//
// Only one request may be in flight unless AllowOverlap is set, in which
// case replies are appended in the order they complete.
//
// Notice converts any error produced here into the short text shown to the
// user.
package chat
