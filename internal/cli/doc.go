// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires configuration, logging, the Gemini client and the chat
// orchestrator together behind the gemchat command line.
//
// The root command starts the full-screen chat. With --plain it runs a
// line-mode chat instead, for terminals or pipes where a full-screen UI is
// unwanted. Errors returned from commands map to distinct exit codes; see
// ExitCode.
package cli
