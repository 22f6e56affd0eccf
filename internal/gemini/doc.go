// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the Gemini API integration used to answer chat
// queries.
//
// Every call is stateless: the prompt is sent as a single user turn and no
// earlier transcript is included. The client does not retry.
//
// # Key Types
//
//   - Generator: the one-call-per-prompt interface the chat orchestrator uses
//   - Client: Generator backed by google.golang.org/genai
//
// # Usage
//
//	client, err := gemini.NewClient(ctx, gemini.Options{
//	    APIKey: cfg.APIKey,
//	    Model:  "gemini-pro",
//	})
//	reply, err := client.Generate(ctx, "Hello")
//
// # Errors
//
// Failures are classified into sentinel errors (ErrAuthFailed, ErrTimeout,
// ErrRateLimited, ErrUnreachable, ErrEmptyReply) wrapped around the SDK
// error, so callers can use errors.Is. The API key is never logged; use
// KeyFingerprint to correlate log lines with a credential.
package gemini
