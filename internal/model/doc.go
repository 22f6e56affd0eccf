// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the transcript data structures for a chat session.
//
// A session's conversation is an append-only Transcript of Entry values. Each
// Entry carries the message text and its Origin, which is either the user or
// the assistant (the remote model).
//
// # Key Types
//
//   - Origin: who authored an entry (OriginUser or OriginAssistant)
//   - Entry: one message; a value that is never mutated after creation
//   - Transcript: ordered, append-only sequence of entries
//
// # Usage
//
//	t := model.NewTranscript()
//	t.Append(model.NewUserEntry("Hello"))
//	t.Append(model.NewAssistantEntry("Hi there"))
//
//	for i := 0; i < t.Len(); i++ {
//	    e, _ := t.At(i)
//	    fmt.Println(e.Origin, e.Text)
//	}
//
// The transcript is not safe for concurrent writers. The chat orchestrator is
// its only writer and calls Append from the UI goroutine.
package model
