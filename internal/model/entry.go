// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ORIGIN TYPE
// =============================================================================

// Origin identifies who authored a transcript entry.
type Origin string

const (
	OriginUser      Origin = "user"
	OriginAssistant Origin = "assistant"
)

// ErrInvalidOrigin is returned when an entry is built with an unknown origin.
var ErrInvalidOrigin = errors.New("invalid origin: must be user or assistant")

// String returns the string representation of the origin.
func (o Origin) String() string {
	return string(o)
}

// Valid reports whether o is one of the two recognised origins.
func (o Origin) Valid() bool {
	return o == OriginUser || o == OriginAssistant
}

// DisplayName returns a human-readable label for the origin.
func (o Origin) DisplayName() string {
	switch o {
	case OriginUser:
		return "you"
	case OriginAssistant:
		return "gemini"
	default:
		return string(o)
	}
}

// =============================================================================
// ENTRY TYPE
// =============================================================================

// Entry is a single message in the transcript.
//
// Entries are passed and stored by value. Nothing modifies an entry once it
// has been appended to a Transcript.
type Entry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Origin    Origin    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEntry creates an entry with a fresh ID and the current time.
func NewEntry(text string, origin Origin) (Entry, error) {
	if !origin.Valid() {
		return Entry{}, fmt.Errorf("%w: %q", ErrInvalidOrigin, origin)
	}
	return Entry{
		ID:        uuid.NewString(),
		Text:      text,
		Origin:    origin,
		CreatedAt: time.Now(),
	}, nil
}

// NewUserEntry creates an entry authored by the user.
func NewUserEntry(text string) Entry {
	e, _ := NewEntry(text, OriginUser)
	return e
}

// NewAssistantEntry creates an entry authored by the remote model.
func NewAssistantEntry(text string) Entry {
	e, _ := NewEntry(text, OriginAssistant)
	return e
}

// IsUser reports whether the entry was typed by the user.
func (e Entry) IsUser() bool {
	return e.Origin == OriginUser
}

// Preview returns the text truncated to maxLen runes.
func (e Entry) Preview(maxLen int) string {
	runes := []rune(e.Text)
	if len(runes) <= maxLen {
		return e.Text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
