// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned by At for an index outside [0, Len()).
var ErrIndexOutOfRange = errors.New("transcript index out of range")

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is the ordered record of a chat session.
//
// Insertion order is display order and chronological order. Append is the
// only mutation; entries are never removed, reordered or edited, so Len never
// decreases.
type Transcript struct {
	entries []Entry
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{entries: make([]Entry, 0, 16)}
}

// Append adds an entry to the end of the transcript.
func (t *Transcript) Append(e Entry) {
	t.entries = append(t.entries, e)
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// At returns the entry at index i.
func (t *Transcript) At(i int) (Entry, error) {
	if i < 0 || i >= len(t.entries) {
		return Entry{}, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, i, len(t.entries))
	}
	return t.entries[i], nil
}

// Last returns the most recent entry and false if the transcript is empty.
func (t *Transcript) Last() (Entry, bool) {
	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// Entries returns a copy of the entries in order.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// IsEmpty reports whether nothing has been appended yet.
func (t *Transcript) IsEmpty() bool {
	return len(t.entries) == 0
}
