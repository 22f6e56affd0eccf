// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"

	"github.com/jeranaias/gemchat-tui/internal/connectivity"
	"github.com/jeranaias/gemchat-tui/internal/gemini"
)

// NoticeKind tells the UI how to present a notice.
type NoticeKind int

const (
	// NoticeInfo is a hint about the user's own input.
	NoticeInfo NoticeKind = iota
	// NoticeError reports a failed request.
	NoticeError
)

// User-facing notice text.
const (
	NoticeEmptyQuery = "Please enter some query"
	NoticeInFlight   = "Please wait for the current response"
	NoticeClosed     = "Chat session has ended"
)

var notices = []struct {
	err  error
	text string
	kind NoticeKind
}{
	{ErrEmptyQuery, NoticeEmptyQuery, NoticeInfo},
	{ErrRequestInFlight, NoticeInFlight, NoticeInfo},
	{ErrClosed, NoticeClosed, NoticeInfo},
	{connectivity.ErrNoTransport, connectivity.DialogMessage, NoticeError},
	{gemini.ErrNotConfigured, "Gemini API key is not configured", NoticeError},
	{gemini.ErrAuthFailed, "Gemini rejected the API key", NoticeError},
	{gemini.ErrRateLimited, "Rate limit reached, try again shortly", NoticeError},
	{gemini.ErrTimeout, "Gemini took too long to respond", NoticeError},
	{gemini.ErrUnreachable, "Could not reach Gemini, check your connection", NoticeError},
	{gemini.ErrEmptyReply, "Gemini returned an empty reply", NoticeError},
	{gemini.ErrCanceled, "Request canceled", NoticeError},
	{context.Canceled, "Request canceled", NoticeError},
}

// Notice returns the short text shown to the user for err, and how to
// present it. Diagnostics stay in the log.
func Notice(err error) (string, NoticeKind) {
	if err == nil {
		return "", NoticeInfo
	}
	for _, n := range notices {
		if errors.Is(err, n.err) {
			return n.text, n.kind
		}
	}
	return "Request failed, please try again", NoticeError
}
