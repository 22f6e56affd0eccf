// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	core "github.com/jeranaias/gemchat-tui/internal/chat"
	"github.com/jeranaias/gemchat-tui/internal/connectivity"
)

// ResponseMsg carries a finished request back to the UI loop.
type ResponseMsg struct {
	Completion core.Completion
}

// ConnectivityMsg reports the result of a connectivity check.
type ConnectivityMsg struct {
	Status connectivity.Status
	Err    error
}
