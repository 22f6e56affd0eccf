// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/gemchat-tui/internal/config"
	"github.com/jeranaias/gemchat-tui/internal/connectivity"
	"github.com/jeranaias/gemchat-tui/internal/gemini"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates the API rejected the credential
	ExitAuthError = 4
	// ExitNetworkError indicates no network transport or an unreachable API
	ExitNetworkError = 5
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ExitError carries an explicit exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// UsageError reports a command invoked in a way it cannot run.
type UsageError struct {
	Reason     string
	Suggestion string
}

func (e *UsageError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s\nTry: %s", e.Reason, e.Suggestion)
	}
	return e.Reason
}

// configError marks err as a configuration failure.
func configError(err error) error {
	return &ExitError{Code: ExitConfigError, Err: err}
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}

	var validateErrs config.ValidateErrors
	switch {
	case errors.As(err, &validateErrs),
		errors.Is(err, config.ErrMissingAPIKey),
		errors.Is(err, gemini.ErrNotConfigured):
		return ExitConfigError
	case errors.Is(err, gemini.ErrAuthFailed):
		return ExitAuthError
	case errors.Is(err, connectivity.ErrNoTransport),
		errors.Is(err, gemini.ErrUnreachable):
		return ExitNetworkError
	}
	return ExitGeneralError
}
