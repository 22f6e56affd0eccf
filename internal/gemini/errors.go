// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Error variables for common Gemini failures.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("gemini API key not configured")

	// ErrAuthFailed indicates the key was rejected.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates the quota for the key is exhausted.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrTimeout indicates the call did not finish before its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrCanceled indicates the caller gave up on the call.
	ErrCanceled = errors.New("request canceled")

	// ErrUnreachable indicates the API host could not be reached.
	ErrUnreachable = errors.New("gemini API unreachable")

	// ErrEmptyReply indicates the response carried no text (for example a
	// prompt blocked by safety filters).
	ErrEmptyReply = errors.New("model returned an empty reply")
)

// classifyError wraps an SDK error in the matching sentinel.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}

	if code, msg, ok := apiErrorCode(err); ok {
		switch {
		case code == http.StatusUnauthorized, code == http.StatusForbidden:
			return fmt.Errorf("%w: %w", ErrAuthFailed, err)
		case code == http.StatusBadRequest && strings.Contains(strings.ToLower(msg), "api key"):
			// Gemini reports an invalid key as 400 INVALID_ARGUMENT.
			return fmt.Errorf("%w: %w", ErrAuthFailed, err)
		case code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", ErrRateLimited, err)
		case code == http.StatusGatewayTimeout:
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return fmt.Errorf("gemini API error %d: %w", code, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	return fmt.Errorf("gemini request failed: %w", err)
}

// apiErrorCode extracts the HTTP status from a genai.APIError, whether
// it was returned by value or by pointer.
func apiErrorCode(err error) (int, string, bool) {
	var byValue genai.APIError
	if errors.As(err, &byValue) {
		return byValue.Code, byValue.Message, true
	}
	var byPointer *genai.APIError
	if errors.As(err, &byPointer) && byPointer != nil {
		return byPointer.Code, byPointer.Message, true
	}
	return 0, "", false
}
