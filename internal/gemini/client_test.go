// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// generateRequest is the subset of the generateContent body the tests inspect.
type generateRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
}

func replyJSON(text string) string {
	return fmt.Sprintf(`{
		"candidates": [{
			"content": {"role": "model", "parts": [{"text": %q}]},
			"finishReason": "STOP"
		}]
	}`, text)
}

// fakeGemini serves generateContent with a fixed reply and records requests.
func fakeGemini(t *testing.T, reply string) (*httptest.Server, *atomic.Int32, *generateRequest) {
	t.Helper()
	var calls atomic.Int32
	var last generateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&last)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(replyJSON(reply)))
	}))
	t.Cleanup(server.Close)
	return server, &calls, &last
}

// =============================================================================
// CLIENT TESTS
// =============================================================================

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), Options{APIKey: "  "})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(context.Background(), Options{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.Model())
	assert.Equal(t, DefaultTimeout, c.timeout)
	assert.Len(t, c.KeyFingerprint(), 8)
	assert.NotContains(t, c.KeyFingerprint(), "test-key")
}

func TestClient_GenerateSendsPromptOnly(t *testing.T) {
	server, calls, last := fakeGemini(t, "Hi there\n")

	c, err := NewClient(context.Background(), Options{
		APIKey:  "test-key",
		Model:   "gemini-pro",
		BaseURL: server.URL,
	})
	require.NoError(t, err)

	reply, err := c.Generate(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there\n", reply, "reply is returned untrimmed")
	assert.Equal(t, int32(1), calls.Load(), "exactly one outbound call")

	require.Len(t, last.Contents, 1, "no history is sent, only the prompt")
	require.Len(t, last.Contents[0].Parts, 1)
	assert.Equal(t, "Hello", last.Contents[0].Parts[0].Text)
	assert.Equal(t, "user", last.Contents[0].Role)
}

func TestClient_GenerateEmptyReply(t *testing.T) {
	server, _, _ := fakeGemini(t, "   ")

	c, err := NewClient(context.Background(), Options{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "Hello")
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestClient_GenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	c, err := NewClient(context.Background(), Options{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "Hello")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_RequestsPerMinute(t *testing.T) {
	server, calls, _ := fakeGemini(t, "ok")

	c, err := NewClient(context.Background(), Options{
		APIKey:            "test-key",
		BaseURL:           server.URL,
		RequestsPerMinute: 1,
	})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "first")
	require.NoError(t, err)

	// The next token is a minute away, well past this deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Generate(ctx, "second")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(1), calls.Load(), "a throttled prompt is never sent")
}

func TestClient_GenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(context.Background(), Options{APIKey: "bad-key", BaseURL: server.URL})
	require.NoError(t, err)

	reply, err := c.Generate(context.Background(), "Hello")
	require.Error(t, err)
	assert.Empty(t, reply)
}

func TestGeneratorFunc(t *testing.T) {
	var g Generator = GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		return strings.ToUpper(prompt), nil
	})
	reply, err := g.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "HI", reply)
}

// =============================================================================
// ERROR CLASSIFICATION TESTS
// =============================================================================

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), ErrTimeout},
		{"canceled", context.Canceled, ErrCanceled},
		{"unauthorized", genai.APIError{Code: 401, Message: "unauthenticated"}, ErrAuthFailed},
		{"forbidden", genai.APIError{Code: 403, Message: "denied"}, ErrAuthFailed},
		{"bad key as 400", genai.APIError{Code: 400, Message: "API key not valid. Please pass a valid API key."}, ErrAuthFailed},
		{"rate limited", genai.APIError{Code: 429, Message: "quota"}, ErrRateLimited},
		{"gateway timeout", genai.APIError{Code: 504, Message: "deadline"}, ErrTimeout},
		{"pointer api error", &genai.APIError{Code: 429}, ErrRateLimited},
		{"dial failure", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, ErrUnreachable},
		{"dns failure", &net.DNSError{Err: "no such host", Name: "generativelanguage.googleapis.com"}, ErrUnreachable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyError(tc.err)
			assert.ErrorIs(t, got, tc.want)
			assert.ErrorIs(t, got, tc.err, "original error stays in the chain")
		})
	}
}

func TestClassifyError_Passthrough(t *testing.T) {
	assert.NoError(t, classifyError(nil))

	base := errors.New("something odd")
	got := classifyError(base)
	assert.ErrorIs(t, got, base)
	for _, sentinel := range []error{ErrAuthFailed, ErrTimeout, ErrRateLimited, ErrUnreachable} {
		assert.NotErrorIs(t, got, sentinel)
	}

	other := classifyError(genai.APIError{Code: 500, Message: "internal"})
	assert.Contains(t, other.Error(), "500")
	assert.True(t, strings.HasPrefix(other.Error(), "gemini API error 500"), other.Error())
	assert.True(t, strings.HasPrefix(got.Error(), "gemini request failed"), got.Error())
}

func TestErrorStrings_Lowercase(t *testing.T) {
	for _, err := range []error{
		ErrNotConfigured, ErrAuthFailed, ErrRateLimited, ErrTimeout,
		ErrCanceled, ErrUnreachable, ErrEmptyReply,
	} {
		msg := err.Error()
		assert.Equal(t, strings.ToLower(msg[:1]), msg[:1], "error %q should start lowercase", msg)
		assert.False(t, strings.HasSuffix(msg, "."), "error %q should not end with punctuation", msg)
	}
}
