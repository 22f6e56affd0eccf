// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Configuration constants for the Gemini API.
const (
	// DefaultModel is the model used when none is configured.
	DefaultModel = "gemini-pro"

	// DefaultTimeout bounds a single Generate call.
	DefaultTimeout = 60 * time.Second
)

// Generator produces one reply for one prompt.
//
// Implementations must be safe to call from a goroutine other than the one
// that created them; the chat orchestrator runs calls off the UI loop.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f(ctx, prompt).
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Options configures a Client.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// RequestsPerMinute caps outbound calls. Zero means no cap.
	RequestsPerMinute int

	// BaseURL overrides the API endpoint. Used by tests.
	BaseURL string
	// HTTPClient overrides the transport used by the SDK.
	HTTPClient *http.Client

	Logger *zap.Logger
}

// Client is a Generator backed by the Gemini API.
type Client struct {
	genai       *genai.Client
	model       string
	timeout     time.Duration
	limiter     *rate.Limiter
	fingerprint string
	logger      *zap.Logger
}

// NewClient creates a Gemini client. It does not contact the API.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrNotConfigured
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	return &Client{
		genai:       gc,
		model:       model,
		timeout:     timeout,
		limiter:     limiter,
		fingerprint: keyFingerprint(opts.APIKey),
		logger:      logger.Named("gemini"),
	}, nil
}

// Model returns the model name prompts are sent to.
func (c *Client) Model() string {
	return c.model
}

// KeyFingerprint returns a short SHA-256 fingerprint of the API key.
func (c *Client) KeyFingerprint() string {
	return c.fingerprint
}

// Generate sends prompt as a single user turn and returns the reply text.
// The reply is returned as received; trimming is the caller's concern.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return "", classifyError(ctx.Err())
			}
			c.logger.Warn("generate throttled", zap.String("model", c.model), zap.Error(err))
			return "", fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	elapsed := time.Since(start)

	if err != nil {
		classified := classifyError(err)
		c.logger.Warn("generate failed",
			zap.String("model", c.model),
			zap.String("key", c.fingerprint),
			zap.Duration("elapsed", elapsed),
			zap.Error(classified))
		return "", classified
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		c.logger.Warn("generate returned no text",
			zap.String("model", c.model),
			zap.Duration("elapsed", elapsed))
		return "", ErrEmptyReply
	}

	c.logger.Debug("generate complete",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)),
		zap.Int("reply_len", len(text)),
		zap.Duration("elapsed", elapsed))
	return text, nil
}

// keyFingerprint hashes the key so logs never carry key material.
func keyFingerprint(apiKey string) string {
	if apiKey == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(h[:4])
}
