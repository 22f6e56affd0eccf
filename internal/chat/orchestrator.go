// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/gemchat-tui/internal/gemini"
	"github.com/jeranaias/gemchat-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyQuery is returned by Submit for blank input.
	ErrEmptyQuery = errors.New("empty query")

	// ErrRequestInFlight is returned by Submit while another request is
	// pending and overlap is disabled.
	ErrRequestInFlight = errors.New("request already in flight")

	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("chat session closed")

	// ErrStaleCompletion is returned by Complete for a completion that no
	// longer belongs to the session. Callers drop it silently.
	ErrStaleCompletion = errors.New("stale completion")
)

// =============================================================================
// TYPES
// =============================================================================

// Request is one accepted submission waiting for its reply.
type Request struct {
	ID     string
	Prompt string
	Sent   time.Time

	ctx context.Context
}

// Completion is the result of running a Request. Exactly one of Text and
// Err is meaningful.
type Completion struct {
	RequestID string
	Text      string
	Err       error
	Elapsed   time.Duration
}

// Options configures an Orchestrator.
type Options struct {
	// AllowOverlap permits Submit while earlier requests are pending.
	AllowOverlap bool

	// Transcript to append to. A fresh one is created when nil.
	Transcript *model.Transcript

	Logger *zap.Logger
}

// Orchestrator drives the submit, call, complete cycle for one session.
//
// Submit, Complete, Send, Pending and Close must be called from a single
// goroutine (the UI loop). Run may be called from any goroutine. To abort a
// call from elsewhere, cancel the context given to SendContext instead of
// calling Close.
type Orchestrator struct {
	gen          gemini.Generator
	transcript   *model.Transcript
	allowOverlap bool
	logger       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	// pending holds the IDs of requests that have not completed.
	pending map[string]struct{}
}

// New creates an orchestrator that sends prompts to gen.
func New(gen gemini.Generator, opts Options) *Orchestrator {
	transcript := opts.Transcript
	if transcript == nil {
		transcript = model.NewTranscript()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		gen:          gen,
		transcript:   transcript,
		allowOverlap: opts.AllowOverlap,
		logger:       logger.Named("chat"),
		ctx:          ctx,
		cancel:       cancel,
		pending:      make(map[string]struct{}),
	}
}

// =============================================================================
// SUBMISSION CYCLE
// =============================================================================

// Submit validates text, appends it as a user entry and marks a request
// pending. On error nothing changes.
func (o *Orchestrator) Submit(text string) (Request, error) {
	if o.closed {
		return Request{}, ErrClosed
	}

	prompt := strings.TrimSpace(text)
	if prompt == "" {
		return Request{}, ErrEmptyQuery
	}
	if !o.allowOverlap && len(o.pending) > 0 {
		return Request{}, ErrRequestInFlight
	}

	o.transcript.Append(model.NewUserEntry(prompt))

	req := Request{
		ID:     uuid.NewString(),
		Prompt: prompt,
		Sent:   time.Now(),
		ctx:    o.ctx,
	}
	o.pending[req.ID] = struct{}{}

	o.logger.Debug("request submitted",
		zap.String("request_id", req.ID),
		zap.Int("prompt_len", len(prompt)),
		zap.Int("pending", len(o.pending)))
	return req, nil
}

// Run performs the outbound call for req. It blocks until the generator
// returns or the session is closed.
func (o *Orchestrator) Run(req Request) Completion {
	ctx := req.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	text, err := o.gen.Generate(ctx, req.Prompt)
	return Completion{
		RequestID: req.ID,
		Text:      text,
		Err:       err,
		Elapsed:   time.Since(req.Sent),
	}
}

// Complete applies a completion to the session. On success the trimmed
// reply is appended and returned. On failure the transcript is untouched
// and the call error is returned for display. Pending is cleared either way.
func (o *Orchestrator) Complete(c Completion) (model.Entry, error) {
	if _, ok := o.pending[c.RequestID]; !ok || o.closed {
		o.logger.Debug("completion discarded",
			zap.String("request_id", c.RequestID),
			zap.Bool("closed", o.closed))
		return model.Entry{}, ErrStaleCompletion
	}
	delete(o.pending, c.RequestID)

	if c.Err != nil {
		o.logger.Warn("request failed",
			zap.String("request_id", c.RequestID),
			zap.Duration("elapsed", c.Elapsed),
			zap.Error(c.Err))
		return model.Entry{}, c.Err
	}

	// A blank reply is reported, not appended, so every assistant entry
	// follows its user entry but a session may hold fewer than two entries
	// per accepted submission.
	reply := strings.TrimSpace(c.Text)
	if reply == "" {
		o.logger.Warn("request returned empty reply", zap.String("request_id", c.RequestID))
		return model.Entry{}, gemini.ErrEmptyReply
	}

	entry := model.NewAssistantEntry(reply)
	o.transcript.Append(entry)

	o.logger.Info("request complete",
		zap.String("request_id", c.RequestID),
		zap.Duration("elapsed", c.Elapsed),
		zap.Int("reply_len", len(reply)),
		zap.Int("transcript_len", o.transcript.Len()))
	return entry, nil
}

// Send runs a full cycle synchronously. Used by line mode, where there is
// no UI loop to hand the call off to.
func (o *Orchestrator) Send(text string) (model.Entry, error) {
	return o.SendContext(context.Background(), text)
}

// SendContext is Send with a call that also ends when ctx is done. The
// session stays open; the canceled request completes with the call error.
func (o *Orchestrator) SendContext(ctx context.Context, text string) (model.Entry, error) {
	req, err := o.Submit(text)
	if err != nil {
		return model.Entry{}, err
	}

	callCtx, cancel := context.WithCancel(req.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	req.ctx = callCtx

	return o.Complete(o.Run(req))
}

// =============================================================================
// STATE
// =============================================================================

// Pending returns the number of outstanding requests.
func (o *Orchestrator) Pending() int {
	return len(o.pending)
}

// Busy reports whether the typing indicator should be visible.
func (o *Orchestrator) Busy() bool {
	return len(o.pending) > 0
}

// AllowOverlap reports whether overlapping submissions are accepted.
func (o *Orchestrator) AllowOverlap() bool {
	return o.allowOverlap
}

// Transcript returns the session transcript for reading.
func (o *Orchestrator) Transcript() *model.Transcript {
	return o.transcript
}

// Closed reports whether Close has been called.
func (o *Orchestrator) Closed() bool {
	return o.closed
}

// Close cancels in-flight requests and drops their completions. It is safe
// to call more than once.
func (o *Orchestrator) Close() {
	if o.closed {
		return
	}
	o.closed = true
	o.cancel()

	if n := len(o.pending); n > 0 {
		o.logger.Info("session closed with requests in flight", zap.Int("pending", n))
	}
	clear(o.pending)
}
