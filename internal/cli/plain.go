// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	core "github.com/jeranaias/gemchat-tui/internal/chat"
	"github.com/jeranaias/gemchat-tui/internal/connectivity"
	"github.com/jeranaias/gemchat-tui/internal/ui/components"
)

// plainPrompt is shown before every line of input.
const plainPrompt = "gemchat> "

// lineReader is the part of liner.State the line-mode chat uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// newLineReader returns a liner state with Ctrl+C aborting the prompt.
// History lives in memory only.
func newLineReader() lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return line
}

// PlainChat is the line-mode chat loop.
type PlainChat struct {
	orch     *core.Orchestrator
	checker  connectivity.Checker
	renderer *components.TranscriptRenderer
	input    lineReader
	out      io.Writer
	width    int
	logger   *zap.Logger

	// interrupt derives the context for one exchange. It is canceled when
	// the user interrupts a pending reply.
	interrupt func(ctx context.Context) (context.Context, context.CancelFunc)
}

// interruptContext ends ctx on SIGINT. At the prompt liner owns Ctrl+C, so
// the signal only arrives while a reply is pending.
func interruptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// Run gates on connectivity once, then reads lines until Ctrl+D or Ctrl+C.
// Offline returns connectivity.ErrNoTransport after printing the dialog.
func (p *PlainChat) Run(ctx context.Context) error {
	defer p.input.Close()
	defer p.orch.Close()

	if p.checker != nil {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := connectivity.Require(checkCtx, p.checker)
		cancel()
		switch {
		case errors.Is(err, connectivity.ErrNoTransport):
			p.logger.Warn("connectivity gate blocked")
			fmt.Fprintf(p.out, "%s\n%s\n", connectivity.DialogTitle, connectivity.DialogMessage)
			return err
		case err != nil:
			p.logger.Warn("connectivity check failed", zap.Error(err))
		}
	}

	for {
		line, err := p.input.Prompt(plainPrompt)
		if err != nil {
			// liner.ErrPromptAborted on Ctrl+C, io.EOF on Ctrl+D.
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				p.logger.Warn("line input failed", zap.Error(err))
			}
			fmt.Fprintln(p.out)
			return nil
		}
		if strings.TrimSpace(line) != "" {
			p.input.AppendHistory(line)
		}

		if !p.send(ctx, line) {
			return nil
		}
	}
}

// send runs one exchange and prints whatever it added to the transcript.
// An interrupt cancels only this exchange. It returns false once the
// session has ended.
func (p *PlainChat) send(ctx context.Context, line string) bool {
	transcript := p.orch.Transcript()
	before := transcript.Len()

	interrupt := p.interrupt
	if interrupt == nil {
		interrupt = interruptContext
	}
	sendCtx, cancel := interrupt(ctx)
	_, err := p.orch.SendContext(sendCtx, line)
	cancel()

	for _, entry := range transcript.Entries()[before:] {
		fmt.Fprintln(p.out, p.renderer.RenderRow(components.ProjectRow(entry), p.width))
		fmt.Fprintln(p.out)
	}

	if err != nil {
		if errors.Is(err, core.ErrStaleCompletion) || errors.Is(err, core.ErrClosed) {
			return false
		}
		text, _ := core.Notice(err)
		fmt.Fprintf(p.out, "[%s]\n", text)
	}
	return !p.orch.Closed()
}
