// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	core "github.com/jeranaias/gemchat-tui/internal/chat"
	"github.com/jeranaias/gemchat-tui/internal/config"
	"github.com/jeranaias/gemchat-tui/internal/connectivity"
	"github.com/jeranaias/gemchat-tui/internal/gemini"
	uichat "github.com/jeranaias/gemchat-tui/internal/ui/chat"
	"github.com/jeranaias/gemchat-tui/internal/ui/components"
	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// Version information, synced from main at startup.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// checkTimeout bounds the line-mode connectivity check.
const checkTimeout = 2 * time.Second

// flags holds the root command's flag values.
type flags struct {
	configPath string
	model      string
	verbose    bool
	logFile    string
	plain      bool
}

// deps are the seams tests replace.
type deps struct {
	interactive func() bool
	checker     connectivity.Checker
	generator   func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (gemini.Generator, error)
	lineReader  func() lineReader
	runTUI      func(m tea.Model) error
	width       func() int
	interrupt   func(ctx context.Context) (context.Context, context.CancelFunc)
}

func defaultDeps() deps {
	return deps{
		interactive: IsInteractive,
		checker:     connectivity.NewInterfaceChecker(),
		generator:   newGeminiClient,
		lineReader:  newLineReader,
		runTUI:      runProgram,
		width:       GetTerminalWidth,
		interrupt:   interruptContext,
	}
}

// NewRootCommand builds the gemchat command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultDeps())
}

func newRootCommand(d deps) *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:   "gemchat",
		Short: "Chat with Gemini from the terminal",
		Long: `gemchat is a terminal chat client for Google's Gemini models.

Each message is sent on its own; replies are shown as they arrive. The API
key comes from the build, the config file, GEMINI_API_KEY or GEMCHAT_API_KEY.

Run without arguments to start the full-screen chat.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), f, d)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (.toml, .yaml or .yml)")
	pf.StringVar(&f.model, "model", "", "Gemini model name (overrides config)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "log at debug level")
	pf.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	root.Flags().BoolVar(&f.plain, "plain", false, "line-mode chat instead of the full-screen UI")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Reason: err.Error(), Suggestion: "gemchat --help"}
	})

	root.AddCommand(newVersionCommand())
	return root
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &UsageError{
			Reason:     fmt.Sprintf("unknown command %q for %q", args[0], cmd.CommandPath()),
			Suggestion: "gemchat --help",
		}
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  noArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gemchat %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", GitCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", BuildDate)
		},
	}
}

// Execute runs gemchat with the given arguments and returns the exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	return execute(newRootCommand(defaultDeps()), args, stdout, stderr)
}

func execute(root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(context.Background())
	// Line mode has already printed the offline dialog.
	if err != nil && !errors.Is(err, connectivity.ErrNoTransport) {
		fmt.Fprintf(stderr, "gemchat: %v\n", err)
	}
	return ExitCode(err)
}

// =============================================================================
// STARTUP
// =============================================================================

func loadConfig(f flags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFromPath(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, configError(err)
	}

	if f.model != "" {
		cfg.Model = f.model
		if err := cfg.Validate(); err != nil {
			return nil, configError(fmt.Errorf("invalid --model: %w", err))
		}
	}
	if err := cfg.CheckCredentials(); err != nil {
		return nil, configError(err)
	}
	return cfg, nil
}

func newGeminiClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (gemini.Generator, error) {
	client, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: time.Duration(cfg.RequestTimeoutSecs) * time.Second,
		Logger:  logger,

		RequestsPerMinute: cfg.RequestsPerMinute,
	})
	if err != nil {
		return nil, configError(err)
	}
	logger.Info("gemini client ready",
		zap.String("model", client.Model()),
		zap.String("key", client.KeyFingerprint()))
	return client, nil
}

func run(ctx context.Context, out io.Writer, f flags, d deps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !f.plain {
		if err := requireTerminal(d.interactive()); err != nil {
			return err
		}
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	logger, err := NewLogger(cfg.Logging, LogOptions{Path: f.logFile, Verbose: f.verbose})
	if err != nil {
		return configError(err)
	}
	defer func() { _ = logger.Sync() }()

	gen, err := d.generator(ctx, cfg, logger)
	if err != nil {
		return err
	}

	orch := core.New(gen, core.Options{
		AllowOverlap: cfg.Chat.AllowOverlap,
		Logger:       logger,
	})
	defer orch.Close()

	logger.Info("starting",
		zap.String("version", Version),
		zap.String("model", cfg.Model),
		zap.Bool("allow_overlap", cfg.Chat.AllowOverlap),
		zap.Bool("plain", f.plain))

	theme := styles.NewTheme(styles.Mode(strings.ToLower(cfg.UI.Theme)))

	if f.plain {
		p := &PlainChat{
			orch:     orch,
			checker:  d.checker,
			renderer: components.NewTranscriptRenderer(theme, nil, cfg.UI.ShowTimestamps),
			input:    d.lineReader(),
			out:      out,
			width:    d.width(),
			logger:   logger.Named("plain"),

			interrupt: d.interrupt,
		}
		return p.Run(ctx)
	}

	m := uichat.New(uichat.Options{
		Orchestrator:   orch,
		Checker:        d.checker,
		Theme:          theme,
		Markdown:       cfg.UI.Markdown,
		ShowTimestamps: cfg.UI.ShowTimestamps,
		ModelName:      cfg.Model,
		Logger:         logger,
	})
	if err := d.runTUI(m); err != nil {
		return fmt.Errorf("chat UI failed: %w", err)
	}
	return nil
}

func runProgram(m tea.Model) error {
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()
	return err
}
