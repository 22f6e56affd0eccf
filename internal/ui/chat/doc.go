// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea chat screen for gemchat.

# Key Components

## Model (model.go)

The Model holds the widgets (viewport, text input, wave indicator, toasts,
gate dialog) and a request orchestrator that owns the transcript. The
screen never writes the transcript itself.

## Update Loop (update.go)

  - Enter submits the input through the orchestrator. The outbound call runs
    as a tea.Cmd and its result comes back as a ResponseMsg, which is the
    only place a reply is applied.
  - The connectivity check runs on Init, on tea.FocusMsg and on
    tea.ResumeMsg. When it reports no transport the gate dialog takes over
    every key until acknowledged, which quits.
  - Failures and input hints become toasts that expire on their own.

## View Rendering (view.go)

Header, transcript viewport, wave line, input and status bar. The
transcript is re-rendered from the orchestrator's entries after every
change and scrolled to the newest entry.

# Usage

	orch := core.New(client, core.Options{Logger: logger})
	m := chat.New(chat.Options{
		Orchestrator: orch,
		Checker:      connectivity.NewInterfaceChecker(),
		Theme:        styles.NewTheme(styles.ModeDark),
		ModelName:    client.Model(),
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
*/
package chat
