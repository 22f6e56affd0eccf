// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for gemchat.

# Color System (colors.go)

Colors are Lip Gloss AdaptiveColor values, so the same token works on light
and dark terminals:

	UserBubbleBg      - Background of the right-hand (user) card
	AssistantBubbleBg - Background of the left-hand (Gemini) card
	Blue, Violet      - Brand accents used by the header and wave indicator
	Rose, Amber       - Error and warning toasts, the offline dialog

# Theme System (theme.go)

A Theme bundles every style the chat screen renders with. The background
can be forced from config instead of probing the terminal:

	theme := styles.NewTheme(styles.ModeDark)
	card := theme.UserBubble.Render("Hello")

# Status Indicators

ASCII shape indicators accompany colors wherever state is shown:

	StatusIndicators.Error   - [X]
	StatusIndicators.Pending - [ ]
*/
package styles
