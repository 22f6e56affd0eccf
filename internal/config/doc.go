// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and validation for gemchat.
//
// Supports TOML and YAML configuration files, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - ChatConfig: Request orchestration (overlapping submissions)
//   - UIConfig: Theme, markdown rendering, timestamps
//   - LoggingConfig: zap file logger settings
//
// # Credentials
//
// The Gemini API key is injected at build time into BuildAPIKey. The config
// file's api_key, GEMINI_API_KEY and GEMCHAT_API_KEY override it, in that
// order.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.CheckCredentials(); err != nil {
//	    log.Fatal(err)
//	}
package config
