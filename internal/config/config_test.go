// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv points HOME at a temp dir and clears every override variable.
func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, name := range []string{
		"GEMINI_API_KEY", "GEMCHAT_API_KEY", "GEMCHAT_MODEL",
		"GEMCHAT_TIMEOUT", "GEMCHAT_ALLOW_OVERLAP", "GEMCHAT_THEME",
	} {
		t.Setenv(name, "")
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultRequestTimeoutSecs, cfg.RequestTimeoutSecs)
	assert.Equal(t, DefaultRequestsPerMinute, cfg.RequestsPerMinute)
	assert.False(t, cfg.Chat.AllowOverlap, "single in-flight request is the default")
	assert.True(t, cfg.Logging.Enabled)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestLoad_TOML(t *testing.T) {
	home := isolateEnv(t)
	writeFile(t, filepath.Join(home, ".gemchat", "config.toml"), `
model = "gemini-1.5-flash"
api_key = "file-key"
request_timeout_secs = 30

[chat]
allow_overlap = true

[ui]
theme = "light"
markdown = false
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-flash", cfg.Model)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, 30, cfg.RequestTimeoutSecs)
	assert.True(t, cfg.Chat.AllowOverlap)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.False(t, cfg.UI.Markdown)
	// Untouched keys keep their defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_TOMLTightensPermissions(t *testing.T) {
	home := isolateEnv(t)
	path := filepath.Join(home, ".gemchat", "config.toml")
	writeFile(t, path, `model = "gemini-pro"`)

	_, err := Load()
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadFromPath_YAML(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "gemchat.yaml")
	writeFile(t, path, `
model: gemini-1.5-pro
chat:
  allow_overlap: true
logging:
  level: debug
  path: /tmp/gemchat-test.log
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", cfg.Model)
	assert.True(t, cfg.Chat.AllowOverlap)
	assert.Equal(t, "debug", cfg.Logging.Level)

	logPath, err := cfg.ResolvedLogPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/gemchat-test.log", logPath)
}

func TestLoadFromPath_Invalid(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"bad theme", `[ui]
theme = "neon"`, "ui.theme"},
		{"bad timeout", `request_timeout_secs = 9999`, "request_timeout_secs"},
		{"bad level", `[logging]
level = "trace"`, "logging.level"},
		{"bad model", `model = "gemini pro"`, "model"},
		{"negative rate", `requests_per_minute = -1`, "requests_per_minute"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			writeFile(t, path, tc.content)

			_, err := LoadFromPath(path)
			require.Error(t, err)

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs), "want ValidateErrors, got %T", err)
			found := false
			for _, v := range verrs {
				if v.Field == tc.field {
					found = true
				}
			}
			assert.True(t, found, "expected a validation error on %s, got %v", tc.field, verrs)
		})
	}
}

func TestLoadFromPath_MalformedTOML(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `model = `)

	_, err := LoadFromPath(path)
	require.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GEMINI_API_KEY", "gemini-env")
	t.Setenv("GEMCHAT_MODEL", "gemini-2.0-flash")
	t.Setenv("GEMCHAT_TIMEOUT", "15")
	t.Setenv("GEMCHAT_ALLOW_OVERLAP", "true")
	t.Setenv("GEMCHAT_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "gemini-env", cfg.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, 15, cfg.RequestTimeoutSecs)
	assert.True(t, cfg.Chat.AllowOverlap)
	assert.Equal(t, "light", cfg.UI.Theme)

	t.Setenv("GEMCHAT_API_KEY", "gemchat-env")
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "gemchat-env", cfg.APIKey, "GEMCHAT_API_KEY wins over GEMINI_API_KEY")
}

func TestCheckCredentials(t *testing.T) {
	isolateEnv(t)

	original := BuildAPIKey
	t.Cleanup(func() { BuildAPIKey = original })

	BuildAPIKey = ""
	cfg := Default()
	assert.ErrorIs(t, cfg.CheckCredentials(), ErrMissingAPIKey)

	BuildAPIKey = "baked-in"
	cfg = Default()
	assert.NoError(t, cfg.CheckCredentials())
	assert.Equal(t, "baked-in", cfg.APIKey)
}

func TestValidateErrors_Error(t *testing.T) {
	assert.Equal(t, "no validation errors", ValidateErrors{}.Error())

	errs := ValidateErrors{
		{Field: "model", Message: "must not be empty"},
		{Field: "ui.theme", Message: "bad"},
	}
	assert.Equal(t, "model: must not be empty; ui.theme: bad", errs.Error())
}
