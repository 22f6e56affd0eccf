// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

func TestWave_Lifecycle(t *testing.T) {
	w := NewWave(styles.NewTheme(styles.ModeDark))
	if w.IsActive() || w.View() != "" {
		t.Fatal("new wave should be inactive and invisible")
	}

	if cmd := w.Start(); cmd == nil {
		t.Fatal("Start should return the first tick")
	}
	if cmd := w.Start(); cmd != nil {
		t.Error("starting an active wave should not start a second tick loop")
	}
	if !strings.Contains(w.View(), "Gemini is typing") {
		t.Errorf("active view = %q", w.View())
	}

	w.Stop()
	if w.View() != "" {
		t.Error("stopped wave should render nothing")
	}
	if _, cmd := w.Update(nil); cmd != nil {
		t.Error("stopped wave should end its tick loop")
	}
}

func TestWaveFrames_FourDots(t *testing.T) {
	for _, f := range WaveFrames {
		if n := strings.Count(f, ".") + strings.Count(f, "o"); n != 4 {
			t.Errorf("frame %q has %d dots, want 4", f, n)
		}
	}
}
