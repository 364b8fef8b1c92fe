package tui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/mathsprint/internal/model"
)

func TestRenderHUDFillsWidth(t *testing.T) {
	line := renderHUD(60, hudState{
		mode:  model.ModeSprint,
		score: 120,
		timer: 45,
	})
	if got := runewidth.StringWidth(line); got != 60 {
		t.Fatalf("hud width = %d, want 60", got)
	}
	if !strings.HasPrefix(line, "Sprint") {
		t.Fatalf("hud = %q, want mode on the left", line)
	}
	if !strings.HasSuffix(line, "0:45") {
		t.Fatalf("hud = %q, want clock on the right", line)
	}
}

func TestRenderHUDShowsLivesForEndless(t *testing.T) {
	line := renderHUD(60, hudState{
		mode:  model.ModeEndless,
		lives: 3,
	})
	if !strings.Contains(line, "♥♥♥") {
		t.Fatalf("hud = %q, want three hearts", line)
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{65, "1:05"},
		{-3, "0:00"},
	}
	for _, tc := range cases {
		if got := formatClock(tc.seconds); got != tc.want {
			t.Fatalf("formatClock(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatLivesCollapsesLargeCounts(t *testing.T) {
	if got := formatLives(12); got != "♥ x12" {
		t.Fatalf("formatLives(12) = %q", got)
	}
	if got := formatLives(2); got != "♥♥" {
		t.Fatalf("formatLives(2) = %q", got)
	}
}

func TestQuickSlotHints(t *testing.T) {
	hints := quickSlotHints(
		[]string{"shield", "timeFreeze"},
		map[string]int{"shield": 2, "timeFreeze": 1},
		map[string]string{"shield": "Shield", "timeFreeze": "Time Freeze"},
	)
	if hints != "F1 Shield (2)  F2 Time Freeze (1)" {
		t.Fatalf("hints = %q", hints)
	}
	if got := quickSlotHints(nil, nil, nil); got != "" {
		t.Fatalf("empty slots = %q, want empty", got)
	}
}
