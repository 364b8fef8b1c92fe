package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/mathsprint/internal/model"
)

// hudState is everything the header line needs to show.
type hudState struct {
	mode      model.Mode
	score     int
	streak    int
	timer     int
	lives     int
	mistakes  int
	overdrive bool
}

// renderHUD lays out the header as left and right groups padded to the
// given width.
func renderHUD(width int, h hudState) string {
	left := fmt.Sprintf("%s  Score %d", h.mode.Title(), h.score)
	if h.overdrive {
		left += "  OVERDRIVE x2"
	}

	var right string
	if h.mode.Timed() {
		right = fmt.Sprintf("Streak %d  Miss %d  %s", h.streak, h.mistakes, formatClock(h.timer))
	} else {
		right = fmt.Sprintf("Streak %d  Miss %d  %s", h.streak, h.mistakes, formatLives(h.lives))
	}

	gap := width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// formatClock renders seconds as m:ss.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// formatLives renders hearts, collapsing large counts.
func formatLives(lives int) string {
	if lives < 0 {
		lives = 0
	}
	if lives > 5 {
		return fmt.Sprintf("♥ x%d", lives)
	}
	return strings.Repeat("♥", lives)
}

// quickSlotHints lists the F-key bindings for owned items.
func quickSlotHints(slots []string, counts map[string]int, names map[string]string) string {
	if len(slots) == 0 {
		return ""
	}
	parts := make([]string, 0, len(slots))
	for i, id := range slots {
		name := names[id]
		if name == "" {
			name = id
		}
		parts = append(parts, fmt.Sprintf("F%d %s (%d)", i+1, name, counts[id]))
	}
	return strings.Join(parts, "  ")
}
