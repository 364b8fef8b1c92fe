// Package sound names audio cues and plays them best-effort. Cues are
// fire-and-forget; no caller consults a result.
package sound

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Cue names one audio event.
type Cue string

const (
	CueCountdown         Cue = "countdown"
	CueGo                Cue = "go"
	CueCorrect           Cue = "correct"
	CueIncorrect         Cue = "incorrect"
	CueStreak            Cue = "streak"
	CueOverdriveDepleted Cue = "overdrive-depleted"
	CueShieldBlock       Cue = "shield-block"
	CueTension           Cue = "tension"
	CueExtraLife         Cue = "extra-life"
	CueRevive            Cue = "revive"
	CueItemActivated     Cue = "item-activated"
	CueGameOver          Cue = "game-over"
	CueNewHighScore      Cue = "new-high-score"
)

// Player plays a cue.
type Player interface {
	Play(cue Cue)
}

// Nop discards every cue.
type Nop struct{}

// Play implements Player.
func (Nop) Play(Cue) {}

// Bell rings the terminal bell for the salient cues and stays quiet for
// the rest; a terminal has exactly one note to offer.
type Bell struct {
	W io.Writer
}

// Play implements Player.
func (b Bell) Play(cue Cue) {
	switch cue {
	case CueIncorrect, CueShieldBlock, CueGameOver, CueNewHighScore, CueGo:
		fmt.Fprint(b.W, "\a")
	}
}

// Logged wraps a Player, recording every cue at debug level.
type Logged struct {
	Next Player
	Log  zerolog.Logger
}

// Play implements Player.
func (l Logged) Play(cue Cue) {
	l.Log.Debug().Str("cue", string(cue)).Msg("sound cue")
	if l.Next != nil {
		l.Next.Play(cue)
	}
}
