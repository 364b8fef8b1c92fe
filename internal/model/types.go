// Package model defines shared data structures.
package model

import "time"

// Mode identifies a game mode.
type Mode string

const (
	ModeSprint   Mode = "sprint"
	ModeEndless  Mode = "endless"
	ModeSurvival Mode = "survival"
	ModeDaily    Mode = "daily-challenge"
)

// Modes lists every playable mode in menu order.
var Modes = []Mode{ModeSprint, ModeEndless, ModeSurvival, ModeDaily}

// Valid reports whether m names a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeSprint, ModeEndless, ModeSurvival, ModeDaily:
		return true
	}
	return false
}

// Timed reports whether the mode runs on a countdown clock.
// Endless is the only mode played on lives instead of time.
func (m Mode) Timed() bool {
	return m != ModeEndless
}

// Title returns a human-readable mode name.
func (m Mode) Title() string {
	switch m {
	case ModeSprint:
		return "Sprint"
	case ModeEndless:
		return "Endless"
	case ModeSurvival:
		return "Survival"
	case ModeDaily:
		return "Daily Challenge"
	}
	return string(m)
}

// Operator is an arithmetic operation symbol.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "×"
	OpDiv Operator = "÷"
)

// Problem is a generated arithmetic problem.
type Problem struct {
	A          int
	B          int
	Op         Operator
	Answer     int
	AnswerHash int
	Text       string
}

// Settings defines gameplay settings.
type Settings struct {
	Addition         bool
	Subtraction      bool
	Multiplication   bool
	Division         bool
	DisableCountdown bool
	Sound            bool
}

// DefaultSettings mirrors a fresh install: addition only, countdown on.
func DefaultSettings() Settings {
	return Settings{Addition: true, Sound: true}
}

// EnabledOps returns the player-enabled operators in display order.
func (s Settings) EnabledOps() []Operator {
	var ops []Operator
	if s.Addition {
		ops = append(ops, OpAdd)
	}
	if s.Subtraction {
		ops = append(ops, OpSub)
	}
	if s.Multiplication {
		ops = append(ops, OpMul)
	}
	if s.Division {
		ops = append(ops, OpDiv)
	}
	return ops
}

// PlayRecord captures a completed play-through.
type PlayRecord struct {
	ID         string
	Mode       Mode
	StartedAt  time.Time
	EndedAt    time.Time
	Score      int
	Problems   int
	Correct    int
	BestStreak int
	Sparks     int
}

// Accuracy returns the fraction of answered problems that were correct.
func (r PlayRecord) Accuracy() float64 {
	if r.Problems == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Problems)
}
