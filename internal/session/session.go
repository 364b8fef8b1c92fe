// Package session owns the per-run game state machine: lifecycle,
// scoring, penalties, overdrive, and the anti-cheat integration.
package session

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/mathsprint/internal/achieve"
	"github.com/verte-zerg/mathsprint/internal/effects"
	"github.com/verte-zerg/mathsprint/internal/guard"
	"github.com/verte-zerg/mathsprint/internal/items"
	"github.com/verte-zerg/mathsprint/internal/model"
	"github.com/verte-zerg/mathsprint/internal/problem"
	"github.com/verte-zerg/mathsprint/internal/reward"
	"github.com/verte-zerg/mathsprint/internal/rng"
	"github.com/verte-zerg/mathsprint/internal/sound"
)

// State is a lifecycle phase of the session.
type State int

const (
	StateIdle State = iota
	StateCountdown
	StateActive
	StateGameOver
	StateInvalidated
)

// Mode starting resources.
const (
	sprintDuration   = 60
	survivalDuration = 30
	dailyDuration    = 90
	startingLives    = 3
)

// Overdrive parameters: a 3-streak arms a 10-second 2x multiplier.
const (
	overdriveStreak   = 3
	overdriveDuration = 10
	overdriveBonus    = 2.0
)

// Mistake and bonus rules.
const (
	mistakesPerPenalty = 3
	timePenalty        = 10
	survivalTimeBonus  = 5
	tensionThreshold   = 10
	bonusLifeEvery     = 250
	bonusLifeCap       = 10
)

// Sanity ceilings. These exist to catch state corruption, not
// legitimate play; crossing one invalidates the session outright.
const (
	maxScore    = 100000
	maxTime     = 3600.0
	maxLives    = 15
	maxMistakes = 20
)

// speedDemon: three correct answers inside this window.
const speedDemonWindow = 5 * time.Second

// Tone labels feedback for presentation.
type Tone string

const (
	ToneGood    Tone = "good"
	ToneBad     Tone = "bad"
	ToneWarn    Tone = "warn"
	ToneInfo    Tone = "info"
	ToneSpecial Tone = "special"
)

// Presenter receives render commands. The session never touches the
// terminal itself.
type Presenter interface {
	RenderProblem(text string)
	RenderTimer(seconds int)
	RenderLives(lives int)
	RenderScore(score int)
	RenderStreak(streak int)
	RenderMistakes(count int)
	RenderFeedback(text string, tone Tone)
	SetOverdrive(active bool)
	ShowGameOver(sum Summary)
	ShowInvalidated(reason string)
}

// Ledger records achievement unlock intents.
type Ledger interface {
	Unlock(id string)
}

// Wallet credits sparks earned during play.
type Wallet interface {
	AddSparks(n int)
}

// HighScores reads and writes per-mode high scores.
type HighScores interface {
	HighScore(mode model.Mode) int
	SetHighScore(mode model.Mode, score int)
}

// Recorder persists completed plays.
type Recorder interface {
	RecordPlay(rec model.PlayRecord)
}

// Inventory exposes owned item counts and consumption.
type Inventory interface {
	Count(itemID string) int
	Consume(itemID string) bool
	Refund(itemID string)
}

// DailyOutcome mirrors the daily tracker's completion bookkeeping.
type DailyOutcome struct {
	NewPersonalBest bool
	FirstToday      bool
	Completions     int
	Streak          int
}

// DailyTracker records Daily Challenge completions.
type DailyTracker interface {
	RecordCompletion(score int) DailyOutcome
}

// Deps collects the session's collaborators.
type Deps struct {
	Presenter  Presenter
	Sounds     sound.Player
	Ledger     Ledger
	Wallet     Wallet
	HighScores HighScores
	Recorder   Recorder
	Inventory  Inventory
	Daily      DailyTracker
	Log        zerolog.Logger
}

// Config carries settings and injectable randomness/clock.
type Config struct {
	Settings model.Settings
	Now      func() time.Time
	Rand     rng.Source
}

// Summary is the terminal report of a play-through.
type Summary struct {
	Mode         model.Mode
	Score        int
	Problems     int
	Correct      int
	Accuracy     float64
	BestStreak   int
	Sparks       int
	HighScore    int
	NewHighScore bool
	Elapsed      time.Duration
	Daily        *DailyOutcome
}

// Session is one play-through of a game mode.
type Session struct {
	id       string
	mode     model.Mode
	state    State
	settings model.Settings
	now      func() time.Time
	src      rng.Source
	daily    *rng.Daily

	deps    Deps
	effects *effects.Engine

	score               int
	streak              int
	bestStreak          int
	overdriveActive     bool
	overdriveTimer      int
	consecutiveMistakes int
	timeLeft            float64
	lives               int
	problemsAnswered    int
	correctAnswers      int
	current             model.Problem

	startedAt      time.Time
	lastSubmission time.Time
	invalidReason  string

	// Achievement tracking within the run.
	hadOneLifeLeft   bool
	tripleDigitRun   int
	speedRunStart    time.Time
	speedRunCount    int
	tensionSignalled bool
}

// New builds an idle session.
func New(cfg Config, deps Deps) *Session {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	src := cfg.Rand
	if src == nil {
		src = rng.NewUniform()
	}
	return &Session{
		state:    StateIdle,
		settings: cfg.Settings,
		now:      now,
		src:      src,
		deps:     deps,
		effects:  effects.New(now),
	}
}

// ID returns the run identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Mode returns the mode being played.
func (s *Session) Mode() model.Mode { return s.mode }

// Problem returns the current problem.
func (s *Session) Problem() model.Problem { return s.current }

// ActiveEffectIDs lists live item effects for display.
func (s *Session) ActiveEffectIDs() []string { return s.effects.ActiveIDs() }

// InvalidReason returns the tamper reason after invalidation.
func (s *Session) InvalidReason() string { return s.invalidReason }

// CountdownDisabled reports whether the pre-round countdown is skipped.
func (s *Session) CountdownDisabled() bool { return s.settings.DisableCountdown }

// Start resets all counters and resources for the mode and moves to
// the countdown. Item effects never survive a session boundary.
func (s *Session) Start(mode model.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown mode %q", mode)
	}
	s.id = uuid.NewString()
	s.mode = mode
	s.effects.Reset()

	s.score = 0
	s.streak = 0
	s.bestStreak = 0
	s.overdriveActive = false
	s.overdriveTimer = 0
	s.consecutiveMistakes = 0
	s.problemsAnswered = 0
	s.correctAnswers = 0
	s.invalidReason = ""
	s.hadOneLifeLeft = false
	s.tripleDigitRun = 0
	s.speedRunCount = 0
	s.speedRunStart = time.Time{}
	s.tensionSignalled = false

	switch mode {
	case model.ModeSprint:
		s.timeLeft = sprintDuration
	case model.ModeSurvival:
		s.timeLeft = survivalDuration
	case model.ModeDaily:
		s.timeLeft = dailyDuration
		s.daily = rng.NewDaily(s.now())
	case model.ModeEndless:
		s.lives = startingLives
	}

	s.deps.Presenter.SetOverdrive(false)
	s.deps.Presenter.RenderScore(0)
	s.deps.Presenter.RenderStreak(0)
	s.deps.Presenter.RenderMistakes(0)
	if mode.Timed() {
		s.deps.Presenter.RenderTimer(int(math.Ceil(s.timeLeft)))
	} else {
		s.deps.Presenter.RenderLives(s.lives)
	}

	s.deps.Log.Info().
		Str("session", s.id).
		Str("mode", string(mode)).
		Msg("session started")

	s.state = StateCountdown
	if s.settings.DisableCountdown {
		s.BeginRound()
	}
	return nil
}

// BeginRound starts the round clock and deals the first problem; the
// presentation layer calls it once its countdown finishes.
func (s *Session) BeginRound() {
	if s.state != StateCountdown {
		return
	}
	s.startedAt = s.now()
	s.lastSubmission = s.startedAt
	s.state = StateActive
	s.nextProblem("")
}

// Tick advances the once-per-second game clock. The clock only drains
// in timed modes, but overdrive decay runs everywhere.
func (s *Session) Tick() {
	if s.state != StateActive {
		return
	}
	s.effects.Tick()
	if s.mode.Timed() {
		delta := s.effects.TimeDelta()
		s.setTimeLeft(s.timeLeft - delta)
		if s.state != StateActive {
			return
		}
	}

	if s.overdriveActive {
		s.overdriveTimer--
		if s.overdriveTimer <= 0 {
			s.overdriveActive = false
			s.deps.Presenter.SetOverdrive(false)
			s.deps.Presenter.RenderFeedback("Overdrive depleted", ToneWarn)
			s.deps.Sounds.Play(sound.CueOverdriveDepleted)
		}
	}

	if !s.mode.Timed() {
		return
	}
	if s.timeLeft <= tensionThreshold && s.timeLeft > 0 && !s.tensionSignalled {
		s.tensionSignalled = true
		s.deps.Sounds.Play(sound.CueTension)
	}

	s.checkTimeExhausted()
}

// Submit resolves one answer. The anti-cheat guard runs first; a
// violation invalidates the session with no recovery.
func (s *Session) Submit(answer int) error {
	if s.state != StateActive {
		return fmt.Errorf("no active round")
	}

	now := s.now()
	sinceLast := now.Sub(s.lastSubmission)
	s.lastSubmission = now

	err := guard.Check(guard.Submission{
		Answer:    answer,
		Op:        s.current.Op,
		Score:     s.score,
		Attempts:  s.problemsAnswered + 1,
		SinceLast: sinceLast,
		Elapsed:   now.Sub(s.startedAt),
	})
	if err != nil {
		reason := err.Error()
		var v *guard.Violation
		if errors.As(err, &v) {
			reason = v.Reason
		}
		s.invalidate(reason)
		return err
	}

	s.problemsAnswered++

	if answer == 42 && s.current.Answer == 42 {
		s.deps.Ledger.Unlock(achieve.AnswerIs42)
	}

	if answer == s.current.Answer {
		s.resolveCorrect(now)
	} else {
		s.resolveIncorrect()
	}
	return nil
}

func (s *Session) resolveCorrect(now time.Time) {
	s.streak++
	if s.streak > s.bestStreak {
		s.bestStreak = s.streak
	}
	s.correctAnswers++
	s.consecutiveMistakes = 0
	s.deps.Presenter.RenderStreak(s.streak)
	s.deps.Presenter.RenderMistakes(0)

	s.trackSpeedDemon(now)
	s.trackCalculatorBrain(true)

	if s.mode == model.ModeSurvival {
		s.addTime(survivalTimeBonus)
	}

	if s.streak >= overdriveStreak {
		if !s.overdriveActive {
			s.overdriveActive = true
			s.deps.Presenter.SetOverdrive(true)
			s.deps.Ledger.Unlock(achieve.FirstOverdrive)
		}
		s.overdriveTimer = overdriveDuration
		s.deps.Presenter.RenderFeedback("OVERDRIVE! 2x points", ToneSpecial)
	} else {
		s.deps.Presenter.RenderFeedback("Correct!", ToneGood)
	}

	base := 10
	if s.streak%3 == 0 {
		base = 15
		s.deps.Sounds.Play(sound.CueStreak)
	} else {
		s.deps.Sounds.Play(sound.CueCorrect)
	}
	s.addScore(base)

	if s.state == StateActive {
		s.nextProblem("")
	}
}

func (s *Session) resolveIncorrect() {
	s.streak = 0
	s.deps.Presenter.RenderStreak(0)
	if s.overdriveActive {
		s.overdriveActive = false
		s.overdriveTimer = 0
		s.deps.Presenter.SetOverdrive(false)
	}
	s.deps.Sounds.Play(sound.CueIncorrect)
	s.trackCalculatorBrain(false)

	s.setMistakes(s.consecutiveMistakes + 1)
	if s.state != StateActive {
		return
	}

	s.deps.Presenter.RenderFeedback("Incorrect!", ToneBad)

	if s.consecutiveMistakes >= mistakesPerPenalty {
		s.setMistakes(0)
		s.applyMistakePenalty()
	}

	if s.state == StateActive {
		s.nextProblem("")
	}
}

// applyMistakePenalty charges the third-consecutive-mistake cost.
// Daily Challenge takes none: the counter reset is the whole penalty.
func (s *Session) applyMistakePenalty() {
	if s.mode == model.ModeDaily {
		return
	}
	if s.effects.BlockPenalty() {
		s.deps.Presenter.RenderFeedback("Shield blocked the penalty", ToneInfo)
		s.deps.Sounds.Play(sound.CueShieldBlock)
		return
	}
	if s.mode == model.ModeEndless {
		s.loseLife()
		return
	}
	s.addTime(-timePenalty)
	if s.state == StateActive {
		s.deps.Presenter.RenderFeedback(
			fmt.Sprintf("%ds penalty for %d mistakes", timePenalty, mistakesPerPenalty), ToneWarn)
		s.checkTimeExhausted()
	}
}

func (s *Session) loseLife() {
	s.setLives(s.lives - 1)
	if s.state != StateActive {
		return
	}
	if s.lives == 1 {
		s.hadOneLifeLeft = true
	}
	if s.lives <= 0 {
		s.deps.Presenter.RenderFeedback("No lives remaining", ToneBad)
		s.gameOver()
		return
	}
	s.deps.Presenter.RenderFeedback("Lost a life!", ToneWarn)
}

// checkTimeExhausted ends the round when the clock runs out, unless a
// primed Second Chance revives it.
func (s *Session) checkTimeExhausted() {
	if s.state != StateActive || s.timeLeft > 0 {
		return
	}
	if revive, ok := s.effects.ReviveIfReady(s.timeLeft); ok {
		s.setTimeLeft(float64(revive))
		s.tensionSignalled = false
		s.deps.Presenter.RenderFeedback("Second Chance!", ToneSpecial)
		s.deps.Sounds.Play(sound.CueRevive)
		return
	}
	s.gameOver()
}

// UseItem consumes and activates an inventory item. Failed activations
// refund the item; a failure never mutates gameplay state.
func (s *Session) UseItem(itemID string) effects.Result {
	if s.state != StateActive {
		return effects.Result{Message: "No active round"}
	}
	it, ok := items.ByID(itemID)
	if !ok {
		return effects.Result{Message: "Item not found"}
	}
	if res := s.effects.ValidateMode(it, s.mode); !res.Success {
		return res
	}
	if !s.deps.Inventory.Consume(itemID) {
		return effects.Result{Message: "You do not own this item"}
	}

	res := s.effects.Activate(it)
	if !res.Success {
		s.deps.Inventory.Refund(itemID)
		return res
	}

	if res.Instant.BonusTime > 0 && s.mode.Timed() {
		s.addTime(res.Instant.BonusTime)
	}
	if res.Instant.BonusPoints > 0 {
		s.setScore(s.score + res.Instant.BonusPoints)
	}
	if res.Instant.BonusLives > 0 && s.mode == model.ModeEndless {
		s.setLives(s.lives + res.Instant.BonusLives)
		s.checkComeback()
	}
	if s.state != StateActive {
		return res
	}

	s.deps.Sounds.Play(sound.CueItemActivated)
	s.deps.Ledger.Unlock(achieve.FirstItemUsed)
	s.deps.Presenter.RenderFeedback(res.Message, ToneInfo)
	s.deps.Log.Info().
		Str("session", s.id).
		Str("item", itemID).
		Msg("item activated")
	return res
}

func (s *Session) nextProblem(prefix string) {
	s.current = problem.Generate(problem.Request{
		Mode:             s.mode,
		Score:            s.score,
		ProblemsAnswered: s.problemsAnswered,
		EnabledOps:       s.settings.EnabledOps(),
		ForcedOps:        s.effects.ForcedOps(),
		DisabledOps:      s.effects.DisabledOps(),
	}, s.problemSource())
	s.deps.Presenter.RenderProblem(prefix + s.current.Text)
}

// problemSource returns the seeded source in Daily Challenge so every
// player sees the same sequence, and the uniform source elsewhere.
func (s *Session) problemSource() rng.Source {
	if s.mode == model.ModeDaily && s.daily != nil {
		return s.daily
	}
	return s.src
}

// addScore applies item and overdrive multipliers to base points.
func (s *Session) addScore(base int) {
	mult := s.effects.ScoreMultiplier()
	if s.overdriveActive {
		mult *= overdriveBonus
	}
	old := s.score
	s.setScore(s.score + int(float64(base)*mult))
	if s.state != StateActive {
		return
	}

	// Endless pays a bonus life at every 250-point boundary.
	if s.mode == model.ModeEndless && s.score/bonusLifeEvery > old/bonusLifeEvery {
		if s.lives < bonusLifeCap {
			s.setLives(s.lives + 1)
			if s.state != StateActive {
				return
			}
			s.deps.Presenter.RenderFeedback(fmt.Sprintf("Extra life! (%d/%d)", s.lives, bonusLifeCap), ToneSpecial)
			s.deps.Sounds.Play(sound.CueExtraLife)
			s.checkComeback()
		} else {
			s.deps.Presenter.RenderFeedback("Max lives! Go for broke", ToneSpecial)
		}
	}
}

func (s *Session) checkComeback() {
	if s.hadOneLifeLeft && s.lives >= startingLives {
		s.deps.Ledger.Unlock(achieve.ComebackKid)
	}
}

func (s *Session) trackSpeedDemon(now time.Time) {
	if s.speedRunStart.IsZero() {
		s.speedRunStart = now
	}
	s.speedRunCount++
	if s.speedRunCount >= 3 {
		if now.Sub(s.speedRunStart) < speedDemonWindow {
			s.deps.Ledger.Unlock(achieve.SpeedDemon)
		}
		s.speedRunStart = now
		s.speedRunCount = 0
	}
}

func (s *Session) trackCalculatorBrain(correct bool) {
	if !correct || !hasTripleDigit(s.current.Text) {
		s.tripleDigitRun = 0
		return
	}
	s.tripleDigitRun++
	if s.tripleDigitRun >= 3 {
		s.deps.Ledger.Unlock(achieve.CalculatorBrain)
	}
}

func hasTripleDigit(text string) bool {
	run := 0
	for _, r := range text {
		if r >= '0' && r <= '9' {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// gameOver finishes the run: rewards, high scores, achievements, and
// persistence.
func (s *Session) gameOver() {
	s.state = StateGameOver
	if s.overdriveActive {
		s.overdriveActive = false
		s.deps.Presenter.SetOverdrive(false)
	}

	endedAt := s.now()
	elapsed := endedAt.Sub(s.startedAt)

	if elapsed < 30*time.Second {
		s.deps.Ledger.Unlock(achieve.QuickGameOver)
	}
	if s.mode == model.ModeSprint && s.timeLeft == 0 {
		s.deps.Ledger.Unlock(achieve.PerfectTiming)
	}
	if hour := endedAt.Hour(); hour >= 2 && hour < 4 {
		s.deps.Ledger.Unlock(achieve.NightOwl)
	}
	switch s.mode {
	case model.ModeSprint:
		s.deps.Ledger.Unlock(achieve.FirstGameOverSprint)
	case model.ModeEndless:
		s.deps.Ledger.Unlock(achieve.FirstGameOverEnd)
	case model.ModeSurvival:
		s.deps.Ledger.Unlock(achieve.FirstGameOverSurv)
	}
	if s.bestStreak >= 10 {
		s.deps.Ledger.Unlock(achieve.TenStreak)
	}
	if s.bestStreak >= 20 {
		s.deps.Ledger.Unlock(achieve.TwentyStreak)
	}

	sparks := reward.Sparks(s.score)
	s.deps.Wallet.AddSparks(sparks)

	sum := Summary{
		Mode:       s.mode,
		Score:      s.score,
		Problems:   s.problemsAnswered,
		Correct:    s.correctAnswers,
		BestStreak: s.bestStreak,
		Sparks:     sparks,
		Elapsed:    elapsed,
	}
	if s.problemsAnswered > 0 {
		sum.Accuracy = float64(s.correctAnswers) / float64(s.problemsAnswered)
	}

	if s.mode == model.ModeDaily && s.deps.Daily != nil {
		out := s.deps.Daily.RecordCompletion(s.score)
		sum.Daily = &out
		if out.FirstToday && out.Completions == 1 {
			s.deps.Ledger.Unlock(achieve.FirstDaily)
		}
		if out.Streak >= 7 {
			s.deps.Ledger.Unlock(achieve.Daily7Day)
		}
		if out.Streak >= 30 {
			s.deps.Ledger.Unlock(achieve.Daily30Day)
		}
		if out.NewPersonalBest {
			s.deps.Ledger.Unlock(achieve.DailyPersonalBest)
		}
		if s.score >= 150 {
			s.deps.Ledger.Unlock(achieve.DailyHighScore)
		}
	}

	prev := s.deps.HighScores.HighScore(s.mode)
	sum.HighScore = prev
	if reward.IsHighScore(s.score, prev) {
		sum.NewHighScore = true
		sum.HighScore = s.score
		s.deps.HighScores.SetHighScore(s.mode, s.score)
		switch {
		case s.mode == model.ModeSprint && s.score >= 100:
			s.deps.Ledger.Unlock(achieve.HighScoreSprint)
		case s.mode == model.ModeEndless && s.score >= 150:
			s.deps.Ledger.Unlock(achieve.HighScoreEndless)
		case s.mode == model.ModeSurvival && s.score >= 200:
			s.deps.Ledger.Unlock(achieve.HighScoreSurvival)
		}
		s.deps.Sounds.Play(sound.CueNewHighScore)
	} else {
		s.deps.Sounds.Play(sound.CueGameOver)
	}

	s.deps.Recorder.RecordPlay(model.PlayRecord{
		ID:         s.id,
		Mode:       s.mode,
		StartedAt:  s.startedAt,
		EndedAt:    endedAt,
		Score:      s.score,
		Problems:   s.problemsAnswered,
		Correct:    s.correctAnswers,
		BestStreak: s.bestStreak,
		Sparks:     sparks,
	})

	s.deps.Log.Info().
		Str("session", s.id).
		Str("mode", string(s.mode)).
		Int("score", s.score).
		Int("problems", s.problemsAnswered).
		Bool("high_score", sum.NewHighScore).
		Msg("session finished")

	s.deps.Presenter.ShowGameOver(sum)
}

// Guarded setters. Each enforces its sanity ceiling; a violation
// invalidates the session and leaves the previous value intact.

func (s *Session) setScore(v int) {
	if v > maxScore {
		s.invalidate(fmt.Sprintf("score %d exceeds ceiling %d", v, maxScore))
		return
	}
	s.score = v
	s.deps.Presenter.RenderScore(v)
}

func (s *Session) setTimeLeft(v float64) {
	if v > maxTime {
		s.invalidate(fmt.Sprintf("time %.0fs exceeds ceiling %.0fs", v, maxTime))
		return
	}
	s.timeLeft = v
	s.deps.Presenter.RenderTimer(int(math.Ceil(v)))
}

func (s *Session) addTime(delta int) {
	s.setTimeLeft(s.timeLeft + float64(delta))
}

func (s *Session) setLives(v int) {
	if v > maxLives {
		s.invalidate(fmt.Sprintf("lives %d exceed ceiling %d", v, maxLives))
		return
	}
	s.lives = v
	s.deps.Presenter.RenderLives(v)
}

func (s *Session) setMistakes(v int) {
	if v > maxMistakes {
		s.invalidate(fmt.Sprintf("mistake counter %d exceeds ceiling %d", v, maxMistakes))
		return
	}
	s.consecutiveMistakes = v
	s.deps.Presenter.RenderMistakes(v)
}

// invalidate hard-stops the session. Deliberately severe: the run is
// discarded, nothing is recorded, and the program is expected to exit.
func (s *Session) invalidate(reason string) {
	if s.state == StateInvalidated {
		return
	}
	s.state = StateInvalidated
	s.invalidReason = reason
	s.deps.Log.Error().
		Str("session", s.id).
		Str("reason", reason).
		Msg("session invalidated")
	s.deps.Presenter.ShowInvalidated(reason)
}

// Snapshot accessors used by the presentation layer.

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// Streak returns the current streak.
func (s *Session) Streak() int { return s.streak }

// TimeLeft returns the remaining whole seconds on the clock.
func (s *Session) TimeLeft() int { return int(math.Ceil(s.timeLeft)) }

// Lives returns the remaining lives.
func (s *Session) Lives() int { return s.lives }

// Mistakes returns the consecutive-mistake counter.
func (s *Session) Mistakes() int { return s.consecutiveMistakes }

// OverdriveActive reports whether the 2x overdrive bonus is running.
func (s *Session) OverdriveActive() bool { return s.overdriveActive }

// DescribeMode returns a short lobby blurb for a mode.
func DescribeMode(mode model.Mode) string {
	switch mode {
	case model.ModeSprint:
		return fmt.Sprintf("%d seconds on the clock. Score as much as you can.", sprintDuration)
	case model.ModeEndless:
		return fmt.Sprintf("%d lives, no clock. Three mistakes cost a life.", startingLives)
	case model.ModeSurvival:
		return fmt.Sprintf("Start with %ds; correct answers buy %ds more.", survivalDuration, survivalTimeBonus)
	case model.ModeDaily:
		return "Everyone gets the same problems today. One ranked run."
	}
	return ""
}
