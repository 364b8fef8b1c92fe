package session

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/mathsprint/internal/achieve"
	"github.com/verte-zerg/mathsprint/internal/model"
	"github.com/verte-zerg/mathsprint/internal/sound"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// fixedSource makes problem generation deterministic: with 0.5 and the
// default addition-only settings every Sprint problem is 7 + 7.
type fixedSource struct {
	v float64
}

func (s fixedSource) Next() float64 { return s.v }

type fakePresenter struct {
	problems  []string
	feedback  []string
	overdrive bool
	timer     int
	lives     int
	score     int
	streak    int
	mistakes  int
	summary   *Summary
	invalid   string
}

func (p *fakePresenter) RenderProblem(text string)          { p.problems = append(p.problems, text) }
func (p *fakePresenter) RenderTimer(seconds int)            { p.timer = seconds }
func (p *fakePresenter) RenderLives(lives int)              { p.lives = lives }
func (p *fakePresenter) RenderScore(score int)              { p.score = score }
func (p *fakePresenter) RenderStreak(streak int)            { p.streak = streak }
func (p *fakePresenter) RenderMistakes(count int)           { p.mistakes = count }
func (p *fakePresenter) RenderFeedback(text string, _ Tone) { p.feedback = append(p.feedback, text) }
func (p *fakePresenter) SetOverdrive(active bool)           { p.overdrive = active }
func (p *fakePresenter) ShowGameOver(sum Summary)           { p.summary = &sum }
func (p *fakePresenter) ShowInvalidated(reason string)      { p.invalid = reason }

type fakeSounds struct {
	cues []sound.Cue
}

func (s *fakeSounds) Play(c sound.Cue) { s.cues = append(s.cues, c) }

func (s *fakeSounds) heard(c sound.Cue) bool {
	for _, got := range s.cues {
		if got == c {
			return true
		}
	}
	return false
}

type fakeLedger struct {
	unlocked []string
}

func (l *fakeLedger) Unlock(id string) { l.unlocked = append(l.unlocked, id) }

func (l *fakeLedger) has(id string) bool {
	for _, got := range l.unlocked {
		if got == id {
			return true
		}
	}
	return false
}

type fakeWallet struct {
	sparks int
}

func (w *fakeWallet) AddSparks(n int) { w.sparks += n }

type fakeScores struct {
	best map[model.Mode]int
	sets int
}

func (s *fakeScores) HighScore(mode model.Mode) int { return s.best[mode] }

func (s *fakeScores) SetHighScore(mode model.Mode, score int) {
	s.best[mode] = score
	s.sets++
}

type fakeRecorder struct {
	recs []model.PlayRecord
}

func (r *fakeRecorder) RecordPlay(rec model.PlayRecord) { r.recs = append(r.recs, rec) }

type fakeInventory struct {
	counts map[string]int
}

func (i *fakeInventory) Count(itemID string) int { return i.counts[itemID] }

func (i *fakeInventory) Consume(itemID string) bool {
	if i.counts[itemID] <= 0 {
		return false
	}
	i.counts[itemID]--
	return true
}

func (i *fakeInventory) Refund(itemID string) { i.counts[itemID]++ }

type fakeDaily struct {
	outcome DailyOutcome
	scores  []int
}

func (d *fakeDaily) RecordCompletion(score int) DailyOutcome {
	d.scores = append(d.scores, score)
	return d.outcome
}

type fixture struct {
	clock  *fakeClock
	pres   *fakePresenter
	sounds *fakeSounds
	ledger *fakeLedger
	wallet *fakeWallet
	scores *fakeScores
	rec    *fakeRecorder
	inv    *fakeInventory
	daily  *fakeDaily
}

func newFixture() *fixture {
	return &fixture{
		clock:  &fakeClock{t: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)},
		pres:   &fakePresenter{},
		sounds: &fakeSounds{},
		ledger: &fakeLedger{},
		wallet: &fakeWallet{},
		scores: &fakeScores{best: map[model.Mode]int{}},
		rec:    &fakeRecorder{},
		inv:    &fakeInventory{counts: map[string]int{}},
		daily:  &fakeDaily{},
	}
}

func (fx *fixture) session(settings model.Settings) *Session {
	return New(Config{
		Settings: settings,
		Now:      fx.clock.now,
		Rand:     fixedSource{v: 0.5},
	}, Deps{
		Presenter:  fx.pres,
		Sounds:     fx.sounds,
		Ledger:     fx.ledger,
		Wallet:     fx.wallet,
		HighScores: fx.scores,
		Recorder:   fx.rec,
		Inventory:  fx.inv,
		Daily:      fx.daily,
		Log:        zerolog.Nop(),
	})
}

func additionOnly() model.Settings {
	return model.Settings{Addition: true}
}

func begin(t *testing.T, s *Session, mode model.Mode) {
	t.Helper()
	if err := s.Start(mode); err != nil {
		t.Fatalf("Start(%s): %v", mode, err)
	}
	s.BeginRound()
	if s.State() != StateActive {
		t.Fatalf("state after BeginRound = %v, want active", s.State())
	}
}

func submitCorrect(t *testing.T, fx *fixture, s *Session) {
	t.Helper()
	fx.clock.advance(time.Second)
	if err := s.Submit(s.Problem().Answer); err != nil {
		t.Fatalf("Submit correct: %v", err)
	}
}

func submitWrong(t *testing.T, fx *fixture, s *Session) {
	t.Helper()
	fx.clock.advance(time.Second)
	if err := s.Submit(s.Problem().Answer + 1); err != nil {
		t.Fatalf("Submit wrong: %v", err)
	}
}

// tick advances both the fake clock and the game clock, the way the
// presentation loop does.
func tick(fx *fixture, s *Session, n int) {
	for i := 0; i < n; i++ {
		fx.clock.advance(time.Second)
		s.Tick()
	}
}

func TestSprintScoringAndOverdrive(t *testing.T) {
	fx := newFixture()
	s := fx.session(additionOnly())
	begin(t, s, model.ModeSprint)

	// 10 + 10, then the third correct answer arms overdrive before
	// scoring, so its streak bonus is doubled: 15 * 2 = 30.
	submitCorrect(t, fx, s)
	submitCorrect(t, fx, s)
	submitCorrect(t, fx, s)
	if got := s.Score(); got != 50 {
		t.Fatalf("score after 3 correct = %d, want 50", got)
	}
	if !s.OverdriveActive() || !fx.pres.overdrive {
		t.Fatal("overdrive not active after 3-streak")
	}

	// Plain correct under overdrive: 10 * 2.
	submitCorrect(t, fx, s)
	if got := s.Score(); got != 70 {
		t.Fatalf("score after 4 correct = %d, want 70", got)
	}

	tick(fx, s, 10)
	if s.OverdriveActive() || fx.pres.overdrive {
		t.Fatal("overdrive survived its 10-second window")
	}
	if !fx.sounds.heard(sound.CueOverdriveDepleted) {
		t.Fatal("missing overdrive-depleted cue")
	}
	if got := s.TimeLeft(); got != 50 {
		t.Fatalf("time after 10 ticks = %d, want 50", got)
	}
}

func TestSprintThreeMistakesCostTenSeconds(t *testing.T) {
	fx := newFixture()
	s := fx.session(additionOnly())
	begin(t, s, model.ModeSprint)

	submitWrong(t, fx, s)
	submitWrong(t, fx, s)
	if got := s.Mistakes(); got != 2 {
		t.Fatalf("mistakes = %d, want 2", got)
	}
	submitWrong(t, fx, s)

	if got := s.TimeLeft(); got != 50 {
		t.Fatalf("time after penalty = %d, want 50", got)
	}
	if got := s.Mistakes(); got != 0 {
		t.Fatalf("mistake counter not reset, got %d", got)
	}
	if got := s.Streak(); got != 0 {
		t.Fatalf("streak = %d, want 0", got)
	}
}

func TestDailyThreeMistakesCarryNoPenalty(t *testing.T) {
	fx := newFixture()
	s := fx.session(additionOnly())
	begin(t, s, model.ModeDaily)

	for i := 0; i < 3; i++ {
		submitWrong(t, fx, s)
	}
	if got := s.TimeLeft(); got != 90 {
		t.Fatalf("daily time after 3 mistakes = %d, want 90", got)
	}
	if got := s.Mistakes(); got != 0 {
		t.Fatalf("mistake counter not reset, got %d", got)
	}
	if s.State() != StateActive {
		t.Fatalf("state = %v, want active", s.State())
	}
}

func TestEndlessThreeMistakesCostLife(t *testing.T) {
	fx := newFixture()
	s := fx.session(additionOnly())
	begin(t, s, model.ModeEndless)

	for i := 0; i < 3; i++ {
		submitWrong(t, fx, s)
	}
	if got := s.Lives(); got != 2 {
		t.Fatalf("lives = %d, want 2", got)
	}
	if got := s.Mistakes(); got != 0 {
		t.Fatalf("mistake counter not reset, got %d", got)
	}

	for i := 0; i < 6; i++ {
		submitWrong(t, fx, s)
	}
	if s.State() != StateGameOver {
		t.Fatalf("state after 9 mistakes = %v, want game over", s.State())
	}
	if !fx.ledger.has(achieve.FirstGameOverEnd) {
		t.Fatal("first endless game-over achievement not unlocked")
	}
	if len(fx.rec.recs) != 1 || fx.rec.recs[0].Problems != 9 || fx.rec.recs[0].Correct != 0 {
		t.Fatalf("unexpected play record: %+v", fx.rec.recs)
	}
}

func TestEndlessBonusLifeEvery250Points(t *testing.T) {
	fx := newFixture()
	s := fx.session(additionOnly())
	begin(t, s, model.ModeEndless)

	// The 12th consecutive correct answer crosses 250 points.
	for i := 0; i < 12; i++ {
		submitCorrect(t, fx, s)
	}
	if got := s.Score(); got != 260 {
		t.Fatalf("score = %d, want 260", got)
	}
	if got := s.Lives(); got != 4 {
		t.Fatalf("lives = %d, want 4", got)
	}
	if !fx.sounds.heard(sound.CueExtraLife) {
		t.Fatal("missing extra-life cue")
	}
}

func TestSurvivalCorrectAnswerBuysTime(t *testing.T) {
	fx := newFixture()
	s := fx.session(additionOnly())
	begin(t, s, model.ModeSurvival)

	if got := s.TimeLeft(); got != 30 {
		t.Fatalf("starting time = %d, want 30", got)
	}
	submitCorrect(t, fx, s)
	if got := s.TimeLeft(); got != 35 {
		t.Fatalf("time after correct = %d, want 35", got)
	}

	for i := 0; i < 3; i++ {
		submitWrong(t, fx, s)
	}
	if got := s.TimeLeft(); got != 25 {
		t.Fatalf("time after 3 mistakes = %d, want 25", got)
	}
}

func TestGuardRejectsRapidSubmission(t *testing.T) {
	fx := newFixture()
	s := fx.session(additionOnly())
	begin(t, s, model.ModeSprint)

	fx.clock.advance(50 * time.Millisecond)
	if err := s.Submit(s.Problem().Answer); err == nil {
		t.Fatal("expected a violation for a 50ms submission gap")
	}
	if s.State() != StateInvalidated {
		t.Fatalf("state = %v, want invalidated", s.State())
	}
	if fx.pres.invalid == "" {
		t.Fatal("invalidation reason not surfaced")
	}
	if len(fx.rec.recs) != 0 {
		t.Fatal("invalidated run must not be recorded")
	}
	if err := s.Submit(14); err == nil {
		t.Fatal("submissions must fail after invalidation")
	}
}

func TestShieldAbsorbsPenalty(t *testing.T) {
	fx := newFixture()
	fx.inv.counts["shield"] = 1
	s := fx.session(additionOnly())
	begin(t, s, model.ModeSprint)

	fx.clock.advance(time.Second)
	if res := s.UseItem("shield"); !res.Success {
		t.Fatalf("shield activation failed: %s", res.Message)
	}

	for i := 0; i < 3; i++ {
		submitWrong(t, fx, s)
	}
	if got := s.TimeLeft(); got != 60 {
		t.Fatalf("time after shielded penalty = %d, want 60", got)
	}
	if !fx.sounds.heard(sound.CueShieldBlock) {
		t.Fatal("missing shield-block cue")
	}

	// The single charge is spent; the next threshold bites.
	for i := 0; i < 3; i++ {
		submitWrong(t, fx, s)
	}
	if got := s.TimeLeft(); got != 50 {
		t.Fatalf("time after unshielded penalty = %d, want 50", got)
	}
}

func TestSecondChanceRevivesOnce(t *testing.T) {
	fx := newFixture()
	fx.inv.counts["secondChance"] = 1
	s := fx.session(additionOnly())
	begin(t, s, model.ModeSprint)

	fx.clock.advance(time.Second)
	if res := s.UseItem("secondChance"); !res.Success {
		t.Fatalf("secondChance activation failed: %s", res.Message)
	}

	tick(fx, s, 60)
	if s.State() != StateActive {
		t.Fatalf("state = %v, want active after revive", s.State())
	}
	if got := s.TimeLeft(); got != 30 {
		t.Fatalf("time after revive = %d, want 30", got)
	}
	if !fx.sounds.heard(sound.CueRevive) {
		t.Fatal("missing revive cue")
	}

	tick(fx, s, 30)
	if s.State() != StateGameOver {
		t.Fatalf("state = %v, want game over after second exhaustion", s.State())
	}
}

func TestTensionCueRearmsAfterRevive(t *testing.T) {
	fx := newFixture()
	fx.inv.counts["secondChance"] = 1
	s := fx.session(additionOnly())
	begin(t, s, model.ModeSprint)

	fx.clock.advance(time.Second)
	if res := s.UseItem("secondChance"); !res.Success {
		t.Fatalf("secondChance activation failed: %s", res.Message)
	}

	tension := func() int {
		n := 0
		for _, c := range fx.sounds.cues {
			if c == sound.CueTension {
				n++
			}
		}
		return n
	}

	tick(fx, s, 60)
	if got := s.TimeLeft(); got != 30 {
		t.Fatalf("time after revive = %d, want 30", got)
	}
	if got := tension(); got != 1 {
		t.Fatalf("tension cues before second countdown = %d, want 1", got)
	}

	tick(fx, s, 25)
	if got := tension(); got != 2 {
		t.Fatalf("tension cues after second countdown = %d, want 2", got)
	}
}

func TestItemModeRestrictionRefusesWithoutConsuming(t *testing.T) {
	fx := newFixture()
	fx.inv.counts["extraLife"] = 1
	s := fx.session(additionOnly())
	begin(t, s, model.ModeSprint)

	fx.clock.advance(time.Second)
	res := s.UseItem("extraLife")
	if res.Success {
		t.Fatal("extraLife must not activate outside Endless")
	}
	if got := fx.inv.counts["extraLife"]; got != 1 {
		t.Fatalf("inventory count = %d, want 1 (not consumed)", got)
	}
}

func TestInstantItemsApplyThroughGuardedSetters(t *testing.T) {
	fx := newFixture()
	fx.inv.counts["lifeVest"] = 1
	fx.inv.counts["megaBonus"] = 1
	s := fx.session(additionOnly())
	begin(t, s, model.ModeEndless)

	fx.clock.advance(time.Second)
	if res := s.UseItem("lifeVest"); !res.Success {
		t.Fatalf("lifeVest: %s", res.Message)
	}
	if got := s.Lives(); got != 5 {
		t.Fatalf("lives = %d, want 5", got)
	}

	fx.clock.advance(time.Second)
	if res := s.UseItem("megaBonus"); !res.Success {
		t.Fatalf("megaBonus: %s", res.Message)
	}
	if got := s.Score(); got != 250 {
		t.Fatalf("score = %d, want 250", got)
	}
	if !fx.ledger.has(achieve.FirstItemUsed) {
		t.Fatal("first-item-used achievement not unlocked")
	}
}

func TestComebackKidAfterRecovery(t *testing.T) {
	fx := newFixture()
	fx.inv.counts["lifeVest"] = 1
	s := fx.session(additionOnly())
	begin(t, s, model.ModeEndless)

	// Down to the last life, then back to three.
	for i := 0; i < 6; i++ {
		submitWrong(t, fx, s)
	}
	if got := s.Lives(); got != 1 {
		t.Fatalf("lives = %d, want 1", got)
	}
	fx.clock.advance(time.Second)
	if res := s.UseItem("lifeVest"); !res.Success {
		t.Fatalf("lifeVest: %s", res.Message)
	}
	if !fx.ledger.has(achieve.ComebackKid) {
		t.Fatal("comeback achievement not unlocked")
	}
}

func TestForcedOpsReshapeProblems(t *testing.T) {
	fx := newFixture()
	fx.inv.counts["easyMode"] = 1
	s := fx.session(model.Settings{Division: true})
	begin(t, s, model.ModeSprint)

	if got := s.Problem().Op; got != model.OpDiv {
		t.Fatalf("first op = %s, want division", got)
	}
	fx.clock.advance(time.Second)
	if res := s.UseItem("easyMode"); !res.Success {
		t.Fatalf("easyMode: %s", res.Message)
	}
	submitCorrect(t, fx, s)
	if got := s.Problem().Op; got != model.OpAdd {
		t.Fatalf("op under easyMode = %s, want addition", got)
	}
}

func TestTimeCeilingInvalidatesKeepingLastValue(t *testing.T) {
	fx := newFixture()
	fx.inv.counts["timeLapse"] = 200
	s := fx.session(additionOnly())
	begin(t, s, model.ModeSprint)

	for i := 0; i < 150 && s.State() == StateActive; i++ {
		fx.clock.advance(time.Second)
		s.UseItem("timeLapse")
	}
	if s.State() != StateInvalidated {
		t.Fatalf("state = %v, want invalidated", s.State())
	}
	// 60 + 25*141 is the last value under the 3600s ceiling.
	if got := s.TimeLeft(); got != 3585 {
		t.Fatalf("time = %d, want the last valid 3585", got)
	}
	if !strings.Contains(fx.pres.invalid, "ceiling") {
		t.Fatalf("invalidation reason = %q, want a ceiling violation", fx.pres.invalid)
	}
}

func TestScoreCeilingInvalidatesKeepingLastValue(t *testing.T) {
	fx := newFixture()
	fx.inv.counts["criticalHit"] = 250
	s := fx.session(additionOnly())
	begin(t, s, model.ModeSprint)

	for i := 0; i < 250 && s.State() == StateActive; i++ {
		fx.clock.advance(time.Second)
		s.UseItem("criticalHit")
	}
	if s.State() != StateInvalidated {
		t.Fatalf("state = %v, want invalidated", s.State())
	}
	// 200 uses at 500 points land exactly on the ceiling; the 201st
	// trips it and must not stick.
	if got := s.Score(); got != 100000 {
		t.Fatalf("score = %d, want the last valid 100000", got)
	}
	if !strings.Contains(fx.pres.invalid, "ceiling") {
		t.Fatalf("invalidation reason = %q, want a ceiling violation", fx.pres.invalid)
	}
}

func TestGameOverPaysSparksAndHighScore(t *testing.T) {
	fx := newFixture()
	s := fx.session(additionOnly())
	begin(t, s, model.ModeSprint)

	submitCorrect(t, fx, s)
	submitCorrect(t, fx, s)
	submitCorrect(t, fx, s) // 50 points
	tick(fx, s, 60)

	if s.State() != StateGameOver {
		t.Fatalf("state = %v, want game over", s.State())
	}
	if got := fx.wallet.sparks; got != 5 {
		t.Fatalf("sparks = %d, want 5", got)
	}
	if fx.pres.summary == nil || !fx.pres.summary.NewHighScore {
		t.Fatalf("summary = %+v, want a new high score", fx.pres.summary)
	}
	if got := fx.scores.best[model.ModeSprint]; got != 50 {
		t.Fatalf("stored high score = %d, want 50", got)
	}
	if !fx.sounds.heard(sound.CueNewHighScore) {
		t.Fatal("missing new-high-score cue")
	}
	if len(fx.rec.recs) != 1 || fx.rec.recs[0].Score != 50 || fx.rec.recs[0].Sparks != 5 {
		t.Fatalf("unexpected play record: %+v", fx.rec.recs)
	}
}

func TestTiedScoreIsNotAHighScore(t *testing.T) {
	fx := newFixture()
	fx.scores.best[model.ModeSprint] = 50
	s := fx.session(additionOnly())
	begin(t, s, model.ModeSprint)

	submitCorrect(t, fx, s)
	submitCorrect(t, fx, s)
	submitCorrect(t, fx, s) // ties the stored 50
	tick(fx, s, 60)

	if fx.pres.summary == nil || fx.pres.summary.NewHighScore {
		t.Fatalf("summary = %+v, want no new high score on a tie", fx.pres.summary)
	}
	if fx.scores.sets != 0 {
		t.Fatal("tied score must not overwrite the stored high score")
	}
}

func TestDailyChallengeIsDeterministicPerDay(t *testing.T) {
	first := newFixture()
	s1 := first.session(additionOnly())
	begin(t, s1, model.ModeDaily)

	second := newFixture()
	s2 := second.session(additionOnly())
	begin(t, s2, model.ModeDaily)

	if s1.Problem().Text != s2.Problem().Text {
		t.Fatalf("same-day problems differ: %q vs %q", s1.Problem().Text, s2.Problem().Text)
	}
}

func TestDailyCompletionOutcomesDriveAchievements(t *testing.T) {
	fx := newFixture()
	fx.daily.outcome = DailyOutcome{
		NewPersonalBest: true,
		FirstToday:      true,
		Completions:     1,
		Streak:          7,
	}
	s := fx.session(additionOnly())
	begin(t, s, model.ModeDaily)

	tick(fx, s, 90)
	if s.State() != StateGameOver {
		t.Fatalf("state = %v, want game over", s.State())
	}
	if len(fx.daily.scores) != 1 {
		t.Fatalf("daily completions recorded = %d, want 1", len(fx.daily.scores))
	}
	for _, id := range []string{achieve.FirstDaily, achieve.Daily7Day, achieve.DailyPersonalBest} {
		if !fx.ledger.has(id) {
			t.Fatalf("achievement %s not unlocked", id)
		}
	}
	if fx.ledger.has(achieve.Daily30Day) {
		t.Fatal("30-day streak achievement unlocked at streak 7")
	}
}

func TestStreakAchievementsUseBestStreak(t *testing.T) {
	fx := newFixture()
	s := fx.session(additionOnly())
	begin(t, s, model.ModeSprint)

	for i := 0; i < 10; i++ {
		submitCorrect(t, fx, s)
	}
	submitWrong(t, fx, s)
	tick(fx, s, 60)

	if !fx.ledger.has(achieve.TenStreak) {
		t.Fatal("10-streak achievement not unlocked despite best streak of 10")
	}
	if fx.ledger.has(achieve.TwentyStreak) {
		t.Fatal("20-streak achievement unlocked at best streak 10")
	}
}

func TestStartResetsEverything(t *testing.T) {
	fx := newFixture()
	fx.inv.counts["doublePoints"] = 1
	s := fx.session(additionOnly())
	begin(t, s, model.ModeSprint)

	submitCorrect(t, fx, s)
	fx.clock.advance(time.Second)
	if res := s.UseItem("doublePoints"); !res.Success {
		t.Fatalf("doublePoints: %s", res.Message)
	}

	begin(t, s, model.ModeSprint)
	if got := s.Score(); got != 0 {
		t.Fatalf("score after restart = %d, want 0", got)
	}
	if got := s.TimeLeft(); got != 60 {
		t.Fatalf("time after restart = %d, want 60", got)
	}
	if got := len(s.ActiveEffectIDs()); got != 0 {
		t.Fatalf("effects survived restart: %d active", got)
	}

	submitCorrect(t, fx, s)
	if got := s.Score(); got != 10 {
		t.Fatalf("score with stale multiplier = %d, want 10", got)
	}
}
