// Package achieve manages the achievement catalog and unlock ledger.
package achieve

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/mathsprint/internal/store"
)

// Achievement describes one unlockable.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Reward      int // sparks credited on unlock; 0 for none
	Category    string
}

// Achievement identifiers emitted by the game core.
const (
	QuickGameOver       = "quickGameOver"
	PerfectTiming       = "perfectTiming"
	NightOwl            = "nightOwl"
	FirstGameOverSprint = "firstGameOverSprint"
	FirstGameOverEnd    = "firstGameOverEndless"
	FirstGameOverSurv   = "firstGameOverSurvival"
	TenStreak           = "tenStreak"
	TwentyStreak        = "twentyStreak"
	FirstOverdrive      = "firstOverdrive"
	FirstItemUsed       = "firstItemUsed"
	AnswerIs42          = "answerIs42"
	SpeedDemon          = "speedDemon"
	CalculatorBrain     = "calculatorBrain"
	ComebackKid         = "comebackKid"
	HighScoreSprint     = "highScoreSprint"
	HighScoreEndless    = "highScoreEndless"
	HighScoreSurvival   = "highScoreSurvival"
	FirstDaily          = "firstDailyChallenge"
	Daily7Day           = "dailyChallenge7Day"
	Daily30Day          = "dailyChallenge30Day"
	DailyPersonalBest   = "dailyChallengePersonalBest"
	DailyHighScore      = "dailyChallengeHighScore"
	FirstPurchase       = "firstPurchase"
)

// Catalog lists every achievement.
var Catalog = []Achievement{
	{ID: HighScoreSprint, Title: "Sprint Champion", Description: "Set a Sprint high score of 100+", Category: "score"},
	{ID: HighScoreEndless, Title: "Endless Warrior", Description: "Set an Endless high score of 150+", Category: "score"},
	{ID: HighScoreSurvival, Title: "Survival Expert", Description: "Set a Survival high score of 200+", Category: "score"},
	{ID: FirstGameOverSprint, Title: "Sprint Starter", Description: "Complete your first Sprint game", Reward: 10, Category: "milestone"},
	{ID: FirstGameOverEnd, Title: "Endless Beginner", Description: "Complete your first Endless game", Reward: 10, Category: "milestone"},
	{ID: FirstGameOverSurv, Title: "Survival Initiate", Description: "Complete your first Survival game", Reward: 10, Category: "milestone"},
	{ID: QuickGameOver, Title: "Oops!", Description: "Finish a game in under 30 seconds", Reward: 5, Category: "amusing"},
	{ID: PerfectTiming, Title: "Photo Finish", Description: "End a Sprint with exactly zero seconds left", Reward: 25, Category: "amusing"},
	{ID: NightOwl, Title: "Night Owl", Description: "Play between 2am and 4am", Reward: 15, Category: "amusing"},
	{ID: TenStreak, Title: "On Fire", Description: "Reach a 10-answer streak", Reward: 15, Category: "gameplay"},
	{ID: TwentyStreak, Title: "Unstoppable", Description: "Reach a 20-answer streak", Reward: 25, Category: "gameplay"},
	{ID: FirstOverdrive, Title: "Charged Up", Description: "Activate Overdrive for the first time", Reward: 10, Category: "gameplay"},
	{ID: FirstItemUsed, Title: "Shop Smart", Description: "Use your first item", Reward: 10, Category: "gameplay"},
	{ID: SpeedDemon, Title: "Speed Demon", Description: "Answer 3 problems correctly within 5 seconds", Reward: 20, Category: "gameplay"},
	{ID: CalculatorBrain, Title: "Calculator Brain", Description: "Solve 3 triple-digit problems in a row", Reward: 30, Category: "gameplay"},
	{ID: ComebackKid, Title: "Comeback Kid", Description: "Climb back to 3 lives after being down to 1", Reward: 25, Category: "gameplay"},
	{ID: AnswerIs42, Title: "The Answer", Description: "Answer a problem whose answer is 42", Reward: 42, Category: "amusing"},
	{ID: FirstDaily, Title: "Daily Devotee", Description: "Complete your first Daily Challenge", Reward: 15, Category: "daily"},
	{ID: Daily7Day, Title: "Week Warrior", Description: "Complete Daily Challenges 7 days in a row", Reward: 50, Category: "daily"},
	{ID: Daily30Day, Title: "Monthly Master", Description: "Complete Daily Challenges 30 days in a row", Reward: 200, Category: "daily"},
	{ID: DailyPersonalBest, Title: "Self Improvement", Description: "Beat your Daily Challenge personal best", Reward: 10, Category: "daily"},
	{ID: DailyHighScore, Title: "Daily Dominator", Description: "Score 150+ in a Daily Challenge", Category: "daily"},
	{ID: FirstPurchase, Title: "First Customer", Description: "Buy your first item from the shop", Reward: 10, Category: "shop"},
}

// ByID looks an achievement up by identifier.
func ByID(id string) (Achievement, bool) {
	for _, a := range Catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Ledger records unlocks and credits spark rewards.
type Ledger struct {
	store *store.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewLedger builds a Ledger over the store.
func NewLedger(st *store.Store, log zerolog.Logger) *Ledger {
	return &Ledger{store: st, log: log, now: time.Now}
}

// Unlock marks an achievement and credits its spark reward, once.
// Repeated unlocks are no-ops.
func (l *Ledger) Unlock(ctx context.Context, id string) (bool, error) {
	a, ok := ByID(id)
	if !ok {
		return false, fmt.Errorf("unknown achievement %q", id)
	}
	newly, err := l.store.UnlockAchievement(ctx, id, l.now())
	if err != nil {
		return false, fmt.Errorf("failed to record achievement: %w", err)
	}
	if !newly {
		return false, nil
	}
	if a.Reward > 0 {
		if _, err := l.store.AddSparks(ctx, a.Reward); err != nil {
			return true, fmt.Errorf("failed to credit reward: %w", err)
		}
	}
	l.log.Info().Str("achievement", id).Int("reward", a.Reward).Msg("achievement unlocked")
	return true, nil
}

// Unlocked returns unlock timestamps keyed by achievement id.
func (l *Ledger) Unlocked(ctx context.Context) (map[string]time.Time, error) {
	return l.store.Achievements(ctx)
}
