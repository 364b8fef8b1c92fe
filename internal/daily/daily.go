// Package daily tracks Daily Challenge bests and completion streaks.
// Days are keyed by UTC calendar date, matching the challenge seed.
package daily

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/verte-zerg/mathsprint/internal/store"
)

const dateLayout = "2006-01-02"

// Personal bests older than this are pruned on startup.
const retentionDays = 90

// Meta keys used in the store.
const (
	metaLastDate    = "daily_last_date"
	metaStreak      = "daily_streak"
	metaCompletions = "daily_completions"
)

// DateKey returns the UTC day key for the given moment.
func DateKey(now time.Time) string {
	return now.UTC().Format(dateLayout)
}

// Tracker persists daily-challenge bookkeeping.
type Tracker struct {
	store *store.Store
	now   func() time.Time
}

// NewTracker builds a Tracker using the given clock, defaulting to
// time.Now.
func NewTracker(st *store.Store, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{store: st, now: now}
}

// Outcome summarizes the bookkeeping after a finished daily run.
type Outcome struct {
	NewPersonalBest bool
	FirstToday      bool
	Completions     int
	Streak          int
}

// RecordCompletion updates today's personal best and, on the first
// completion of the day, the completion count and consecutive-day
// streak.
func (t *Tracker) RecordCompletion(ctx context.Context, score int) (Outcome, error) {
	today := DateKey(t.now())

	newBest, err := t.store.SetDailyBest(ctx, today, score)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to save daily best: %w", err)
	}

	lastDate, err := t.store.GetMeta(ctx, metaLastDate)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to read daily meta: %w", err)
	}

	out := Outcome{NewPersonalBest: newBest}
	out.Completions, _ = t.metaInt(ctx, metaCompletions)
	out.Streak, _ = t.metaInt(ctx, metaStreak)

	if lastDate == today {
		return out, nil
	}

	out.FirstToday = true
	out.Completions++
	out.Streak = nextStreak(lastDate, today, out.Streak)

	if err := t.store.SetMeta(ctx, metaCompletions, strconv.Itoa(out.Completions)); err != nil {
		return Outcome{}, fmt.Errorf("failed to save daily meta: %w", err)
	}
	if err := t.store.SetMeta(ctx, metaStreak, strconv.Itoa(out.Streak)); err != nil {
		return Outcome{}, fmt.Errorf("failed to save daily meta: %w", err)
	}
	if err := t.store.SetMeta(ctx, metaLastDate, today); err != nil {
		return Outcome{}, fmt.Errorf("failed to save daily meta: %w", err)
	}
	return out, nil
}

// nextStreak continues the streak only across consecutive days.
func nextStreak(lastDate, today string, streak int) int {
	if lastDate == "" {
		return 1
	}
	last, err := time.Parse(dateLayout, lastDate)
	if err != nil {
		return 1
	}
	cur, err := time.Parse(dateLayout, today)
	if err != nil {
		return 1
	}
	diff := int(cur.Sub(last).Hours() / 24)
	if diff == 1 {
		return streak + 1
	}
	return 1
}

// Best returns today's personal best.
func (t *Tracker) Best(ctx context.Context) (int, error) {
	return t.store.DailyBest(ctx, DateKey(t.now()))
}

// Streak returns the current consecutive-day completion streak.
func (t *Tracker) Streak(ctx context.Context) (int, error) {
	return t.metaInt(ctx, metaStreak)
}

// Completions returns the lifetime daily-challenge completion count.
func (t *Tracker) Completions(ctx context.Context) (int, error) {
	return t.metaInt(ctx, metaCompletions)
}

// Cleanup prunes personal bests outside the retention window.
func (t *Tracker) Cleanup(ctx context.Context) error {
	cutoff := DateKey(t.now().AddDate(0, 0, -retentionDays))
	return t.store.DeleteDailyBestsBefore(ctx, cutoff)
}

func (t *Tracker) metaInt(ctx context.Context, key string) (int, error) {
	raw, err := t.store.GetMeta(ctx, key)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("corrupt meta value %q for %s: %w", raw, key, err)
	}
	return n, nil
}
