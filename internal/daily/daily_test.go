package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/mathsprint/internal/store"
)

func newTestTracker(t *testing.T, clock *time.Time) *Tracker {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "mathsprint.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return NewTracker(st, func() time.Time { return *clock })
}

func TestRecordCompletionStreaks(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	tr := newTestTracker(t, &now)
	ctx := context.Background()

	out, err := tr.RecordCompletion(ctx, 80)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !out.FirstToday || !out.NewPersonalBest || out.Completions != 1 || out.Streak != 1 {
		t.Fatalf("unexpected first outcome %+v", out)
	}

	// A second run the same day: best updates, streak does not.
	out, err = tr.RecordCompletion(ctx, 120)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if out.FirstToday || !out.NewPersonalBest || out.Completions != 1 || out.Streak != 1 {
		t.Fatalf("unexpected same-day outcome %+v", out)
	}

	// Next day extends the streak.
	now = now.AddDate(0, 0, 1)
	out, err = tr.RecordCompletion(ctx, 60)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !out.FirstToday || out.Streak != 2 || out.Completions != 2 {
		t.Fatalf("unexpected next-day outcome %+v", out)
	}
	if !out.NewPersonalBest {
		t.Fatal("a fresh day starts with no best; 60 should be a best")
	}

	// Skipping a day resets the streak.
	now = now.AddDate(0, 0, 2)
	out, err = tr.RecordCompletion(ctx, 50)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if out.Streak != 1 || out.Completions != 3 {
		t.Fatalf("unexpected gap outcome %+v", out)
	}
}

func TestBestIsPerDay(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tr := newTestTracker(t, &now)
	ctx := context.Background()

	if _, err := tr.RecordCompletion(ctx, 100); err != nil {
		t.Fatalf("record: %v", err)
	}
	best, err := tr.Best(ctx)
	if err != nil || best != 100 {
		t.Fatalf("expected best 100, got %d (err %v)", best, err)
	}

	now = now.AddDate(0, 0, 1)
	best, err = tr.Best(ctx)
	if err != nil || best != 0 {
		t.Fatalf("a new day starts with best 0, got %d (err %v)", best, err)
	}
}

func TestCleanup(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tr := newTestTracker(t, &now)
	ctx := context.Background()

	old := now
	if _, err := tr.RecordCompletion(ctx, 40); err != nil {
		t.Fatalf("record: %v", err)
	}

	now = now.AddDate(0, 0, 120)
	if err := tr.Cleanup(ctx); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	now = old
	best, err := tr.Best(ctx)
	if err != nil || best != 0 {
		t.Fatalf("pruned best should be gone, got %d (err %v)", best, err)
	}
}
