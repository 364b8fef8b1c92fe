package achieve

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/mathsprint/internal/store"
)

func newTestLedger(t *testing.T) (*Ledger, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "mathsprint.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return NewLedger(st, zerolog.Nop()), st
}

func TestUnlockCreditsRewardOnce(t *testing.T) {
	ledger, st := newTestLedger(t)
	ctx := context.Background()

	newly, err := ledger.Unlock(ctx, TenStreak)
	if err != nil || !newly {
		t.Fatalf("first unlock: newly=%v err=%v", newly, err)
	}
	balance, _ := st.Sparks(ctx)
	if balance != 15 {
		t.Fatalf("expected 15 sparks, got %d", balance)
	}

	newly, err = ledger.Unlock(ctx, TenStreak)
	if err != nil || newly {
		t.Fatalf("repeat unlock: newly=%v err=%v", newly, err)
	}
	balance, _ = st.Sparks(ctx)
	if balance != 15 {
		t.Fatalf("reward credited twice: %d", balance)
	}
}

func TestUnlockUnknownID(t *testing.T) {
	ledger, _ := newTestLedger(t)
	if _, err := ledger.Unlock(context.Background(), "bogus"); err == nil {
		t.Fatal("unknown achievement must error")
	}
}

func TestCatalogIDsUnique(t *testing.T) {
	seen := map[string]struct{}{}
	for _, a := range Catalog {
		if _, dup := seen[a.ID]; dup {
			t.Fatalf("duplicate achievement id %q", a.ID)
		}
		seen[a.ID] = struct{}{}
		if a.Title == "" || a.Description == "" {
			t.Fatalf("achievement %q missing copy", a.ID)
		}
	}
}
