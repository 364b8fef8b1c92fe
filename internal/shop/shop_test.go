package shop

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/mathsprint/internal/achieve"
	"github.com/verte-zerg/mathsprint/internal/items"
	"github.com/verte-zerg/mathsprint/internal/store"
)

func openTestShop(t *testing.T) (*Shop, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "mathsprint.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ledger := achieve.NewLedger(st, zerolog.Nop())
	return New(st, ledger, zerolog.Nop()), st
}

func TestBuyDebitsAndGrants(t *testing.T) {
	sh, st := openTestShop(t)
	ctx := context.Background()

	if _, err := st.AddSparks(ctx, 200); err != nil {
		t.Fatalf("seed sparks: %v", err)
	}

	p, err := sh.Buy(ctx, "shield")
	if err != nil {
		t.Fatalf("buy shield: %v", err)
	}
	it, _ := items.ByID("shield")
	if p.Balance != 200-it.Cost {
		t.Fatalf("balance = %d, want %d", p.Balance, 200-it.Cost)
	}
	if p.Owned != 1 {
		t.Fatalf("owned = %d, want 1", p.Owned)
	}

	unlocked, err := st.Achievements(ctx)
	if err != nil {
		t.Fatalf("achievements: %v", err)
	}
	if _, ok := unlocked[achieve.FirstPurchase]; !ok {
		t.Fatal("first purchase achievement not unlocked")
	}
}

func TestBuyRefusesWhenBroke(t *testing.T) {
	sh, st := openTestShop(t)
	ctx := context.Background()

	if _, err := st.AddSparks(ctx, 10); err != nil {
		t.Fatalf("seed sparks: %v", err)
	}
	_, err := sh.Buy(ctx, "shield")
	if !errors.Is(err, ErrInsufficientSparks) {
		t.Fatalf("err = %v, want ErrInsufficientSparks", err)
	}
	balance, err := st.Sparks(ctx)
	if err != nil || balance != 10 {
		t.Fatalf("balance = %d (err %v), refused buy must not debit", balance, err)
	}
	if owned, _ := st.ItemCount(ctx, "shield"); owned != 0 {
		t.Fatalf("owned = %d, refused buy must not grant", owned)
	}
}

func TestBuyUnknownItem(t *testing.T) {
	sh, _ := openTestShop(t)

	_, err := sh.Buy(context.Background(), "philosopherStone")
	if !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("err = %v, want ErrUnknownItem", err)
	}
}

func TestListingsCoverCatalog(t *testing.T) {
	sh, st := openTestShop(t)
	ctx := context.Background()

	if err := st.AddItem(ctx, "timeFreeze", 3); err != nil {
		t.Fatalf("seed item: %v", err)
	}
	listings, err := sh.Listings(ctx)
	if err != nil {
		t.Fatalf("listings: %v", err)
	}
	if len(listings) != len(items.Catalog) {
		t.Fatalf("listings = %d, want %d", len(listings), len(items.Catalog))
	}
	for _, l := range listings {
		if l.Item.ID == "timeFreeze" && l.Owned != 3 {
			t.Fatalf("timeFreeze owned = %d, want 3", l.Owned)
		}
	}
}
