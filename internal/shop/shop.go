// Package shop exchanges sparks for items.
package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/mathsprint/internal/achieve"
	"github.com/verte-zerg/mathsprint/internal/items"
	"github.com/verte-zerg/mathsprint/internal/store"
)

var (
	ErrUnknownItem        = errors.New("unknown item")
	ErrInsufficientSparks = errors.New("not enough sparks")
)

// Shop sells catalog items against the persistent spark wallet.
type Shop struct {
	store  *store.Store
	ledger *achieve.Ledger
	log    zerolog.Logger
}

// New returns a Shop backed by the given store.
func New(st *store.Store, ledger *achieve.Ledger, log zerolog.Logger) *Shop {
	return &Shop{store: st, ledger: ledger, log: log}
}

// Balance returns the current spark balance.
func (s *Shop) Balance(ctx context.Context) (int, error) {
	return s.store.Sparks(ctx)
}

// Purchase is the receipt of a successful Buy.
type Purchase struct {
	Item    items.Item
	Balance int
	Owned   int
}

// Buy debits the item's cost and adds one to the inventory. The debit
// and the grant are not atomic across crashes; the debit runs first so
// a failure can never mint a free item.
func (s *Shop) Buy(ctx context.Context, itemID string) (Purchase, error) {
	it, ok := items.ByID(itemID)
	if !ok {
		return Purchase{}, fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}

	spent, err := s.store.SpendSparks(ctx, it.Cost)
	if err != nil {
		return Purchase{}, fmt.Errorf("debit sparks: %w", err)
	}
	if !spent {
		return Purchase{}, fmt.Errorf("%w: %s costs %d", ErrInsufficientSparks, it.Name, it.Cost)
	}

	if err := s.store.AddItem(ctx, itemID, 1); err != nil {
		return Purchase{}, fmt.Errorf("grant item: %w", err)
	}

	if s.ledger != nil {
		if _, err := s.ledger.Unlock(ctx, achieve.FirstPurchase); err != nil {
			s.log.Warn().Err(err).Msg("first-purchase achievement")
		}
	}

	balance, err := s.store.Sparks(ctx)
	if err != nil {
		return Purchase{}, fmt.Errorf("read balance: %w", err)
	}
	owned, err := s.store.ItemCount(ctx, itemID)
	if err != nil {
		return Purchase{}, fmt.Errorf("read inventory: %w", err)
	}

	s.log.Info().
		Str("item", itemID).
		Int("cost", it.Cost).
		Int("balance", balance).
		Msg("item purchased")

	return Purchase{Item: it, Balance: balance, Owned: owned}, nil
}

// Listing pairs a catalog item with how many the player owns.
type Listing struct {
	Item  items.Item
	Owned int
}

// Listings returns the full catalog annotated with owned counts.
func (s *Shop) Listings(ctx context.Context) ([]Listing, error) {
	inv, err := s.store.Inventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	out := make([]Listing, 0, len(items.Catalog))
	for _, it := range items.Catalog {
		out = append(out, Listing{Item: it, Owned: inv[it.ID]})
	}
	return out, nil
}
