// Package effects tracks the consumable item effects active during a
// game session. Effects are keyed by item id and expire either at an
// absolute deadline or after a number of charges, never both.
package effects

import (
	"fmt"
	"time"

	"github.com/verte-zerg/mathsprint/internal/items"
	"github.com/verte-zerg/mathsprint/internal/model"
)

// Kind classifies what an active effect does.
type Kind int

const (
	KindTimeFreeze Kind = iota
	KindSlowMotion
	KindScoreMultiplier
	KindShield
	KindSecondChance
	KindOpRestriction
)

// Effect is one installed effect. Timed effects carry ExpiresAt; charge
// effects carry Charges; a primed Second Chance carries neither and is
// consumed on use.
type Effect struct {
	ItemID string
	Kind   Kind

	ExpiresAt time.Time
	Charges   int

	SlowFactor  float64
	Multiplier  float64
	ReviveTime  int
	ForcedOps   []model.Operator
	DisabledOps []model.Operator
}

// Instant describes a one-shot adjustment the caller applies to the
// session through its own guarded setters.
type Instant struct {
	BonusTime   int
	BonusPoints int
	BonusLives  int
}

// Result reports an activation outcome for the caller to surface.
type Result struct {
	Success bool
	Message string
	Instant Instant
}

// Engine owns the active effect set for one session.
type Engine struct {
	now    func() time.Time
	active map[string]*Effect
}

// New returns an Engine using the given clock, defaulting to time.Now.
func New(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now, active: map[string]*Effect{}}
}

// ValidateMode checks an item's mode restriction before any inventory
// consumption happens.
func (e *Engine) ValidateMode(it items.Item, mode model.Mode) Result {
	if it.UsableIn(mode) {
		return Result{Success: true}
	}
	if it.ModeRestriction != "" {
		return Result{Message: fmt.Sprintf("Works only in %s", it.ModeRestriction.Title())}
	}
	return Result{Message: fmt.Sprintf("Unavailable in %s", mode.Title())}
}

// Activate installs the item's effect or returns the instantaneous
// adjustment it grants. A failed activation leaves the engine unchanged
// so the caller can refund the consumed item.
func (e *Engine) Activate(it items.Item) Result {
	var expiresAt time.Time
	if it.DurationMs > 0 {
		expiresAt = e.now().Add(time.Duration(it.DurationMs) * time.Millisecond)
	}

	switch {
	case it.FreezesTime:
		e.install(&Effect{ItemID: it.ID, Kind: KindTimeFreeze, ExpiresAt: expiresAt})
		return ok("Time frozen for %d seconds", it.DurationMs/1000)
	case it.SlowFactor > 0:
		e.install(&Effect{ItemID: it.ID, Kind: KindSlowMotion, ExpiresAt: expiresAt, SlowFactor: it.SlowFactor})
		return ok("%s active", it.Name)
	case it.Multiplier > 0:
		e.install(&Effect{ItemID: it.ID, Kind: KindScoreMultiplier, ExpiresAt: expiresAt, Multiplier: it.Multiplier})
		return ok("%s active", it.Name)
	case it.Charges > 0:
		e.install(&Effect{ItemID: it.ID, Kind: KindShield, Charges: it.Charges})
		return ok("%s ready", it.Name)
	case it.ReviveTime > 0:
		e.install(&Effect{ItemID: it.ID, Kind: KindSecondChance, ReviveTime: it.ReviveTime})
		return ok("%s primed", it.Name)
	case len(it.ForcedOps) > 0 || len(it.DisabledOps) > 0:
		e.install(&Effect{ItemID: it.ID, Kind: KindOpRestriction, ExpiresAt: expiresAt, ForcedOps: it.ForcedOps, DisabledOps: it.DisabledOps})
		return ok("%s active", it.Name)
	case it.BonusTime > 0:
		return Result{Success: true, Message: fmt.Sprintf("+%ds added", it.BonusTime), Instant: Instant{BonusTime: it.BonusTime}}
	case it.InstantPoints > 0:
		return Result{Success: true, Message: fmt.Sprintf("+%d points", it.InstantPoints), Instant: Instant{BonusPoints: it.InstantPoints}}
	case it.LivesBonus > 0:
		return Result{Success: true, Message: fmt.Sprintf("+%d lives", it.LivesBonus), Instant: Instant{BonusLives: it.LivesBonus}}
	}
	return Result{Message: "No effect applied"}
}

func ok(format string, args ...any) Result {
	return Result{Success: true, Message: fmt.Sprintf(format, args...)}
}

func (e *Engine) install(ef *Effect) {
	e.active[ef.ItemID] = ef
}

// expired reports whether a timed effect has run out. Charge and primed
// effects never expire by time.
func (e *Engine) expired(ef *Effect) bool {
	return !ef.ExpiresAt.IsZero() && !e.now().Before(ef.ExpiresAt)
}

// live returns the unexpired effects of the given kind, removing stale
// ones. Every query goes through here, so a stale effect can never
// influence a read.
func (e *Engine) live(kind Kind) []*Effect {
	var out []*Effect
	for id, ef := range e.active {
		if ef.Kind != kind {
			continue
		}
		if e.expired(ef) {
			delete(e.active, id)
			continue
		}
		out = append(out, ef)
	}
	return out
}

// Tick removes all expired effects. Queries expire lazily on their own;
// Tick keeps the active set honest for display.
func (e *Engine) Tick() {
	for id, ef := range e.active {
		if e.expired(ef) {
			delete(e.active, id)
		}
	}
}

// TimeDelta returns the per-tick timer decrement multiplier: 0 under a
// time freeze, the slow factor under slow motion, otherwise 1.
func (e *Engine) TimeDelta() float64 {
	if len(e.live(KindTimeFreeze)) > 0 {
		return 0
	}
	delta := 1.0
	for _, ef := range e.live(KindSlowMotion) {
		if ef.SlowFactor < delta {
			delta = ef.SlowFactor
		}
	}
	return delta
}

// ScoreMultiplier returns the strongest active score multiplier, or 1.
func (e *Engine) ScoreMultiplier() float64 {
	mult := 1.0
	for _, ef := range e.live(KindScoreMultiplier) {
		if ef.Multiplier > mult {
			mult = ef.Multiplier
		}
	}
	return mult
}

// BlockPenalty consumes one shield charge if available. The effect is
// removed the moment its last charge is spent.
func (e *Engine) BlockPenalty() bool {
	for _, ef := range e.live(KindShield) {
		if ef.Charges <= 0 {
			delete(e.active, ef.ItemID)
			continue
		}
		ef.Charges--
		if ef.Charges <= 0 {
			delete(e.active, ef.ItemID)
		}
		return true
	}
	return false
}

// ReviveIfReady consumes a primed Second Chance when the clock has run
// out, returning the revive time in seconds.
func (e *Engine) ReviveIfReady(timeLeft float64) (int, bool) {
	if timeLeft > 0 {
		return 0, false
	}
	for _, ef := range e.live(KindSecondChance) {
		delete(e.active, ef.ItemID)
		return ef.ReviveTime, true
	}
	return 0, false
}

// ForcedOps returns the union of forced operators across live effects.
func (e *Engine) ForcedOps() []model.Operator {
	return e.opUnion(func(ef *Effect) []model.Operator { return ef.ForcedOps })
}

// DisabledOps returns the union of disabled operators across live effects.
func (e *Engine) DisabledOps() []model.Operator {
	return e.opUnion(func(ef *Effect) []model.Operator { return ef.DisabledOps })
}

func (e *Engine) opUnion(get func(*Effect) []model.Operator) []model.Operator {
	seen := map[model.Operator]struct{}{}
	var out []model.Operator
	for _, ef := range e.live(KindOpRestriction) {
		for _, op := range get(ef) {
			if _, ok := seen[op]; ok {
				continue
			}
			seen[op] = struct{}{}
			out = append(out, op)
		}
	}
	return out
}

// ActiveIDs lists the ids of live effects for display.
func (e *Engine) ActiveIDs() []string {
	var out []string
	for id, ef := range e.active {
		if e.expired(ef) {
			delete(e.active, id)
			continue
		}
		out = append(out, id)
	}
	return out
}

// Reset clears every active effect; called at each session start so
// effects never survive a session boundary.
func (e *Engine) Reset() {
	e.active = map[string]*Effect{}
}
