// Package items defines the consumable item catalog.
package items

import "github.com/verte-zerg/mathsprint/internal/model"

// Category groups shop items by what they affect.
type Category string

const (
	CategoryTime      Category = "time"
	CategoryScore     Category = "score"
	CategorySurvival  Category = "survival"
	CategoryChallenge Category = "challenge"
)

// Item describes a consumable and the effect it installs when used.
// The parameter fields are mutually exclusive groups: a timed effect
// sets DurationMs plus its factor, a charge effect sets Charges, and
// instantaneous items set one of the Bonus/Instant fields.
type Item struct {
	ID          string
	Name        string
	Category    Category
	Cost        int
	Description string

	DurationMs    int
	FreezesTime   bool
	SlowFactor    float64
	Multiplier    float64
	InstantPoints int
	BonusTime     int
	Charges       int
	LivesBonus    int
	ReviveTime    int
	ForcedOps     []model.Operator
	DisabledOps   []model.Operator

	// ModeRestriction limits use to one mode; AllowedModes to a subset.
	// Both empty means usable everywhere.
	ModeRestriction model.Mode
	AllowedModes    []model.Mode

	Sound string
}

// UsableIn reports whether the item may be activated in the given mode.
func (it Item) UsableIn(mode model.Mode) bool {
	if it.ModeRestriction != "" && mode != it.ModeRestriction {
		return false
	}
	if len(it.AllowedModes) > 0 {
		for _, m := range it.AllowedModes {
			if m == mode {
				return true
			}
		}
		return false
	}
	return true
}

// Catalog lists every purchasable item.
var Catalog = []Item{
	{
		ID:          "timeFreeze",
		Name:        "Time Freeze",
		Category:    CategoryTime,
		Cost:        50,
		Description: "Pause the timer for 10 seconds",
		DurationMs:  10000,
		FreezesTime: true,
		Sound:       "freeze",
	},
	{
		ID:          "timeRewind",
		Name:        "+15 Seconds",
		Category:    CategoryTime,
		Cost:        75,
		Description: "Add 15 seconds to the clock",
		BonusTime:   15,
		Sound:       "rewind",
	},
	{
		ID:          "slowMotion",
		Name:        "Slow Motion",
		Category:    CategoryTime,
		Cost:        100,
		Description: "Timer ticks at half speed for 20 seconds",
		DurationMs:  20000,
		SlowFactor:  0.5,
		Sound:       "slow",
	},
	{
		ID:          "doublePoints",
		Name:        "Double Points",
		Category:    CategoryScore,
		Cost:        60,
		Description: "2x points for 15 seconds",
		DurationMs:  15000,
		Multiplier:  2,
		Sound:       "boost",
	},
	{
		ID:            "megaBonus",
		Name:          "Mega Bonus",
		Category:      CategoryScore,
		Cost:          120,
		Description:   "+250 points instantly",
		InstantPoints: 250,
		Sound:         "bonus",
	},
	{
		ID:          "shield",
		Name:        "Shield",
		Category:    CategorySurvival,
		Cost:        80,
		Description: "Block the next wrong-answer penalty",
		Charges:     1,
		Sound:       "shield",
	},
	{
		ID:              "extraLife",
		Name:            "Extra Life",
		Category:        CategorySurvival,
		Cost:            90,
		Description:     "+1 life (Endless only)",
		LivesBonus:      1,
		ModeRestriction: model.ModeEndless,
		Sound:           "life",
	},
	{
		ID:           "secondChance",
		Name:         "Second Chance",
		Category:     CategorySurvival,
		Cost:         150,
		Description:  "Auto-revive with +30s when time runs out",
		ReviveTime:   30,
		AllowedModes: []model.Mode{model.ModeSprint, model.ModeSurvival},
		Sound:        "revive",
	},
	{
		ID:          "noSubtraction",
		Name:        "No Subtraction",
		Category:    CategoryChallenge,
		Cost:        40,
		Description: "Disable subtraction for 30 seconds",
		DurationMs:  30000,
		DisabledOps: []model.Operator{model.OpSub},
		Sound:       "modify",
	},
	{
		ID:          "easyMode",
		Name:        "Easy Mode",
		Category:    CategoryChallenge,
		Cost:        100,
		Description: "Addition-only problems for 30 seconds",
		DurationMs:  30000,
		ForcedOps:   []model.Operator{model.OpAdd},
		Sound:       "easy",
	},
	{
		ID:          "scoreMultiplier",
		Name:        "Score Multiplier",
		Category:    CategoryScore,
		Cost:        110,
		Description: "3x points for 10 seconds",
		DurationMs:  10000,
		Multiplier:  3,
		Sound:       "boost",
	},
	{
		ID:          "timeLapse",
		Name:        "Time Lapse",
		Category:    CategoryTime,
		Cost:        85,
		Description: "Add 25 seconds to the clock",
		BonusTime:   25,
		Sound:       "rewind",
	},
	{
		ID:            "criticalHit",
		Name:          "Critical Hit",
		Category:      CategoryScore,
		Cost:          130,
		Description:   "+500 points instantly (use wisely!)",
		InstantPoints: 500,
		Sound:         "bonus",
	},
	{
		ID:              "lifeVest",
		Name:            "Life Vest",
		Category:        CategorySurvival,
		Cost:            85,
		Description:     "+2 lives (Endless only)",
		LivesBonus:      2,
		ModeRestriction: model.ModeEndless,
		Sound:           "life",
	},
	{
		ID:          "safeZone",
		Name:        "Safe Zone",
		Category:    CategorySurvival,
		Cost:        95,
		Description: "Block 2 wrong-answer penalties",
		Charges:     2,
		Sound:       "shield",
	},
	{
		ID:          "focusMode",
		Name:        "Focus Mode",
		Category:    CategoryChallenge,
		Cost:        65,
		Description: "Only addition and subtraction for 25 seconds",
		DurationMs:  25000,
		ForcedOps:   []model.Operator{model.OpAdd, model.OpSub},
		Sound:       "modify",
	},
}

// ByID looks an item up by identifier.
func ByID(id string) (Item, bool) {
	for _, it := range Catalog {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// List returns a copy of the catalog.
func List() []Item {
	out := make([]Item, len(Catalog))
	copy(out, Catalog)
	return out
}
