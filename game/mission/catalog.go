// Package mission drives each character's mission states through a small
// precondition-gated state machine over a fixed, code-defined catalog.
// Definitions are global, read-only static data; MissionState on the
// character is the only per-player counterpart.
package mission

import (
	"sync"

	"github.com/kuraoka/signalquest/model"
)

// Mission ids. Stable: they key persisted mission state.
const (
	ScoutEnemies   = "scout-enemies"
	LegendaryTrial = "legendary-trial"
	PurgeBeggars   = "purge-beggars"
	FindDragon     = "find-dragon"
	HuntPaladins   = "hunt-paladins"
	SlayDragon     = "slay-dragon"
)

// Definition is one immutable mission description.
type Definition struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Condition   string         `json:"condition"` // human-readable unlock/progress summary
	Reward      string         `json:"reward,omitempty"`
	Target      int            `json:"target"`
	Requires    []Precondition `json:"-"`
}

type preconditionKind int

const (
	requireMissionDone preconditionKind = iota
	requireMinLevel
)

// Precondition is a closed variant: either "another mission is DONE" or
// "player level >= N".
type Precondition struct {
	kind      preconditionKind
	missionID string
	minLevel  int
}

// MissionCompleted gates on another mission reaching DONE.
func MissionCompleted(id string) Precondition {
	return Precondition{kind: requireMissionDone, missionID: id}
}

// RankAtLeast gates on a minimum player level.
func RankAtLeast(level int) Precondition {
	return Precondition{kind: requireMinLevel, minLevel: level}
}

// Satisfied evaluates the precondition against the current player state.
func (p Precondition) Satisfied(c model.Character) bool {
	switch p.kind {
	case requireMissionDone:
		return c.Missions[p.missionID].Status == model.MissionDone
	case requireMinLevel:
		return c.Level >= p.minLevel
	}
	return false
}

var (
	catalogOnce sync.Once
	catalog     []Definition
	catalogByID map[string]Definition
)

func buildCatalog() {
	catalog = []Definition{
		{
			ID:          ScoutEnemies,
			Title:       "Scout the Enemy Lines",
			Description: "Survey the area and report what stirs beyond the walls.",
			Condition:   "Sound the horn when the scouting run is complete.",
			Reward:      "The trainers will take you seriously.",
			Target:      1,
		},
		{
			ID:          LegendaryTrial,
			Title:       "The Legendary Trial",
			Description: "Prove yourself in a training game at its hardest setting.",
			Condition:   "Win any training game on legendary difficulty.",
			Reward:      "A place among the veterans.",
			Target:      1,
			Requires:    []Precondition{MissionCompleted(ScoutEnemies)},
		},
		{
			ID:          PurgeBeggars,
			Title:       "Purge the Beggars",
			Description: "The beggar gangs grow bolder. Thin their ranks.",
			Condition:   "Defeat five opponents bearing the Beggar title.",
			Reward:      "The merchants remember their friends.",
			Target:      5,
			Requires:    []Precondition{MissionCompleted(LegendaryTrial)},
		},
		{
			ID:          FindDragon,
			Title:       "Find the Dragon",
			Description: "Rumors speak of a dragon nesting in the radio hills.",
			Condition:   "Sight the dragon.",
			Target:      1,
			Requires:    []Precondition{MissionCompleted(PurgeBeggars)},
		},
		{
			ID:          HuntPaladins,
			Title:       "Hunt the Paladins",
			Description: "The paladin order guards a sapphire potion. Take it.",
			Condition:   "Recover the sapphire potion.",
			Reward:      "The potion, obviously.",
			Target:      1,
			Requires:    []Precondition{MissionCompleted(FindDragon)},
		},
		{
			ID:          SlayDragon,
			Title:       "Slay the Dragon",
			Description: "You know where it sleeps. Finish it.",
			Condition:   "Slay the dragon.",
			Reward:      "Songs, probably.",
			Target:      1,
			Requires:    []Precondition{MissionCompleted(HuntPaladins)},
		},
	}
	catalogByID = make(map[string]Definition, len(catalog))
	for _, def := range catalog {
		catalogByID[def.ID] = def
	}
}

// Catalog returns the ordered mission definition list. The slice is shared
// and must not be mutated.
func Catalog() []Definition {
	catalogOnce.Do(buildCatalog)
	return catalog
}

// Lookup returns the definition for a mission id.
func Lookup(id string) (Definition, bool) {
	catalogOnce.Do(buildCatalog)
	def, ok := catalogByID[id]
	return def, ok
}
