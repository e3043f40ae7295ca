package mission

import (
	"fmt"
	"strings"
	"time"

	"github.com/kuraoka/signalquest/model"
)

// Bootstrap ensures the character has a state entry for every known mission.
// Missing entries are created DEACTIVATED; entries with a corrupt target
// (<= 0) are repaired. Idempotent and safe to call on every read.
func Bootstrap(c model.Character) model.Character {
	now := time.Now()
	cloned := false
	for _, def := range Catalog() {
		st, ok := c.Missions[def.ID]
		if ok && st.Target > 0 {
			continue
		}
		if !cloned {
			c = c.Clone()
			if c.Missions == nil {
				c.Missions = make(map[string]model.MissionState, len(Catalog()))
			}
			cloned = true
		}
		if !ok {
			c.Missions[def.ID] = model.MissionState{
				Status:    model.MissionDeactivated,
				Target:    max(1, def.Target),
				UpdatedAt: now,
			}
			continue
		}
		st.Target = max(1, def.Target)
		c.Missions[def.ID] = st
	}
	if cloned {
		c.UpdatedAt = now
	}
	return c
}

// ActivateAvailable performs one activation sweep: every DEACTIVATED mission
// whose entire precondition list holds against the current player state
// becomes ACTIVE. Preconditions are evaluated fresh, so a mission completed
// earlier in the same Process call unlocks its direct dependents here;
// deeper chains need another Process call (cascade depth is one sweep).
func ActivateAvailable(c model.Character) model.Character {
	now := time.Now()
	cloned := false
	for _, def := range Catalog() {
		st, ok := c.Missions[def.ID]
		if !ok || st.Status != model.MissionDeactivated {
			continue
		}
		satisfied := true
		for _, pre := range def.Requires {
			if !pre.Satisfied(c) {
				satisfied = false
				break
			}
		}
		if !satisfied {
			continue
		}
		if !cloned {
			c = c.Clone()
			cloned = true
		}
		st.Status = model.MissionActive
		st.UpdatedAt = now
		c.Missions[def.ID] = st
	}
	if cloned {
		c.UpdatedAt = now
	}
	return c
}

// Process is the canonical entry point: bootstrap, apply the event if one is
// given, then run one activation sweep.
func Process(c model.Character, ev Event) model.Character {
	c = Bootstrap(c)
	if ev != nil {
		c = applyEvent(c, ev)
	}
	return ActivateAvailable(c)
}

// applyEvent dispatches one event. Events addressed at missions that are
// absent, DEACTIVATED or already DONE are silently absorbed (except the
// DragonSighted note backfill, which is deliberate source behavior).
func applyEvent(c model.Character, ev Event) model.Character {
	now := time.Now()
	switch e := ev.(type) {
	case HornSounded:
		return complete(c, ScoutEnemies, "The horn echoed over the walls.", now)
	case LegendaryTrainingWin:
		return complete(c, LegendaryTrial, fmt.Sprintf("Mastered %s on legendary.", e.GameID), now)
	case BattleVictory:
		if !strings.EqualFold(e.Title, "Beggar") {
			return c
		}
		return advance(c, PurgeBeggars, "The streets grow quiet.", now)
	case DragonSighted:
		st, ok := c.Missions[FindDragon]
		if ok && st.Status == model.MissionActive {
			return complete(c, FindDragon, "It is real. It is enormous.", now)
		}
		// Not active (already done, or not yet unlocked): backfill the
		// sighting note without touching status or progress.
		if ok && st.Notes == "" {
			c = c.Clone()
			st.Notes = "It is real. It is enormous."
			st.UpdatedAt = now
			c.Missions[FindDragon] = st
			c.UpdatedAt = now
		}
		return c
	case SapphirePotionFound:
		return complete(c, HuntPaladins, "The potion glows a deep sapphire.", now)
	case DragonSlain:
		return complete(c, SlayDragon, "The hills are silent again.", now)
	}
	return c
}

// complete forces an ACTIVE mission to DONE with full progress.
func complete(c model.Character, id, note string, now time.Time) model.Character {
	st, ok := c.Missions[id]
	if !ok || st.Status != model.MissionActive {
		return c
	}
	c = c.Clone()
	st.Status = model.MissionDone
	st.Progress = st.Target
	st.Notes = note
	st.UpdatedAt = now
	c.Missions[id] = st
	c.UpdatedAt = now
	return c
}

// advance increments an ACTIVE mission's progress by one, capped at target,
// and completes it when the target is reached.
func advance(c model.Character, id, doneNote string, now time.Time) model.Character {
	st, ok := c.Missions[id]
	if !ok || st.Status != model.MissionActive {
		return c
	}
	c = c.Clone()
	st.Progress = min(st.Target, st.Progress+1)
	if st.Progress >= st.Target {
		st.Status = model.MissionDone
		st.Notes = doneNote
	}
	st.UpdatedAt = now
	c.Missions[id] = st
	c.UpdatedAt = now
	return c
}

// Entry pairs a definition with one character's state, for display.
type Entry struct {
	Definition Definition         `json:"definition"`
	State      model.MissionState `json:"state"`
}

// EntriesFor projects the character's mission states in catalog order.
// Definitions the character has no state for are omitted (cannot happen
// after Bootstrap).
func EntriesFor(c model.Character) []Entry {
	entries := make([]Entry, 0, len(Catalog()))
	for _, def := range Catalog() {
		st, ok := c.Missions[def.ID]
		if !ok {
			continue
		}
		entries = append(entries, Entry{Definition: def, State: st})
	}
	return entries
}
