// Package progression converts raw experience deltas into level and
// skill-point state, and governs point spending. All operations are pure:
// they take a character snapshot by value and return a new snapshot, so the
// caller decides when (and whether) to persist the result.
package progression

import (
	"time"

	"github.com/kuraoka/signalquest/model"
)

// GainExperience applies an experience delta. Experience floors at zero.
// Each level gained grants SkillPointsPerLevel general skill points; levels
// lost (negative deltas) never revoke points already granted.
func GainExperience(c model.Character, amount int64) model.Character {
	if amount == 0 {
		return c
	}
	newExp := max(int64(0), c.Experience+amount)
	newLevel := LevelForExperience(newExp)
	if newLevel > c.Level {
		c.SkillPoints += SkillPointsPerLevel * (newLevel - c.Level)
	}
	c.Experience = newExp
	c.Level = newLevel
	c.UpdatedAt = time.Now()
	return c
}

// SpendSkillPoints spends amount points on the named attribute. The
// attribute's ledger balance is drained first; any shortfall comes from the
// general pool. If the general pool cannot cover the shortfall the spend
// fails atomically and the unchanged character is returned.
func SpendSkillPoints(c model.Character, attr model.AttributeType, amount int) model.Character {
	if amount <= 0 {
		return c
	}
	fromLedger := min(amount, c.Ledger.Points(attr))
	shortfall := amount - fromLedger
	if shortfall > c.SkillPoints {
		return c
	}
	c.Ledger = c.Ledger.Spend(attr, fromLedger)
	c.SkillPoints -= shortfall
	c.Attributes = c.Attributes.Increase(attr, amount)
	c.UpdatedAt = time.Now()
	return c
}

// AddVariantSkillPoints grants ledger points earmarked for one attribute.
// Non-positive amounts are ignored.
func AddVariantSkillPoints(c model.Character, attr model.AttributeType, amount int) model.Character {
	if amount <= 0 {
		return c
	}
	c.Ledger = c.Ledger.Add(attr, amount)
	c.UpdatedAt = time.Now()
	return c
}

// VariantSkillPoints returns the ledger balance for one attribute.
func VariantSkillPoints(c model.Character, attr model.AttributeType) int {
	return c.Ledger.Points(attr)
}

// Better decides whether a new high score entry beats the old one. Each
// mini-game supplies its own policy (higher score vs lower elapsed time).
type Better func(old, candidate model.HighScore) bool

// HigherScore prefers a larger score.
func HigherScore(old, candidate model.HighScore) bool { return candidate.Score > old.Score }

// LowerElapsed prefers a faster completion.
func LowerElapsed(old, candidate model.HighScore) bool { return candidate.ElapsedMs < old.ElapsedMs }

// UpdateTrainingHighScore stores entry as the best result for the
// (gameID, difficulty) pair if no entry exists yet or better(old, entry)
// holds. Otherwise the character is returned unchanged.
func UpdateTrainingHighScore(c model.Character, gameID, difficulty string, entry model.HighScore, better Better) model.Character {
	if byDiff, ok := c.HighScores[gameID]; ok {
		if old, ok := byDiff[difficulty]; ok && !better(old, entry) {
			return c
		}
	}
	c = c.Clone()
	if c.HighScores == nil {
		c.HighScores = make(map[string]map[string]model.HighScore)
	}
	if c.HighScores[gameID] == nil {
		c.HighScores[gameID] = make(map[string]model.HighScore)
	}
	c.HighScores[gameID][difficulty] = entry
	c.UpdatedAt = time.Now()
	return c
}

// RecordVictory increments the victory counter. Mission and reward side
// effects are the caller's responsibility.
func RecordVictory(c model.Character) model.Character {
	c.Victories++
	c.UpdatedAt = time.Now()
	return c
}

// RecordDefeat increments the defeat counter.
func RecordDefeat(c model.Character) model.Character {
	c.Defeats++
	c.UpdatedAt = time.Now()
	return c
}

// GainStatusPoints adds to the status point currency earned from battle
// victories. Non-positive amounts are ignored.
func GainStatusPoints(c model.Character, amount int) model.Character {
	if amount <= 0 {
		return c
	}
	c.StatusPoints += amount
	c.UpdatedAt = time.Now()
	return c
}
