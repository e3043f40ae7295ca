package mission

// Event is the closed set of gameplay occurrences the mission engine reacts
// to. The engine dispatches with an exhaustive type switch, so adding an
// event kind forces a handler update.
type Event interface {
	missionEvent()
}

// HornSounded marks the scouting run complete.
type HornSounded struct{}

// LegendaryTrainingWin is a training game won on legendary difficulty.
type LegendaryTrainingWin struct {
	GameID string
}

// BattleVictory is a won battle against the named opponent.
type BattleVictory struct {
	Archetype string
	Title     string
}

// DragonSighted fires when the dragon encounter appears in a scan.
type DragonSighted struct{}

// SapphirePotionFound fires when the paladin hunt pays off.
type SapphirePotionFound struct{}

// DragonSlain is a won battle against the dragon.
type DragonSlain struct{}

func (HornSounded) missionEvent()          {}
func (LegendaryTrainingWin) missionEvent() {}
func (BattleVictory) missionEvent()        {}
func (DragonSighted) missionEvent()        {}
func (SapphirePotionFound) missionEvent()  {}
func (DragonSlain) missionEvent()          {}
