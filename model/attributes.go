package model

// AttributeType names one of the four character attributes.
type AttributeType string

const (
	AttributePower     AttributeType = "power"
	AttributeAgility   AttributeType = "agility"
	AttributeEndurance AttributeType = "endurance"
	AttributeFocus     AttributeType = "focus"
)

// Attributes is a character's four base attributes. All fields are >= 0.
type Attributes struct {
	Power     int `gorm:"default:0" json:"power"`
	Agility   int `gorm:"default:0" json:"agility"`
	Endurance int `gorm:"default:0" json:"endurance"`
	Focus     int `gorm:"default:0" json:"focus"`
}

// CombatRating derives a scalar strength score from the attribute set.
func (a Attributes) CombatRating() int {
	return 2*a.Power + 2*a.Agility + a.Endurance + a.Focus/2
}

// Get returns the value of the named attribute.
func (a Attributes) Get(t AttributeType) int {
	switch t {
	case AttributePower:
		return a.Power
	case AttributeAgility:
		return a.Agility
	case AttributeEndurance:
		return a.Endurance
	case AttributeFocus:
		return a.Focus
	}
	return 0
}

// Increase returns a copy with the named attribute raised by amount.
// Negative amounts are clamped to 0 so attributes never regress.
func (a Attributes) Increase(t AttributeType, amount int) Attributes {
	if amount < 0 {
		amount = 0
	}
	switch t {
	case AttributePower:
		a.Power += amount
	case AttributeAgility:
		a.Agility += amount
	case AttributeEndurance:
		a.Endurance += amount
	case AttributeFocus:
		a.Focus += amount
	}
	return a
}

// Merge returns the field-wise maximum of both attribute sets.
// Used when the same device is re-observed, so inferred stats never regress.
func (a Attributes) Merge(other Attributes) Attributes {
	return Attributes{
		Power:     max(a.Power, other.Power),
		Agility:   max(a.Agility, other.Agility),
		Endurance: max(a.Endurance, other.Endurance),
		Focus:     max(a.Focus, other.Focus),
	}
}

// SkillLedger tracks unspent points earned from specific activities and
// earmarked per attribute, separate from the general skill point pool.
type SkillLedger struct {
	Power     int `gorm:"default:0" json:"power"`
	Agility   int `gorm:"default:0" json:"agility"`
	Endurance int `gorm:"default:0" json:"endurance"`
	Focus     int `gorm:"default:0" json:"focus"`
}

// Points returns the unspent ledger balance for the named attribute.
func (l SkillLedger) Points(t AttributeType) int {
	switch t {
	case AttributePower:
		return l.Power
	case AttributeAgility:
		return l.Agility
	case AttributeEndurance:
		return l.Endurance
	case AttributeFocus:
		return l.Focus
	}
	return 0
}

// Add returns a copy with amount added to the named attribute's balance.
// Non-positive amounts are ignored.
func (l SkillLedger) Add(t AttributeType, amount int) SkillLedger {
	if amount <= 0 {
		return l
	}
	switch t {
	case AttributePower:
		l.Power += amount
	case AttributeAgility:
		l.Agility += amount
	case AttributeEndurance:
		l.Endurance += amount
	case AttributeFocus:
		l.Focus += amount
	}
	return l
}

// Spend returns a copy with amount removed from the named attribute's
// balance, clamped at zero.
func (l SkillLedger) Spend(t AttributeType, amount int) SkillLedger {
	if amount <= 0 {
		return l
	}
	switch t {
	case AttributePower:
		l.Power = max(0, l.Power-amount)
	case AttributeAgility:
		l.Agility = max(0, l.Agility-amount)
	case AttributeEndurance:
		l.Endurance = max(0, l.Endurance-amount)
	case AttributeFocus:
		l.Focus = max(0, l.Focus-amount)
	}
	return l
}
