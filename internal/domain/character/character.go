package character

import (
	"time"
)

const (
	// ClassAlchemist is the class slug of a full alchemist
	ClassAlchemist = "alchemist"

	// FeatAlchemistDedication grants alchemist benefits through the archetype
	FeatAlchemistDedication = "alchemist-dedication"

	// FeatPowerfulAlchemy raises the DC of infused items to the class DC
	FeatPowerfulAlchemy = "powerful-alchemy"

	// DefaultPreviousLevel is assumed when no level change has been recorded yet
	DefaultPreviousLevel = 1
)

// Character is the actor record the formula bookkeeping reads and updates.
// Formulas holds the ids of known recipes in the order they were learned.
type Character struct {
	ID        string
	Name      string
	ClassSlug string
	Feats     []string
	Level     int

	// PreviousLevel is the level recorded after the last processed level change.
	// Zero means nothing has been recorded.
	PreviousLevel int

	// ClassDC is the alchemist class DC, zero when unknown
	ClassDC int

	Formulas []string

	// Owners lists user ids with owner permission on the actor
	Owners []string

	// InParty marks actors that belong to the active party
	InParty bool

	UpdatedAt time.Time
}

// Qualification describes whether a character gets alchemist benefits
type Qualification struct {
	Qualifies   bool
	IsArchetype bool

	// DC is the alchemist class DC, zero when the character does not qualify
	DC int
}

// Qualification checks the class slug and the alchemist dedication feat
func (c *Character) Qualification() Qualification {
	if c == nil {
		return Qualification{}
	}

	isClass := c.ClassSlug == ClassAlchemist
	hasDedication := c.HasFeat(FeatAlchemistDedication)

	if !isClass && !hasDedication {
		return Qualification{}
	}

	return Qualification{
		Qualifies:   true,
		IsArchetype: hasDedication && !isClass,
		DC:          c.ClassDC,
	}
}

// IsAlchemist is shorthand for Qualification().Qualifies
func (c *Character) IsAlchemist() bool {
	return c.Qualification().Qualifies
}

// HasFeat reports whether the character has a feat with the given slug
func (c *Character) HasFeat(slug string) bool {
	for _, feat := range c.Feats {
		if feat == slug {
			return true
		}
	}
	return false
}

// IsOwnedBy reports whether userID has owner permission
func (c *Character) IsOwnedBy(userID string) bool {
	for _, owner := range c.Owners {
		if owner == userID {
			return true
		}
	}
	return false
}

// LastLevel returns the recorded previous level, defaulting to 1
func (c *Character) LastLevel() int {
	if c.PreviousLevel <= 0 {
		return DefaultPreviousLevel
	}
	return c.PreviousLevel
}

// Clone returns a deep copy of the character
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Feats = append([]string(nil), c.Feats...)
	clone.Formulas = append([]string(nil), c.Formulas...)
	clone.Owners = append([]string(nil), c.Owners...)
	return &clone
}
