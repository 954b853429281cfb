package combat

import (
	"strings"

	"github.com/KirkDiggler/arena/internal/errors"
)

// Archetype selects the combat rules a Combatant follows
type Archetype string

// Archetypes
const (
	ArchetypeWarrior Archetype = "warrior"
	ArchetypeMage    Archetype = "mage"
	ArchetypeArcher  Archetype = "archer"
	ArchetypeRanger  Archetype = "ranger"
)

// Archetypes lists every archetype in menu order
func Archetypes() []Archetype {
	return []Archetype{ArchetypeWarrior, ArchetypeMage, ArchetypeArcher, ArchetypeRanger}
}

// String returns the string representation of the archetype
func (a Archetype) String() string {
	return string(a)
}

// ParseArchetype converts a case-insensitive name into an Archetype
func ParseArchetype(s string) (Archetype, error) {
	a := Archetype(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Archetypes() {
		if a == known {
			return a, nil
		}
	}
	return "", errors.InvalidArgumentf("unknown archetype %q", s)
}
