package testutils

import (
	"github.com/KirkDiggler/arena/internal/roster"
)

// Names used by the fixtures
const (
	WarriorName = "conan"
	MageName    = "merlin"
	ArcherName  = "robin"
	RangerName  = "aragorn"
)

// ScenarioRoster is the reference fight: Warrior(100/20/def 21), Mage(80/20)
// and Archer(100/10/x3), in that order
func ScenarioRoster() *roster.Roster {
	return &roster.Roster{
		Combatants: []roster.Entry{
			{Name: WarriorName, Archetype: "warrior", Health: 100, Attack: 20, Defense: 21},
			{Name: MageName, Archetype: "mage", Health: 80, Attack: 20},
			{Name: ArcherName, Archetype: "archer", Health: 100, Attack: 10, Multiplier: 3},
		},
	}
}

// FullRoster adds a ranger to the scenario roster so every archetype is present
func FullRoster() *roster.Roster {
	r := ScenarioRoster()
	r.Combatants = append(r.Combatants, roster.Entry{
		Name: RangerName, Archetype: "ranger", Health: 90, Attack: 12, CompanionHealth: 40,
	})
	return r
}
