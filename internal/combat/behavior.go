package combat

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/arena/internal/errors"
)

const (
	// MageSpellCost is the health a mage pays for every spell
	MageSpellCost = 10

	// fury applies when health <= floor(max * furyThresholdPercent / 100)
	furyThresholdPercent = 30
	// fury multiplies damage by furyBonusPercent / 100, floored
	furyBonusPercent = 130
)

// strikeResult is what a behavior did to its target
type strikeResult struct {
	amount      int
	description string
	critical    bool
}

// behavior is the archetype-specific part of a combatant
type behavior interface {
	archetype() Archetype

	// baseDamage is the damage before it reaches the target
	baseDamage(self *Combatant) int

	// strike delivers base damage to target
	strike(self, target *Combatant, base int) (strikeResult, error)

	// mitigate reduces incoming damage, or refuses it with an error
	mitigate(self *Combatant, amount int) (int, error)

	// aftermath runs after the primary action has been recorded
	aftermath(self *Combatant)
}

// standard provides the rules shared by archetypes without a modifier
type standard struct{}

func (standard) baseDamage(self *Combatant) int { return self.attack }

func (standard) mitigate(_ *Combatant, amount int) (int, error) { return amount, nil }

func (standard) aftermath(*Combatant) {}

func (standard) strike(self, target *Combatant, base int) (strikeResult, error) {
	dealt, err := target.ReceiveDamage(base)
	if err != nil {
		return strikeResult{}, err
	}
	return strikeResult{
		amount:      dealt,
		description: hitDescription(self, target, dealt),
	}, nil
}

func hitDescription(self, target *Combatant, dealt int) string {
	return fmt.Sprintf("%s attacks %s for %d damage.", self.name, target.name, dealt)
}

type warrior struct {
	standard
	defense int
}

func (w *warrior) archetype() Archetype { return ArchetypeWarrior }

func (w *warrior) furious(self *Combatant) bool {
	return self.health <= self.maxHealth*furyThresholdPercent/100
}

func (w *warrior) baseDamage(self *Combatant) int {
	if w.furious(self) {
		return self.attack * furyBonusPercent / 100
	}
	return self.attack
}

func (w *warrior) strike(self, target *Combatant, base int) (strikeResult, error) {
	furious := w.furious(self)
	dealt, err := target.ReceiveDamage(base)
	if err != nil {
		return strikeResult{}, err
	}

	description := hitDescription(self, target, dealt)
	if furious {
		description = fmt.Sprintf("%s, badly wounded, unleashes a furious attack on %s for %d damage!",
			self.name, target.name, dealt)
	}
	return strikeResult{amount: dealt, description: description}, nil
}

func (w *warrior) mitigate(self *Combatant, amount int) (int, error) {
	if amount < w.defense {
		return 0, newInvalidAttackError(FailureBlocked,
			fmt.Sprintf("%s blocked the attack: %d damage is below its defense of %d", self.name, amount, w.defense))
	}
	return amount - w.defense, nil
}

type mage struct {
	standard
}

func (m *mage) archetype() Archetype { return ArchetypeMage }

func (m *mage) strike(self, target *Combatant, base int) (strikeResult, error) {
	dealt := base
	var description string
	switch target.Archetype() {
	case ArchetypeArcher:
		dealt = base * 2
		description = fmt.Sprintf("%s casts a spell on %s for %d damage, doubled against archers.",
			self.name, target.name, dealt)
	case ArchetypeWarrior:
		description = fmt.Sprintf("%s casts a spell on %s for %d damage, ignoring its defense.",
			self.name, target.name, dealt)
	default:
		description = fmt.Sprintf("%s casts a spell on %s for %d damage.", self.name, target.name, dealt)
	}

	target.ReceiveUnmitigatedDamage(dealt)
	return strikeResult{amount: dealt, description: description}, nil
}

// aftermath charges the spell cost whatever the spell did
func (m *mage) aftermath(self *Combatant) {
	self.ReceiveUnmitigatedDamage(MageSpellCost)
	self.record(ActionSelfCost, self, MageSpellCost,
		fmt.Sprintf("%s spent %d health casting the spell.", self.name, MageSpellCost), false)
}

type archer struct {
	standard
	multiplier int
	roller     dice.Roller

	lastCritical bool
}

func (a *archer) archetype() Archetype { return ArchetypeArcher }

func (a *archer) strike(self, target *Combatant, base int) (strikeResult, error) {
	roll, err := a.roller.Roll(2)
	if err != nil {
		return strikeResult{}, errors.Wrap(err, "failed to roll for multishot")
	}
	a.lastCritical = roll == 2

	amount := base
	if a.lastCritical {
		amount = base * a.multiplier
	}

	dealt, err := target.ReceiveDamage(amount)
	if err != nil {
		return strikeResult{}, err
	}

	description := fmt.Sprintf("%s shoots %s for %d damage.", self.name, target.name, dealt)
	if a.lastCritical {
		description = fmt.Sprintf("%s fires a multishot (x%d) at %s for %d damage!",
			self.name, a.multiplier, target.name, dealt)
	}
	return strikeResult{amount: dealt, description: description, critical: a.lastCritical}, nil
}

// Companion is a ranger's animal companion
type Companion struct {
	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`
}

type ranger struct {
	standard
	companion Companion
}

func (r *ranger) archetype() Archetype { return ArchetypeRanger }
