package combat

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/dice"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KirkDiggler/arena/internal/errors"
	"github.com/KirkDiggler/arena/internal/pkg/clock"
)

const (
	// MaxNameLength is the longest name a combatant may have
	MaxNameLength = 9

	// DisplayWidth is the width names are padded to for display
	DisplayWidth = MaxNameLength
)

var upper = cases.Upper(language.Und)

// NormalizeName returns the form names are compared and displayed in
func NormalizeName(name string) string {
	return upper.String(strings.TrimSpace(name))
}

// PadName pads a name with trailing spaces to DisplayWidth
func PadName(name string) string {
	if n := utf8.RuneCountInString(name); n < DisplayWidth {
		return name + strings.Repeat(" ", DisplayWidth-n)
	}
	return name
}

// Config describes a combatant to create. Fields that do not apply to the
// archetype are ignored.
type Config struct {
	ID        int
	Name      string
	Archetype Archetype
	Health    int
	Attack    int

	// Warrior
	Defense int

	// Archer
	Multiplier int
	Roller     dice.Roller

	// Ranger
	CompanionHealth int

	// Clock stamps actions; defaults to the system clock
	Clock clock.Clock
}

// Validate checks the config for the selected archetype
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", c.Name, vb)
	errors.ValidateMaxLength("name", NormalizeName(c.Name), MaxNameLength, vb)
	errors.ValidateMin("id", c.ID, 1, vb)
	errors.ValidateMin("health", c.Health, 1, vb)
	errors.ValidateMin("attack", c.Attack, 0, vb)

	switch c.Archetype {
	case ArchetypeWarrior:
		errors.ValidateMin("defense", c.Defense, 0, vb)
	case ArchetypeArcher:
		errors.ValidateMin("multiplier", c.Multiplier, 1, vb)
	case ArchetypeRanger:
		errors.ValidateMin("companion_health", c.CompanionHealth, 0, vb)
	case ArchetypeMage:
	case "":
		vb.RequiredField("archetype")
	default:
		vb.Fieldf("archetype", "unknown archetype %q", c.Archetype)
	}

	return vb.Build()
}

// Combatant is a participant in an encounter
type Combatant struct {
	id        int
	name      string
	health    int
	maxHealth int
	attack    int
	behavior  behavior
	clock     clock.Clock

	history []Action
	// lastActionID is the id of the most recent action; the next one is +1
	lastActionID int
}

// Combatants are toolkit entities keyed by their numeric id
var _ core.Entity = (*Combatant)(nil)

// New creates a combatant at full health
func New(cfg *Config) (*Combatant, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Combatant{
		id:        cfg.ID,
		name:      NormalizeName(cfg.Name),
		health:    cfg.Health,
		maxHealth: cfg.Health,
		attack:    cfg.Attack,
		clock:     cfg.Clock,
	}
	if c.clock == nil {
		c.clock = clock.New()
	}

	switch cfg.Archetype {
	case ArchetypeWarrior:
		c.behavior = &warrior{defense: cfg.Defense}
	case ArchetypeMage:
		c.behavior = &mage{}
	case ArchetypeArcher:
		roller := cfg.Roller
		if roller == nil {
			roller = dice.DefaultRoller
		}
		c.behavior = &archer{multiplier: cfg.Multiplier, roller: roller}
	case ArchetypeRanger:
		c.behavior = &ranger{companion: Companion{Health: cfg.CompanionHealth, MaxHealth: cfg.CompanionHealth}}
	}

	return c, nil
}

// ID returns the combatant id
func (c *Combatant) ID() int { return c.id }

// Name returns the normalised name
func (c *Combatant) Name() string { return c.name }

// DisplayName returns the name padded for display
func (c *Combatant) DisplayName() string { return PadName(c.name) }

// Health returns the current health
func (c *Combatant) Health() int { return c.health }

// MaxHealth returns the health the combatant started with
func (c *Combatant) MaxHealth() int { return c.maxHealth }

// AttackPower returns the base damage before archetype modifiers
func (c *Combatant) AttackPower() int { return c.attack }

// Archetype returns the combat rules the combatant follows
func (c *Combatant) Archetype() Archetype { return c.behavior.archetype() }

// GetID implements core.Entity
func (c *Combatant) GetID() string { return fmt.Sprintf("%d", c.id) }

// GetType implements core.Entity
func (c *Combatant) GetType() string { return c.Archetype().String() }

// IsAlive reports whether the combatant has health left
func (c *Combatant) IsAlive() bool {
	return c.health > 0
}

// History returns a copy of the actions the combatant authored
func (c *Combatant) History() []Action {
	out := make([]Action, len(c.history))
	copy(out, c.history)
	return out
}

// HistoryLen returns the number of actions in the history
func (c *Combatant) HistoryLen() int {
	return len(c.history)
}

// ActionsSince returns the actions appended after the first n
func (c *Combatant) ActionsSince(n int) []Action {
	if n < 0 {
		n = 0
	}
	if n >= len(c.history) {
		return nil
	}
	out := make([]Action, len(c.history)-n)
	copy(out, c.history[n:])
	return out
}

// SeedActionSequence makes the next action id start+1. Encounters seed each
// member so local ids are distinct across the roster.
func (c *Combatant) SeedActionSequence(start int) {
	c.lastActionID = start
}

// ReceiveDamage applies amount after the combatant's mitigation and returns
// the damage it accepted. Health is clamped at zero.
func (c *Combatant) ReceiveDamage(amount int) (int, error) {
	dealt, err := c.behavior.mitigate(c, nonNegative(amount))
	if err != nil {
		return 0, err
	}
	c.ReceiveUnmitigatedDamage(dealt)
	return dealt, nil
}

// ReceiveUnmitigatedDamage applies amount bypassing any mitigation
func (c *Combatant) ReceiveUnmitigatedDamage(amount int) {
	c.health -= nonNegative(amount)
	if c.health < 0 {
		c.health = 0
	}
}

// Attack resolves an attack on target and returns the primary action. The
// checks run in a fixed order so overlapping failures report the same way:
// dead target, dead attacker, then self-targeting.
func (c *Combatant) Attack(target *Combatant) (Action, error) {
	if target == nil {
		return Action{}, errors.InvalidArgument("target is required")
	}
	if !target.IsAlive() {
		return Action{}, newInvalidAttackError(FailureTargetDead, fmt.Sprintf("%s is already dead", target.name))
	}
	if !c.IsAlive() {
		return Action{}, newInvalidAttackError(FailureAttackerDead, fmt.Sprintf("%s is dead and cannot attack", c.name))
	}
	if target == c || target.id == c.id {
		return Action{}, newInvalidAttackError(FailureSelfTarget, fmt.Sprintf("%s cannot attack itself", c.name))
	}

	base := c.behavior.baseDamage(c)
	result, err := c.behavior.strike(c, target, base)
	if err != nil {
		return Action{}, err
	}

	primary := c.record(ActionHit, target, result.amount, result.description, result.critical)
	c.behavior.aftermath(c)

	return primary, nil
}

func (c *Combatant) record(kind ActionKind, target *Combatant, amount int, description string, critical bool) Action {
	c.lastActionID++
	action := Action{
		ID:          c.lastActionID,
		Kind:        kind,
		ActorID:     c.id,
		ActorName:   c.name,
		TargetID:    target.id,
		TargetName:  target.name,
		Amount:      amount,
		Description: description,
		Critical:    critical,
		CreatedAt:   c.clock.Now(),
	}
	c.history = append(c.history, action)
	return action
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
