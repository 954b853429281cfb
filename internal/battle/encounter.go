// Package battle schedules turns and resolves attacks for one encounter
package battle

import (
	"github.com/KirkDiggler/arena/internal/combat"
	"github.com/KirkDiggler/arena/internal/errors"
)

// MinCombatants is the roster size an encounter needs before it can start
const MinCombatants = 2

// actionSeedStride spaces the action sequences of roster members apart
const actionSeedStride = 1000

// State is the lifecycle stage of an encounter
type State string

// Encounter states
const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateConcluded  State = "concluded"
)

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// Opponent identifies a combatant that can be attacked
type Opponent struct {
	ID          int
	Name        string
	DisplayName string
}

// Encounter is one turn-based fight among a fixed roster. It is not safe
// for concurrent use.
type Encounter struct {
	roster    []*combat.Combatant
	log       []combat.Action
	started   bool
	turnIndex int
}

// New creates an empty encounter
func New() *Encounter {
	return &Encounter{turnIndex: -1}
}

// AddCombatant appends c to the roster
func (e *Encounter) AddCombatant(c *combat.Combatant) error {
	if c == nil {
		return errors.InvalidArgument("combatant is required")
	}
	if e.started {
		return combat.NewBattleAlreadyStartedError()
	}

	for _, existing := range e.roster {
		if existing.Name() == c.Name() {
			return combat.NewDuplicateNameError(c.Name())
		}
		if existing.ID() == c.ID() {
			return combat.NewDuplicateIDError(c.ID())
		}
	}

	e.roster = append(e.roster, c)
	c.SeedActionSequence(len(e.roster) * actionSeedStride)
	return nil
}

// Start freezes the roster and gives the first turn to the first living
// combatant
func (e *Encounter) Start() error {
	if e.started {
		return combat.NewBattleAlreadyStartedError()
	}
	return e.start()
}

// start is shared by Start and the implicit start of ResolveAttack
func (e *Encounter) start() error {
	if len(e.roster) < MinCombatants {
		return combat.NewNotEnoughCombatantsError(len(e.roster), MinCombatants)
	}
	e.started = true
	e.turnIndex = e.nextAliveIndex(-1)
	return nil
}

// IsStarted reports whether the first turn has begun
func (e *Encounter) IsStarted() bool {
	return e.started
}

// State returns where the encounter is in its lifecycle
func (e *Encounter) State() State {
	switch {
	case !e.started:
		return StateNotStarted
	case e.livingCount() <= 1:
		return StateConcluded
	default:
		return StateInProgress
	}
}

// WhoseTurn returns the combatant due to act. If the recorded actor has died
// the turn moves forward to the next living combatant.
func (e *Encounter) WhoseTurn() (*combat.Combatant, error) {
	if len(e.roster) == 0 {
		return nil, combat.NewNoSurvivorsError("the roster is empty")
	}

	if e.turnIndex >= 0 && e.turnIndex < len(e.roster) && e.roster[e.turnIndex].IsAlive() {
		return e.roster[e.turnIndex], nil
	}

	next := e.nextAliveIndex(e.turnIndex)
	if next < 0 {
		return nil, combat.NewNoSurvivorsError("no combatant is alive to take a turn")
	}
	e.turnIndex = next
	return e.roster[next], nil
}

// LivingOpponentsOf lists the living combatants other than id, in roster order
func (e *Encounter) LivingOpponentsOf(id int) ([]Opponent, error) {
	if _, err := e.FindByID(id); err != nil {
		return nil, err
	}

	var out []Opponent
	for _, c := range e.roster {
		if c.ID() == id || !c.IsAlive() {
			continue
		}
		out = append(out, Opponent{ID: c.ID(), Name: c.Name(), DisplayName: c.DisplayName()})
	}
	return out, nil
}

// ResolveAttack has attackerID attack defenderID and returns the actions the
// attack produced. The encounter starts on the first attack if it has not
// been started. A failed attack leaves the turn where it was.
func (e *Encounter) ResolveAttack(attackerID, defenderID int) ([]combat.Action, error) {
	if !e.started {
		if err := e.start(); err != nil {
			return nil, err
		}
	}

	attacker, err := e.FindByID(attackerID)
	if err != nil {
		return nil, err
	}
	defender, err := e.FindByID(defenderID)
	if err != nil {
		return nil, err
	}

	current, err := e.WhoseTurn()
	if err != nil {
		return nil, err
	}
	if current.ID() != attacker.ID() {
		return nil, combat.NewNotYourTurnError(attacker.Name(), current.Name())
	}

	before := attacker.HistoryLen()
	if _, err := attacker.Attack(defender); err != nil {
		return nil, err
	}

	produced := attacker.ActionsSince(before)
	e.log = append(e.log, produced...)
	e.advanceTurn()

	if e.livingCount() == 0 {
		return nil, combat.NewNoSurvivorsError("nobody survived the attack")
	}
	return produced, nil
}

// CheckWinner returns the sole survivor, or nil while more than one
// combatant is alive
func (e *Encounter) CheckWinner() (*combat.Combatant, error) {
	var survivor *combat.Combatant
	living := 0
	for _, c := range e.roster {
		if c.IsAlive() {
			survivor = c
			living++
		}
	}

	switch living {
	case 0:
		return nil, combat.NewNoSurvivorsError("no combatant is left standing")
	case 1:
		return survivor, nil
	default:
		return nil, nil
	}
}

// FindByName looks a combatant up by name, ignoring case and surrounding space
func (e *Encounter) FindByName(name string) (*combat.Combatant, error) {
	normalized := combat.NormalizeName(name)
	for _, c := range e.roster {
		if c.Name() == normalized {
			return c, nil
		}
	}
	return nil, combat.NewCharacterNotFoundError(normalized)
}

// FindByID looks a combatant up by id
func (e *Encounter) FindByID(id int) (*combat.Combatant, error) {
	for _, c := range e.roster {
		if c.ID() == id {
			return c, nil
		}
	}
	return nil, combat.NewCharacterNotFoundError(id)
}

// Roster returns the combatants in insertion order
func (e *Encounter) Roster() []*combat.Combatant {
	out := make([]*combat.Combatant, len(e.roster))
	copy(out, e.roster)
	return out
}

// ActionLog returns every action produced so far, in emission order
func (e *Encounter) ActionLog() []combat.Action {
	out := make([]combat.Action, len(e.log))
	copy(out, e.log)
	return out
}

// Living returns the combatants still alive, in roster order
func (e *Encounter) Living() []*combat.Combatant {
	var out []*combat.Combatant
	for _, c := range e.roster {
		if c.IsAlive() {
			out = append(out, c)
		}
	}
	return out
}

func (e *Encounter) livingCount() int {
	n := 0
	for _, c := range e.roster {
		if c.IsAlive() {
			n++
		}
	}
	return n
}

// advanceTurn moves the turn to the next living combatant. With nobody
// alive the index falls back to the head of the roster.
func (e *Encounter) advanceTurn() {
	next := e.nextAliveIndex(e.turnIndex)
	if next < 0 {
		e.turnIndex = 0
		return
	}
	e.turnIndex = next
}

// nextAliveIndex scans circularly after from and returns the first living
// index, or -1. from itself is only reached after every other slot.
func (e *Encounter) nextAliveIndex(from int) int {
	n := len(e.roster)
	for offset := 1; offset <= n; offset++ {
		idx := ((from+offset)%n + n) % n
		if e.roster[idx].IsAlive() {
			return idx
		}
	}
	return -1
}
