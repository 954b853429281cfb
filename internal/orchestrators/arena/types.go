package arena

import (
	"github.com/KirkDiggler/arena/internal/battle"
	"github.com/KirkDiggler/arena/internal/combat"
	"github.com/KirkDiggler/arena/internal/repositories/battles"
	"github.com/KirkDiggler/arena/internal/roster"
)

// NewBattleInput defines the request for creating a battle
type NewBattleInput struct{}

// NewBattleOutput defines the response for creating a battle
type NewBattleOutput struct {
	BattleID string
	// AbandonedID is the battle that was replaced before it concluded, if any
	AbandonedID string
}

// AddCombatantInput defines the request for adding a combatant to the
// current battle. The orchestrator assigns the id.
type AddCombatantInput struct {
	Name            string
	Archetype       combat.Archetype
	Health          int
	Attack          int
	Defense         int
	Multiplier      int
	CompanionHealth int
}

// AddCombatantOutput defines the response for adding a combatant
type AddCombatantOutput struct {
	Combatant combat.StatBlock
}

// StartBattleInput defines the request for starting the current battle
type StartBattleInput struct{}

// StartBattleOutput defines the response for starting the current battle
type StartBattleOutput struct {
	Current combat.StatBlock
}

// AttackInput defines the request for resolving an attack
type AttackInput struct {
	AttackerID int
	DefenderID int
}

// AttackOutput defines the response for resolving an attack
type AttackOutput struct {
	Actions []combat.Action
	// Winner is set when the attack left a single survivor
	Winner *combat.StatBlock
	// Next is who acts next while the battle goes on
	Next *combat.StatBlock
}

// Concluded reports whether the attack ended the battle
func (o *AttackOutput) Concluded() bool {
	return o.Winner != nil
}

// GetTurnInput defines the request for the current turn
type GetTurnInput struct{}

// GetTurnOutput defines the response for the current turn
type GetTurnOutput struct {
	Combatant combat.StatBlock
	Started   bool
}

// ListOpponentsInput defines the request for listing who a combatant can attack
type ListOpponentsInput struct {
	CombatantID int
}

// ListOpponentsOutput defines the response for listing opponents
type ListOpponentsOutput struct {
	Opponents []battle.Opponent
}

// CheckWinnerInput defines the request for checking the winner
type CheckWinnerInput struct{}

// CheckWinnerOutput defines the response for checking the winner
type CheckWinnerOutput struct {
	// Winner is nil while more than one combatant is alive
	Winner *combat.StatBlock
}

// GetRosterInput defines the request for the current roster
type GetRosterInput struct{}

// GetRosterOutput defines the response for the current roster
type GetRosterOutput struct {
	BattleID   string
	State      battle.State
	Combatants []combat.StatBlock
}

// GetActionsInput defines the request for the current battle's action log
type GetActionsInput struct{}

// GetActionsOutput defines the response for the action log
type GetActionsOutput struct {
	Actions []combat.Action
}

// GetCombatantActionsInput defines the request for one combatant's history
type GetCombatantActionsInput struct {
	Name string
}

// GetCombatantActionsOutput defines the response for one combatant's history
type GetCombatantActionsOutput struct {
	Combatant combat.StatBlock
	Actions   []combat.Action
}

// ListBattlesInput defines the request for listing recorded battles
type ListBattlesInput struct {
	Limit int
}

// ListBattlesOutput defines the response for listing recorded battles
type ListBattlesOutput struct {
	Battles []*battles.Record
}

// NewAddCombatantInput converts a roster entry into an AddCombatantInput
func NewAddCombatantInput(entry roster.Entry) (*AddCombatantInput, error) {
	archetype, err := combat.ParseArchetype(entry.Archetype)
	if err != nil {
		return nil, err
	}
	return &AddCombatantInput{
		Name:            entry.Name,
		Archetype:       archetype,
		Health:          entry.Health,
		Attack:          entry.Attack,
		Defense:         entry.Defense,
		Multiplier:      entry.Multiplier,
		CompanionHealth: entry.CompanionHealth,
	}, nil
}
