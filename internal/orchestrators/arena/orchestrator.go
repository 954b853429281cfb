// Package arena implements the arena orchestrator that owns the current
// battle and records every battle fought
package arena

//go:generate mockgen -destination=mock/mock_service.go -package=arenamock github.com/KirkDiggler/arena/internal/orchestrators/arena Service

import (
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/arena/internal/battle"
	"github.com/KirkDiggler/arena/internal/combat"
	"github.com/KirkDiggler/arena/internal/errors"
	"github.com/KirkDiggler/arena/internal/pkg/clock"
	"github.com/KirkDiggler/arena/internal/pkg/idgen"
	"github.com/KirkDiggler/arena/internal/pkg/logger"
	"github.com/KirkDiggler/arena/internal/repositories/battles"
)

// KindNoActiveBattle is reported when an operation needs a current battle
const KindNoActiveBattle combat.ErrorKind = "no_active_battle"

// maxIDAttempts bounds the retries when a generated combatant id is taken
const maxIDAttempts = 16

// Service defines the interface for arena operations
type Service interface {
	// NewBattle creates a battle and makes it current
	NewBattle(ctx context.Context, input *NewBattleInput) (*NewBattleOutput, error)

	// AddCombatant creates a combatant and adds it to the current battle
	AddCombatant(ctx context.Context, input *AddCombatantInput) (*AddCombatantOutput, error)

	// StartBattle starts the current battle
	StartBattle(ctx context.Context, input *StartBattleInput) (*StartBattleOutput, error)

	// Attack resolves an attack in the current battle
	Attack(ctx context.Context, input *AttackInput) (*AttackOutput, error)

	// GetTurn returns the combatant due to act
	GetTurn(ctx context.Context, input *GetTurnInput) (*GetTurnOutput, error)

	// ListOpponents returns who a combatant can attack
	ListOpponents(ctx context.Context, input *ListOpponentsInput) (*ListOpponentsOutput, error)

	// CheckWinner returns the sole survivor, if any
	CheckWinner(ctx context.Context, input *CheckWinnerInput) (*CheckWinnerOutput, error)

	// GetRoster returns the combatants of the current battle
	GetRoster(ctx context.Context, input *GetRosterInput) (*GetRosterOutput, error)

	// GetActions returns the current battle's action log
	GetActions(ctx context.Context, input *GetActionsInput) (*GetActionsOutput, error)

	// GetCombatantActions returns a combatant's history by name
	GetCombatantActions(ctx context.Context, input *GetCombatantActionsInput) (*GetCombatantActionsOutput, error)

	// ListBattles returns the recorded battles, newest first
	ListBattles(ctx context.Context, input *ListBattlesInput) (*ListBattlesOutput, error)
}

// Config holds the dependencies for the arena orchestrator
type Config struct {
	Repository   battles.Repository
	BattleIDs    idgen.Generator
	CombatantIDs idgen.NumberGenerator

	// Clock defaults to the system clock
	Clock clock.Clock
	// Roller is handed to archers; nil uses the toolkit default
	Roller dice.Roller
	// Logger defaults to a discarding logger
	Logger logrus.FieldLogger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.BattleIDs == nil {
		vb.RequiredField("BattleIDs")
	}
	if c.CombatantIDs == nil {
		vb.RequiredField("CombatantIDs")
	}

	return vb.Build()
}

// currentBattle is the battle the shell is playing
type currentBattle struct {
	id        string
	encounter *battle.Encounter
	createdAt time.Time
}

type orchestrator struct {
	repo         battles.Repository
	battleIDs    idgen.Generator
	combatantIDs idgen.NumberGenerator
	clock        clock.Clock
	roller       dice.Roller
	log          logrus.FieldLogger

	mu      sync.Mutex
	current *currentBattle
}

// NewOrchestrator creates a new arena orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		repo:         cfg.Repository,
		battleIDs:    cfg.BattleIDs,
		combatantIDs: cfg.CombatantIDs,
		clock:        cfg.Clock,
		roller:       cfg.Roller,
		log:          cfg.Logger,
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.log == nil {
		o.log = logger.Discard()
	}

	return o, nil
}

func newNoActiveBattleError() error {
	return errors.FailedPrecondition("no active battle").WithMeta(combat.MetaKind, string(KindNoActiveBattle))
}

// active returns the current battle. Callers hold o.mu.
func (o *orchestrator) active() (*currentBattle, error) {
	if o.current == nil {
		return nil, newNoActiveBattleError()
	}
	return o.current, nil
}

// NewBattle creates a battle and makes it current. A current battle that has
// not concluded is recorded as abandoned.
func (o *orchestrator) NewBattle(ctx context.Context, input *NewBattleInput) (*NewBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	out := &NewBattleOutput{}
	if previous := o.current; previous != nil && previous.encounter.State() != battle.StateConcluded {
		o.save(ctx, previous, battles.StatusAbandoned)
		out.AbandonedID = previous.id
		o.log.WithField("battle_id", previous.id).Info("Battle abandoned")
	}

	o.current = &currentBattle{
		id:        o.battleIDs.Generate(),
		encounter: battle.New(),
		createdAt: o.clock.Now(),
	}
	o.save(ctx, o.current, "")
	out.BattleID = o.current.id

	o.log.WithField("battle_id", o.current.id).Info("Battle created")

	return out, nil
}

// AddCombatant creates a combatant with a fresh id and adds it to the
// current battle
func (o *orchestrator) AddCombatant(ctx context.Context, input *AddCombatantInput) (*AddCombatantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	cb, err := o.active()
	if err != nil {
		return nil, err
	}
	if cb.encounter.IsStarted() {
		return nil, combat.NewBattleAlreadyStartedError()
	}

	id, err := o.nextCombatantID(cb.encounter)
	if err != nil {
		return nil, err
	}

	c, err := combat.New(&combat.Config{
		ID:              id,
		Name:            input.Name,
		Archetype:       input.Archetype,
		Health:          input.Health,
		Attack:          input.Attack,
		Defense:         input.Defense,
		Multiplier:      input.Multiplier,
		CompanionHealth: input.CompanionHealth,
		Roller:          o.roller,
		Clock:           o.clock,
	})
	if err != nil {
		return nil, err
	}

	if err := cb.encounter.AddCombatant(c); err != nil {
		return nil, err
	}
	o.save(ctx, cb, "")

	o.log.WithFields(logrus.Fields{
		"battle_id":    cb.id,
		"combatant_id": c.ID(),
		"name":         c.Name(),
		"archetype":    c.Archetype(),
	}).Debug("Combatant added")

	return &AddCombatantOutput{Combatant: c.Stats()}, nil
}

// nextCombatantID draws ids until one is free in the encounter
func (o *orchestrator) nextCombatantID(enc *battle.Encounter) (int, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := o.combatantIDs.Next()
		if id < 1 {
			continue
		}
		if _, err := enc.FindByID(id); err != nil {
			return id, nil
		}
	}
	return 0, errors.Internalf("could not find a free combatant id after %d attempts", maxIDAttempts)
}

// StartBattle starts the current battle
func (o *orchestrator) StartBattle(ctx context.Context, input *StartBattleInput) (*StartBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	cb, err := o.active()
	if err != nil {
		return nil, err
	}

	if err := cb.encounter.Start(); err != nil {
		return nil, err
	}
	o.save(ctx, cb, "")

	current, err := cb.encounter.WhoseTurn()
	if err != nil {
		return nil, err
	}

	entities := cb.encounter.Entities()
	order := make([]string, len(entities))
	for i, e := range entities {
		order[i] = battle.EntityKey(e)
	}
	o.log.WithFields(logrus.Fields{
		"battle_id":  cb.id,
		"combatants": len(order),
		"turn_order": order,
	}).Info("Battle started")

	return &StartBattleOutput{Current: current.Stats()}, nil
}

// Attack resolves an attack in the current battle. When the attack ends the
// battle the record is concluded and the battle is no longer current.
func (o *orchestrator) Attack(ctx context.Context, input *AttackInput) (*AttackOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	cb, err := o.active()
	if err != nil {
		return nil, err
	}

	log := o.log.WithFields(logrus.Fields{
		"battle_id":   cb.id,
		"attacker_id": input.AttackerID,
		"defender_id": input.DefenderID,
	})
	if attacker, err := cb.encounter.FindByID(input.AttackerID); err == nil {
		log = log.WithFields(entityFields("attacker", attacker))
	}
	if defender, err := cb.encounter.FindByID(input.DefenderID); err == nil {
		log = log.WithFields(entityFields("defender", defender))
	}

	wasStarted := cb.encounter.IsStarted()
	actions, err := cb.encounter.ResolveAttack(input.AttackerID, input.DefenderID)
	if err != nil {
		if combat.IsKind(err, combat.KindNoSurvivors) {
			o.conclude(ctx, cb)
			log.Info("Battle concluded with no survivors")
			return nil, err
		}
		if !wasStarted && cb.encounter.IsStarted() {
			o.save(ctx, cb, "")
		}
		log.WithField("kind", combat.KindOf(err)).Debug("Attack refused")
		return nil, err
	}

	log.WithField("actions", len(actions)).Info("Attack resolved")

	out := &AttackOutput{Actions: actions}

	winner, err := cb.encounter.CheckWinner()
	if err != nil {
		return nil, err
	}
	if winner != nil {
		stats := winner.Stats()
		out.Winner = &stats
		o.conclude(ctx, cb)
		log.WithField("winner", winner.Name()).Info("Battle concluded")
		return out, nil
	}

	next, err := cb.encounter.WhoseTurn()
	if err != nil {
		return nil, err
	}
	stats := next.Stats()
	out.Next = &stats
	o.save(ctx, cb, "")

	return out, nil
}

// entityFields names a participant by its toolkit entity type
func entityFields(role string, ref core.Entity) logrus.Fields {
	return logrus.Fields{
		role + "_type":   ref.GetType(),
		role + "_entity": battle.EntityKey(ref),
	}
}

// conclude records the final state and releases the battle. Callers hold o.mu.
func (o *orchestrator) conclude(ctx context.Context, cb *currentBattle) {
	o.save(ctx, cb, battles.StatusConcluded)
	if o.current == cb {
		o.current = nil
	}
}

// GetTurn returns the combatant due to act
func (o *orchestrator) GetTurn(_ context.Context, input *GetTurnInput) (*GetTurnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	cb, err := o.active()
	if err != nil {
		return nil, err
	}

	current, err := cb.encounter.WhoseTurn()
	if err != nil {
		return nil, err
	}

	return &GetTurnOutput{
		Combatant: current.Stats(),
		Started:   cb.encounter.IsStarted(),
	}, nil
}

// ListOpponents returns the living combatants a combatant can attack
func (o *orchestrator) ListOpponents(_ context.Context, input *ListOpponentsInput) (*ListOpponentsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	cb, err := o.active()
	if err != nil {
		return nil, err
	}

	opponents, err := cb.encounter.LivingOpponentsOf(input.CombatantID)
	if err != nil {
		return nil, err
	}

	return &ListOpponentsOutput{Opponents: opponents}, nil
}

// CheckWinner returns the sole survivor of the current battle
func (o *orchestrator) CheckWinner(_ context.Context, input *CheckWinnerInput) (*CheckWinnerOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	cb, err := o.active()
	if err != nil {
		return nil, err
	}

	winner, err := cb.encounter.CheckWinner()
	if err != nil {
		return nil, err
	}

	out := &CheckWinnerOutput{}
	if winner != nil {
		stats := winner.Stats()
		out.Winner = &stats
	}
	return out, nil
}

// GetRoster returns the combatants of the current battle in roster order
func (o *orchestrator) GetRoster(_ context.Context, input *GetRosterInput) (*GetRosterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	cb, err := o.active()
	if err != nil {
		return nil, err
	}

	roster := cb.encounter.Roster()
	out := &GetRosterOutput{
		BattleID:   cb.id,
		State:      cb.encounter.State(),
		Combatants: make([]combat.StatBlock, len(roster)),
	}
	for i, c := range roster {
		out.Combatants[i] = c.Stats()
	}
	return out, nil
}

// GetActions returns every action of the current battle in emission order
func (o *orchestrator) GetActions(_ context.Context, input *GetActionsInput) (*GetActionsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	cb, err := o.active()
	if err != nil {
		return nil, err
	}

	return &GetActionsOutput{Actions: cb.encounter.ActionLog()}, nil
}

// GetCombatantActions returns the history of a combatant of the current
// battle, looked up by name
func (o *orchestrator) GetCombatantActions(_ context.Context, input *GetCombatantActionsInput) (*GetCombatantActionsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", input.Name, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	cb, err := o.active()
	if err != nil {
		return nil, err
	}

	c, err := cb.encounter.FindByName(input.Name)
	if err != nil {
		return nil, err
	}

	return &GetCombatantActionsOutput{
		Combatant: c.Stats(),
		Actions:   c.History(),
	}, nil
}

// ListBattles returns the recorded battles, newest first
func (o *orchestrator) ListBattles(ctx context.Context, input *ListBattlesInput) (*ListBattlesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.repo.List(ctx, &battles.ListInput{Limit: input.Limit})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list battles")
	}

	return &ListBattlesOutput{Battles: out.Records}, nil
}
