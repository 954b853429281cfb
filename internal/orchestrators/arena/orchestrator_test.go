package arena_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/arena/internal/battle"
	"github.com/KirkDiggler/arena/internal/combat"
	"github.com/KirkDiggler/arena/internal/errors"
	"github.com/KirkDiggler/arena/internal/orchestrators/arena"
	"github.com/KirkDiggler/arena/internal/pkg/clock"
	"github.com/KirkDiggler/arena/internal/pkg/idgen"
	"github.com/KirkDiggler/arena/internal/repositories/battles"
	"github.com/KirkDiggler/arena/internal/roster"
	"github.com/KirkDiggler/arena/internal/testutils"
)

type fixedRoller struct {
	value int
}

func (r fixedRoller) Roll(_ int) (int, error) { return r.value, nil }

func (r fixedRoller) RollN(count, _ int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i] = r.value
	}
	return out, nil
}

type OrchestratorTestSuite struct {
	suite.Suite
	ctx          context.Context
	repo         *battles.InMemoryRepository
	orchestrator arena.Service
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = battles.NewInMemory()

	var err error
	s.orchestrator, err = arena.NewOrchestrator(&arena.Config{
		Repository:   s.repo,
		BattleIDs:    idgen.NewSequential("battle"),
		CombatantIDs: idgen.NewSequentialNumber(),
		Clock:        clock.NewStepping(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), time.Second),
		Roller:       fixedRoller{value: 2},
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) newBattle() string {
	out, err := s.orchestrator.NewBattle(s.ctx, &arena.NewBattleInput{})
	s.Require().NoError(err)
	return out.BattleID
}

func (s *OrchestratorTestSuite) addRoster(r *roster.Roster) []combat.StatBlock {
	var added []combat.StatBlock
	for _, entry := range r.Combatants {
		input, err := arena.NewAddCombatantInput(entry)
		s.Require().NoError(err)
		out, err := s.orchestrator.AddCombatant(s.ctx, input)
		s.Require().NoError(err)
		added = append(added, out.Combatant)
	}
	return added
}

func (s *OrchestratorTestSuite) attack(attackerID, defenderID int) *arena.AttackOutput {
	out, err := s.orchestrator.Attack(s.ctx, &arena.AttackInput{AttackerID: attackerID, DefenderID: defenderID})
	s.Require().NoError(err)
	return out
}

func (s *OrchestratorTestSuite) record(id string) *battles.Record {
	out, err := s.repo.Get(s.ctx, &battles.GetInput{ID: id})
	s.Require().NoError(err)
	return out.Record
}

func (s *OrchestratorTestSuite) TestNewOrchestratorValidation() {
	testCases := []struct {
		name   string
		cfg    *arena.Config
		errMsg string
	}{
		{name: "nil config", cfg: nil, errMsg: "config is required"},
		{name: "missing repository", cfg: &arena.Config{
			BattleIDs: idgen.NewSequential("b"), CombatantIDs: idgen.NewSequentialNumber(),
		}, errMsg: "Repository: is required"},
		{name: "missing battle ids", cfg: &arena.Config{
			Repository: s.repo, CombatantIDs: idgen.NewSequentialNumber(),
		}, errMsg: "BattleIDs: is required"},
		{name: "missing combatant ids", cfg: &arena.Config{
			Repository: s.repo, BattleIDs: idgen.NewSequential("b"),
		}, errMsg: "CombatantIDs: is required"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			svc, err := arena.NewOrchestrator(tc.cfg)
			s.Require().Error(err)
			s.Nil(svc)
			s.True(errors.IsInvalidArgument(err))
			s.Contains(err.Error(), tc.errMsg)
		})
	}
}

func (s *OrchestratorTestSuite) TestNoActiveBattle() {
	calls := map[string]func() error{
		"AddCombatant": func() error {
			_, err := s.orchestrator.AddCombatant(s.ctx, &arena.AddCombatantInput{Name: "a", Archetype: combat.ArchetypeMage, Health: 1})
			return err
		},
		"StartBattle": func() error { _, err := s.orchestrator.StartBattle(s.ctx, &arena.StartBattleInput{}); return err },
		"Attack":      func() error { _, err := s.orchestrator.Attack(s.ctx, &arena.AttackInput{}); return err },
		"GetTurn":     func() error { _, err := s.orchestrator.GetTurn(s.ctx, &arena.GetTurnInput{}); return err },
		"ListOpponents": func() error {
			_, err := s.orchestrator.ListOpponents(s.ctx, &arena.ListOpponentsInput{CombatantID: 1})
			return err
		},
		"CheckWinner": func() error { _, err := s.orchestrator.CheckWinner(s.ctx, &arena.CheckWinnerInput{}); return err },
		"GetRoster":   func() error { _, err := s.orchestrator.GetRoster(s.ctx, &arena.GetRosterInput{}); return err },
		"GetActions":  func() error { _, err := s.orchestrator.GetActions(s.ctx, &arena.GetActionsInput{}); return err },
		"GetCombatantActions": func() error {
			_, err := s.orchestrator.GetCombatantActions(s.ctx, &arena.GetCombatantActionsInput{Name: "a"})
			return err
		},
	}

	for name, call := range calls {
		s.Run(name, func() {
			err := call()
			s.Require().Error(err)
			s.True(combat.IsKind(err, arena.KindNoActiveBattle))
			s.True(errors.IsFailedPrecondition(err))
		})
	}
}

func (s *OrchestratorTestSuite) TestNilInputs() {
	_, err := s.orchestrator.NewBattle(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
	_, err = s.orchestrator.Attack(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
	_, err = s.orchestrator.ListBattles(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestScenario() {
	battleID := s.newBattle()
	s.Equal("battle_1", battleID)

	added := s.addRoster(testutils.ScenarioRoster())
	s.Require().Len(added, 3)
	conan, merlin, robin := added[0].ID, added[1].ID, added[2].ID
	s.Equal([]int{1, 2, 3}, []int{conan, merlin, robin})
	s.Equal(battles.StatusSetup, s.record(battleID).Status)

	started, err := s.orchestrator.StartBattle(s.ctx, &arena.StartBattleInput{})
	s.Require().NoError(err)
	s.Equal(conan, started.Current.ID)
	s.Equal(battles.StatusInProgress, s.record(battleID).Status)

	out := s.attack(conan, robin)
	s.Require().Len(out.Actions, 1)
	s.False(out.Concluded())
	s.Require().NotNil(out.Next)
	s.Equal(merlin, out.Next.ID)

	out = s.attack(merlin, conan)
	s.Require().Len(out.Actions, 2)
	s.Equal(combat.ActionSelfCost, out.Actions[1].Kind)

	roster, err := s.orchestrator.GetRoster(s.ctx, &arena.GetRosterInput{})
	s.Require().NoError(err)
	s.Equal(battleID, roster.BattleID)
	s.Equal(battle.StateInProgress, roster.State)
	s.Equal(80, roster.Combatants[0].Health)
	s.Equal(70, roster.Combatants[1].Health)
	s.Equal(80, roster.Combatants[2].Health)

	rec := s.record(battleID)
	s.Equal(3, rec.ActionCount)
	s.Equal(2, rec.Combatants[1].ActionCount)

	s.attack(robin, merlin)
	s.attack(conan, merlin)
	s.attack(merlin, robin)
	s.attack(robin, merlin)

	winner, err := s.orchestrator.CheckWinner(s.ctx, &arena.CheckWinnerInput{})
	s.Require().NoError(err)
	s.Nil(winner.Winner)

	opponents, err := s.orchestrator.ListOpponents(s.ctx, &arena.ListOpponentsInput{CombatantID: conan})
	s.Require().NoError(err)
	s.Require().Len(opponents.Opponents, 1)
	s.Equal(robin, opponents.Opponents[0].ID)

	s.attack(conan, robin)
	s.attack(robin, conan)
	out = s.attack(conan, robin)
	s.Require().True(out.Concluded())
	s.Equal(conan, out.Winner.ID)
	s.Equal(71, out.Winner.Health)
	s.Nil(out.Next)

	// the concluded battle is released
	_, err = s.orchestrator.GetRoster(s.ctx, &arena.GetRosterInput{})
	s.True(combat.IsKind(err, arena.KindNoActiveBattle))

	list, err := s.orchestrator.ListBattles(s.ctx, &arena.ListBattlesInput{})
	s.Require().NoError(err)
	s.Require().Len(list.Battles, 1)
	final := list.Battles[0]
	s.Equal(battleID, final.ID)
	s.Equal(battles.StatusConcluded, final.Status)
	s.Equal("CONAN", final.WinnerName)
	s.Equal(11, final.ActionCount)
	s.Equal(3, final.CombatantCount())
	s.True(final.UpdatedAt.After(final.CreatedAt))
}

func (s *OrchestratorTestSuite) TestAddCombatantErrors() {
	s.newBattle()
	s.addRoster(testutils.ScenarioRoster())

	s.Run("duplicate name", func() {
		_, err := s.orchestrator.AddCombatant(s.ctx, &arena.AddCombatantInput{
			Name: "CONAN", Archetype: combat.ArchetypeRanger, Health: 10,
		})
		s.True(combat.IsKind(err, combat.KindDuplicateName))
	})

	s.Run("invalid combatant", func() {
		_, err := s.orchestrator.AddCombatant(s.ctx, &arena.AddCombatantInput{
			Name: "longername", Archetype: combat.ArchetypeRanger, Health: 10,
		})
		s.True(errors.IsInvalidArgument(err))
		s.Empty(combat.KindOf(err))
	})

	s.Run("after start", func() {
		_, err := s.orchestrator.StartBattle(s.ctx, &arena.StartBattleInput{})
		s.Require().NoError(err)

		_, err = s.orchestrator.AddCombatant(s.ctx, &arena.AddCombatantInput{
			Name: "gandalf", Archetype: combat.ArchetypeMage, Health: 10,
		})
		s.True(combat.IsKind(err, combat.KindBattleAlreadyStarted))
	})

	roster, err := s.orchestrator.GetRoster(s.ctx, &arena.GetRosterInput{})
	s.Require().NoError(err)
	s.Len(roster.Combatants, 3)
}

func (s *OrchestratorTestSuite) TestStartNeedsTwoCombatants() {
	s.newBattle()
	_, err := s.orchestrator.AddCombatant(s.ctx, &arena.AddCombatantInput{
		Name: "solo", Archetype: combat.ArchetypeRanger, Health: 10, Attack: 1,
	})
	s.Require().NoError(err)

	_, err = s.orchestrator.StartBattle(s.ctx, &arena.StartBattleInput{})
	s.True(combat.IsKind(err, combat.KindNotEnoughCombatants))
}

func (s *OrchestratorTestSuite) TestImplicitStartIsRecorded() {
	battleID := s.newBattle()
	added := s.addRoster(testutils.ScenarioRoster())

	// merlin is not first, but the attack still starts the battle
	_, err := s.orchestrator.Attack(s.ctx, &arena.AttackInput{AttackerID: added[1].ID, DefenderID: added[0].ID})
	s.True(combat.IsKind(err, combat.KindNotYourTurn))

	s.Equal(battles.StatusInProgress, s.record(battleID).Status)

	turn, err := s.orchestrator.GetTurn(s.ctx, &arena.GetTurnInput{})
	s.Require().NoError(err)
	s.True(turn.Started)
	s.Equal(added[0].ID, turn.Combatant.ID)
}

func (s *OrchestratorTestSuite) TestNewBattleAbandonsCurrent() {
	first := s.newBattle()
	s.addRoster(testutils.ScenarioRoster())

	out, err := s.orchestrator.NewBattle(s.ctx, &arena.NewBattleInput{})
	s.Require().NoError(err)
	s.Equal(first, out.AbandonedID)
	s.NotEqual(first, out.BattleID)

	s.Equal(battles.StatusAbandoned, s.record(first).Status)
	s.Equal(battles.StatusSetup, s.record(out.BattleID).Status)

	roster, err := s.orchestrator.GetRoster(s.ctx, &arena.GetRosterInput{})
	s.Require().NoError(err)
	s.Empty(roster.Combatants)

	list, err := s.orchestrator.ListBattles(s.ctx, &arena.ListBattlesInput{})
	s.Require().NoError(err)
	s.Len(list.Battles, 2)
}

func (s *OrchestratorTestSuite) TestNoSurvivors() {
	battleID := s.newBattle()
	mage, err := s.orchestrator.AddCombatant(s.ctx, &arena.AddCombatantInput{
		Name: "merlin", Archetype: combat.ArchetypeMage, Health: 10, Attack: 50,
	})
	s.Require().NoError(err)
	target, err := s.orchestrator.AddCombatant(s.ctx, &arena.AddCombatantInput{
		Name: "strider", Archetype: combat.ArchetypeRanger, Health: 20, Attack: 5,
	})
	s.Require().NoError(err)

	_, err = s.orchestrator.Attack(s.ctx, &arena.AttackInput{AttackerID: mage.Combatant.ID, DefenderID: target.Combatant.ID})
	s.Require().Error(err)
	s.True(combat.IsKind(err, combat.KindNoSurvivors))

	rec := s.record(battleID)
	s.Equal(battles.StatusConcluded, rec.Status)
	s.Empty(rec.WinnerName)
	s.Equal(2, rec.ActionCount)

	_, err = s.orchestrator.GetTurn(s.ctx, &arena.GetTurnInput{})
	s.True(combat.IsKind(err, arena.KindNoActiveBattle))
}

func (s *OrchestratorTestSuite) TestGetCombatantActions() {
	s.newBattle()
	added := s.addRoster(testutils.ScenarioRoster())
	s.attack(added[0].ID, added[2].ID)
	s.attack(added[1].ID, added[0].ID)

	out, err := s.orchestrator.GetCombatantActions(s.ctx, &arena.GetCombatantActionsInput{Name: " Merlin"})
	s.Require().NoError(err)
	s.Equal("MERLIN", out.Combatant.Name)
	s.Require().Len(out.Actions, 2)
	s.Equal(combat.ActionHit, out.Actions[0].Kind)
	s.Equal(combat.ActionSelfCost, out.Actions[1].Kind)

	all, err := s.orchestrator.GetActions(s.ctx, &arena.GetActionsInput{})
	s.Require().NoError(err)
	s.Len(all.Actions, 3)

	_, err = s.orchestrator.GetCombatantActions(s.ctx, &arena.GetCombatantActionsInput{Name: "gandalf"})
	s.True(combat.IsKind(err, combat.KindCharacterNotFound))

	_, err = s.orchestrator.GetCombatantActions(s.ctx, &arena.GetCombatantActionsInput{Name: "  "})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestNewAddCombatantInput() {
	input, err := arena.NewAddCombatantInput(roster.Entry{Name: "robin", Archetype: "ARCHER", Health: 5, Multiplier: 2})
	s.Require().NoError(err)
	s.Equal(combat.ArchetypeArcher, input.Archetype)
	s.Equal(2, input.Multiplier)

	_, err = arena.NewAddCombatantInput(roster.Entry{Name: "x", Archetype: "bard"})
	s.True(errors.IsInvalidArgument(err))
}
