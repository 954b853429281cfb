package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/arena/internal/battle"
	"github.com/KirkDiggler/arena/internal/combat"
	"github.com/KirkDiggler/arena/internal/errors"
	"github.com/KirkDiggler/arena/internal/orchestrators/arena"
	"github.com/KirkDiggler/arena/internal/roster"
)

const defaultMaxTurns = 1000

var (
	rosterPath string
	maxTurns   int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Fight a battle from a roster file without input",
	Long: `Simulate loads a YAML roster and lets every combatant attack on its turn
until one is left standing. Each combatant attacks the first living opponent
that would not block it, and the first living opponent otherwise.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&rosterPath, "roster", "", "path to the roster YAML file")
	simulateCmd.Flags().IntVar(&maxTurns, "max-turns", defaultMaxTurns, "give up after this many turns")
	_ = simulateCmd.MarkFlagRequired("roster")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	r, err := roster.Load(rosterPath)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	sim := &simulation{
		service:  a.service,
		out:      cmd.OutOrStdout(),
		maxTurns: maxTurns,
	}
	_, err = sim.run(ctx, r)
	return err
}

// simulation plays one battle to the end
type simulation struct {
	service  arena.Service
	out      io.Writer
	maxTurns int
}

// run fights the roster and returns the winner, or nil when nobody survived
func (s *simulation) run(ctx context.Context, r *roster.Roster) (*combat.StatBlock, error) {
	created, err := s.service.NewBattle(ctx, &arena.NewBattleInput{})
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(s.out, renderTitle("Battle "+created.BattleID))

	for _, entry := range r.Combatants {
		input, err := arena.NewAddCombatantInput(entry)
		if err != nil {
			return nil, err
		}
		added, err := s.service.AddCombatant(ctx, input)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to add %s", entry.Name)
		}
		fmt.Fprintln(s.out, renderStats(added.Combatant))
	}

	if _, err := s.service.StartBattle(ctx, &arena.StartBattleInput{}); err != nil {
		return nil, err
	}

	turns := s.maxTurns
	if turns < 1 {
		turns = defaultMaxTurns
	}

	for turn := 0; turn < turns; turn++ {
		current, err := s.service.GetTurn(ctx, &arena.GetTurnInput{})
		if err != nil {
			return nil, err
		}

		target, err := s.pickTarget(ctx, current.Combatant)
		if err != nil {
			return nil, err
		}

		out, err := s.service.Attack(ctx, &arena.AttackInput{
			AttackerID: current.Combatant.ID,
			DefenderID: target.ID,
		})
		switch {
		case err == nil:
		case combat.IsKind(err, combat.KindNoSurvivors):
			fmt.Fprintln(s.out, infoStyle.Render("No one is left standing."))
			return nil, nil
		case combat.FailureOf(err) == combat.FailureBlocked && current.Combatant.Archetype == combat.ArchetypeArcher:
			// a multishot may still get through on the next roll
			fmt.Fprintln(s.out, infoStyle.Render(errors.GetMessage(err)))
			continue
		case combat.FailureOf(err) == combat.FailureBlocked:
			return nil, errors.FailedPreconditionf("stalemate: %s cannot hurt any opponent", current.Combatant.Name)
		default:
			return nil, err
		}

		for _, action := range out.Actions {
			fmt.Fprintln(s.out, renderAction(action))
		}
		if out.Concluded() {
			fmt.Fprintln(s.out, renderWinner(*out.Winner))
			return out.Winner, nil
		}
	}

	return nil, errors.FailedPreconditionf("battle did not finish within %d turns", turns)
}

// pickTarget returns the first living opponent that would not block the
// attacker, or the first living opponent when all of them would
func (s *simulation) pickTarget(ctx context.Context, attacker combat.StatBlock) (combat.StatBlock, error) {
	opponents, err := s.service.ListOpponents(ctx, &arena.ListOpponentsInput{CombatantID: attacker.ID})
	if err != nil {
		return combat.StatBlock{}, err
	}
	if len(opponents.Opponents) == 0 {
		return combat.StatBlock{}, errors.FailedPreconditionf("%s has no one left to attack", attacker.Name)
	}

	current, err := s.service.GetRoster(ctx, &arena.GetRosterInput{})
	if err != nil {
		return combat.StatBlock{}, err
	}
	byID := make(map[int]combat.StatBlock, len(current.Combatants))
	for _, sb := range current.Combatants {
		byID[sb.ID] = sb
	}

	return chooseTarget(attacker, opponents.Opponents, byID), nil
}

func chooseTarget(attacker combat.StatBlock, opponents []battle.Opponent, stats map[int]combat.StatBlock) combat.StatBlock {
	for _, o := range opponents {
		if sb, ok := stats[o.ID]; ok && !sb.WouldBlock(attacker) {
			return sb
		}
	}
	return stats[opponents[0].ID]
}
