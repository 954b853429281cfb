package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/arena/internal/battle"
	"github.com/KirkDiggler/arena/internal/combat"
	"github.com/KirkDiggler/arena/internal/orchestrators/arena"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play battles from an interactive menu",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		return newShell(a.service, cmd.InOrStdin(), cmd.OutOrStdout()).run(ctx)
	},
}

// shell is the interactive menu. It reads one answer per line and stops at
// end of input.
type shell struct {
	service arena.Service
	in      *bufio.Scanner
	out     io.Writer
}

func newShell(service arena.Service, in io.Reader, out io.Writer) *shell {
	return &shell{
		service: service,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

func (s *shell) println(a ...interface{}) {
	fmt.Fprintln(s.out, a...)
}

func (s *shell) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// readInt asks until the answer is a whole number
func (s *shell) readInt(prompt string) (int, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		s.println(errorStyle.Render("Please enter a whole number."))
	}
}

func (s *shell) confirm(prompt string) (bool, error) {
	line, err := s.readLine(prompt + " (y/n): ")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(line, "y") || strings.EqualFold(line, "yes"), nil
}

// run shows the main menu until the player exits or input ends
func (s *shell) run(ctx context.Context) error {
	err := s.mainMenu(ctx)
	if err == io.EOF {
		return nil
	}
	return err
}

func (s *shell) mainMenu(ctx context.Context) error {
	for {
		s.println(renderTitle("ARENA"))
		s.println("1. New battle")
		s.println("2. Continue battle")
		s.println("3. Queries")
		s.println("0. Exit")

		choice, err := s.readInt("> ")
		if err != nil {
			return err
		}

		switch choice {
		case 0:
			s.println("Farewell.")
			return nil
		case 1:
			err = s.newBattle(ctx)
		case 2:
			err = s.fight(ctx)
		case 3:
			err = s.queries(ctx)
		default:
			s.println(errorStyle.Render("Unknown option."))
		}
		if err != nil {
			return err
		}
	}
}

// newBattle sets up a battle, starts it and fights it
func (s *shell) newBattle(ctx context.Context) error {
	created, err := s.service.NewBattle(ctx, &arena.NewBattleInput{})
	if err != nil {
		return err
	}
	if created.AbandonedID != "" {
		s.println(infoStyle.Render("Battle " + created.AbandonedID + " was abandoned."))
	}
	s.println(renderTitle("Battle " + created.BattleID))

	added := 0
	for {
		ok, err := s.addCombatant(ctx)
		if err != nil {
			return err
		}
		if ok {
			added++
		}

		more, err := s.confirm("Add another combatant?")
		if err != nil {
			return err
		}
		if more {
			continue
		}
		if added >= battle.MinCombatants {
			break
		}
		s.println(infoStyle.Render(fmt.Sprintf("A battle needs at least %d combatants.", battle.MinCombatants)))
	}

	started, err := s.service.StartBattle(ctx, &arena.StartBattleInput{})
	if err != nil {
		return err
	}
	s.println(infoStyle.Render("The battle begins! " + started.Current.Name + " acts first."))

	return s.fight(ctx)
}

// addCombatant asks for one combatant. It reports false when the service
// refused it.
func (s *shell) addCombatant(ctx context.Context) (bool, error) {
	name, err := s.readLine("Name: ")
	if err != nil {
		return false, err
	}

	archetypes := combat.Archetypes()
	for i, a := range archetypes {
		s.println(fmt.Sprintf("%d. %s", i+1, a))
	}
	var archetype combat.Archetype
	for archetype == "" {
		choice, err := s.readInt("Archetype: ")
		if err != nil {
			return false, err
		}
		if choice < 1 || choice > len(archetypes) {
			s.println(errorStyle.Render("Unknown archetype."))
			continue
		}
		archetype = archetypes[choice-1]
	}

	input := &arena.AddCombatantInput{Name: name, Archetype: archetype}
	if input.Health, err = s.readInt("Health: "); err != nil {
		return false, err
	}
	if input.Attack, err = s.readInt("Attack: "); err != nil {
		return false, err
	}

	switch archetype {
	case combat.ArchetypeWarrior:
		input.Defense, err = s.readInt("Defense: ")
	case combat.ArchetypeArcher:
		input.Multiplier, err = s.readInt("Multishot multiplier: ")
	case combat.ArchetypeRanger:
		input.CompanionHealth, err = s.readInt("Companion health: ")
	}
	if err != nil {
		return false, err
	}

	out, err := s.service.AddCombatant(ctx, input)
	if err != nil {
		s.println(renderError(err))
		return false, nil
	}
	s.println(renderStats(out.Combatant))
	return true, nil
}

// fight plays turns until the battle ends or the player steps back
func (s *shell) fight(ctx context.Context) error {
	for {
		turn, err := s.service.GetTurn(ctx, &arena.GetTurnInput{})
		if err != nil {
			if combat.IsKind(err, arena.KindNoActiveBattle) {
				s.println(infoStyle.Render("There is no battle in progress."))
				return nil
			}
			s.println(renderError(err))
			return nil
		}

		current := turn.Combatant
		s.println(renderStats(current))

		opponents, err := s.service.ListOpponents(ctx, &arena.ListOpponentsInput{CombatantID: current.ID})
		if err != nil {
			return err
		}
		s.println(fmt.Sprintf("%s, choose a target:", current.Name))
		for i, o := range opponents.Opponents {
			s.println(fmt.Sprintf("%d. %s (#%d)", i+1, o.DisplayName, o.ID))
		}
		s.println("0. Back to menu")

		choice, err := s.readInt("> ")
		if err != nil {
			return err
		}
		if choice == 0 {
			return nil
		}
		if choice < 1 || choice > len(opponents.Opponents) {
			s.println(errorStyle.Render("Unknown target."))
			continue
		}

		out, err := s.service.Attack(ctx, &arena.AttackInput{
			AttackerID: current.ID,
			DefenderID: opponents.Opponents[choice-1].ID,
		})
		if err != nil {
			s.println(renderError(err))
			if combat.IsKind(err, combat.KindNoSurvivors) {
				return nil
			}
			continue
		}

		for _, action := range out.Actions {
			s.println(renderAction(action))
		}
		if out.Concluded() {
			s.println(renderWinner(*out.Winner))
			return nil
		}
	}
}

// queries shows recorded battles and the current battle's history
func (s *shell) queries(ctx context.Context) error {
	for {
		s.println(renderTitle("QUERIES"))
		s.println("1. Recorded battles")
		s.println("2. Current battle log")
		s.println("3. Actions of a combatant")
		s.println("4. Current battle combatants")
		s.println("5. Check winner")
		s.println("0. Back")

		choice, err := s.readInt("> ")
		if err != nil {
			return err
		}

		switch choice {
		case 0:
			return nil
		case 1:
			out, err := s.service.ListBattles(ctx, &arena.ListBattlesInput{})
			if err != nil {
				s.println(renderError(err))
				continue
			}
			s.println(renderRecords(out.Battles))
		case 2:
			out, err := s.service.GetActions(ctx, &arena.GetActionsInput{})
			if err != nil {
				s.println(renderError(err))
				continue
			}
			s.printActions(out.Actions)
		case 3:
			name, err := s.readLine("Name: ")
			if err != nil {
				return err
			}
			out, err := s.service.GetCombatantActions(ctx, &arena.GetCombatantActionsInput{Name: name})
			if err != nil {
				s.println(renderError(err))
				continue
			}
			s.println(renderStats(out.Combatant))
			s.printActions(out.Actions)
		case 4:
			out, err := s.service.GetRoster(ctx, &arena.GetRosterInput{})
			if err != nil {
				s.println(renderError(err))
				continue
			}
			s.println(infoStyle.Render(fmt.Sprintf("Battle %s is %s.", out.BattleID, out.State)))
			for _, c := range out.Combatants {
				s.println(renderStats(c))
			}
		case 5:
			out, err := s.service.CheckWinner(ctx, &arena.CheckWinnerInput{})
			if err != nil {
				s.println(renderError(err))
				continue
			}
			if out.Winner == nil {
				s.println(infoStyle.Render("No winner yet."))
				continue
			}
			s.println(renderWinner(*out.Winner))
		default:
			s.println(errorStyle.Render("Unknown option."))
		}
	}
}

func (s *shell) printActions(actions []combat.Action) {
	if len(actions) == 0 {
		s.println(infoStyle.Render("No actions yet."))
		return
	}
	for _, a := range actions {
		s.println(renderAction(a))
	}
}
