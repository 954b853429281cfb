package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KirkDiggler/arena/internal/combat"
	"github.com/KirkDiggler/arena/internal/repositories/battles"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F25D94"))

	criticalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB000"))

	winnerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575"))

	statBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)
)

func renderTitle(title string) string {
	return titleStyle.Render(title)
}

// renderStats draws a combatant's stat block
func renderStats(sb combat.StatBlock) string {
	lines := []string{
		fmt.Sprintf("%s #%d (%s)", combat.PadName(sb.Name), sb.ID, sb.Archetype),
		fmt.Sprintf("Health: %d/%d  Attack: %d", sb.Health, sb.MaxHealth, sb.AttackPower),
	}
	if sb.Defense != nil {
		lines = append(lines, fmt.Sprintf("Defense: %d", *sb.Defense))
	}
	if sb.Multiplier != nil {
		lines = append(lines, fmt.Sprintf("Multiplier: x%d", *sb.Multiplier))
	}
	if sb.Companion != nil {
		lines = append(lines, fmt.Sprintf("Companion: %d/%d", sb.Companion.Health, sb.Companion.MaxHealth))
	}
	if !sb.Alive {
		lines = append(lines, "DEAD")
	}
	return statBoxStyle.Render(strings.Join(lines, "\n"))
}

// renderAction formats one action as a log line
func renderAction(a combat.Action) string {
	line := fmt.Sprintf("[%s #%d] %s", combat.PadName(a.ActorName), a.ID, a.Description)
	if a.Critical {
		return criticalStyle.Render(line)
	}
	return line
}

func renderWinner(sb combat.StatBlock) string {
	return winnerStyle.Render(fmt.Sprintf("%s wins with %d health left!", sb.Name, sb.Health))
}

func renderError(err error) string {
	return errorStyle.Render(err.Error())
}

// renderRecords lists battle records one per line
func renderRecords(records []*battles.Record) string {
	if len(records) == 0 {
		return infoStyle.Render("No battles recorded.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-40s %-12s %-10s %-7s %s\n", "BATTLE", "STATUS", "COMBATANTS", "ACTIONS", "WINNER")
	for _, r := range records {
		winner := r.WinnerName
		if winner == "" {
			winner = "-"
		}
		fmt.Fprintf(&b, "%-40s %-12s %-10d %-7d %s\n", r.ID, r.Status, r.CombatantCount(), r.ActionCount, winner)
	}
	return strings.TrimRight(b.String(), "\n")
}
