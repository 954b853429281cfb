package arena

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/arena/internal/battle"
	"github.com/KirkDiggler/arena/internal/repositories/battles"
)

func statusOf(state battle.State) battles.Status {
	switch state {
	case battle.StateInProgress:
		return battles.StatusInProgress
	case battle.StateConcluded:
		return battles.StatusConcluded
	default:
		return battles.StatusSetup
	}
}

// record summarises a battle. An empty status is derived from the
// encounter state.
func (o *orchestrator) record(cb *currentBattle, status battles.Status) *battles.Record {
	if status == "" {
		status = statusOf(cb.encounter.State())
	}

	roster := cb.encounter.Roster()
	rec := &battles.Record{
		ID:          cb.id,
		Status:      status,
		Combatants:  make([]battles.CombatantSummary, len(roster)),
		ActionCount: len(cb.encounter.ActionLog()),
		CreatedAt:   cb.createdAt,
		UpdatedAt:   o.clock.Now(),
	}
	for i, c := range roster {
		rec.Combatants[i] = battles.CombatantSummary{
			ID:          c.ID(),
			Name:        c.Name(),
			Archetype:   c.Archetype().String(),
			Health:      c.Health(),
			MaxHealth:   c.MaxHealth(),
			ActionCount: c.HistoryLen(),
		}
	}

	if status == battles.StatusConcluded {
		if winner, err := cb.encounter.CheckWinner(); err == nil && winner != nil {
			rec.WinnerName = winner.Name()
		}
	}

	return rec
}

// save stores the battle record. A failed save is logged and does not fail
// the caller.
func (o *orchestrator) save(ctx context.Context, cb *currentBattle, status battles.Status) {
	rec := o.record(cb, status)
	if _, err := o.repo.Save(ctx, &battles.SaveInput{Record: rec}); err != nil {
		o.log.WithFields(logrus.Fields{
			"battle_id": cb.id,
			"status":    rec.Status,
		}).WithError(err).Warn("Failed to save battle record")
	}
}
