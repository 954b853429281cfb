// Package builders provides test data builders for creating test fixtures
package builders

import (
	"time"

	"github.com/KirkDiggler/arena/internal/repositories/battles"
)

// RecordBuilder provides a fluent interface for building test battle records
type RecordBuilder struct {
	record *battles.Record
}

// NewRecordBuilder creates a new builder with minimal defaults
func NewRecordBuilder() *RecordBuilder {
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &RecordBuilder{
		record: &battles.Record{
			ID:        "battle-test-123",
			Status:    battles.StatusSetup,
			CreatedAt: created,
			UpdatedAt: created,
		},
	}
}

// WithID sets the battle ID
func (b *RecordBuilder) WithID(id string) *RecordBuilder {
	b.record.ID = id
	return b
}

// WithStatus sets the status
func (b *RecordBuilder) WithStatus(status battles.Status) *RecordBuilder {
	b.record.Status = status
	return b
}

// WithCreatedAt sets both timestamps
func (b *RecordBuilder) WithCreatedAt(t time.Time) *RecordBuilder {
	b.record.CreatedAt = t
	b.record.UpdatedAt = t
	return b
}

// WithCombatant appends a combatant summary at full health
func (b *RecordBuilder) WithCombatant(id int, name, archetype string, health int) *RecordBuilder {
	b.record.Combatants = append(b.record.Combatants, battles.CombatantSummary{
		ID:        id,
		Name:      name,
		Archetype: archetype,
		Health:    health,
		MaxHealth: health,
	})
	return b
}

// WithActions sets the total action count
func (b *RecordBuilder) WithActions(n int) *RecordBuilder {
	b.record.ActionCount = n
	return b
}

// Concluded marks the battle concluded with the given winner
func (b *RecordBuilder) Concluded(winner string) *RecordBuilder {
	b.record.Status = battles.StatusConcluded
	b.record.WinnerName = winner
	return b
}

// Build returns the built record
func (b *RecordBuilder) Build() *battles.Record {
	return b.record.Clone()
}
