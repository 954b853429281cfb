// Package battles stores summaries of the battles fought in the arena
package battles

//go:generate mockgen -destination=mock/mock_repository.go -package=battlesmock github.com/KirkDiggler/arena/internal/repositories/battles Repository

import (
	"context"
	"time"

	"github.com/KirkDiggler/arena/internal/errors"
)

const (
	// DefaultListLimit is used when a List call does not set a limit
	DefaultListLimit = 50

	// Error messages
	errInputNil   = "input is required"
	errRecordNil  = "record is required"
	errIDRequired = "battle ID is required"
)

// Status is where a recorded battle ended up
type Status string

// Battle statuses
const (
	StatusSetup      Status = "setup"
	StatusInProgress Status = "in_progress"
	StatusConcluded  Status = "concluded"
	// StatusAbandoned marks a battle replaced before it concluded
	StatusAbandoned Status = "abandoned"
)

// Repository defines the storage interface for battle records
type Repository interface {
	// Save creates or replaces a record
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Get retrieves a record by battle ID
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// List returns records newest first
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
}

// CombatantSummary is a combatant as it stood when the record was saved
type CombatantSummary struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Archetype   string `json:"archetype"`
	Health      int    `json:"health"`
	MaxHealth   int    `json:"max_health"`
	ActionCount int    `json:"action_count"`
}

// Record is the persistent summary of one battle
type Record struct {
	ID          string             `json:"id"`
	Status      Status             `json:"status"`
	Combatants  []CombatantSummary `json:"combatants"`
	ActionCount int                `json:"action_count"`
	// WinnerName is empty until the battle concludes with a survivor
	WinnerName string    `json:"winner_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CombatantCount returns the number of combatants in the record
func (r *Record) CombatantCount() int {
	return len(r.Combatants)
}

// Clone returns a deep copy of the record
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.Combatants != nil {
		out.Combatants = make([]CombatantSummary, len(r.Combatants))
		copy(out.Combatants, r.Combatants)
	}
	return &out
}

// SaveInput defines the request for saving a record
type SaveInput struct {
	Record *Record
}

// SaveOutput defines the response for saving a record
type SaveOutput struct{}

// GetInput defines the request for retrieving a record
type GetInput struct {
	ID string
}

// GetOutput defines the response for retrieving a record
type GetOutput struct {
	Record *Record
}

// ListInput defines the request for listing records
type ListInput struct {
	// Limit caps the number of records; zero means DefaultListLimit
	Limit int
}

// ListOutput defines the response for listing records
type ListOutput struct {
	Records []*Record
}

func validateRecord(record *Record) error {
	if record == nil {
		return errors.InvalidArgument(errRecordNil)
	}
	if record.ID == "" {
		return errors.InvalidArgument(errIDRequired)
	}
	return nil
}

func notFound(id string) error {
	return errors.NotFoundf("battle %s not found", id).WithMeta("battle_id", id)
}

func listLimit(input *ListInput) int {
	if input == nil || input.Limit <= 0 {
		return DefaultListLimit
	}
	return input.Limit
}
