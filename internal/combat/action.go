package combat

import "time"

// ActionKind distinguishes hits from costs an actor pays itself
type ActionKind string

// Action kinds
const (
	ActionHit      ActionKind = "hit"
	ActionSelfCost ActionKind = "self_cost"
)

// Action is the record of a single combat event. Actions are values and
// are never modified after an attack creates them.
type Action struct {
	// ID is local to the actor, not unique across an encounter
	ID         int        `json:"id"`
	Kind       ActionKind `json:"kind"`
	ActorID    int        `json:"actor_id"`
	ActorName  string     `json:"actor_name"`
	TargetID   int        `json:"target_id"`
	TargetName string     `json:"target_name"`

	// Amount is the damage the target accepted after its mitigation, or
	// the health an actor paid for a self cost
	Amount      int    `json:"amount"`
	Description string `json:"description"`

	// Critical is set when an archer's multishot triggered
	Critical  bool      `json:"critical,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsSelfInflicted reports whether the actor is also the target
func (a Action) IsSelfInflicted() bool {
	return a.ActorID == a.TargetID
}
