package combat

import (
	"github.com/KirkDiggler/arena/internal/errors"
)

// ErrorKind names a failure the shell is expected to branch on
type ErrorKind string

// Error kinds
const (
	KindDuplicateName        ErrorKind = "duplicate_name"
	KindDuplicateID          ErrorKind = "duplicate_id"
	KindBattleAlreadyStarted ErrorKind = "battle_already_started"
	KindNotEnoughCombatants  ErrorKind = "not_enough_combatants"
	KindCharacterNotFound    ErrorKind = "character_not_found"
	KindNotYourTurn          ErrorKind = "not_your_turn"
	KindInvalidAttack        ErrorKind = "invalid_attack"
	KindNoSurvivors          ErrorKind = "no_survivors"
)

// AttackFailure is the sub-case of a KindInvalidAttack error
type AttackFailure string

// Attack failures, in the order Attack checks them
const (
	FailureTargetDead   AttackFailure = "target_dead"
	FailureAttackerDead AttackFailure = "attacker_dead"
	FailureSelfTarget   AttackFailure = "self_target"
	FailureBlocked      AttackFailure = "blocked"
)

// Metadata keys used on combat errors
const (
	MetaKind   = "kind"
	MetaReason = "reason"
)

// KindOf returns the kind recorded on err, or "" if it carries none
func KindOf(err error) ErrorKind {
	return ErrorKind(errors.GetMetaString(err, MetaKind))
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// FailureOf returns the attack failure sub-case recorded on err
func FailureOf(err error) AttackFailure {
	return AttackFailure(errors.GetMetaString(err, MetaReason))
}

func withKind(err *errors.Error, kind ErrorKind) *errors.Error {
	return err.WithMeta(MetaKind, string(kind))
}

// NewDuplicateNameError reports a roster name collision
func NewDuplicateNameError(name string) error {
	return withKind(errors.AlreadyExistsf("a combatant named %s already exists", name), KindDuplicateName).
		WithMeta("name", name)
}

// NewDuplicateIDError reports a roster id collision
func NewDuplicateIDError(id int) error {
	return withKind(errors.AlreadyExistsf("a combatant with id %d already exists", id), KindDuplicateID).
		WithMeta("combatant_id", id)
}

// NewBattleAlreadyStartedError reports a change attempted after the first turn
func NewBattleAlreadyStartedError() error {
	return withKind(errors.FailedPrecondition("the battle has already started"), KindBattleAlreadyStarted)
}

// NewNotEnoughCombatantsError reports a start with fewer than required combatants
func NewNotEnoughCombatantsError(have, required int) error {
	return withKind(errors.FailedPreconditionf("at least %d combatants are required, have %d", required, have), KindNotEnoughCombatants).
		WithMeta("combatants", have)
}

// NewCharacterNotFoundError reports an unknown combatant id or name
func NewCharacterNotFoundError(ref interface{}) error {
	return withKind(errors.NotFoundf("combatant %v not found", ref), KindCharacterNotFound).
		WithMeta("combatant", ref)
}

// NewNotYourTurnError reports an attack by someone other than the current actor
func NewNotYourTurnError(attacker, current string) error {
	return withKind(errors.PermissionDeniedf("it is not %s's turn, %s acts now", attacker, current), KindNotYourTurn).
		WithMeta("attacker", attacker).
		WithMeta("current", current)
}

// NewNoSurvivorsError reports a roster with nobody left standing
func NewNoSurvivorsError(message string) error {
	return withKind(errors.FailedPrecondition(message), KindNoSurvivors)
}

func newInvalidAttackError(failure AttackFailure, message string) error {
	return withKind(errors.InvalidArgument(message), KindInvalidAttack).
		WithMeta(MetaReason, string(failure))
}
