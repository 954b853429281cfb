// Package combat models the participants of an encounter and the rules
// they fight by.
//
// A Combatant carries the state every archetype shares (id, name, health,
// attack power, action history) and delegates the archetype-specific parts of
// an attack to a behavior selected at construction:
//
//	Warrior  defense blocks weak hits, fury below 30% health
//	Mage     spells ignore defense, double damage on archers, cost 10 health
//	Archer   50% chance to multiply the hit by its multiplier
//	Ranger   plain hits, carries an animal companion
//
// Every attack produces immutable Action records that are appended to the
// attacker's history. Failures are *errors.Error values tagged with an
// ErrorKind, see KindOf.
package combat
