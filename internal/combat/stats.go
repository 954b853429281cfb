package combat

// StatBlock is a point-in-time snapshot of a combatant for display and storage
type StatBlock struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Archetype   Archetype `json:"archetype"`
	Health      int       `json:"health"`
	MaxHealth   int       `json:"max_health"`
	AttackPower int       `json:"attack_power"`
	Alive       bool      `json:"alive"`

	// BaseDamage is the damage the next attack starts from, before any
	// multishot or target modifier
	BaseDamage int `json:"base_damage"`

	Defense    *int       `json:"defense,omitempty"`
	Multiplier *int       `json:"multiplier,omitempty"`
	Companion  *Companion `json:"companion,omitempty"`
}

// Stats returns the combatant's current stat block
func (c *Combatant) Stats() StatBlock {
	sb := StatBlock{
		ID:          c.id,
		Name:        c.name,
		Archetype:   c.Archetype(),
		Health:      c.health,
		MaxHealth:   c.maxHealth,
		AttackPower: c.attack,
		BaseDamage:  c.behavior.baseDamage(c),
		Alive:       c.IsAlive(),
	}

	switch b := c.behavior.(type) {
	case *warrior:
		defense := b.defense
		sb.Defense = &defense
	case *archer:
		multiplier := b.multiplier
		sb.Multiplier = &multiplier
	case *ranger:
		companion := b.companion
		sb.Companion = &companion
	}

	return sb
}

// WouldBlock reports whether this combatant is certain to block an attack
// from attacker. Mage spells ignore defense.
func (sb StatBlock) WouldBlock(attacker StatBlock) bool {
	if sb.Defense == nil || attacker.Archetype == ArchetypeMage {
		return false
	}
	return attacker.BaseDamage < *sb.Defense
}

// Defense returns a warrior's defense
func (c *Combatant) Defense() (int, bool) {
	if w, ok := c.behavior.(*warrior); ok {
		return w.defense, true
	}
	return 0, false
}

// Multiplier returns an archer's multishot multiplier
func (c *Combatant) Multiplier() (int, bool) {
	if a, ok := c.behavior.(*archer); ok {
		return a.multiplier, true
	}
	return 0, false
}

// LastAttackWasCritical reports whether an archer's latest attack was a multishot
func (c *Combatant) LastAttackWasCritical() bool {
	if a, ok := c.behavior.(*archer); ok {
		return a.lastCritical
	}
	return false
}

// Companion returns a ranger's animal companion
func (c *Combatant) Companion() (Companion, bool) {
	if r, ok := c.behavior.(*ranger); ok {
		return r.companion, true
	}
	return Companion{}, false
}
