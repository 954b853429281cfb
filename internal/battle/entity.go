package battle

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
)

// Entities returns the roster as toolkit entities, in turn order
func (e *Encounter) Entities() []core.Entity {
	out := make([]core.Entity, len(e.roster))
	for i, c := range e.roster {
		out[i] = c
	}
	return out
}

// EntityKey identifies an entity across types as "type:id"
func EntityKey(ref core.Entity) string {
	if ref == nil {
		return ""
	}
	return ref.GetType() + ":" + ref.GetID()
}
