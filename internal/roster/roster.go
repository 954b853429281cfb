// Package roster reads encounter rosters from YAML files
package roster

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/arena/internal/combat"
	"github.com/KirkDiggler/arena/internal/errors"
)

// Entry describes one combatant in a roster file. Archetype specific fields
// are ignored by the other archetypes.
type Entry struct {
	Name            string `yaml:"name"`
	Archetype       string `yaml:"archetype"`
	Health          int    `yaml:"health"`
	Attack          int    `yaml:"attack"`
	Defense         int    `yaml:"defense,omitempty"`
	Multiplier      int    `yaml:"multiplier,omitempty"`
	CompanionHealth int    `yaml:"companion_health,omitempty"`
}

// Roster is the contents of a roster file
type Roster struct {
	Combatants []Entry `yaml:"combatants"`
}

// Load reads and validates the roster at path
func Load(path string) (*Roster, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NotFoundf("roster file %s not found", path)
		}
		return nil, errors.Wrapf(err, "failed to open roster file %s", path)
	}
	defer func() { _ = f.Close() }()

	r, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load roster file %s", path)
	}
	return r, nil
}

// Parse decodes and validates a roster. Unknown keys are rejected.
func Parse(r io.Reader) (*Roster, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var out Roster
	if err := decoder.Decode(&out); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.InvalidArgument("roster is empty")
		}
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode roster")
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Validate checks that every entry names a known archetype and that names
// are unique once normalised
func (r *Roster) Validate() error {
	if len(r.Combatants) == 0 {
		return errors.InvalidArgument("roster has no combatants")
	}

	vb := errors.NewValidationBuilder()
	seen := make(map[string]bool, len(r.Combatants))
	for i, e := range r.Combatants {
		if _, err := combat.ParseArchetype(e.Archetype); err != nil {
			vb.Fieldf("combatants", "entry %d: unknown archetype %q", i+1, e.Archetype)
		}
		name := combat.NormalizeName(e.Name)
		if name == "" {
			vb.Fieldf("combatants", "entry %d: name is required", i+1)
			continue
		}
		if seen[name] {
			vb.Fieldf("combatants", "entry %d: duplicate name %s", i+1, name)
		}
		seen[name] = true
	}
	return vb.Build()
}
