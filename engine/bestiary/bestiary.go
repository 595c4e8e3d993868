// Package bestiary holds the fixed monster stat blocks and turns an
// encounter's declarative monster list into live monsters.
package bestiary

import (
	"strings"

	"github.com/gherrick0918/SoloDnDApp/types"
)

// refs maps lower-cased content references to templates.
var refs = map[string]types.MonsterTemplate{
	"srd_goblin": types.TemplateGoblin,
	"goblin":     types.TemplateGoblin,
}

// ParseRef resolves a monster reference. Unknown references return
// (TemplateGeneric, false); they still spawn, using the generic stat block.
func ParseRef(ref string) (types.MonsterTemplate, bool) {
	t, ok := refs[strings.ToLower(strings.TrimSpace(ref))]
	if !ok {
		return types.TemplateGeneric, false
	}
	return t, true
}

// Stats returns the stat block for a template. name is used only by the
// generic template, which takes the content reference as its name.
func Stats(t types.MonsterTemplate, name string) types.Monster {
	switch t {
	case types.TemplateGoblin:
		return types.Monster{
			Name:            "Goblin",
			AC:              15,
			MaxHP:           7,
			CurrentHP:       7,
			AttackBonus:     4,
			DamageDiceCount: 1,
			DamageDiceSides: 6,
		}
	default:
		return types.Monster{
			Name:            name,
			AC:              12,
			MaxHP:           8,
			CurrentHP:       8,
			AttackBonus:     3,
			DamageDiceCount: 1,
			DamageDiceSides: 6,
		}
	}
}

// Spawn creates one live monster for a spec entry. Specs built without the
// loader's parse step carry TemplateGeneric, so the ref is parsed again.
func Spawn(spec types.MonsterSpec) types.Monster {
	t := spec.Template
	if t == types.TemplateGeneric {
		t, _ = ParseRef(spec.Ref)
	}
	return Stats(t, spec.Ref)
}

// Materialize expands every (ref, count) pair of an encounter spec into
// concrete monsters, in list order, and returns an in-progress encounter.
func Materialize(nodeID string, spec types.EncounterSpec) *types.Encounter {
	var monsters []types.Monster
	for _, m := range spec.Monsters {
		for i := 0; i < m.Count; i++ {
			monsters = append(monsters, Spawn(m))
		}
	}
	return &types.Encounter{
		NodeID:     nodeID,
		Monsters:   monsters,
		InProgress: true,
	}
}
