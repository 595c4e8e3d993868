package bestiary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gherrick0918/SoloDnDApp/types"
)

func TestParseRef(t *testing.T) {
	tmpl, ok := ParseRef("srd_goblin")
	assert.True(t, ok)
	assert.Equal(t, types.TemplateGoblin, tmpl)

	tmpl, ok = ParseRef("Goblin")
	assert.True(t, ok)
	assert.Equal(t, types.TemplateGoblin, tmpl)

	tmpl, ok = ParseRef(" SRD_Goblin ")
	assert.True(t, ok)
	assert.Equal(t, types.TemplateGoblin, tmpl)

	tmpl, ok = ParseRef("owlbear")
	assert.False(t, ok)
	assert.Equal(t, types.TemplateGeneric, tmpl)
}

func TestStats_Goblin(t *testing.T) {
	m := Stats(types.TemplateGoblin, "ignored")
	assert.Equal(t, types.Monster{
		Name: "Goblin", AC: 15, MaxHP: 7, CurrentHP: 7,
		AttackBonus: 4, DamageDiceCount: 1, DamageDiceSides: 6,
	}, m)
}

func TestSpawn_UnknownRefUsesGenericBlock(t *testing.T) {
	m := Spawn(types.MonsterSpec{Ref: "bandit", Template: types.TemplateGeneric, Count: 1})
	assert.Equal(t, "bandit", m.Name)
	assert.Equal(t, 12, m.AC)
	assert.Equal(t, 8, m.MaxHP)
	assert.Equal(t, 8, m.CurrentHP)
	assert.Equal(t, 3, m.AttackBonus)
	assert.Equal(t, 1, m.DamageDiceCount)
	assert.Equal(t, 6, m.DamageDiceSides)
}

func TestMaterialize_ExpandsCountsInOrder(t *testing.T) {
	spec := types.EncounterSpec{Monsters: []types.MonsterSpec{
		{Ref: "srd_goblin", Template: types.TemplateGoblin, Count: 2},
		{Ref: "wolf", Template: types.TemplateGeneric, Count: 1},
		{Ref: "ghost", Template: types.TemplateGeneric, Count: 0},
	}}

	enc := Materialize("ambush", spec)
	require.NotNil(t, enc)
	assert.Equal(t, "ambush", enc.NodeID)
	assert.True(t, enc.InProgress)
	require.Len(t, enc.Monsters, 3)
	assert.Equal(t, "Goblin", enc.Monsters[0].Name)
	assert.Equal(t, "Goblin", enc.Monsters[1].Name)
	assert.Equal(t, "wolf", enc.Monsters[2].Name)
}

func TestMaterialize_InstancesAreIndependent(t *testing.T) {
	spec := types.EncounterSpec{Monsters: []types.MonsterSpec{
		{Ref: "srd_goblin", Template: types.TemplateGoblin, Count: 2},
	}}
	enc := Materialize("n", spec)
	enc.Monsters[0].CurrentHP = 0
	assert.Equal(t, 7, enc.Monsters[1].CurrentHP)
}
