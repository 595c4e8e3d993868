// Package loader turns campaign and character documents into the typed
// model. Campaigns are authored as JSON or as sandboxed Lua scripts; both
// compile through the same raw form and are validated identically.
package loader

import (
	"fmt"

	"github.com/gherrick0918/SoloDnDApp/types"
)

// Upper bounds for small counters in content documents.
const (
	maxMonsterCount = 255
	maxLevel        = 255
)

var nodeKinds = map[string]types.NodeKind{
	string(types.NodeNarrative): types.NodeNarrative,
	string(types.NodeCombat):    types.NodeCombat,
	string(types.NodeEnd):       types.NodeEnd,
}

// compileCampaign converts a raw campaign into the typed model. Missing
// required fields are recorded on ve; compilation continues so every
// problem is reported in one pass.
func compileCampaign(raw rawCampaign, ve *ValidationError) types.Campaign {
	var c types.Campaign
	c.ID = required(ve, raw.ID, "campaign.id")
	c.Title = required(ve, raw.Title, "campaign.title")
	c.StartNodeID = required(ve, raw.StartNodeID, "campaign.startNodeId")
	if raw.Nodes == nil {
		ve.errorf("campaign.nodes is required")
		return c
	}

	c.Nodes = make([]types.Node, 0, len(*raw.Nodes))
	for i, rn := range *raw.Nodes {
		c.Nodes = append(c.Nodes, compileNode(rn, fmt.Sprintf("nodes[%d]", i), ve))
	}
	return c
}

func compileNode(raw rawNode, path string, ve *ValidationError) types.Node {
	n := types.Node{
		ID:        required(ve, raw.ID, path+".id"),
		Title:     str(raw.Title),
		Text:      raw.Text,
		OnVictory: str(raw.OnVictory),
		OnDefeat:  str(raw.OnDefeat),
	}
	if n.ID != "" {
		path = fmt.Sprintf("node %q", n.ID)
	}

	kind := required(ve, raw.Type, path+".type")
	if kind != "" {
		k, ok := nodeKinds[kind]
		if !ok {
			ve.errorf("%s: unknown type %q", path, kind)
		}
		n.Kind = k
	}

	for i, rc := range raw.Choices {
		n.Choices = append(n.Choices, compileChoice(rc, fmt.Sprintf("%s choices[%d]", path, i), ve))
	}

	if raw.Encounter != nil {
		n.Encounter = compileEncounter(*raw.Encounter, path+".encounter", ve)
	}
	return n
}

func compileChoice(raw rawChoice, path string, ve *ValidationError) types.Choice {
	c := types.Choice{
		ID:    required(ve, raw.ID, path+".id"),
		Label: required(ve, raw.Label, path+".label"),
		Next:  str(raw.Next),
	}
	if raw.SkillCheck == nil {
		return c
	}

	sc := raw.SkillCheck
	check := &types.SkillCheck{
		AbilityName: required(ve, sc.Ability, path+".skill_check.ability"),
		SuccessNext: str(sc.SuccessNext),
		FailureNext: str(sc.FailureNext),
		Description: str(sc.Description),
	}
	if sc.DC == nil {
		ve.errorf("%s.skill_check.dc is required", path)
	} else {
		check.DC = *sc.DC
	}
	c.SkillCheck = check
	return c
}

func compileEncounter(raw rawEncounter, path string, ve *ValidationError) *types.EncounterSpec {
	if raw.Monsters == nil {
		ve.errorf("%s.monsters is required", path)
		return &types.EncounterSpec{}
	}
	spec := &types.EncounterSpec{}
	for i, rm := range *raw.Monsters {
		mp := fmt.Sprintf("%s.monsters[%d]", path, i)
		m := types.MonsterSpec{Ref: required(ve, rm.Ref, mp+".ref")}
		switch {
		case rm.Count == nil:
			ve.errorf("%s.count is required", mp)
		case *rm.Count < 0:
			ve.errorf("%s.count must not be negative, got %d", mp, *rm.Count)
		case *rm.Count > maxMonsterCount:
			ve.errorf("%s.count must be at most %d, got %d", mp, maxMonsterCount, *rm.Count)
		default:
			m.Count = *rm.Count
		}
		spec.Monsters = append(spec.Monsters, m)
	}
	return spec
}

// compileCharacter converts a raw character sheet. Every field is required.
func compileCharacter(raw rawCharacter, ve *ValidationError) types.Character {
	c := types.Character{
		Name:             required(ve, raw.Name, "character.name"),
		Level:            requiredInt(ve, raw.Level, "character.level"),
		MaxHP:            requiredInt(ve, raw.MaxHP, "character.max_hp"),
		CurrentHP:        requiredInt(ve, raw.CurrentHP, "character.current_hp"),
		AC:               requiredInt(ve, raw.AC, "character.ac"),
		ProficiencyBonus: requiredInt(ve, raw.ProficiencyBonus, "character.proficiency_bonus"),
	}
	if c.Level < 0 || c.Level > maxLevel {
		ve.errorf("character.level must be between 0 and %d, got %d", maxLevel, c.Level)
	}
	if raw.Abilities == nil {
		ve.errorf("character.abilities is required")
		return c
	}
	a := raw.Abilities
	c.Abilities = types.AbilityScores{
		Str: requiredInt(ve, a.Str, "character.abilities.str"),
		Dex: requiredInt(ve, a.Dex, "character.abilities.dex"),
		Con: requiredInt(ve, a.Con, "character.abilities.con"),
		Int: requiredInt(ve, a.Int, "character.abilities.int"),
		Wis: requiredInt(ve, a.Wis, "character.abilities.wis"),
		Cha: requiredInt(ve, a.Cha, "character.abilities.cha"),
	}
	return c
}

func required(ve *ValidationError, p *string, field string) string {
	if p == nil {
		ve.errorf("%s is required", field)
		return ""
	}
	return *p
}

func requiredInt(ve *ValidationError, p *int, field string) int {
	if p == nil {
		ve.errorf("%s is required", field)
		return 0
	}
	return *p
}
