// Package types defines the shared data structures for the SoloDnD engine.
// This package contains only type definitions: no logic and no methods.
package types

// NodeKind identifies how a node reacts to a choice.
type NodeKind string

const (
	NodeNarrative NodeKind = "narrative"
	NodeCombat    NodeKind = "combat"
	NodeEnd       NodeKind = "end"
)

// Ability is one of the six fixed ability scores.
// AbilityUnknown marks a skill check whose authored ability did not parse.
type Ability int

const (
	AbilityUnknown Ability = iota
	Strength
	Dexterity
	Constitution
	Intelligence
	Wisdom
	Charisma
)

// MonsterTemplate is a stat block in the fixed bestiary.
// TemplateGeneric is used for any reference the bestiary does not know.
type MonsterTemplate int

const (
	TemplateGeneric MonsterTemplate = iota
	TemplateGoblin
)

// Campaign is the immutable node graph loaded once per session.
type Campaign struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	StartNodeID string `json:"startNodeId"`
	Nodes       []Node `json:"nodes"`
}

// Node is one addressable point in the campaign graph.
type Node struct {
	ID        string         `json:"id"`
	Kind      NodeKind       `json:"type"`
	Title     string         `json:"title,omitempty"`
	Text      []string       `json:"text"`
	Choices   []Choice       `json:"choices"`
	Encounter *EncounterSpec `json:"encounter,omitempty"`
	OnVictory string         `json:"on_victory,omitempty"` // combat nodes only
	OnDefeat  string         `json:"on_defeat,omitempty"`  // combat nodes only
}

// Choice is a player-selectable action on a node.
// When both Next and SkillCheck are set, the skill check wins.
type Choice struct {
	ID         string      `json:"id"`
	Label      string      `json:"label"`
	Next       string      `json:"next,omitempty"`
	SkillCheck *SkillCheck `json:"skill_check,omitempty"`
}

// SkillCheck gates a narrative branch on an ability-modified d20 roll.
type SkillCheck struct {
	Ability     Ability `json:"-"`
	AbilityName string  `json:"ability"` // as authored, used in the log line
	DC          int     `json:"dc"`
	SuccessNext string  `json:"success_next,omitempty"`
	FailureNext string  `json:"failure_next,omitempty"`
	Description string  `json:"description,omitempty"`
}

// EncounterSpec is the declarative monster list of a combat node.
type EncounterSpec struct {
	Monsters []MonsterSpec `json:"monsters"`
}

// MonsterSpec references a bestiary template and how many to spawn.
type MonsterSpec struct {
	Ref      string          `json:"ref"`
	Template MonsterTemplate `json:"-"`
	Count    int             `json:"count"`
}

// Monster is a live combatant inside an encounter.
type Monster struct {
	Name            string `json:"name"`
	AC              int    `json:"ac"`
	MaxHP           int    `json:"max_hp"`
	CurrentHP       int    `json:"current_hp"`
	AttackBonus     int    `json:"attack_bonus"`
	DamageDiceCount int    `json:"damage_dice_count"`
	DamageDiceSides int    `json:"damage_dice_sides"`
}

// Encounter is the mutable combat instance materialized for a combat node.
type Encounter struct {
	NodeID     string    `json:"node_id"`
	Monsters   []Monster `json:"monsters"`
	InProgress bool      `json:"in_progress"`
}

// AbilityScores holds the six raw ability scores.
type AbilityScores struct {
	Str int `json:"str"`
	Dex int `json:"dex"`
	Con int `json:"con"`
	Int int `json:"int"`
	Wis int `json:"wis"`
	Cha int `json:"cha"`
}

// Character is the player's stat sheet.
type Character struct {
	Name             string        `json:"name"`
	Level            int           `json:"level"`
	Abilities        AbilityScores `json:"abilities"`
	MaxHP            int           `json:"max_hp"`
	CurrentHP        int           `json:"current_hp"`
	AC               int           `json:"ac"`
	ProficiencyBonus int           `json:"proficiency_bonus"`
}

// GameState is the complete mutable session state.
type GameState struct {
	Character     Character
	CurrentNodeID string
	Encounters    map[string]*Encounter // by combat node ID, created on first entry
	LastLog       string                // empty means no log
	Turn          int
}

// ChoiceView is a choice reduced to what a UI needs.
type ChoiceView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// CharacterSummary is the character line shown under every node.
type CharacterSummary struct {
	Name      string `json:"name"`
	Level     int    `json:"level"`
	CurrentHP int    `json:"current_hp"`
	MaxHP     int    `json:"max_hp"`
}

// NodeView is the presentation-ready projection of the current node.
type NodeView struct {
	Title            string           `json:"title,omitempty"`
	Text             []string         `json:"text"`
	Choices          []ChoiceView     `json:"choices"`
	CharacterSummary CharacterSummary `json:"character_summary"`
	Log              string           `json:"log,omitempty"`
}
