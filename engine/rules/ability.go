// Package rules implements the ability-score arithmetic shared by skill
// checks and combat.
package rules

import (
	"strings"

	"github.com/gherrick0918/SoloDnDApp/types"
)

// abilityNames maps every accepted spelling (upper-cased) to its ability.
var abilityNames = map[string]types.Ability{
	"STR":          types.Strength,
	"STRENGTH":     types.Strength,
	"DEX":          types.Dexterity,
	"DEXTERITY":    types.Dexterity,
	"CON":          types.Constitution,
	"CONSTITUTION": types.Constitution,
	"INT":          types.Intelligence,
	"INTELLIGENCE": types.Intelligence,
	"WIS":          types.Wisdom,
	"WISDOM":       types.Wisdom,
	"CHA":          types.Charisma,
	"CHARISMA":     types.Charisma,
}

// ParseAbility resolves a three-letter code or full ability name,
// case-insensitively. Unknown names return (AbilityUnknown, false).
func ParseAbility(s string) (types.Ability, bool) {
	a, ok := abilityNames[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return types.AbilityUnknown, false
	}
	return a, true
}

// AbilityName returns the full display name of an ability.
func AbilityName(a types.Ability) string {
	switch a {
	case types.Strength:
		return "Strength"
	case types.Dexterity:
		return "Dexterity"
	case types.Constitution:
		return "Constitution"
	case types.Intelligence:
		return "Intelligence"
	case types.Wisdom:
		return "Wisdom"
	case types.Charisma:
		return "Charisma"
	default:
		return "Unknown"
	}
}

// Score selects the raw score for an ability. Unknown abilities score 10,
// which yields a zero modifier.
func Score(scores types.AbilityScores, a types.Ability) int {
	switch a {
	case types.Strength:
		return scores.Str
	case types.Dexterity:
		return scores.Dex
	case types.Constitution:
		return scores.Con
	case types.Intelligence:
		return scores.Int
	case types.Wisdom:
		return scores.Wis
	case types.Charisma:
		return scores.Cha
	default:
		return 10
	}
}

// Modifier computes (score - 10) / 2 with Go's truncating division,
// so a score of 9 yields 0 and 8 yields -1.
func Modifier(scores types.AbilityScores, a types.Ability) int {
	return (Score(scores, a) - 10) / 2
}
