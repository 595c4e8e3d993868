package rules

import "github.com/gherrick0918/SoloDnDApp/types"

// MeetsDC returns true if total >= dc. Ties succeed.
func MeetsDC(total, dc int) bool {
	return total >= dc
}

// AttackBonus is the hero's melee to-hit bonus: Strength modifier plus
// proficiency.
func AttackBonus(c types.Character) int {
	return Modifier(c.Abilities, types.Strength) + c.ProficiencyBonus
}

// Alive reports whether the character still has hit points.
func Alive(c types.Character) bool {
	return c.CurrentHP > 0
}
