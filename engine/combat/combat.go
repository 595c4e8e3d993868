// Package combat resolves one round of combat between the hero and the
// monsters of an encounter.
package combat

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/gherrick0918/SoloDnDApp/engine/rules"
	"github.com/gherrick0918/SoloDnDApp/types"
)

// Combat choice IDs understood by combat nodes.
const (
	ActionAttack   = "attack"
	ActionContinue = "continue"
)

// HeroDamageDie is the fixed weapon die for hero attacks.
const HeroDamageDie = 8

// Round is the outcome of one resolved combat choice.
type Round struct {
	Lines     []string
	Over      bool
	HeroAlive bool
}

// HeroAttack rolls d20 + Strength modifier + proficiency against the
// monster's AC. On a hit the monster takes max(1, 1d8 + Strength modifier).
func HeroAttack(hero types.Character, m *types.Monster, r dice.Roller) (string, error) {
	roll, err := r.Roll(20)
	if err != nil {
		return "", fmt.Errorf("hero attack roll: %w", err)
	}
	if !rules.MeetsDC(roll+rules.AttackBonus(hero), m.AC) {
		return fmt.Sprintf("You miss %s.", m.Name), nil
	}

	dmgRoll, err := r.Roll(HeroDamageDie)
	if err != nil {
		return "", fmt.Errorf("hero damage roll: %w", err)
	}
	dmg := floorDamage(dmgRoll + rules.Modifier(hero.Abilities, types.Strength))
	m.CurrentHP -= dmg
	return fmt.Sprintf("You hit %s for %d damage!", m.Name, dmg), nil
}

// MonsterAttack rolls d20 + the monster's attack bonus against the hero's
// AC. On a hit the hero takes max(1, the monster's damage dice).
func MonsterAttack(m types.Monster, hero *types.Character, r dice.Roller) (string, error) {
	roll, err := r.Roll(20)
	if err != nil {
		return "", fmt.Errorf("%s attack roll: %w", m.Name, err)
	}
	if !rules.MeetsDC(roll+m.AttackBonus, hero.AC) {
		return fmt.Sprintf("%s misses you.", m.Name), nil
	}

	dmg, err := sum(r, m.DamageDiceCount, m.DamageDiceSides)
	if err != nil {
		return "", fmt.Errorf("%s damage roll: %w", m.Name, err)
	}
	dmg = floorDamage(dmg)
	hero.CurrentHP -= dmg
	return fmt.Sprintf("%s hits you for %d damage!", m.Name, dmg), nil
}

// FirstAlive returns the first monster in list order with HP left, or nil.
func FirstAlive(enc *types.Encounter) *types.Monster {
	for i := range enc.Monsters {
		if enc.Monsters[i].CurrentHP > 0 {
			return &enc.Monsters[i]
		}
	}
	return nil
}

// IsOver reports whether the encounter has ended: it was marked finished,
// the hero is down, or every monster is down.
func IsOver(enc *types.Encounter, hero types.Character) bool {
	if !enc.InProgress || !rules.Alive(hero) {
		return true
	}
	return FirstAlive(enc) == nil
}

// Reprisal lets every living monster, in order, attack the hero. A monster
// acts only while the hero is still standing.
func Reprisal(enc *types.Encounter, hero *types.Character, r dice.Roller) ([]string, error) {
	var lines []string
	for _, m := range enc.Monsters {
		if m.CurrentHP <= 0 || !rules.Alive(*hero) {
			continue
		}
		line, err := MonsterAttack(m, hero, r)
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// ResolveRound applies one combat choice: the hero's action, the monster
// reprisal phase, then the termination check. A finished encounter is
// marked not in progress.
func ResolveRound(action string, enc *types.Encounter, hero *types.Character, r dice.Roller) (Round, error) {
	var round Round

	switch action {
	case ActionAttack:
		if target := FirstAlive(enc); target != nil {
			line, err := HeroAttack(*hero, target, r)
			if err != nil {
				return round, err
			}
			round.Lines = append(round.Lines, line)
		} else {
			round.Lines = append(round.Lines, "There is nothing left to attack.")
		}
	case ActionContinue:
		round.Lines = append(round.Lines, "You press on...")
	default:
		round.Lines = append(round.Lines, fmt.Sprintf("Unknown combat choice: %s", action))
	}

	if rules.Alive(*hero) {
		lines, err := Reprisal(enc, hero, r)
		round.Lines = append(round.Lines, lines...)
		if err != nil {
			return round, err
		}
	}

	round.HeroAlive = rules.Alive(*hero)
	if IsOver(enc, *hero) {
		enc.InProgress = false
		round.Over = true
	}
	return round, nil
}

func floorDamage(dmg int) int {
	if dmg < 1 {
		return 1
	}
	return dmg
}

func sum(r dice.Roller, count, sides int) (int, error) {
	if count <= 0 {
		return 0, nil
	}
	rolls, err := r.RollN(count, sides)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, v := range rolls {
		total += v
	}
	return total, nil
}
