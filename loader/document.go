package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Raw documents mirror the on-disk JSON. Pointer fields distinguish a
// missing required field from its zero value.

type rawCampaign struct {
	ID          *string    `json:"id"`
	Title       *string    `json:"title"`
	StartNodeID *string    `json:"startNodeId"`
	Nodes       *[]rawNode `json:"nodes"`
}

type rawNode struct {
	ID        *string       `json:"id"`
	Type      *string       `json:"type"`
	Title     *string       `json:"title"`
	Text      []string      `json:"text"`
	Choices   []rawChoice   `json:"choices"`
	Encounter *rawEncounter `json:"encounter"`
	OnVictory *string       `json:"on_victory"`
	OnDefeat  *string       `json:"on_defeat"`
}

type rawChoice struct {
	ID         *string        `json:"id"`
	Label      *string        `json:"label"`
	Next       *string        `json:"next"`
	SkillCheck *rawSkillCheck `json:"skill_check"`
}

type rawSkillCheck struct {
	Ability     *string `json:"ability"`
	DC          *int    `json:"dc"`
	SuccessNext *string `json:"success_next"`
	FailureNext *string `json:"failure_next"`
	Description *string `json:"description"`
}

type rawEncounter struct {
	Monsters *[]rawMonster `json:"monsters"`
}

type rawMonster struct {
	Ref   *string `json:"ref"`
	Count *int    `json:"count"`
}

type rawCharacter struct {
	Name             *string       `json:"name"`
	Level            *int          `json:"level"`
	Abilities        *rawAbilities `json:"abilities"`
	MaxHP            *int          `json:"max_hp"`
	CurrentHP        *int          `json:"current_hp"`
	AC               *int          `json:"ac"`
	ProficiencyBonus *int          `json:"proficiency_bonus"`
}

type rawAbilities struct {
	Str *int `json:"str"`
	Dex *int `json:"dex"`
	Con *int `json:"con"`
	Int *int `json:"int"`
	Wis *int `json:"wis"`
	Cha *int `json:"cha"`
}

// decode unmarshals a JSON document, naming the offending field when a
// value has the wrong type.
func decode(kind string, data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%s: empty document", kind)
	}
	if err := json.Unmarshal(data, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%s: field %q: expected %s, got %s",
				kind, typeErr.Field, typeErr.Type, typeErr.Value)
		}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return fmt.Errorf("%s: malformed JSON at offset %d: %w",
				kind, syntaxErr.Offset, err)
		}
		return fmt.Errorf("%s: %w", kind, err)
	}
	return nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
