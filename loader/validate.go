package loader

import (
	"fmt"
	"strings"

	"github.com/gherrick0918/SoloDnDApp/engine/bestiary"
	"github.com/gherrick0918/SoloDnDApp/engine/combat"
	"github.com/gherrick0918/SoloDnDApp/engine/rules"
	"github.com/gherrick0918/SoloDnDApp/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// HasErrors reports whether any fatal problem was found.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks a compiled campaign and resolves its ability and monster
// references into their enumerations in place. The report is never nil;
// callers check HasErrors. Unknown abilities and monster refs, dangling
// choice targets and unreachable combat outcomes are warnings: the engine
// degrades gracefully or reports a broken graph if play reaches them.
func Validate(c *types.Campaign) *ValidationError {
	ve := &ValidationError{}
	validate(c, ve)
	return ve
}

func validate(c *types.Campaign, ve *ValidationError) {
	ids := make(map[string]bool, len(c.Nodes))
	for _, n := range c.Nodes {
		if n.ID == "" {
			continue
		}
		if ids[n.ID] {
			ve.errorf("duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
	}

	if c.StartNodeID != "" && !ids[c.StartNodeID] {
		ve.errorf("start node %q not found in campaign nodes", c.StartNodeID)
	}

	target := func(node, what, id string) {
		if id != "" && !ids[id] {
			ve.warnf("node %q %s points to undefined node %q", node, what, id)
		}
	}

	for i := range c.Nodes {
		n := &c.Nodes[i]
		for j := range n.Choices {
			ch := &n.Choices[j]
			what := fmt.Sprintf("choice %q", ch.ID)
			if sc := ch.SkillCheck; sc != nil {
				resolveAbility(n.ID, ch.ID, sc, ve)
				target(n.ID, what+" success_next", sc.SuccessNext)
				target(n.ID, what+" failure_next", sc.FailureNext)
				if ch.Next != "" {
					ve.warnf("node %q choice %q has both next and skill_check; next is ignored", n.ID, ch.ID)
				}
			} else {
				target(n.ID, what, ch.Next)
			}
		}

		switch n.Kind {
		case types.NodeCombat:
			validateCombatNode(n, ve)
			target(n.ID, "on_victory", n.OnVictory)
			target(n.ID, "on_defeat", n.OnDefeat)
		case types.NodeEnd:
			if len(n.Choices) > 0 {
				ve.warnf("end node %q has choices; they are never offered", n.ID)
			}
		}
	}
}

func validateCombatNode(n *types.Node, ve *ValidationError) {
	if n.Encounter == nil {
		ve.warnf("combat node %q has no encounter", n.ID)
	} else {
		for k := range n.Encounter.Monsters {
			resolveMonster(n.ID, &n.Encounter.Monsters[k], ve)
		}
	}
	for _, ch := range n.Choices {
		if ch.ID != combat.ActionAttack && ch.ID != combat.ActionContinue {
			ve.warnf("combat node %q choice %q is not %q or %q",
				n.ID, ch.ID, combat.ActionAttack, combat.ActionContinue)
		}
	}
}

func resolveAbility(nodeID, choiceID string, sc *types.SkillCheck, ve *ValidationError) {
	a, ok := rules.ParseAbility(sc.AbilityName)
	if !ok && sc.AbilityName != "" {
		ve.warnf("node %q choice %q: unknown ability %q; the check will not roll",
			nodeID, choiceID, sc.AbilityName)
	}
	sc.Ability = a
}

func resolveMonster(nodeID string, m *types.MonsterSpec, ve *ValidationError) {
	t, ok := bestiary.ParseRef(m.Ref)
	if !ok && m.Ref != "" {
		ve.warnf("node %q: unknown monster ref %q; using generic stats", nodeID, m.Ref)
	}
	m.Template = t
}
