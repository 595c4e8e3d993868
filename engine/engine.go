// Package engine provides the Choose() state machine that walks a campaign
// graph one player choice at a time: narrative branches, skill checks and
// combat rounds, all driven by a seeded dice source.
package engine

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"go.uber.org/zap"

	"github.com/gherrick0918/SoloDnDApp/engine/rules"
	"github.com/gherrick0918/SoloDnDApp/engine/state"
	"github.com/gherrick0918/SoloDnDApp/types"
)

// Fixed log lines.
const (
	logAdventureOver = "The adventure is over."
	logNowhereToGo   = "Nowhere to go from here."
)

// Engine holds the campaign graph, the session state and the dice.
// It is not safe for concurrent use; see package session.
type Engine struct {
	graph  *state.Graph
	state  *types.GameState
	rng    *RNG
	roller dice.Roller
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for turn tracing.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRoller replaces the seeded RNG as the source of every roll.
func WithRoller(r dice.Roller) Option {
	return func(e *Engine) {
		if r != nil {
			e.roller = r
		}
	}
}

// New creates an engine positioned at the campaign's start node.
func New(campaign types.Campaign, character types.Character, seed uint64, opts ...Option) *Engine {
	g := state.NewGraph(campaign)
	rng := NewRNG(seed)
	e := &Engine{
		graph:  g,
		state:  state.NewState(g, character),
		rng:    rng,
		roller: rng,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("engine")
	return e
}

// State returns the live session state. Callers must treat it as read-only.
func (e *Engine) State() *types.GameState {
	return e.state
}

// Graph returns the campaign graph.
func (e *Engine) Graph() *state.Graph {
	return e.graph
}

// RNG returns the seeded dice source.
func (e *Engine) RNG() *RNG {
	return e.rng
}

// Choose applies one choice to the current node. Unknown choices, abilities
// and combat actions never fail; they only set the log. An error is
// returned only for a broken campaign graph or a failing dice source.
func (e *Engine) Choose(choiceID string) error {
	node, err := e.currentNode()
	if err != nil {
		return err
	}

	from := node.ID
	e.state.Turn++

	switch node.Kind {
	case types.NodeEnd:
		e.state.LastLog = logAdventureOver
	case types.NodeNarrative:
		err = e.chooseNarrative(node, choiceID)
	case types.NodeCombat:
		err = e.chooseCombat(node, choiceID)
	default:
		e.state.LastLog = fmt.Sprintf("Unknown node type: %s", node.Kind)
	}

	e.logger.Debug("choice applied",
		zap.Int("turn", e.state.Turn),
		zap.String("node", from),
		zap.String("choice", choiceID),
		zap.String("next", e.state.CurrentNodeID),
		zap.Int("hp", e.state.Character.CurrentHP),
		zap.Int64("rng_position", e.rng.Position()),
		zap.Error(err),
	)
	return err
}

// chooseNarrative resolves a choice on a narrative node: a skill check if
// present, otherwise a direct transition.
func (e *Engine) chooseNarrative(node *types.Node, choiceID string) error {
	choice := findChoice(node, choiceID)
	if choice == nil {
		e.state.LastLog = fmt.Sprintf("Unknown choice: %s", choiceID)
		return nil
	}

	if choice.SkillCheck != nil {
		return e.skillCheck(node, choice.SkillCheck)
	}

	if choice.Next == "" {
		e.state.LastLog = logNowhereToGo
		return nil
	}
	if err := e.moveTo(node.ID, choice.Next); err != nil {
		return err
	}
	e.state.LastLog = ""
	return nil
}

// skillCheck rolls d20 + ability modifier against the DC and follows the
// configured branch. A missing branch keeps the hero where they are.
func (e *Engine) skillCheck(node *types.Node, sc *types.SkillCheck) error {
	ability := sc.Ability
	if ability == types.AbilityUnknown {
		ability, _ = rules.ParseAbility(sc.AbilityName)
	}
	if ability == types.AbilityUnknown {
		e.state.LastLog = fmt.Sprintf("Unknown ability in skill check: %s", sc.AbilityName)
		return nil
	}

	roll, err := e.roller.Roll(20)
	if err != nil {
		return fmt.Errorf("skill check roll: %w", err)
	}
	mod := rules.Modifier(e.state.Character.Abilities, ability)
	total := roll + mod
	success := rules.MeetsDC(total, sc.DC)

	outcome := "failure"
	next := sc.FailureNext
	if success {
		outcome = "success"
		next = sc.SuccessNext
	}

	log := fmt.Sprintf("Skill check (%s, DC %d): rolled %d + %d = %d => %s",
		sc.AbilityName, sc.DC, roll, mod, total, outcome)
	if sc.Description != "" {
		log = sc.Description + "\n" + log
	}
	e.state.LastLog = log

	if next == "" {
		return nil
	}
	return e.moveTo(node.ID, next)
}

// currentNode looks up the node the session is on.
func (e *Engine) currentNode() (*types.Node, error) {
	node, err := e.graph.Node(e.state.CurrentNodeID)
	if err != nil {
		return nil, &BrokenGraphError{NodeID: e.state.CurrentNodeID}
	}
	return node, nil
}

// moveTo transitions to a node, refusing targets that do not exist.
func (e *Engine) moveTo(from, to string) error {
	if !e.graph.Has(to) {
		e.logger.Warn("transition to missing node",
			zap.String("from", from), zap.String("to", to))
		return &BrokenGraphError{NodeID: to, From: from}
	}
	e.state.CurrentNodeID = to
	return nil
}

func findChoice(node *types.Node, id string) *types.Choice {
	for i := range node.Choices {
		if node.Choices[i].ID == id {
			return &node.Choices[i]
		}
	}
	return nil
}
