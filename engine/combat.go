package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gherrick0918/SoloDnDApp/engine/bestiary"
	"github.com/gherrick0918/SoloDnDApp/engine/combat"
	"github.com/gherrick0918/SoloDnDApp/types"
)

// Combat outcome lines.
const (
	logNoEncounter   = "No encounter to resolve."
	logVictory       = "You won the fight!"
	logVictoryNoExit = "You have won, but the story has nowhere to go."
	logDefeat        = "You have been defeated..."
)

// chooseCombat resolves one round on a combat node. The encounter is
// materialized the first time the node is played and cached by node ID, so
// returning to a resolved combat node replays its finished encounter.
func (e *Engine) chooseCombat(node *types.Node, choiceID string) error {
	enc, ok := e.state.Encounters[node.ID]
	if !ok {
		if node.Encounter == nil {
			e.state.LastLog = logNoEncounter
			return nil
		}
		enc = bestiary.Materialize(node.ID, *node.Encounter)
		e.state.Encounters[node.ID] = enc
		e.logger.Debug("encounter materialized",
			zap.String("node", node.ID),
			zap.Int("monsters", len(enc.Monsters)))
	}

	round, err := combat.ResolveRound(choiceID, enc, &e.state.Character, e.roller)
	lines := round.Lines
	if err != nil {
		e.state.LastLog = strings.Join(lines, "\n")
		return fmt.Errorf("resolve combat round: %w", err)
	}

	var moveErr error
	if round.Over {
		switch {
		case round.HeroAlive && node.OnVictory != "":
			lines = append(lines, logVictory)
			moveErr = e.moveTo(node.ID, node.OnVictory)
		case round.HeroAlive:
			lines = append(lines, logVictoryNoExit)
		case node.OnDefeat != "":
			lines = append(lines, logDefeat)
			moveErr = e.moveTo(node.ID, node.OnDefeat)
		}
		e.logger.Debug("encounter over",
			zap.String("node", node.ID),
			zap.Bool("victory", round.HeroAlive))
	}

	e.state.LastLog = strings.Join(lines, "\n")
	return moveErr
}
