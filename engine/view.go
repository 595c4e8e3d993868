package engine

import (
	"github.com/gherrick0918/SoloDnDApp/engine/state"
	"github.com/gherrick0918/SoloDnDApp/types"
)

// Project builds the presentation view of the current node. It only reads
// the state; every call returns freshly allocated slices.
func Project(g *state.Graph, s *types.GameState) (types.NodeView, error) {
	node, err := g.Node(s.CurrentNodeID)
	if err != nil {
		return types.NodeView{}, &BrokenGraphError{NodeID: s.CurrentNodeID}
	}

	text := make([]string, 0, len(node.Text)+2)
	text = append(text, node.Text...)
	if s.LastLog != "" {
		text = append(text, "", s.LastLog)
	}

	choices := make([]types.ChoiceView, 0, len(node.Choices))
	if node.Kind != types.NodeEnd {
		for _, c := range node.Choices {
			choices = append(choices, types.ChoiceView{ID: c.ID, Label: c.Label})
		}
	}

	return types.NodeView{
		Title:   node.Title,
		Text:    text,
		Choices: choices,
		CharacterSummary: types.CharacterSummary{
			Name:      s.Character.Name,
			Level:     s.Character.Level,
			CurrentHP: s.Character.CurrentHP,
			MaxHP:     s.Character.MaxHP,
		},
		Log: s.LastLog,
	}, nil
}

// View projects the current node.
func (e *Engine) View() (types.NodeView, error) {
	return Project(e.graph, e.state)
}
