package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gherrick0918/SoloDnDApp/engine/state"
)

// nodeDisplayName derives a human-readable name from a node ID.
// "goblin_camp" -> "Goblin Camp".
func nodeDisplayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// renderStatusBar produces a full-width inverted status line showing the
// current node, the hero's hit points, any live monsters and the turn count.
func (m Model) renderStatusBar() string {
	s := m.engine.State()

	place := m.current.Title
	if place == "" {
		place = nodeDisplayName(s.CurrentNodeID)
	}

	ch := s.Character
	left := fmt.Sprintf(" %s | %s HP %d/%d", place, ch.Name, ch.CurrentHP, ch.MaxHP)
	right := fmt.Sprintf("T:%d ", s.Turn)

	// Show monster hit points while a fight is on, if they fit.
	if enc := state.ActiveEncounter(s); enc != nil && enc.InProgress {
		var foes []string
		for _, mon := range enc.Monsters {
			if mon.CurrentHP > 0 {
				foes = append(foes, fmt.Sprintf("%s %d/%d", mon.Name, mon.CurrentHP, mon.MaxHP))
			}
		}
		candidate := fmt.Sprintf("Foes: %s | T:%d ", strings.Join(foes, ", "), s.Turn)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Foes: %d | T:%d ", len(foes), s.Turn)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	style := styleStatusBar
	if ch.MaxHP > 0 && ch.CurrentHP*4 <= ch.MaxHP {
		style = styleStatusDanger
	}
	return style.Width(m.width).Render(bar)
}
