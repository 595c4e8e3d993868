package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusDanger = lipgloss.NewStyle().
				Background(lipgloss.Color("236")).
				Foreground(lipgloss.Color("203")).
				Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleChoice = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleHeroHit = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Bold(true)

	styleMonsterHit = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleMiss = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	styleCheck = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleOutcome = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindTitle
	kindChoice
	kindHeroHit
	kindMonsterHit
	kindMiss
	kindCheck
	kindOutcome
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "== ") && strings.HasSuffix(line, " =="),
		strings.HasPrefix(line, "*** ") && strings.HasSuffix(line, " ***"):
		return kindTitle
	case isChoiceLine(line):
		return kindChoice
	case strings.HasPrefix(line, "You hit "):
		return kindHeroHit
	case strings.Contains(line, " hits you for "):
		return kindMonsterHit
	case strings.HasPrefix(line, "You miss "), strings.HasSuffix(line, " misses you."):
		return kindMiss
	case strings.HasPrefix(line, "Skill check ("):
		return kindCheck
	case line == "You won the fight!", line == "You have been defeated...":
		return kindOutcome
	case strings.HasPrefix(line, "Unknown "),
		line == "Nowhere to go from here.",
		line == "No encounter to resolve.":
		return kindError
	default:
		return kindNarrative
	}
}

// isChoiceLine reports whether line is a numbered choice ("  2. Run").
func isChoiceLine(line string) bool {
	rest, ok := strings.CutPrefix(line, "  ")
	if !ok {
		return false
	}
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	return digits > 0 && strings.HasPrefix(rest[digits:], ". ")
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
