package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gherrick0918/SoloDnDApp/engine"
	"github.com/gherrick0918/SoloDnDApp/engine/state"
	"github.com/gherrick0918/SoloDnDApp/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the SoloDnD TUI.
type Model struct {
	engine *engine.Engine

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)
	current  types.NodeView

	width      int
	height     int
	ready      bool
	trace      bool
	quitting   bool
	lastChoice string
	err        error
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string          // echoed player input (empty for the opening view)
	lines    []string        // output lines
	view     *types.NodeView // view the lines were rendered from, if any
	isSystem bool            // true for meta-command output
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "choice number or id, /help"
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine:  eng,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program. It returns the engine failure that
// ended the program, if any.
func Run(eng *engine.Engine) error {
	m := New(eng)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

// Init returns the initial command that produces the title and first view.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		var lines []string
		if title := m.engine.Graph().Title(); title != "" {
			lines = append(lines, "*** "+title+" ***", "")
		}
		v, err := m.engine.View()
		if err != nil {
			return gameOutputMsg{lines: []string{err.Error()}, isSystem: true}
		}
		lines = append(lines, renderNode(v)...)
		return gameOutputMsg{lines: lines, view: &v}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		if msg.view != nil {
			m.current = *msg.view
		}
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Handle "again" / "g".
	id := input
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastChoice == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		id = m.lastChoice
	} else if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(m.current.Choices) {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Choice out of range."}, isSystem: true,
			})
			return m, nil
		}
		id = m.current.Choices[n-1].ID
	}
	m.lastChoice = id

	return m.choose(input, id)
}

// choose applies a choice and appends the resulting view.
func (m Model) choose(input, id string) (tea.Model, tea.Cmd) {
	err := m.engine.Choose(id)
	var broken *engine.BrokenGraphError
	switch {
	case errors.As(err, &broken):
		m = m.appendOutput(gameOutputMsg{
			input: input, lines: []string{fmt.Sprintf("Broken campaign: %v", err)}, isSystem: true,
		})
		return m, nil
	case err != nil:
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}

	v, err := m.engine.View()
	if err != nil {
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}

	output := renderNode(v)
	if m.trace {
		s := m.engine.State()
		output = append(output, fmt.Sprintf("[trace] turn %d, node %s, rng position %d",
			s.Turn, s.CurrentNodeID, m.engine.RNG().Position()))
	}
	m.current = v
	m = m.appendOutput(gameOutputMsg{input: input, lines: output})
	return m, nil
}

// renderNode turns a view into output lines.
func renderNode(v types.NodeView) []string {
	var lines []string
	if v.Title != "" {
		lines = append(lines, "== "+v.Title+" ==")
	}
	lines = append(lines, v.Text...)
	if len(v.Choices) == 0 {
		lines = append(lines, "", "[END OF ADVENTURE]")
		return lines
	}
	lines = append(lines, "")
	for i, c := range v.Choices {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, c.Label))
	}
	return lines
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		// Logs may carry several lines.
		for _, part := range strings.Split(line, "\n") {
			rl := rawLine{text: part, isSystem: msg.isSystem}
			if !msg.isSystem {
				rl.kind = classifyLine(part)
			}
			m.rawLines = append(m.rawLines, rl)
		}
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindTitle:
		return styleTitle.Render(line)
	case kindChoice:
		return styleChoice.Render(line)
	case kindHeroHit:
		return styleHeroHit.Render(line)
	case kindMonsterHit:
		return styleMonsterHit.Render(line)
	case kindMiss:
		return styleMiss.Render(line)
	case kindCheck:
		return styleCheck.Render(line)
	case kindOutcome:
		return styleOutcome.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump current state",
		"  /trace        Toggle debug trace output",
		"",
		"Playing:",
		"  <number>      Pick a listed choice",
		"  <choice id>   Pick a choice by its id",
		"  again (g)     Repeat your last choice",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for input history",
	}
}

func (m *Model) cmdState() []string {
	s := m.engine.State()
	ch := s.Character
	output := []string{
		fmt.Sprintf("Turn: %d", s.Turn),
		fmt.Sprintf("Node: %s", s.CurrentNodeID),
		fmt.Sprintf("%s: level %d, HP %d/%d, AC %d", ch.Name, ch.Level, ch.CurrentHP, ch.MaxHP, ch.AC),
		fmt.Sprintf("Seed: %d (position %d)", m.engine.RNG().Seed(), m.engine.RNG().Position()),
	}
	if enc := state.ActiveEncounter(s); enc != nil {
		status := "over"
		if enc.InProgress {
			status = "in progress"
		}
		output = append(output, fmt.Sprintf("Encounter: %s", status))
		for _, mon := range enc.Monsters {
			output = append(output, fmt.Sprintf("  %s HP %d/%d", mon.Name, mon.CurrentHP, mon.MaxHP))
		}
	}
	return output
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
