// Package cli provides the plain console loop for SoloDnD: numbered
// choices, meta commands and script playback.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gherrick0918/SoloDnDApp/engine"
	"github.com/gherrick0918/SoloDnDApp/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine     *engine.Engine
	In         io.Reader
	Out        io.Writer
	Trace      bool
	EchoInput  bool   // echo each input line after the prompt (for script playback)
	lastChoice string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the game loop: show the view, read a choice, apply it. It
// returns when the adventure ends, on /quit, or when input runs out. A
// broken campaign link is reported and play continues; any other engine
// failure is returned.
func (c *CLI) Run() error {
	if title := c.Engine.Graph().Title(); title != "" {
		c.printLine("*** " + title + " ***")
	}

	scanner := bufio.NewScanner(c.In)
	for {
		view, err := c.Engine.View()
		if err != nil {
			return err
		}
		c.printView(view)

		if len(view.Choices) == 0 {
			c.printLine("")
			c.printLine("[END OF ADVENTURE]")
			return nil
		}

		id, quit := c.readChoice(scanner, view)
		if quit {
			return nil
		}

		err = c.Engine.Choose(id)
		var broken *engine.BrokenGraphError
		switch {
		case errors.As(err, &broken):
			c.printSystem(fmt.Sprintf("Broken campaign: %v", err))
		case err != nil:
			return err
		}

		if c.Trace {
			c.printTrace()
		}
	}
}

// readChoice prompts until it has a choice ID to apply. A number selects a
// listed choice; anything else is passed through as a choice ID.
func (c *CLI) readChoice(scanner *bufio.Scanner, view types.NodeView) (id string, quit bool) {
	for {
		c.print("\n> ")
		if !scanner.Scan() {
			c.printLine("")
			return "", true
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return "", true
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastChoice == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			return c.lastChoice, false
		}

		if n, err := strconv.Atoi(input); err == nil {
			if n < 1 || n > len(view.Choices) {
				c.printLine("Choice out of range.")
				continue
			}
			input = view.Choices[n-1].ID
		}
		c.lastChoice = input
		return input, false
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
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
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Engine.State()
	ch := s.Character
	c.printSystem(fmt.Sprintf("Turn: %d", s.Turn))
	c.printSystem(fmt.Sprintf("Node: %s", s.CurrentNodeID))
	c.printSystem(fmt.Sprintf("%s: level %d, HP %d/%d, AC %d", ch.Name, ch.Level, ch.CurrentHP, ch.MaxHP, ch.AC))
	c.printSystem(fmt.Sprintf("Seed: %d (position %d)", c.Engine.RNG().Seed(), c.Engine.RNG().Position()))
	if enc := s.Encounters[s.CurrentNodeID]; enc != nil {
		status := "over"
		if enc.InProgress {
			status = "in progress"
		}
		c.printSystem(fmt.Sprintf("Encounter: %s", status))
		for _, m := range enc.Monsters {
			c.printSystem(fmt.Sprintf("  %s HP %d/%d", m.Name, m.CurrentHP, m.MaxHP))
		}
	}
}

func (c *CLI) printTrace() {
	s := c.Engine.State()
	c.printLine(fmt.Sprintf("[trace] turn %d, node %s, rng position %d",
		s.Turn, s.CurrentNodeID, c.Engine.RNG().Position()))
}

func (c *CLI) printView(v types.NodeView) {
	if v.Title != "" {
		c.printLine("")
		c.printLine("== " + v.Title + " ==")
	}
	for _, para := range v.Text {
		if para != "" {
			c.printLine(para)
		}
	}
	cs := v.CharacterSummary
	c.printLine("")
	c.printLine(fmt.Sprintf("%s (Lv %d) HP %d/%d", cs.Name, cs.Level, cs.CurrentHP, cs.MaxHP))

	if len(v.Choices) == 0 {
		return
	}
	c.printLine("")
	c.printLine("Choices:")
	for i, ch := range v.Choices {
		c.printLine(fmt.Sprintf("  %d. %s", i+1, ch.Label))
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
