package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gherrick0918/SoloDnDApp/cli"
	"github.com/gherrick0918/SoloDnDApp/config"
	"github.com/gherrick0918/SoloDnDApp/engine"
	"github.com/gherrick0918/SoloDnDApp/tui"
)

var (
	plain      bool
	trace      bool
	scriptFile string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a campaign (default command)",
	Long: `Play a campaign in the terminal UI, or in a plain console when --plain is
set or stdout is not a terminal. --script replays choices from a file.`,
	RunE: runPlay,
}

func init() {
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&plain, "plain", false, "use the plain console instead of the terminal UI")
	cmd.Flags().BoolVar(&trace, "trace", false, "print turn and dice position after every choice")
	cmd.Flags().StringVar(&scriptFile, "script", "", "replay choices from a file, one per line")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	eng, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	// Script mode: open file, force plain, echo choices.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		return c.Run()
	}

	// Use plain CLI if asked to or stdout is not a terminal.
	if cfg.Plain || !isTerminal() {
		c := cli.New(eng)
		c.Trace = trace
		return c.Run()
	}

	return tui.Run(eng)
}

// newEngine loads the game and starts an engine on the configured seed,
// picking a random one when the seed is 0.
func newEngine(cfg config.Config, logger *zap.Logger) (*engine.Engine, error) {
	campaign, character, err := loadGame(cfg, logger)
	if err != nil {
		return nil, err
	}

	s := cfg.Seed
	if s == 0 {
		if s, err = engine.NewSeed(); err != nil {
			return nil, err
		}
	}
	logger.Info("session started", zap.Uint64("seed", s))

	return engine.New(campaign, character, s, engine.WithLogger(logger)), nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
