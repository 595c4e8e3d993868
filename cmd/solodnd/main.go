// SoloDnD plays branching solo adventures with skill checks and turn-based
// combat, deterministically from a seed.
//
// Usage: solodnd [play] [--campaign <file|dir>] [--character <file>] [--seed <n>] [--plain] [--script <file>] [--trace]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gherrick0918/SoloDnDApp/config"
	"github.com/gherrick0918/SoloDnDApp/content"
	"github.com/gherrick0918/SoloDnDApp/loader"
	"github.com/gherrick0918/SoloDnDApp/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	// Flags shared by every command. Set flags win over configuration.
	campaignPath  string
	characterPath string
	seed          uint64
)

var rootCmd = &cobra.Command{
	Use:   "solodnd",
	Short: "Solo D&D adventure player",
	Long: `SoloDnD plays branching solo adventures with skill checks and turn-based
combat. Campaigns are JSON documents or Lua scripts; without one, the bundled
Goblin Road adventure is played.`,
	SilenceUsage: true,
	RunE:         runPlay,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&campaignPath, "campaign", "", "campaign file (.json, .lua) or directory of .lua files")
	rootCmd.PersistentFlags().StringVar(&characterPath, "character", "", "character sheet (.json)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "dice seed (0 picks one at random)")

	addPlayFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(bridgeCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("solodnd %s (commit %s, built %s)\n", version, commit, date)
	},
}

// setup reads configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("campaign") {
		cfg.Campaign = campaignPath
	}
	if flags.Changed("character") {
		cfg.Character = characterPath
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("plain") {
		cfg.Plain = plain
	}

	logger, err := cfg.Logger()
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger.Named("solodnd"), nil
}

// loadGame loads the configured campaign and character, falling back to the
// bundled adventure for whichever is not set.
func loadGame(cfg config.Config, logger *zap.Logger) (types.Campaign, types.Character, error) {
	opts := []loader.Option{loader.WithLogger(logger)}

	var (
		campaign  types.Campaign
		character types.Character
		err       error
	)
	if cfg.Campaign != "" {
		campaign, err = loader.LoadCampaign(cfg.Campaign, opts...)
	} else {
		campaign, err = loader.ParseCampaign(content.Campaign(), opts...)
	}
	if err != nil {
		return types.Campaign{}, types.Character{}, fmt.Errorf("load campaign: %w", err)
	}

	if cfg.Character != "" {
		character, err = loader.LoadCharacter(cfg.Character)
	} else {
		character, err = loader.ParseCharacter(content.Character())
	}
	if err != nil {
		return types.Campaign{}, types.Character{}, fmt.Errorf("load character: %w", err)
	}

	logger.Info("game loaded",
		zap.String("campaign", campaign.ID),
		zap.Int("nodes", len(campaign.Nodes)),
		zap.String("character", character.Name))
	return campaign, character, nil
}
