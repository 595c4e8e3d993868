package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gherrick0918/SoloDnDApp/bridge"
	"github.com/gherrick0918/SoloDnDApp/loader"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the opening view as JSON",
	Long:  `Load the campaign and character and print the view of the start node as JSON.`,
	RunE:  runView,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a campaign and list its warnings",
	Long: `Load a campaign, report fatal problems as an error, and print every warning:
dangling links, unknown abilities and unknown monster references.`,
	RunE: runValidate,
}

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Serve JSON requests on stdin",
	Long: `Read one JSON request per line from stdin and write one JSON response per
line to stdout. Requests carry an op (init, view, choose, close) and a session
handle; see the bridge package for the document shapes.`,
	RunE: runBridge,
}

func runView(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	eng, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}
	v, err := eng.View()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	campaign, _, err := loadGame(cfg, logger)
	if err != nil {
		return err
	}

	report := loader.Validate(&campaign)
	for _, w := range report.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	fmt.Printf("%s: %d nodes, %d warning(s)\n", campaign.ID, len(campaign.Nodes), len(report.Warnings))
	return nil
}

func runBridge(cmd *cobra.Command, _ []string) error {
	_, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	return serveBridge(bridge.New(logger), os.Stdin, os.Stdout)
}

// serveBridge answers one JSON request per input line until input ends or
// a response cannot be written.
func serveBridge(b *bridge.Bridge, in io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	out := bufio.NewWriter(w)

	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		buf := b.Dispatch(scanner.Bytes())
		_, werr := out.Write(buf.Bytes())
		if werr == nil {
			werr = out.WriteByte('\n')
		}
		if werr == nil {
			werr = out.Flush()
		}
		if err := b.Release(buf); err != nil {
			return err
		}
		if werr != nil {
			return fmt.Errorf("write response: %w", werr)
		}
	}
	return scanner.Err()
}
