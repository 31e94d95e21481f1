package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-timeloop/internal/config"
	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop"
	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/sim"
	"github.com/vovakirdan/tui-timeloop/internal/journal"
)

var replayCmd = &cobra.Command{
	Use:   "replay [journal]",
	Short: "Verify a recorded run",
	Long: `Replay a run journal against its level and check the recorded
state hash after every command. Fails on the first divergence.

With no argument the journals in the configured directory are listed.

Examples:
  timeloop replay
  timeloop replay ~/.timeloop/journals/first_steps-20250101-120000.jsonl.zst`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func runReplay(_ *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return listJournals(cfg)
	}

	records, err := journal.Read(args[0])
	if err != nil {
		return err
	}
	campaign, err := openCampaign(cfg)
	if err != nil {
		return err
	}

	rep, err := timeloop.Verify(records, campaign, sim.Options{DefaultGhostLimit: cfg.Rules.DefaultGhostLimit})
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(args[0]), err)
	}

	fmt.Printf("Level:     %s (%s)\n", rep.LevelName, rep.LevelID)
	fmt.Printf("Commands:  %d\n", rep.Commands)
	fmt.Printf("Restarts:  %d\n", rep.Restarts)
	fmt.Printf("Outcome:   %s\n", rep.Outcome)
	fmt.Printf("Hash:      %s\n", journal.FormatHash(rep.FinalHash))
	fmt.Println()
	fmt.Println("Replay matches the journal.")
	return nil
}

func listJournals(cfg config.Config) error {
	dir, err := config.ExpandHome(cfg.Journal.Dir)
	if err != nil {
		return err
	}
	files, err := journal.List(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("No journals in %s.\n", dir)
		return nil
	}

	fmt.Printf("Journals in %s:\n", dir)
	fmt.Println()
	for _, f := range files {
		fmt.Printf("  %s\n", filepath.Base(f))
	}
	fmt.Println()
	fmt.Println("Run 'timeloop replay <file>' to verify one.")
	return nil
}
