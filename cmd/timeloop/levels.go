package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/levels"
	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/levels/formats"
	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/sim"
)

var (
	flagNewW      int
	flagNewH      int
	flagNewTurns  int
	flagNewID     string
	flagNewName   string
	flagNewOutput string
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Validate or scaffold level files",
}

var levelsValidateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Check level files",
	Long: `Validate level files against the level schema and the map rules.
With no arguments every level of the campaign is checked.

Examples:
  timeloop levels validate my_level.yaml
  timeloop levels validate --levels ./my-campaign`,
	RunE: runLevelsValidate,
}

var levelsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Write an empty level",
	Long: `Write a flat level of the given size with a start in the top-left
corner and an end in the bottom-right one.

Examples:
  timeloop levels new --w 8 --h 5
  timeloop levels new --w 10 --h 6 --id bridge --name Bridge -o bridge.yaml`,
	Args: cobra.NoArgs,
	RunE: runLevelsNew,
}

func init() {
	levelsNewCmd.Flags().IntVar(&flagNewW, "w", 8, "Width in cells")
	levelsNewCmd.Flags().IntVar(&flagNewH, "h", 5, "Height in cells")
	levelsNewCmd.Flags().IntVar(&flagNewTurns, "turns", 10, "Turns per round")
	levelsNewCmd.Flags().StringVar(&flagNewID, "id", "example", "Level id")
	levelsNewCmd.Flags().StringVar(&flagNewName, "name", "Example", "Level name")
	levelsNewCmd.Flags().StringVarP(&flagNewOutput, "output", "o", "", "Output file (default: stdout)")

	levelsCmd.AddCommand(levelsValidateCmd)
	levelsCmd.AddCommand(levelsNewCmd)
}

func runLevelsValidate(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return validateCampaign()
	}

	failed := 0
	for _, p := range args {
		lvl, err := levels.LoadFile(p)
		if err != nil {
			fmt.Printf("FAIL  %s\n      %v\n", p, err)
			failed++
			continue
		}
		fmt.Printf("ok    %s (%s, %dx%d)\n", p, lvl.ID, lvl.Terrain.Width, lvl.Terrain.Height)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files invalid", failed, len(args))
	}
	return nil
}

func validateCampaign() error {
	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	campaign, err := openCampaign(cfg)
	if err != nil {
		return err
	}

	var errs []error
	seen := make(map[string]string)
	for i, e := range campaign.Entries() {
		if err := campaign.Seek(i); err != nil {
			return err
		}
		lvl, err := campaign.LoadCurrent()
		if err != nil {
			fmt.Printf("FAIL  %s\n      %v\n", e.Path, err)
			errs = append(errs, err)
			continue
		}
		if prev, dup := seen[lvl.ID]; dup {
			err := fmt.Errorf("%s: level id %q already used by %s", e.Path, lvl.ID, prev)
			fmt.Printf("FAIL  %s\n      %v\n", e.Path, err)
			errs = append(errs, err)
			continue
		}
		seen[lvl.ID] = e.Path
		fmt.Printf("ok    %s (%s)\n", e.Path, lvl.Title())
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d levels invalid: %w", len(errs), campaign.Len(), errors.Join(errs...))
	}
	return nil
}

func runLevelsNew(_ *cobra.Command, _ []string) error {
	lvl := formats.Level{
		ID:      flagNewID,
		Name:    flagNewName,
		Terrain: sim.NewTerrainMap(flagNewW, flagNewH, flagNewTurns),
	}
	data, err := formats.MarshalYAML(lvl)
	if err != nil {
		return err
	}
	if flagNewOutput == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(flagNewOutput, data, 0o644); err != nil {
		return fmt.Errorf("writing level: %w", err)
	}
	fmt.Printf("Wrote %s\n", flagNewOutput)
	return nil
}
