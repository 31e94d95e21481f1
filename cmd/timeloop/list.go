package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-timeloop/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List campaign levels",
	Long: `Shows the levels of the campaign in play order, with the best
saved result for each one.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(_ *cobra.Command, _ []string) error {
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
	all, err := campaign.LoadAll()
	if err != nil {
		return err
	}

	stats := map[string]*storage.Stats{}
	if store, err := storage.Open(cfg.Storage.DBPath); err != nil {
		logger.Warn("results unavailable", "error", err)
	} else {
		defer store.Close()
		if stats, err = store.AllLevelStats(); err != nil {
			return err
		}
	}

	if len(all) == 0 {
		fmt.Println("No levels in campaign.")
		return nil
	}

	maxIDLen := 2 // "ID" header
	maxTitleLen := 5
	for _, l := range all {
		maxIDLen = max(maxIDLen, len(l.ID))
		maxTitleLen = max(maxTitleLen, len([]rune(l.Title())))
	}

	fmt.Println("Campaign levels:")
	fmt.Println()
	fmt.Printf("  %-*s  %-*s  %5s  %6s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Turns", "Ghosts", "Best")
	fmt.Printf("  %-*s  %-*s  %5s  %6s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "-----", "------", "----")

	for _, l := range all {
		t := l.Terrain
		ghosts := "-"
		if t.GhostLimit != nil {
			ghosts = fmt.Sprint(*t.GhostLimit)
		}
		best := "unsolved"
		if st, ok := stats[l.ID]; ok && st.BestTurns >= 0 {
			best = fmt.Sprintf("%d ghosts, %d moves", st.BestGhosts, st.BestTurns)
		}
		fmt.Printf("  %-*s  %-*s  %5d  %6s  %s\n", maxIDLen, l.ID, maxTitleLen, l.Title(), t.TurnLimit, ghosts, best)
	}

	fmt.Println()
	fmt.Println("Run 'timeloop play' to start.")
	return nil
}
