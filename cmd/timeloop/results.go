package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-timeloop/internal/storage"
)

var (
	flagResultsLimit int
	flagResultsClear bool
)

var resultsCmd = &cobra.Command{
	Use:   "results [level]",
	Short: "Show saved results",
	Long: `Without an argument, show per-level statistics and the most recent
attempts. With a level id, show the best solved runs for that level:
fewer ghosts rank first, then fewer moves.

Examples:
  timeloop results
  timeloop results first_steps
  timeloop results first_steps --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().IntVarP(&flagResultsLimit, "limit", "n", 10, "Number of rows to show")
	resultsCmd.Flags().BoolVar(&flagResultsClear, "clear", false, "Delete the saved results of the level")
}

func runResults(_ *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 0 {
		if flagResultsClear {
			return errors.New("--clear needs a level id")
		}
		return showSummary(store)
	}

	levelID := args[0]
	if flagResultsClear {
		if err := store.ClearResults(levelID); err != nil {
			return err
		}
		fmt.Printf("Cleared results for %s.\n", levelID)
		return nil
	}
	return showLevel(store, levelID)
}

func showLevel(store *storage.Store, levelID string) error {
	stats, err := store.LevelStats(levelID)
	if err != nil {
		return err
	}
	best, err := store.BestResults(levelID, flagResultsLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Results - %s\n", levelID)
	fmt.Println()
	fmt.Printf("Attempts: %d, solved: %d\n", stats.Attempts, stats.Solved)
	fmt.Println()

	if len(best) == 0 {
		fmt.Println("Not solved yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-6s  %-5s  %-9s  %s\n", "Rank", "Ghosts", "Moves", "Rollovers", "Date")
	fmt.Printf("  %-4s  %-6s  %-5s  %-9s  %s\n", "----", "------", "-----", "---------", "----")
	for i, r := range best {
		fmt.Printf("  %-4d  %-6d  %-5d  %-9d  %s\n", i+1, r.GhostsUsed, r.Turns, r.Rollovers, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func showSummary(store *storage.Store) error {
	all, err := store.AllLevelStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Println("Run 'timeloop play' to make the first attempt!")
		return nil
	}

	ids := make([]string, 0, len(all))
	maxIDLen := 5 // "Level" header
	for id := range all {
		ids = append(ids, id)
		maxIDLen = max(maxIDLen, len(id))
	}
	sort.Strings(ids)

	fmt.Printf("  %-*s  %8s  %6s  %s\n", maxIDLen, "Level", "Attempts", "Solved", "Best")
	fmt.Printf("  %-*s  %8s  %6s  %s\n", maxIDLen, "-----", "--------", "------", "----")
	for _, id := range ids {
		st := all[id]
		best := "-"
		if st.BestTurns >= 0 {
			best = fmt.Sprintf("%d ghosts, %d moves", st.BestGhosts, st.BestTurns)
		}
		fmt.Printf("  %-*s  %8d  %6d  %s\n", maxIDLen, id, st.Attempts, st.Solved, best)
	}

	recent, err := store.RecentResults(flagResultsLimit)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Recent attempts:")
	for _, r := range recent {
		fmt.Printf("  %s  %-*s  %-13s  %d moves\n", r.CreatedAt.Format("2006-01-02 15:04"), maxIDLen, r.LevelID, r.Outcome, r.Turns)
	}
	return nil
}
