// timeloop is a terminal puzzle game about cooperating with your own past.
//
// Usage:
//
//	timeloop play                  - Play the campaign
//	timeloop list                  - List campaign levels with best results
//	timeloop levels validate <f>   - Check level files
//	timeloop levels new            - Print an empty level
//	timeloop replay <journal>      - Verify a recorded run
//	timeloop results [level]       - Show saved results
//	timeloop serve                 - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 30)
//	--config <path>    - Use a specific config file
//	--levels <dir>     - Play a campaign directory instead of the built-in one
//	--db <path>        - Set results database path
//	--log-file <path>  - Write logs to a file
//	--debug            - Debug logging and the level skip key
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-timeloop/internal/config"
	"github.com/vovakirdan/tui-timeloop/internal/core"
	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop"
	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/levels"
)

var (
	// Global flags
	flagFPS       int
	flagConfig    string
	flagLevelsDir string
	flagDBPath    string
	flagLogFile   string
	flagDebug     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "timeloop",
	Short: "Time Loop - cooperate with your past selves",
	Long: `Time Loop is a turn-based puzzle game for the terminal.

Each round gives you a fixed number of turns. When they run out the
loop resets: a ghost replays everything you did while a fresh copy of
you starts over. Press buttons, hold doors and reach the exit together.

Available commands:
  play     - Play the campaign
  list     - Show campaign levels and best results
  levels   - Validate or scaffold level files
  replay   - Verify a recorded run journal
  results  - View saved results
  serve    - Start SSH server for remote play

Examples:
  timeloop play
  timeloop play --levels ./my-campaign
  timeloop replay ~/.timeloop/journals/first_steps-20250101-120000.jsonl.zst
  timeloop serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", core.DefaultConfig().TickRate, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Campaign directory (default: built-in campaign)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging and level skipping")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(logger *log.Logger) (config.Config, error) {
	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	logger.Debug("config loaded", "source", source)

	if flagLevelsDir != "" {
		cfg.Levels.Dir = flagLevelsDir
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	return cfg, cfg.Validate()
}

// newLogger builds the command logger. Logs go to --log-file when set,
// otherwise to fallback. The returned func closes the log file.
func newLogger(fallback io.Writer) (*log.Logger, func(), error) {
	w := fallback
	closeFn := func() {}
	if flagLogFile != "" {
		path, err := config.ExpandHome(flagLogFile)
		if err != nil {
			return nil, nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "timeloop",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, closeFn, nil
}

// openCampaign opens the configured campaign.
func openCampaign(cfg config.Config) (*levels.Campaign, error) {
	if cfg.Levels.Dir == "" {
		return levels.Default()
	}
	dir, err := config.ExpandHome(cfg.Levels.Dir)
	if err != nil {
		return nil, err
	}
	return levels.OpenDir(dir)
}

// gameOptions builds game options from the config.
func gameOptions(cfg config.Config, logger *log.Logger, observer timeloop.Observer) (timeloop.Options, error) {
	dir, err := config.ExpandHome(cfg.Levels.Dir)
	if err != nil {
		return timeloop.Options{}, err
	}
	return timeloop.Options{
		LevelsDir:         dir,
		StartAt:           cfg.Levels.StartAt,
		DefaultGhostLimit: cfg.Rules.DefaultGhostLimit,
		IntroTicks:        cfg.Pacing.IntroTicks,
		Debug:             flagDebug,
		Logger:            logger,
		Observer:          observer,
	}, nil
}
