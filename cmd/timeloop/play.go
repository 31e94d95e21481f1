package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-timeloop/internal/config"
	"github.com/vovakirdan/tui-timeloop/internal/core"
	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop"
	"github.com/vovakirdan/tui-timeloop/internal/platform/tui"
	"github.com/vovakirdan/tui-timeloop/internal/storage"
)

var flagNoJournal bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the campaign",
	Long: `Start the campaign at its configured level: the levels.start_at id from
the config file if set, otherwise the manifest's start_at entry.

Controls:
  Arrows/WASD  - Move
  Space/.      - Wait one turn
  Enter        - Continue after solving a level
  R            - Restart the level
  P/Esc        - Pause
  ?            - Show all keys
  Q/Ctrl+C     - Quit

Every attempt is recorded to a journal (see 'timeloop replay') and
finished attempts are saved to the results database.

Examples:
  timeloop play
  timeloop play --levels ./my-campaign
  timeloop play --log-file /tmp/timeloop.log --debug`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNoJournal, "no-journal", false, "Do not record a run journal")
}

func runPlay(_ *cobra.Command, _ []string) error {
	// the TUI owns the terminal, so logs are dropped unless --log-file is set
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	if flagNoJournal {
		cfg.Journal.Enabled = false
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("results will not be saved", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	observer, err := newObservers(cfg, store, logger)
	if err != nil {
		return err
	}
	opts, err := gameOptions(cfg, logger, observer)
	if err != nil {
		return err
	}
	game := timeloop.New(opts)

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
	}

	return tui.Run(game, rc, tui.Options{Debug: flagDebug, Logger: logger})
}

// newObservers wires the journal and the results store into one observer.
func newObservers(cfg config.Config, store *storage.Store, logger *log.Logger) (timeloop.MultiObserver, error) {
	var obs timeloop.MultiObserver
	if cfg.Journal.Enabled {
		dir, err := config.ExpandHome(cfg.Journal.Dir)
		if err != nil {
			return nil, err
		}
		obs = append(obs, timeloop.NewJournalRecorder(dir, logger))
	}
	if store != nil {
		obs = append(obs, timeloop.NewResultRecorder(store, logger))
	}
	return obs, nil
}
