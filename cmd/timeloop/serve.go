package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-timeloop/internal/config"
	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop"
	"github.com/vovakirdan/tui-timeloop/internal/platform/tui"
	"github.com/vovakirdan/tui-timeloop/internal/registry"
	"github.com/vovakirdan/tui-timeloop/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the timeloop SSH server",
	Long: `Start an SSH server that lets users connect and play the campaign.

Each SSH connection gets its own game. Results are stored per-server and
journals are written to a subdirectory per user.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.timeloop/host_key

Examples:
  timeloop serve                           # Listen on :23234 with auto-generated key
  timeloop serve --ssh :2222               # Listen on port 2222
  timeloop serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
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
		logger.Warn("could not open results database", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	journalDir, err := config.ExpandHome(cfg.Journal.Dir)
	if err != nil {
		return err
	}

	newGame := func(user string) (registry.Game, error) {
		sessCfg := cfg
		sessCfg.Journal.Dir = filepath.Join(journalDir, sanitizeUser(user))
		sessLogger := logger.With("user", user)

		observer, err := newObservers(sessCfg, store, sessLogger)
		if err != nil {
			return nil, err
		}
		opts, err := gameOptions(sessCfg, sessLogger, observer)
		if err != nil {
			return nil, err
		}
		return timeloop.New(opts), nil
	}

	srvCfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
		Debug:       flagDebug,
	}
	server, err := tui.NewSSHServer(srvCfg, newGame, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Starting timeloop SSH server on %s\n", srvCfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(srvCfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}

// sanitizeUser makes an SSH user name safe to use as a directory name.
func sanitizeUser(user string) string {
	out := make([]rune, 0, len(user))
	for _, r := range user {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "anonymous"
	}
	return string(out)
}

func portOf(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return port
}
