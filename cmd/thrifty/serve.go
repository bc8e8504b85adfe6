package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/vovakirdan/thrifty/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the THRIFTY SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own game. All players share the leaderboard;
pass --redis to share it between several servers as well.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.thrifty/host_key

Examples:
  thrifty serve                            # Listen on :23234 with auto-generated key
  thrifty serve --ssh :2222                # Listen on port 2222
  thrifty serve --host-key ./my_host_key   # Use specific host key
  thrifty serve --redis localhost:6379     # Shared leaderboard in Redis

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) {
	sshLog := logger.WithPrefix("thrifty-ssh")
	if logger.GetLevel() > log.InfoLevel {
		// Session logs are the point of running a server.
		sshLog.SetLevel(log.InfoLevel)
	}

	undo, err := maxprocs.Set(maxprocs.Logger(sshLog.Infof))
	if err != nil {
		sshLog.Warn("could not set GOMAXPROCS", "err", err)
	}
	defer undo()

	gameCfg, err := loadGameConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	b, err := openBackends(cmd.Context())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer b.close()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.FPS = flagFPS
	cfg.Game = gameCfg
	cfg.Leaderboard = b.board
	if b.store != nil {
		cfg.Rounds = b.store
	}

	server, err := tui.NewSSHServer(cfg, sshLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting THRIFTY SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
