package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/thrifty/internal/core"
	"github.com/vovakirdan/thrifty/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start a game of THRIFTY.

Controls:
  Left/A, Right/D   - Move the catcher
  P/Esc             - Pause
  Enter             - Start, next round, play again
  S                 - Leaderboard (between rounds)
  Q/Ctrl+C          - Quit

Examples:
  thrifty play
  thrifty play --difficulty easy
  thrifty play --config ./my-thrifty.yaml
  thrifty play --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, _ []string) {
	gameCfg, err := loadGameConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	b, err := openBackends(cmd.Context())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := tui.Options{
		Game: gameCfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Leaderboard: b.board,
		Player:      playerName(),
		Logger:      logger,
	}
	if b.store != nil {
		opts.Rounds = b.store
	}

	runErr := tui.Run(opts)
	b.close()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// playerName guesses a default leaderboard name from the OS account.
func playerName() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
