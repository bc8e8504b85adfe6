package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/thrifty/internal/game"
	"github.com/vovakirdan/thrifty/internal/platform/tui"
)

var (
	flagScoresLimit int
	flagScoresLive  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the top leaderboard entries.

With --live the leaderboard opens full screen and updates as new scores
arrive. Against a Redis leaderboard that includes scores from other
machines and SSH sessions.

Examples:
  thrifty scores
  thrifty scores --limit 25
  thrifty scores --live --redis localhost:6379`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of entries to show")
	scoresCmd.Flags().BoolVar(&flagScoresLive, "live", false, "Open a live updating leaderboard")
}

func runScores(cmd *cobra.Command, _ []string) {
	b, err := openBackends(cmd.Context())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer b.close()

	if b.board == nil {
		fmt.Fprintln(os.Stderr, "Error: no leaderboard backend available")
		os.Exit(1)
	}

	if flagScoresLive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(b.board, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	entries, err := b.board.Top(cmd.Context(), flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("THRIFTY Leaderboard")
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'thrifty play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-15s  %-8s  %-4s  %s\n", "Rank", "Name", "Score", "Tier", "Date")
	fmt.Printf("  %-4s  %-15s  %-8s  %-4s  %s\n", "----", "----", "-----", "----", "----")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-15s  %-8d  %-4s  %s\n",
			i+1, e.Name, e.Score, game.RankFor(e.Score).Grade, e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	if b.store != nil && flagRedis == "" {
		if best, err := b.store.HighScore(cmd.Context()); err == nil {
			fmt.Println()
			fmt.Printf("Best: %d (%s)\n", best, game.RankFor(best).Title)
		}
	}
}
