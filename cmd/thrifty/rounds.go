package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/thrifty/internal/storage"
)

var flagRoundsRecent int

var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "Show per-round statistics",
	Long: `Summarize every recorded round by round number: plays, outcomes,
completion rate and scores. Rounds are recorded by 'thrifty play' and by
'thrifty sim --record'.

Examples:
  thrifty rounds
  thrifty rounds --recent 20`,
	Args: cobra.NoArgs,
	Run:  runRounds,
}

func init() {
	roundsCmd.Flags().IntVar(&flagRoundsRecent, "recent", 0, "Also list the most recent N rounds")
}

func runRounds(cmd *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	stats, err := store.RoundStatsByRound(cmd.Context())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading round stats: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("THRIFTY Round Statistics")
	fmt.Println()

	if len(stats) == 0 {
		fmt.Println("No rounds recorded yet.")
		return
	}

	fmt.Printf("  %-5s  %-5s  %-8s  %-5s  %-7s  %-6s  %-6s  %s\n",
		"Round", "Plays", "Complete", "Busts", "Timeout", "Rate", "Best", "Avg")
	for _, s := range stats {
		fmt.Printf("  %-5d  %-5d  %-8d  %-5d  %-7d  %5.1f%%  %-6d  %.0f\n",
			s.Round, s.Plays, s.Completed, s.Busts, s.Timeouts, s.CompletionRate()*100, s.BestScore, s.AvgScore)
	}

	if flagRoundsRecent <= 0 {
		return
	}
	recent, err := store.RecentRounds(cmd.Context(), flagRoundsRecent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading recent rounds: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()
	fmt.Println("Recent rounds")
	for _, r := range recent {
		fmt.Printf("  %s  round %d  %-8s  score %-6d  budget $%-5d  %2ds left  %d/5 slots\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Round, r.Outcome, r.Score,
			r.BudgetLeft, r.TimeLeftMs/1000, r.SlotsFilled)
	}
}
