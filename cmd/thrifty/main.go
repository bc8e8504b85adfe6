// thrifty is a terminal catcher game: fill five equipment slots with falling
// items before the clock runs out, without blowing the round budget.
//
// Usage:
//
//	thrifty play             - Play in the terminal
//	thrifty sim              - Run an autopiloted game without a terminal
//	thrifty scores           - Show the leaderboard
//	thrifty rounds           - Show per-round statistics
//	thrifty serve            - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>         - Set frame rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.thrifty/thrifty.db)
//	--config <path>      - Load game config from a YAML file
//	--difficulty <name>  - Scale the round table: easy, normal, hard
//	--redis <addr>       - Keep the leaderboard in Redis instead of SQLite
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagRedis      string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "thrifty",
	Short: "THRIFTY - catch the right gear on a budget",
	Long: `THRIFTY is a terminal arcade game. Steer the catcher to grab falling
items and fill five equipment slots before time runs out. Every item costs
budget; overspend and the round is a bust. Power-ups help or hurt.

Available commands:
  play     - Play in the terminal
  sim      - Run an autopiloted game without a terminal
  scores   - Show the leaderboard
  rounds   - Show per-round statistics
  serve    - Start SSH server for remote play

Examples:
  thrifty play
  thrifty play --difficulty hard
  thrifty sim --seed 42 --json
  thrifty scores --live
  thrifty serve --ssh :2222 --redis localhost:6379`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
		}
		logger.SetLevel(level)
		return nil
	},
	SilenceUsage: true,
}

// logger writes to stderr; the TUI keeps it quiet by default.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "thrifty",
	Level:           log.WarnLevel,
})

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.thrifty/thrifty.db", "Path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagRedis, "redis", "", "Redis address for a shared leaderboard (host:port)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(serveCmd)
}
