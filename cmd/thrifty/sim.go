package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/thrifty/internal/config"
	"github.com/vovakirdan/thrifty/internal/game"
	"github.com/vovakirdan/thrifty/internal/storage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// simStepLimit stops a runaway simulation. Ten minutes of game time at 60Hz.
const simStepLimit = 36000

var (
	flagSimRounds int
	flagSimJSON   bool
	flagSimRecord bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run an autopiloted game without a terminal",
	Long: `Play a full game with the built-in autopilot in fixed simulation steps,
as fast as the CPU allows, and print what happened.

The same --seed always produces the same game.

Examples:
  thrifty sim --seed 42
  thrifty sim --seed 42 --json | jq .kind
  thrifty sim --rounds 1 --difficulty hard
  thrifty sim --record     # store round results for 'thrifty rounds'`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimRounds, "rounds", 0, "Number of rounds to play (0 = all)")
	simCmd.Flags().BoolVar(&flagSimJSON, "json", false, "Print newline-delimited JSON events")
	simCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Save round results to the database")
}

// simRecord is one line of sim output.
type simRecord struct {
	Tick  uint64     `json:"tick"`
	Round int        `json:"round"`
	Kind  string     `json:"kind"`
	Event game.Event `json:"event"`
}

// simResult summarizes a simulated game.
type simResult struct {
	Seed    int64                 `json:"seed"`
	Ticks   uint64                `json:"ticks"`
	Total   int                   `json:"total"`
	Rank    game.Rank             `json:"rank"`
	Scores  []game.ScoreResult    `json:"scores"`
	Records []storage.RoundRecord `json:"-"`
}

// simulate plays an autopiloted game in fixed steps and passes every event
// to emit. rounds limits how many rounds are played; 0 plays them all.
func simulate(cfg config.Config, seed int64, rounds int, emit func(simRecord)) simResult {
	e := game.New(cfg, game.WithSeed(seed), game.WithLogger(logger.WithPrefix("engine")))
	game.NewAutopilot(e)

	res := simResult{Seed: seed}
	var tick uint64
	round := 0

	record := func(outcome string, score game.ScoreResult) {
		snap := e.Snapshot()
		res.Scores = append(res.Scores, score)
		res.Records = append(res.Records, storage.RoundRecord{
			Round:       snap.Round,
			Outcome:     outcome,
			Score:       score.Total,
			BudgetLeft:  snap.Budget,
			TimeLeftMs:  int(math.Round(snap.TimerMs)),
			SlotsFilled: snap.Slots.Filled(),
		})
	}

	e.SetEventHandler(func(ev game.Event) {
		switch ev := ev.(type) {
		case game.RoundStarted:
			round = ev.Round
		case game.RoundComplete:
			record(storage.OutcomeComplete, ev.Score)
		case game.RoundFailed:
			record(string(ev.Reason), ev.Score)
		case game.GameOver:
			res.Total = ev.TotalScore
			res.Rank = ev.Rank
		}
		if emit != nil {
			emit(simRecord{Tick: tick, Round: round, Kind: ev.Kind(), Event: ev})
		}
	})

	step := cfg.StepMs()
	played := 0
	e.NewGame()
	for i := 0; i < simStepLimit; i++ {
		switch e.Status() {
		case game.StatusRoundComplete, game.StatusRoundFailed:
			played++
			if e.HasNextRound() && (rounds <= 0 || played < rounds) {
				e.NextRound()
			} else {
				e.EndGame()
			}
			continue
		case game.StatusGameOver:
			res.Ticks = tick
			return res
		}
		e.Step(step)
		tick++
	}

	logger.Warn("simulation hit the step limit", "steps", simStepLimit)
	e.EndGame()
	res.Ticks = tick
	return res
}

func runSim(cmd *cobra.Command, _ []string) {
	gameCfg, err := loadGameConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	out := os.Stdout
	var emit func(simRecord)
	if flagSimJSON {
		enc := json.NewEncoder(out)
		emit = func(r simRecord) {
			if err := enc.Encode(r); err != nil {
				logger.Error("write event", "err", err)
			}
		}
	} else {
		emit = func(r simRecord) { printEvent(out, r) }
	}

	res := simulate(gameCfg, seed, flagSimRounds, emit)

	if flagSimJSON {
		if err := json.NewEncoder(out).Encode(struct {
			Kind string `json:"kind"`
			simResult
		}{"summary", res}); err != nil {
			logger.Error("write summary", "err", err)
		}
	} else {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Seed %d  ticks %d\n", res.Seed, res.Ticks)
		fmt.Fprintf(out, "Total %d  rank %s (%s)\n", res.Total, res.Rank.Grade, res.Rank.Title)
	}

	if flagSimRecord {
		if err := saveSimRounds(cmd.Context(), res.Records); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving rounds: %v\n", err)
			os.Exit(1)
		}
	}
}

func saveSimRounds(ctx context.Context, recs []storage.RoundRecord) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	for _, rec := range recs {
		if _, err := store.SaveRound(ctx, rec); err != nil {
			return err
		}
	}
	logger.Info("rounds recorded", "count", len(recs), "db", flagDBPath)
	return nil
}

// printEvent writes one event as a human readable line.
func printEvent(w io.Writer, r simRecord) {
	var detail string
	switch ev := r.Event.(type) {
	case game.RoundStarted:
		detail = ev.Name
	case game.ItemCaught:
		detail = fmt.Sprintf("%s $%d value %.0f -> slot %d", ev.Item.Category, ev.Item.Cost, ev.Item.Value, ev.Slot+1)
	case game.PowerUpActivated:
		detail = ev.Type.String()
		if ev.Slot >= 0 {
			detail += fmt.Sprintf(" (slot %d)", ev.Slot+1)
		}
	case game.BudgetWarning:
		detail = fmt.Sprintf("$%d of $%d left", ev.Budget, ev.InitialBudget)
	case game.TimerWarning:
		detail = fmt.Sprintf("%.1fs left", ev.RemainingMs/1000)
	case game.RoundComplete:
		detail = fmt.Sprintf("score %d", ev.Score.Total)
	case game.RoundFailed:
		detail = fmt.Sprintf("%s, score %d", ev.Reason, ev.Score.Total)
	case game.ComboAchieved:
		detail = fmt.Sprintf("%s x%.1f", ev.Combo.Name, ev.Combo.Multiplier)
	case game.GameOver:
		detail = fmt.Sprintf("total %d rank %s", ev.TotalScore, ev.Rank.Grade)
	}
	fmt.Fprintf(w, "%6d  r%d  %-18s %s\n", r.Tick, r.Round, r.Kind, strings.TrimSpace(detail))
}
