package game

import "math"

// Scoring constants.
const (
	BaseScore            = 500
	BudgetBonusPerDollar = 2
	TimeBonusPerSecond   = 30
	TimeoutPointsPerSlot = 100

	speedDemonMs   = 15000
	thriftyRatio   = 0.5
	balancedMin    = 3
	specialistMin  = 4
	budgetWarnFrac = 0.2
	timerWarnMs    = 5000
)

// FailReason explains a failed round. Empty means the round did not fail.
type FailReason string

const (
	FailNone    FailReason = ""
	FailBust    FailReason = "bust"
	FailTimeout FailReason = "timeout"
)

// ComboBonus is a named score multiplier.
type ComboBonus struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

var (
	ComboPerfectBudget = ComboBonus{Name: "Perfect Budget", Multiplier: 2.0}
	ComboBalanced      = ComboBonus{Name: "Balanced Loadout", Multiplier: 1.2}
	ComboSpecialist    = ComboBonus{Name: "Specialist", Multiplier: 1.5}
	ComboSpeedDemon    = ComboBonus{Name: "Speed Demon", Multiplier: 1.3}
	ComboThrifty       = ComboBonus{Name: "Thrifty", Multiplier: 1.4}
)

// ScoreResult is the breakdown of one resolved round.
type ScoreResult struct {
	Round       int          `json:"round"`
	BaseScore   int          `json:"base_score"`
	ItemValue   float64      `json:"item_value"`
	BudgetBonus int          `json:"budget_bonus"`
	TimeBonus   float64      `json:"time_bonus"`
	Combos      []ComboBonus `json:"combos"`
	Multiplier  float64      `json:"multiplier"`
	Total       int          `json:"total"`
	FailReason  FailReason   `json:"fail_reason,omitempty"`
}

func (r ScoreResult) clone() ScoreResult {
	if r.Combos != nil {
		r.Combos = append([]ComboBonus(nil), r.Combos...)
	}
	return r
}

// DetectCombos evaluates every combo independently, in a fixed order.
func DetectCombos(slots Slots, budgetRemaining, initialBudget int, timeRemainingMs float64) []ComboBonus {
	var combos []ComboBonus
	filled := slots.Items()

	if budgetRemaining == 0 && len(filled) > 0 {
		combos = append(combos, ComboPerfectBudget)
	}

	counts := make(map[Category]int)
	for _, it := range filled {
		counts[it.Category]++
	}
	if len(counts) >= balancedMin {
		combos = append(combos, ComboBalanced)
	}
	for _, n := range counts {
		if n >= specialistMin {
			combos = append(combos, ComboSpecialist)
			break
		}
	}

	if timeRemainingMs >= speedDemonMs {
		combos = append(combos, ComboSpeedDemon)
	}
	if initialBudget > 0 && float64(budgetRemaining)/float64(initialBudget) >= thriftyRatio {
		combos = append(combos, ComboThrifty)
	}
	return combos
}

// CalculateRoundScore scores a resolved round. A bust scores nothing; a
// timeout pays a flat amount per filled slot; a completed round gets the
// full breakdown, rounded once after the multiplier.
func CalculateRoundScore(slots Slots, budgetRemaining, initialBudget int, timeRemainingMs float64, round int, reason FailReason) ScoreResult {
	switch reason {
	case FailBust:
		return ScoreResult{Round: round, FailReason: FailBust}
	case FailTimeout:
		return ScoreResult{
			Round:      round,
			Total:      slots.Filled() * TimeoutPointsPerSlot,
			FailReason: FailTimeout,
		}
	}

	var itemValue float64
	for _, it := range slots.Items() {
		itemValue += it.Value
	}
	budgetBonus := budgetRemaining * BudgetBonusPerDollar
	timeBonus := timeRemainingMs / 1000 * TimeBonusPerSecond

	combos := DetectCombos(slots, budgetRemaining, initialBudget, timeRemainingMs)
	mult := 1.0
	for _, c := range combos {
		mult *= c.Multiplier
	}

	sum := float64(BaseScore) + itemValue + float64(budgetBonus) + timeBonus
	return ScoreResult{
		Round:       round,
		BaseScore:   BaseScore,
		ItemValue:   itemValue,
		BudgetBonus: budgetBonus,
		TimeBonus:   timeBonus,
		Combos:      combos,
		Multiplier:  mult,
		Total:       int(math.Round(sum * mult)),
	}
}

// Rank is a letter grade for a finished game.
type Rank struct {
	Grade    string `json:"grade"`
	Title    string `json:"title"`
	MinScore int    `json:"min_score"`
}

// Highest first.
var rankLadder = [...]Rank{
	{Grade: "S", Title: "Thrift Master", MinScore: 35000},
	{Grade: "A", Title: "Budget Boss", MinScore: 30000},
	{Grade: "B", Title: "Smart Shopper", MinScore: 25000},
	{Grade: "C", Title: "Bargain Hunter", MinScore: 20000},
	{Grade: "D", Title: "Penny Pincher", MinScore: 15000},
}

var rankF = Rank{Grade: "F", Title: "Big Spender"}

// RankFor maps a total score to its grade. Thresholds are inclusive.
func RankFor(total int) Rank {
	for _, r := range rankLadder {
		if total >= r.MinScore {
			return r
		}
	}
	return rankF
}
