package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vovakirdan/thrifty/internal/core"
	"github.com/vovakirdan/thrifty/internal/game"
)

// Screen layout: two HUD rows, the framed playfield, the slot row and the
// status row.
const (
	hudRows      = 2
	footerRows   = 2
	minPlayRows  = 6
	minPlayCols  = 20
	maxToasts    = 3
	toastTimeout = 2 * time.Second
)

// categoryLook is how a regular item category is drawn.
type categoryLook struct {
	glyph rune
	color core.Color
}

var categoryLooks = map[game.Category]categoryLook{
	game.CategoryWeapon:  {'W', core.ColorRed},
	game.CategoryShield:  {'S', core.ColorBlue},
	game.CategoryUtility: {'U', core.ColorGreen},
	game.CategoryPremium: {'P', core.ColorMagenta},
	game.CategoryBonus:   {'B', core.ColorCyan},
}

func lookFor(it game.FallingItem) categoryLook {
	if it.IsPowerUp() {
		c := core.ColorOrange
		if def, ok := game.LookupPowerUp(it.PowerUp); ok && def.Beneficial {
			c = core.ColorGreen
		}
		return categoryLook{it.PowerUp.Glyph(), c}
	}
	if l, ok := categoryLooks[it.Category]; ok {
		return l
	}
	name := strings.ToUpper(string(it.Category))
	if name == "" {
		return categoryLook{'?', core.ColorWhite}
	}
	return categoryLook{rune(name[0]), core.ColorWhite}
}

// toast is a short-lived notice raised by a simulation event.
type toast struct {
	text    string
	color   core.Color
	expires time.Time
}

// field maps world coordinates onto the framed playfield area.
type field struct {
	x, y, w, h int // inner area, in cells
	worldW     float64
	worldH     float64
}

func newField(scr *core.Screen, snap game.Snapshot) (field, bool) {
	w := scr.Width() - 2
	h := scr.Height() - hudRows - footerRows - 2
	if w < minPlayCols || h < minPlayRows || snap.Playfield.Width <= 0 || snap.Playfield.Height <= 0 {
		return field{}, false
	}
	return field{
		x: 1, y: hudRows + 1, w: w, h: h,
		worldW: snap.Playfield.Width,
		worldH: snap.Playfield.Height,
	}, true
}

func (f field) col(x float64) int {
	return f.x + int(math.Floor(x/f.worldW*float64(f.w)))
}

func (f field) row(y float64) int {
	return f.y + int(math.Floor(y/f.worldH*float64(f.h)))
}

func (f field) span(w float64) int {
	return max(1, int(math.Round(w/f.worldW*float64(f.w))))
}

// inside clips to the inner area so items entering from above stay hidden.
func (f field) inside(col, row int) bool {
	return col >= f.x && col < f.x+f.w && row >= f.y && row < f.y+f.h
}

// drawGame renders HUD, playfield, slots, toasts and any status panel.
// The bottom row stays blank.
func drawGame(scr *core.Screen, snap game.Snapshot, toasts []toast, paused bool) {
	scr.Clear()
	if scr.Width() <= 0 || scr.Height() <= 0 {
		return
	}
	f, ok := newField(scr, snap)
	if !ok {
		scr.DrawText(0, 0, "Terminal too small for THRIFTY", core.ColorYellow)
		return
	}

	drawHUD(scr, snap)
	scr.DrawBox(f.x-1, f.y-1, f.w+2, f.h+2, core.ColorGray)
	if snap.Status == game.StatusPlaying || snap.Status == game.StatusRoundComplete || snap.Status == game.StatusRoundFailed {
		drawItems(scr, f, snap)
		drawCatcher(scr, f, snap.Catcher)
	}
	drawSlots(scr, snap, f.y+f.h+1)
	drawToasts(scr, f, toasts)

	switch {
	case paused:
		drawPanel(scr, f, []panelLine{{"PAUSED", core.ColorYellow}, {"", 0}, {"p: resume", core.ColorGray}})
	case snap.Status != game.StatusPlaying:
		drawPanel(scr, f, statusPanel(snap))
	}
}

func drawHUD(scr *core.Screen, snap game.Snapshot) {
	title := "THRIFTY"
	if snap.Round > 0 {
		title = fmt.Sprintf("THRIFTY  Round %d/%d %s", snap.Round, snap.TotalRounds, snap.RoundName)
	}
	x := scr.DrawText(0, 0, title, core.ColorWhite)

	budgetColor := core.ColorGreen
	if snap.InitialBudget > 0 && float64(snap.Budget) <= 0.2*float64(snap.InitialBudget) {
		budgetColor = core.ColorRed
	}
	x = scr.DrawText(x+3, 0, fmt.Sprintf("Budget $%d", snap.Budget), budgetColor)

	timerColor := core.ColorWhite
	if snap.Status == game.StatusPlaying && snap.TimerMs <= 5000 {
		timerColor = core.ColorRed
	}
	if game.IsTimeFrozen(snap.Effects) {
		timerColor = core.ColorCyan
	}
	x = scr.DrawText(x+3, 0, fmt.Sprintf("Time %4.1fs", snap.TimerMs/1000), timerColor)
	scr.DrawText(x+3, 0, fmt.Sprintf("Score %d", snap.TotalScore), core.ColorYellow)

	x = 0
	for _, eff := range snap.Effects {
		label := eff.Type.String()
		if eff.RemainingMs > 0 {
			label = fmt.Sprintf("%s %.1fs", label, eff.RemainingMs/1000)
		}
		c := core.ColorOrange
		if def, ok := game.LookupPowerUp(eff.Type); ok && def.Beneficial {
			c = core.ColorGreen
		}
		x = scr.DrawText(x, 1, "["+label+"]", c) + 1
	}
}

func drawItems(scr *core.Screen, f field, snap game.Snapshot) {
	for _, it := range snap.Items {
		row := f.row(it.Y)
		col := f.col(it.X)
		look := lookFor(it)
		color := look.color
		if it.ID == snap.HintItemID {
			color = core.ColorYellow
		}
		width := f.span(it.W)
		for dx := 0; dx < width; dx++ {
			if f.inside(col+dx, row) {
				scr.SetColor(col+dx, row, look.glyph, color)
			}
		}
		if it.IsPowerUp() {
			continue
		}
		label := fmt.Sprintf("$%d", it.Cost)
		lx := col + width
		for i, r := range label {
			if f.inside(lx+i, row) {
				scr.SetColor(lx+i, row, r, core.ColorGray)
			}
		}
	}
}

func drawCatcher(scr *core.Screen, f field, c game.Catcher) {
	row := min(f.row(c.Y), f.y+f.h-1)
	col := f.col(c.X)
	width := f.span(c.W)
	for dx := 0; dx < width; dx++ {
		r := '='
		if dx == 0 {
			r = '\\'
		} else if dx == width-1 {
			r = '/'
		}
		if f.inside(col+dx, row) {
			scr.SetColor(col+dx, row, r, core.ColorWhite)
		}
	}
}

func drawSlots(scr *core.Screen, snap game.Snapshot, y int) {
	locked := game.LockedSlotIndex(snap.Effects)
	x := scr.DrawText(0, y, "Slots ", core.ColorGray)
	for i, it := range snap.Slots {
		switch {
		case it != nil:
			look := lookFor(*it)
			x = scr.DrawText(x, y, fmt.Sprintf("[%c $%d]", look.glyph, it.Cost), look.color)
		case i == locked:
			x = scr.DrawText(x, y, "[ ## ]", core.ColorOrange)
		default:
			x = scr.DrawText(x, y, "[    ]", core.ColorGray)
		}
	}
	scr.DrawText(x+2, y, fmt.Sprintf("%d/%d", snap.Slots.Filled(), game.SlotCount), core.ColorWhite)
}

func drawToasts(scr *core.Screen, f field, toasts []toast) {
	start := max(0, len(toasts)-maxToasts)
	for i, t := range toasts[start:] {
		x := f.x + f.w - len([]rune(t.text)) - 1
		scr.DrawText(max(x, f.x), f.y+i, t.text, t.color)
	}
}

type panelLine struct {
	text  string
	color core.Color
}

func statusPanel(snap game.Snapshot) []panelLine {
	switch snap.Status {
	case game.StatusMenu:
		return []panelLine{
			{"T H R I F T Y", core.ColorYellow},
			{"", 0},
			{"Catch five items before time runs out.", core.ColorWhite},
			{"Every catch costs budget. Overspend and you bust.", core.ColorWhite},
			{"", 0},
			{"enter: start   s: scores   q: quit", core.ColorGray},
		}
	case game.StatusRoundComplete:
		lines := []panelLine{{fmt.Sprintf("Round %d complete!", snap.Round), core.ColorGreen}, {"", 0}}
		lines = append(lines, scoreLines(snap.LastScore)...)
		next := "enter: next round"
		if snap.Round >= snap.TotalRounds {
			next = "enter: finish"
		}
		return append(lines, panelLine{"", 0}, panelLine{next, core.ColorGray})
	case game.StatusRoundFailed:
		reason := "Out of time"
		if snap.FailReason == game.FailBust {
			reason = "Bust! Over budget"
		}
		lines := []panelLine{{fmt.Sprintf("Round %d failed: %s", snap.Round, reason), core.ColorRed}, {"", 0}}
		if snap.LastScore != nil {
			lines = append(lines, panelLine{fmt.Sprintf("Round score %d", snap.LastScore.Total), core.ColorWhite})
		}
		next := "enter: next round"
		if snap.Round >= snap.TotalRounds {
			next = "enter: finish"
		}
		return append(lines, panelLine{"", 0}, panelLine{next, core.ColorGray})
	case game.StatusGameOver:
		rank := game.RankFor(snap.TotalScore)
		return []panelLine{
			{"GAME OVER", core.ColorYellow},
			{"", 0},
			{fmt.Sprintf("Total score %d", snap.TotalScore), core.ColorWhite},
			{fmt.Sprintf("Rank %s: %s", rank.Grade, rank.Title), core.ColorCyan},
			{"", 0},
			{"enter: play again   s: scores   q: quit", core.ColorGray},
		}
	}
	return nil
}

func scoreLines(r *game.ScoreResult) []panelLine {
	if r == nil {
		return nil
	}
	lines := []panelLine{
		{fmt.Sprintf("Base %d  Items %.0f  Budget %d  Time %.0f", r.BaseScore, r.ItemValue, r.BudgetBonus, r.TimeBonus), core.ColorWhite},
	}
	for _, c := range r.Combos {
		lines = append(lines, panelLine{fmt.Sprintf("%s x%.1f", c.Name, c.Multiplier), core.ColorMagenta})
	}
	return append(lines, panelLine{fmt.Sprintf("Round score %d", r.Total), core.ColorYellow})
}

// drawPanel centers a framed block of lines over the playfield.
func drawPanel(scr *core.Screen, f field, lines []panelLine) {
	if len(lines) == 0 {
		return
	}
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l.text)))
	}
	w := min(width+4, f.w)
	h := min(len(lines)+2, f.h)
	x := f.x + (f.w-w)/2
	y := f.y + (f.h-h)/2
	scr.FillRect(x, y, w, h, ' ', core.ColorDefault)
	scr.DrawBox(x, y, w, h, core.ColorWhite)
	for i, l := range lines {
		if i >= h-2 {
			break
		}
		lx := x + (w-len([]rune(l.text)))/2
		scr.DrawText(lx, y+1+i, l.text, l.color)
	}
}

// drawPrompt overlays the name entry line on the game over panel.
func drawPrompt(scr *core.Screen, snap game.Snapshot, value string) {
	f, ok := newField(scr, snap)
	if !ok {
		return
	}
	text := "Name for the leaderboard: " + value + "_"
	y := f.y + f.h - 2
	x := f.x + (f.w-len([]rune(text)))/2
	scr.FillRect(f.x, y, f.w, 1, ' ', core.ColorDefault)
	scr.DrawText(x, y, text, core.ColorYellow)
}

// eventToast describes an event for the toast column. Events without a
// notice return false.
func eventToast(ev game.Event) (string, core.Color, bool) {
	switch e := ev.(type) {
	case game.RoundStarted:
		return fmt.Sprintf("Round %d: %s", e.Round, e.Name), core.ColorWhite, true
	case game.ItemCaught:
		return fmt.Sprintf("+%s $%d", e.Item.Category, e.Item.Cost), lookFor(e.Item).color, true
	case game.PowerUpActivated:
		c := core.ColorOrange
		if def, ok := game.LookupPowerUp(e.Type); ok && def.Beneficial {
			c = core.ColorGreen
		}
		return e.Type.String() + "!", c, true
	case game.BudgetWarning:
		return "Budget running low", core.ColorRed, true
	case game.TimerWarning:
		return "5 seconds left", core.ColorRed, true
	case game.ComboAchieved:
		return fmt.Sprintf("%s x%.1f", e.Combo.Name, e.Combo.Multiplier), core.ColorMagenta, true
	case game.RoundFailed:
		if e.Reason == game.FailBust {
			return "Bust!", core.ColorRed, true
		}
		return "Time's up", core.ColorRed, true
	case game.GameOver:
		return fmt.Sprintf("Rank %s", e.Rank.Grade), core.ColorCyan, true
	}
	return "", core.ColorDefault, false
}
