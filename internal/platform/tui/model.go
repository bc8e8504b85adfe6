package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/thrifty/internal/config"
	"github.com/vovakirdan/thrifty/internal/core"
	"github.com/vovakirdan/thrifty/internal/game"
	"github.com/vovakirdan/thrifty/internal/leaderboard"
	"github.com/vovakirdan/thrifty/internal/storage"
)

const saveTimeout = 5 * time.Second

// RoundRecorder stores the outcome of each finished round.
type RoundRecorder interface {
	SaveRound(ctx context.Context, rec storage.RoundRecord) (int64, error)
}

// Options configure a game Model.
type Options struct {
	Game    config.Config
	Runtime core.RuntimeConfig
	// Leaderboard receives the final score at game over. Nil disables name entry.
	Leaderboard *leaderboard.Service
	// Rounds records round history. Nil disables it.
	Rounds RoundRecorder
	// Player pre-fills the name prompt.
	Player string
	Logger *log.Logger
}

// roundSavedMsg reports the outcome of a round history write.
type roundSavedMsg struct{ err error }

// submittedMsg reports the outcome of a leaderboard submission.
type submittedMsg struct {
	entry leaderboard.Entry
	err   error
}

// sink collects what the runner publishes during one frame. The runner
// calls it synchronously from Frame, which only ever runs inside Update.
type sink struct {
	snap   game.Snapshot
	events []game.Event
}

func (s *sink) OnSnapshot(snap game.Snapshot) { s.snap = snap }
func (s *sink) OnEvent(ev game.Event)         { s.events = append(s.events, ev) }

func (s *sink) drain() []game.Event {
	evs := s.events
	s.events = nil
	return evs
}

// Model is the Bubble Tea model for a THRIFTY session.
type Model struct {
	opts     Options
	runner   *game.Runner
	sink     *sink
	held     *HeldKeys
	keys     KeyMap
	help     help.Model
	screen   *core.Screen
	name     textinput.Model
	board    *ScoreboardModel
	toasts   []toast
	status   string
	final    int
	entering bool
	quitting bool
}

// NewModel creates a model with a fresh engine and runner.
func NewModel(opts Options) Model {
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = 60
	}
	if opts.Runtime.ScreenW <= 0 || opts.Runtime.ScreenH <= 0 {
		def := core.DefaultConfig()
		opts.Runtime.ScreenW, opts.Runtime.ScreenH = def.ScreenW, def.ScreenH
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	held := NewHeldKeys(DefaultHoldWindow)
	engine := game.New(opts.Game,
		game.WithSeed(opts.Runtime.Seed),
		game.WithInput(held),
		game.WithLogger(opts.Logger),
	)
	s := &sink{}
	runner := game.NewRunner(engine, s, game.WithRunnerLogger(opts.Logger))
	s.snap = runner.Snapshot()

	name := textinput.New()
	name.Placeholder = "your name"
	name.CharLimit = leaderboard.MaxNameLength
	name.SetValue(opts.Player)

	h := help.New()
	h.Width = opts.Runtime.ScreenW

	return Model{
		opts:   opts,
		runner: runner,
		sink:   s,
		held:   held,
		keys:   DefaultKeyMap(),
		help:   h,
		screen: core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH),
		name:   name,
	}
}

// Runner exposes the session's runner.
func (m Model) Runner() *game.Runner {
	return m.runner
}

// Init primes the runner clock and starts the frame loop.
func (m Model) Init() tea.Cmd {
	m.runner.Frame(time.Now())
	return frameCmd(m.opts.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		return m.handleFrame(time.Time(msg))

	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		if m.board != nil {
			return m.updateBoard(msg)
		}
		return m, nil

	case roundSavedMsg:
		if msg.err != nil {
			m.opts.Logger.Warn("round not saved", "err", msg.err)
			m.status = "Round history unavailable: " + msg.err.Error()
		}
		return m, nil

	case submittedMsg:
		if msg.err != nil {
			m.status = "Score not submitted: " + msg.err.Error()
			if errors.Is(msg.err, leaderboard.ErrInvalidName) {
				m.entering = true
				return m, m.name.Focus()
			}
			return m, nil
		}
		m.status = fmt.Sprintf("Saved %d for %s", msg.entry.Score, msg.entry.Name)
		return m, nil
	}

	if m.board != nil {
		return m.updateBoard(msg)
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(keyMsg)
	}
	if m.entering {
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateBoard routes a message to the scoreboard overlay.
func (m Model) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.board.Update(msg)
	board, ok := next.(ScoreboardModel)
	if !ok {
		return m, cmd
	}
	switch {
	case board.IsQuitting():
		m.board = nil
		return m.quit()
	case board.IsGoingBack():
		m.board = nil
		return m, nil
	}
	m.board = &board
	return m, cmd
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.entering {
		return m.handleNameKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		if k, ok := simKey(msg); ok {
			m.held.Press(k)
		}
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		if m.sink.snap.Status == game.StatusPlaying {
			m.runner.SetPaused(!m.runner.Paused())
			m.held.Clear()
		}
		return m, nil

	case key.Matches(msg, m.keys.Advance):
		if m.runner.Paused() || m.sink.snap.Status == game.StatusPlaying {
			return m, nil
		}
		m.held.Clear()
		m.toasts = nil
		m.status = ""
		m.runner.Advance()
		return m, nil

	case key.Matches(msg, m.keys.Scores):
		if m.opts.Leaderboard == nil || m.sink.snap.Status == game.StatusPlaying {
			return m, nil
		}
		board := NewScoreboardModel(m.opts.Leaderboard, m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH)
		m.board = &board
		return m, board.Init()
	}
	return m, nil
}

// handleNameKey drives the leaderboard name prompt.
func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.quit()
	case tea.KeyEsc:
		m.entering = false
		m.name.Blur()
		m.status = "Score not submitted"
		return m, nil
	case tea.KeyEnter:
		m.entering = false
		m.name.Blur()
		m.status = "Submitting..."
		return m, submitCmd(m.opts.Leaderboard, m.name.Value(), m.final)
	}
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

// handleFrame advances the runner and turns its events into toasts and
// persistence commands.
func (m Model) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	m.runner.Frame(now)

	cmds := []tea.Cmd{frameCmd(m.opts.Runtime.TickRate)}
	for _, ev := range m.sink.drain() {
		if text, color, ok := eventToast(ev); ok {
			m.toasts = append(m.toasts, toast{text: text, color: color, expires: now.Add(toastTimeout)})
		}
		switch e := ev.(type) {
		case game.RoundComplete:
			cmds = append(cmds, m.saveRound(storage.OutcomeComplete, e.Score.Total))
		case game.RoundFailed:
			cmds = append(cmds, m.saveRound(string(e.Reason), e.Score.Total))
		case game.GameOver:
			m.held.Clear()
			m.final = e.TotalScore
			if m.opts.Leaderboard != nil && e.TotalScore > 0 {
				m.entering = true
				cmds = append(cmds, m.name.Focus())
			}
		}
	}
	m.expireToasts(now)
	return m, tea.Batch(cmds...)
}

func (m *Model) expireToasts(now time.Time) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Before(t.expires) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// saveRound records the round that just resolved. The snapshot published
// after the frame still holds the final budget, timer and slots.
func (m Model) saveRound(outcome string, score int) tea.Cmd {
	if m.opts.Rounds == nil {
		return nil
	}
	snap := m.sink.snap
	rec := storage.RoundRecord{
		Round:       snap.Round,
		Outcome:     outcome,
		Score:       score,
		BudgetLeft:  snap.Budget,
		TimeLeftMs:  int(math.Round(snap.TimerMs)),
		SlotsFilled: snap.Slots.Filled(),
	}
	rounds := m.opts.Rounds
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		_, err := rounds.SaveRound(ctx, rec)
		return roundSavedMsg{err: err}
	}
}

func submitCmd(board *leaderboard.Service, name string, score int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		e, err := board.Submit(ctx, name, score)
		return submittedMsg{entry: e, err: err}
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.runner.Stop()
	if m.board != nil {
		m.board.Close()
	}
	return m, tea.Quit
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.board != nil {
		return m.board.View()
	}

	status := m.status
	if status == "" {
		status = m.help.ShortHelpView(m.keys.ShortHelp())
	}
	drawGame(m.screen, m.sink.snap, m.toasts, m.runner.Paused())
	if m.entering {
		drawPrompt(m.screen, m.sink.snap, m.name.Value())
	}
	// The bottom row is left blank for the help or status line.
	out := RenderScreen(m.screen)
	if i := strings.LastIndexByte(out, '\n'); i >= 0 {
		return out[:i+1] + status
	}
	return status
}

// Run starts the Bubble Tea program with the given options.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	last, err := p.Run()
	if m, ok := last.(Model); ok {
		m.runner.Stop()
	}
	return err
}
