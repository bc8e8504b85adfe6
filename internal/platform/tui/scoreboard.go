package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/thrifty/internal/leaderboard"
)

// Scoreboard layout constants
const (
	maxScores     = 100
	loadTimeout   = 5 * time.Second
	tableMinWidth = 50
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Refresh},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "s", "tab"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// scoresLoadedMsg carries a fresh top table.
type scoresLoadedMsg struct {
	entries []leaderboard.Entry
	err     error
}

// liveEntryMsg is a new entry pushed by the leaderboard feed.
type liveEntryMsg leaderboard.Entry

// feedClosedMsg means the live feed ended.
type feedClosedMsg struct{}

// ScoreboardModel is the Bubble Tea model for the leaderboard screen. When
// the service has a feed the table refreshes as new scores arrive.
type ScoreboardModel struct {
	board      *leaderboard.Service
	entries    []leaderboard.Entry
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	feed       <-chan leaderboard.Entry
	cancel     context.CancelFunc
	highlight  string
	err        error
	width      int
	height     int
	quitting   bool
	goingBack  bool
	standalone bool
}

// NewScoreboardModel creates a new scoreboard model. The live subscription
// starts immediately and ends with Close.
func NewScoreboardModel(board *leaderboard.Service, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := ScoreboardModel{
		board:  board,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()

	if board != nil {
		ctx, cancel := context.WithCancel(context.Background())
		feed, err := board.Subscribe(ctx)
		if err != nil {
			cancel()
		} else {
			m.feed = feed
			m.cancel = cancel
		}
	}
	return m
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Name", Width: 16},
		{Title: "Score", Width: 10},
		{Title: "Date", Width: 14},
	}

	if tableWidth := m.width - 8; tableWidth > tableMinWidth {
		columns[3].Width = min(tableWidth-34, 20)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadScores fetches the top table off the UI goroutine.
func (m ScoreboardModel) loadScores() tea.Cmd {
	board := m.board
	return func() tea.Msg {
		if board == nil {
			return scoresLoadedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		entries, err := board.Top(ctx, maxScores)
		return scoresLoadedMsg{entries: entries, err: err}
	}
}

// waitForEntry returns a command that waits for the next live entry.
func (m ScoreboardModel) waitForEntry() tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		if feed == nil {
			return nil
		}
		e, ok := <-feed
		if !ok {
			return feedClosedMsg{}
		}
		return liveEntryMsg(e)
	}
}

// updateTableRows updates the table with current scores.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	cursor := 0
	for i, e := range m.entries {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			e.Name,
			fmt.Sprintf("%d", e.Score),
			e.CreatedAt.Local().Format("Jan 02 15:04"),
		}
		if e.ID == m.highlight {
			cursor = i
		}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(cursor)
}

// Init loads the table and starts listening for live entries.
func (m ScoreboardModel) Init() tea.Cmd {
	return tea.Batch(m.loadScores(), m.waitForEntry())
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.Close()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			m.Close()
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadScores()
		}

	case scoresLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.entries = msg.entries
			m.updateTableRows()
		}
		return m, nil

	case liveEntryMsg:
		m.highlight = msg.ID
		return m, tea.Batch(m.loadScores(), m.waitForEntry())

	case feedClosedMsg:
		m.feed = nil
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	title := "THRIFTY LEADERBOARD"
	if m.feed != nil {
		title += "  (live)"
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))
	b.WriteString("\n")

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		b.WriteString(errStyle.Render("Could not load scores: " + m.err.Error()))
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.entries) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No scores recorded yet.\nFinish a game to claim the top spot!")
	}
	return m.table.View()
}

// Close ends the live subscription.
func (m ScoreboardModel) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// IsGoingBack returns true if user wants to go back to the game.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunScoreboard runs the leaderboard screen on its own.
func RunScoreboard(board *leaderboard.Service, width, height int) error {
	model := NewScoreboardModel(board, width, height)
	model.standalone = true
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
