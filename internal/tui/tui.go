package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/rps/internal/gesture"
	"github.com/lox/rps/internal/round"
	"github.com/lox/rps/internal/statistics"
)

// Engine is the part of round.Engine the terminal drives
type Engine interface {
	Snapshot() round.Snapshot
	StartRound() error
	Reset()
}

// SnapshotMsg carries an engine snapshot into the Bubble Tea loop
type SnapshotMsg struct {
	Snapshot round.Snapshot
}

// errMsg reports a rejected intent
type errMsg struct {
	err error
}

// Listener forwards engine snapshots to a running program. Program.Send
// blocks until the event loop accepts the message, so engine calls made
// from Update must run as commands.
type Listener struct {
	program *tea.Program
}

// NewListener creates a listener for p
func NewListener(p *tea.Program) *Listener {
	return &Listener{program: p}
}

// OnSnapshot implements round.Listener
func (l *Listener) OnSnapshot(s round.Snapshot) {
	l.program.Send(SnapshotMsg{Snapshot: s})
}

// Option configures a Model
type Option func(*Model)

// WithManualInput lets the number keys set the player's gesture
func WithManualInput(m *gesture.Manual) Option {
	return func(model *Model) {
		model.manual = m
	}
}

// WithStatistics shows running totals in the footer
func WithStatistics(t *statistics.Tracker) Option {
	return func(model *Model) {
		model.stats = t
	}
}

// Model is the Bubble Tea model for a game session
type Model struct {
	engine Engine
	manual *gesture.Manual
	stats  *statistics.Tracker
	logger *log.Logger

	keys    keyMap
	help    help.Model
	history viewport.Model
	entries []string

	snap     round.Snapshot
	status   string
	width    int
	height   int
	quitting bool
}

// NewModel creates a model showing the engine's current snapshot
func NewModel(engine Engine, logger *log.Logger, opts ...Option) *Model {
	m := &Model{
		engine:  engine,
		logger:  logger.WithPrefix("tui"),
		help:    help.New(),
		history: viewport.New(40, 5),
		snap:    engine.Snapshot(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.keys = newKeyMap(m.manual != nil)
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		m.applySnapshot(msg.Snapshot)
		return m, nil

	case errMsg:
		m.status = msg.err.Error()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeHistory()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Start):
			return m, m.startRound()
		case key.Matches(msg, m.keys.Reset):
			return m, m.reset()
		case key.Matches(msg, m.keys.Rock):
			m.setGesture(round.Rock)
			return m, nil
		case key.Matches(msg, m.keys.Paper):
			m.setGesture(round.Paper)
			return m, nil
		case key.Matches(msg, m.keys.Scissors):
			m.setGesture(round.Scissors)
			return m, nil
		case key.Matches(msg, m.keys.NoHand):
			m.setGesture(round.None)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

// startRound calls the engine off the event loop; the engine publishes
// synchronously and the listener would otherwise block on Program.Send.
func (m *Model) startRound() tea.Cmd {
	return func() tea.Msg {
		if err := m.engine.StartRound(); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (m *Model) reset() tea.Cmd {
	return func() tea.Msg {
		m.engine.Reset()
		return nil
	}
}

func (m *Model) setGesture(g round.Gesture) {
	m.manual.Set(g)
	m.logger.Debug("Manual gesture", "gesture", g)
}

func (m *Model) applySnapshot(s round.Snapshot) {
	prev := m.snap
	m.snap = s
	m.status = ""

	switch {
	case s.SessionID != prev.SessionID:
		m.addEntry(InfoStyle.Render("New game started"))
	case s.Phase == round.Result && s.Outcome != nil:
		m.addEntry(formatRound(s))
	case s.Phase == round.GameOver && prev.Phase != round.GameOver:
		if prev.Phase != round.Result || prev.Round != s.Round {
			m.addEntry(formatRound(s))
		}
		m.addEntry(formatWinner(s))
	}
}

func (m *Model) addEntry(entry string) {
	m.entries = append(m.entries, entry)
	m.history.SetContent(strings.Join(m.entries, "\n"))
	if m.history.Height > 0 && m.history.Width > 0 {
		m.history.GotoBottom()
	}
}

func (m *Model) resizeHistory() {
	width := m.width - 2
	height := m.height - lipgloss.Height(m.renderStage()) - 8
	m.history.Width = max(width, 1)
	m.history.Height = max(height, 1)
	m.history.GotoBottom()
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		"",
		m.renderStage(),
	}
	if m.status != "" {
		sections = append(sections, ErrorStyle.Render(m.status))
	}
	sections = append(sections,
		PaneStyle.Render(m.history.View()),
		m.renderFooter(),
		m.help.View(m.keys),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	s := m.snap
	title := HeaderStyle.Render("Rock Paper Scissors")
	score := ScoreStyle.Render(fmt.Sprintf("You %d : %d Bot", s.Score.Player, s.Score.Bot))
	info := InfoStyle.Render(fmt.Sprintf("Round %d · first to %d", s.Round, s.WinningScore))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", score, "  ", info)
}

func (m *Model) renderStage() string {
	s := m.snap
	var b strings.Builder

	switch s.Phase {
	case round.Idle:
		b.WriteString("Press space to start a round")
	case round.Countdown:
		b.WriteString(CountdownStyle.Render(fmt.Sprint(s.Countdown)))
	case round.Playing:
		b.WriteString(WarningStyle.Render("Show your hand!"))
	case round.Result, round.GameOver:
		fmt.Fprintf(&b, "You: %s   Bot: %s\n",
			GestureStyle.Render(s.PlayerGesture.String()),
			GestureStyle.Render(s.BotGesture.String()))
		if s.Outcome != nil {
			b.WriteString(outcomeStyle(s.Outcome.Kind).Render(s.Outcome.Message))
		}
		if s.Phase == round.GameOver {
			b.WriteString("\n")
			b.WriteString(formatWinner(s))
			b.WriteString("\n")
			b.WriteString(InfoStyle.Render("Press r to play again"))
		} else if s.Outcome != nil && s.Outcome.Kind == round.Invalid {
			b.WriteString("\n")
			b.WriteString(InfoStyle.Render("Press space to try again"))
		} else {
			b.WriteString("\n")
			b.WriteString(InfoStyle.Render("Press space for the next round"))
		}
	}

	if m.manual != nil {
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render("Your hand: " + m.manual.CurrentGesture().String()))
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	if m.stats == nil {
		return ""
	}
	stats := m.stats.Stats()
	return InfoStyle.Render(fmt.Sprintf("Games %d (won %d) · Rounds %d · Win rate %.0f%% · No hand %d",
		stats.Games,
		stats.PlayerGames,
		stats.Rounds,
		stats.PlayerWinRate()*100,
		stats.Count(round.Invalid)))
}

func formatRound(s round.Snapshot) string {
	if s.Outcome == nil {
		return ""
	}
	return fmt.Sprintf("Round %d: %s vs %s, %s (%d-%d)",
		s.Round,
		s.PlayerGesture,
		s.BotGesture,
		outcomeStyle(s.Outcome.Kind).Render(s.Outcome.Message),
		s.Score.Player,
		s.Score.Bot)
}

func formatWinner(s round.Snapshot) string {
	winner, ok := s.Winner()
	switch {
	case !ok:
		return ""
	case winner == round.PlayerWin:
		return SuccessStyle.Render(fmt.Sprintf("You won the game %d-%d!", s.Score.Player, s.Score.Bot))
	default:
		return ErrorStyle.Render(fmt.Sprintf("The bot won the game %d-%d", s.Score.Bot, s.Score.Player))
	}
}
