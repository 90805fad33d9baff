// Package tui is a terminal front-end for the simulated card table. It draws
// every emulated panel from its display RAM and turns key presses into
// appliance button events.
package tui

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/appliance"
	"github.com/lox/blackjack/internal/render"
	"github.com/lox/blackjack/internal/sim"
	"github.com/lox/blackjack/internal/ssd1306"
)

const (
	refreshInterval = 100 * time.Millisecond
	// panelScale halves each panel so a row of four fits a terminal
	panelScale = 2
	logHeight  = 8
)

type tickMsg time.Time

// QuitMsg is a custom message to signal quit
type QuitMsg struct{}

// Model is the Bubble Tea model for the simulator.
type Model struct {
	board  *sim.Board
	status *sim.Display
	events chan<- appliance.Event
	logs   *LogBuffer
	logger *log.Logger

	logViewport viewport.Model
	logVersion  int
	quit        chan struct{}
	quitting    bool

	width  int
	height int
}

// New returns a model drawing board's card panels and the status panel.
// Key presses are offered to events without blocking; logs may be nil.
func New(board *sim.Board, status *sim.Display, events chan<- appliance.Event, logs *LogBuffer, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if logs == nil {
		logs = NewLogBuffer(DefaultLogLines)
	}
	return &Model{
		board:       board,
		status:      status,
		events:      events,
		logs:        logs,
		logger:      logger.WithPrefix("tui"),
		logViewport: viewport.New(10, logHeight),
		quit:        make(chan struct{}, 1),
	}
}

// Init starts the refresh ticker
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.listenForQuit())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) listenForQuit() tea.Cmd {
	return func() tea.Msg {
		<-m.quit
		return QuitMsg{}
	}
}

// SendQuitSignal asks the program to exit, e.g. once the appliance stops.
func (m *Model) SendQuitSignal() {
	select {
	case m.quit <- struct{}{}:
	default:
		// already signalled
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case QuitMsg:
		m.quitting = true
		return m, tea.Quit

	case tickMsg:
		m.syncLog()
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		m.syncLog()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Quit
		}
		if ev, err := appliance.ParseEvent(msg.String()); err == nil {
			m.press(ev)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m *Model) press(ev appliance.Event) {
	select {
	case m.events <- ev:
		m.logger.Debug("Button pressed", "event", ev)
	default:
		m.logger.Warn("Dropping button press", "event", ev)
	}
}

// syncLog copies new log lines into the viewport, following the tail.
func (m *Model) syncLog() {
	lines, version := m.logs.Lines()
	if version == m.logVersion {
		return
	}
	m.logVersion = version
	atBottom := m.logViewport.AtBottom()
	m.logViewport.SetContent(strings.Join(lines, "\n"))
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

// View renders the table
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := HeaderStyle.Render("BlackJack table")
	dealer := m.renderRow("Dealer", render.DealerPositions)
	player := m.renderRow("Player", render.PlayerPositions)

	status := lipgloss.JoinVertical(lipgloss.Left,
		LabelStyle.Render("Status"),
		StatusPanelStyle.Render(strings.Join(PanelLines(m.status), "\n")),
	)

	logWidth := max(m.width-lipgloss.Width(status)-4, 10)
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight
	logPane := lipgloss.JoinVertical(lipgloss.Left,
		LabelStyle.Render("Log"),
		LogStyle.Width(logWidth).Height(logHeight).Render(m.logViewport.View()),
	)

	bottom := lipgloss.JoinHorizontal(lipgloss.Top, status, " ", logPane)
	return lipgloss.JoinVertical(lipgloss.Left, header, dealer, player, bottom, m.renderHelp())
}

func (m *Model) renderRow(label string, positions [4]render.Position) string {
	cells := make([]string, 0, len(positions))
	for _, pos := range positions {
		d := m.board.Panel(pos.Channel())
		style := PanelStyle
		if !d.On() {
			style = DarkPanelStyle
		}
		cells = append(cells, lipgloss.JoinVertical(lipgloss.Center,
			InfoStyle.Render(pos.String()),
			style.Render(strings.Join(PanelLines(d), "\n")),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		LabelStyle.Render(label),
		lipgloss.JoinHorizontal(lipgloss.Top, cells...),
	)
}

func (m *Model) renderHelp() string {
	keys := []struct{ key, action string }{
		{"s", "start"},
		{"h", "hit"},
		{"t", "stand"},
		{"↑↓", "scroll log"},
		{"q", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = KeyStyle.Render(k.key) + " " + InfoStyle.Render(k.action)
	}
	return strings.Join(parts, InfoStyle.Render(" • "))
}

// PanelLines draws an emulated panel at half resolution. A panel that is
// switched off shows blank.
func PanelLines(d *sim.Display) []string {
	frame := d.Frame()
	on := d.On()
	inverted := d.Inverted()
	return Braille(ssd1306.Width, ssd1306.Height, panelScale, func(x, y int) bool {
		return on && frame.Pixel(ssd1306.Width, x, y) != inverted
	})
}
