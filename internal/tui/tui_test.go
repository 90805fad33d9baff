package tui

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/appliance"
	"github.com/lox/blackjack/internal/sim"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

const (
	muxAddr   = 0x70
	panelAddr = 0x3C
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T, events chan appliance.Event) (*Model, *sim.Board, *sim.Display) {
	t.Helper()
	board := sim.NewBoard(muxAddr, panelAddr)
	status := sim.NewDisplay(0x3D)
	m := New(board, status, events, nil, quietLogger())
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 50})
	return m, board, status
}

func TestBraille(t *testing.T) {
	t.Parallel()

	t.Run("blank", func(t *testing.T) {
		t.Parallel()
		lines := Braille(4, 8, 1, func(x, y int) bool { return false })
		assert.Equal(t, []string{"⠀⠀", "⠀⠀"}, lines)
	})

	t.Run("full", func(t *testing.T) {
		t.Parallel()
		lines := Braille(2, 4, 1, func(x, y int) bool { return true })
		assert.Equal(t, []string{"⣿"}, lines)
	})

	t.Run("dot positions", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			x, y int
			want rune
		}{
			{0, 0, 0x2801},
			{0, 2, 0x2804},
			{0, 3, 0x2840},
			{1, 0, 0x2808},
			{1, 3, 0x2880},
		}
		for _, tt := range tests {
			lines := Braille(2, 4, 1, func(x, y int) bool { return x == tt.x && y == tt.y })
			r, _ := utf8.DecodeRuneInString(lines[0])
			assert.Equal(t, tt.want, r, "pixel (%d,%d)", tt.x, tt.y)
		}
	})

	t.Run("scaled panel size", func(t *testing.T) {
		t.Parallel()
		lines := Braille(128, 64, 2, func(x, y int) bool { return false })
		require.Len(t, lines, 8)
		for _, l := range lines {
			assert.Equal(t, 32, utf8.RuneCountInString(l))
		}
	})

	t.Run("downsampling keeps thin strokes", func(t *testing.T) {
		t.Parallel()
		lines := Braille(4, 8, 2, func(x, y int) bool { return x == 1 && y == 1 })
		assert.Equal(t, []string{"⠁"}, lines)
	})
}

func TestLogBuffer(t *testing.T) {
	t.Parallel()

	b := NewLogBuffer(3)
	_, err := io.WriteString(b, "one\ntw")
	require.NoError(t, err)

	lines, v1 := b.Lines()
	assert.Equal(t, []string{"one"}, lines)

	_, err = io.WriteString(b, "o\nthree\nfour\n")
	require.NoError(t, err)

	lines, v2 := b.Lines()
	assert.Equal(t, []string{"two", "three", "four"}, lines)
	assert.NotEqual(t, v1, v2)
}

func TestKeysSendEvents(t *testing.T) {
	t.Parallel()

	events := make(chan appliance.Event, 4)
	m, _, _ := newModel(t, events)

	for _, k := range []string{"s", "h", "t"} {
		_, cmd := m.Update(keyPress(k))
		assert.Nil(t, cmd)
	}

	assert.Equal(t, appliance.Start, <-events)
	assert.Equal(t, appliance.Hit, <-events)
	assert.Equal(t, appliance.Stand, <-events)
}

func TestKeyPressNeverBlocks(t *testing.T) {
	t.Parallel()

	events := make(chan appliance.Event)
	m, _, _ := newModel(t, events)

	// nobody is listening; the press is dropped
	m.Update(keyPress("s"))
	assert.Empty(t, events)
}

func TestQuit(t *testing.T) {
	t.Parallel()

	for _, k := range []tea.KeyMsg{keyPress("q"), {Type: tea.KeyCtrlC}} {
		m, _, _ := newModel(t, make(chan appliance.Event, 1))
		_, cmd := m.Update(k)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Empty(t, m.View())
	}

	m, _, _ := newModel(t, make(chan appliance.Event, 1))
	m.SendQuitSignal()
	m.SendQuitSignal()
	msg := m.listenForQuit()()
	assert.IsType(t, QuitMsg{}, msg)
}

func TestPanelLines(t *testing.T) {
	t.Parallel()

	board := sim.NewBoard(muxAddr, panelAddr)
	require.NoError(t, board.Write(muxAddr, []byte{0x01}))
	require.NoError(t, board.Write(panelAddr, []byte{0x40, 0xFF}))

	d := board.Panel(0)
	blank := strings.Repeat("⠀", 32)
	assert.Equal(t, blank, PanelLines(d)[0], "panel is still off")

	require.NoError(t, board.Write(panelAddr, []byte{0x00, 0xAF}))
	lines := PanelLines(d)
	assert.Equal(t, "⡇"+strings.Repeat("⠀", 31), lines[0])
	assert.Equal(t, blank, lines[1])

	// every 2x2 block now holds at least one lit pixel
	require.NoError(t, board.Write(panelAddr, []byte{0x00, 0xA7}))
	assert.Equal(t, strings.Repeat("⣿", 32), PanelLines(d)[0])
}

func TestView(t *testing.T) {
	t.Parallel()

	logs := NewLogBuffer(10)
	board := sim.NewBoard(muxAddr, panelAddr)
	m := New(board, sim.NewDisplay(0x3D), make(chan appliance.Event, 1), logs, quietLogger())
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 160, Height: 50})
	_, err := fmt.Fprintln(logs, "INFO appliance: Waiting for start")
	require.NoError(t, err)
	m.Update(tickMsg{})

	view := m.View()
	for _, want := range []string{
		"BlackJack table", "Dealer", "Player", "Status", "Log",
		"dealer-1", "dealer-4", "player-1", "player-4",
		"Waiting for start", "start", "hit", "stand", "quit",
	} {
		assert.Contains(t, view, want)
	}
}
