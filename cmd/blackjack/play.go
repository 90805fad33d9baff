package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/appliance"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/sim"
	"github.com/lox/blackjack/internal/tui"
)

type PlayCmd struct {
	Seed    int64 `help:"Shuffle seed (0 uses the config, then the clock)"`
	Fast    bool  `help:"Skip the pauses between screens"`
	NoColor bool  `help:"Disable colours"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	if c.Fast {
		cfg.Pacing = config.PacingSettings{}
	}
	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	// logs go to the simulator's log pane rather than the terminal
	logs := tui.NewLogBuffer(tui.DefaultLogLines)
	logger, closer, err := shared.SetupLogger(logs, cfg.LogLevel(), cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	board := sim.NewBoard(uint16(cfg.Bus.MuxAddress), uint16(cfg.Bus.PanelAddress))
	statusPanel := sim.NewDisplay(uint16(cfg.Bus.StatusAddress))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := newTable(ctx, cfg, board, statusPanel, logger)
	t.start(logger)

	events := make(chan appliance.Event, 1)
	app := t.newAppliance(cfg, events, c.Seed, logger)
	model := tui.New(board, statusPanel, events, logs, logger)

	done := make(chan error, 1)
	go func() {
		err := app.Run(ctx)
		model.SendQuitSignal()
		done <- err
	}()

	logger.Info("Starting simulator", "mux", fmt.Sprintf("0x%02x", cfg.Bus.MuxAddress))
	_, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	cancel()

	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("appliance stopped: %w", err)
	}
	return runErr
}
