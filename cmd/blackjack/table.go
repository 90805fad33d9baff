package main

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/appliance"
	"github.com/lox/blackjack/internal/assets"
	"github.com/lox/blackjack/internal/bus"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/mux"
	"github.com/lox/blackjack/internal/render"
	"github.com/lox/blackjack/internal/ssd1306"
)

// table is everything the appliance drives, wired onto a card bus behind
// the multiplexer and a bus carrying the status panel. A nil status bus
// puts the status panel on the card bus beside the multiplexer, sharing its
// lock.
type table struct {
	mux      *mux.Mux
	renderer *render.Renderer
	status   *render.StatusDisplay
}

func newTable(ctx context.Context, cfg *config.Config, cards, status bus.Bus, logger *log.Logger) *table {
	lib := assets.Dir(cfg.Assets.Dir, logger)
	if err := lib.Preload(ctx); err != nil {
		logger.Warn("Failed to preload bitmaps", "dir", cfg.Assets.Dir, "error", err)
	}

	m := mux.New(cards, uint16(cfg.Bus.MuxAddress), logger)
	panels := render.Panels(m, uint16(cfg.Bus.PanelAddress), logger)

	var statusPort bus.Port = m.Upstream()
	if status != nil {
		statusPort = bus.NewDirect(status)
	}
	statusPanel := ssd1306.New(statusPort, uint16(cfg.Bus.StatusAddress),
		ssd1306.WithLogger(logger),
		ssd1306.WithName("status"),
	)

	return &table{
		mux:      m,
		renderer: render.New(panels, lib, logger),
		status:   render.NewStatusDisplay(statusPanel, logger),
	}
}

// start brings every panel up. Failures are logged so that a single dead
// panel does not stop the game.
func (t *table) start(logger *log.Logger) {
	if err := t.renderer.InitAll(); err != nil {
		logger.Warn("Some card panels failed to initialise", "error", err)
	}
	if err := t.status.Init(); err != nil {
		logger.Warn("Status panel failed to initialise", "error", err)
	}
}

func (t *table) newAppliance(cfg *config.Config, events <-chan appliance.Event, seed int64, logger *log.Logger) *appliance.Appliance {
	if seed == 0 {
		seed = cfg.Game.Seed
	}
	return appliance.New(t.renderer, t.status, events,
		appliance.WithPacing(cfg.AppliancePacing()),
		appliance.WithSeed(seed),
		appliance.WithLogger(logger),
	)
}
