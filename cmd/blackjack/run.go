package main

import (
	"context"
	"errors"
	"os"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/appliance"
	"github.com/lox/blackjack/internal/bus"
)

type RunCmd struct {
	Seed int64 `help:"Shuffle seed (0 uses the config, then the clock)"`
}

func (c *RunCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}

	logger, closer, err := shared.SetupLogger(os.Stderr, cfg.LogLevel(), cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	cards, err := bus.OpenI2C(cfg.Bus.Device)
	if err != nil {
		return err
	}
	defer func() { _ = cards.Close() }()
	logger.Info("Opened card bus", "bus", cards.String())

	var status bus.Bus
	if dev := cfg.StatusBus(); dev != cfg.Bus.Device {
		statusBus, err := bus.OpenI2C(dev)
		if err != nil {
			return err
		}
		defer func() { _ = statusBus.Close() }()
		logger.Info("Opened status bus", "bus", statusBus.String())
		status = statusBus
	}

	t := newTable(ctx, cfg, cards, status, logger)
	t.start(logger)

	events := make(chan appliance.Event)
	go readEvents(ctx, os.Stdin, events, logger)

	err = t.newAppliance(cfg, events, c.Seed, logger).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
