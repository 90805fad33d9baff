package main

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/appliance"
)

// readEvents turns lines of input ("start", "hit", "stand" or their
// shorthands) into button events. It closes events at end of input.
func readEvents(ctx context.Context, r io.Reader, events chan<- appliance.Event, logger *log.Logger) {
	defer close(events)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		ev, err := appliance.ParseEvent(line)
		if err != nil {
			logger.Warn("Ignoring input", "line", line, "error", err)
			continue
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Error("Failed reading input", "error", err)
	}
}
