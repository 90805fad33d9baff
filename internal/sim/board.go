package sim

import (
	"fmt"
	"sync"
)

// Channels is the number of multiplexer channels, each with one panel.
const Channels = 8

// Board is the card table: a multiplexer at muxAddr fanning out to eight
// panels that all answer at panelAddr. Like the real part, several
// channels may be enabled at once, in which case a write reaches every
// enabled panel.
type Board struct {
	mu        sync.Mutex
	muxAddr   uint16
	panelAddr uint16
	mask      byte
	selects   int
	panels    [Channels]*Display
}

// NewBoard returns a board with all channels disabled.
func NewBoard(muxAddr, panelAddr uint16) *Board {
	b := &Board{muxAddr: muxAddr, panelAddr: panelAddr}
	for i := range b.panels {
		b.panels[i] = NewDisplay(panelAddr)
	}
	return b
}

// Write routes one bus transaction.
func (b *Board) Write(addr uint16, p []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch addr {
	case b.muxAddr:
		if len(p) != 1 {
			return fmt.Errorf("mux expects one control byte, got %d", len(p))
		}
		b.mask = p[0]
		b.selects++
		return nil
	case b.panelAddr:
		if b.mask == 0 {
			return fmt.Errorf("%w 0x%02x: no channel enabled", ErrNoDevice, addr)
		}
		for i, d := range b.panels {
			if b.mask&(1<<i) == 0 {
				continue
			}
			if err := d.receive(p); err != nil {
				return fmt.Errorf("channel %d: %w", i, err)
			}
		}
		return nil
	}
	return fmt.Errorf("%w 0x%02x", ErrNoDevice, addr)
}

// Panel returns the panel on channel n, or nil when n is out of range.
func (b *Board) Panel(n int) *Display {
	if n < 0 || n >= Channels {
		return nil
	}
	return b.panels[n]
}

// Mask returns the multiplexer's control register.
func (b *Board) Mask() byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mask
}

// Selects counts writes to the multiplexer.
func (b *Board) Selects() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selects
}
