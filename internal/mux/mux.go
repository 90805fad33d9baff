// Package mux drives a TCA9548A-style eight channel I²C multiplexer. The Mux
// owns the upstream bus; downstream devices borrow it one channel at a time.
package mux

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/bus"
)

const (
	// DefaultAddress is the multiplexer's address with A0-A2 tied low
	DefaultAddress uint16 = 0x70
	// Channels is the number of downstream channels
	Channels = 8
)

// Mux serialises all access to the shared bus. Every Do re-selects its
// channel because another caller may have switched it in between.
type Mux struct {
	mu      sync.Mutex
	bus     bus.Bus
	addr    uint16
	current int
	logger  *log.Logger
}

// New returns a Mux at addr on b. A nil logger discards output.
func New(b bus.Bus, addr uint16, logger *log.Logger) *Mux {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Mux{
		bus:     b,
		addr:    addr,
		current: -1,
		logger:  logger.WithPrefix("mux"),
	}
}

// Address returns the multiplexer's bus address.
func (m *Mux) Address() uint16 { return m.addr }

// SelectChannel routes the bus to channel n. An out of range channel is
// logged and ignored.
func (m *Mux) SelectChannel(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.selectLocked(n)
	return err
}

func (m *Mux) selectLocked(n int) (bool, error) {
	if n < 0 || n >= Channels {
		m.logger.Warn("Ignoring out of range channel", "channel", n)
		return false, nil
	}
	if err := m.bus.Write(m.addr, []byte{1 << n}); err != nil {
		return false, bus.Wrap(m.addr, "select", err)
	}
	m.current = n
	return true, nil
}

// Current reports the last successfully selected channel. It is for
// diagnostics only and says nothing about what a later Do will find.
func (m *Mux) Current() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.current >= 0
}

// Do selects channel n and runs fn while holding the bus. For an out of
// range channel fn is not run and Do returns nil.
func (m *Mux) Do(n int, fn func(b bus.Bus) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ok, err := m.selectLocked(n)
	if err != nil || !ok {
		return err
	}
	return fn(m.bus)
}

// Channel returns a Port for devices behind channel n.
func (m *Mux) Channel(n int) bus.Port {
	return channel{mux: m, n: n}
}

// Upstream returns a Port for devices wired beside the multiplexer on the
// same bus. It holds the bus like Do but leaves the channel selection alone.
func (m *Mux) Upstream() bus.Port {
	return upstream{mux: m}
}

type upstream struct {
	mux *Mux
}

func (u upstream) Do(fn func(b bus.Bus) error) error {
	u.mux.mu.Lock()
	defer u.mux.mu.Unlock()
	return fn(u.mux.bus)
}

type channel struct {
	mux *Mux
	n   int
}

func (c channel) Do(fn func(b bus.Bus) error) error {
	return c.mux.Do(c.n, fn)
}
