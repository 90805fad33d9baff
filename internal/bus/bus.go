// Package bus defines the single capability the display stack needs from a
// serial bus: write a byte sequence to a device address.
package bus

import (
	"fmt"
	"sync"
)

// Bus writes raw bytes to a 7-bit device address. Implementations do not
// retry; a failed write is returned as-is.
type Bus interface {
	Write(addr uint16, p []byte) error
}

// Port is a borrowed handle on a shared bus. Do runs fn while the caller
// holds the bus exclusively, after any routing (such as a multiplexer
// channel select) has been applied.
type Port interface {
	Do(fn func(b Bus) error) error
}

// Error describes a failed bus transaction.
type Error struct {
	Addr uint16
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("bus %s at 0x%02x: %v", e.Op, e.Addr, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns err as an *Error for addr, or nil when err is nil.
func Wrap(addr uint16, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Addr: addr, Op: op, Err: err}
}

// Direct is a Port for a bus with a single downstream segment.
type Direct struct {
	mu  sync.Mutex
	bus Bus
}

// NewDirect wraps b so that concurrent users are serialised.
func NewDirect(b Bus) *Direct {
	return &Direct{bus: b}
}

// Do runs fn with exclusive access to the bus.
func (d *Direct) Do(fn func(b Bus) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.bus)
}
