// Package sim emulates the card table's bus: a TCA9548A multiplexer with an
// SSD1306 panel on each channel. It decodes the same byte stream the real
// hardware sees, so drivers can be exercised without a Raspberry Pi.
package sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lox/blackjack/internal/pbm"
)

const (
	width  = 128
	pages  = 8
	height = pages * pbm.PageHeight
)

// ErrNoDevice is returned when nothing acknowledges an address.
var ErrNoDevice = errors.New("no device at address")

// argCount is the number of argument bytes that follow each opcode the
// emulator understands. Opcodes missing here take none.
var argCount = map[byte]int{
	0x20: 1, // addressing mode
	0x21: 2, // column window
	0x22: 2, // page window
	0x81: 1, // contrast
	0x8D: 1, // charge pump
	0xA8: 1, // multiplex
	0xD3: 1, // offset
	0xD5: 1, // clock
	0xD9: 1, // precharge
	0xDA: 1, // COM pins
	0xDB: 1, // VCOMH
}

// Display emulates one SSD1306 panel in horizontal addressing mode. It
// implements bus.Bus for its own address, so it can also stand alone on a
// bus without a multiplexer.
type Display struct {
	mu   sync.Mutex
	addr uint16
	ram  [width * pages]byte

	on       bool
	inverted bool
	contrast byte

	colStart, colEnd   int
	pageStart, pageEnd int
	col, page          int

	op      byte
	args    []byte
	pending int

	commands int
	data     int
	fail     error
}

// NewDisplay returns a powered-off panel answering at addr.
func NewDisplay(addr uint16) *Display {
	return &Display{
		addr:     addr,
		contrast: 0x7F,
		colEnd:   width - 1,
		pageEnd:  pages - 1,
	}
}

// Write accepts one bus transaction addressed to the panel.
func (d *Display) Write(addr uint16, p []byte) error {
	if addr != d.addr {
		return fmt.Errorf("%w 0x%02x", ErrNoDevice, addr)
	}
	return d.receive(p)
}

// FailWith makes subsequent transactions fail with err; nil restores the
// panel.
func (d *Display) FailWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail = err
}

func (d *Display) receive(p []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.fail != nil {
		return d.fail
	}
	if len(p) == 0 {
		return nil
	}

	switch p[0] {
	case 0x00:
		for _, c := range p[1:] {
			d.commandByte(c)
		}
	case 0x40:
		for _, v := range p[1:] {
			d.dataByte(v)
		}
	default:
		return fmt.Errorf("unsupported control byte 0x%02x", p[0])
	}
	return nil
}

// commandByte feeds one byte to the command decoder. Arguments may arrive
// in later envelopes than their opcode.
func (d *Display) commandByte(c byte) {
	if d.pending > 0 {
		d.args = append(d.args, c)
		d.pending--
		if d.pending == 0 {
			d.apply()
		}
		return
	}

	d.op = c
	d.args = d.args[:0]
	d.pending = argCount[c]
	if d.pending == 0 {
		d.apply()
	}
}

func (d *Display) apply() {
	d.commands++
	switch d.op {
	case 0xAE:
		d.on = false
	case 0xAF:
		d.on = true
	case 0xA6:
		d.inverted = false
	case 0xA7:
		d.inverted = true
	case 0x81:
		d.contrast = d.args[0]
	case 0x21:
		d.colStart = int(d.args[0]) % width
		d.colEnd = int(d.args[1]) % width
		d.col = d.colStart
	case 0x22:
		d.pageStart = int(d.args[0]) % pages
		d.pageEnd = int(d.args[1]) % pages
		d.page = d.pageStart
	}
}

// dataByte stores v at the cursor and advances it, wrapping at the window
// edges the way horizontal addressing does.
func (d *Display) dataByte(v byte) {
	d.ram[d.page*width+d.col] = v
	d.data++

	if d.col == d.colEnd {
		d.col = d.colStart
		if d.page == d.pageEnd {
			d.page = d.pageStart
		} else {
			d.page = (d.page + 1) % pages
		}
		return
	}
	d.col = (d.col + 1) % width
}

// On reports whether the panel has been switched on.
func (d *Display) On() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.on
}

// Inverted reports whether the panel shows inverse video.
func (d *Display) Inverted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inverted
}

// Contrast returns the last contrast setting.
func (d *Display) Contrast() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.contrast
}

// Frame returns a copy of display RAM in page-packed order.
func (d *Display) Frame() pbm.DisplayBuffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(pbm.DisplayBuffer, len(d.ram))
	copy(out, d.ram[:])
	return out
}

// Pixel reports whether RAM holds an on bit at (x, y).
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= width || y >= height {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ram[(y/pbm.PageHeight)*width+x]&(1<<(y%pbm.PageHeight)) != 0
}

// Lit counts on bits in RAM.
func (d *Display) Lit() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, b := range d.ram {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

// Stats returns the number of decoded commands and data bytes received.
func (d *Display) Stats() (commands, data int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commands, d.data
}
