// Package ssd1306 drives a 128x64 SSD1306 OLED panel with raw command and
// data envelopes, one panel per bus.Port.
package ssd1306

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/bus"
	"github.com/lox/blackjack/internal/pbm"
)

const (
	// DefaultAddress is the panel address with SA0 low
	DefaultAddress uint16 = 0x3C

	// Width is the panel width in pixels
	Width = 128
	// Height is the panel height in pixels
	Height = 64
	// Pages is the number of eight-row pages in display RAM
	Pages = Height / pbm.PageHeight
	// BufferSize is the length of a full page-packed frame
	BufferSize = Width * Pages

	// DefaultChunkSize is the payload carried by one data envelope
	DefaultChunkSize = 16
)

// Control bytes that open every transaction.
const (
	controlCommand byte = 0x00
	controlData    byte = 0x40
)

// Commands used outside the bring-up sequence.
const (
	cmdColumnAddress byte = 0x21
	cmdPageAddress   byte = 0x22
)

// ErrWindowSize reports a paint buffer that does not fill the panel window.
var ErrWindowSize = errors.New("buffer does not match panel window")

// initSequence brings a cold panel up for horizontal addressing with the
// internal charge pump. Each byte goes out in its own command envelope.
var initSequence = []byte{
	0xAE,       // display off
	0xD5, 0x80, // clock divide ratio
	0xA8, 0x3F, // multiplex ratio 64
	0xD3, 0x00, // display offset
	0x40,       // start line 0
	0x8D, 0x14, // charge pump on
	0x20, 0x00, // horizontal addressing
	0xA1,       // segment remap
	0xC8,       // COM scan descending
	0xDA, 0x12, // COM pins
	0x81, 0xCF, // contrast
	0xD9, 0xF1, // precharge
	0xDB, 0x40, // VCOMH deselect
	0xA4,       // resume from RAM
	0xA6,       // normal, not inverted
	0xAF,       // display on
}

// Option configures a Panel.
type Option func(*Panel)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Panel) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithChunkSize sets how many payload bytes go into each data envelope.
// Values below 1 are ignored.
func WithChunkSize(n int) Option {
	return func(p *Panel) {
		if n > 0 {
			p.chunk = n
		}
	}
}

// WithName labels log output, typically with the panel's position.
func WithName(name string) Option {
	return func(p *Panel) {
		p.name = name
	}
}

// Panel is one display reached through a Port. It holds no frame buffer of
// its own; every call rewrites the full window.
type Panel struct {
	port   bus.Port
	addr   uint16
	chunk  int
	name   string
	logger *log.Logger
}

// New returns a panel at addr behind port.
func New(port bus.Port, addr uint16, opts ...Option) *Panel {
	p := &Panel{
		port:   port,
		addr:   addr,
		chunk:  DefaultChunkSize,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithPrefix("ssd1306")
	if p.name != "" {
		p.logger = p.logger.With("panel", p.name)
	}
	return p
}

// Address returns the panel's bus address.
func (p *Panel) Address() uint16 { return p.addr }

// Init runs the bring-up sequence and blanks the panel in one exclusive
// transaction.
func (p *Panel) Init() error {
	err := p.port.Do(func(b bus.Bus) error {
		for _, c := range initSequence {
			if err := p.command(b, c); err != nil {
				return err
			}
		}
		return p.fill(b, nil)
	})
	if err != nil {
		return fmt.Errorf("init panel: %w", err)
	}
	p.logger.Debug("Panel initialised")
	return nil
}

// Clear resets the address window and zero-fills it.
func (p *Panel) Clear() error {
	if err := p.port.Do(func(b bus.Bus) error { return p.fill(b, nil) }); err != nil {
		return fmt.Errorf("clear panel: %w", err)
	}
	return nil
}

// Paint writes a full-panel page-packed buffer.
func (p *Panel) Paint(buf pbm.DisplayBuffer) error {
	if len(buf) != BufferSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrWindowSize, len(buf), BufferSize)
	}
	if err := p.port.Do(func(b bus.Bus) error { return p.fill(b, buf) }); err != nil {
		return fmt.Errorf("paint panel: %w", err)
	}
	return nil
}

// fill opens the full window and streams buf, or zeros when buf is nil.
func (p *Panel) fill(b bus.Bus, buf []byte) error {
	if err := p.command(b, cmdColumnAddress, 0x00, Width-1); err != nil {
		return err
	}
	if err := p.command(b, cmdPageAddress, 0x00, Pages-1); err != nil {
		return err
	}
	if buf == nil {
		buf = make([]byte, BufferSize)
	}

	envelope := make([]byte, 0, p.chunk+1)
	for pos := 0; pos < len(buf); pos += p.chunk {
		end := min(pos+p.chunk, len(buf))
		envelope = append(envelope[:0], controlData)
		envelope = append(envelope, buf[pos:end]...)
		if err := b.Write(p.addr, envelope); err != nil {
			return bus.Wrap(p.addr, "data", err)
		}
	}
	return nil
}

func (p *Panel) command(b bus.Bus, c ...byte) error {
	envelope := append([]byte{controlCommand}, c...)
	return bus.Wrap(p.addr, "command", b.Write(p.addr, envelope))
}
