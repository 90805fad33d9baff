// Package render maps hands onto the eight card panels. Each card resolves
// to a bitmap when one is available and is drawn procedurally otherwise.
package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/mux"
	"github.com/lox/blackjack/internal/pbm"
	"github.com/lox/blackjack/internal/ssd1306"
)

// BitmapSource supplies raw P1/P4 bitmaps for card faces and the card back.
type BitmapSource interface {
	Face(c blackjack.Card) ([]byte, bool)
	Back() ([]byte, bool)
}

var errNoPanel = errors.New("no panel at position")

// Renderer owns one panel per position. Panels share the bus through the
// multiplexer, so calls are serialised there.
type Renderer struct {
	panels [Positions]*ssd1306.Panel
	source BitmapSource
	logger *log.Logger
}

// New returns a renderer. A nil source draws every card procedurally, as
// does a source that resolves nothing, such as a nil *assets.Library.
func New(panels [Positions]*ssd1306.Panel, source BitmapSource, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Renderer{
		panels: panels,
		source: source,
		logger: logger.WithPrefix("render"),
	}
}

// Panels builds the eight card panels, each behind the mux channel that
// matches its position.
func Panels(m *mux.Mux, addr uint16, logger *log.Logger) [Positions]*ssd1306.Panel {
	var panels [Positions]*ssd1306.Panel
	for i := range panels {
		pos := Position(i)
		panels[i] = ssd1306.New(m.Channel(pos.Channel()), addr,
			ssd1306.WithLogger(logger),
			ssd1306.WithName(pos.String()),
		)
	}
	return panels
}

// InitAll initialises every panel. A failing panel does not stop the rest.
func (r *Renderer) InitAll() error {
	r.logger.Info("Initialising card panels")
	var errs []error
	for i := range r.panels {
		errs = append(errs, r.each(Position(i), (*ssd1306.Panel).Init))
	}
	return errors.Join(errs...)
}

// ClearAll blanks every panel.
func (r *Renderer) ClearAll() error {
	var errs []error
	for i := range r.panels {
		errs = append(errs, r.each(Position(i), (*ssd1306.Panel).Clear))
	}
	return errors.Join(errs...)
}

// RefreshDealer redraws the dealer's side from h.
func (r *Renderer) RefreshDealer(h blackjack.Hand) error {
	return r.refresh(DealerPositions, h)
}

// RefreshPlayer redraws the player's side from h.
func (r *Renderer) RefreshPlayer(h blackjack.Hand) error {
	return r.refresh(PlayerPositions, h)
}

func (r *Renderer) refresh(side [4]Position, h blackjack.Hand) error {
	r.logger.Debug("Refreshing hand", "from", side[0], "cards", h.Len())

	var errs []error
	for _, pos := range side {
		errs = append(errs, r.each(pos, (*ssd1306.Panel).Clear))
	}
	for i, pos := range side {
		c, ok := h.Card(i)
		if !ok {
			break
		}
		errs = append(errs, r.ShowCard(c, pos))
	}
	return errors.Join(errs...)
}

// ShowCard paints c at pos.
func (r *Renderer) ShowCard(c blackjack.Card, pos Position) error {
	if !pos.Valid() || r.panels[pos] == nil {
		return fmt.Errorf("%s: %w", pos, errNoPanel)
	}
	buf, err := r.CardBuffer(c)
	if err != nil {
		return fmt.Errorf("%s: %w", pos, err)
	}
	if err := r.panels[pos].Paint(buf); err != nil {
		return fmt.Errorf("%s: %w", pos, err)
	}
	return nil
}

// CardBuffer resolves c to panel memory. Face-down cards only ever see the
// back bitmap. A missing or malformed bitmap falls back to procedural
// drawing.
func (r *Renderer) CardBuffer(c blackjack.Card) (pbm.DisplayBuffer, error) {
	data, ok := r.bitmap(c)
	if !ok {
		return ProceduralBuffer(c)
	}

	im, err := pbm.Parse(data)
	if err == nil {
		var buf pbm.DisplayBuffer
		if buf, err = im.DisplayBuffer(ssd1306.Width, ssd1306.Height); err == nil {
			return buf, nil
		}
	}
	r.logger.Warn("Bad bitmap, drawing card instead", "card", c, "face_up", c.FaceUp, "error", err)
	return ProceduralBuffer(c)
}

func (r *Renderer) bitmap(c blackjack.Card) ([]byte, bool) {
	if r.source == nil {
		return nil, false
	}
	if !c.FaceUp {
		return r.source.Back()
	}
	return r.source.Face(c)
}

func (r *Renderer) each(pos Position, fn func(*ssd1306.Panel) error) error {
	p := r.panels[pos]
	if p == nil {
		return fmt.Errorf("%s: %w", pos, errNoPanel)
	}
	if err := fn(p); err != nil {
		r.logger.Error("Panel failed", "position", pos, "error", err)
		return fmt.Errorf("%s: %w", pos, err)
	}
	return nil
}
