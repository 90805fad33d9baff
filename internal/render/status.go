package render

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"github.com/lox/blackjack/internal/pbm"
	"github.com/lox/blackjack/internal/ssd1306"
)

// NoScore hides a score line on the status panel.
const NoScore = -1

const (
	statusLines      = 4
	statusLineHeight = 16
	statusFirstLine  = 12
	playerScoreY     = 35
	dealerScoreY     = 55
)

// StatusDisplay shows game messages and running scores on the separate
// status panel.
type StatusDisplay struct {
	panel  *ssd1306.Panel
	logger *log.Logger
}

// NewStatusDisplay wraps a panel. The panel is not touched until Init.
func NewStatusDisplay(panel *ssd1306.Panel, logger *log.Logger) *StatusDisplay {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &StatusDisplay{panel: panel, logger: logger.WithPrefix("status")}
}

// Init brings the panel up blank.
func (s *StatusDisplay) Init() error {
	return s.panel.Init()
}

// ShowWelcome draws the title screen.
func (s *StatusDisplay) ShowWelcome() error {
	img := blankImage()
	drawText(img, "BlackJack", 20, 16)
	drawText(img, "Press START...", 4, 40)
	return s.paint(img)
}

// Show draws message, one line per '\n', and any score that is not
// NoScore.
func (s *StatusDisplay) Show(message string, player, dealer int) error {
	s.logger.Debug("Status", "message", strings.ReplaceAll(message, "\n", " "), "player", player, "dealer", dealer)
	return s.paint(StatusImage(message, player, dealer))
}

func (s *StatusDisplay) paint(img *image.Gray) error {
	im, err := pbm.FromImage(img)
	if err != nil {
		return err
	}
	buf, err := im.DisplayBuffer(ssd1306.Width, ssd1306.Height)
	if err != nil {
		return err
	}
	return s.panel.Paint(buf)
}

// StatusImage lays out a status screen. Lines past the fourth are dropped.
func StatusImage(message string, player, dealer int) *image.Gray {
	img := blankImage()
	for i, line := range strings.SplitN(message, "\n", statusLines+1) {
		if i == statusLines {
			break
		}
		drawText(img, line, 0, statusFirstLine+i*statusLineHeight)
	}
	if player != NoScore {
		drawText(img, fmt.Sprintf("Player: %d", player), 0, playerScoreY)
	}
	if dealer != NoScore {
		drawText(img, fmt.Sprintf("Dealer: %d", dealer), 0, dealerScoreY)
	}
	return img
}

func blankImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, ssd1306.Width, ssd1306.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func drawText(img draw.Image, s string, x, baseline int) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: inconsolata.Regular8x16,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}
