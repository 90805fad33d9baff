package render

import (
	"image"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/pbm"
	"github.com/lox/blackjack/internal/ssd1306"
)

// Card outline on the 128x64 raster, matching the printed card art.
var cardOutline = image.Rect(20, 2, 109, 62)

const (
	borderWidth = 2
	hatchPitch  = 6
	labelScale  = 3
)

// ProceduralBuffer draws c without any bitmap: an outlined card carrying
// its rank and suit when face up, or a cross-hatched back when face down.
func ProceduralBuffer(c blackjack.Card) (pbm.DisplayBuffer, error) {
	im, err := ProceduralImage(c)
	if err != nil {
		return nil, err
	}
	return im.DisplayBuffer(ssd1306.Width, ssd1306.Height)
}

// ProceduralImage is the panel-sized bitmap behind ProceduralBuffer.
func ProceduralImage(c blackjack.Card) (*pbm.Image, error) {
	return pbm.FromImage(cardImage(c))
}

func cardImage(c blackjack.Card) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, ssd1306.Width, ssd1306.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	strokeRect(img, cardOutline, borderWidth)

	inner := cardOutline.Inset(borderWidth + 2)
	if !c.FaceUp {
		crosshatch(img, inner)
		return img
	}

	label := c.Rank.Short()
	if c.Rank == blackjack.Ten {
		label = "10"
	}
	drawScaled(img, label, image.Pt(cardOutline.Min.X+cardOutline.Dx()/2, inner.Min.Y), labelScale)
	drawCentered(img, strings.ToUpper(c.Suit.String()), cardOutline.Min.X+cardOutline.Dx()/2, inner.Max.Y-3)
	return img
}

func strokeRect(img draw.Image, r image.Rectangle, w int) {
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w),
		image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y),
		image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(img, edge, image.Black, image.Point{}, draw.Src)
	}
}

func crosshatch(img *image.Gray, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if (x+y)%hatchPitch == 0 || (x-y+ssd1306.Height*hatchPitch)%hatchPitch == 0 {
				img.Set(x, y, image.Black.C)
			}
		}
	}
}

// drawCentered writes s in the basic 7x13 face with its baseline at y.
func drawCentered(img draw.Image, s string, cx, y int) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	d := font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(cx-w/2, y),
	}
	d.DrawString(s)
}

// drawScaled renders s at 7x13 and blows it up by scale, centred on cx
// with its top edge at top.
func drawScaled(img draw.Image, s string, at image.Point, scale int) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	h := face.Metrics().Height.Ceil()

	small := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	d := font.Drawer{
		Dst:  small,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)

	dst := image.Rect(at.X-w*scale/2, at.Y, at.X-w*scale/2+w*scale, at.Y+h*scale)
	draw.NearestNeighbor.Scale(img, dst, small, small.Bounds(), draw.Src, nil)
}
