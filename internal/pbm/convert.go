package pbm

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
)

// FromImage thresholds any image to monochrome: pixels darker than mid
// grey with non-zero alpha are on, matching ink on paper.
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w*h > MaxPixels || w > 0xFFFF || h > 0xFFFF {
		return nil, fmt.Errorf("%w: %dx%d is %d pixels (max %d)", ErrBufferFull, w, h, w*h, MaxPixels)
	}

	pixels := make([]bool, 0, w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := src.At(x, y)
			_, _, _, a := c.RGBA()
			g := color.GrayModel.Convert(c).(color.Gray)
			pixels = append(pixels, a > 0 && g.Y < 0x80)
		}
	}
	return New(uint16(w), uint16(h), pixels)
}

// Encode writes the image as P1 or P4.
func (im *Image) Encode(w io.Writer, format Format) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n", format, im.width, im.height); err != nil {
		return err
	}

	switch format {
	case ASCII:
		for y := 0; y < int(im.height); y++ {
			for x := 0; x < int(im.width); x++ {
				if x > 0 {
					bw.WriteByte(' ')
				}
				if im.Pixel(x, y) {
					bw.WriteByte('1')
				} else {
					bw.WriteByte('0')
				}
			}
			bw.WriteByte('\n')
		}
	case Binary:
		stride := (int(im.width) + 7) / 8
		row := make([]byte, stride)
		for y := 0; y < int(im.height); y++ {
			clear(row)
			for x := 0; x < int(im.width); x++ {
				if im.Pixel(x, y) {
					row[x/8] |= 0x80 >> uint(x%8)
				}
			}
			bw.Write(row)
		}
	default:
		return fmt.Errorf("unsupported format %s", format)
	}
	return bw.Flush()
}

// Gray renders the image as an *image.Gray, on pixels black.
func (im *Image) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, int(im.width), int(im.height)))
	for y := 0; y < int(im.height); y++ {
		for x := 0; x < int(im.width); x++ {
			if !im.Pixel(x, y) {
				g.SetGray(x, y, color.Gray{Y: 0xFF})
			}
		}
	}
	return g
}
