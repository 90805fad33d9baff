package pbm

import "fmt"

// MaxBufferSize is the largest display buffer, one full 128x64 panel
const MaxBufferSize = 1024

// PageHeight is the number of pixel rows packed into one buffer byte
const PageHeight = 8

// DisplayBuffer is page-packed panel memory: for each page of 8 rows,
// one byte per column, bit n holding row page*8+n.
type DisplayBuffer []byte

// BufferSize returns the byte length of a width x height display buffer.
func BufferSize(width, height uint16) int {
	pages := (int(height) + PageHeight - 1) / PageHeight
	return pages * int(width)
}

// DisplayBuffer rescales the image to width x height with nearest
// neighbour sampling and packs it into pages.
func (im *Image) DisplayBuffer(width, height uint16) (DisplayBuffer, error) {
	size := BufferSize(width, height)
	if size > MaxBufferSize {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes (max %d)", ErrBufferFull, width, height, size, MaxBufferSize)
	}

	buf := make(DisplayBuffer, 0, size)
	pages := (int(height) + PageHeight - 1) / PageHeight
	for page := 0; page < pages; page++ {
		for col := 0; col < int(width); col++ {
			srcX := 0
			if im.width > 0 {
				srcX = col * int(im.width) / int(width)
			}

			var b byte
			for n := 0; n < PageHeight; n++ {
				row := page*PageHeight + n
				if row >= int(height) {
					break
				}
				srcY := 0
				if im.height > 0 {
					srcY = row * int(im.height) / int(height)
				}
				if im.Pixel(srcX, srcY) {
					b |= 1 << n
				}
			}
			buf = append(buf, b)
		}
	}
	return buf, nil
}

// Pixel reads back (x, y) from a buffer laid out for the given width.
func (b DisplayBuffer) Pixel(width, x, y int) bool {
	i := (y/PageHeight)*width + x
	if x < 0 || y < 0 || x >= width || i >= len(b) {
		return false
	}
	return b[i]&(1<<(y%PageHeight)) != 0
}
