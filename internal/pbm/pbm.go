// Package pbm decodes portable bitmaps (P1 ASCII and P4 binary) and packs
// them into the page-oriented byte layout used by 128x64 OLED panels.
package pbm

import (
	"errors"
	"fmt"
	"strconv"
)

// MaxPixels bounds the size of a decoded image
const MaxPixels = 8192

var (
	// ErrInvalidFormat reports a malformed or truncated bitmap
	ErrInvalidFormat = errors.New("invalid pbm format")
	// ErrBufferFull reports an image or buffer larger than the fixed bounds
	ErrBufferFull = errors.New("pbm buffer full")
)

// Format selects the payload encoding
type Format byte

const (
	// ASCII is the P1 format: one digit per pixel
	ASCII Format = '1'
	// Binary is the P4 format: 8 pixels per byte, rows padded to a byte
	Binary Format = '4'
)

func (f Format) String() string {
	return "P" + string(rune(f))
}

// Image is a decoded monochrome bitmap. A true pixel is "on" (black ink,
// lit on the panel). Images are immutable once built.
type Image struct {
	width  uint16
	height uint16
	pixels []bool
}

// New builds an image from row-major pixels. len(pixels) must equal
// width*height.
func New(width, height uint16, pixels []bool) (*Image, error) {
	total := int(width) * int(height)
	if total > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d is %d pixels (max %d)", ErrBufferFull, width, height, total, MaxPixels)
	}
	if len(pixels) != total {
		return nil, fmt.Errorf("%w: got %d pixels for %dx%d", ErrInvalidFormat, len(pixels), width, height)
	}
	p := make([]bool, total)
	copy(p, pixels)
	return &Image{width: width, height: height, pixels: p}, nil
}

// Width returns the image width in pixels
func (im *Image) Width() uint16 { return im.width }

// Height returns the image height in pixels
func (im *Image) Height() uint16 { return im.height }

// Pixel reports whether (x, y) is on. Coordinates outside the image are off.
func (im *Image) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= int(im.width) || y >= int(im.height) {
		return false
	}
	return im.pixels[y*int(im.width)+x]
}

// Parse decodes a P1 or P4 bitmap. Whitespace and '#' comment lines may
// appear before the magic number and between header fields.
func Parse(data []byte) (*Image, error) {
	pos := skipSpace(data, 0)

	if pos+1 >= len(data) || data[pos] != 'P' {
		return nil, fmt.Errorf("%w: missing magic number at byte %d", ErrInvalidFormat, pos)
	}
	format := Format(data[pos+1])
	if format != ASCII && format != Binary {
		return nil, fmt.Errorf("%w: unsupported magic P%c", ErrInvalidFormat, data[pos+1])
	}
	pos += 2

	pos = skipSpace(data, pos)
	width, pos, err := parseNumber(data, pos)
	if err != nil {
		return nil, fmt.Errorf("width: %w", err)
	}

	pos = skipSpace(data, pos)
	height, pos, err := parseNumber(data, pos)
	if err != nil {
		return nil, fmt.Errorf("height: %w", err)
	}

	total := int(width) * int(height)
	if total > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d is %d pixels (max %d)", ErrBufferFull, width, height, total, MaxPixels)
	}

	im := &Image{width: width, height: height, pixels: make([]bool, 0, total)}
	switch format {
	case ASCII:
		err = im.decodeASCII(data, skipSpace(data, pos))
	case Binary:
		err = im.decodeBinary(data, payloadStart(data, pos))
	}
	if err != nil {
		return nil, err
	}
	return im, nil
}

func (im *Image) decodeASCII(data []byte, pos int) error {
	total := int(im.width) * int(im.height)
	for i := 0; i < total; i++ {
		pos = skipSpace(data, pos)
		if pos >= len(data) {
			return fmt.Errorf("%w: P1 data ends at pixel %d of %d", ErrInvalidFormat, i, total)
		}

		switch data[pos] {
		case '0':
			im.pixels = append(im.pixels, false)
		case '1', '2':
			// some generators emit 2 for on
			im.pixels = append(im.pixels, true)
		default:
			return fmt.Errorf("%w: invalid P1 pixel %q at byte %d", ErrInvalidFormat, data[pos], pos)
		}
		pos++
	}
	return nil
}

func (im *Image) decodeBinary(data []byte, pos int) error {
	stride := (int(im.width) + 7) / 8
	need := pos + stride*int(im.height)
	if need > len(data) {
		return fmt.Errorf("%w: P4 data has %d bytes, need %d", ErrInvalidFormat, len(data)-pos, need-pos)
	}

	for y := 0; y < int(im.height); y++ {
		row := data[pos+y*stride:]
		for x := 0; x < int(im.width); x++ {
			bit := 7 - uint(x%8)
			im.pixels = append(im.pixels, (row[x/8]>>bit)&1 == 1)
		}
	}
	return nil
}

// payloadStart finds the first P4 payload byte. The height is terminated
// either by a comment running to end of line or by exactly one whitespace
// byte; anything after that is pixel data, even bytes that look like
// whitespace.
func payloadStart(data []byte, pos int) int {
	if pos >= len(data) {
		return pos
	}
	switch {
	case data[pos] == '#':
		for pos < len(data) && data[pos] != '\n' {
			pos++
		}
		if pos < len(data) {
			pos++
		}
		return pos
	case data[pos] == '\r' && pos+1 < len(data) && data[pos+1] == '\n':
		return pos + 2
	case isSpace(data[pos]):
		return pos + 1
	}
	return pos
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// skipSpace advances past whitespace and '#' comment lines.
func skipSpace(data []byte, pos int) int {
	for pos < len(data) {
		switch {
		case isSpace(data[pos]):
			pos++
		case data[pos] == '#':
			for pos < len(data) && data[pos] != '\n' && data[pos] != '\r' {
				pos++
			}
		default:
			return pos
		}
	}
	return pos
}

func parseNumber(data []byte, pos int) (uint16, int, error) {
	end := pos
	for end < len(data) && data[end] >= '0' && data[end] <= '9' {
		end++
	}
	if end == pos {
		return 0, pos, fmt.Errorf("%w: expected number at byte %d", ErrInvalidFormat, pos)
	}

	n, err := strconv.ParseUint(string(data[pos:end]), 10, 16)
	if err != nil {
		return 0, pos, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return uint16(n), end, nil
}
