package tui

import "strings"

// brailleDots maps a dot's (column, row) inside a 2x4 braille cell to its
// bit in the U+2800 block.
var brailleDots = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Braille draws a width×height bitmap as lines of braille characters. Each
// dot covers a scale×scale block of pixels and is raised when any pixel in
// the block is lit, so thin strokes survive downsampling.
func Braille(width, height, scale int, lit func(x, y int) bool) []string {
	if scale < 1 {
		scale = 1
	}
	dotsW := (width + scale - 1) / scale
	dotsH := (height + scale - 1) / scale
	cols := (dotsW + 1) / 2
	rows := (dotsH + 3) / 4

	dot := func(dx, dy int) bool {
		for y := dy * scale; y < (dy+1)*scale && y < height; y++ {
			for x := dx * scale; x < (dx+1)*scale && x < width; x++ {
				if lit(x, y) {
					return true
				}
			}
		}
		return false
	}

	lines := make([]string, rows)
	var sb strings.Builder
	for row := range rows {
		sb.Reset()
		for col := range cols {
			r := rune(0x2800)
			for i := range 2 {
				for j := range 4 {
					if dot(col*2+i, row*4+j) {
						r |= brailleDots[i][j]
					}
				}
			}
			sb.WriteRune(r)
		}
		lines[row] = sb.String()
	}
	return lines
}
