package render

import (
	"fmt"
	"strconv"
	"strings"
)

// Terminal control sequences.
const (
	CSI   = "\x1b["
	Reset = CSI + "0m"

	ClearScreen  = CSI + "2J"
	HideCursor   = CSI + "?25l"
	ShowCursor   = CSI + "?25h"
	AltScreenOn  = CSI + "?1049h"
	AltScreenOff = CSI + "?1049l"

	// TileWidth is how many screen columns each map cell occupies.
	// 2 makes cells appear roughly square since terminal chars are ~2:1.
	TileWidth = 2
)

// RGB is a truecolor value.
type RGB struct{ R, G, B uint8 }

// Scale multiplies each channel by f, which should lie in [0, 1].
func (c RGB) Scale(f float32) RGB {
	return RGB{
		R: uint8(float32(c.R) * f),
		G: uint8(float32(c.G) * f),
		B: uint8(float32(c.B) * f),
	}
}

// Cell is one screen cell: a glyph drawn in Fg over Bg.
type Cell struct {
	Ch     rune
	Fg, Bg RGB
}

// MoveTo positions the cursor at row, col (1-based).
func MoveTo(row, col int) string {
	return fmt.Sprintf("%s%d;%dH", CSI, row, col)
}

// WriteCellSGR writes a cell with a full SGR reset so no attribute leaks into
// the next cell.
func WriteCellSGR(sb *strings.Builder, c Cell) {
	sb.WriteString(CSI + "0;38;2;")
	writeRGB(sb, c.Fg)
	sb.WriteString(";48;2;")
	writeRGB(sb, c.Bg)
	sb.WriteByte('m')
	sb.WriteRune(c.Ch)
}

func writeRGB(sb *strings.Builder, c RGB) {
	sb.WriteString(strconv.Itoa(int(c.R)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.G)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.B)))
}

// palette holds the VGA values of the basic and bright foreground codes.
var palette = map[int]RGB{
	30: {0, 0, 0},
	31: {170, 0, 0},
	32: {0, 170, 0},
	33: {170, 170, 0},
	34: {0, 0, 170},
	35: {170, 0, 170},
	36: {0, 170, 170},
	37: {170, 170, 170},
	90: {85, 85, 85},
	91: {255, 85, 85},
	92: {85, 255, 85},
	93: {255, 255, 85},
	94: {85, 85, 255},
	95: {255, 85, 255},
	96: {85, 255, 255},
	97: {255, 255, 255},
}

// ColorOf returns the RGB for an ANSI foreground code. Unknown codes are
// light gray.
func ColorOf(code int) RGB {
	if c, ok := palette[code]; ok {
		return c
	}
	return palette[37]
}
