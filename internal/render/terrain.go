package render

import (
	"fmt"
	"strconv"
	"strings"

	"perlin-map/internal/maps"
)

// Mode selects how a map is drawn as text.
type Mode string

const (
	ModeDigits Mode = "digits" // one altitude number per cell
	ModeBinary Mode = "binary" // land/water only
	ModeColor  Mode = "color"  // truecolor bands
)

// Binary mode glyphs.
const (
	LandRune  = '#'
	WaterRune = '.'
)

// bandShade darkens a band's colour for the cell background.
const bandShade = 0.35

var (
	binaryLand  = Cell{Ch: ' ', Bg: RGB{235, 235, 235}}
	binaryWater = Cell{Ch: ' '}
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case ModeDigits, ModeBinary, ModeColor:
		return m, nil
	}
	return "", fmt.Errorf("unknown render mode %q (available: digits, binary, color)", s)
}

// Text draws the whole map in the given mode, one line per row.
func Text(m *maps.Map, mode Mode) string {
	switch mode {
	case ModeBinary:
		return Binary(m)
	case ModeColor:
		var sb strings.Builder
		v := Full(m.Width, m.Height)
		for y := 0; y < v.ViewH; y++ {
			writeColorRow(&sb, m, v, y, false)
			sb.WriteString(Reset)
			sb.WriteByte('\n')
		}
		return sb.String()
	default:
		return Digits(m)
	}
}

// Digits prints each cell's altitude in decimal, water as 0.
func Digits(m *maps.Map) string {
	var sb strings.Builder
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			sb.WriteString(strconv.Itoa(m.AltitudeAt(x, y)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Binary prints land as LandRune and water as WaterRune.
func Binary(m *maps.Map) string {
	var sb strings.Builder
	sb.Grow((m.Width + 1) * m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.AltitudeAt(x, y) > 0 {
				sb.WriteByte(LandRune)
			} else {
				sb.WriteByte(WaterRune)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Screen draws the part of m inside v with absolute cursor positioning,
// starting at the top-left of the terminal. binary switches to the
// high-contrast palette.
func Screen(m *maps.Map, v Viewport, binary bool) string {
	var sb strings.Builder
	for y := 0; y < v.ViewH; y++ {
		sb.WriteString(MoveTo(y+1, 1))
		writeColorRow(&sb, m, v, y, binary)
	}
	sb.WriteString(Reset)
	return sb.String()
}

func writeColorRow(sb *strings.Builder, m *maps.Map, v Viewport, row int, binary bool) {
	for col := 0; col < v.ViewW; col++ {
		c := cellFor(m, v.CamX+col, v.CamY+row, binary)
		for i := 0; i < TileWidth; i++ {
			WriteCellSGR(sb, c)
		}
	}
}

func cellFor(m *maps.Map, x, y int, binary bool) Cell {
	alt := m.AltitudeAt(x, y)
	if binary {
		if alt > 0 {
			return binaryLand
		}
		return binaryWater
	}

	tile := m.TileAt(x, y)
	fg := ColorOf(tile.Fg)
	return Cell{Ch: tile.Char, Fg: fg, Bg: fg.Scale(bandShade)}
}
