package maps

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"perlin-map/internal/terrain"
)

// colorNames maps color names from the legend to ANSI codes.
var colorNames = map[string]int{
	"black":          30,
	"red":            31,
	"green":          32,
	"yellow":         33,
	"blue":           34,
	"magenta":        35,
	"cyan":           36,
	"white":          37,
	"gray":           90,
	"grey":           90,
	"bright_red":     91,
	"bright_green":   92,
	"bright_yellow":  93,
	"bright_blue":    94,
	"bright_magenta": 95,
	"bright_cyan":    96,
	"bright_white":   97,
}

func resolveColor(name string) int {
	if code, ok := colorNames[name]; ok {
		return code
	}
	return 37
}

// TileDef defines how an altitude band is drawn.
type TileDef struct {
	Char  rune
	Fg    int
	Name  string
	Color string
}

// Map is a generated altitude grid with its generation metadata.
type Map struct {
	Name         string
	Width        int
	Height       int
	Seed         int64
	SeaLevel     int
	LandFraction float64
	Tiles        [][]int // [y][x] altitude above sea level, 0 = water
}

// jsonMap is the wire format written by WriteJSON.
type jsonMap struct {
	Name         string              `json:"name"`
	Width        int                 `json:"width"`
	Height       int                 `json:"height"`
	Seed         int64               `json:"seed"`
	SeaLevel     int                 `json:"sea_level"`
	LandFraction float64             `json:"land_fraction"`
	Tiles        [][]int             `json:"tiles"`
	Legend       map[string]jsonTile `json:"legend"`
}

type jsonTile struct {
	Char string `json:"char"`
	Fg   string `json:"fg"`
	Name string `json:"name"`
}

// FromResult wraps an accepted calibration result.
func FromResult(name string, seed int64, res *terrain.Result) *Map {
	return &Map{
		Name:         name,
		Width:        res.Grid.W,
		Height:       res.Grid.H,
		Seed:         seed,
		SeaLevel:     res.SeaLevel,
		LandFraction: res.LandFraction,
		Tiles:        res.Grid.Rows(),
	}
}

// FromGrid wraps a grid generated at a fixed sea level.
func FromGrid(name string, seed int64, seaLevel int, g *terrain.AltitudeGrid) *Map {
	return &Map{
		Name:         name,
		Width:        g.W,
		Height:       g.H,
		Seed:         seed,
		SeaLevel:     seaLevel,
		LandFraction: terrain.LandFraction(g),
		Tiles:        g.Rows(),
	}
}

// WriteJSON streams the map document, legend included, to w.
func (m *Map) WriteJSON(w io.Writer) error {
	jm := jsonMap{
		Name:         m.Name,
		Width:        m.Width,
		Height:       m.Height,
		Seed:         m.Seed,
		SeaLevel:     m.SeaLevel,
		LandFraction: m.LandFraction,
		Tiles:        m.Tiles,
		Legend:       make(map[string]jsonTile, len(Bands)),
	}
	for i, b := range Bands {
		jm.Legend[strconv.Itoa(i)] = jsonTile{Char: string(b.Char), Fg: b.Color, Name: b.Name}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jm); err != nil {
		return fmt.Errorf("encode map JSON: %w", err)
	}
	return nil
}

// TileAt returns the band definition at the given coordinates.
// Returns a void tile for out-of-bounds coordinates.
func (m *Map) TileAt(x, y int) TileDef {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return TileDef{Char: ' ', Fg: 37, Name: "void"}
	}
	return BandFor(m.Tiles[y][x])
}

// AltitudeAt returns the raw altitude, or -1 outside the map.
func (m *Map) AltitudeAt(x, y int) int {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return -1
	}
	return m.Tiles[y][x]
}
