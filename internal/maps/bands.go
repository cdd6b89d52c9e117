package maps

import "sort"

// Bands is the legend indexed by altitude above sea level. Altitudes past the
// last entry use the last entry.
var Bands = []TileDef{
	band('~', "blue", "water"),
	band('.', "yellow", "shore"),
	band(',', "bright_green", "lowland"),
	band('"', "green", "hills"),
	band('"', "green", "hills"),
	band('^', "gray", "highland"),
	band('^', "gray", "highland"),
	band('A', "bright_white", "peak"),
}

func band(ch rune, color, name string) TileDef {
	return TileDef{Char: ch, Fg: resolveColor(color), Name: name, Color: color}
}

// BandFor returns the legend entry for an altitude.
func BandFor(altitude int) TileDef {
	if altitude < 0 {
		altitude = 0
	}
	if altitude >= len(Bands) {
		altitude = len(Bands) - 1
	}
	return Bands[altitude]
}

// BandCount is the number of cells in one named band.
type BandCount struct {
	Name  string
	Count int
}

// Distribution counts cells per band name, largest first.
func (m *Map) Distribution() []BandCount {
	counts := make(map[string]int)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			counts[m.TileAt(x, y).Name]++
		}
	}

	sorted := make([]BandCount, 0, len(counts))
	for name, c := range counts {
		sorted = append(sorted, BandCount{name, c})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}
