package terrain

// DefaultTidyCycles is the number of erosion passes applied per attempt.
const DefaultTidyCycles = 3

// minLandNeighbors is how many land neighbours a land cell needs to survive.
const minLandNeighbors = 2

// Tidy erodes land cells with fewer than two land cells among their Moore
// neighbours. Each cycle reads the previous cycle's output. Neighbours outside
// the grid do not count, so edges erode more readily. Water never becomes land.
func Tidy(grid *AltitudeGrid, cycles int) *AltitudeGrid {
	cur := grid.Clone()
	for c := 0; c < cycles; c++ {
		next := cur.Clone()
		for y := 0; y < cur.H; y++ {
			for x := 0; x < cur.W; x++ {
				if cur.At(x, y) > 0 && landNeighbors(cur, x, y) < minLandNeighbors {
					next.Set(x, y, 0)
				}
			}
		}
		cur = next
	}
	return cur
}

func landNeighbors(g *AltitudeGrid, x, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if g.InBounds(nx, ny) && g.At(nx, ny) > 0 {
				n++
			}
		}
	}
	return n
}

// LandCount returns the number of cells above water.
func LandCount(g *AltitudeGrid) int {
	n := 0
	for _, v := range g.cells {
		if v > 0 {
			n++
		}
	}
	return n
}

// LandFraction returns the share of cells above water, in [0, 1].
func LandFraction(g *AltitudeGrid) float64 {
	return float64(LandCount(g)) / float64(g.W*g.H)
}
