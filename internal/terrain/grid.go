package terrain

import "fmt"

// Grid is a dense W x H grid stored row-major and addressed as (x, y).
type Grid[T float32 | int] struct {
	W, H  int
	cells []T
}

// FloatGrid holds continuous noise samples.
type FloatGrid = Grid[float32]

// AltitudeGrid holds discrete altitude bands; 0 is water.
type AltitudeGrid = Grid[int]

// NewGrid allocates a zeroed grid. Both dimensions must be positive.
func NewGrid[T float32 | int](w, h int) (*Grid[T], error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	return &Grid[T]{W: w, H: h, cells: make([]T, w*h)}, nil
}

func checkSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, w, h)
	}
	return nil
}

// newLike allocates a zeroed grid with the same dimensions as g.
func newLike[T, U float32 | int](g *Grid[U]) *Grid[T] {
	return &Grid[T]{W: g.W, H: g.H, cells: make([]T, g.W*g.H)}
}

// At returns the value at (x, y).
func (g *Grid[T]) At(x, y int) T { return g.cells[y*g.W+x] }

// Set stores v at (x, y).
func (g *Grid[T]) Set(x, y int, v T) { g.cells[y*g.W+x] = v }

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Clone returns an independent copy of g.
func (g *Grid[T]) Clone() *Grid[T] {
	c := &Grid[T]{W: g.W, H: g.H, cells: make([]T, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Equal reports whether both grids have identical size and contents.
func (g *Grid[T]) Equal(o *Grid[T]) bool {
	if g.W != o.W || g.H != o.H {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns a [y][x] copy of the grid, the layout used by map documents.
func (g *Grid[T]) Rows() [][]T {
	rows := make([][]T, g.H)
	for y := 0; y < g.H; y++ {
		rows[y] = make([]T, g.W)
		copy(rows[y], g.cells[y*g.W:(y+1)*g.W])
	}
	return rows
}

// GridFromRows builds a grid from [y][x] rows. All rows must share a length.
func GridFromRows[T float32 | int](rows [][]T) (*Grid[T], error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidDimension)
	}
	g, err := NewGrid[T](len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != g.W {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidDimension, y, len(row), g.W)
		}
		copy(g.cells[y*g.W:], row)
	}
	return g, nil
}
