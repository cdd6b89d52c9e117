package terrain

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
)

// floatGrid builds a grid from [y][x] rows.
func floatGrid(t *testing.T, rows [][]float32) *FloatGrid {
	t.Helper()
	g, err := GridFromRows(rows)
	if err != nil {
		t.Fatalf("GridFromRows: %v", err)
	}
	return g
}

func near(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

func TestWhiteNoiseRange(t *testing.T) {
	sizes := []struct{ w, h int }{{1, 1}, {3, 7}, {60, 30}, {128, 1}}
	for _, s := range sizes {
		g, err := WhiteNoise(s.w, s.h, rand.New(rand.NewSource(42)))
		if err != nil {
			t.Fatalf("%dx%d: %v", s.w, s.h, err)
		}
		if g.W != s.w || g.H != s.h {
			t.Fatalf("got %dx%d, want %dx%d", g.W, g.H, s.w, s.h)
		}
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				if v := g.At(x, y); v < 0 || v >= 1 {
					t.Errorf("%dx%d: cell (%d,%d) = %v outside [0,1)", s.w, s.h, x, y, v)
				}
			}
		}
	}
}

func TestWhiteNoiseSeeded(t *testing.T) {
	a, _ := WhiteNoise(17, 9, rand.New(rand.NewSource(7)))
	b, _ := WhiteNoise(17, 9, rand.New(rand.NewSource(7)))
	c, _ := WhiteNoise(17, 9, rand.New(rand.NewSource(8)))
	if !a.Equal(b) {
		t.Error("same seed produced different fields")
	}
	if a.Equal(c) {
		t.Error("different seeds produced identical fields")
	}
}

func TestWhiteNoiseColumnOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	want := make([]float32, 6)
	for i := range want {
		want[i] = rng.Float32()
	}

	g, _ := WhiteNoise(2, 3, rand.New(rand.NewSource(3)))
	i := 0
	for x := 0; x < 2; x++ {
		for y := 0; y < 3; y++ {
			if g.At(x, y) != want[i] {
				t.Errorf("cell (%d,%d) = %v, want draw %d = %v", x, y, g.At(x, y), i, want[i])
			}
			i++
		}
	}
}

func TestWhiteNoiseInvalidDimension(t *testing.T) {
	for _, s := range []struct{ w, h int }{{0, 5}, {5, 0}, {-1, 3}} {
		_, err := WhiteNoise(s.w, s.h, rand.New(rand.NewSource(1)))
		if !errors.Is(err, ErrInvalidDimension) {
			t.Errorf("%dx%d: got %v, want ErrInvalidDimension", s.w, s.h, err)
		}
	}
}

func TestSampleIndicesInRange(t *testing.T) {
	sizes := []int{1, 2, 3, 5, 8, 10, 31, 64}
	for _, size := range sizes {
		for octave := 0; octave <= 8; octave++ {
			period := 1 << octave
			for i := 0; i < size; i++ {
				i0, i1, blend := sampleIndices(i, period, size)
				if i0 < 0 || i0 >= size || i1 < 0 || i1 >= size {
					t.Fatalf("size %d octave %d i %d: corners (%d,%d) out of range", size, octave, i, i0, i1)
				}
				if blend < 0 || blend >= 1 {
					t.Fatalf("size %d octave %d i %d: blend %v outside [0,1)", size, octave, i, blend)
				}
			}
		}
	}
}

func TestSampleIndicesPeriodic(t *testing.T) {
	// With a size that is a multiple of the period, corner selection repeats
	// every period and the upper corner wraps back to column 0 at the edge.
	const size = 16
	for octave := 0; octave <= 4; octave++ {
		period := 1 << octave
		for i := 0; i+period < size; i++ {
			a0, a1, at := sampleIndices(i, period, size)
			b0, b1, bt := sampleIndices(i+period, period, size)
			if b0 != (a0+period)%size || b1 != (a1+period)%size || at != bt {
				t.Errorf("octave %d i %d: (%d,%d,%v) vs (%d,%d,%v)", octave, i, a0, a1, at, b0, b1, bt)
			}
		}
		_, last, _ := sampleIndices(size-1, period, size)
		if last != 0 {
			t.Errorf("octave %d: upper corner at edge = %d, want wrap to 0", octave, last)
		}
	}
}

func TestSmoothNoiseOctaveZeroIsIdentity(t *testing.T) {
	base, _ := WhiteNoise(7, 5, rand.New(rand.NewSource(11)))
	if got := SmoothNoise(base, 0); !got.Equal(base) {
		t.Error("octave 0 should reproduce the base field")
	}
}

func TestSmoothNoiseClampsOctave(t *testing.T) {
	base, _ := WhiteNoise(5, 4, rand.New(rand.NewSource(12)))
	if got := SmoothNoise(base, -3); !got.Equal(base) {
		t.Error("negative octave should act as octave 0")
	}
	if got, want := SmoothNoise(base, MaxOctaves+5), SmoothNoise(base, MaxOctaves); !got.Equal(want) {
		t.Error("octave above MaxOctaves should act as MaxOctaves")
	}
}

func TestSmoothNoiseBilinear(t *testing.T) {
	base := floatGrid(t, [][]float32{
		{0, 0, 1, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	got := SmoothNoise(base, 1)

	tests := []struct {
		x, y int
		want float32
	}{
		{0, 0, 0},
		{2, 0, 1},    // on the lattice
		{1, 0, 0.5},  // halfway between (0,0) and (2,0)
		{3, 0, 0.5},  // halfway between (2,0) and wrapped (0,0)
		{2, 1, 0.5},  // halfway between (2,0) and (2,2)
		{1, 1, 0.25}, // centre of the cell
		{0, 2, 0},
		{3, 3, 0.25}, // wraps on both axes
	}
	for _, tt := range tests {
		if v := got.At(tt.x, tt.y); !near(v, tt.want) {
			t.Errorf("(%d,%d) = %v, want %v", tt.x, tt.y, v, tt.want)
		}
	}
}

func TestSmoothNoiseDoesNotMutateBase(t *testing.T) {
	base, _ := WhiteNoise(9, 9, rand.New(rand.NewSource(5)))
	orig := base.Clone()
	SmoothNoise(base, 2)
	if _, err := PerlinNoise(base, NoiseParams{Octaves: 4, Persistence: 0.5}); err != nil {
		t.Fatal(err)
	}
	if !base.Equal(orig) {
		t.Error("base field was modified")
	}
}

func TestSmoothNoiseLargePeriod(t *testing.T) {
	base, _ := WhiteNoise(3, 2, rand.New(rand.NewSource(9)))
	// Period far beyond the grid: every sample collapses onto (0,0).
	got := SmoothNoise(base, 6)
	for y := 0; y < got.H; y++ {
		for x := 0; x < got.W; x++ {
			if math32.IsNaN(got.At(x, y)) {
				t.Fatalf("(%d,%d) is NaN", x, y)
			}
		}
	}
}

func TestPerlinNoiseManualSum(t *testing.T) {
	base := floatGrid(t, [][]float32{
		{0.2, 0.9},
		{0.4, 0.6},
	})
	const p = float32(0.5)
	got, err := PerlinNoise(base, NoiseParams{Octaves: 2, Persistence: p})
	if err != nil {
		t.Fatal(err)
	}

	// Octave 1 (period 2) collapses onto (0,0) and is weighted p; octave 0
	// is the base itself, weighted p*p.
	b00 := base.At(0, 0)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			want := (p*b00 + p*p*base.At(x, y)) / (p + p*p)
			if v := got.At(x, y); !near(v, want) {
				t.Errorf("(%d,%d) = %v, want %v", x, y, v, want)
			}
		}
	}
}

func TestPerlinNoiseFinite(t *testing.T) {
	tests := []struct {
		name        string
		w, h        int
		octaves     int
		persistence float32
	}{
		{"default", 60, 30, 3, 0.5},
		{"single octave", 10, 10, 1, 0.1},
		{"many octaves", 32, 32, 8, 0.9},
		{"tiny persistence", 16, 8, 5, 0.01},
		{"thin strip", 40, 1, 4, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, _ := WhiteNoise(tt.w, tt.h, rand.New(rand.NewSource(21)))
			got, err := PerlinNoise(base, NoiseParams{Octaves: tt.octaves, Persistence: tt.persistence})
			if err != nil {
				t.Fatal(err)
			}
			for y := 0; y < got.H; y++ {
				for x := 0; x < got.W; x++ {
					v := got.At(x, y)
					if math32.IsNaN(v) || math32.IsInf(v, 0) {
						t.Fatalf("(%d,%d) = %v", x, y, v)
					}
					// A weighted mean of samples in [0,1) stays there.
					if v < 0 || v >= 1+1e-5 {
						t.Fatalf("(%d,%d) = %v outside sample range", x, y, v)
					}
				}
			}
		})
	}
}

func TestPerlinNoiseInvalidParams(t *testing.T) {
	base, _ := WhiteNoise(4, 4, rand.New(rand.NewSource(1)))
	tests := []struct {
		name string
		p    NoiseParams
		want error
	}{
		{"zero octaves", NoiseParams{Octaves: 0, Persistence: 0.5}, ErrInvalidDimension},
		{"too many octaves", NoiseParams{Octaves: MaxOctaves + 1, Persistence: 0.5}, ErrInvalidDimension},
		{"zero persistence", NoiseParams{Octaves: 3, Persistence: 0}, ErrInvalidParameter},
		{"negative persistence", NoiseParams{Octaves: 3, Persistence: -1}, ErrInvalidParameter},
		{"infinite persistence", NoiseParams{Octaves: 3, Persistence: math32.Inf(1)}, ErrInvalidParameter},
		{"NaN persistence", NoiseParams{Octaves: 3, Persistence: math32.NaN()}, ErrInvalidParameter},
		{"amplitude overflow", NoiseParams{Octaves: 10, Persistence: 1e6}, ErrInvalidParameter},
		{"amplitude overflow few octaves", NoiseParams{Octaves: 3, Persistence: 1e13}, ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PerlinNoise(base, tt.p); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
