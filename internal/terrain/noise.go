package terrain

import (
	"fmt"

	"github.com/chewxy/math32"
)

// MaxOctaves bounds the octave count so the sample period 2^octave fits in int32.
const MaxOctaves = 30

// Source supplies uniform samples in [0, 1). *math/rand.Rand satisfies it.
type Source interface {
	Float32() float32
}

// NoiseParams controls how octaves are blended.
type NoiseParams struct {
	Octaves     int
	Persistence float32
}

func (p NoiseParams) validate() error {
	if p.Octaves < 1 || p.Octaves > MaxOctaves {
		return fmt.Errorf("%w: octave count %d (want 1..%d)", ErrInvalidDimension, p.Octaves, MaxOctaves)
	}
	if !(p.Persistence > 0) || math32.IsInf(p.Persistence, 1) {
		return fmt.Errorf("%w: persistence %v (want finite and > 0)", ErrInvalidParameter, p.Persistence)
	}
	return nil
}

// WhiteNoise fills a w x h grid with independent uniform draws from rng.
// Columns are drawn in order, x outer and y inner.
func WhiteNoise(w, h int, rng Source) (*FloatGrid, error) {
	g, err := NewGrid[float32](w, h)
	if err != nil {
		return nil, err
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			g.Set(x, y, rng.Float32())
		}
	}
	return g, nil
}

func lerp(a, b, t float32) float32 {
	return a*(1-t) + t*b
}

// sampleIndices returns the lower and wrapped upper sample coordinates for
// position i along an axis of the given size, plus the blend fraction.
func sampleIndices(i, period, size int) (int, int, float32) {
	i0 := (i / period) * period
	i1 := (i0 + period) % size
	return i0, i1, float32(i-i0) / float32(period)
}

// SmoothNoise bilinearly interpolates base on a lattice of period 2^octave.
// Sampling wraps at the grid edges, so the result tiles seamlessly. octave is
// clamped to 0..MaxOctaves.
func SmoothNoise(base *FloatGrid, octave int) *FloatGrid {
	out := newLike[float32](base)
	octave = min(max(octave, 0), MaxOctaves)
	period := 1 << octave

	for i := 0; i < base.W; i++ {
		i0, i1, hBlend := sampleIndices(i, period, base.W)
		for j := 0; j < base.H; j++ {
			j0, j1, vBlend := sampleIndices(j, period, base.H)

			top := lerp(base.At(i0, j0), base.At(i1, j0), hBlend)
			bottom := lerp(base.At(i0, j1), base.At(i1, j1), hBlend)
			out.Set(i, j, lerp(top, bottom, vBlend))
		}
	}
	return out
}

// PerlinNoise blends p.Octaves smoothed copies of base into one grid.
// Octaves are summed coarsest first, and the amplitude is multiplied by the
// persistence before each one is added. The coarsest octave weighs
// persistence^1 and the finest persistence^Octaves. The sum is divided by the
// total amplitude.
func PerlinNoise(base *FloatGrid, p NoiseParams) (*FloatGrid, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	smooth := make([]*FloatGrid, p.Octaves)
	for k := range smooth {
		smooth[k] = SmoothNoise(base, k)
	}

	out := newLike[float32](base)
	amplitude := float32(1)
	var total float32

	for octave := p.Octaves - 1; octave >= 0; octave-- {
		amplitude *= p.Persistence
		total += amplitude
		for i, v := range smooth[octave].cells {
			out.cells[i] += v * amplitude
		}
	}

	// Each cell is at most total, so a finite non-zero total keeps the
	// normalised field finite.
	if total == 0 || math32.IsInf(total, 0) || math32.IsNaN(total) {
		return nil, fmt.Errorf("%w: persistence %v over %d octaves gives amplitude sum %v",
			ErrInvalidParameter, p.Persistence, p.Octaves, total)
	}
	for i := range out.cells {
		out.cells[i] /= total
	}
	return out, nil
}
