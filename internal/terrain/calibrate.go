package terrain

import (
	"fmt"
	"math"
)

// Search defaults.
const (
	DefaultTolerance   = 0.05
	DefaultMaxSeaLevel = 10
	DefaultMaxAttempts = 100

	// bandEpsilon absorbs float64 rounding at the band edges.
	bandEpsilon = 1e-9
)

// Target describes the land coverage a calibrated map must reach.
type Target struct {
	LandPercent int     // 0..100
	Tolerance   float64 // accepted distance from LandPercent/100
	MaxSeaLevel int     // highest sea level tried, inclusive
	MaxAttempts int     // attempts per sea level
	TidyCycles  int
}

// DefaultTarget returns a Target for landPercent with the standard search limits.
func DefaultTarget(landPercent int) Target {
	return Target{
		LandPercent: landPercent,
		Tolerance:   DefaultTolerance,
		MaxSeaLevel: DefaultMaxSeaLevel,
		MaxAttempts: DefaultMaxAttempts,
		TidyCycles:  DefaultTidyCycles,
	}
}

func (t Target) validate() error {
	switch {
	case t.LandPercent < 0 || t.LandPercent > 100:
		return fmt.Errorf("%w: land percent %d (want 0..100)", ErrInvalidParameter, t.LandPercent)
	case !(t.Tolerance >= 0):
		return fmt.Errorf("%w: tolerance %v", ErrInvalidParameter, t.Tolerance)
	case t.MaxSeaLevel < 0:
		return fmt.Errorf("%w: max sea level %d", ErrInvalidParameter, t.MaxSeaLevel)
	case t.MaxAttempts < 0:
		return fmt.Errorf("%w: max attempts %d", ErrInvalidParameter, t.MaxAttempts)
	}
	return nil
}

// Attempt describes one generation try, reported to an Observer.
type Attempt struct {
	SeaLevel     int
	Index        int // within the sea level, from 0
	LandFraction float64
	Accepted     bool
}

// Result is an accepted map plus where in the search it was found.
type Result struct {
	Grid          *AltitudeGrid
	SeaLevel      int
	Attempt       int
	TotalAttempts int
	LandFraction  float64
}

// Calibrator drives the generation pipeline. It is not safe for concurrent use
// because it draws from a single Source.
type Calibrator struct {
	rng Source

	// Observer, when set, is called after every attempt.
	Observer func(Attempt)
}

// NewCalibrator returns a Calibrator drawing all noise from rng.
func NewCalibrator(rng Source) *Calibrator {
	return &Calibrator{rng: rng}
}

// GenerateAt produces a single map at a fixed sea level with no coverage check.
func (c *Calibrator) GenerateAt(w, h int, p NoiseParams, seaLevel, tidyCycles int) (*AltitudeGrid, error) {
	if seaLevel < 0 {
		return nil, fmt.Errorf("%w: sea level %d", ErrInvalidParameter, seaLevel)
	}
	base, err := WhiteNoise(w, h, c.rng)
	if err != nil {
		return nil, err
	}
	noise, err := PerlinNoise(base, p)
	if err != nil {
		return nil, err
	}
	return Tidy(ToAltitude(noise, seaLevel), tidyCycles), nil
}

// Generate searches sea levels 0..MaxSeaLevel, trying up to MaxAttempts fresh
// noise fields at each, and returns the first map whose land fraction lies
// within Tolerance of the target. Exhausting the search yields an
// *ExhaustedError.
func (c *Calibrator) Generate(w, h int, p NoiseParams, t Target) (*Result, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	if err := t.validate(); err != nil {
		return nil, err
	}

	target := float64(t.LandPercent) / 100
	closest := math.NaN()
	total := 0

	for seaLevel := 0; seaLevel <= t.MaxSeaLevel; seaLevel++ {
		for i := 0; i < t.MaxAttempts; i++ {
			grid, err := c.GenerateAt(w, h, p, seaLevel, t.TidyCycles)
			if err != nil {
				return nil, err
			}
			total++

			frac := LandFraction(grid)
			ok := withinBand(frac, target, t.Tolerance)
			if c.Observer != nil {
				c.Observer(Attempt{SeaLevel: seaLevel, Index: i, LandFraction: frac, Accepted: ok})
			}
			if ok {
				return &Result{
					Grid:          grid,
					SeaLevel:      seaLevel,
					Attempt:       i,
					TotalAttempts: total,
					LandFraction:  frac,
				}, nil
			}
			if math.IsNaN(closest) || math.Abs(frac-target) < math.Abs(closest-target) {
				closest = frac
			}
		}
	}

	return nil, &ExhaustedError{
		TargetFraction:  target,
		Tolerance:       t.Tolerance,
		Attempts:        total,
		ClosestFraction: closest,
	}
}

// withinBand reports whether frac lies in the closed band target±tolerance.
func withinBand(frac, target, tolerance float64) bool {
	return math.Abs(frac-target) <= tolerance+bandEpsilon
}

// GenerateMap calibrates a w x h map to landPercent using the default search
// limits.
func GenerateMap(w, h, octaves int, persistence float32, landPercent int, rng Source) (*AltitudeGrid, error) {
	res, err := NewCalibrator(rng).Generate(w, h, NoiseParams{Octaves: octaves, Persistence: persistence}, DefaultTarget(landPercent))
	if err != nil {
		return nil, err
	}
	return res.Grid, nil
}
