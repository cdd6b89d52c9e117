package terrain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension is returned for non-positive grid sizes or octave counts.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrInvalidParameter is returned for out-of-range persistence, land
	// percentages or search limits.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrGenerationExhausted is matched by *ExhaustedError.
	ErrGenerationExhausted = errors.New("generation exhausted")
)

// ExhaustedError reports a calibration search that found no grid inside the
// acceptance band.
type ExhaustedError struct {
	TargetFraction  float64
	Tolerance       float64
	Attempts        int
	ClosestFraction float64
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("generation exhausted after %d attempts: target %.2f±%.2f, closest %.3f",
		e.Attempts, e.TargetFraction, e.Tolerance, e.ClosestFraction)
}

// Is makes errors.Is(err, ErrGenerationExhausted) hold.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrGenerationExhausted
}
