package terrain

import "github.com/chewxy/math32"

// AltitudeBands is the number of integer bands a unit noise range spans.
const AltitudeBands = 10

// ToAltitude quantizes noise into integer bands and floods everything at or
// below seaLevel. Bands are rebased so the lowest cell sits at 1 before the
// cut; land cells keep their height above sea level and water becomes 0.
func ToAltitude(noise *FloatGrid, seaLevel int) *AltitudeGrid {
	alt := newLike[int](noise)

	lowest := int(math32.Ceil(noise.cells[0] * AltitudeBands))
	for i, v := range noise.cells {
		a := int(math32.Ceil(v * AltitudeBands))
		if a < lowest {
			lowest = a
		}
		alt.cells[i] = a
	}

	for i, a := range alt.cells {
		shifted := a - (lowest - 1)
		if shifted <= seaLevel {
			alt.cells[i] = 0
		} else {
			alt.cells[i] = shifted - seaLevel
		}
	}
	return alt
}
