package dgm

import "math"

// InterpolateBilinear estimates the elevation at the projected point (x, y)
// from the four grid samples bracketing it. A point that lands exactly on a
// grid coordinate returns that sample directly; a point aligned with the grid
// on one axis degenerates to linear interpolation along the other. Samples
// missing from the grid contribute an elevation of 0, matching the dataset's
// no-data convention.
func InterpolateBilinear(s Sampler, x, y float64) (float64, error) {
	resolution := float64(s.Resolution())

	x1 := resolution * math.Floor(x/resolution)
	x2 := resolution * math.Ceil(x/resolution)
	y1 := resolution * math.Floor(y/resolution)
	y2 := resolution * math.Ceil(y/resolution)

	q11, err := sampleOrZero(s, int(x1), int(y1))
	if err != nil {
		return 0, err
	}
	q21, err := sampleOrZero(s, int(x2), int(y1))
	if err != nil {
		return 0, err
	}
	q12, err := sampleOrZero(s, int(x1), int(y2))
	if err != nil {
		return 0, err
	}
	q22, err := sampleOrZero(s, int(x2), int(y2))
	if err != nil {
		return 0, err
	}

	switch {
	// Exact grid point, no interpolation required.
	case x == x1 && y == y1:
		return q11, nil
	case x == x1 && y == y2:
		return q12, nil
	case x == x2 && y == y1:
		return q21, nil
	case x == x2 && y == y2:
		return q22, nil
	// Aligned on one axis, linear interpolation along the other.
	case x1 == x2:
		return q11 + (y-y1)*((q12-q11)/(y2-y1)), nil
	case y1 == y2:
		return q11 + (x-x1)*((q12-q11)/(x2-x1)), nil
	default:
		r1 := (x2-x)/(x2-x1)*q11 + (x-x1)/(x2-x1)*q21
		r2 := (x2-x)/(x2-x1)*q12 + (x-x1)/(x2-x1)*q22
		return (y2-y)/(y2-y1)*r1 + (y-y1)/(y2-y1)*r2, nil
	}
}

// SnapNearest returns the sample at the grid coordinate nearest to the
// projected point (x, y), rounding each axis independently. Cheaper and lower
// fidelity than InterpolateBilinear.
func SnapNearest(s Sampler, x, y float64) (float64, error) {
	resolution := float64(s.Resolution())
	xSnapped := int(resolution * math.Round(x/resolution))
	ySnapped := int(resolution * math.Round(y/resolution))
	return sampleOrZero(s, xSnapped, ySnapped)
}

func sampleOrZero(s Sampler, x, y int) (float64, error) {
	sample, ok, err := s.Sample(Coord{X: x, Y: y})
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return sample, nil
}
