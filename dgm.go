// Package dgm answers point elevation queries against a regional digital
// terrain model distributed as many small plain-text XYZ grid files, such as
// the Hamburg DGM releases.
package dgm

// A Coord is a grid coordinate in the dataset's projected frame, in integer
// meters.
type Coord struct {
	X int // Easting.
	Y int // Northing.
}

// A RegionKey identifies the on-disk grid file that a projected coordinate's
// samples live in. Many coordinates share one key.
type RegionKey struct {
	E int // Leading easting digits, in kilometers.
	N int // Leading northing digits, in kilometers.
}

// A Sampler provides elevation samples on a regular grid. A missing sample is
// reported by the second return value, not an error.
type Sampler interface {
	Sample(coord Coord) (float64, bool, error)
	Resolution() int
}
