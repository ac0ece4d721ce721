package dgm

import (
	"log/slog"
	"math"

	"github.com/paulmach/orb"
)

// An Interpolation selects how a query point is turned into an elevation from
// the surrounding grid samples.
type Interpolation int

const (
	// Bilinear blends the four bracketing samples. The default.
	Bilinear Interpolation = iota
	// Snapped returns the single nearest sample.
	Snapped
)

// A PointTransformer converts a single coordinate to the dataset's projected
// frame.
type PointTransformer interface {
	Forward(x, y float64) (float64, float64, error)
}

// An ElevationService answers point elevation queries. Per-query failures
// degrade to an elevation of 0; only construction can fail.
type ElevationService struct {
	bound         orb.Bound
	transformer   PointTransformer
	tileSet       *XYZTileSet
	interpolation Interpolation
	logger        *slog.Logger
}

// An ElevationServiceOption sets an option on an ElevationService.
type ElevationServiceOption func(*ElevationService)

func WithInterpolation(interpolation Interpolation) ElevationServiceOption {
	return func(s *ElevationService) {
		s.interpolation = interpolation
	}
}

func WithServiceLogger(logger *slog.Logger) ElevationServiceOption {
	return func(s *ElevationService) {
		s.logger = logger
	}
}

// NewElevationService returns a new ElevationService covering bound, projecting
// queries with transformer, and sampling tileSet.
func NewElevationService(bound orb.Bound, transformer PointTransformer, tileSet *XYZTileSet, options ...ElevationServiceOption) *ElevationService {
	s := &ElevationService{
		bound:         bound,
		transformer:   transformer,
		tileSet:       tileSet,
		interpolation: Bilinear,
		logger:        slog.Default(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Elevation returns the ground elevation in meters at the given geodetic
// coordinate. It never fails: coordinates outside the dataset's coverage,
// failed reprojections, and data gaps all return 0.
func (s *ElevationService) Elevation(lat, lon float64) float64 {
	if !s.bound.Contains(orb.Point{lon, lat}) {
		return 0
	}

	x, y, err := s.transformer.Forward(lon, lat)
	if err != nil {
		s.logger.Warn("transform failed", "lat", lat, "lon", lon, "err", err)
		return 0
	}

	xRounded := math.Round(x)
	yRounded := math.Round(y)

	var elevation float64
	switch s.interpolation {
	case Snapped:
		elevation, err = SnapNearest(s.tileSet, xRounded, yRounded)
	default:
		elevation, err = InterpolateBilinear(s.tileSet, xRounded, yRounded)
	}
	if err != nil {
		s.logger.Warn("sample failed", "lat", lat, "lon", lon, "err", err)
		return 0
	}
	return elevation
}

// Release drops all cached tiles. Call at provider teardown.
func (s *ElevationService) Release() {
	s.tileSet.Release()
}
