package dgm

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-proj/v10"
)

var (
	// ErrUnknownTransform is returned when no transform is registered for a
	// frame pair.
	ErrUnknownTransform = errors.New("unknown transform")

	// ErrNoValidTransform is returned when no candidate transform for a frame
	// pair reproduces the registered anchor point.
	ErrNoValidTransform = errors.New("no valid transform")
)

// A TransformSpec describes the candidate transforms for one frame pair,
// together with an anchor point whose projected easting is known a priori.
// PROJ can express several mathematically valid operations for the same frame
// pair; the anchor test identifies the one that matches the dataset's
// convention.
type TransformSpec struct {
	SourceCRS  string
	TargetCRS  string
	Candidates []string // PROJ pipeline definitions, tried in order.
	AnchorX    float64  // Source X (longitude for geodetic frames).
	AnchorY    float64  // Source Y (latitude for geodetic frames).
	AnchorXMin float64  // Accepted easting range for the anchor.
	AnchorXMax float64
}

// transformRegistry maps a frame pair to its verified transform candidates.
// Adding a frame pair is a data change. The anchor for EPSG:4326→EPSG:25832
// is a point on the Elbe in Hamburg with a surveyed UTM 32N easting.
var transformRegistry = []TransformSpec{
	{
		SourceCRS: "EPSG:4326",
		TargetCRS: "EPSG:25832",
		Candidates: []string{
			"+proj=pipeline +step +proj=unitconvert +xy_in=deg +xy_out=rad +step +proj=utm +zone=32 +ellps=GRS80",
			"+proj=pipeline +step +proj=unitconvert +xy_in=deg +xy_out=rad +step +proj=tmerc +lat_0=0 +lon_0=9 +k=0.9996 +x_0=500000 +y_0=0 +ellps=WGS84",
		},
		AnchorX:    9.770968020290818,
		AnchorY:    53.51644661059623,
		AnchorXMin: 551100,
		AnchorXMax: 551200,
	},
}

// A Transformer converts coordinates between two frames using one fixed
// transform, selected once at construction and never re-selected per query.
type Transformer struct {
	pj *proj.PJ
}

// NewTransformer selects the first candidate in spec that maps the anchor
// point into the accepted easting range and fixes it for the lifetime of the
// transformer. It returns ErrNoValidTransform if no candidate passes.
func NewTransformer(spec TransformSpec) (*Transformer, error) {
	anchor := proj.NewCoord(spec.AnchorX, spec.AnchorY, 0, 0)
	for _, candidate := range spec.Candidates {
		pj, err := proj.New(candidate)
		if err != nil {
			return nil, fmt.Errorf("create candidate transform: %w", err)
		}
		projected, err := pj.Forward(anchor)
		if err != nil {
			continue
		}
		if spec.AnchorXMin < projected.X() && projected.X() < spec.AnchorXMax {
			return &Transformer{pj: pj}, nil
		}
	}
	return nil, fmt.Errorf("%s to %s: %w", spec.SourceCRS, spec.TargetCRS, ErrNoValidTransform)
}

// NewTransformerForCRS returns a Transformer for the given frame pair from the
// transform registry.
func NewTransformerForCRS(sourceCRS, targetCRS string) (*Transformer, error) {
	for _, spec := range transformRegistry {
		if spec.SourceCRS == sourceCRS && spec.TargetCRS == targetCRS {
			return NewTransformer(spec)
		}
	}
	return nil, fmt.Errorf("%s to %s: %w", sourceCRS, targetCRS, ErrUnknownTransform)
}

// Forward transforms a source-frame coordinate to the target frame. For
// geodetic source frames the axis order is longitude, latitude.
func (t *Transformer) Forward(x, y float64) (float64, float64, error) {
	coord, err := t.pj.Forward(proj.NewCoord(x, y, 0, 0))
	if err != nil {
		return 0, 0, err
	}
	return coord.X(), coord.Y(), nil
}

// Inverse transforms a target-frame coordinate back to the source frame.
func (t *Transformer) Inverse(x, y float64) (float64, float64, error) {
	coord, err := t.pj.Inverse(proj.NewCoord(x, y, 0, 0))
	if err != nil {
		return 0, 0, err
	}
	return coord.X(), coord.Y(), nil
}
