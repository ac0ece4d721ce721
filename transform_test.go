package dgm_test

import (
	"errors"
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"

	dgm "github.com/norddata/go-dgm"
)

func TestNewTransformerForCRS(t *testing.T) {
	transformer, err := dgm.NewTransformerForCRS("EPSG:4326", "EPSG:25832")
	assert.NoError(t, err)

	// A surveyed point on the Elbe in Hamburg.
	x, y, err := transformer.Forward(9.770968020290818, 53.51644661059623)
	assert.NoError(t, err)
	assert.True(t, 551100 < x && x < 551200)
	assert.True(t, 5929900 < y && y < 5930100)
}

func TestNewTransformerForCRS_UnknownFramePair(t *testing.T) {
	_, err := dgm.NewTransformerForCRS("EPSG:4326", "EPSG:2154")
	assert.True(t, errors.Is(err, dgm.ErrUnknownTransform))
}

func TestNewTransformer_NoValidTransform(t *testing.T) {
	// An anchor whose accepted range no candidate can hit.
	_, err := dgm.NewTransformer(dgm.TransformSpec{
		SourceCRS: "EPSG:4326",
		TargetCRS: "EPSG:25832",
		Candidates: []string{
			"+proj=pipeline +step +proj=unitconvert +xy_in=deg +xy_out=rad +step +proj=utm +zone=32 +ellps=GRS80",
		},
		AnchorX:    9.770968020290818,
		AnchorY:    53.51644661059623,
		AnchorXMin: 0,
		AnchorXMax: 1,
	})
	assert.True(t, errors.Is(err, dgm.ErrNoValidTransform))
}

func TestTransformer_RoundTrip(t *testing.T) {
	transformer, err := dgm.NewTransformerForCRS("EPSG:4326", "EPSG:25832")
	assert.NoError(t, err)

	for _, coord := range [][2]float64{
		{9.770968020290818, 53.51644661059623},
		{10.0, 53.55},
		{9.693330, 53.369689},
		{10.345204, 53.759930},
	} {
		x, y, err := transformer.Forward(coord[0], coord[1])
		assert.NoError(t, err)
		lon, lat, err := transformer.Inverse(x, y)
		assert.NoError(t, err)
		assert.True(t, math.Abs(lon-coord[0]) < 1e-4)
		assert.True(t, math.Abs(lat-coord[1]) < 1e-4)
	}
}
