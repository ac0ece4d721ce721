package dgm_test

import (
	"testing"
	"testing/fstest"

	"github.com/alecthomas/assert/v2"
	"github.com/paulmach/orb"

	dgm "github.com/norddata/go-dgm"
)

func TestNewDGMHH_UnsupportedResolution(t *testing.T) {
	for _, resolution := range []int{0, 2, 5, 50} {
		_, err := dgm.NewDGMHH(fstest.MapFS{}, resolution)
		assert.Error(t, err)
	}
}

func TestNewDGMHH_TileFilenames(t *testing.T) {
	for _, tc := range []struct {
		name       string
		resolution int
		coord      dgm.Coord
		filename   string
	}{
		{
			name:       "dgm25",
			resolution: 25,
			coord:      dgm.Coord{X: 551120, Y: 5930000},
			filename:   "dgm25_hh_2000/s32_551/dgm25_32_551_5930_1_hh.xyz",
		},
		{
			name:       "dgm10",
			resolution: 10,
			coord:      dgm.Coord{X: 551120, Y: 5930000},
			filename:   "dgm10_hh_2020/s32_551/dgm10_32_551_5930_1_hh.xyz",
		},
		{
			name:       "dgm1",
			resolution: 1,
			coord:      dgm.Coord{X: 565432, Y: 5941234},
			filename:   "dgm1_hh_2020-03-29/s32_565/dgm1_32_565_5941_1_hh.xyz",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fsys := newCountingFS(fstest.MapFS{})
			tileSet, err := dgm.NewDGMHH(fsys, tc.resolution)
			assert.NoError(t, err)

			_, ok, err := tileSet.Sample(tc.coord)
			assert.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, 1, fsys.opens[tc.filename])
		})
	}
}

func TestHamburgDownloadURL(t *testing.T) {
	assert.Equal(t,
		"https://daten-hamburg.de/geographie_geologie_geobasisdaten/Digitales_Hoehenmodell/DGM25/dgm25_2x2km_XYZ_hh_2021_04_01.zip",
		dgm.HamburgDownloadURL(25))
}

func TestHamburgBound(t *testing.T) {
	assert.True(t, dgm.HamburgBound.Contains(orb.Point{10.0, 53.55}))  // Hamburg city center.
	assert.False(t, dgm.HamburgBound.Contains(orb.Point{13.4, 52.52})) // Berlin.
}
