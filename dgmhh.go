package dgm

import (
	"fmt"
	"io/fs"
	"slices"

	"github.com/paulmach/orb"
)

// HamburgBound is the geographic coverage of the Hamburg DGM dataset.
var HamburgBound = orb.Bound{
	Min: orb.Point{9.693330, 53.369689},
	Max: orb.Point{10.345204, 53.759930},
}

// hamburgReleaseDirs maps a resolution in meters to the directory name of the
// corresponding dataset release. The upstream releases follow no naming
// convention, so each resolution is listed explicitly.
var hamburgReleaseDirs = map[int]string{
	1:  "dgm1_hh_2020-03-29",
	10: "dgm10_hh_2020",
	25: "dgm25_hh_2000",
}

// HamburgDownloadURL returns the URL of the Hamburg DGM archive for the given
// resolution. One URL covers the whole dataset, independent of coordinates.
func HamburgDownloadURL(resolution int) string {
	return fmt.Sprintf("https://daten-hamburg.de/geographie_geologie_geobasisdaten/Digitales_Hoehenmodell/DGM%d/dgm%d_2x2km_XYZ_hh_2021_04_01.zip", resolution, resolution)
}

// NewDGMHH returns an XYZTileSet over the Hamburg DGM dataset rooted at fsys,
// at one of the published resolutions (1, 10 or 25 meters).
func NewDGMHH(fsys fs.FS, resolution int, options ...XYZTileSetOption) (*XYZTileSet, error) {
	releaseDir, ok := hamburgReleaseDirs[resolution]
	if !ok {
		return nil, fmt.Errorf("unsupported resolution: %dm", resolution)
	}
	return NewXYZTileSet(slices.Concat(
		[]XYZTileSetOption{
			WithFS(fsys),
			WithSRID(25832),
			WithResolution(resolution),
			WithRegionKeyFunc(func(coord Coord) (RegionKey, bool) {
				// Tile names carry the leading three digits of the easting and
				// four of the northing, so the key granularity is 1km.
				if coord.X < 100000 || coord.X > 999999 || coord.Y < 1000000 || coord.Y > 9999999 {
					return RegionKey{}, false
				}
				return RegionKey{
					E: coord.X / 1000,
					N: coord.Y / 1000,
				}, true
			}),
			WithTileFilenameFunc(func(regionKey RegionKey) string {
				return fmt.Sprintf("%s/s32_%03d/dgm%d_32_%03d_%04d_1_hh.xyz",
					releaseDir, regionKey.E, resolution, regionKey.E, regionKey.N)
			}),
		},
		options,
	)...)
}

// NewHamburgElevationService returns an ElevationService over the Hamburg DGM
// dataset rooted at fsys: EPSG:4326 queries against EPSG:25832 grid tiles.
func NewHamburgElevationService(fsys fs.FS, resolution int, options ...ElevationServiceOption) (*ElevationService, error) {
	tileSet, err := NewDGMHH(fsys, resolution)
	if err != nil {
		return nil, err
	}
	transformer, err := NewTransformerForCRS("EPSG:4326", "EPSG:25832")
	if err != nil {
		return nil, err
	}
	return NewElevationService(HamburgBound, transformer, tileSet, options...), nil
}
