package dgm

import (
	"errors"
	"io/fs"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	missingTileCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dgm_missing_tile_cache_hits_total",
		Help: "The total number of hits on the missing tile cache",
	})
	missingTileCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dgm_missing_tile_cache_misses_total",
		Help: "The total number of misses on the missing tile cache",
	})
	tileCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dgm_tile_cache_hits_total",
		Help: "The total number of hits on the tile cache",
	})
	tileCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dgm_tile_cache_misses_total",
		Help: "The total number of misses on the tile cache",
	})
	tileCacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dgm_tile_cache_evictions_total",
		Help: "The total number of evictions from the tile cache",
	})
)

// A RegionKeyFunc returns the region key for a projected coordinate. It
// returns false if the coordinate cannot belong to any tile.
type RegionKeyFunc func(Coord) (RegionKey, bool)

// A TileFilenameFunc returns the tile filename for a region key.
type TileFilenameFunc func(RegionKey) string

// An XYZTileSet is a set of XYZ grid tiles, loaded lazily from an fs.FS and
// cached by region key. Tiles whose backing file does not exist are remembered
// as absent so the filesystem is never probed twice for the same key.
type XYZTileSet struct {
	mutex            sync.Mutex
	fsys             fs.FS
	srid             int
	resolution       int
	regionKeyFunc    RegionKeyFunc
	tileFilenameFunc TileFilenameFunc
	missingTiles     sync.Map
	cacheSize        int
	logger           *slog.Logger
	tileCache        *lru.Cache[RegionKey, *XYZTile]
}

// An XYZTileSetOption sets an option on an XYZTileSet.
type XYZTileSetOption func(*XYZTileSet)

// NewXYZTileSet returns a new XYZTileSet with the given options.
func NewXYZTileSet(options ...XYZTileSetOption) (*XYZTileSet, error) {
	s := &XYZTileSet{
		cacheSize:  1024,
		resolution: 25,
		logger:     slog.Default(),
	}
	for _, option := range options {
		option(s)
	}

	var err error
	s.tileCache, err = lru.New[RegionKey, *XYZTile](s.cacheSize)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func WithCacheSize(cacheSize int) XYZTileSetOption {
	return func(s *XYZTileSet) {
		s.cacheSize = cacheSize
	}
}

func WithFS(fsys fs.FS) XYZTileSetOption {
	return func(s *XYZTileSet) {
		s.fsys = fsys
	}
}

func WithLogger(logger *slog.Logger) XYZTileSetOption {
	return func(s *XYZTileSet) {
		s.logger = logger
	}
}

func WithRegionKeyFunc(regionKeyFunc RegionKeyFunc) XYZTileSetOption {
	return func(s *XYZTileSet) {
		s.regionKeyFunc = regionKeyFunc
	}
}

func WithResolution(resolution int) XYZTileSetOption {
	return func(s *XYZTileSet) {
		s.resolution = resolution
	}
}

func WithSRID(srid int) XYZTileSetOption {
	return func(s *XYZTileSet) {
		s.srid = srid
	}
}

func WithTileFilenameFunc(tileFilenameFunc TileFilenameFunc) XYZTileSetOption {
	return func(s *XYZTileSet) {
		s.tileFilenameFunc = tileFilenameFunc
	}
}

// Sample returns the sample at coord, loading the containing tile if needed.
// A missing tile or a gap in a loaded tile is reported as not ok.
func (s *XYZTileSet) Sample(coord Coord) (float64, bool, error) {
	regionKey, ok := s.regionKeyFunc(coord)
	if !ok {
		return 0, false, nil
	}
	tile, err := s.getTileCached(regionKey)
	if err != nil {
		return 0, false, err
	}
	if tile == nil {
		return 0, false, nil
	}
	sample, ok := tile.Sample(coord)
	return sample, ok, nil
}

// Resolution returns s's grid resolution in meters.
func (s *XYZTileSet) Resolution() int {
	return s.resolution
}

// SRID returns s's SRID.
func (s *XYZTileSet) SRID() int {
	return s.srid
}

// Release drops all cached tiles and absent-tile markers.
func (s *XYZTileSet) Release() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.tileCache.Purge()
	s.missingTiles.Range(func(key, _ any) bool {
		s.missingTiles.Delete(key)
		return true
	})
}

// getTile loads the tile for the given region key. A nil tile means the
// backing file does not exist; the key is recorded as permanently missing.
func (s *XYZTileSet) getTile(regionKey RegionKey) (*XYZTile, error) {
	filename := s.tileFilenameFunc(regionKey)
	switch tile, err := NewXYZTile(s.fsys, filename); {
	case errors.Is(err, fs.ErrNotExist):
		s.missingTiles.Store(regionKey, struct{}{})
		missingTileCacheMisses.Inc()
		return nil, nil
	case err != nil:
		return nil, err
	default:
		s.logger.Debug("loaded tile", "filename", filename, "samples", tile.Len())
		return tile, nil
	}
}

// getTileCached returns the tile for the given region key, using the cache if
// possible.
func (s *XYZTileSet) getTileCached(regionKey RegionKey) (*XYZTile, error) {
	if _, ok := s.missingTiles.Load(regionKey); ok {
		missingTileCacheHits.Inc()
		return nil, nil
	}

	if tile, ok := s.tileCache.Get(regionKey); ok {
		tileCacheHits.Inc()
		return tile, nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.missingTiles.Load(regionKey); ok {
		missingTileCacheHits.Inc()
		return nil, nil
	}

	if tile, ok := s.tileCache.Get(regionKey); ok {
		tileCacheHits.Inc()
		return tile, nil
	}

	tileCacheMisses.Inc()

	tile, err := s.getTile(regionKey)
	if err != nil {
		return nil, err
	}
	if tile == nil {
		return nil, nil
	}

	if eviction := s.tileCache.Add(regionKey, tile); eviction {
		tileCacheEvictions.Inc()
	}

	return tile, nil
}
