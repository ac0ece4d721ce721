package dgm

import (
	"bufio"
	"fmt"
	"io/fs"
	"math"
	"strconv"
	"strings"
)

// An XYZTile is one fully-parsed grid file: elevation samples keyed by their
// integer projected coordinate. Read-only after load.
type XYZTile struct {
	samples map[Coord]float64
}

// NewXYZTile parses the grid file at filename. Each line is
// "<easting> <northing> <elevation>" in meters, no header. If a coordinate
// pair appears more than once the last value wins.
func NewXYZTile(fsys fs.FS, filename string) (*XYZTile, error) {
	file, err := fsys.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	samples := make(map[Coord]float64)
	scanner := bufio.NewScanner(file)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, " ")
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s:%d: expected 3 fields, got %d", filename, lineNumber, len(fields))
		}
		easting, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, lineNumber, err)
		}
		northing, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, lineNumber, err)
		}
		elevation, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, lineNumber, err)
		}
		coord := Coord{
			X: int(math.Round(easting)),
			Y: int(math.Round(northing)),
		}
		samples[coord] = elevation
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &XYZTile{samples: samples}, nil
}

// Sample returns the elevation at coord. A gap in the data is reported as not
// ok, not an error.
func (t *XYZTile) Sample(coord Coord) (float64, bool) {
	sample, ok := t.samples[coord]
	return sample, ok
}

// Len returns the number of samples in the tile.
func (t *XYZTile) Len() int {
	return len(t.samples)
}
