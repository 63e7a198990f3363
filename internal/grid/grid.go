// Package grid routes a latitude/longitude pair onto one of the three
// regional wave-model grids this service pulls forecasts from, and
// computes the row/column index NOMADS expects for that point.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// Axis describes one dimension (latitude or longitude) of a regular grid:
// a closed range [Start, End] sampled every Resolution units, Size points
// wide inclusive of both ends.
type Axis struct {
	Start      float64
	End        float64
	Resolution float64
	Size       int
}

func newAxis(start, end, resolution float64) Axis {
	size := int(math.Round((end-start)/resolution)) + 1
	return Axis{Start: start, End: end, Resolution: resolution, Size: size}
}

func (a Axis) contains(v float64) bool {
	return v >= a.Start && v <= a.End
}

func (a Axis) index(v float64) int {
	return int(math.Round((v - a.Start) / a.Resolution))
}

// Model is the static configuration of one regional wave-model grid:
// its name, its latitude/longitude axes (longitude expressed in 0-360),
// and the URL fragment NOMADS uses to identify it.
type Model struct {
	Name string
	Lat  Axis
	Lon  Axis
}

// Models lists the three regional grids in the fixed scan order the router
// tries them in. Bounds and resolution are NOAA NOMADS' published grid
// definitions for the gfswave regional models.
var Models = []Model{
	{
		Name: "wcoast.0p16",
		Lat:  newAxis(25.0, 49.0, 0.166667),
		Lon:  newAxis(210.0, 260.0, 0.166667),
	},
	{
		Name: "atlocn.0p16",
		Lat:  newAxis(0.0, 50.0, 0.166667),
		Lon:  newAxis(260.0, 310.0, 0.166667),
	},
	{
		Name: "gulfmex.0p16",
		Lat:  newAxis(15.0, 32.5, 0.166667),
		Lon:  newAxis(262.0, 300.0, 0.166667),
	},
}

// ErrOutOfGrid is returned by Route when a coordinate falls outside every
// configured model's rectangle.
var ErrOutOfGrid = errors.New("grid: coordinates fall outside all model grids")

// OutOfGridError carries the offending coordinates alongside the sentinel
// so callers can report them without re-deriving the normalized longitude.
type OutOfGridError struct {
	Lat, Lon           float64
	NormalizedLon      float64
}

func (e *OutOfGridError) Error() string {
	return fmt.Sprintf("grid: (%.4f, %.4f) [normalized lon %.4f] is outside all model grids", e.Lat, e.Lon, e.NormalizedLon)
}

func (e *OutOfGridError) Unwrap() error { return ErrOutOfGrid }

// Index identifies a single grid cell: the model it belongs to and its
// row/column within that model's axes.
type Index struct {
	Model Model
	Row   int
	Col   int
}

// NormalizeLon maps an arbitrary longitude into [0, 360).
func NormalizeLon(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return lon
}

// Route finds the first model (in Models' fixed order) whose rectangle
// contains (lat, lon) and returns its grid index. lon may be given in
// either -180..180 or 0..360 form; it is normalized before matching.
func Route(lat, lon float64) (Index, error) {
	normLon := NormalizeLon(lon)
	for _, m := range Models {
		if m.Lat.contains(lat) && m.Lon.contains(normLon) {
			return Index{
				Model: m,
				Row:   m.Lat.index(lat),
				Col:   m.Lon.index(normLon),
			}, nil
		}
	}
	return Index{}, &OutOfGridError{Lat: lat, Lon: lon, NormalizedLon: normLon}
}
