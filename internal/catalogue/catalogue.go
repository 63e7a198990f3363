// Package catalogue loads the fixed set of offshore stations this service
// aggregates conditions for. The catalogue is read once at startup from a
// GeoJSON file and is immutable thereafter.
package catalogue

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/cor0nius/saltyocean/internal/grid"
)

// Station is one entry in the catalogue: an identifier, a display name, a
// point location, and capability flags computed once at load time.
//
// A small fraction of station IDs are longer than the canonical 7-digit
// NOAA form; the catalogue treats every ID as an opaque string and does
// not validate its shape.
type Station struct {
	ID   string
	Name string
	// Type mirrors the source GeoJSON's properties.type (e.g. "buoy",
	// "fixed platform"); carried through but not interpreted further.
	Type string
	Lon  float64
	Lat  float64

	// HasLiveData mirrors properties.hasRealTimeData: whether the station
	// is expected to publish buoy observations at all.
	HasLiveData bool
	// InGrid is true if (Lat, Lon) falls inside one of the forecast
	// models' rectangles, computed once via internal/grid.
	InGrid bool
}

// Catalogue is an immutable, read-only lookup of Stations by ID, with a
// brute-force nearest-neighbor search. Safe for concurrent use since
// nothing about it changes after Load returns.
type Catalogue struct {
	stations map[string]Station
	ordered  []Station // stable order for All() and AsGeoJSON()
}

// Load reads a GeoJSON FeatureCollection of Point features from path and
// builds a Catalogue. Each feature must carry properties.id;
// properties.name, properties.type and properties.hasRealTimeData are
// optional and default to "" / "" / false.
func Load(path string) (*Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalogue: opening %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("catalogue: reading %s: %w", path, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("catalogue: parsing %s: %w", path, err)
	}

	c := &Catalogue{
		stations: make(map[string]Station, len(fc.Features)),
	}

	for _, feat := range fc.Features {
		station, err := stationFromFeature(feat)
		if err != nil {
			return nil, fmt.Errorf("catalogue: %w", err)
		}
		c.stations[station.ID] = station
		c.ordered = append(c.ordered, station)
	}

	sort.Slice(c.ordered, func(i, j int) bool { return c.ordered[i].ID < c.ordered[j].ID })

	return c, nil
}

func stationFromFeature(feat *geojson.Feature) (Station, error) {
	pt, ok := feat.Geometry.(orb.Point)
	if !ok {
		return Station{}, fmt.Errorf("feature geometry is %T, want Point", feat.Geometry)
	}

	id := feat.Properties.MustString("id", "")
	if id == "" {
		return Station{}, fmt.Errorf("feature missing properties.id")
	}

	name := feat.Properties.MustString("name", "")
	stationType := feat.Properties.MustString("type", "")
	hasLiveData := feat.Properties.MustBool("hasRealTimeData", false)

	lon, lat := pt.Lon(), pt.Lat()
	_, err := grid.Route(lat, lon)
	inGrid := err == nil

	return Station{
		ID:          id,
		Name:        name,
		Type:        stationType,
		Lon:         lon,
		Lat:         lat,
		HasLiveData: hasLiveData,
		InGrid:      inGrid,
	}, nil
}

// Get returns the Station with the given ID, or false if the catalogue
// has no such station.
func (c *Catalogue) Get(id string) (Station, bool) {
	s, ok := c.stations[id]
	return s, ok
}

// All returns every station, in stable ID order.
func (c *Catalogue) All() []Station {
	out := make([]Station, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of stations in the catalogue.
func (c *Catalogue) Len() int {
	return len(c.ordered)
}

// Nearest returns the station whose great-circle distance to (lat, lon) is
// smallest. It returns false only if the catalogue is empty.
func (c *Catalogue) Nearest(lat, lon float64) (Station, bool) {
	if len(c.ordered) == 0 {
		return Station{}, false
	}
	best := c.ordered[0]
	bestDist := haversineKM(lat, lon, best.Lat, best.Lon)
	for _, s := range c.ordered[1:] {
		d := haversineKM(lat, lon, s.Lat, s.Lon)
		if d < bestDist {
			best, bestDist = s, d
		}
	}
	return best, true
}

const earthRadiusKM = 6371.0

// haversineKM computes the great-circle distance between two points in
// kilometers.
func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

// AsGeoJSON renders the full catalogue back into a GeoJSON
// FeatureCollection of Point features, the same shape it was loaded from.
func (c *Catalogue) AsGeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range c.ordered {
		feat := geojson.NewFeature(orb.Point{s.Lon, s.Lat})
		feat.Properties = map[string]any{
			"id":              s.ID,
			"name":            s.Name,
			"type":            s.Type,
			"hasRealTimeData": s.HasLiveData,
			"inGrid":          s.InGrid,
		}
		fc.Append(feat)
	}
	return fc
}
