package models

import (
	"fmt"
	"math"
)

const metersPerDegreeLatitude = 111320.0

// Coordinate is a WGS 84 point.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate reports whether the coordinate lies within valid latitude and longitude ranges.
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 || math.IsNaN(c.Latitude) {
		return fmt.Errorf("invalid latitude: %f", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 || math.IsNaN(c.Longitude) {
		return fmt.Errorf("invalid longitude: %f", c.Longitude)
	}
	return nil
}

// Region is a center point with latitudinal and longitudinal spans in meters.
type Region struct {
	Center             Coordinate
	LatitudinalMeters  float64
	LongitudinalMeters float64
}

// Bounds is a lat/lon bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Bounds converts the region into a bounding box. A span that crosses a pole
// or the antimeridian widens to the full range on that axis.
func (r Region) Bounds() Bounds {
	halfLat := r.LatitudinalMeters / 2 / metersPerDegreeLatitude
	minLat := math.Max(r.Center.Latitude-halfLat, -90)
	maxLat := math.Min(r.Center.Latitude+halfLat, 90)

	b := Bounds{MinLat: minLat, MaxLat: maxLat, MinLon: -180, MaxLon: 180}

	cos := math.Cos(r.Center.Latitude * math.Pi / 180)
	if cos <= 1e-9 {
		return b
	}
	halfLon := r.LongitudinalMeters / 2 / (metersPerDegreeLatitude * cos)
	if halfLon >= 180 {
		return b
	}
	minLon := r.Center.Longitude - halfLon
	maxLon := r.Center.Longitude + halfLon
	if minLon < -180 || maxLon > 180 {
		return b
	}
	b.MinLon = minLon
	b.MaxLon = maxLon
	return b
}
