// Package geo provides great-circle distance checks for geofenced
// attendance marking.
package geo

import "math"

const earthRadiusKm = 6371

// Location is a WGS-84 latitude/longitude pair in degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Distance returns the great-circle distance between two locations in
// meters, computed with the haversine formula.
func Distance(a, b Location) float64 {
	dLat := deg2rad(b.Latitude - a.Latitude)
	dLon := deg2rad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(a.Latitude))*math.Cos(deg2rad(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c * 1000
}

// WithinRadius reports whether observed is within radiusMeters of anchor.
// A missing coordinate on either side fails closed.
func WithinRadius(anchor, observed *Location, radiusMeters float64) bool {
	if anchor == nil || observed == nil {
		return false
	}
	return Distance(*anchor, *observed) <= radiusMeters
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
