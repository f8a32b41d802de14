// Package geo computes great-circle distances between coordinates.
package geo

import (
	"math"

	"github.com/playperu/geodash/internal/geodash"
)

// EarthRadius is the mean Earth radius in meters.
const EarthRadius = 6371008.8

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b geodash.Coordinate) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := lat2 - lat1
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadius * math.Asin(math.Min(1, math.Sqrt(h)))
}

func Valid(c geodash.Coordinate) bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180 &&
		!math.IsNaN(c.Latitude) && !math.IsNaN(c.Longitude)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
