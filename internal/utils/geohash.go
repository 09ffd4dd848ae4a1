package utils

import (
	"math"

	"github.com/mmcloughlin/geohash"
)

// AreaPrecision is the geohash precision used to tag fixes with an area
// cell (~5km x 5km at precision 5).
const AreaPrecision = 5

// GeoPoint represents a geographical point with latitude and longitude
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// EncodeArea converts a coordinate pair to the area geohash cell.
func EncodeArea(latitude, longitude float64) string {
	return geohash.EncodeWithPrecision(latitude, longitude, AreaPrecision)
}

// EncodeWithPrecision converts a coordinate pair to a geohash string.
func EncodeWithPrecision(latitude, longitude float64, precision uint) string {
	return geohash.EncodeWithPrecision(latitude, longitude, precision)
}

// DecodeGeohash converts a geohash string back to latitude and longitude.
func DecodeGeohash(hash string) (latitude, longitude float64) {
	return geohash.Decode(hash)
}

// Neighbors returns the neighboring geohash cells of a given cell.
func Neighbors(hash string) []string {
	return geohash.Neighbors(hash)
}

// CalculateDistance calculates the distance between two points in
// kilometers using the Haversine formula.
func CalculateDistance(point1, point2 GeoPoint) float64 {
	const earthRadius = 6371.0

	lat1 := point1.Latitude * math.Pi / 180.0
	lon1 := point1.Longitude * math.Pi / 180.0
	lat2 := point2.Latitude * math.Pi / 180.0
	lon2 := point2.Longitude * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
