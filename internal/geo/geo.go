// Package geo holds the pure geodesic helpers used to validate and search
// complaint locations, plus the client for the external geocoding provider.
package geo

import (
	"fmt"
	"math"

	"grievance/internal/domain"
)

// EarthRadiusKM is the mean Earth radius used by the haversine formula.
const EarthRadiusKM = 6371.0

type Point struct {
	Lng float64
	Lat float64
}

func PointOf(g domain.GeoLocation) Point {
	return Point{Lng: g.Lng(), Lat: g.Lat()}
}

// Bounds is an axis-aligned lon/lat rectangle.
type Bounds struct {
	MinLng float64
	MaxLng float64
	MinLat float64
	MaxLat float64
}

// RajasthanBounds approximates the state's bounding box.
var RajasthanBounds = Bounds{
	MinLat: 23.03,
	MaxLat: 30.12,
	MinLng: 69.30,
	MaxLng: 78.17,
}

func CoordinateValid(lng, lat float64) bool {
	if math.IsNaN(lng) || math.IsNaN(lat) || math.IsInf(lng, 0) || math.IsInf(lat, 0) {
		return false
	}
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

// WithinRegion is advisory: callers flag, never reject, points outside b.
func WithinRegion(lng, lat float64, b Bounds) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// DistanceKm returns the great-circle distance between a and b.
func DistanceKm(a, b Point) float64 {
	if a == b {
		return 0
	}
	dLat := deg2rad(b.Lat - a.Lat)
	dLng := deg2rad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(a.Lat))*math.Cos(deg2rad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	// rounding can push h marginally past 1 for antipodal points
	h = math.Min(1, math.Max(0, h))

	return EarthRadiusKM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Links builds OpenStreetMap URLs centred on the point.
func Links(lng, lat float64, zoom int) domain.MapLinks {
	if zoom <= 0 {
		zoom = 15
	}
	return domain.MapLinks{
		StaticMapURL: fmt.Sprintf(
			"https://www.openstreetmap.org/export/embed.html?bbox=%f,%f,%f,%f&layer=mapnik&marker=%f,%f",
			lng-0.01, lat-0.01, lng+0.01, lat+0.01, lat, lng,
		),
		InteractiveURL: fmt.Sprintf("https://www.openstreetmap.org/?mlat=%f&mlon=%f#map=%d/%f/%f", lat, lng, zoom, lat, lng),
		Coordinates:    [2]float64{lng, lat},
	}
}
