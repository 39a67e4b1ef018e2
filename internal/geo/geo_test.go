package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePoints = []Point{
	{Lng: 75.8, Lat: 26.9},   // Jaipur
	{Lng: 73.02, Lat: 26.24}, // Jodhpur
	{Lng: 0, Lat: 0},
	{Lng: -122.42, Lat: 37.77},
	{Lng: 179.9, Lat: -45.1},
	{Lng: -180, Lat: 90},
	{Lng: 151.21, Lat: -33.87},
}

func TestCoordinateValid(t *testing.T) {
	cases := []struct {
		lng, lat float64
		want     bool
	}{
		{0, 0, true},
		{-180, -90, true},
		{180, 90, true},
		{180.0001, 0, false},
		{0, -90.5, false},
		{math.NaN(), 0, false},
		{0, math.Inf(1), false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CoordinateValid(c.lng, c.lat), "lng=%v lat=%v", c.lng, c.lat)
	}
}

func TestWithinRegion(t *testing.T) {
	assert.True(t, WithinRegion(75.8, 26.9, RajasthanBounds))
	assert.True(t, WithinRegion(69.30, 23.03, RajasthanBounds), "edges are inclusive")
	assert.False(t, WithinRegion(77.2, 28.6+2, RajasthanBounds))
	assert.False(t, WithinRegion(72.87, 19.07, RajasthanBounds), "Mumbai is outside")
}

func TestDistanceKm_Identity(t *testing.T) {
	for _, p := range samplePoints {
		assert.Zero(t, DistanceKm(p, p))
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	for _, a := range samplePoints {
		for _, b := range samplePoints {
			assert.Equal(t, DistanceKm(a, b), DistanceKm(b, a))
		}
	}
}

func TestDistanceKm_TriangleInequality(t *testing.T) {
	const eps = 1e-9
	for _, a := range samplePoints {
		for _, b := range samplePoints {
			for _, c := range samplePoints {
				assert.LessOrEqual(t, DistanceKm(a, c), DistanceKm(a, b)+DistanceKm(b, c)+eps)
			}
		}
	}
}

func TestDistanceKm_KnownValues(t *testing.T) {
	// one degree of latitude on a 6371 km sphere
	got := DistanceKm(Point{Lng: 0, Lat: 0}, Point{Lng: 0, Lat: 1})
	require.InDelta(t, 111.195, got, 0.001)

	jaipurJodhpur := DistanceKm(Point{Lng: 75.7873, Lat: 26.9124}, Point{Lng: 73.0243, Lat: 26.2389})
	require.InDelta(t, 284.5, jaipurJodhpur, 3)

	antipodal := DistanceKm(Point{Lng: 0, Lat: 0}, Point{Lng: 180, Lat: 0})
	require.InDelta(t, math.Pi*EarthRadiusKM, antipodal, 1e-6)
}

func TestLinks(t *testing.T) {
	l := Links(75.8, 26.9, 0)
	assert.Equal(t, [2]float64{75.8, 26.9}, l.Coordinates)
	assert.Contains(t, l.InteractiveURL, "#map=15/")
	assert.Contains(t, l.StaticMapURL, "marker=26.900000,75.800000")
}
