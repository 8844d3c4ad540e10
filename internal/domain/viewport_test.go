package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewportBounds(t *testing.T) {
	vp := Viewport{Latitude: 40, Longitude: -75, LatitudeSpan: 0.02, LongitudeSpan: 0.04}

	b := vp.Bounds()

	assert.InDelta(t, 39.99, b.MinLat, 1e-9)
	assert.InDelta(t, 40.01, b.MaxLat, 1e-9)
	assert.InDelta(t, -75.02, b.MinLng, 1e-9)
	assert.InDelta(t, -74.98, b.MaxLng, 1e-9)

	assert.True(t, b.Contains(Coordinates{Lat: 40.005, Lon: -75.01}))
	assert.False(t, b.Contains(Coordinates{Lat: 40.02, Lon: -75}))
}

func TestViewportValidate(t *testing.T) {
	require.NoError(t, NewViewport(Coordinates{Lat: 40, Lon: -75}, DefaultSpan).Validate())

	assert.Error(t, Viewport{Latitude: 91, LatitudeSpan: 1, LongitudeSpan: 1}.Validate())
	assert.Error(t, Viewport{Longitude: -181, LatitudeSpan: 1, LongitudeSpan: 1}.Validate())
	assert.Error(t, Viewport{Latitude: 1, Longitude: 1}.Validate())
}

func TestFetchQueryIsSnapshot(t *testing.T) {
	vp := Viewport{Latitude: 40.5, Longitude: -75.5, LatitudeSpan: 0.01, LongitudeSpan: 0.01}
	q := NewFetchQuery(vp)

	vp.Latitude = 0

	assert.Equal(t, 40.5, q.Viewport().Latitude)
}
