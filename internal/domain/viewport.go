package domain

import (
	"errors"
	"fmt"
)

// Degrees of extent visible on each axis.
type Span struct {
	Latitude  float64
	Longitude float64
}

// Span used to frame the first viewport after the device location is known.
var DefaultSpan = Span{Latitude: 0.010, Longitude: 0.0009}

// Viewport describes the map center and the visible geographic extent.
type Viewport struct {
	Latitude      float64
	Longitude     float64
	LatitudeSpan  float64
	LongitudeSpan float64
}

// NewViewport frames the given center with the given span.
func NewViewport(center Coordinates, span Span) Viewport {
	return Viewport{
		Latitude:      center.Lat,
		Longitude:     center.Lon,
		LatitudeSpan:  span.Latitude,
		LongitudeSpan: span.Longitude,
	}
}

func (v Viewport) Center() Coordinates {
	return Coordinates{Lat: v.Latitude, Lon: v.Longitude}
}

func (v Viewport) Span() Span {
	return Span{Latitude: v.LatitudeSpan, Longitude: v.LongitudeSpan}
}

// Validate rejects centers outside WGS84 and non-positive spans.
func (v Viewport) Validate() error {
	if err := v.Center().Validate(); err != nil {
		return fmt.Errorf("viewport center: %w", err)
	}
	if v.LatitudeSpan <= 0 || v.LongitudeSpan <= 0 {
		return errors.New("viewport span must be positive")
	}
	return nil
}

// Bounds returns the rectangle visible in the viewport (center ± span/2).
func (v Viewport) Bounds() Bounds {
	halfLat := v.LatitudeSpan / 2
	halfLng := v.LongitudeSpan / 2
	return Bounds{
		MinLat: v.Latitude - halfLat,
		MaxLat: v.Latitude + halfLat,
		MinLng: v.Longitude - halfLng,
		MaxLng: v.Longitude + halfLng,
	}
}

func (v Viewport) String() string {
	return fmt.Sprintf("lat=%g lng=%g latRange=%g lngRange=%g",
		v.Latitude, v.Longitude, v.LatitudeSpan, v.LongitudeSpan)
}

// Axis-aligned geographic rectangle.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

func (b Bounds) Contains(c Coordinates) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lon >= b.MinLng && c.Lon <= b.MaxLng
}

// FetchQuery is a snapshot of a Viewport taken when a fetch is committed.
// Fields are unexported so a query cannot be altered after it was derived.
type FetchQuery struct {
	viewport Viewport
}

func NewFetchQuery(v Viewport) FetchQuery {
	return FetchQuery{viewport: v}
}

func (q FetchQuery) Viewport() Viewport { return q.viewport }

func (q FetchQuery) Validate() error { return q.viewport.Validate() }
