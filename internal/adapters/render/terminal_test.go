package render

import (
	"bytes"
	"store-locator/internal/domain"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var home = domain.Viewport{Latitude: 40, Longitude: -75, LatitudeSpan: 0.01, LongitudeSpan: 0.01}

func TestShowMapEmitsSettleEvent(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	var settled []domain.Viewport
	term.OnRegionChange = func(vp domain.Viewport) { settled = append(settled, vp) }

	term.ShowMap(home)

	assert.Equal(t, []domain.Viewport{home}, settled)
	assert.Contains(t, out.String(), "Map lat=40 lng=-75")
	region, mounted := term.Region()
	assert.True(t, mounted)
	assert.Equal(t, home, region)
}

func TestPanAndZoomReportRegions(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{})

	var settled []domain.Viewport
	term.OnRegionChange = func(vp domain.Viewport) { settled = append(settled, vp) }

	require.Error(t, term.Pan(1, 0), "no map before ShowMap")
	assert.Empty(t, settled)

	term.ShowMap(home)
	require.NoError(t, term.Pan(0.5, 1))
	require.NoError(t, term.Zoom(2))
	assert.Error(t, term.Zoom(0))

	require.Len(t, settled, 3)
	assert.InDelta(t, 40.01, settled[1].Latitude, 1e-9)
	assert.InDelta(t, -74.995, settled[1].Longitude, 1e-9)
	assert.InDelta(t, 0.02, settled[2].LatitudeSpan, 1e-9)
	assert.Equal(t, settled[1].Latitude, settled[2].Latitude)
}

func TestPanWrapsLongitudeAndClampsLatitude(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{})
	term.ShowMap(domain.Viewport{Latitude: 89.9, Longitude: 179.9, LatitudeSpan: 1, LongitudeSpan: 1})

	require.NoError(t, term.Pan(1, 1))
	region, _ := term.Region()
	assert.Equal(t, 90.0, region.Latitude)
	assert.InDelta(t, -179.1, region.Longitude, 1e-9)
}

func TestShowMarkersListsCallouts(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)
	term.ShowMap(home)

	flat := 2.5
	term.ShowMarkers(domain.Markers([]domain.Store{
		{ID: "s1", Name: "Corner Store", Address1: "1 Main St", Lat: 40.001, Lng: -75.001, FlatFee: &flat},
	}))

	text := out.String()
	assert.Contains(t, text, "A Corner Store")
	assert.Contains(t, text, "Flat fee: $2.5")

	out.Reset()
	term.ShowMarkers(nil)
	assert.Contains(t, out.String(), "No stores in this area.")
}

func TestMarkersOutsideRegionAreNotPlotted(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)
	term.ShowMap(home)
	out.Reset()

	term.ShowMarkers(domain.Markers([]domain.Store{{ID: "far", Name: "Far", Lat: 45, Lng: -75}}))

	grid := strings.SplitN(out.String(), "A Far", 2)[0]
	assert.NotContains(t, grid, "A")
}

func TestAffordanceAndErrorOutput(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	term.ShowPlaceholder()
	term.ShowError("Location permission denied")
	term.SetAffordance(true, 200*time.Millisecond)
	term.SetAffordance(false, 200*time.Millisecond)

	text := out.String()
	assert.Contains(t, text, "Locating you...")
	assert.Contains(t, text, "Error: Location permission denied")
	assert.Contains(t, text, "[ Update ] available")
	assert.Contains(t, text, "[ Update ] hidden")
}

func TestAffordanceStatusFollowsOpacity(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{})
	now := time.Now()

	assert.Equal(t, "[ Update ] hidden", term.AffordanceStatus(now))

	term.SetAffordance(true, 200*time.Millisecond)
	assert.Equal(t, "[ Update ] shown", term.AffordanceStatus(now), "no fade model means fully shown")

	opacity := 0.4
	term.Opacity = func(time.Time) float64 { return opacity }
	assert.Equal(t, "[ Update ] fading in (opacity 0.40)", term.AffordanceStatus(now))

	term.SetAffordance(false, 200*time.Millisecond)
	assert.Equal(t, "[ Update ] fading out (opacity 0.40)", term.AffordanceStatus(now))

	opacity = 0
	assert.Equal(t, "[ Update ] hidden", term.AffordanceStatus(now))
}
