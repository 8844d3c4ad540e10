package render

import (
	"fmt"
	"io"
	"math"
	"store-locator/internal/domain"
	"store-locator/internal/ports"
	"strings"
	"sync"
	"time"
)

var _ ports.Renderer = (*Terminal)(nil)

const (
	gridWidth  = 41
	gridHeight = 13
)

// Terminal is a text map widget. It draws the current region with its
// markers on a character grid and reports every settled region change to
// OnRegionChange, including the settle that follows the first placement.
type Terminal struct {
	out io.Writer

	// OnRegionChange receives every settled region. It is called without
	// the widget lock held.
	OnRegionChange func(domain.Viewport)

	// Opacity samples the update control's fade. When nil the control is
	// drawn fully shown or hidden.
	Opacity func(time.Time) float64

	mu         sync.Mutex
	region     domain.Viewport
	mounted    bool
	markers    []domain.Marker
	affordance bool
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) ShowPlaceholder() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, "Locating you...")
}

// ShowMap mounts the map at initial. Like a native map view, mounting
// settles the region once, which is reported as a region change.
func (t *Terminal) ShowMap(initial domain.Viewport) {
	t.mu.Lock()
	t.region = initial
	t.mounted = true
	t.draw()
	t.mu.Unlock()

	t.settle(initial)
}

func (t *Terminal) ShowMarkers(markers []domain.Marker) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.markers = markers
	t.draw()
	if len(markers) == 0 {
		fmt.Fprintln(t.out, "No stores in this area.")
		return
	}
	for i, m := range markers {
		fmt.Fprintf(t.out, "%s %s\n    %s\n    %s\n", label(i), m.Title, m.Address, m.Fee)
	}
}

func (t *Terminal) SetAffordance(visible bool, fade time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.affordance = visible
	if visible {
		fmt.Fprintf(t.out, "[ Update ] available (fade in %s), type \"update\" to refresh stores\n", fade)
		return
	}
	fmt.Fprintf(t.out, "[ Update ] hidden (fade out %s)\n", fade)
}

func (t *Terminal) ShowError(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "Error: %s\n", msg)
}

// AffordanceStatus describes the update control as drawn at now.
func (t *Terminal) AffordanceStatus(now time.Time) string {
	t.mu.Lock()
	visible := t.affordance
	t.mu.Unlock()

	opacity := 0.0
	if visible {
		opacity = 1
	}
	if t.Opacity != nil {
		opacity = t.Opacity(now)
	}

	switch {
	case visible && opacity >= 1:
		return "[ Update ] shown"
	case visible:
		return fmt.Sprintf("[ Update ] fading in (opacity %.2f)", opacity)
	case opacity > 0:
		return fmt.Sprintf("[ Update ] fading out (opacity %.2f)", opacity)
	default:
		return "[ Update ] hidden"
	}
}

// Pan moves the region by a fraction of its span on each axis.
// Positive dy moves north, positive dx moves east.
func (t *Terminal) Pan(dx, dy float64) error {
	return t.move(func(r domain.Viewport) domain.Viewport {
		r.Latitude = clamp(r.Latitude+dy*r.LatitudeSpan, -90, 90)
		r.Longitude = wrapLongitude(r.Longitude + dx*r.LongitudeSpan)
		return r
	})
}

// Zoom scales the span; factors below 1 zoom in.
func (t *Terminal) Zoom(factor float64) error {
	if factor <= 0 {
		return fmt.Errorf("zoom factor must be positive, got %g", factor)
	}
	return t.move(func(r domain.Viewport) domain.Viewport {
		r.LatitudeSpan = math.Min(r.LatitudeSpan*factor, 180)
		r.LongitudeSpan = math.Min(r.LongitudeSpan*factor, 360)
		return r
	})
}

// Region returns the region currently shown.
func (t *Terminal) Region() (domain.Viewport, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.region, t.mounted
}

func (t *Terminal) move(fn func(domain.Viewport) domain.Viewport) error {
	t.mu.Lock()
	if !t.mounted {
		t.mu.Unlock()
		return fmt.Errorf("map is not shown yet")
	}
	t.region = fn(t.region)
	region := t.region
	t.draw()
	t.mu.Unlock()

	t.settle(region)
	return nil
}

func (t *Terminal) settle(region domain.Viewport) {
	if t.OnRegionChange != nil {
		t.OnRegionChange(region)
	}
}

// draw renders the grid. Callers hold t.mu.
func (t *Terminal) draw() {
	grid := make([][]byte, gridHeight)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(".", gridWidth))
	}
	grid[gridHeight/2][gridWidth/2] = '+'

	b := t.region.Bounds()
	for i, m := range t.markers {
		if !b.Contains(m.Position) {
			continue
		}
		x := int(math.Round((m.Position.Lon - b.MinLng) / (b.MaxLng - b.MinLng) * float64(gridWidth-1)))
		y := int(math.Round((b.MaxLat - m.Position.Lat) / (b.MaxLat - b.MinLat) * float64(gridHeight-1)))
		grid[y][x] = label(i)[0]
	}

	fmt.Fprintf(t.out, "Map %s\n", t.region.String())
	for _, row := range grid {
		fmt.Fprintf(t.out, "  %s\n", row)
	}
}

// label names the i-th marker with a single character.
func label(i int) string {
	const labels = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	if i < len(labels) {
		return labels[i : i+1]
	}
	return "*"
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func wrapLongitude(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}
