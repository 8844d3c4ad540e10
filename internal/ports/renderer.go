package ports

import (
	"store-locator/internal/domain"
	"time"
)

// Renderer is the map-widget boundary driven by the store locator view.
// Calls are made from the view's event loop, one at a time.
type Renderer interface {
	// Shown while the device location is still unknown.
	ShowPlaceholder()
	// Mount the map with its initial region. The widget reports region
	// changes (including its own settle after mounting) back to the view.
	ShowMap(initial domain.Viewport)
	// Replace every marker with the given set.
	ShowMarkers(markers []domain.Marker)
	// Fade the update affordance in or out over the given duration.
	SetAffordance(visible bool, fade time.Duration)
	// Display a human readable error.
	ShowError(msg string)
}
