package services

import (
	"sync"
	"time"
)

// Affordance models the fade of the update control. Visibility flips
// immediately; opacity follows linearly over the fade duration, starting
// from wherever a previous fade had reached. It is safe for concurrent use
// so renderers may sample opacity off the event loop.
type Affordance struct {
	mu      sync.Mutex
	fade    time.Duration
	visible bool
	from    float64
	start   time.Time
}

func NewAffordance(fade time.Duration) *Affordance {
	return &Affordance{fade: fade}
}

func (a *Affordance) Visible() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.visible
}

// Set starts a fade toward visible. It reports whether visibility changed.
func (a *Affordance) Set(visible bool, now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.visible == visible {
		return false
	}
	a.from = a.opacity(now)
	a.start = now
	a.visible = visible
	return true
}

// Opacity returns the rendered opacity in [0, 1] at now.
func (a *Affordance) Opacity(now time.Time) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.opacity(now)
}

func (a *Affordance) opacity(now time.Time) float64 {
	target := 0.0
	if a.visible {
		target = 1
	}
	if a.start.IsZero() || a.fade <= 0 {
		return target
	}

	elapsed := now.Sub(a.start)
	if elapsed >= a.fade {
		return target
	}
	if elapsed <= 0 {
		return a.from
	}

	progress := float64(elapsed) / float64(a.fade)
	return a.from + (target-a.from)*progress
}
