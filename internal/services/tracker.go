package services

import (
	"fmt"
	"store-locator/internal/domain"
	"time"
)

// What a region-change event did to the tracker.
type RegionChange int

const (
	// No baseline yet; the event was dropped.
	RegionIgnored RegionChange = iota
	// First event after entering Ready; treated as the widget's own settle.
	RegionSuppressed
	// Ready -> PendingConfirmation; the affordance appeared.
	RegionArmed
	// Already pending; the stored viewport was replaced.
	RegionCoalesced
)

func (r RegionChange) String() string {
	switch r {
	case RegionIgnored:
		return "ignored"
	case RegionSuppressed:
		return "suppressed"
	case RegionArmed:
		return "armed"
	case RegionCoalesced:
		return "coalesced"
	default:
		return "unknown"
	}
}

// syntheticGuard swallows the first region change after each entry into
// Ready. Handing the widget a region makes it report a settle of its own.
type syntheticGuard struct {
	armed bool
}

func (g *syntheticGuard) arm() { g.armed = true }

func (g *syntheticGuard) consume() bool {
	if !g.armed {
		return false
	}
	g.armed = false
	return true
}

// ViewportTracker owns the SyncState of one view. It is not safe for
// concurrent use; the view serializes every call on its event loop.
type ViewportTracker struct {
	state      domain.SyncState
	guard      syntheticGuard
	affordance *Affordance
	now        func() time.Time
}

// NewViewportTracker starts in AwaitingLocation. now may be nil.
func NewViewportTracker(fade time.Duration, now func() time.Time) *ViewportTracker {
	if now == nil {
		now = time.Now
	}
	return &ViewportTracker{
		state:      domain.SyncState{Phase: domain.AwaitingLocation},
		affordance: NewAffordance(fade),
		now:        now,
	}
}

func (t *ViewportTracker) State() domain.SyncState { return t.state }

func (t *ViewportTracker) Affordance() *Affordance { return t.affordance }

// AffordanceVisible is true exactly when a change awaits confirmation.
func (t *ViewportTracker) AffordanceVisible() bool {
	return t.state.Phase == domain.PendingConfirmation
}

// Baseline handles the location result: AwaitingLocation -> Ready. The
// returned query is fetched without confirmation.
func (t *ViewportTracker) Baseline(vp domain.Viewport) (domain.FetchQuery, error) {
	if t.state.Phase != domain.AwaitingLocation {
		return domain.FetchQuery{}, fmt.Errorf("baseline viewport: already in %s", t.state.Phase)
	}
	if err := vp.Validate(); err != nil {
		return domain.FetchQuery{}, fmt.Errorf("baseline viewport: %w", err)
	}

	t.enterReady(vp)
	return domain.NewFetchQuery(vp), nil
}

// RegionChanged classifies a region-settled event from the map widget.
func (t *ViewportTracker) RegionChanged(vp domain.Viewport) RegionChange {
	switch t.state.Phase {
	case domain.Ready:
		if t.guard.consume() {
			return RegionSuppressed
		}
		t.state = domain.SyncState{Phase: domain.PendingConfirmation, Viewport: vp}
		t.syncAffordance()
		return RegionArmed
	case domain.PendingConfirmation:
		t.state.Viewport = vp
		return RegionCoalesced
	default:
		return RegionIgnored
	}
}

// Confirm commits the pending viewport: PendingConfirmation -> Ready. It
// returns false, and changes nothing, in any other phase.
func (t *ViewportTracker) Confirm() (domain.FetchQuery, bool) {
	if t.state.Phase != domain.PendingConfirmation {
		return domain.FetchQuery{}, false
	}

	vp := t.state.Viewport
	t.enterReady(vp)
	return domain.NewFetchQuery(vp), true
}

func (t *ViewportTracker) enterReady(vp domain.Viewport) {
	t.state = domain.SyncState{Phase: domain.Ready, Viewport: vp}
	t.guard.arm()
	t.syncAffordance()
}

func (t *ViewportTracker) syncAffordance() {
	t.affordance.Set(t.AffordanceVisible(), t.now())
}
