package domain

// Lifecycle phase of a store locator view.
type Phase int

const (
	// No location yet; no map is rendered.
	AwaitingLocation Phase = iota
	// Baseline viewport established and no unconfirmed change.
	Ready
	// A user-driven viewport change is waiting for confirmation.
	PendingConfirmation
)

func (p Phase) String() string {
	switch p {
	case AwaitingLocation:
		return "AwaitingLocation"
	case Ready:
		return "Ready"
	case PendingConfirmation:
		return "PendingConfirmation"
	default:
		return "Unknown"
	}
}

// SyncState pairs the phase with the viewport it carries. Viewport is the
// zero value while AwaitingLocation.
type SyncState struct {
	Phase    Phase
	Viewport Viewport
}
