package geolocation

import (
	"context"
	"fmt"
	"store-locator/internal/domain"
	"store-locator/internal/ports"
	"time"
)

var _ ports.LocationSensor = (*StaticSensor)(nil)

// StaticSensor reports a fixed position, for desktops and demos without a
// positioning device. Deny simulates a user refusing the permission prompt.
type StaticSensor struct {
	Coordinates domain.Coordinates
	Deny        bool
	// Delay before the fix is reported; the request honors ctx while waiting.
	Delay time.Duration
	// Now is the clock used for timestamps; nil means time.Now.
	Now func() time.Time
}

func (s *StaticSensor) RequestAuthorization(ctx context.Context, scope ports.AuthorizationScope) error {
	if s.Deny {
		return fmt.Errorf("static sensor: scope %q: %w", scope, ports.ErrPermissionDenied)
	}
	return nil
}

func (s *StaticSensor) CurrentPosition(ctx context.Context, opts ports.PositionOptions) (ports.Position, error) {
	if s.Deny {
		return ports.Position{}, fmt.Errorf("static sensor: %w", ports.ErrPermissionDenied)
	}
	if err := s.Coordinates.Validate(); err != nil {
		return ports.Position{}, fmt.Errorf("static sensor: %v: %w", err, ports.ErrPositionUnavailable)
	}

	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ports.Position{}, ctx.Err()
		case <-timer.C:
		}
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	return ports.Position{
		Coordinates: s.Coordinates,
		Timestamp:   now(),
	}, nil
}
