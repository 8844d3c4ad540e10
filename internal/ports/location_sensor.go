package ports

import (
	"context"
	"errors"
	"store-locator/internal/domain"
	"time"
)

// Authorization scope requested from the platform before reading a position.
type AuthorizationScope string

const (
	AuthorizationWhenInUse AuthorizationScope = "whenInUse"
	AuthorizationAlways    AuthorizationScope = "always"
)

// Accuracy preference; Low trades precision for speed and battery.
type Accuracy string

const (
	AccuracyLow  Accuracy = "low"
	AccuracyHigh Accuracy = "high"
)

// Options for a one-shot position request.
type PositionOptions struct {
	Accuracy   Accuracy
	Timeout    time.Duration
	MaximumAge time.Duration
}

// A position fix produced by a sensor.
type Position struct {
	Coordinates    domain.Coordinates
	AccuracyMeters float64
	Timestamp      time.Time
}

// Errors a sensor reports; adapters wrap them with detail.
var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("location unavailable")
)

// Contract for the device geolocation service.
type LocationSensor interface {
	// Ask the platform for the given authorization scope.
	RequestAuthorization(ctx context.Context, scope AuthorizationScope) error
	// Return a single position fix honoring the options.
	CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error)
}
