package services

import (
	"context"
	"errors"
	"fmt"
	"store-locator/internal/domain"
	"store-locator/internal/platform/obs"
	"store-locator/internal/ports"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AcquireConfig is the configuration handed to the geolocation sensor.
type AcquireConfig struct {
	Authorization ports.AuthorizationScope
	Accuracy      ports.Accuracy
	Timeout       time.Duration
	MaximumAge    time.Duration
}

// DefaultAcquireConfig favors a quick, fresh, coarse fix.
func DefaultAcquireConfig() AcquireConfig {
	return AcquireConfig{
		Authorization: ports.AuthorizationWhenInUse,
		Accuracy:      ports.AccuracyLow,
		Timeout:       20 * time.Second,
		MaximumAge:    time.Second,
	}
}

// LocationAcquirer performs the one-shot, permission-gated acquisition of
// the device position. Concurrent callers share a single sensor request.
type LocationAcquirer struct {
	sensor  ports.LocationSensor
	log     *zap.SugaredLogger
	metrics *obs.Metrics
	group   singleflight.Group
}

func NewLocationAcquirer(sensor ports.LocationSensor, log *zap.SugaredLogger, metrics *obs.Metrics) *LocationAcquirer {
	if log == nil {
		log = obs.Logger()
	}
	return &LocationAcquirer{sensor: sensor, log: log, metrics: metrics}
}

// Acquire requests authorization and then a single position fix.
// Failures are reported as *AcquisitionError, except cancellation of ctx
// by the caller, which is returned as ctx.Err().
func (a *LocationAcquirer) Acquire(ctx context.Context, cfg AcquireConfig) (domain.Coordinates, error) {
	v, err, shared := a.group.Do("acquire", func() (any, error) {
		return a.acquire(ctx, cfg)
	})
	if shared {
		a.log.Debugw("location acquisition joined in-flight request")
	}
	if err != nil {
		return domain.Coordinates{}, err
	}
	return v.(domain.Coordinates), nil
}

func (a *LocationAcquirer) acquire(ctx context.Context, cfg AcquireConfig) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "location.Acquire")(&err)

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultAcquireConfig().Timeout
	}

	tctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	err = withDeadline(tctx, func(c context.Context) error {
		return a.sensor.RequestAuthorization(c, cfg.Authorization)
	})
	if err != nil {
		return domain.Coordinates{}, a.fail(ctx, cfg, err)
	}

	var pos ports.Position
	err = withDeadline(tctx, func(c context.Context) error {
		p, err := a.sensor.CurrentPosition(c, ports.PositionOptions{
			Accuracy:   cfg.Accuracy,
			Timeout:    cfg.Timeout,
			MaximumAge: cfg.MaximumAge,
		})
		pos = p
		return err
	})
	if err != nil {
		return domain.Coordinates{}, a.fail(ctx, cfg, err)
	}

	if err := pos.Coordinates.Validate(); err != nil {
		return domain.Coordinates{}, a.fail(ctx, cfg, fmt.Errorf("%v: %w", err, ports.ErrPositionUnavailable))
	}

	a.metrics.AcquisitionResult("ok")
	a.log.Infow("location acquired", "lat", pos.Coordinates.Lat, "lng", pos.Coordinates.Lon)

	return pos.Coordinates, nil
}

// fail classifies err. Only cancellation of ctx passes through
// unclassified; a deadline on ctx is a timeout like the acquisition's own.
func (a *LocationAcquirer) fail(ctx context.Context, cfg AcquireConfig, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}

	var acqErr *AcquisitionError
	switch {
	case errors.Is(err, ports.ErrPermissionDenied):
		acqErr = &AcquisitionError{
			Reason:  ReasonPermissionDenied,
			Message: "Location permission denied",
			Err:     err,
		}
	case errors.Is(err, context.DeadlineExceeded):
		msg := fmt.Sprintf("Location request timed out after %s", cfg.Timeout)
		if ctx.Err() != nil {
			msg = "Location request timed out"
		}
		acqErr = &AcquisitionError{
			Reason:  ReasonTimeout,
			Message: msg,
			Err:     err,
		}
	default:
		acqErr = &AcquisitionError{
			Reason:  ReasonUnavailable,
			Message: "Location unavailable",
			Err:     err,
		}
	}

	a.metrics.AcquisitionResult(string(acqErr.Reason))
	return acqErr
}

// withDeadline runs fn and stops waiting once ctx is done, so a sensor
// that ignores its context cannot hold the caller past the timeout.
func withDeadline(ctx context.Context, fn func(context.Context) error) error {
	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
