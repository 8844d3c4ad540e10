package geolocation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"store-locator/internal/domain"
	"store-locator/internal/ports"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPSensorReusesFreshFix(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"status":"success","lat":40.0,"lon":-75.0}`))
	}))
	defer srv.Close()

	s, err := NewIPSensor(srv.URL)
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	opts := ports.PositionOptions{Accuracy: ports.AccuracyLow, MaximumAge: time.Second}

	pos, err := s.CurrentPosition(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lat: 40, Lon: -75}, pos.Coordinates)

	now = now.Add(500 * time.Millisecond)
	_, err = s.CurrentPosition(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	now = now.Add(time.Second)
	_, err = s.CurrentPosition(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestIPSensorFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer srv.Close()

	s, err := NewIPSensor(srv.URL)
	require.NoError(t, err)

	_, err = s.CurrentPosition(context.Background(), ports.PositionOptions{})
	assert.True(t, errors.Is(err, ports.ErrPositionUnavailable), "got %v", err)
	assert.ErrorContains(t, err, "private range")
}

func TestStaticSensorDenied(t *testing.T) {
	s := &StaticSensor{Coordinates: domain.Coordinates{Lat: 40, Lon: -75}, Deny: true}

	err := s.RequestAuthorization(context.Background(), ports.AuthorizationWhenInUse)
	assert.True(t, errors.Is(err, ports.ErrPermissionDenied))
}

func TestStaticSensorHonorsContextWhileDelayed(t *testing.T) {
	s := &StaticSensor{Coordinates: domain.Coordinates{Lat: 40, Lon: -75}, Delay: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.CurrentPosition(ctx, ports.PositionOptions{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
