package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"store-locator/internal/domain"
	"store-locator/internal/platform/obs"
	"store-locator/internal/ports"
	"strings"
	"sync"
	"time"
)

var _ ports.LocationSensor = (*IPSensor)(nil)

// City-level precision is the best an IP lookup can offer.
const ipAccuracyMeters = 5000

type ipLocateResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// IPSensor derives a coarse position from the public IP address using an
// ip-api.com compatible endpoint. It needs no device permission.
//
// The last fix is reused while it is younger than the requested maximum
// age. The sensor is safe for concurrent use.
type IPSensor struct {
	session  *http.Client
	endpoint string
	now      func() time.Time

	mu   sync.Mutex
	last *ports.Position
}

func NewIPSensor(endpoint string) (*IPSensor, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("ip locate endpoint is empty")
	}

	return &IPSensor{
		session:  &http.Client{},
		endpoint: endpoint,
		now:      time.Now,
	}, nil
}

func (s *IPSensor) RequestAuthorization(ctx context.Context, scope ports.AuthorizationScope) error {
	return nil
}

func (s *IPSensor) CurrentPosition(ctx context.Context, opts ports.PositionOptions) (_ ports.Position, err error) {
	defer obs.Time(ctx, "geolocation.ip.CurrentPosition")(&err)

	if cached, ok := s.cached(opts.MaximumAge); ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return ports.Position{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.session.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ports.Position{}, ctxErr
		}
		return ports.Position{}, fmt.Errorf("ip locate request: %v: %w", err, ports.ErrPositionUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return ports.Position{}, fmt.Errorf(
			"ip locate: unexpected status %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(b)), ports.ErrPositionUnavailable,
		)
	}

	var decoded ipLocateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.Position{}, fmt.Errorf("decode ip locate response: %v: %w", err, ports.ErrPositionUnavailable)
	}

	if decoded.Status != "" && decoded.Status != "success" {
		return ports.Position{}, fmt.Errorf("ip locate: %s: %w", decoded.Message, ports.ErrPositionUnavailable)
	}

	coords := domain.Coordinates{Lat: decoded.Lat, Lon: decoded.Lon}
	if err := coords.Validate(); err != nil {
		return ports.Position{}, fmt.Errorf("ip locate: %v: %w", err, ports.ErrPositionUnavailable)
	}

	pos := ports.Position{
		Coordinates:    coords,
		AccuracyMeters: ipAccuracyMeters,
		Timestamp:      s.now(),
	}

	s.mu.Lock()
	s.last = &pos
	s.mu.Unlock()

	return pos, nil
}

func (s *IPSensor) cached(maxAge time.Duration) (ports.Position, bool) {
	if maxAge <= 0 {
		return ports.Position{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil || s.now().Sub(s.last.Timestamp) > maxAge {
		return ports.Position{}, false
	}
	return *s.last, true
}
